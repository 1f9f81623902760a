// Package rpc issues fixed JSON-RPC request bodies to a CKB node.
package rpc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/b0ase/ckb-s3/internal/link"
	"github.com/b0ase/ckb-s3/internal/logging"
)

var (
	// ErrLinkUnavailable means no request was attempted because the link is down.
	ErrLinkUnavailable = errors.New("link unavailable")
	// ErrFetchFailed covers timeouts, refused connections, non-200 replies
	// and body read failures alike.
	ErrFetchFailed = errors.New("fetch failed")
)

var log = logging.For("rpc")

// Client posts request bodies to one endpoint. Each call opens a fresh
// connection and runs to completion or timeout; there is no retry.
type Client struct {
	endpoint string
	link     link.Status
	client   *http.Client
}

func NewClient(endpoint string, timeout time.Duration, ls link.Status) *Client {
	return &Client{
		endpoint: endpoint,
		link:     ls,
		client: &http.Client{
			Timeout:   timeout,
			Transport: &http.Transport{DisableKeepAlives: true},
		},
	}
}

// Endpoint returns the URL requests are sent to.
func (c *Client) Endpoint() string { return c.endpoint }

// Call posts body and returns the raw response text.
func (c *Client) Call(body string) (string, error) {
	if c.link != nil && !c.link.Connected() {
		return "", ErrLinkUnavailable
	}

	resp, err := c.client.Post(c.endpoint, "application/json", bytes.NewReader([]byte(body)))
	if err != nil {
		log.Debugf("post %s: %v", c.endpoint, err)
		return "", fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("%w: HTTP %d", ErrFetchFailed, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", ErrFetchFailed, err)
	}
	return string(data), nil
}
