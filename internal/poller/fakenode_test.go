package poller

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// fakeNode is an httptest JSON-RPC node that answers by method name and
// counts calls per method.
type fakeNode struct {
	*httptest.Server
	mu      sync.Mutex
	replies map[string]string
	calls   map[string]int
}

func newFakeNode(t *testing.T, replies map[string]string) *fakeNode {
	t.Helper()
	n := &fakeNode{replies: replies, calls: make(map[string]int)}
	n.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		method := methodOf(string(body))

		n.mu.Lock()
		n.calls[method]++
		reply, ok := n.replies[method]
		n.mu.Unlock()

		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(reply))
	}))
	t.Cleanup(n.Close)
	return n
}

func (n *fakeNode) set(method, reply string) {
	n.mu.Lock()
	n.replies[method] = reply
	n.mu.Unlock()
}

func (n *fakeNode) drop(method string) {
	n.mu.Lock()
	delete(n.replies, method)
	n.mu.Unlock()
}

func (n *fakeNode) count(method string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls[method]
}

func methodOf(body string) string {
	const pat = `"method":"`
	i := strings.Index(body, pat)
	if i < 0 {
		return ""
	}
	rest := body[i+len(pat):]
	return rest[:strings.IndexByte(rest, '"')]
}

func arrayOf(n int, elem string) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = elem
	}
	return "[" + strings.Join(parts, ",") + "]"
}
