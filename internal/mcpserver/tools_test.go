package mcpserver

import (
	"context"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b0ase/ckb-s3/internal/state"
)

type fakeNode struct{ snap state.NodeSnapshot }

func (f *fakeNode) Device() string                   { return "node" }
func (f *fakeNode) Uptime() time.Duration            { return 90 * time.Second }
func (f *fakeNode) NodeSnapshot() state.NodeSnapshot { return f.snap }
func (f *fakeNode) NodeEndpoint() string             { return "http://10.0.0.5:8114" }

type fakeWallet struct{ snap state.WalletSnapshot }

func (f *fakeWallet) Device() string                       { return "wallet" }
func (f *fakeWallet) Uptime() time.Duration                { return time.Minute }
func (f *fakeWallet) WalletSnapshot() state.WalletSnapshot { return f.snap }

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestNodeStatusBeforeFirstPoll(t *testing.T) {
	s := New("test", &fakeNode{snap: state.NodeSnapshot{PollCount: 3}})

	res, _, err := s.handleNodeStatus(context.Background(), nil, emptyInput{})
	require.NoError(t, err)
	text := resultText(t, res)
	assert.Contains(t, text, "No successful poll yet (3 attempts)")
	assert.Contains(t, text, "http://10.0.0.5:8114")
}

func TestNodeStatus(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	node := &fakeNode{snap: state.NodeSnapshot{
		Height:         18709151,
		PeerCount:      21,
		PendingTxCount: 4,
		Epoch:          state.Epoch{Number: 11234, Index: 900, Length: 1800},
		LastSuccess:    now.Add(-25 * time.Second),
		PollCount:      10,
		Healthy:        true,
		NodeIDSuffix:   "...0123456789abcdef",
	}}
	s := New("test", node)
	s.now = func() time.Time { return now }

	res, _, err := s.handleNodeStatus(context.Background(), nil, emptyInput{})
	require.NoError(t, err)
	text := resultText(t, res)
	assert.Contains(t, text, "Tip height: 18,709,151")
	assert.Contains(t, text, "Last block:  25s ago (aging)")
	assert.Contains(t, text, "Epoch: 11234 (900/1800, 50%)")
	assert.Contains(t, text, "Peers: 21")
	assert.Contains(t, text, "Pending transactions: 4")
	assert.Contains(t, text, "...0123456789abcdef")
}

func TestWalletStatusOnNodeDaemon(t *testing.T) {
	s := New("test", &fakeNode{})
	res, _, err := s.handleWalletStatus(context.Background(), nil, emptyInput{})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestWalletStatus(t *testing.T) {
	s := New("test", &fakeWallet{})
	res, _, err := s.handleWalletStatus(context.Background(), nil, emptyInput{})
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), "No key loaded")

	w := state.WalletSnapshot{Address: "ckt1qxyz", KeyLoaded: true}
	w.SetBalance(197500000000, time.Now())
	w.Send.LastError = "signing unsupported"
	s = New("test", &fakeWallet{snap: w})

	res, _, err = s.handleWalletStatus(context.Background(), nil, emptyInput{})
	require.NoError(t, err)
	text := resultText(t, res)
	assert.Contains(t, text, "ckt1qxyz")
	assert.Contains(t, text, "1975.00 CKB")
	assert.Contains(t, text, "197,500,000,000 shannon")
	assert.Contains(t, text, "signing unsupported")
}

func TestStatus(t *testing.T) {
	s := New("test", &fakeWallet{})
	res, _, err := s.handleStatus(context.Background(), nil, emptyInput{})
	require.NoError(t, err)
	text := resultText(t, res)
	assert.Contains(t, text, "CKB wallet panel")
	assert.Contains(t, text, "1m0s")
}
