package mcpserver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/b0ase/ckb-s3/internal/state"
)

type emptyInput struct{}

func (s *MCPServer) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ckb_status",
		Description: "Daemon identity and uptime",
	}, s.handleStatus)

	if _, ok := s.daemon.(NodeSource); ok {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ckb_node_status",
			Description: "Last published node snapshot: tip height, staleness, peers, pending transactions, epoch progress",
		}, s.handleNodeStatus)
	}

	if _, ok := s.daemon.(WalletSource); ok {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ckb_wallet_status",
			Description: "Wallet address, key presence and last balance reading. Never includes key material.",
		}, s.handleWalletStatus)
	}
}

func (s *MCPServer) handleStatus(_ context.Context, _ *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, any, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "# CKB %s panel\n\n", s.daemon.Device())
	fmt.Fprintf(&b, "**Uptime:** %s\n", s.daemon.Uptime().Round(time.Second))
	return textResult(b.String()), nil, nil
}

func (s *MCPServer) handleNodeStatus(_ context.Context, _ *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, any, error) {
	src, ok := s.daemon.(NodeSource)
	if !ok {
		return errResult("not a node dashboard"), nil, nil
	}
	return textResult(formatNode(src.NodeSnapshot(), src.NodeEndpoint(), s.now())), nil, nil
}

func (s *MCPServer) handleWalletStatus(_ context.Context, _ *mcp.CallToolRequest, _ emptyInput) (*mcp.CallToolResult, any, error) {
	src, ok := s.daemon.(WalletSource)
	if !ok {
		return errResult("not a wallet"), nil, nil
	}
	return textResult(formatWallet(src.WalletSnapshot())), nil, nil
}

func formatNode(snap state.NodeSnapshot, endpoint string, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Node\n\n")
	fmt.Fprintf(&b, "**Endpoint:** `%s`\n\n", endpoint)

	if snap.LastSuccess.IsZero() {
		fmt.Fprintf(&b, "No successful poll yet (%d attempts).\n", snap.PollCount)
		return b.String()
	}

	st := state.StalenessAt(snap.LastSuccess, now)
	fmt.Fprintf(&b, "- Tip height: %s\n", state.Grouped(snap.Height))
	fmt.Fprintf(&b, "- %s (%s)\n", st.Label, st.Tier)
	fmt.Fprintf(&b, "- Healthy: %v\n", snap.Healthy)
	fmt.Fprintf(&b, "- Peers: %d\n", snap.PeerCount)
	fmt.Fprintf(&b, "- Pending transactions: %d\n", snap.PendingTxCount)
	fmt.Fprintf(&b, "- Epoch: %d (%d/%d, %d%%)\n",
		snap.Epoch.Number, snap.Epoch.Index, snap.Epoch.Length,
		state.EpochPercent(snap.Epoch.Index, snap.Epoch.Length))
	fmt.Fprintf(&b, "- Polls: %d\n", snap.PollCount)
	if snap.NodeIDSuffix != "" {
		fmt.Fprintf(&b, "- Node ID: `%s`\n", snap.NodeIDSuffix)
	}
	return b.String()
}

func formatWallet(w state.WalletSnapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Wallet\n\n")
	if !w.KeyLoaded {
		fmt.Fprintf(&b, "No key loaded.\n")
		return b.String()
	}
	fmt.Fprintf(&b, "- **Address:** `%s`\n", w.Address)
	if w.BalanceOK {
		fmt.Fprintf(&b, "- **Balance:** %.2f CKB (%s shannon)\n", w.BalanceCKB, state.Grouped(w.BalanceShannon))
		fmt.Fprintf(&b, "- **Refreshed:** %s\n", humanize.Time(w.LastRefresh))
	} else {
		fmt.Fprintf(&b, "- **Balance:** unknown\n")
	}
	if w.Send.LastTxHash != "" {
		fmt.Fprintf(&b, "- **Last transaction:** `%s`\n", w.Send.LastTxHash)
	}
	if w.Send.LastError != "" {
		fmt.Fprintf(&b, "- **Last send error:** %s\n", w.Send.LastError)
	}
	return b.String()
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
		IsError: true,
	}
}
