package mcpserver

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/b0ase/ckb-s3/internal/state"
)

// DaemonInfo provides read-only access to daemon state for MCP tools.
type DaemonInfo interface {
	Device() string
	Uptime() time.Duration
}

// NodeSource is implemented by the dashboard daemon.
type NodeSource interface {
	NodeSnapshot() state.NodeSnapshot
	NodeEndpoint() string
}

// WalletSource is implemented by the wallet daemon.
type WalletSource interface {
	WalletSnapshot() state.WalletSnapshot
}

// MCPServer wraps the MCP protocol server with panel tools.
type MCPServer struct {
	server *mcp.Server
	daemon DaemonInfo
	now    func() time.Time
}

// New creates an MCP server. Node and wallet tools are registered only when
// the daemon provides the matching snapshot.
func New(version string, daemon DaemonInfo) *MCPServer {
	s := &MCPServer{
		daemon: daemon,
		now:    time.Now,
		server: mcp.NewServer(
			&mcp.Implementation{
				Name:    "ckb-s3",
				Version: version,
			},
			&mcp.ServerOptions{
				Instructions: "CKB panel daemon. Provides tools to read the last published node or wallet snapshot.",
			},
		),
	}
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio, blocking until the client disconnects.
func (s *MCPServer) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}
