package github

import (
	"github.com/mcp-github/mcp-github/pkg/inventory"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ServerName is the implementation name reported during initialization.
const ServerName = "github"

// ToolsetMetadataIssues groups the issue tools.
var ToolsetMetadataIssues = inventory.ToolsetMetadata{
	ID:          "issues",
	Description: "GitHub Issues related tools",
}

// NewServer creates a new GitHub MCP server. Tools are registered separately
// from an Inventory.
func NewServer(version string, opts *mcp.ServerOptions) *mcp.Server {
	if opts == nil {
		opts = &mcp.ServerOptions{}
	}

	return mcp.NewServer(&mcp.Implementation{
		Name:    ServerName,
		Title:   "GitHub Issues MCP Server",
		Version: version,
	}, opts)
}
