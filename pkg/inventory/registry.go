package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// MCPMethodToolsCall is the MCP method name for tool invocations.
const MCPMethodToolsCall = "tools/call"

// Inventory is the filtered, ordered tool catalog the server exposes.
// It is immutable once built.
type Inventory struct {
	tools    []ServerTool
	byName   map[string]*ServerTool
	readOnly bool
}

// ReadOnly reports whether write tools were filtered out.
func (r *Inventory) ReadOnly() bool {
	return r.readOnly
}

// AvailableTools returns the catalog, sorted by toolset ID, then tool name.
func (r *Inventory) AvailableTools() []ServerTool {
	return slices.Clone(r.tools)
}

// ToolNames returns the names of the available tools in catalog order.
func (r *Inventory) ToolNames() []string {
	names := make([]string, len(r.tools))
	for i := range r.tools {
		names[i] = r.tools[i].Tool.Name
	}
	return names
}

// HasTool reports whether name is in the catalog. Matching is exact.
func (r *Inventory) HasTool(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// FindToolByName returns the catalog entry for name, or an UnknownToolError.
func (r *Inventory) FindToolByName(name string) (*ServerTool, error) {
	tool, ok := r.byName[name]
	if !ok {
		return nil, NewUnknownToolError(name)
	}
	return tool, nil
}

// RegisterTools registers every available tool with the server.
func (r *Inventory) RegisterTools(s *mcp.Server) {
	for i := range r.tools {
		r.tools[i].RegisterFunc(s)
	}
}

// CallTool dispatches a call in-process, exactly as the MCP server would.
// Unknown names fail with an UnknownToolError; everything else yields a result.
func (r *Inventory) CallTool(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	tool, err := r.FindToolByName(name)
	if err != nil {
		return nil, err
	}

	var raw json.RawMessage
	if args != nil {
		raw, err = json.Marshal(args)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal arguments for %s: %w", name, err)
		}
	}

	return tool.Handler(ctx, &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{
			Name:      name,
			Arguments: raw,
		},
	})
}
