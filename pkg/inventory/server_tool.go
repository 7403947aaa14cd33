package inventory

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/mcp-github/mcp-github/pkg/utils"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ToolsetID is a unique identifier for a toolset.
type ToolsetID string

// ToolsetMetadata describes the group a tool belongs to.
type ToolsetMetadata struct {
	// ID is the unique identifier for the toolset (e.g., "issues")
	ID ToolsetID
	// Description provides a human-readable description of the toolset
	Description string
}

// ArgumentsHandler handles a tool call whose arguments have already been
// decoded. args is never nil.
type ArgumentsHandler func(ctx context.Context, req *mcp.CallToolRequest, args map[string]any) (*mcp.CallToolResult, error)

// ServerTool is a tool definition together with its handler. The definition is
// static; dependencies reach the handler through the request context.
type ServerTool struct {
	// Tool is the MCP tool definition containing name, description, schema, etc.
	Tool mcp.Tool

	// Toolset contains metadata about which toolset this tool belongs to.
	Toolset ToolsetMetadata

	// Handler is registered on the MCP server as-is.
	Handler mcp.ToolHandler
}

// IsReadOnly returns true if this tool is marked as read-only via annotations.
func (st *ServerTool) IsReadOnly() bool {
	return st.Tool.Annotations != nil && st.Tool.Annotations.ReadOnlyHint
}

// RegisterFunc registers the tool with the server. A shallow copy of the tool
// is registered so the SDK never mutates the catalog entry.
func (st *ServerTool) RegisterFunc(s *mcp.Server) {
	if st.Handler == nil {
		panic("Handler is nil for tool: " + st.Tool.Name)
	}
	toolCopy := st.Tool
	s.AddTool(&toolCopy, st.Handler)
}

// NewServerTool creates a ServerTool whose handler receives the decoded
// argument object. A null or absent arguments payload becomes an empty map;
// a payload that is not a JSON object is reported as a failed tool result.
func NewServerTool(tool mcp.Tool, toolset ToolsetMetadata, handler ArgumentsHandler) ServerTool {
	return ServerTool{
		Tool:    tool,
		Toolset: toolset,
		Handler: func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			var raw json.RawMessage
			if req != nil && req.Params != nil {
				raw = req.Params.Arguments
			}
			args, err := DecodeArguments(raw)
			if err != nil {
				return utils.NewToolResultError(err.Error()), nil
			}
			return handler(ctx, req, args)
		},
	}
}

// DecodeArguments turns a raw arguments payload into a map, treating an empty
// payload and JSON null as an empty argument set.
func DecodeArguments(raw json.RawMessage) (map[string]any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return map[string]any{}, nil
	}
	var args map[string]any
	if err := json.Unmarshal(trimmed, &args); err != nil {
		return nil, &InvalidArgumentsError{Err: err}
	}
	if args == nil {
		args = map[string]any{}
	}
	return args, nil
}
