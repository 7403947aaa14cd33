package github

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	ghErrors "github.com/mcp-github/mcp-github/pkg/errors"
	"github.com/mcp-github/mcp-github/pkg/inventory"
	"github.com/mcp-github/mcp-github/pkg/translations"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// MissingTokenMessage is reported by every tool call made without a token.
const MissingTokenMessage = "GITHUB_TOKEN environment variable not set"

// depsContextKey is the context key for ToolDependencies.
// Using a private type prevents collisions with other packages.
type depsContextKey struct{}

// ErrDepsNotInContext is returned when ToolDependencies is not found in context.
var ErrDepsNotInContext = errors.New("ToolDependencies not found in context; use ContextWithDeps to inject")

// ContextWithDeps returns a new context with the ToolDependencies stored in it.
// The server does this once per request in a receiving middleware, so tool
// definitions stay free of captured state.
func ContextWithDeps(ctx context.Context, deps ToolDependencies) context.Context {
	return context.WithValue(ctx, depsContextKey{}, deps)
}

// DepsFromContext retrieves ToolDependencies from the context.
// Returns the deps and true if found, or nil and false if not present.
func DepsFromContext(ctx context.Context) (ToolDependencies, bool) {
	deps, ok := ctx.Value(depsContextKey{}).(ToolDependencies)
	return deps, ok
}

// MustDepsFromContext retrieves ToolDependencies from the context.
// Panics if deps are not found - use this in handlers where deps are required.
func MustDepsFromContext(ctx context.Context) ToolDependencies {
	deps, ok := DepsFromContext(ctx)
	if !ok {
		panic(ErrDepsNotInContext)
	}
	return deps
}

// ToolDependencies defines what tool handlers need at call time.
type ToolDependencies interface {
	// GetIssueClient returns a fresh IssueClient, or a configuration
	// OperationError when no token is configured.
	GetIssueClient(ctx context.Context) (*IssueClient, error)

	// GetT returns the translation helper function
	GetT() translations.TranslationHelperFunc

	// GetLogger returns the logger for handler diagnostics
	GetLogger() *slog.Logger
}

// BaseDeps is the standard implementation of ToolDependencies. It holds
// read-only configuration built once at startup.
type BaseDeps struct {
	Token     string
	Host      APIHost
	UserAgent string

	// HTTPClient is shared by every IssueClient. Nil means a client whose
	// transport logs through Logger.
	HTTPClient *http.Client

	T      translations.TranslationHelperFunc
	Logger *slog.Logger
}

// GetIssueClient implements ToolDependencies.
func (d BaseDeps) GetIssueClient(_ context.Context) (*IssueClient, error) {
	if d.Token == "" {
		return nil, ghErrors.NewConfigurationError(MissingTokenMessage)
	}
	httpClient := d.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Transport: &LoggingTransport{Logger: d.GetLogger()}}
	}
	return NewIssueClient(httpClient, d.Token, d.Host, d.UserAgent), nil
}

// GetT implements ToolDependencies.
func (d BaseDeps) GetT() translations.TranslationHelperFunc {
	if d.T == nil {
		return translations.NullTranslationHelper
	}
	return d.T
}

// GetLogger implements ToolDependencies.
func (d BaseDeps) GetLogger() *slog.Logger {
	if d.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return d.Logger
}

// NewTool creates a ServerTool that retrieves ToolDependencies from context at call time.
// Ensure ContextWithDeps is called to inject deps before any tool handlers are invoked.
func NewTool(toolset inventory.ToolsetMetadata, tool mcp.Tool, handler func(ctx context.Context, deps ToolDependencies, req *mcp.CallToolRequest, args map[string]any) (*mcp.CallToolResult, error)) inventory.ServerTool {
	return inventory.NewServerTool(tool, toolset, func(ctx context.Context, req *mcp.CallToolRequest, args map[string]any) (*mcp.CallToolResult, error) {
		deps := MustDepsFromContext(ctx)
		return handler(ctx, deps, req, args)
	})
}
