package ghmcp

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ghErrors "github.com/mcp-github/mcp-github/pkg/errors"
	"github.com/mcp-github/mcp-github/pkg/github"
	"github.com/mcp-github/mcp-github/pkg/inventory"
	"github.com/mcp-github/mcp-github/pkg/scopes"
	"github.com/mcp-github/mcp-github/pkg/translations"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type MCPServerConfig struct {
	// Version of the server
	Version string

	// GitHub Host to target for API requests (e.g. github.com or github.enterprise.com)
	Host string

	// GitHub Token to authenticate with the GitHub API. An empty token is not
	// an error here; every tool call reports it instead.
	Token string

	// EnabledTools is a list of specific tools to enable. Nil means all tools.
	EnabledTools []string

	// ReadOnly indicates if we should only offer read-only tools
	ReadOnly bool

	// Translator provides translated text for the server tooling
	Translator translations.TranslationHelperFunc

	// Logger is used for request and error logging. Nil discards.
	Logger *slog.Logger

	// HTTPClient is used for GitHub API calls. Nil means a client that logs
	// each request through Logger.
	HTTPClient *http.Client

	// CheckTokenScopes looks up the token's OAuth scopes at startup and warns
	// about enabled tools the token cannot run.
	CheckTokenScopes bool
}

// NewMCPServer builds the MCP server: the tool inventory is filtered by the
// config and registered, and every request gets the tool dependencies and an
// operation error collector in its context.
func NewMCPServer(cfg MCPServerConfig) (*mcp.Server, error) {
	apiHost, err := github.ParseAPIHost(cfg.Host)
	if err != nil {
		return nil, fmt.Errorf("failed to parse API host: %w", err)
	}

	t := cfg.Translator
	if t == nil {
		t = translations.NullTranslationHelper
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	inv, err := github.NewInventory(t).
		WithReadOnly(cfg.ReadOnly).
		WithTools(cfg.EnabledTools).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build inventory: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Transport: &github.LoggingTransport{Logger: logger}}
	}

	deps := github.BaseDeps{
		Token:      cfg.Token,
		Host:       apiHost,
		UserAgent:  fmt.Sprintf("mcp-github/%s", cfg.Version),
		HTTPClient: httpClient,
		T:          t,
		Logger:     logger,
	}

	if cfg.CheckTokenScopes && cfg.Token != "" {
		client := github.NewRESTClient(httpClient, cfg.Token, apiHost, deps.UserAgent)
		checkTokenScopes(context.Background(), scopes.NewFetcher(client), inv.ToolNames(), logger)
	}

	ghServer := github.NewServer(cfg.Version, nil)
	ghServer.AddReceivingMiddleware(
		toolCallMiddleware(inv, logger),
		depsMiddleware(deps),
	)
	inv.RegisterTools(ghServer)

	logger.Debug("tools registered", "tools", inv.ToolNames(), "readOnly", inv.ReadOnly())
	return ghServer, nil
}

// depsMiddleware injects deps into every request context.
func depsMiddleware(deps github.ToolDependencies) mcp.Middleware {
	return func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			return next(github.ContextWithDeps(ctx, deps), method, req)
		}
	}
}

// toolCallMiddleware rejects calls to tools outside the inventory with an
// UnknownToolError and logs every call along with the operation errors its
// handler recorded.
func toolCallMiddleware(inv *inventory.Inventory, logger *slog.Logger) mcp.Middleware {
	return func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			if method != inventory.MCPMethodToolsCall {
				return next(ctx, method, req)
			}

			var name string
			if callReq, ok := req.(*mcp.CallToolRequest); ok && callReq.Params != nil {
				name = callReq.Params.Name
			}
			if !inv.HasTool(name) {
				logger.WarnContext(ctx, "unknown tool", "tool", name)
				return nil, inventory.NewUnknownToolError(name)
			}

			ctx = ghErrors.ContextWithOperationErrors(ctx)
			start := time.Now()
			result, err := next(ctx, method, req)
			logger.DebugContext(ctx, "tool call", "tool", name, "duration", time.Since(start))

			if opErrs, getErr := ghErrors.GetOperationErrors(ctx); getErr == nil {
				for _, opErr := range opErrs {
					attrs := []any{"tool", name, "kind", opErr.Kind, "message", opErr.Message}
					if opErr.StatusCode != 0 {
						attrs = append(attrs, "status", opErr.StatusCode)
					}
					if opErr.Err != nil {
						attrs = append(attrs, "cause", opErr.Err)
					}
					logger.WarnContext(ctx, "tool call failed", attrs...)
				}
			}
			return result, err
		}
	}
}

// checkTokenScopes logs a warning for each tool the token's scopes do not
// cover. Lookup failures are only logged; the tool calls report them anyway.
func checkTokenScopes(ctx context.Context, fetcher *scopes.Fetcher, tools []string, logger *slog.Logger) {
	tokenScopes, classic, err := fetcher.FetchTokenScopes(ctx)
	if err != nil {
		logger.Warn("failed to fetch token scopes", "error", err)
		return
	}
	if !classic {
		logger.Debug("token has no OAuth scopes header, skipping scope check")
		return
	}
	for _, tool := range scopes.UnusableTools(tokenScopes, tools) {
		logger.Warn("token lacks scopes for tool", "tool", tool, "tokenScopes", tokenScopes, "acceptedScopes", scopes.ToolScopes[tool])
	}
}

type StdioServerConfig struct {
	// Version of the server
	Version string

	// GitHub Host to target for API requests (e.g. github.com or github.enterprise.com)
	Host string

	// GitHub Token to authenticate with the GitHub API
	Token string

	// EnabledTools is a list of specific tools to enable. Nil means all tools.
	EnabledTools []string

	// ReadOnly indicates if we should only register read-only tools
	ReadOnly bool

	// ExportTranslations indicates if we should export translations
	// See README.md, "i18n / overriding descriptions"
	ExportTranslations bool

	// EnableCommandLogging indicates if we should log JSON-RPC traffic
	EnableCommandLogging bool

	// Path to the log file if not stderr
	LogFilePath string

	// LogLevel is the minimum level written to the log
	LogLevel slog.Level
}

// RunStdioServer is not concurrent safe.
func RunStdioServer(cfg StdioServerConfig) error {
	// Create app context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	t, dumpTranslations := translations.TranslationHelper()

	var logOutput io.Writer = os.Stderr
	if cfg.LogFilePath != "" {
		file, err := os.OpenFile(cfg.LogFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer func() { _ = file.Close() }()
		logOutput = file
	}
	logger := slog.New(slog.NewTextHandler(logOutput, &slog.HandlerOptions{Level: cfg.LogLevel}))
	logger.Info("starting server", "version", cfg.Version, "host", cfg.Host, "readOnly", cfg.ReadOnly)

	ghServer, err := NewMCPServer(MCPServerConfig{
		Version:          cfg.Version,
		Host:             cfg.Host,
		Token:            cfg.Token,
		EnabledTools:     cfg.EnabledTools,
		ReadOnly:         cfg.ReadOnly,
		Translator:       t,
		Logger:           logger,
		CheckTokenScopes: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	if cfg.Token == "" {
		logger.Warn("no GitHub token configured; every tool call will fail")
	}

	if cfg.ExportTranslations {
		// Once server is initialized, all translations are loaded
		if err := dumpTranslations(); err != nil {
			return fmt.Errorf("failed to export translations: %w", err)
		}
	}

	var transport mcp.Transport = &mcp.StdioTransport{}
	if cfg.EnableCommandLogging {
		transport = &mcp.LoggingTransport{Transport: transport, Writer: logOutput}
	}

	// Start listening for messages
	errC := make(chan error, 1)
	go func() {
		errC <- ghServer.Run(ctx, transport)
	}()

	// Announce on stderr; stdout carries the protocol
	_, _ = fmt.Fprintf(os.Stderr, "GitHub Issues MCP Server running on stdio\n")

	// Wait for shutdown signal
	select {
	case <-ctx.Done():
		logger.Info("shutting down server", "signal", "context done")
	case err := <-errC:
		if err != nil {
			logger.Error("error running server", "error", err)
			return fmt.Errorf("error running server: %w", err)
		}
	}

	return nil
}
