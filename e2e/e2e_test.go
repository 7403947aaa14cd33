//go:build e2e

package e2e_test

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	gogithub "github.com/google/go-github/v79/github"
	"github.com/mcp-github/mcp-github/internal/ghmcp"
	"github.com/mcp-github/mcp-github/pkg/github"
	"github.com/mcp-github/mcp-github/pkg/translations"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

var (
	// Shared variables and sync.Once instances to ensure one-time execution
	getTokenOnce sync.Once
	token        string

	getHostOnce sync.Once
	host        string

	buildOnce  sync.Once
	buildError error
	binaryPath string

	// Rate limit management
	rateLimitMu sync.Mutex
)

// minRateLimitRemaining is the minimum number of API requests we want to have
// remaining before we start waiting for the rate limit to reset.
const minRateLimitRemaining = 50

// getE2EToken ensures the environment variable is checked only once and returns the token
func getE2EToken(t *testing.T) string {
	getTokenOnce.Do(func() {
		token = os.Getenv("GITHUB_MCP_SERVER_E2E_TOKEN")
	})
	if token == "" {
		t.Fatalf("GITHUB_MCP_SERVER_E2E_TOKEN environment variable is not set")
	}
	return token
}

// getE2EHost ensures the environment variable is checked only once and returns the host
func getE2EHost() string {
	getHostOnce.Do(func() {
		host = os.Getenv("GITHUB_MCP_SERVER_E2E_HOST")
	})
	return host
}

func getRESTClient(t *testing.T) *gogithub.Client {
	apiHost, err := github.ParseAPIHost(getE2EHost())
	require.NoError(t, err, "expected to parse host")

	return github.NewRESTClient(nil, getE2EToken(t), apiHost, "")
}

// waitForRateLimit checks the current rate limit and waits if necessary.
func waitForRateLimit(t *testing.T) {
	rateLimitMu.Lock()
	defer rateLimitMu.Unlock()

	rateLimits, _, err := getRESTClient(t).RateLimit.Get(context.Background())
	if err != nil {
		t.Logf("Warning: failed to check rate limit: %v", err)
		return
	}

	core := rateLimits.Core
	if core.Remaining < minRateLimitRemaining {
		waitDuration := time.Until(core.Reset.Time) + time.Second // Add 1 second buffer
		if waitDuration > 0 {
			t.Logf("Rate limit low (%d/%d remaining). Waiting %v until reset...",
				core.Remaining, core.Limit, waitDuration.Round(time.Second))
			time.Sleep(waitDuration)
		}
	}
}

// ensureBinaryBuilt builds the server binary only once across all tests
func ensureBinaryBuilt(t *testing.T) string {
	buildOnce.Do(func() {
		dir, err := os.MkdirTemp("", "mcp-github-e2e")
		if err != nil {
			buildError = err
			return
		}
		binaryPath = filepath.Join(dir, "mcp-github")

		t.Log("Building server binary for e2e tests...")
		cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/mcp-github")
		cmd.Dir = ".." // Run this in the context of the module root.
		output, err := cmd.CombinedOutput()
		buildError = err
		if err != nil {
			t.Logf("Build output: %s", string(output))
		}
	})

	require.NoError(t, buildError, "expected to build server binary successfully")
	return binaryPath
}

// clientOpts holds configuration options for the MCP client setup
type clientOpts struct {
	enabledTools []string
	readOnly     bool
}

type clientOption func(*clientOpts)

func withTools(tools ...string) clientOption {
	return func(opts *clientOpts) {
		opts.enabledTools = tools
	}
}

func withReadOnly() clientOption {
	return func(opts *clientOpts) {
		opts.readOnly = true
	}
}

func setupMCPClient(t *testing.T, options ...clientOption) *mcp.ClientSession {
	waitForRateLimit(t)
	token := getE2EToken(t)

	opts := &clientOpts{}
	for _, option := range options {
		option(opts)
	}

	ctx := context.Background()
	client := mcp.NewClient(&mcp.Implementation{
		Name:    "e2e-test-client",
		Version: "0.0.1",
	}, nil)

	// By default, we run the tests against the compiled binary, but with DEBUG
	// enabled, we run the server in-process, allowing for easier debugging.
	var session *mcp.ClientSession
	if os.Getenv("GITHUB_MCP_SERVER_E2E_DEBUG") == "" {
		args := []string{"stdio"}
		if len(opts.enabledTools) > 0 {
			args = append(args, "--tools", strings.Join(opts.enabledTools, ","))
		}
		if opts.readOnly {
			args = append(args, "--read-only")
		}

		cmd := exec.Command(ensureBinaryBuilt(t), args...)
		cmd.Env = append(os.Environ(),
			fmt.Sprintf("GITHUB_TOKEN=%s", token),
			fmt.Sprintf("GITHUB_HOST=%s", getE2EHost()),
		)

		t.Log("Starting Stdio MCP client...")
		var err error
		session, err = client.Connect(ctx, &mcp.CommandTransport{Command: cmd}, nil)
		require.NoError(t, err, "expected to connect client successfully")
	} else {
		ghServer, err := ghmcp.NewMCPServer(ghmcp.MCPServerConfig{
			Version:      "e2e",
			Token:        token,
			Host:         getE2EHost(),
			EnabledTools: opts.enabledTools,
			ReadOnly:     opts.readOnly,
			Translator:   translations.NullTranslationHelper,
		})
		require.NoError(t, err, "expected to construct MCP server successfully")

		t.Log("Starting In Process MCP client...")
		serverTransport, clientTransport := mcp.NewInMemoryTransports()
		go func() {
			_ = ghServer.Run(ctx, serverTransport)
		}()
		session, err = client.Connect(ctx, clientTransport, nil)
		require.NoError(t, err, "expected to create in-process client successfully")
	}

	t.Cleanup(func() {
		require.NoError(t, session.Close(), "expected to close client successfully")
	})

	return session
}

func textContent(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, result.Content, 1, "expected content to have one item")
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected content to be of type TextContent")
	return text.Text
}

// createTestRepo creates a private repository with issues enabled and deletes
// it when the test finishes.
func createTestRepo(t *testing.T) string {
	ghClient := getRESTClient(t)
	ctx := context.Background()

	user, _, err := ghClient.Users.Get(ctx, "")
	require.NoError(t, err, "expected to get user successfully")

	repoName := fmt.Sprintf("mcp-github-e2e-%s-%d", t.Name(), time.Now().UnixMilli())
	t.Logf("Creating repository %s/%s...", user.GetLogin(), repoName)
	_, _, err = ghClient.Repositories.Create(ctx, "", &gogithub.Repository{
		Name:      gogithub.Ptr(repoName),
		Private:   gogithub.Ptr(true),
		AutoInit:  gogithub.Ptr(true),
		HasIssues: gogithub.Ptr(true),
	})
	require.NoError(t, err, "expected to create repository successfully")

	t.Cleanup(func() {
		// The server doesn't support deletions, but we can use the GitHub Client
		t.Logf("Deleting repository %s/%s...", user.GetLogin(), repoName)
		_, err := ghClient.Repositories.Delete(context.Background(), user.GetLogin(), repoName)
		require.NoError(t, err, "expected to delete repository successfully")
	})

	return user.GetLogin() + "/" + repoName
}

func TestListTools(t *testing.T) {
	t.Parallel()

	mcpClient := setupMCPClient(t, withReadOnly())

	response, err := mcpClient.ListTools(context.Background(), &mcp.ListToolsParams{})
	require.NoError(t, err, "expected to list tools successfully")

	toolsContains := func(expectedName string) bool {
		return slices.ContainsFunc(response.Tools, func(tool *mcp.Tool) bool {
			return tool.Name == expectedName
		})
	}
	require.True(t, toolsContains("get_issues"), "expected to find 'get_issues' tool")
	require.False(t, toolsContains("create_issue"), "expected not to find 'create_issue' tool")
}

func TestUnknownTool(t *testing.T) {
	t.Parallel()

	mcpClient := setupMCPClient(t, withTools("get_issues"))

	_, err := mcpClient.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "create_issue",
		Arguments: map[string]any{"repo": "octo/hello", "title": "t"},
	})
	require.ErrorContains(t, err, "Unknown tool: create_issue")
}

func TestCreateAndListIssues(t *testing.T) {
	t.Parallel()

	mcpClient := setupMCPClient(t)
	ctx := context.Background()
	repo := createTestRepo(t)

	t.Logf("Creating issue in %s...", repo)
	resp, err := mcpClient.CallTool(ctx, &mcp.CallToolParams{
		Name: "create_issue",
		Arguments: map[string]any{
			"repo":  repo,
			"title": "E2E issue",
			"body":  "Created by the e2e suite.",
		},
	})
	require.NoError(t, err, "expected to call 'create_issue' tool successfully")
	require.False(t, resp.IsError, fmt.Sprintf("expected result not to be an error: %+v", resp))

	var created github.IssueResult
	require.NoError(t, json.Unmarshal([]byte(textContent(t, resp)), &created))
	require.Equal(t, "E2E issue", created.Issue.Title)
	require.Equal(t, "Created by the e2e suite.", created.Issue.Body)
	require.Equal(t, "open", created.Issue.State)

	t.Logf("Listing issues in %s...", repo)
	resp, err = mcpClient.CallTool(ctx, &mcp.CallToolParams{
		Name:      "get_issues",
		Arguments: map[string]any{"repo": repo, "state": "all"},
	})
	require.NoError(t, err, "expected to call 'get_issues' tool successfully")
	require.False(t, resp.IsError, fmt.Sprintf("expected result not to be an error: %+v", resp))

	var listed github.IssuesResult
	require.NoError(t, json.Unmarshal([]byte(textContent(t, resp)), &listed))
	require.True(t, slices.ContainsFunc(listed.Issues, func(issue github.IssueView) bool {
		return issue.Number == created.Issue.Number
	}), "expected created issue to be listed")

	// Closed issues are not listed by default.
	resp, err = mcpClient.CallTool(ctx, &mcp.CallToolParams{
		Name:      "get_issues",
		Arguments: map[string]any{"repo": repo, "state": "closed"},
	})
	require.NoError(t, err)
	require.False(t, resp.IsError)
	require.NoError(t, json.Unmarshal([]byte(textContent(t, resp)), &listed))
	require.Empty(t, listed.Issues)
}

func TestRemoteErrors(t *testing.T) {
	t.Parallel()

	mcpClient := setupMCPClient(t)

	resp, err := mcpClient.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "get_issues",
		Arguments: map[string]any{"repo": "mcp-github-e2e/does-not-exist-" + fmt.Sprint(time.Now().UnixMilli())},
	})
	require.NoError(t, err, "expected a failure result, not a protocol error")
	require.True(t, resp.IsError, "expected result to be an error")
	require.Equal(t, "Not Found", textContent(t, resp))
}
