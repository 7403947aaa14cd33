package github

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	ghErrors "github.com/mcp-github/mcp-github/pkg/errors"
	"github.com/mcp-github/mcp-github/pkg/inventory"
	"github.com/mcp-github/mcp-github/pkg/translations"
	"github.com/mcp-github/mcp-github/pkg/utils"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// DefaultIssueState is used when get_issues is called without a state.
	DefaultIssueState = "open"

	repositoryNotSpecified = "Repository not specified"
	titleNotSpecified      = "Issue title not specified"
)

// IssueStates are the accepted values of get_issues' state argument.
var IssueStates = []string{"open", "closed", "all"}

// GetIssues creates a tool to list the issues of a repository, optionally
// narrowed by a search query.
func GetIssues(t translations.TranslationHelperFunc) inventory.ServerTool {
	return NewTool(
		ToolsetMetadataIssues,
		mcp.Tool{
			Name:        "get_issues",
			Description: t("TOOL_GET_ISSUES_DESCRIPTION", "Get list of issues from a GitHub repository"),
			Annotations: &mcp.ToolAnnotations{
				Title:        t("TOOL_GET_ISSUES_USER_TITLE", "List repository issues"),
				ReadOnlyHint: true,
			},
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"repo": {
						Type:        "string",
						Description: "Repository name in owner/repo format",
					},
					"state": {
						Type:        "string",
						Description: "Issue state to filter by. Defaults to open.",
						Enum:        []any{"open", "closed", "all"},
					},
					"query": {
						Type:        "string",
						Description: "Search query to filter issues",
					},
				},
				Required: []string{"repo"},
			},
		},
		func(ctx context.Context, deps ToolDependencies, _ *mcp.CallToolRequest, args map[string]any) (*mcp.CallToolResult, error) {
			repo, err := requiredString(args, "repo", repositoryNotSpecified)
			if err != nil {
				return ghErrors.NewOperationErrorResponse(ctx, err), nil
			}
			state, err := OptionalStringParamWithDefault(args, "state", DefaultIssueState)
			if err != nil {
				return ghErrors.NewOperationErrorResponse(ctx, ghErrors.NewValidationError(err.Error())), nil
			}
			if !slices.Contains(IssueStates, state) {
				msg := fmt.Sprintf("Invalid state: %s (must be one of %s)", state, strings.Join(IssueStates, ", "))
				return ghErrors.NewOperationErrorResponse(ctx, ghErrors.NewValidationError(msg)), nil
			}
			query, err := OptionalParam[string](args, "query")
			if err != nil {
				return ghErrors.NewOperationErrorResponse(ctx, ghErrors.NewValidationError(err.Error())), nil
			}

			client, err := deps.GetIssueClient(ctx)
			if err != nil {
				return ghErrors.NewOperationErrorResponse(ctx, err), nil
			}

			result, err := GetIssuesCommand{
				Client: client,
				Repo:   repo,
				State:  state,
				Query:  query,
			}.Execute(ctx)
			if err != nil {
				return ghErrors.NewOperationErrorResponse(ctx, err), nil
			}

			return utils.NewToolResultJSON(result), nil
		})
}

// CreateIssue creates a tool to open a new issue.
func CreateIssue(t translations.TranslationHelperFunc) inventory.ServerTool {
	return NewTool(
		ToolsetMetadataIssues,
		mcp.Tool{
			Name:        "create_issue",
			Description: t("TOOL_CREATE_ISSUE_DESCRIPTION", "Create a new issue in a GitHub repository"),
			Annotations: &mcp.ToolAnnotations{
				Title:        t("TOOL_CREATE_ISSUE_USER_TITLE", "Create issue"),
				ReadOnlyHint: false,
			},
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"repo": {
						Type:        "string",
						Description: "Repository name in owner/repo format",
					},
					"title": {
						Type:        "string",
						Description: "Issue title",
					},
					"body": {
						Type:        "string",
						Description: "Issue body content",
					},
				},
				Required: []string{"repo", "title"},
			},
		},
		func(ctx context.Context, deps ToolDependencies, _ *mcp.CallToolRequest, args map[string]any) (*mcp.CallToolResult, error) {
			repo, err := requiredString(args, "repo", repositoryNotSpecified)
			if err != nil {
				return ghErrors.NewOperationErrorResponse(ctx, err), nil
			}
			title, err := requiredString(args, "title", titleNotSpecified)
			if err != nil {
				return ghErrors.NewOperationErrorResponse(ctx, err), nil
			}
			body, err := OptionalParam[string](args, "body")
			if err != nil {
				return ghErrors.NewOperationErrorResponse(ctx, ghErrors.NewValidationError(err.Error())), nil
			}

			client, err := deps.GetIssueClient(ctx)
			if err != nil {
				return ghErrors.NewOperationErrorResponse(ctx, err), nil
			}

			result, err := CreateIssueCommand{
				Client: client,
				Repo:   repo,
				Title:  title,
				Body:   body,
			}.Execute(ctx)
			if err != nil {
				return ghErrors.NewOperationErrorResponse(ctx, err), nil
			}

			return utils.NewToolResultJSON(result), nil
		})
}

// requiredString reads a required string argument. An absent, null or empty
// value is reported with missing; a value of another type with the type error.
func requiredString(args map[string]any, p string, missing string) (string, error) {
	v, ok, err := OptionalParamOK[string](args, p)
	if err != nil {
		return "", ghErrors.NewValidationError(err.Error())
	}
	if !ok || v == "" {
		return "", ghErrors.NewValidationError(missing)
	}
	return v, nil
}
