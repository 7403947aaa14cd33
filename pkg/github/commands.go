package github

import (
	"context"
	"time"

	gogithub "github.com/google/go-github/v79/github"
	"github.com/mcp-github/mcp-github/pkg/sanitize"
)

// IssueLister lists issues in a repository.
type IssueLister interface {
	ListIssues(ctx context.Context, repoID, state, query string) ([]*gogithub.Issue, error)
}

// IssueCreator creates issues in a repository.
type IssueCreator interface {
	CreateIssue(ctx context.Context, repoID, title, body string) (*gogithub.Issue, error)
}

// IssueView is the projection of an issue returned to agents.
type IssueView struct {
	Number    int    `json:"number"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	State     string `json:"state"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// IssuesResult is the get_issues payload.
type IssuesResult struct {
	Issues []IssueView `json:"issues"`
}

// IssueResult is the create_issue payload.
type IssueResult struct {
	Issue IssueView `json:"issue"`
}

// NewIssueView projects issue. Missing timestamps render as "".
func NewIssueView(issue *gogithub.Issue) IssueView {
	return IssueView{
		Number:    issue.GetNumber(),
		Title:     issue.GetTitle(),
		Body:      issue.GetBody(),
		State:     issue.GetState(),
		CreatedAt: formatTimestamp(issue.GetCreatedAt()),
		UpdatedAt: formatTimestamp(issue.GetUpdatedAt()),
	}
}

func formatTimestamp(ts gogithub.Timestamp) string {
	if ts.IsZero() {
		return ""
	}
	return ts.UTC().Format(time.RFC3339)
}

// GetIssuesCommand lists issues and shapes them for the agent.
type GetIssuesCommand struct {
	Client IssueLister
	Repo   string
	State  string
	Query  string
}

// Execute runs the command. Errors from the client are returned unchanged.
func (c GetIssuesCommand) Execute(ctx context.Context) (*IssuesResult, error) {
	state := c.State
	if state == "" {
		state = DefaultIssueState
	}

	issues, err := c.Client.ListIssues(ctx, c.Repo, state, c.Query)
	if err != nil {
		return nil, err
	}

	result := &IssuesResult{Issues: make([]IssueView, 0, len(issues))}
	for _, issue := range issues {
		view := NewIssueView(issue)
		view.Title = sanitize.Sanitize(view.Title)
		view.Body = sanitize.Sanitize(view.Body)
		result.Issues = append(result.Issues, view)
	}
	return result, nil
}

// CreateIssueCommand creates one issue and shapes the result.
type CreateIssueCommand struct {
	Client IssueCreator
	Repo   string
	Title  string
	Body   string
}

// Execute runs the command. Errors from the client are returned unchanged.
func (c CreateIssueCommand) Execute(ctx context.Context) (*IssueResult, error) {
	issue, err := c.Client.CreateIssue(ctx, c.Repo, c.Title, c.Body)
	if err != nil {
		return nil, err
	}
	return &IssueResult{Issue: NewIssueView(issue)}, nil
}
