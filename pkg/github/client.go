package github

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	gogithub "github.com/google/go-github/v79/github"
	ghErrors "github.com/mcp-github/mcp-github/pkg/errors"
)

// issuesPerPage is the size of the single page fetched by ListIssues.
const issuesPerPage = 100

// IssueClient is the only code that talks to the GitHub REST API. Every error
// it returns is an *errors.OperationError.
type IssueClient struct {
	client *gogithub.Client
}

// NewRESTClient creates a go-github client authenticated with token against
// host. A nil httpClient means http.DefaultClient.
func NewRESTClient(httpClient *http.Client, token string, host APIHost, userAgent string) *gogithub.Client {
	client := gogithub.NewClient(httpClient).WithAuthToken(token)
	if userAgent != "" {
		client.UserAgent = userAgent
	}
	if host.BaseURL != nil {
		client.BaseURL = host.BaseURL
	}
	if host.UploadURL != nil {
		client.UploadURL = host.UploadURL
	}
	return client
}

// NewIssueClient creates an IssueClient authenticated with token against host.
func NewIssueClient(httpClient *http.Client, token string, host APIHost, userAgent string) *IssueClient {
	return &IssueClient{client: NewRESTClient(httpClient, token, host, userAgent)}
}

// ListIssues returns the first page of issues in repoID with the given state.
// A non-empty query switches to the search API, scoped to the repository and
// state.
func (c *IssueClient) ListIssues(ctx context.Context, repoID, state, query string) ([]*gogithub.Issue, error) {
	owner, repo, err := splitRepo(repoID)
	if err != nil {
		return nil, err
	}

	if query != "" {
		return c.searchIssues(ctx, repoID, state, query)
	}

	opts := &gogithub.IssueListByRepoOptions{
		State: state,
		ListOptions: gogithub.ListOptions{
			PerPage: issuesPerPage,
		},
	}
	issues, resp, err := c.client.Issues.ListByRepo(ctx, owner, repo, opts)
	if err != nil {
		return nil, ghErrors.NewRemoteAPIError(resp, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, ghErrors.NewRemoteAPIStatusError(resp)
	}
	return issues, nil
}

func (c *IssueClient) searchIssues(ctx context.Context, repoID, state, query string) ([]*gogithub.Issue, error) {
	opts := &gogithub.SearchOptions{
		ListOptions: gogithub.ListOptions{
			PerPage: issuesPerPage,
		},
	}
	result, resp, err := c.client.Search.Issues(ctx, SearchQuery(repoID, state, query), opts)
	if err != nil {
		return nil, ghErrors.NewRemoteAPIError(resp, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, ghErrors.NewRemoteAPIStatusError(resp)
	}
	return result.Issues, nil
}

// CreateIssue opens a new issue in repoID. It is never retried.
func (c *IssueClient) CreateIssue(ctx context.Context, repoID, title, body string) (*gogithub.Issue, error) {
	owner, repo, err := splitRepo(repoID)
	if err != nil {
		return nil, err
	}

	issueRequest := &gogithub.IssueRequest{
		Title: gogithub.Ptr(title),
		Body:  gogithub.Ptr(body),
	}
	issue, resp, err := c.client.Issues.Create(ctx, owner, repo, issueRequest)
	if err != nil {
		return nil, ghErrors.NewRemoteAPIError(resp, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated {
		return nil, ghErrors.NewRemoteAPIStatusError(resp)
	}
	return issue, nil
}

// SearchQuery builds the search string used when a query is given.
func SearchQuery(repoID, state, query string) string {
	return fmt.Sprintf("repo:%s %s state:%s", repoID, query, state)
}

func splitRepo(repoID string) (owner, repo string, err error) {
	owner, repo, ok := strings.Cut(repoID, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", ghErrors.NewValidationError(fmt.Sprintf("Invalid repository: %s (expected owner/name)", repoID))
	}
	return owner, repo, nil
}
