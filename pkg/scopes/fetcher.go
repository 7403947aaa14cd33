package scopes

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	gogithub "github.com/google/go-github/v79/github"
)

// OAuthScopesHeader is the HTTP response header containing the token's OAuth scopes.
const OAuthScopesHeader = "X-OAuth-Scopes"

// DefaultFetchTimeout bounds a single scope lookup.
const DefaultFetchTimeout = 10 * time.Second

// Fetcher retrieves token scopes from GitHub's API.
// It uses an HTTP HEAD request since only the headers are needed.
type Fetcher struct {
	client *gogithub.Client
}

// NewFetcher creates a fetcher that asks through client, which carries the
// token and the API host.
func NewFetcher(client *gogithub.Client) *Fetcher {
	return &Fetcher{client: client}
}

// FetchTokenScopes returns the OAuth scopes of the client's token. The bool
// is false for tokens without classic scopes (fine-grained PATs and GitHub
// App tokens), which never send the scopes header.
func (f *Fetcher) FetchTokenScopes(ctx context.Context) ([]string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultFetchTimeout)
	defer cancel()

	req, err := f.client.NewRequest(http.MethodHead, "", nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.client.Do(ctx, req, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return nil, false, fmt.Errorf("invalid or expired token")
		}
		return nil, false, fmt.Errorf("failed to fetch scopes: %w", err)
	}

	values := resp.Header.Values(OAuthScopesHeader)
	if len(values) == 0 {
		return nil, false, nil
	}
	return ParseScopeHeader(strings.Join(values, ",")), true, nil
}

// ParseScopeHeader parses the X-OAuth-Scopes header value into a list of scopes.
// Returns an empty slice for an empty header.
func ParseScopeHeader(header string) []string {
	parts := strings.Split(header, ",")
	scopes := make([]string, 0, len(parts))
	for _, part := range parts {
		scope := strings.TrimSpace(part)
		if scope != "" {
			scopes = append(scopes, scope)
		}
	}
	return scopes
}
