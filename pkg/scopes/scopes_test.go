package scopes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	gogithub "github.com/google/go-github/v79/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScopeHeader(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected []string
	}{
		{
			name:     "empty header",
			header:   "",
			expected: []string{},
		},
		{
			name:     "single scope",
			header:   "repo",
			expected: []string{"repo"},
		},
		{
			name:     "scopes with extra whitespace",
			header:   "  repo  ,  user  ,  gist  ",
			expected: []string{"repo", "user", "gist"},
		},
		{
			name:     "empty parts are filtered",
			header:   "repo,,read:org",
			expected: []string{"repo", "read:org"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseScopeHeader(tt.header))
		})
	}
}

func TestHasRequiredScopes(t *testing.T) {
	tests := []struct {
		name        string
		tokenScopes []string
		accepted    []Scope
		expected    bool
	}{
		{"no scopes required", nil, nil, true},
		{"exact scope", []string{"public_repo"}, []Scope{PublicRepo}, true},
		{"parent scope grants child", []string{"repo"}, []Scope{PublicRepo}, true},
		{"child does not grant parent", []string{"public_repo"}, []Scope{Repo}, false},
		{"unrelated scopes", []string{"gist", "read:org"}, []Scope{PublicRepo}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HasRequiredScopes(tt.tokenScopes, tt.accepted))
		})
	}
}

func TestUnusableTools(t *testing.T) {
	tools := []string{"create_issue", "get_issues"}

	assert.Empty(t, UnusableTools([]string{"repo"}, tools))
	assert.Equal(t, []string{"create_issue"}, UnusableTools([]string{"read:org"}, tools))
	assert.Empty(t, UnusableTools(nil, []string{"get_issues"}))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *gogithub.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	baseURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)

	client := gogithub.NewClient(server.Client()).WithAuthToken("test-token")
	client.BaseURL = baseURL
	return client
}

func TestFetcher_FetchTokenScopes(t *testing.T) {
	tests := []struct {
		name           string
		handler        http.HandlerFunc
		expectedScopes []string
		expectedFound  bool
		errorContains  string
	}{
		{
			name: "classic token",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("X-OAuth-Scopes", "repo, user, gist")
				w.WriteHeader(http.StatusOK)
			},
			expectedScopes: []string{"repo", "user", "gist"},
			expectedFound:  true,
		},
		{
			name: "classic token without scopes",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("X-OAuth-Scopes", "")
				w.WriteHeader(http.StatusOK)
			},
			expectedScopes: []string{},
			expectedFound:  true,
		},
		{
			name: "fine-grained token",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			},
		},
		{
			name: "request is an authenticated HEAD",
			handler: func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodHead || r.Header.Get("Authorization") != "Bearer test-token" {
					w.WriteHeader(http.StatusMethodNotAllowed)
					return
				}
				w.Header().Set("X-OAuth-Scopes", "repo")
				w.WriteHeader(http.StatusOK)
			},
			expectedScopes: []string{"repo"},
			expectedFound:  true,
		},
		{
			name: "unauthorized token",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			},
			errorContains: "invalid or expired token",
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			errorContains: "failed to fetch scopes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := NewFetcher(newTestClient(t, tt.handler))

			scopes, found, err := fetcher.FetchTokenScopes(context.Background())

			if tt.errorContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedFound, found)
			assert.Equal(t, tt.expectedScopes, scopes)
		})
	}
}
