package scopes

// Scope represents a GitHub OAuth scope of a classic personal access token.
// See https://docs.github.com/en/apps/oauth-apps/building-oauth-apps/scopes-for-oauth-apps
type Scope string

const (
	// Repo grants full control of private repositories
	Repo Scope = "repo"

	// PublicRepo grants access to public repositories
	PublicRepo Scope = "public_repo"
)

// ScopeHierarchy defines parent-child relationships between scopes.
// A parent scope implicitly grants access to all child scopes.
var ScopeHierarchy = map[Scope][]Scope{
	Repo: {PublicRepo},
}

// ToolScopes lists, per tool, the scopes any one of which lets a classic
// token run it. Tools that are not listed need no scope.
var ToolScopes = map[string][]Scope{
	"create_issue": {PublicRepo},
}

// expandScopeSet returns a set of all scopes granted by the given scopes,
// including child scopes from the hierarchy.
func expandScopeSet(scopes []string) map[Scope]bool {
	expanded := make(map[Scope]bool, len(scopes))
	for _, scope := range scopes {
		expanded[Scope(scope)] = true
		for _, child := range ScopeHierarchy[Scope(scope)] {
			expanded[child] = true
		}
	}
	return expanded
}

// HasRequiredScopes reports whether tokenScopes grant any of accepted.
// No accepted scopes means the tool is always allowed.
func HasRequiredScopes(tokenScopes []string, accepted []Scope) bool {
	if len(accepted) == 0 {
		return true
	}

	granted := expandScopeSet(tokenScopes)
	for _, scope := range accepted {
		if granted[scope] {
			return true
		}
	}
	return false
}

// UnusableTools returns the names in tools that tokenScopes cannot run, in
// the order given.
func UnusableTools(tokenScopes []string, tools []string) []string {
	var unusable []string
	for _, tool := range tools {
		if !HasRequiredScopes(tokenScopes, ToolScopes[tool]) {
			unusable = append(unusable, tool)
		}
	}
	return unusable
}
