package github

import (
	"github.com/mcp-github/mcp-github/pkg/inventory"
	"github.com/mcp-github/mcp-github/pkg/translations"
)

// AllTools returns every tool this server can expose.
func AllTools(t translations.TranslationHelperFunc) []inventory.ServerTool {
	return []inventory.ServerTool{
		GetIssues(t),
		CreateIssue(t),
	}
}

// NewInventory creates an inventory builder preloaded with all tools.
// The tools are stateless; dependencies are injected per request with
// ContextWithDeps.
func NewInventory(t translations.TranslationHelperFunc) *inventory.Builder {
	return inventory.NewBuilder().SetTools(AllTools(t))
}
