package inventory

import (
	"sort"
	"strings"
)

// Builder builds an Inventory with the specified configuration.
// Use NewBuilder to create a builder, chain configuration methods,
// then call Build() to create the final inventory.
//
// Example:
//
//	inv, err := NewBuilder().
//	    SetTools(tools).
//	    WithReadOnly(true).
//	    WithTools([]string{"get_issues"}).
//	    Build()
type Builder struct {
	tools []ServerTool

	readOnly     bool
	enabledTools []string // nil means every tool
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// SetTools sets the tools for the inventory. Returns self for chaining.
func (b *Builder) SetTools(tools []ServerTool) *Builder {
	b.tools = tools
	return b
}

// WithReadOnly sets whether only read-only tools should be available.
// When true, write tools are filtered out. Returns self for chaining.
func (b *Builder) WithReadOnly(readOnly bool) *Builder {
	b.readOnly = readOnly
	return b
}

// WithTools restricts the inventory to the named tools. Names are trimmed and
// empty entries ignored; nil or an empty list keeps every tool.
// Returns self for chaining.
func (b *Builder) WithTools(toolNames []string) *Builder {
	b.enabledTools = toolNames
	return b
}

// Build creates the final Inventory. It fails with a ToolDoesNotExistError
// when WithTools named a tool that is not in the set.
func (b *Builder) Build() (*Inventory, error) {
	known := make(map[string]bool, len(b.tools))
	for i := range b.tools {
		known[b.tools[i].Tool.Name] = true
	}

	var enabled map[string]bool
	for _, name := range b.enabledTools {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if !known[name] {
			return nil, NewToolDoesNotExistError(name)
		}
		if enabled == nil {
			enabled = make(map[string]bool)
		}
		enabled[name] = true
	}

	inv := &Inventory{
		byName:   make(map[string]*ServerTool),
		readOnly: b.readOnly,
	}
	for _, tool := range b.tools {
		if b.readOnly && !tool.IsReadOnly() {
			continue
		}
		if enabled != nil && !enabled[tool.Tool.Name] {
			continue
		}
		inv.tools = append(inv.tools, tool)
	}

	// Sort deterministically: by toolset ID, then by tool name
	sort.Slice(inv.tools, func(i, j int) bool {
		if inv.tools[i].Toolset.ID != inv.tools[j].Toolset.ID {
			return inv.tools[i].Toolset.ID < inv.tools[j].Toolset.ID
		}
		return inv.tools[i].Tool.Name < inv.tools[j].Tool.Name
	})
	for i := range inv.tools {
		inv.byName[inv.tools[i].Tool.Name] = &inv.tools[i]
	}

	return inv, nil
}
