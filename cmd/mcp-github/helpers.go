package main

import (
	"sort"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
)

// formatToolsetName converts a toolset ID to a human-readable name.
// Used by both generate_docs.go and list_tools.go for consistent formatting.
func formatToolsetName(name string) string {
	// Capitalize first letter and replace underscores with spaces
	parts := strings.Split(name, "_")
	for i, part := range parts {
		if len(part) > 0 {
			parts[i] = strings.ToUpper(string(part[0])) + part[1:]
		}
	}
	return strings.Join(parts, " ")
}

// sortedParamNames returns the schema's property names in a deterministic order.
func sortedParamNames(schema *jsonschema.Schema) []string {
	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
