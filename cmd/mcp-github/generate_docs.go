package main

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/mcp-github/mcp-github/pkg/github"
	"github.com/mcp-github/mcp-github/pkg/inventory"
	"github.com/mcp-github/mcp-github/pkg/translations"
	"github.com/spf13/cobra"
)

var generateDocsCmd = &cobra.Command{
	Use:   "generate-docs",
	Short: "Generate documentation for tools",
	Long:  `Generate the automated tools section of README.md with current tool information.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := generateReadmeDocs("README.md"); err != nil {
			return fmt.Errorf("failed to generate docs for README.md: %w", err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Successfully updated README.md with automated documentation")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateDocsCmd)
}

func generateReadmeDocs(readmePath string) error {
	// Create translation helper
	t, _ := translations.TranslationHelper()

	// Build() can only fail if WithTools specifies invalid tools - not used here
	r, _ := github.NewInventory(t).Build()

	toolsDoc := generateToolsDoc(r)

	// #nosec G304 - readmePath is fixed by the command, not user input
	content, err := os.ReadFile(readmePath)
	if err != nil {
		return fmt.Errorf("failed to read README.md: %w", err)
	}

	updatedContent, err := replaceSection(string(content), "START AUTOMATED TOOLS", "END AUTOMATED TOOLS", toolsDoc)
	if err != nil {
		return err
	}

	err = os.WriteFile(readmePath, []byte(updatedContent), 0600)
	if err != nil {
		return fmt.Errorf("failed to write README.md: %w", err)
	}

	return nil
}

func generateToolsDoc(r *inventory.Inventory) string {
	tools := r.AvailableTools()
	if len(tools) == 0 {
		return ""
	}

	var buf strings.Builder
	var toolBuf strings.Builder
	var currentToolsetID inventory.ToolsetID
	firstSection := true

	writeSection := func() {
		if toolBuf.Len() == 0 {
			return
		}
		if !firstSection {
			buf.WriteString("\n\n")
		}
		firstSection = false
		sectionName := formatToolsetName(string(currentToolsetID))
		fmt.Fprintf(&buf, "<details>\n\n<summary>%s</summary>\n\n%s\n\n</details>", sectionName, strings.TrimSuffix(toolBuf.String(), "\n\n"))
		toolBuf.Reset()
	}

	for _, tool := range tools {
		// When toolset changes, emit the previous section
		if tool.Toolset.ID != currentToolsetID {
			writeSection()
			currentToolsetID = tool.Toolset.ID
		}
		writeToolDoc(&toolBuf, tool)
		toolBuf.WriteString("\n\n")
	}

	// Emit the last section
	writeSection()

	return buf.String()
}

func writeToolDoc(buf io.Writer, tool inventory.ServerTool) {
	title := ""
	if tool.Tool.Annotations != nil {
		title = tool.Tool.Annotations.Title
	}
	fmt.Fprintf(buf, "- **%s** - %s\n", tool.Tool.Name, title)

	schema, ok := tool.Tool.InputSchema.(*jsonschema.Schema)
	if !ok || schema == nil || len(schema.Properties) == 0 {
		fmt.Fprint(buf, "  - No parameters required")
		return
	}

	paramNames := sortedParamNames(schema)
	for i, propName := range paramNames {
		prop := schema.Properties[propName]
		requiredStr := "optional"
		if slices.Contains(schema.Required, propName) {
			requiredStr = "required"
		}

		typeStr := prop.Type
		if prop.Type == "array" && prop.Items != nil {
			typeStr = prop.Items.Type + "[]"
		}

		// Indent any continuation lines in the description to maintain markdown formatting
		description := indentMultilineDescription(prop.Description, "    ")

		fmt.Fprintf(buf, "  - `%s`: %s (%s, %s)", propName, description, typeStr, requiredStr)
		if i < len(paramNames)-1 {
			fmt.Fprint(buf, "\n")
		}
	}
}

// indentMultilineDescription adds the specified indent to all lines after the first line.
func indentMultilineDescription(description, indent string) string {
	return strings.ReplaceAll(description, "\n", "\n"+indent)
}

func replaceSection(content, startMarker, endMarker, newContent string) (string, error) {
	start := fmt.Sprintf("<!-- %s -->", startMarker)
	end := fmt.Sprintf("<!-- %s -->", endMarker)

	startIdx := strings.Index(content, start)
	endIdx := strings.Index(content, end)
	if startIdx == -1 || endIdx == -1 || endIdx < startIdx {
		return "", fmt.Errorf("markers not found: %s / %s", start, end)
	}

	var buf strings.Builder
	buf.WriteString(content[:startIdx])
	buf.WriteString(start)
	buf.WriteString("\n")
	buf.WriteString(newContent)
	buf.WriteString("\n")
	buf.WriteString(content[endIdx:])
	return buf.String(), nil
}
