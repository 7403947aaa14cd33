package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/mcp-github/mcp-github/pkg/github"
	"github.com/mcp-github/mcp-github/pkg/inventory"
	"github.com/mcp-github/mcp-github/pkg/translations"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ToolInfo describes a single tool of the catalog.
type ToolInfo struct {
	Name       string   `json:"name"`
	Title      string   `json:"title"`
	Toolset    string   `json:"toolset"`
	ReadOnly   bool     `json:"read_only"`
	Parameters []string `json:"parameters"`
	Required   []string `json:"required"`
}

// ToolsOutput is the full output structure for the list-tools command.
type ToolsOutput struct {
	Tools    []ToolInfo `json:"tools"`
	ReadOnly bool       `json:"read_only"`
}

var listToolsCmd = &cobra.Command{
	Use:   "list-tools",
	Short: "List the tools the server would offer",
	Long: `List the tools the server would offer with the current flags.

This command builds the tool catalog from the same flags as the stdio command,
so --tools and --read-only narrow the output the same way.

The output format can be controlled with the --output flag:
  - text (default): Human-readable text output
  - json: JSON output for programmatic use

Examples:
  # List every tool
  mcp-github list-tools

  # List what a read-only server offers, as JSON
  mcp-github list-tools --read-only --output=json`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runListTools(cmd.OutOrStdout())
	},
}

func init() {
	listToolsCmd.Flags().StringP("output", "o", "text", "Output format: text or json")
	_ = viper.BindPFlag("list-tools-output", listToolsCmd.Flags().Lookup("output"))

	rootCmd.AddCommand(listToolsCmd)
}

func runListTools(w io.Writer) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	t, _ := translations.TranslationHelper()

	// Build inventory using the same logic as the stdio server
	inv, err := github.NewInventory(t).
		WithReadOnly(settings.ReadOnly).
		WithTools(settings.Tools).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build inventory: %w", err)
	}

	output := collectTools(inv)

	switch format := viper.GetString("list-tools-output"); format {
	case "json":
		return outputJSON(w, output)
	case "text", "":
		return outputText(w, output)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func collectTools(inv *inventory.Inventory) ToolsOutput {
	tools := []ToolInfo{}
	for _, serverTool := range inv.AvailableTools() {
		info := ToolInfo{
			Name:       serverTool.Tool.Name,
			Toolset:    string(serverTool.Toolset.ID),
			ReadOnly:   serverTool.IsReadOnly(),
			Parameters: []string{},
			Required:   []string{},
		}
		if serverTool.Tool.Annotations != nil {
			info.Title = serverTool.Tool.Annotations.Title
		}
		if schema, ok := serverTool.Tool.InputSchema.(*jsonschema.Schema); ok && schema != nil {
			info.Parameters = sortedParamNames(schema)
			info.Required = append(info.Required, schema.Required...)
		}
		tools = append(tools, info)
	}

	return ToolsOutput{
		Tools:    tools,
		ReadOnly: inv.ReadOnly(),
	}
}

func outputJSON(w io.Writer, output ToolsOutput) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func outputText(w io.Writer, output ToolsOutput) error {
	fmt.Fprintf(w, "Tools\n")
	fmt.Fprintf(w, "=====\n\n")
	fmt.Fprintf(w, "Read-Only Mode: %v\n\n", output.ReadOnly)

	var currentToolset string
	for _, tool := range output.Tools {
		if tool.Toolset != currentToolset {
			currentToolset = tool.Toolset
			fmt.Fprintf(w, "## %s\n\n", formatToolsetName(currentToolset))
		}

		mode := "read-write"
		if tool.ReadOnly {
			mode = "read-only"
		}
		fmt.Fprintf(w, "  %s (%s): %s\n", tool.Name, mode, tool.Title)
		if len(tool.Required) > 0 {
			fmt.Fprintf(w, "    required: %s\n", strings.Join(tool.Required, ", "))
		}
	}

	fmt.Fprintf(w, "\nTotal: %d tools\n", len(output.Tools))
	return nil
}
