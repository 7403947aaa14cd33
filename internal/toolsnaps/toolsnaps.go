// Package toolsnaps pins tool definitions to JSON snapshots so schema changes
// show up in review.
package toolsnaps

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	jd "github.com/josephburnett/jd/lib"
)

// Test marshals tool and compares it with __toolsnaps__/<toolName>.snap in the
// working directory. Arrays compare as sets.
//
// UPDATE_TOOLSNAPS=true rewrites the snapshot. A missing snapshot is written,
// except under GITHUB_ACTIONS=true where it is an error.
func Test(toolName string, tool any) error {
	toolJSON, err := json.MarshalIndent(tool, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal tool %s: %w", toolName, err)
	}

	snapPath := filepath.Join("__toolsnaps__", toolName+".snap")

	if os.Getenv("UPDATE_TOOLSNAPS") == "true" {
		return writeSnap(snapPath, toolJSON)
	}

	snapJSON, err := os.ReadFile(snapPath) //nolint:gosec // path is built from a tool name in tests
	if errors.Is(err, os.ErrNotExist) {
		if os.Getenv("GITHUB_ACTIONS") == "true" {
			return fmt.Errorf("tool snapshot does not exist for %s. Please run the tests with UPDATE_TOOLSNAPS=true to create it", toolName)
		}
		return writeSnap(snapPath, toolJSON)
	}
	if err != nil {
		return fmt.Errorf("failed to read snapshot for %s: %w", toolName, err)
	}

	toolNode, err := jd.ReadJsonString(string(toolJSON))
	if err != nil {
		return fmt.Errorf("failed to parse tool JSON for %s: %w", toolName, err)
	}
	snapNode, err := jd.ReadJsonString(string(snapJSON))
	if err != nil {
		return fmt.Errorf("failed to parse snapshot JSON for %s: %w", toolName, err)
	}

	if diff := toolNode.Diff(snapNode, jd.SET).Render(); diff != "" {
		return fmt.Errorf("tool schema for %s has changed unexpectedly:\n%s\nrun with `UPDATE_TOOLSNAPS=true` if this is expected", toolName, diff)
	}
	return nil
}

func writeSnap(snapPath string, contents []byte) error {
	sorted, err := sortJSONKeys(contents)
	if err != nil {
		return fmt.Errorf("failed to sort snapshot keys: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(snapPath), 0700); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	if err := os.WriteFile(snapPath, sorted, 0600); err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", snapPath, err)
	}
	return nil
}

// sortJSONKeys re-indents JSON with object keys in alphabetical order, so
// snapshots do not churn when struct fields move.
func sortJSONKeys(data []byte) ([]byte, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return json.MarshalIndent(v, "", "  ")
}
