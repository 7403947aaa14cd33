// Package translations lets operators override tool descriptions and titles.
package translations

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// ConfigFileName is the JSON file (in the working directory) that holds overrides.
const ConfigFileName = "mcp-github-config.json"

// TranslationHelperFunc returns the text for key, or defaultValue when no
// override is configured.
type TranslationHelperFunc func(key string, defaultValue string) string

// NullTranslationHelper always returns the default. Used by tests and docs.
func NullTranslationHelper(_ string, defaultValue string) string {
	return defaultValue
}

// TranslationHelper reads overrides from GITHUB_MCP_<KEY> environment variables
// and from ConfigFileName. The second return value writes every key seen so
// far, with its effective value, back to ConfigFileName.
func TranslationHelper() (TranslationHelperFunc, func() error) {
	v := viper.New()
	v.SetEnvPrefix("GITHUB_MCP")
	v.AutomaticEnv()
	v.SetConfigFile(ConfigFileName)
	// A missing file just means no overrides.
	_ = v.ReadInConfig()

	var mu sync.Mutex
	keys := map[string]string{}

	t := func(key string, defaultValue string) string {
		key = strings.ToUpper(key)
		mu.Lock()
		defer mu.Unlock()
		if value, ok := keys[key]; ok {
			return value
		}
		v.SetDefault(key, defaultValue)
		keys[key] = v.GetString(key)
		return keys[key]
	}

	dump := func() error {
		mu.Lock()
		defer mu.Unlock()
		return DumpTranslationKeyMap(keys)
	}

	return t, dump
}

// DumpTranslationKeyMap writes keys to ConfigFileName as indented JSON.
func DumpTranslationKeyMap(keys map[string]string) error {
	file, err := os.Create(ConfigFileName)
	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}
	defer func() { _ = file.Close() }()

	data, err := json.MarshalIndent(keys, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling map to JSON: %w", err)
	}
	if _, err := file.Write(data); err != nil {
		return fmt.Errorf("error writing to file: %w", err)
	}
	return nil
}
