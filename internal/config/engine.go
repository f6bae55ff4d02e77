package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/dgallion1/docoutline/internal/engine"
	"gopkg.in/yaml.v3"
)

// envVarPattern matches ${VAR_NAME} patterns.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// LoadEngine reads engine thresholds from a YAML file. Keys the file leaves
// out keep their defaults, and a missing file (or an empty path) means all
// defaults. HEADING_MULTIPLIER, MIN_RUN_SIZE, MAX_HEADING_WORDS and
// REQUIRE_BOLD override the file. The result is validated.
func LoadEngine(path string) (engine.Config, error) {
	cfg := engine.DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal([]byte(expandEnvVars(string(data))), &cfg); err != nil {
				return engine.Config{}, fmt.Errorf("failed to parse engine config %s: %w", path, err)
			}
		case os.IsNotExist(err):
		default:
			return engine.Config{}, fmt.Errorf("failed to read engine config: %w", err)
		}
	}

	cfg.HeadingMultiplier = envFloat("HEADING_MULTIPLIER", cfg.HeadingMultiplier)
	cfg.MinRunSize = envFloat("MIN_RUN_SIZE", cfg.MinRunSize)
	cfg.MaxHeadingWords = envInt("MAX_HEADING_WORDS", cfg.MaxHeadingWords)
	cfg.RequireBold = envBool("REQUIRE_BOLD", cfg.RequireBold)

	if err := cfg.Validate(); err != nil {
		return engine.Config{}, err
	}
	return cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} with environment variable values.
// Unset variables expand to the empty string.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		return os.Getenv(varName)
	})
}
