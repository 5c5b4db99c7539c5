// Package config loads the optional leon.yaml file. It carries the
// settings that stay constant across invocations: the system include set
// handed to the indexing library, project-wide includes and defines, and
// default artifact extensions. CLI flags always win over the file.
package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where Load looks when no --config flag is given.
const DefaultPath = "leon.yaml"

type Config struct {
	// SystemIncludes are passed as -isystem directories; they come from
	// the toolchain installation rather than the command line.
	SystemIncludes []string `yaml:"system_includes"`
	Includes       []string `yaml:"includes"`
	Defines        []string `yaml:"defines"`

	OutExtension  string `yaml:"out_extension"`
	GlueExtension string `yaml:"glue_extension"`

	// SkipUnannotated enables the tree-sitter pre-scan: stale sources with
	// no annotation macros skip the semantic parse and hand the script
	// empty tables.
	SkipUnannotated bool `yaml:"skip_unannotated"`
}

// Load reads the YAML config and applies environment overrides. A missing
// default file is not an error; an explicitly requested file must exist.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	case os.IsNotExist(err) && path == DefaultPath:
		// Defaults only.
	default:
		return nil, err
	}

	if v := os.Getenv("LEON_SYSTEM_INCLUDES"); v != "" {
		cfg.SystemIncludes = splitList(v)
	}

	return cfg, nil
}

// splitList splits a semicolon-separated list, the CMake convention used
// across the CLI surface.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ";") {
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
