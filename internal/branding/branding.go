// Package branding provides compile-time identity values for the CLI.
//
// The values live in branding.yaml next to this file and are baked into the
// binary with //go:embed. Hard defaults apply when the file is empty.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName           string `yaml:"cli_name"`
	DisplayName       string `yaml:"display_name"`
	Description       string `yaml:"description"`
	HomeDir           string `yaml:"home_dir"`
	EnvPrefix         string `yaml:"env_prefix"`
	GoModule          string `yaml:"go_module"`
	UserAgent         string `yaml:"user_agent"`
	DefaultSourceName string `yaml:"default_source_name"`
	DefaultSourceURL  string `yaml:"default_source_url"`
}

func load() {
	once.Do(func() {
		defaults = brand{
			CLIName:           "pkgpad",
			DisplayName:       "PkgPad",
			Description:       "Search package registries and resolve restore assets",
			HomeDir:           ".pkgpad",
			EnvPrefix:         "PKGPAD",
			GoModule:          "github.com/nluyan/pkgpad",
			UserAgent:         "pkgpad-cli",
			DefaultSourceName: "nuget.org",
			DefaultSourceURL:  "https://api.nuget.org/v3/index.json",
		}
		// Overlay with embedded YAML values.
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "pkgpad").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".pkgpad").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "PKGPAD").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// GoModule returns the Go module path.
func GoModule() string { load(); return defaults.GoModule }

// UserAgent returns the User-Agent sent to package registries.
func UserAgent() string { load(); return defaults.UserAgent }

// DefaultSource returns the name and service index URL of the registry used
// when no sources are configured.
func DefaultSource() (name, url string) {
	load()
	return defaults.DefaultSourceName, defaults.DefaultSourceURL
}

// EnvVar returns a fully qualified env var name, e.g., EnvVar("HOME") → "PKGPAD_HOME".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
