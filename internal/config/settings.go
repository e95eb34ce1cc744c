package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nluyan/pkgpad/internal/branding"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Setting keys.
const (
	KeySources              = "sources"
	KeyGlobalPackagesFolder = "globalPackagesFolder"
	KeyMaxResults           = "maxResults"
	KeyTimeout              = "timeout"
)

const (
	// DefaultMaxResults caps the number of hits requested from a source.
	DefaultMaxResults = 50
	// DefaultTimeout bounds a single registry request.
	DefaultTimeout = 30 * time.Second
)

// ErrInitialization marks a settings failure captured at startup. It is
// returned by the first operation that needs the settings.
var ErrInitialization = errors.New("initialization failed")

// SourceConfig is one registry source entry from the sources list.
type SourceConfig struct {
	Name    string `mapstructure:"name" yaml:"name"`
	URL     string `mapstructure:"url" yaml:"url"`
	Enabled *bool  `mapstructure:"enabled" yaml:"enabled,omitempty"`
}

// IsEnabled reports whether the source is enabled. Omitted means enabled.
func (s SourceConfig) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// Settings holds everything read from configuration at startup.
type Settings struct {
	Sources              []SourceConfig // priority order, enabled and disabled
	GlobalPackagesFolder string
	MaxResults           int
	Timeout              time.Duration
	ConfigFile           string
}

// EnabledSources returns the enabled sources in priority order.
func (s *Settings) EnabledSources() []SourceConfig {
	var out []SourceConfig
	for _, src := range s.Sources {
		if src.IsEnabled() {
			out = append(out, src)
		}
	}
	return out
}

// Result is the outcome of loading settings. Exactly one of Settings and Err
// is set.
type Result struct {
	Settings *Settings
	Err      error
}

// Get returns the settings, or the captured initialization error.
func (r Result) Get() (*Settings, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	if r.Settings == nil {
		return nil, fmt.Errorf("%w: settings not loaded", ErrInitialization)
	}
	return r.Settings, nil
}

// Failed wraps err as a captured initialization failure.
func Failed(err error) Result {
	return Result{Err: fmt.Errorf("%w: %w", ErrInitialization, err)}
}

// Loaded wraps already-built settings.
func Loaded(s *Settings) Result {
	return Result{Settings: s}
}

// LoadSettings reads settings from path (FilePath() when empty) and the
// environment. It never returns early with a bare error: a config file that
// cannot be parsed is logged and replaced by defaults, and failures that leave
// no usable settings are captured in Result.Err.
func LoadSettings(path string) Result {
	if path == "" {
		path = FilePath()
	}

	v := viper.New()
	configure(v, path)
	v.SetDefault(KeyMaxResults, DefaultMaxResults)
	v.SetDefault(KeyTimeout, DefaultTimeout)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			// Broken config file:
			// report it and continue with defaults.
			zap.L().Sugar().Warnf("ignoring unreadable config %s: %v", path, err)
			v = viper.New()
			configure(v, path)
			v.SetDefault(KeyMaxResults, DefaultMaxResults)
			v.SetDefault(KeyTimeout, DefaultTimeout)
		}
	}

	var sources []SourceConfig
	if err := v.UnmarshalKey(KeySources, &sources); err != nil {
		return Failed(fmt.Errorf("decoding %s: %w", KeySources, err))
	}
	if len(sources) == 0 {
		name, url := branding.DefaultSource()
		sources = []SourceConfig{{Name: name, URL: url}}
	}
	if err := validateSources(sources); err != nil {
		return Failed(err)
	}

	folder, err := globalPackagesFolder(v.GetString(KeyGlobalPackagesFolder))
	if err != nil {
		return Failed(err)
	}

	maxResults := v.GetInt(KeyMaxResults)
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	timeout := v.GetDuration(KeyTimeout)
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return Loaded(&Settings{
		Sources:              sources,
		GlobalPackagesFolder: folder,
		MaxResults:           maxResults,
		Timeout:              timeout,
		ConfigFile:           path,
	})
}

// validateSources rejects entries without a URL and duplicate names.
func validateSources(sources []SourceConfig) error {
	seen := make(map[string]bool, len(sources))
	for i, src := range sources {
		if strings.TrimSpace(src.URL) == "" {
			return fmt.Errorf("source %d (%q) has no url", i, src.Name)
		}
		name := strings.ToLower(src.Name)
		if name == "" {
			continue
		}
		if seen[name] {
			return fmt.Errorf("duplicate source name %q", src.Name)
		}
		seen[name] = true
	}
	return nil
}

// globalPackagesFolder resolves the package cache directory: the configured
// value first, then $NUGET_PACKAGES, then ~/.nuget/packages.
func globalPackagesFolder(configured string) (string, error) {
	if configured != "" {
		return expandHome(configured)
	}
	if env := os.Getenv("NUGET_PACKAGES"); env != "" {
		return env, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving global packages folder: %w", err)
	}
	return filepath.Join(home, ".nuget", "packages"), nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expanding %s: %w", path, err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
