package registry

import "github.com/nluyan/pkgpad/internal/config"

// Source identifies a package registry: a name, the URL of its service
// index, and whether it is enabled. Sources are compared by value and used as
// EndpointCache keys.
type Source struct {
	Name    string
	URL     string
	Enabled bool
}

// SourcesFromSettings returns the enabled sources in priority order
// (first source = highest priority).
func SourcesFromSettings(s *config.Settings) []Source {
	var sources []Source
	for _, sc := range s.EnabledSources() {
		name := sc.Name
		if name == "" {
			name = sc.URL
		}
		sources = append(sources, Source{Name: name, URL: sc.URL, Enabled: true})
	}
	return sources
}
