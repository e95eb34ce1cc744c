// Package config manages user-level settings stored at ~/.pkgpad/config.yaml.
// It loads the ordered registry source list and the global packages folder
// once at startup, capturing any failure in a Result so that it surfaces on
// first use instead of at construction.
package config
