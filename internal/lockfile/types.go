package lockfile

import (
	"errors"

	"go.yaml.in/yaml/v3"
)

// ErrMalformedManifest is wrapped by every error caused by a manifest that
// lacks the expected structure.
var ErrMalformedManifest = errors.New("malformed lock manifest")

// Manifest is a parsed lock manifest.
type Manifest struct {
	targets   *yaml.Node // framework -> package key -> asset groups
	libraries *yaml.Node // package key -> library metadata
}

// Library is one entry of the manifest's libraries table.
type Library struct {
	Key   string   // package identity, e.g. "Newtonsoft.Json/13.0.3"
	Path  string   // install path relative to the packages directory
	Files []string // declared files relative to Path
}

// AssetSet is the outcome of resolving a manifest for one framework. Paths
// are joined onto the packages directory. Compile and Runtime never hold two
// assets with the same file name once the extension is dropped.
type AssetSet struct {
	Compile   []string
	Runtime   []string
	Analyzers []string
}

// Asset group names within a target entry.
const (
	groupCompile = "compile"
	groupRuntime = "runtime"
)

const (
	// Placeholder is the file name a package lists in an asset group when it
	// contributes no real file to that group.
	Placeholder = "_._"

	// AnalyzerPrefix marks C# compiler extensions among a library's files.
	AnalyzerPrefix = "analyzers/dotnet/cs/"
)
