package lockfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"go.yaml.in/yaml/v3"
)

// Parse decodes a lock manifest. JSON input is accepted as-is.
func Parse(r io.Reader) (*Manifest, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrMalformedManifest)
		}
		return nil, fmt.Errorf("%w: %w", ErrMalformedManifest, err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) == 1 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, malformed("", "document is not an object")
	}

	targets, err := requireMapping(root, "targets", "")
	if err != nil {
		return nil, err
	}
	libraries, err := requireMapping(root, "libraries", "")
	if err != nil {
		return nil, err
	}
	return &Manifest{targets: targets, libraries: libraries}, nil
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	m, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return m, nil
}

// Frameworks returns the target framework keys in document order.
func Frameworks(m *Manifest) []string {
	var out []string
	for i := 0; i+1 < len(m.targets.Content); i += 2 {
		out = append(out, m.targets.Content[i].Value)
	}
	return out
}

// Libraries returns the libraries table in document order.
func Libraries(m *Manifest) ([]Library, error) {
	var libs []Library
	err := each(m.libraries, "libraries", func(key string, node *yaml.Node) error {
		at := "libraries/" + key
		if node.Kind != yaml.MappingNode {
			return malformed(at, "library is not an object")
		}

		lib := Library{Key: key}
		p := lookup(node, "path")
		if p == nil || p.Kind != yaml.ScalarNode || p.Value == "" {
			return malformed(at, "missing path")
		}
		lib.Path = p.Value

		if files := lookup(node, "files"); files != nil && !isNull(files) {
			if files.Kind != yaml.SequenceNode {
				return malformed(at+"/files", "not an array")
			}
			for _, f := range files.Content {
				if f.Kind != yaml.ScalarNode {
					return malformed(at+"/files", "entry is not a string")
				}
				lib.Files = append(lib.Files, f.Value)
			}
		}
		libs = append(libs, lib)
		return nil
	})
	return libs, err
}

// lookup returns the value stored under key in a mapping node, or nil.
func lookup(mapping *yaml.Node, key string) *yaml.Node {
	if mapping == nil || mapping.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

func requireMapping(parent *yaml.Node, key, at string) (*yaml.Node, error) {
	if at != "" {
		at += "/"
	}
	node := lookup(parent, key)
	if node == nil {
		return nil, malformed(at+key, "missing")
	}
	if node.Kind != yaml.MappingNode {
		return nil, malformed(at+key, "not an object")
	}
	return node, nil
}

// each calls fn for every key/value pair of a mapping node, in order.
func each(mapping *yaml.Node, at string, fn func(key string, value *yaml.Node) error) error {
	if mapping.Kind != yaml.MappingNode {
		return malformed(at, "not an object")
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if err := fn(mapping.Content[i].Value, mapping.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}

func malformed(at, msg string) error {
	if at == "" {
		return fmt.Errorf("%w: %s", ErrMalformedManifest, msg)
	}
	return fmt.Errorf("%w: %s: %s", ErrMalformedManifest, at, msg)
}

// readFile reads the contents of a file at the given path.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}
