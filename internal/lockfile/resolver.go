package lockfile

import (
	"path"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

// IsPlaceholder reports whether relativePath names the "_._" placeholder.
func IsPlaceholder(relativePath string) bool {
	return path.Base(slash(relativePath)) == Placeholder
}

// ResolveAssets computes the assets needed to load the closure resolved for
// framework, with every path rooted at packagesDir.
//
// Packages are visited in manifest order. A package's compile group is read
// first; a placeholder anywhere in it drops the whole group and the package's
// runtime group with it, and a package without a compile group contributes no
// runtime assets either. Within Compile and within Runtime the first asset
// with a given extensionless file name wins, across packages.
//
// Analyzers are collected from every library in the manifest whatever the
// framework, so a framework absent from the manifest still yields analyzers
// but no compile or runtime assets.
func ResolveAssets(m *Manifest, packagesDir, framework string) (*AssetSet, error) {
	set := &AssetSet{Compile: []string{}, Runtime: []string{}, Analyzers: []string{}}

	libs, err := Libraries(m)
	if err != nil {
		return nil, err
	}
	byKey := make(map[string]Library, len(libs))
	for _, lib := range libs {
		byKey[lib.Key] = lib
	}

	if target := lookup(m.targets, framework); target != nil && !isNull(target) {
		at := "targets/" + framework
		compileNames := make(map[string]bool)
		runtimeNames := make(map[string]bool)

		err := each(target, at, func(key string, entry *yaml.Node) error {
			lib, ok := byKey[key]
			if !ok {
				return malformed("libraries/"+key, "missing")
			}
			if entry.Kind != yaml.MappingNode {
				return malformed(at+"/"+key, "not an object")
			}
			root := filepath.Join(packagesDir, filepath.FromSlash(lib.Path))

			compiled, err := readGroup(entry, groupCompile, at+"/"+key, root, &set.Compile, compileNames)
			if err != nil || !compiled {
				return err
			}
			_, err = readGroup(entry, groupRuntime, at+"/"+key, root, &set.Runtime, runtimeNames)
			return err
		})
		if err != nil {
			return nil, err
		}
	}

	for _, lib := range libs {
		for _, f := range lib.Files {
			if strings.HasPrefix(f, AnalyzerPrefix) {
				set.Analyzers = append(set.Analyzers, filepath.Join(packagesDir, filepath.FromSlash(lib.Path), filepath.FromSlash(f)))
			}
		}
	}

	return set, nil
}

// readGroup appends the assets of one group to out. It reports false when
// the group is absent or holds a placeholder; nothing is appended or recorded
// in names in that case.
func readGroup(entry *yaml.Node, group, at, root string, out *[]string, names map[string]bool) (bool, error) {
	node := lookup(entry, group)
	if node == nil || isNull(node) {
		return false, nil
	}
	at += "/" + group

	var rels []string
	err := each(node, at, func(rel string, _ *yaml.Node) error {
		rels = append(rels, rel)
		return nil
	})
	if err != nil {
		return false, err
	}
	for _, rel := range rels {
		if IsPlaceholder(rel) {
			return false, nil
		}
	}

	for _, rel := range rels {
		name := assetName(rel)
		if names[name] {
			continue
		}
		names[name] = true
		*out = append(*out, filepath.Join(root, filepath.FromSlash(rel)))
	}
	return true, nil
}

// assetName is the file name of rel without its extension.
func assetName(rel string) string {
	base := path.Base(slash(rel))
	return strings.TrimSuffix(base, path.Ext(base))
}

// slash turns backslash separators into forward slashes.
func slash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}
