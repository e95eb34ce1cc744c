// Package lockfile reads dependency-closure lock manifests (the
// project.assets.json shape: "targets" per framework and a global "libraries"
// table) and resolves the compile, runtime and analyzer assets needed to load
// a package closure for one target framework.
//
// Mapping key order is significant: packages are visited in document order
// and the first asset with a given name wins, so manifests are decoded into
// yaml.Node trees rather than Go maps.
package lockfile
