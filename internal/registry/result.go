package registry

import (
	"fmt"
	"strings"
)

// PackageIdentity names one version of a package.
type PackageIdentity struct {
	ID      string
	Version Version
}

// Equal reports whether p and o name the same package version. Package IDs
// compare case-insensitively.
func (p PackageIdentity) Equal(o PackageIdentity) bool {
	return strings.EqualFold(p.ID, o.ID) && p.Version.Equal(o.Version)
}

// String returns "id/version".
func (p PackageIdentity) String() string {
	return p.ID + "/" + p.Version.String()
}

// PackageResult is one search hit together with the other versions its
// source publishes. OtherVersions is already in display order (see
// OrderVersions) when a result is returned from Search.
type PackageResult struct {
	Identity      PackageIdentity
	Description   string
	Authors       []string
	Downloads     int64
	Source        Source
	OtherVersions []Version
}

// NewPackageResult builds a result, ordering versions for display.
func NewPackageResult(id PackageIdentity, src Source, versions []Version) PackageResult {
	return PackageResult{
		Identity:      id,
		Source:        src,
		OtherVersions: OrderVersions(versions),
	}
}

// Versions returns OtherVersions as strings.
func (r PackageResult) Versions() []string {
	out := make([]string, len(r.OtherVersions))
	for i, v := range r.OtherVersions {
		out[i] = v.String()
	}
	return out
}

// Reference returns the package reference a script uses to pull in r,
// e.g. "nuget:Newtonsoft.Json/13.0.3".
func Reference(r PackageResult) string {
	return fmt.Sprintf("nuget:%s/%s", r.Identity.ID, r.Identity.Version)
}

// Directive returns the script directive that references r.
func Directive(r PackageResult) string {
	return fmt.Sprintf("#r %q", Reference(r))
}
