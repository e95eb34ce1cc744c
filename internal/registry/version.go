package registry

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// fourPart matches NuGet's legacy four-part versions (1.2.3.4[-pre][+meta]).
var fourPart = regexp.MustCompile(`^(\d+\.\d+\.\d+)\.(\d+)([-+].*)?$`)

// Version is a package version. Ordering follows semantic versioning
// precedence, with NuGet's optional fourth "revision" number compared after
// patch. Prerelease labels compare case-insensitively and build metadata is
// ignored for ordering.
type Version struct {
	sv       *semver.Version
	key      *semver.Version // sv with a lower-cased prerelease, for ordering
	revision uint64
	original string
}

// ParseVersion parses a version string, tolerating a leading "v".
func ParseVersion(s string) (Version, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(s), "v")

	var revision uint64
	if m := fourPart.FindStringSubmatch(raw); m != nil {
		r, err := strconv.ParseUint(m[2], 10, 64)
		if err != nil {
			return Version{}, fmt.Errorf("parsing version %q: %w", s, err)
		}
		revision = r
		raw = m[1] + m[3]
	}

	sv, err := semver.NewVersion(raw)
	if err != nil {
		return Version{}, fmt.Errorf("parsing version %q: %w", s, err)
	}
	key, err := semver.NewVersion(strings.ToLower(raw))
	if err != nil {
		return Version{}, fmt.Errorf("parsing version %q: %w", s, err)
	}
	return Version{sv: sv, key: key, revision: revision, original: strings.TrimSpace(s)}, nil
}

// MustParseVersion is like ParseVersion but panics on error.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Compare returns -1, 0 or 1 as v is lower than, equal to, or higher than o.
func (v Version) Compare(o Version) int {
	if v.sv == nil || o.sv == nil {
		switch {
		case v.sv == nil && o.sv == nil:
			return 0
		case v.sv == nil:
			return -1
		default:
			return 1
		}
	}

	a, b := *v.key, *o.key
	// Compare core numbers and revision before the prerelease tag: 1.0.0.1-beta
	// sorts above 1.0.0.0.
	for _, pair := range [][2]uint64{
		{a.Major(), b.Major()},
		{a.Minor(), b.Minor()},
		{a.Patch(), b.Patch()},
		{v.revision, o.revision},
	} {
		if pair[0] != pair[1] {
			if pair[0] < pair[1] {
				return -1
			}
			return 1
		}
	}
	return a.Compare(&b)
}

// Equal reports whether v and o have the same precedence.
func (v Version) Equal(o Version) bool { return v.Compare(o) == 0 }

// IsPrerelease reports whether v carries a prerelease tag.
func (v Version) IsPrerelease() bool {
	return v.sv != nil && v.sv.Prerelease() != ""
}

// IsZero reports whether v is the zero Version.
func (v Version) IsZero() bool { return v.sv == nil }

// Semver returns the underlying semantic version (without the revision).
func (v Version) Semver() *semver.Version { return v.sv }

// String returns the version as the registry spelled it.
func (v Version) String() string {
	if v.original != "" {
		return v.original
	}
	if v.sv == nil {
		return ""
	}
	return v.sv.Original()
}

// OrderVersions returns versions ordered for display: the highest stable
// version first (when there is one), then every other version in descending
// order. Versions of equal precedence appear once.
func OrderVersions(versions []Version) []Version {
	sorted := slices.Clone(versions)
	slices.SortStableFunc(sorted, func(a, b Version) int { return b.Compare(a) })
	sorted = slices.CompactFunc(sorted, Version.Equal)

	latestStable := slices.IndexFunc(sorted, func(v Version) bool { return !v.IsPrerelease() })
	if latestStable <= 0 {
		return sorted
	}

	ordered := make([]Version, 0, len(sorted))
	ordered = append(ordered, sorted[latestStable])
	ordered = append(ordered, sorted[:latestStable]...)
	ordered = append(ordered, sorted[latestStable+1:]...)
	return ordered
}
