// Package version parses, orders and diffs Maven-style version strings.
//
// A [Version] follows the three-segment convention used by Maven artifacts:
// major.minor.patch, each segment optionally carrying a hyphen qualifier
// (collected into Snap), and any segments after the third collected into
// Other. It is not a SemVer implementation.
//
// Ordering compares major, minor, patch, then Other ascending, then Snap
// descending. This makes "1.2.3-SNAPSHOT" sort before "1.2.3".
//
//	vs := []version.Version{version.Parse("1.2.3"), version.Parse("1.2.3-SNAPSHOT")}
//	slices.SortFunc(vs, version.Version.Compare)
//	// 1.2.3-SNAPSHOT, 1.2.3
package version

import (
	"cmp"
	"strconv"
	"strings"
)

// Version is an immutable parsed version.
type Version struct {
	Major int
	Minor int
	Patch int
	Snap  string // hyphen qualifiers of the first three segments, "-" joined
	Other string // segments after the third, "." joined
}

// Zero is the version parsed from an empty string.
var Zero = Version{}

// Parse splits s on "." and fills the numeric segments. Empty input yields
// [Zero]. A segment that does not start with digits counts as 0 and its
// text becomes part of the qualifier.
func Parse(s string) Version {
	var v Version
	if s == "" {
		return v
	}
	var snaps []string
	var other strings.Builder
	for i, seg := range strings.Split(s, ".") {
		if i > 2 {
			if i > 3 {
				other.WriteByte('.')
			}
			other.WriteString(seg)
			continue
		}
		num, qualifier := splitSegment(seg)
		if qualifier != "" {
			snaps = append(snaps, qualifier)
		}
		switch i {
		case 0:
			v.Major = num
		case 1:
			v.Minor = num
		case 2:
			v.Patch = num
		}
	}
	v.Snap = strings.Join(snaps, "-")
	v.Other = other.String()
	return v
}

// splitSegment returns the numeric part of seg and its qualifier.
// "3-SNAPSHOT" gives (3, "SNAPSHOT"), "RELEASE" gives (0, "RELEASE").
func splitSegment(seg string) (int, string) {
	numPart, qualifier, found := strings.Cut(seg, "-")
	end := 0
	for end < len(numPart) && numPart[end] >= '0' && numPart[end] <= '9' {
		end++
	}
	n, _ := strconv.Atoi(numPart[:end])
	if rest := numPart[end:]; rest != "" {
		if found {
			return n, rest + "-" + qualifier
		}
		return n, rest
	}
	if found {
		return n, qualifier
	}
	return n, ""
}

// Compare returns -1, 0 or +1 ordering v before, equal to or after o.
func (v Version) Compare(o Version) int {
	if c := cmp.Compare(v.Major, o.Major); c != 0 {
		return c
	}
	if c := cmp.Compare(v.Minor, o.Minor); c != 0 {
		return c
	}
	if c := cmp.Compare(v.Patch, o.Patch); c != 0 {
		return c
	}
	if c := strings.Compare(v.Other, o.Other); c != 0 {
		return c
	}
	// Qualifiers sort descending: a qualified build precedes its release.
	return -strings.Compare(v.Snap, o.Snap)
}

// Less reports whether v sorts before o.
func (v Version) Less(o Version) bool { return v.Compare(o) < 0 }

// Equal reports whether v and o have the same fields.
func (v Version) Equal(o Version) bool { return v == o }

// IsZero reports whether v is 0.0.0 without qualifiers.
func (v Version) IsZero() bool { return v == Zero }

// String renders M.m.p followed by "-snap" and ".other" when present.
func (v Version) String() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(v.Major))
	b.WriteByte('.')
	b.WriteString(strconv.Itoa(v.Minor))
	b.WriteByte('.')
	b.WriteString(strconv.Itoa(v.Patch))
	if v.Snap != "" {
		b.WriteByte('-')
		b.WriteString(v.Snap)
	}
	if v.Other != "" {
		b.WriteByte('.')
		b.WriteString(v.Other)
	}
	return b.String()
}
