package filter

import (
	"strings"

	"github.com/matzehuels/depexplorer/pkg/errors"
)

// GAV filters artifacts on group, artifact and version.
type GAV struct {
	Group    Wildcard
	Artifact Wildcard
	Version  Wildcard
}

// ParseGAV compiles "group:artifact:version". Missing parts match
// anything, so "org.slf4j" and "org.slf4j::" are equivalent.
func ParseGAV(s string) (GAV, error) {
	parts := strings.SplitN(s, ":", 3)
	for len(parts) < 3 {
		parts = append(parts, "")
	}
	var (
		f   GAV
		err error
	)
	if f.Group, err = ParseWildcard(parts[0]); err != nil {
		return GAV{}, err
	}
	if f.Artifact, err = ParseWildcard(parts[1]); err != nil {
		return GAV{}, err
	}
	if f.Version, err = ParseWildcard(parts[2]); err != nil {
		return GAV{}, err
	}
	return f, nil
}

// Match reports whether the coordinates fit every part of f. An empty
// group never matches.
func (f GAV) Match(group, artifact, version string) bool {
	if group == "" {
		return false
	}
	return f.Group.Match(group) && f.Artifact.Match(artifact) && f.Version.Match(version)
}

func (f GAV) String() string {
	return f.Group.String() + ":" + f.Artifact.String() + ":" + f.Version.String()
}

// List matches when any of its filters does. The zero List matches
// nothing.
type List []GAV

// ParseList compiles a comma separated list of GAV filters. Blank entries
// are ignored.
func ParseList(s string) (List, error) {
	var l List
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		f, err := ParseGAV(part)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPattern, err, "exclusion %q", part)
		}
		l = append(l, f)
	}
	return l, nil
}

// ParseStrings compiles one GAV filter per entry.
func ParseStrings(entries []string) (List, error) {
	return ParseList(strings.Join(entries, ","))
}

// Match reports whether any filter of l matches.
func (l List) Match(group, artifact, version string) bool {
	for _, f := range l {
		if f.Match(group, artifact, version) {
			return true
		}
	}
	return false
}

func (l List) String() string {
	parts := make([]string, len(l))
	for i, f := range l {
		parts[i] = f.String()
	}
	return strings.Join(parts, ",")
}
