// Package filter selects artifacts by wildcard patterns on their
// coordinates.
//
// A pattern contains at most one "*":
//
//	log4j        matches exactly "log4j"
//	org.apache*  matches values starting with "org.apache"
//	*-plugin     matches values ending with "-plugin"
//	com*test     matches values starting with "com" and ending with "test"
//
// An empty pattern matches any value. A [GAV] filter combines three
// patterns separated by ":" and a [List] is a comma separated set of GAV
// filters:
//
//	f, err := filter.ParseList("org.slf4j::,com.example:*-test:*")
//	if f.Match("org.slf4j", "slf4j-api", "2.0.9") { ... }
package filter

import (
	"strings"

	"github.com/matzehuels/depexplorer/pkg/errors"
)

// Kind tells how a [Wildcard] compares values.
type Kind int

const (
	KindPlain Kind = iota
	KindStart
	KindEnd
	KindSplit
	KindAny
)

// Wildcard is a string pattern with at most one "*".
type Wildcard struct {
	kind   Kind
	before string
	after  string
}

// ParseWildcard compiles s. More than one "*" is an INVALID_PATTERN error.
func ParseWildcard(s string) (Wildcard, error) {
	if strings.Count(s, "*") > 1 {
		return Wildcard{}, errors.New(errors.ErrCodeInvalidPattern, "only one wildcard allowed in %q", s)
	}
	i := strings.IndexByte(s, '*')
	switch {
	case s == "":
		return Wildcard{kind: KindAny}, nil
	case i < 0:
		return Wildcard{kind: KindPlain, before: s}, nil
	case i == 0:
		return Wildcard{kind: KindEnd, before: s[1:]}, nil
	case i == len(s)-1:
		return Wildcard{kind: KindStart, before: s[:i]}, nil
	default:
		return Wildcard{kind: KindSplit, before: s[:i], after: s[i+1:]}, nil
	}
}

// Kind returns how w compares values.
func (w Wildcard) Kind() Kind { return w.kind }

// Match reports whether value fits the pattern. The halves of a split
// pattern may not overlap.
func (w Wildcard) Match(value string) bool {
	switch w.kind {
	case KindAny:
		return true
	case KindPlain:
		return value == w.before
	case KindStart:
		return strings.HasPrefix(value, w.before)
	case KindEnd:
		return strings.HasSuffix(value, w.before)
	case KindSplit:
		return len(value) >= len(w.before)+len(w.after) &&
			strings.HasPrefix(value, w.before) && strings.HasSuffix(value, w.after)
	}
	return false
}

func (w Wildcard) String() string {
	switch w.kind {
	case KindStart:
		return w.before + "*"
	case KindEnd:
		return "*" + w.before
	case KindSplit:
		return w.before + "*" + w.after
	case KindPlain:
		return w.before
	}
	return ""
}
