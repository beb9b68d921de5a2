package version

import (
	"regexp"

	"golang.org/x/mod/semver"
)

// Pattern selects which candidate update versions are worth reporting.
type Pattern interface {
	MatchString(s string) bool
}

// PatternFunc adapts a function to [Pattern].
type PatternFunc func(string) bool

// MatchString calls f(s).
func (f PatternFunc) MatchString(s string) bool { return f(s) }

// ClassicOnly accepts plain releases made of exactly three numeric segments,
// such as "2.9.4". Qualified builds ("2.9.4-beta", "2.9.4.RELEASE") and
// short forms ("2.9") are rejected.
var ClassicOnly Pattern = PatternFunc(isClassic)

// AllowAll accepts any candidate.
var AllowAll Pattern = PatternFunc(func(string) bool { return true })

func isClassic(s string) bool {
	v := "v" + s
	if !semver.IsValid(v) || semver.Canonical(v) != v {
		return false
	}
	return semver.Prerelease(v) == "" && semver.Build(v) == ""
}

// Regexp wraps a compiled expression as a [Pattern].
func Regexp(re *regexp.Regexp) Pattern { return re }
