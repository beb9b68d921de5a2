package rules

import "github.com/matzehuels/depexplorer/pkg/version"

// Rule configures a rule with a single severity.
type Rule struct {
	Skip     bool
	Severity Severity
}

// LevelRule configures a rule whose severity depends on the distance
// between two versions.
type LevelRule struct {
	Skip  bool
	Major Severity
	Minor Severity
	Patch Severity
}

// For returns the severity for a version distance. [version.None] is
// always [SeverityInfo].
func (r LevelRule) For(l version.Level) Severity {
	switch l {
	case version.Major:
		return r.Major
	case version.Minor:
		return r.Minor
	case version.Patch:
		return r.Patch
	default:
		return SeverityInfo
	}
}

// Settings selects the rules to run and their severities.
type Settings struct {
	Coherence  LevelRule
	Licenses   Rule
	Updates    LevelRule
	Unused     Rule
	Transitive Rule
}

// WithDefaults returns a copy of s with unset severities replaced by the
// rule defaults.
func (s Settings) WithDefaults() Settings {
	out := s
	defaultLevels(&out.Coherence, SeverityMajor, SeverityMinor, SeverityMinor)
	defaultLevels(&out.Updates, SeverityMajor, SeverityMinor, SeverityInfo)
	defaultSeverity(&out.Licenses.Severity, SeverityBlocker)
	defaultSeverity(&out.Unused.Severity, SeverityMinor)
	defaultSeverity(&out.Transitive.Severity, SeverityMinor)
	return out
}

func defaultLevels(r *LevelRule, major, minor, patch Severity) {
	defaultSeverity(&r.Major, major)
	defaultSeverity(&r.Minor, minor)
	defaultSeverity(&r.Patch, patch)
}

func defaultSeverity(s *Severity, def Severity) {
	if *s == 0 {
		*s = def
	}
}
