package rules

import (
	"strings"

	"github.com/matzehuels/depexplorer/pkg/errors"
)

// Severity ranks an issue. The zero value means "not set" and is replaced
// by the rule default in [Settings.WithDefaults].
type Severity int

// Severities from the least to the most severe.
const (
	SeverityInfo Severity = iota + 1
	SeverityMinor
	SeverityMajor
	SeverityCritical
	SeverityBlocker
)

var severityNames = map[Severity]string{
	SeverityInfo:     "INFO",
	SeverityMinor:    "MINOR",
	SeverityMajor:    "MAJOR",
	SeverityCritical: "CRITICAL",
	SeverityBlocker:  "BLOCKER",
}

func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return "UNSET"
}

// ParseSeverity parses a severity name, case-insensitively.
func ParseSeverity(s string) (Severity, error) {
	want := strings.ToUpper(strings.TrimSpace(s))
	for sev, name := range severityNames {
		if name == want {
			return sev, nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidConfig, "unknown severity %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	v, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
