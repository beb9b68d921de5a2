package rules

import (
	"strings"

	"github.com/matzehuels/depexplorer/pkg/pom"
)

// Unused reports declared dependencies the code does not use.
type Unused struct {
	rule Rule
}

// NewUnused returns the unused dependency analyzer.
func NewUnused(r Rule) *Unused { return &Unused{rule: r} }

func (*Unused) Name() string { return "unused" }

func (u *Unused) Analyze(p *pom.Pom) *Result {
	issues, lines := usage(p, p.UnusedDependencies(), UnusedRuleKey, u.rule.Severity,
		" is declared but not used in ", " scope.")
	return newResult(u.Name(), "UNUSED DEPENDENCY", p, issues, lines)
}

// Transitive reports dependencies the code uses without declaring them.
type Transitive struct {
	rule Rule
}

// NewTransitive returns the transitive usage analyzer.
func NewTransitive(r Rule) *Transitive { return &Transitive{rule: r} }

func (*Transitive) Name() string { return "transitive" }

func (t *Transitive) Analyze(p *pom.Pom) *Result {
	issues, lines := usage(p, p.UndeclaredDependencies(), TransitiveRuleKey, t.rule.Severity,
		" is used in ", " scope, but is not directly declared.")
	return newResult(t.Name(), "USED TRANSITIVE DEPENDENCY", p, issues, lines)
}

// usage builds one issue per artifact of byScope. Scopes are visited in
// declaration order; the description names the scope in lower case and
// the printed line in upper case.
func usage(p *pom.Pom, byScope map[pom.Scope][]*pom.Artifact, ruleKey string, sev Severity, middle, end string) ([]Issue, []string) {
	var (
		issues []Issue
		lines  []string
	)
	for _, scope := range pom.Scopes {
		for _, a := range byScope[scope] {
			gav := a.GAV()
			lines = append(lines, gav+middle+scope.String()+end)

			issue := newIssue(p, ruleKey, a.GroupID, a.ArtifactID)
			issue.Severity = sev
			issue.Description = "Dependency " + gav + middle + strings.ToLower(scope.String()) + end
			issues = append(issues, issue)
		}
	}
	return issues, lines
}
