package rules

import (
	"cmp"
	"io"
	"slices"
	"strings"

	"github.com/matzehuels/depexplorer/pkg/pom"
	"github.com/matzehuels/depexplorer/pkg/version"
)

// Rule keys reported with each issue.
const (
	CoherenceRuleKey  = "UsingIncoherentVersionnedDependency"
	LicenseRuleKey    = "UsingIncompatibleLicencedDependency"
	TransitiveRuleKey = "UsingTransitiveDependency"
	UnusedRuleKey     = "UnusedDependency"
	UpdateRuleKey     = "UsingOutdatedDependency"
)

// Issue is one finding of a rule on a module.
type Issue struct {
	RuleKey     string
	Module      string // artifactId of the analyzed Pom
	GA          string
	Level       version.Level
	Severity    Severity
	Description string

	// Location is where the finding is anchored in the module file, or
	// nil when the artifact is not declared there.
	Location *pom.FiledRange
}

func newIssue(p *pom.Pom, ruleKey, groupID, artifactID string) Issue {
	i := Issue{
		RuleKey: ruleKey,
		Module:  p.Name(),
		GA:      groupID + ":" + artifactID,
	}
	if loc, ok := p.TextRange(groupID, artifactID); ok {
		i.Location = &loc
	}
	return i
}

// Compare orders issues by rule key, GA, level, module, severity and
// description.
func (i Issue) Compare(o Issue) int {
	return cmp.Or(
		strings.Compare(i.RuleKey, o.RuleKey),
		strings.Compare(i.GA, o.GA),
		cmp.Compare(i.Level, o.Level),
		strings.Compare(i.Module, o.Module),
		cmp.Compare(i.Severity, o.Severity),
		strings.Compare(i.Description, o.Description),
	)
}

// sameFinding reports whether o says the same thing as i, wherever it
// was found.
func (i Issue) sameFinding(o Issue) bool {
	return i.RuleKey == o.RuleKey && i.Severity == o.Severity && i.Description == o.Description
}

// Result holds the issues one analyzer raised on one Pom, and the text
// section describing what it inspected.
type Result struct {
	Rule   string
	Pom    *pom.Pom
	Issues []Issue

	title string
	lines []string
}

func newResult(rule, title string, p *pom.Pom, issues []Issue, lines []string) *Result {
	slices.SortFunc(issues, Issue.Compare)
	issues = slices.CompactFunc(issues, func(a, b Issue) bool { return a.Compare(b) == 0 })
	return &Result{Rule: rule, Pom: p, Issues: issues, title: title, lines: lines}
}

// Contains reports whether r already holds an issue with the same rule
// key, severity and description as issue.
func (r *Result) Contains(issue Issue) bool {
	return slices.ContainsFunc(r.Issues, issue.sameFinding)
}

// Without returns the issues of r that main does not already hold.
func (r *Result) Without(main *Result) []Issue {
	if main == nil {
		return r.Issues
	}
	return slices.DeleteFunc(slices.Clone(r.Issues), main.Contains)
}

// Title returns the section title written by [Result.Print].
func (r *Result) Title() string { return r.title }

// Print writes the section of the result, framed like the other report
// sections.
func (r *Result) Print(w io.Writer) error {
	if err := pom.WriteSection(w, r.title); err != nil {
		return err
	}
	for _, line := range r.lines {
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return err
		}
	}
	return nil
}
