package rules

import (
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/depexplorer/pkg/license"
	"github.com/matzehuels/depexplorer/pkg/pom"
)

// Checker decides whether dependency licenses fit the project licenses.
// It is satisfied by [license.Model] and [license.Matrix].
type Checker interface {
	Compatibility(project *license.Definition, versions map[string]*license.Definition, ga string) license.Compatibility
}

// Licenses reports artifacts of the tree whose licenses cannot be
// integrated by the project.
type Licenses struct {
	rule    Rule
	checker Checker
}

// NewLicenses returns the license compatibility analyzer.
func NewLicenses(r Rule, checker Checker) *Licenses {
	return &Licenses{rule: r, checker: checker}
}

func (*Licenses) Name() string { return "licenses" }

type licenseResult struct {
	key      string // GAeV of the first versioned node
	groupID  string
	artifact string
	versions map[string]*license.Definition
	compat   license.Compatibility
}

func (l *Licenses) Analyze(p *pom.Pom) *Result {
	project := p.Root().Licenses()

	var results []licenseResult
	for _, nodes := range p.Duplicates() {
		r, ok := l.collect(project, nodes)
		if ok && r.compat.Problematic() {
			results = append(results, r)
		}
	}
	slices.SortFunc(results, func(a, b licenseResult) int { return strings.Compare(a.key, b.key) })

	var (
		issues []Issue
		lines  []string
	)
	for _, r := range results {
		lines = append(lines, r.groupID+":"+r.artifact)
		for _, v := range slices.Sorted(maps.Keys(r.versions)) {
			lines = append(lines, "+- "+v+"  ["+strings.Join(r.versions[v].Names(), ", ")+"]")
		}

		issue := newIssue(p, LicenseRuleKey, r.groupID, r.artifact)
		issue.Severity = SeverityInfo
		if r.compat.Problematic() {
			issue.Severity = l.rule.Severity
		}
		issue.Description = r.compat.Description()
		issues = append(issues, issue)
	}
	return newResult(l.Name(), "LICENSES CHECK", p, issues, lines)
}

// collect gathers the licenses of every versioned node of one artifact.
func (l *Licenses) collect(project *license.Definition, nodes []*pom.Dependency) (licenseResult, bool) {
	var r licenseResult
	found := false
	for _, d := range nodes {
		v := d.ResolvedVersion()
		if v == "" {
			continue
		}
		if !found {
			r = licenseResult{
				key:      d.GAeV(),
				groupID:  d.GroupID,
				artifact: d.ArtifactID,
				versions: map[string]*license.Definition{},
			}
			found = true
		}
		if lic := d.Licenses(); lic != nil {
			r.versions[v] = lic
		}
	}
	if found {
		r.compat = l.checker.Compatibility(project, r.versions, r.groupID+":"+r.artifact)
	}
	return r, found
}
