package rules

import (
	"strings"

	"github.com/matzehuels/depexplorer/pkg/pom"
	"github.com/matzehuels/depexplorer/pkg/version"
)

// Updates reports direct dependencies with newer candidate versions.
type Updates struct {
	rule LevelRule
}

// NewUpdates returns the outdated dependency analyzer.
func NewUpdates(r LevelRule) *Updates { return &Updates{rule: r} }

func (*Updates) Name() string { return "updates" }

func (u *Updates) Analyze(p *pom.Pom) *Result {
	var (
		issues []Issue
		lines  []string
	)
	for _, child := range p.Root().Children() {
		candidates := child.UpdatesVersions()
		if len(candidates) == 0 {
			continue
		}
		next, last := candidates[0], candidates[len(candidates)-1]
		lines = append(lines, child.GAV()+" -> next : "+next.String()+", last : "+last.String())

		level := version.Diff(version.Parse(child.ResolvedVersion()), last)
		issue := newIssue(p, UpdateRuleKey, child.GroupID, child.ArtifactID)
		issue.Level = level
		issue.Severity = u.rule.For(level)
		issue.Description = updateText(child, level, next, last)
		issues = append(issues, issue)
	}
	return newResult(u.Name(), "UPDATES CHECK", p, issues, lines)
}

func updateText(d *pom.Dependency, level version.Level, next, last version.Version) string {
	var b strings.Builder
	switch level {
	case version.Patch:
		b.WriteString("Patch ")
	case version.Minor:
		b.WriteString("Minor ")
	case version.Major:
		b.WriteString("Major ")
	default:
		b.WriteString("No ")
	}
	b.WriteString("update available for dependency ")
	b.WriteString(d.GAeV())
	switch d.Source() {
	case pom.SourceDependencyManagement:
		b.WriteString(" (see dependency management).")
	case pom.SourcePlugin:
		b.WriteString(" (see plugin).")
	case pom.SourcePluginManagement:
		b.WriteString(" (see plugin management).")
	default:
		b.WriteString(".")
	}
	if prop := d.Property(); prop != "" {
		b.WriteString(` This dependency use a property : "` + prop + `".`)
	}
	b.WriteString(" Next version is " + next.String() + ".")
	b.WriteString(" Latest version is " + last.String() + ".")
	return b.String()
}
