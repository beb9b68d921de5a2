package rules

import (
	"slices"
	"strings"

	"github.com/matzehuels/depexplorer/pkg/pom"
	"github.com/matzehuels/depexplorer/pkg/version"
)

// Coherence reports artifacts resolved with several versions across the
// project.
type Coherence struct {
	rule LevelRule
}

// NewCoherence returns the version coherence analyzer.
func NewCoherence(r LevelRule) *Coherence { return &Coherence{rule: r} }

func (*Coherence) Name() string { return "coherence" }

func (c *Coherence) Analyze(p *pom.Pom) *Result {
	var (
		issues []Issue
		lines  []string
	)
	for _, inc := range p.VersionIncompatibilities() {
		callers := sortedVersions(inc.Versions)
		level := maxLevel(callers)
		if level == version.None {
			continue
		}

		ga := inc.Artifact.GA()
		lines = append(lines, ga)
		names := make([]string, len(callers))
		for i, v := range callers {
			names[i] = v.String()
			lines = append(lines, "+- "+names[i])
		}

		issue := newIssue(p, CoherenceRuleKey, inc.Artifact.GroupID, inc.Artifact.ArtifactID)
		issue.Level = level
		issue.Severity = c.rule.For(level)
		issue.Description = "Difference between version of " + ga + " is " + coherenceText(level) +
			" [" + strings.Join(names, ", ") + "]"
		issues = append(issues, issue)
	}
	return newResult(c.Name(), "MULTIPLE VERSIONS CHECK", p, issues, lines)
}

func coherenceText(l version.Level) string {
	switch l {
	case version.Major:
		return "major and can lead to bytecode incompatibilities."
	case version.Minor:
		return "minor and can lead to strange behaviour."
	default:
		return "minimal but can have vulnerabilities or other border effect."
	}
}

// sortedVersions parses vs and returns the distinct versions in
// ascending order.
func sortedVersions(vs []string) []version.Version {
	out := make([]version.Version, 0, len(vs))
	for _, s := range vs {
		out = append(out, version.Parse(s))
	}
	slices.SortFunc(out, version.Version.Compare)
	return slices.CompactFunc(out, func(a, b version.Version) bool { return a.Compare(b) == 0 })
}

// maxLevel returns the widest distance between each version and the
// greatest version seen before it.
func maxLevel(vs []version.Version) version.Level {
	level := version.None
	var prev version.Version
	for i, v := range vs {
		if i > 0 {
			level = level.Max(version.Diff(prev, v))
		}
		if i == 0 || v.Compare(prev) > 0 {
			prev = v
		}
	}
	return level
}
