// Package rules evaluates a parsed project and raises issues.
//
// Five analyzers are available, run in this order:
//
//   - [Coherence]: an artifact resolved with several versions
//   - [Licenses]: a dependency license the project cannot integrate
//   - [Updates]: a direct dependency with newer candidate versions
//   - [Unused]: a declared dependency the code does not use
//   - [Transitive]: a used dependency that is not declared
//
// A [Project] runs the enabled analyzers on the main Pom and on each
// module. A module does not repeat an issue the main Pom already raised.
package rules

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/depexplorer/pkg/observability"
	"github.com/matzehuels/depexplorer/pkg/pom"
)

// Analyzer inspects one Pom.
type Analyzer interface {
	// Name is the configuration name of the rule, e.g. "updates".
	Name() string
	Analyze(p *pom.Pom) *Result
}

// Project runs a fixed list of analyzers over a reactor.
type Project struct {
	analyzers []Analyzer
	logger    *log.Logger
}

// NewProject schedules every analyzer not skipped by s. checker backs the
// license rule; when it is nil the license rule is not scheduled.
func NewProject(s Settings, checker Checker, logger *log.Logger) *Project {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	s = s.WithDefaults()

	p := &Project{logger: logger}
	if !s.Coherence.Skip {
		logger.Debug("Versions coherence analyzer is scheduled")
		p.analyzers = append(p.analyzers, NewCoherence(s.Coherence))
	}
	if !s.Licenses.Skip && checker != nil {
		logger.Debug("Licenses analyzer is scheduled")
		p.analyzers = append(p.analyzers, NewLicenses(s.Licenses, checker))
	}
	if !s.Updates.Skip {
		logger.Debug("Version updates analyzer is scheduled")
		p.analyzers = append(p.analyzers, NewUpdates(s.Updates))
	}
	if !s.Unused.Skip {
		logger.Debug("Unused dependency analyzer is scheduled")
		p.analyzers = append(p.analyzers, NewUnused(s.Unused))
	}
	if !s.Transitive.Skip {
		logger.Debug("Transitive dependency usage analyzer is scheduled")
		p.analyzers = append(p.analyzers, NewTransitive(s.Transitive))
	}
	return p
}

// Analyzers returns the scheduled analyzers in run order.
func (p *Project) Analyzers() []Analyzer { return p.analyzers }

// Run evaluates poms and returns one result per analyzer and Pom. For
// each analyzer the Pom of type [pom.TypeMain] comes first, followed by
// the others in the given order. Parent Poms are not analyzed.
//
// Run stops early and returns what it has when ctx is cancelled.
func (p *Project) Run(ctx context.Context, poms ...*pom.Pom) []*Result {
	var (
		main    *pom.Pom
		modules []*pom.Pom
	)
	for _, m := range poms {
		switch {
		case m.Type() == pom.TypeMain && main == nil:
			main = m
		case m.Type() != pom.TypeParent:
			modules = append(modules, m)
		}
	}

	var results []*Result
	for _, a := range p.analyzers {
		if ctx.Err() != nil {
			return results
		}
		var mainResult *Result
		if main != nil {
			mainResult = p.analyze(ctx, a, main)
			results = append(results, mainResult)
		}
		for _, m := range modules {
			r := p.analyze(ctx, a, m)
			r.Issues = r.Without(mainResult)
			results = append(results, r)
		}
	}
	return results
}

func (p *Project) analyze(ctx context.Context, a Analyzer, m *pom.Pom) *Result {
	hooks := observability.Analysis()
	hooks.OnAnalyzeStart(ctx, a.Name(), m.Name())
	start := time.Now()
	r := a.Analyze(m)
	hooks.OnAnalyzeComplete(ctx, a.Name(), m.Name(), len(r.Issues), time.Since(start))
	p.logger.Debug("analyzed", "rule", a.Name(), "module", m.Name(), "issues", len(r.Issues))
	return r
}

// Issues flattens the issues of results, in result order.
func Issues(results []*Result) []Issue {
	var out []Issue
	for _, r := range results {
		out = append(out, r.Issues...)
	}
	return out
}
