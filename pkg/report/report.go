// Package report reads the output of Maven plugins into a [pom.Pom].
//
// Each [Consumer] knows one report file, relative to the module directory,
// and feeds what it finds to the Pom mutators. Producing the reports is
// left to the build: run for instance
//
//	mvn dependency:tree -DoutputFile=target/tree.txt
//	mvn versions:dependency-updates-report -DdependencyUpdatesReportFormats=xml
//	mvn dependency:analyze > target/dependency-analysis.txt
//
// A missing report means the matching rule has no data. It is not an
// error.
package report

import (
	"context"
	"io"

	"github.com/matzehuels/depexplorer/pkg/config"
	"github.com/matzehuels/depexplorer/pkg/pom"
)

// Consumer reads one report format.
type Consumer interface {
	// Name identifies the report in logs, e.g. "tree".
	Name() string
	// Path is the report location relative to the module directory.
	Path() string
	// Consume feeds the report in r to p. found is true when the report
	// contributed at least one entry.
	Consume(ctx context.Context, r io.Reader, p *pom.Pom, cfg config.Exploration) (found bool, err error)
}

// Resolvers returns the consumers building the dependency tree. They run
// before the Pom is finalized.
func Resolvers() []Consumer {
	return []Consumer{Tree{}}
}

// Inspectors returns the consumers annotating a finalized Pom: update
// candidates and dependency usage. The plugin updates report is read only
// when cfg parses plugins.
func Inspectors(cfg config.Exploration) []Consumer {
	out := []Consumer{DependencyUpdates{}, PropertyUpdates{}}
	if cfg.ParsePlugins {
		out = append(out, PluginUpdates{})
	}
	return append(out, Analysis{})
}
