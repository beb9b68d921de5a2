package report

import (
	"context"
	"io"

	"github.com/matzehuels/depexplorer/pkg/config"
	"github.com/matzehuels/depexplorer/pkg/pom"
	"github.com/matzehuels/depexplorer/pkg/xmlpath"
)

// Report locations written by the versions-maven-plugin in XML format.
const (
	DependencyUpdatesPath = "target/dependency-updates-report.xml"
	PropertyUpdatesPath   = "target/property-updates-report.xml"
	PluginUpdatesPath     = "target/plugin-updates-report.xml"
)

// updateSegments are the candidate lists of an update entry.
var updateSegments = []string{"/incrementals/incremental", "/minors/minor", "/majors/major"}

// DependencyUpdates reads "versions:dependency-updates-report". Candidates
// must match the version pattern and stay out of the exclusions.
type DependencyUpdates struct{}

func (DependencyUpdates) Name() string { return "dependency-updates" }
func (DependencyUpdates) Path() string { return DependencyUpdatesPath }

func (DependencyUpdates) Consume(ctx context.Context, r io.Reader, p *pom.Pom, cfg config.Exploration) (bool, error) {
	return consumeClassic(ctx, r, p, cfg,
		"/DependencyUpdatesReport/dependencies/dependency", pom.SourceDependency,
		"/DependencyUpdatesReport/dependencyManagements/dependencyManagement", pom.SourceDependencyManagement)
}

// PluginUpdates reads "versions:plugin-updates-report" with the same
// filtering as [DependencyUpdates].
type PluginUpdates struct{}

func (PluginUpdates) Name() string { return "plugin-updates" }
func (PluginUpdates) Path() string { return PluginUpdatesPath }

func (PluginUpdates) Consume(ctx context.Context, r io.Reader, p *pom.Pom, cfg config.Exploration) (bool, error) {
	return consumeClassic(ctx, r, p, cfg,
		"/PluginUpdatesReport/plugins/plugin", pom.SourcePlugin,
		"/PluginUpdatesReport/pluginManagements/pluginManagement", pom.SourcePluginManagement)
}

func consumeClassic(ctx context.Context, r io.Reader, p *pom.Pom, cfg config.Exploration,
	path string, source pom.Source, mgmtPath string, mgmtSource pom.Source) (bool, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return false, err
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	found := false
	mapper := func(source pom.Source) func(xmlpath.Record) {
		return func(rec xmlpath.Record) {
			a := pom.NewArtifact(rec.Get("/groupId"), rec.Get("/artifactId"), rec.Get("/currentVersion"))
			var versions []string
			collect(rec, func(v string) {
				if cfg.Accepts(a.GroupID, a.ArtifactID, v) {
					versions = append(versions, v)
				}
			})
			p.AddDependency(a, versions, source)
			found = true
		}
	}
	err = xmlpath.ParseBytes("", data,
		xmlpath.Match(path, mapper(source)),
		xmlpath.Match(mgmtPath, mapper(mgmtSource)))
	return found, err
}

// PropertyUpdates reads "versions:property-updates-report". Every artifact
// associated with a property receives the candidates of that property.
// Candidates are filtered by the version pattern only.
type PropertyUpdates struct{}

func (PropertyUpdates) Name() string { return "property-updates" }
func (PropertyUpdates) Path() string { return PropertyUpdatesPath }

func (PropertyUpdates) Consume(ctx context.Context, r io.Reader, p *pom.Pom, cfg config.Exploration) (bool, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return false, err
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	found := false
	err = xmlpath.ParseBytes("", data, xmlpath.Match("/PropertyUpdatesReport/properties/property", func(rec xmlpath.Record) {
		name := rec.Get("/propertyName")
		var artifacts []*pom.Artifact
		rec.ForEach("/propertyAssociations/propertyAssociation", func(m xmlpath.Record) {
			a := pom.NewArtifact(m.Get("/groupId"), m.Get("/artifactId"), "")
			a.SetPropertyName(name)
			artifacts = append(artifacts, a)
		})
		var versions []string
		collect(rec, func(v string) {
			if cfg.AcceptsVersion(v) {
				versions = append(versions, v)
			}
		})
		for _, a := range artifacts {
			p.AddDependency(a, versions, pom.SourceDependency)
			found = true
		}
	}))
	return found, err
}

// collect calls add with every candidate of an update entry, incrementals
// first.
func collect(rec xmlpath.Record, add func(string)) {
	for _, seg := range updateSegments {
		rec.ForEach(seg, func(m xmlpath.Record) {
			if v := m.Get(""); v != "" {
				add(v)
			}
		})
	}
}
