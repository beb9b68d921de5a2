package maven

import (
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/depexplorer/pkg/license"
	"github.com/matzehuels/depexplorer/pkg/pom"
	"github.com/matzehuels/depexplorer/pkg/xmlpath"
)

// Document paths read from a POM.
const (
	pathProject        = "/project"
	pathParent         = "/project/parent"
	pathProperties     = "/project/properties"
	pathModule         = "/project/modules/module"
	pathDependencyMgmt = "/project/dependencyManagement/dependencies/dependency"
	pathPluginMgmt     = "/project/build/pluginManagement/plugins/plugin"
	pathLicense        = "/project/licenses/license"
	pathDependency     = "/project/dependencies/dependency"
	pathPlugin         = "/project/build/plugins/plugin"
)

// header is what the first pass learns about a POM.
type header struct {
	project *pom.Artifact
	parent  *pom.Artifact
}

// parser reads one POM document in three passes. Each pass relies on the
// declarations of the previous ones, so they cannot share a traversal.
type parser struct {
	pom     *pom.Pom
	data    []byte
	plugins bool
	logger  *log.Logger
}

// first reads the coordinates of the project and its parent, and records
// where each property is defined.
func (ps *parser) first() (header, error) {
	var h header
	err := xmlpath.ParseBytes(ps.pom.File(), ps.data,
		xmlpath.Match(pathParent, func(r xmlpath.Record) {
			h.parent = pom.NewArtifact(r.Get("/groupId"), r.Get("/artifactId"), r.Get("/version"))
		}),
		xmlpath.Match(pathProperties, func(r xmlpath.Record) {
			for _, k := range r.Keys() {
				name, ok := strings.CutPrefix(k, "/")
				if !ok {
					continue
				}
				v, _ := r.Lookup(k)
				ps.pom.AddPropertyLocation(name, pom.FiledRange{File: ps.pom.File(), Range: v.Range, Text: v.Text})
			}
		}),
		xmlpath.Match(pathProject, func(r xmlpath.Record) {
			h.project = pom.NewArtifact(r.Get("/groupId"), r.Get("/artifactId"), r.Get("/version"))
		}))
	if h.project == nil {
		h.project = &pom.Artifact{}
	}
	return h, err
}

// second reads the modules and the management blocks.
func (ps *parser) second() error {
	matchers := []*xmlpath.Matcher{
		xmlpath.Match(pathModule, func(r xmlpath.Record) {
			if m := r.Get(""); m != "" {
				ps.pom.AddModule(m)
			}
		}),
		ps.artifacts(pathDependencyMgmt, pom.SourceDependencyManagement),
	}
	if ps.plugins {
		matchers = append(matchers, ps.artifacts(pathPluginMgmt, pom.SourcePluginManagement))
	}
	return xmlpath.ParseBytes(ps.pom.File(), ps.data, matchers...)
}

// third reads the project licenses and the direct declarations. Direct
// dependencies are attached to the root.
func (ps *parser) third(model *license.Model) error {
	var ids []license.Identity
	matchers := []*xmlpath.Matcher{
		xmlpath.Match(pathLicense, func(r xmlpath.Record) {
			name := r.Get("/name")
			if name == "" || model == nil {
				return
			}
			if strings.HasPrefix(name, "${") {
				resolved := ps.pom.ResolveProperty(name)
				ps.logger.Warn("Resolve property for license", "property", name, "value", resolved)
				name = resolved
			}
			found := model.Lookup(name)
			if found == nil {
				ps.logger.Warn("No license found", "name", name)
				return
			}
			ids = append(ids, found...)
		}),
		ps.artifacts(pathDependency, pom.SourceDependency),
	}
	if ps.plugins {
		matchers = append(matchers, ps.artifacts(pathPlugin, pom.SourcePlugin))
	}
	if err := xmlpath.ParseBytes(ps.pom.File(), ps.data, matchers...); err != nil {
		return err
	}
	if model != nil {
		ps.pom.Root().SetLicenses(license.DefinitionOf(ids))
	}
	return nil
}

// artifacts returns a matcher declaring every artifact found at path.
//
// Optional dependencies are skipped. The effective version is the
// resolved property, or for an unversioned direct declaration the version
// of the managed entry.
func (ps *parser) artifacts(path string, source pom.Source) *xmlpath.Matcher {
	p := ps.pom
	return xmlpath.Match(path, func(r xmlpath.Record) {
		if strings.EqualFold(r.Get("/optional"), "true") {
			return
		}
		a := pom.NewArtifact(r.Get("/groupId"), r.Get("/artifactId"), r.Get("/version"))
		a.Type = r.Get("/type")
		a.Scope = r.Get("/scope")
		rng, _ := r.Range("/version")
		a.Range = &pom.FiledRange{File: p.File(), Range: rng, Text: a.Version}

		switch {
		case strings.HasPrefix(a.Version, "${"):
			a.EffectiveVersion = p.ResolveProperty(a.Version)
			a.PropertyName = a.Version
		case a.Version == "" && !source.Managed():
			if managed := p.AnyDependency(a.GA()); managed != nil {
				a.EffectiveVersion = managed.Effective()
			}
		default:
			a.EffectiveVersion = a.Version
		}

		if source.Plugin() {
			p.AddPlugin(a, source.Managed())
			return
		}
		def := p.DeclareDependency(a, source.Managed())
		if source == pom.SourceDependency {
			p.Root().AddDependency(p.Own(def))
			p.AddEffectiveDependency(a)
		}
	})
}
