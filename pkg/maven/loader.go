// Package maven turns a Maven reactor into [pom.Pom] values.
//
// A [Loader] reads the main pom.xml and each declared module. Every POM
// is parsed in three passes; parent POMs referenced by the main POM are
// read from the local [Repository]. Reports found under a module's target
// directory (see package report) complete the dependency tree, candidate
// updates and usage, and licenses of the dependencies are looked up in
// the local repository, then remotely when a [Remote] is configured.
package maven

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/depexplorer/pkg/config"
	"github.com/matzehuels/depexplorer/pkg/errors"
	"github.com/matzehuels/depexplorer/pkg/license"
	"github.com/matzehuels/depexplorer/pkg/observability"
	"github.com/matzehuels/depexplorer/pkg/pom"
	"github.com/matzehuels/depexplorer/pkg/report"
)

// FileName is the build descriptor of a module.
const FileName = "pom.xml"

// Remote looks up artifact data missing from the local repository.
type Remote interface {
	// Versions returns every published version of group:artifact.
	Versions(ctx context.Context, groupID, artifactID string) ([]string, error)
	// Licenses returns the license names declared by an artifact.
	Licenses(ctx context.Context, groupID, artifactID, version string) ([]string, error)
}

// Options configures a [Loader].
type Options struct {
	Exploration config.Exploration
	// Repository holds parent POMs and dependency POMs. Defaults to
	// [DiscoverRepository] from the working directory.
	Repository *Repository
	// Licenses resolves license names. When nil, licenses are not read.
	Licenses *license.Model
	// Remote is consulted for update candidates and licenses. Optional.
	Remote Remote
	// Resolvers run before a module is finalized, Inspectors after its
	// declarations are read. nil selects [report.Resolvers] and
	// [report.Inspectors]; an empty slice reads no report.
	Resolvers  []report.Consumer
	Inspectors []report.Consumer
	Logger     *log.Logger
}

// WithDefaults returns a copy of o with unset fields filled in.
func (o Options) WithDefaults() Options {
	out := o
	if out.Logger == nil {
		out.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if out.Repository == nil {
		wd, _ := os.Getwd()
		out.Repository = DiscoverRepository("", wd)
	}
	if out.Resolvers == nil {
		out.Resolvers = report.Resolvers()
	}
	if out.Inspectors == nil {
		out.Inspectors = report.Inspectors(out.Exploration)
	}
	return out
}

// Loader builds Poms. It is not safe for concurrent use.
type Loader struct {
	opts     Options
	logger   *log.Logger
	licenses map[string]*license.Definition
	// parents holds the chain of parent POMs being loaded.
	parents []string
}

// NewLoader returns a loader for opts.
func NewLoader(opts Options) *Loader {
	opts = opts.WithDefaults()
	return &Loader{
		opts:     opts,
		logger:   opts.Logger,
		licenses: make(map[string]*license.Definition),
	}
}

// Crawl loads dir/pom.xml as the main Pom, then each declared module from
// <module>/pom.xml with the main Pom as parent. A module that fails to
// load is logged and skipped. A missing main POM is an error with code
// FILE_NOT_FOUND.
func (l *Loader) Crawl(ctx context.Context, dir string) ([]*pom.Pom, error) {
	file := filepath.Join(dir, FileName)
	if _, err := os.Stat(file); err != nil {
		l.logger.Warn("No pom.xml found", "dir", dir)
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "no %s in %s", FileName, dir)
	}

	l.logger.Debug("Load pom", "file", file)
	main, err := l.Load(ctx, file, nil, pom.TypeMain)
	if err != nil {
		return nil, err
	}
	poms := []*pom.Pom{main}
	for _, m := range main.Modules() {
		if err := ctx.Err(); err != nil {
			return poms, err
		}
		if err := errors.ValidateModulePath(m); err != nil {
			l.logger.Warn("Skipping module", "module", m, "err", err)
			continue
		}
		sub := filepath.Join(dir, filepath.FromSlash(m), FileName)
		l.logger.Debug("Load pom", "file", sub)
		p, err := l.Load(ctx, sub, main, pom.TypeModule)
		if err != nil {
			l.logger.Warn("Skipping module", "module", m, "err", err)
			continue
		}
		poms = append(poms, p)
	}
	return poms, nil
}

// Load reads the POM at file. parent is the enclosing Pom of a module;
// when it is nil the parent declared by the document is read from the
// repository, if present.
func (l *Loader) Load(ctx context.Context, file string, parent *pom.Pom, typ pom.Type) (p *pom.Pom, err error) {
	hooks := observability.Parse()
	hooks.OnParseStart(ctx, file)
	start := time.Now()
	defer func() {
		n := 0
		if p != nil {
			n = len(p.Dependencies())
		}
		hooks.OnParseComplete(ctx, file, n, time.Since(start), err)
	}()

	data, err := os.ReadFile(file)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", file)
		}
		return nil, err
	}

	l.logger.Info("Creating POM", "file", file, "type", typ)
	p = pom.New(file, parent, typ)
	ps := &parser{pom: p, data: data, plugins: l.opts.Exploration.ParsePlugins, logger: l.logger}

	h, err := ps.first()
	if err != nil {
		return nil, err
	}
	if parent == nil && h.parent != nil {
		p.SetParent(l.loadParent(ctx, h.parent))
	}
	p.Fill(h.project)

	if err := ps.second(); err != nil {
		return nil, err
	}
	if typ != pom.TypeParent {
		l.consume(ctx, p, l.opts.Resolvers)
		p.UpdateRoot()
	}
	if err := ps.third(l.opts.Licenses); err != nil {
		return nil, err
	}
	if typ == pom.TypeParent {
		return p, nil
	}

	l.consume(ctx, p, l.opts.Inspectors)
	if l.opts.Remote != nil {
		l.remoteVersions(ctx, p)
	}
	// Direct declarations read after the tree report join the index.
	p.UpdateRoot()
	if l.opts.Licenses != nil {
		l.dependencyLicenses(ctx, p)
	}
	return p, nil
}

// loadParent reads a parent POM from the repository. A missing or broken
// parent is logged and yields nil, as is a parent already in the chain
// being loaded or one more than maxParentDepth levels up.
func (l *Loader) loadParent(ctx context.Context, a *pom.Artifact) *pom.Pom {
	key := a.Key()
	if slices.Contains(l.parents, key) {
		l.logger.Warn("Parent pom cycle", "gav", a.GAV(), "chain", strings.Join(l.parents, " > "))
		return nil
	}
	if len(l.parents) >= maxParentDepth {
		l.logger.Warn("Parent pom chain too deep", "gav", a.GAV(), "depth", len(l.parents))
		return nil
	}
	l.parents = append(l.parents, key)
	defer func() { l.parents = l.parents[:len(l.parents)-1] }()

	file := l.opts.Repository.POMPath(a.GroupID, a.ArtifactID, a.Version)
	l.logger.Debug("Loading parent pom", "gav", a.GAV(), "file", file)
	if !l.opts.Repository.Has(a.GroupID, a.ArtifactID, a.Version) {
		l.logger.Warn("Parent pom not in local repository", "gav", a.GAV())
		return nil
	}
	p, err := l.Load(ctx, file, nil, pom.TypeParent)
	if err != nil {
		l.logger.Warn("Cannot read parent pom", "gav", a.GAV(), "err", err)
		return nil
	}
	return p
}

// consume feeds the reports present in the module directory to p.
func (l *Loader) consume(ctx context.Context, p *pom.Pom, consumers []report.Consumer) {
	dir := filepath.Dir(p.File())
	hooks := observability.Parse()
	for _, c := range consumers {
		if ctx.Err() != nil {
			return
		}
		path := filepath.Join(dir, filepath.FromSlash(c.Path()))
		f, err := os.Open(path)
		if err != nil {
			l.logger.Debug("Report not available", "report", c.Name(), "module", p.Name())
			hooks.OnReport(ctx, c.Name(), p.Name(), false)
			continue
		}
		found, err := c.Consume(ctx, f, p, l.opts.Exploration)
		f.Close()
		if err != nil {
			l.logger.Warn("Cannot read report", "report", c.Name(), "file", path, "err", err)
		}
		l.logger.Debug("Report read", "report", c.Name(), "module", p.Name(), "found", found)
		hooks.OnReport(ctx, c.Name(), p.Name(), found)
	}
}

// remoteVersions adds published versions to direct dependencies no
// updates report covered.
func (l *Loader) remoteVersions(ctx context.Context, p *pom.Pom) {
	for _, d := range p.Root().Children() {
		if ctx.Err() != nil {
			return
		}
		if len(d.Versions()) > 0 || d.GroupID == "" {
			continue
		}
		vs, err := l.opts.Remote.Versions(ctx, d.GroupID, d.ArtifactID)
		if err != nil {
			l.logger.Debug("No remote versions", "ga", d.GA(), "err", err)
			continue
		}
		for _, v := range vs {
			if l.opts.Exploration.Accepts(d.GroupID, d.ArtifactID, v) {
				d.AddVersion(v)
			}
		}
	}
}

// dependencyLicenses sets the licenses of every tree node lacking some.
func (l *Loader) dependencyLicenses(ctx context.Context, p *pom.Pom) {
	for _, nodes := range p.Duplicates() {
		for _, d := range nodes {
			if d == p.Root() || !d.Licenses().IsEmpty() {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			if def := l.lookupLicenses(ctx, d); def != nil {
				d.SetLicenses(def)
			}
		}
	}
}

func (l *Loader) lookupLicenses(ctx context.Context, d *pom.Dependency) *license.Definition {
	v := d.Effective()
	if d.GroupID == "" || v == "" {
		return nil
	}
	key := d.GAeV()
	if def, ok := l.licenses[key]; ok {
		return def
	}

	names, err := l.opts.Repository.Licenses(d.GroupID, d.ArtifactID, v)
	if len(names) == 0 && l.opts.Remote != nil {
		names, err = l.opts.Remote.Licenses(ctx, d.GroupID, d.ArtifactID, v)
	}
	if err != nil {
		l.logger.Debug("No license information", "gav", key, "err", err)
	}

	var def *license.Definition
	if len(names) > 0 {
		var ids []license.Identity
		for _, n := range names {
			found := l.opts.Licenses.Lookup(n)
			if found == nil {
				l.logger.Warn("No license found", "name", n, "gav", key)
			}
			ids = append(ids, found...)
		}
		def = license.DefinitionOf(ids)
	}
	l.licenses[key] = def
	return def
}
