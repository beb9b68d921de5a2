package pom

import (
	"maps"
	"slices"
)

// Incompatibility lists the versions of one artifact observed across the
// project.
type Incompatibility struct {
	Artifact *Artifact
	Versions []string
}

// Pom is one module of a build: its root coordinates, declaration tables,
// properties and the dependency tree reported for it.
//
// A Pom is filled by a single goroutine while parsing, then finalized with
// [Pom.UpdateRoot]. It must be treated as read-only afterwards.
type Pom struct {
	file   string
	typ    Type
	name   string
	parent *Pom
	root   *Dependency

	dependencies map[string]*Dependency
	plugins      map[string]*Dependency
	properties   map[string]FiledRange
	modules      []string

	effective  map[Scope][]*Artifact
	undeclared map[Scope][]*Artifact
	unused     map[Scope][]*Artifact

	incompatibilities map[string]Incompatibility
	duplicates        map[string][]*Dependency
}

// New returns an empty Pom read from file. parent is the enclosing Pom for
// modules and inherited POMs, or nil.
func New(file string, parent *Pom, typ Type) *Pom {
	p := &Pom{
		file:              file,
		typ:               typ,
		parent:            parent,
		dependencies:      make(map[string]*Dependency),
		plugins:           make(map[string]*Dependency),
		properties:        make(map[string]FiledRange),
		effective:         make(map[Scope][]*Artifact),
		undeclared:        make(map[Scope][]*Artifact),
		unused:            make(map[Scope][]*Artifact),
		incompatibilities: make(map[string]Incompatibility),
	}
	p.root = NewDependency(p, &Artifact{})
	return p
}

// File returns the path the Pom was read from.
func (p *Pom) File() string { return p.file }

// Type returns the role of the Pom.
func (p *Pom) Type() Type { return p.typ }

// Name returns the artifactId once [Pom.Fill] ran.
func (p *Pom) Name() string { return p.name }

// Parent returns the enclosing Pom, or nil.
func (p *Pom) Parent() *Pom { return p.parent }

// SetParent changes the enclosing Pom.
func (p *Pom) SetParent(parent *Pom) { p.parent = parent }

// Root returns the node standing for the module itself.
func (p *Pom) Root() *Dependency { return p.root }

// Modules returns the declared module paths in document order.
func (p *Pom) Modules() []string { return p.modules }

// AddModule appends a declared module path.
func (p *Pom) AddModule(path string) { p.modules = append(p.modules, path) }

// Dependencies returns the dependency table keyed by "group:artifact".
func (p *Pom) Dependencies() map[string]*Dependency { return p.dependencies }

// Plugins returns the plugin table keyed by "group:artifact".
func (p *Pom) Plugins() map[string]*Dependency { return p.plugins }

// SortedDependencies returns the dependency table entries ordered by key.
func (p *Pom) SortedDependencies() []*Dependency { return sortedValues(p.dependencies) }

// SortedPlugins returns the plugin table entries ordered by key.
func (p *Pom) SortedPlugins() []*Dependency { return sortedValues(p.plugins) }

func sortedValues(m map[string]*Dependency) []*Dependency {
	keys := slices.Sorted(maps.Keys(m))
	out := make([]*Dependency, len(keys))
	for i, k := range keys {
		out[i] = m[k]
	}
	return out
}

// Properties returns the local property table keyed by "${name}".
func (p *Pom) Properties() map[string]FiledRange { return p.properties }

// AddDependency merges a declaration into the table selected by source
// and returns the canonical node for its group and artifact.
//
// When the table has no versioned entry yet, an unmanaged declaration
// reuses a node already known to this Pom or one of its ancestors before
// a new node is created. Candidate versions are merged into the node, and
// a ${property} version is recorded on it unless one is already set.
func (p *Pom) AddDependency(a *Artifact, versions []string, source Source) *Dependency {
	table := p.dependencies
	if source.Plugin() {
		table = p.plugins
	}

	def := table[a.GA()]
	if def == nil || def.Version == "" {
		if !source.Managed() {
			def = p.AnyDependency(a.GA())
		}
		if def == nil {
			def = NewDependency(p, a)
			def.source = source
		}
		if _, ok := table[def.GA()]; !ok {
			table[def.GA()] = def
		}
	}
	for _, v := range versions {
		def.AddVersion(v)
	}
	if isProperty(a.Version) && def.PropertyName == "" {
		def.PropertyName = a.Version
	}
	return def
}

// DeclareDependency adds a dependency without candidate versions, either
// to the management block or as a direct declaration.
func (p *Pom) DeclareDependency(a *Artifact, management bool) *Dependency {
	source := SourceDependency
	if management {
		source = SourceDependencyManagement
	}
	return p.AddDependency(a, nil, source)
}

// Own returns d when p owns it. A node of another Pom is copied instead,
// without its children, and the copy takes its place in p's table. Nodes
// attached to p's tree must be owned by p so that reading p leaves its
// ancestors unchanged.
func (p *Pom) Own(d *Dependency) *Dependency {
	if d == nil || d.pom == p {
		return d
	}
	local := NewDependency(p, &d.Artifact)
	local.source = d.source
	local.licenses = d.licenses
	local.versions = slices.Clone(d.versions)
	local.packages = slices.Clone(d.packages)

	table := p.dependencies
	if d.source.Plugin() {
		table = p.plugins
	}
	if cur, ok := table[d.GA()]; !ok || cur == d {
		table[d.GA()] = local
	}
	return local
}

// AddPlugin records a plugin declaration. The first declaration of a
// group and artifact stays in the table.
func (p *Pom) AddPlugin(a *Artifact, management bool) *Dependency {
	def := NewDependency(p, a)
	def.source = SourcePlugin
	if management {
		def.source = SourcePluginManagement
	}
	if _, ok := p.plugins[def.GA()]; !ok {
		p.plugins[def.GA()] = def
	}
	return def
}

// AddPropertyLocation records where a property is defined. name may be
// given bare or as "${name}". The first definition wins.
func (p *Pom) AddPropertyLocation(name string, loc FiledRange) {
	if !isProperty(name) {
		name = "${" + name + "}"
	}
	if _, ok := p.properties[name]; !ok {
		p.properties[name] = loc
	}
}

// AddEffectiveDependency records an artifact declared in the module.
func (p *Pom) AddEffectiveDependency(a *Artifact) {
	s := ParseScope(a.Scope)
	p.effective[s] = append(p.effective[s], a)
}

// AddUndeclaredDependency records an artifact used without declaration.
func (p *Pom) AddUndeclaredDependency(a *Artifact) {
	s := ParseScope(a.Scope)
	p.undeclared[s] = append(p.undeclared[s], a)
}

// AddUnusedDependency records an artifact declared but not used.
func (p *Pom) AddUnusedDependency(a *Artifact) {
	s := ParseScope(a.Scope)
	p.unused[s] = append(p.unused[s], a)
}

// EffectiveDependencies returns the declared artifacts by scope.
func (p *Pom) EffectiveDependencies() map[Scope][]*Artifact { return p.effective }

// UndeclaredDependencies returns the used but undeclared artifacts by scope.
func (p *Pom) UndeclaredDependencies() map[Scope][]*Artifact { return p.undeclared }

// UnusedDependencies returns the declared but unused artifacts by scope.
func (p *Pom) UnusedDependencies() map[Scope][]*Artifact { return p.unused }

// AddVersionIncompatibility records the versions of a observed across the
// project, replacing any previous entry for the same artifact.
func (p *Pom) AddVersionIncompatibility(a *Artifact, versions []string) {
	p.incompatibilities[a.Key()] = Incompatibility{Artifact: a, Versions: versions}
}

// VersionIncompatibilities returns the recorded entries ordered by artifact.
func (p *Pom) VersionIncompatibilities() []Incompatibility {
	out := slices.Collect(maps.Values(p.incompatibilities))
	slices.SortFunc(out, func(a, b Incompatibility) int { return a.Artifact.Compare(b.Artifact) })
	return out
}

// Fill sets the module coordinates from its own declaration. A missing
// version or group is inherited from the parent's root.
func (p *Pom) Fill(a *Artifact) {
	p.name = a.ArtifactID
	v := a.Version
	if isProperty(v) {
		v = p.ResolveProperty(v)
	}
	group := a.GroupID
	if p.parent != nil {
		if v == "" {
			v = p.parent.root.ResolvedVersion()
		}
		if group == "" {
			group = p.parent.root.GroupID
		}
	}
	p.root = NewDependency(p, NewArtifact(group, p.name, v))
}

// AnyDependency looks up a node by "group:artifact": the root, then the
// dependency table, then the plugin table, then the ancestors when the
// local entry is missing or has no version.
func (p *Pom) AnyDependency(ga string) *Dependency {
	if ga == p.root.GA() {
		return p.root
	}
	def := p.dependencies[ga]
	if def == nil {
		def = p.plugins[ga]
	}
	if p.parent != nil && (def == nil || def.Version == "") {
		if up := p.parent.AnyDependency(ga); up != nil {
			def = up
		}
	}
	return def
}

// ResolveProperty resolves a "${name}" token. ${project.version} is the
// root version; other names come from this Pom or its ancestors. An
// unknown property resolves to "".
func (p *Pom) ResolveProperty(token string) string {
	if token == "${project.version}" {
		return p.root.Version
	}
	if loc, ok := p.properties[token]; ok {
		return loc.Text
	}
	if p.parent != nil {
		return p.parent.ResolveProperty(token)
	}
	return ""
}

// UpdateRoot finalizes the Pom: the root inherits the parent's licenses
// when it has none, and the duplicate index is rebuilt from the tree.
func (p *Pom) UpdateRoot() {
	if p.parent != nil && p.root.licenses.IsEmpty() {
		p.root.SetLicenses(p.parent.root.licenses)
	}
	p.duplicates = p.indexTree()
}

// ReplaceRoot installs d as the root and finalizes the Pom.
func (p *Pom) ReplaceRoot(d *Dependency) {
	p.root = d
	p.UpdateRoot()
}

// Duplicates returns every tree node grouped by "group:artifact", in
// breadth-first order. It is empty until [Pom.UpdateRoot] ran.
func (p *Pom) Duplicates() map[string][]*Dependency {
	if p.duplicates == nil {
		return map[string][]*Dependency{}
	}
	return p.duplicates
}

func (p *Pom) indexTree() map[string][]*Dependency {
	index := make(map[string][]*Dependency)
	queue := []*Dependency{p.root}
	for len(queue) > 0 {
		d := queue[0]
		queue = queue[1:]
		index[d.GA()] = append(index[d.GA()], d)
		queue = append(queue, d.children...)
	}
	return index
}

// TextRange returns the location to report for the given artifact: the
// property definition when its version is a property defined in this
// file, otherwise its version element. ok is false when the location is
// not in this Pom's file.
func (p *Pom) TextRange(groupID, artifactID string) (FiledRange, bool) {
	def := p.AnyDependency(groupID + ":" + artifactID)
	if def == nil {
		return FiledRange{}, false
	}
	var loc *FiledRange
	if prop := def.Property(); prop != "" {
		if l, ok := p.properties[prop]; ok {
			loc = &l
		}
	}
	if loc == nil {
		loc = def.Range
	}
	if loc == nil || loc.File != p.file {
		return FiledRange{}, false
	}
	return *loc, true
}
