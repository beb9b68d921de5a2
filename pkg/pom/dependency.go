package pom

import (
	"slices"
	"strings"

	"github.com/matzehuels/depexplorer/pkg/license"
	"github.com/matzehuels/depexplorer/pkg/version"
)

// Dependency is a node of a module's dependency tree. It also serves as
// the entry of the declaration tables of a [Pom].
type Dependency struct {
	Artifact

	pom      *Pom
	parent   *Dependency
	children []*Dependency
	licenses *license.Definition
	versions []version.Version
	packages []string
	source   Source
}

// NewDependency copies a into a new node owned by p.
func NewDependency(p *Pom, a *Artifact) *Dependency {
	return &Dependency{Artifact: *a, pom: p, source: SourceDependency}
}

// Pom returns the module the node was created for.
func (d *Dependency) Pom() *Pom { return d.pom }

// Parent returns the node d was attached to, or nil. The link is a lookup
// aid and does not own d.
func (d *Dependency) Parent() *Dependency { return d.parent }

// Children returns the attached nodes ordered by coordinates.
func (d *Dependency) Children() []*Dependency { return d.children }

// AddDependency attaches node as a child of d. When a child with the same
// group and artifact already exists, node replaces it only if its
// effective version is strictly greater; otherwise nothing changes and
// AddDependency returns false.
func (d *Dependency) AddDependency(node *Dependency) bool {
	if node == nil {
		return false
	}
	ev := version.Parse(node.Effective())
	for i, child := range d.children {
		if child.GroupID != node.GroupID || child.ArtifactID != node.ArtifactID {
			continue
		}
		if ev.Compare(version.Parse(child.Effective())) <= 0 {
			return false
		}
		d.children = slices.Delete(d.children, i, i+1)
		break
	}
	node.parent = d
	i, _ := slices.BinarySearchFunc(d.children, node, (*Dependency).Compare)
	d.children = slices.Insert(d.children, i, node)
	return true
}

// Compare orders nodes by coordinates and effective version, then source.
func (d *Dependency) Compare(o *Dependency) int {
	if c := compareCoordinates(d.GroupID, d.ArtifactID, d.Effective(), o.GroupID, o.ArtifactID, o.Effective()); c != 0 {
		return c
	}
	return int(d.source) - int(o.source)
}

// Effective returns the effective version. A ${property} version without
// an explicit effective version is resolved through the owning Pom and
// yields "" when no Pom in the chain defines it.
func (d *Dependency) Effective() string {
	if d.EffectiveVersion == "" && d.Version != "" {
		if isProperty(d.Version) {
			if d.pom == nil {
				return ""
			}
			return d.pom.ResolveProperty(d.Version)
		}
		return d.Version
	}
	return d.EffectiveVersion
}

// ResolvedVersion returns the declared version, resolved when it is a
// property reference.
func (d *Dependency) ResolvedVersion() string {
	if isProperty(d.Version) {
		return d.Effective()
	}
	return d.Version
}

// Property returns the ${...} token behind the version, if any.
func (d *Dependency) Property() string {
	if d.PropertyName != "" {
		return d.PropertyName
	}
	if isProperty(d.Version) {
		return d.Version
	}
	return ""
}

// Source returns where the node was declared.
func (d *Dependency) Source() Source { return d.source }

// SetSource changes where the node was declared.
func (d *Dependency) SetSource(s Source) { d.source = s }

// Licenses returns the license definition, or nil when unknown.
func (d *Dependency) Licenses() *license.Definition { return d.licenses }

// SetLicenses sets the licenses unless a non-empty definition is already
// present.
func (d *Dependency) SetLicenses(l *license.Definition) {
	if d.licenses == nil || len(d.licenses.Composition) == 0 {
		d.licenses = l
	}
}

// AddVersion records a candidate update version.
func (d *Dependency) AddVersion(s string) {
	v := version.Parse(s)
	i, found := slices.BinarySearchFunc(d.versions, v, version.Version.Compare)
	if !found {
		d.versions = slices.Insert(d.versions, i, v)
	}
}

// Versions returns the candidate versions in ascending order.
func (d *Dependency) Versions() []version.Version { return d.versions }

// UpdatesVersions returns the candidates at or above the effective version.
func (d *Dependency) UpdatesVersions() []version.Version {
	cur := version.Parse(d.Effective())
	i, _ := slices.BinarySearchFunc(d.versions, cur, version.Version.Compare)
	return d.versions[i:]
}

// NextVersion returns the smallest update candidate.
func (d *Dependency) NextVersion() (version.Version, bool) {
	vs := d.UpdatesVersions()
	if len(vs) == 0 {
		return version.Zero, false
	}
	return vs[0], true
}

// LastVersion returns the greatest update candidate.
func (d *Dependency) LastVersion() (version.Version, bool) {
	vs := d.UpdatesVersions()
	if len(vs) == 0 {
		return version.Zero, false
	}
	return vs[len(vs)-1], true
}

// DeclarePackage records a Java package provided by the artifact.
func (d *Dependency) DeclarePackage(pkg string) {
	i, found := slices.BinarySearch(d.packages, pkg)
	if !found {
		d.packages = slices.Insert(d.packages, i, pkg)
	}
}

// Packages returns the declared packages in sorted order.
func (d *Dependency) Packages() []string { return d.packages }

// GAeV returns "groupId:artifactId:effectiveVersion".
func (d *Dependency) GAeV() string {
	return d.GroupID + ":" + d.ArtifactID + ":" + d.Effective()
}

// String renders the node with its source, candidate versions and
// licenses:
//
//	org.slf4j:slf4j-api:1.7.26 (DEPENDENCY) -> [1.7.30, 2.0.0] [License {name=MIT, family=permissive}]
func (d *Dependency) String() string {
	var b strings.Builder
	d.writeGAV(&b)
	b.WriteString(" (")
	b.WriteString(d.source.String())
	b.WriteByte(')')
	hasLicenses := d.licenses != nil && len(d.licenses.Composition) > 0
	if len(d.versions) > 0 || hasLicenses {
		b.WriteString(" ->")
	}
	if len(d.versions) > 0 {
		b.WriteString(" [")
		for i, v := range d.versions {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(v.String())
		}
		b.WriteByte(']')
	}
	if hasLicenses {
		b.WriteString(" [")
		for i, id := range d.licenses.Composition {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(id.String())
		}
		b.WriteByte(']')
	}
	return b.String()
}
