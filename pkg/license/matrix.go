package license

import (
	"maps"
	"slices"
	"strings"
)

// Restriction folds two families into one.
type Restriction func(a, b *Family) *Family

// Matrix holds the license families by name.
type Matrix struct {
	families map[string]*Family
}

// NewMatrix returns an empty matrix.
func NewMatrix() *Matrix {
	return &Matrix{families: make(map[string]*Family)}
}

// Add registers f, replacing a family of the same name.
func (m *Matrix) Add(f *Family) { m.families[f.Name] = f }

// Family returns the family called name, or nil.
func (m *Matrix) Family(name string) *Family { return m.families[name] }

// Families returns every family ordered by name.
func (m *Matrix) Families() []*Family {
	out := make([]*Family, 0, len(m.families))
	for _, name := range slices.Sorted(maps.Keys(m.families)) {
		out = append(out, m.families[name])
	}
	return out
}

// Match returns the family of id, or nil when it is unknown.
func (m *Matrix) Match(id Identity) *Family { return m.families[id.Family] }

// IsCompatible reports whether a project under family project may
// integrate a dependency under family dep. Include cycles are cut by
// never visiting a family twice on one path.
func (m *Matrix) IsCompatible(project, dep *Family) bool {
	return m.isCompatible(project, dep, nil)
}

func (m *Matrix) isCompatible(project, dep *Family, visited []string) bool {
	if dep == nil || project == nil {
		return false
	}
	if project.Name == dep.Name {
		return true
	}
	if slices.Contains(project.Exclude, dep.Name) {
		return false
	}
	for _, in := range project.Include {
		if in == dep.Name {
			return true
		}
		next := m.families[in]
		if next == nil || slices.Contains(visited, in) {
			continue
		}
		if m.isCompatible(next, dep, append(slices.Clip(visited), in)) {
			return true
		}
	}
	return false
}

// MostRestrictive returns whichever of a and b constrains its users more.
// Copyleft beats permissive; with equal copyleft the family with more
// parameters wins; a is kept on ties.
func (m *Matrix) MostRestrictive(a, b *Family) *Family {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if m.IsCompatible(a, b) {
		return b
	}
	if m.IsCompatible(b, a) {
		return a
	}
	if a.Copyleft != b.Copyleft {
		if a.Copyleft {
			return a
		}
		return b
	}
	if len(a.Parameters) < len(b.Parameters) {
		return b
	}
	return a
}

// LeastRestrictive returns whichever of a and b constrains its users
// less. Permissive beats copyleft; with equal copyleft the family with
// fewer parameters wins; a is kept on ties.
func (m *Matrix) LeastRestrictive(a, b *Family) *Family {
	if a == nil {
		return b
	}
	if b == nil || m.IsCompatible(a, b) {
		return a
	}
	if m.IsCompatible(b, a) {
		return b
	}
	if a.Copyleft != b.Copyleft {
		if a.Copyleft {
			return b
		}
		return a
	}
	if len(a.Parameters) > len(b.Parameters) {
		return b
	}
	return a
}

// Reduce folds the families of ids with restrict. Identities without a
// family are skipped; nil means no family applies.
func (m *Matrix) Reduce(ids []Identity, restrict Restriction) *Family {
	var acc *Family
	for _, id := range ids {
		if id.Family == "" {
			continue
		}
		if f := m.Match(id); acc == nil {
			acc = f
		} else {
			acc = restrict(acc, f)
		}
	}
	return acc
}

// Problem is a dependency version whose licenses do not fit the project.
type Problem struct {
	Definition *Definition
	Family     *Family
}

// Compatibility is the outcome of checking one artifact's versions
// against the project licenses.
type Compatibility struct {
	GA          string
	ProjectName string
	Problems    map[string]Problem // keyed by dependency version
}

// Problematic reports whether any version is incompatible.
func (c Compatibility) Problematic() bool { return len(c.Problems) > 0 }

// Description returns a human readable summary.
func (c Compatibility) Description() string {
	if !c.Problematic() {
		return "Dependency " + c.GA + " is compatible license wise."
	}
	var b strings.Builder
	b.WriteString("Dependency " + c.GA + " is not compatible with project license (" + c.ProjectName + ") :\n")
	for _, key := range slices.Sorted(maps.Keys(c.Problems)) {
		p := c.Problems[key]
		b.WriteString("  - " + key + " : " + p.Definition.Name + " (" + p.Family.Name + ")\n")
	}
	return b.String()
}

// Compatibility checks every dependency version in versions against the
// project licenses. The project is reduced to its most restrictive family
// and each version to its least restrictive one; unknown families on
// either side are not reported.
func (m *Matrix) Compatibility(project *Definition, versions map[string]*Definition, ga string) Compatibility {
	c := Compatibility{GA: ga, Problems: map[string]Problem{}}
	if project == nil {
		return c
	}
	c.ProjectName = project.Name
	projectFamily := m.Reduce(project.Composition, m.MostRestrictive)
	for key, def := range versions {
		if def == nil {
			continue
		}
		depFamily := m.Reduce(def.Composition, m.LeastRestrictive)
		if projectFamily != nil && depFamily != nil && !m.IsCompatible(projectFamily, depFamily) {
			c.Problems[key] = Problem{Definition: def, Family: depFamily}
		}
	}
	return c
}
