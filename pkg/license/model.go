package license

import (
	"io"

	"github.com/charmbracelet/log"
)

// Model bundles the dictionary and the matrix of one license definition.
type Model struct {
	Dictionary *Dictionary
	Matrix     *Matrix
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{Dictionary: NewDictionary(), Matrix: NewMatrix()}
}

// AddFamily registers a family.
func (m *Model) AddFamily(f *Family) { m.Matrix.Add(f) }

// AddIdentity registers label as a name of id.
func (m *Model) AddIdentity(label string, id Identity) { m.Dictionary.Add(label, id) }

// Lookup returns the identities known under name, or nil.
func (m *Model) Lookup(name string) []Identity { return m.Dictionary.Lookup(name) }

// Family returns the family called name, or nil.
func (m *Model) Family(name string) *Family { return m.Matrix.Family(name) }

// Compatibility delegates to [Matrix.Compatibility].
func (m *Model) Compatibility(project *Definition, versions map[string]*Definition, ga string) Compatibility {
	return m.Matrix.Compatibility(project, versions, ga)
}

// Validate logs a warning for every reference to an undefined family and
// returns the number of warnings. Dangling references never match.
func (m *Model) Validate(logger *log.Logger) int {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	n := 0
	for _, f := range m.Matrix.Families() {
		for _, ref := range f.Include {
			if m.Matrix.Family(ref) == nil {
				logger.Warn("unknown family in integration", "family", ref, "type", "INCLUDE", "in", f.Name)
				n++
			}
		}
		for _, ref := range f.Exclude {
			if m.Matrix.Family(ref) == nil {
				logger.Warn("unknown family in integration", "family", ref, "type", "EXCLUDE", "in", f.Name)
				n++
			}
		}
	}
	for _, id := range m.Dictionary.Identities() {
		if m.Matrix.Family(id.Family) == nil {
			logger.Warn("unknown family for license", "family", id.Family, "license", id.Name)
			n++
		}
	}
	return n
}
