// Package license matches free-text license names to known licenses and
// decides whether license families may be combined.
//
// # Overview
//
// A [Dictionary] maps license labels found in POMs ("The Apache Software
// License, Version 2.0") to [Identity] values. Each identity belongs to a
// [Family], and the [Matrix] knows which families may integrate which:
//
//	model, _ := license.Default()
//	ids := model.Lookup("Apache License 2.0")
//	project := license.DefinitionOf(model.Lookup("MIT"))
//	c := model.Compatibility(project, map[string]*license.Definition{"g:a:1.0": license.DefinitionOf(ids)}, "g:a")
//	fmt.Println(c.Description())
//
// # Compatibility
//
// A family is compatible with itself, never with a family it excludes, and
// with every family it includes directly or through included families.
// The relation is not symmetric: a permissive dependency fits a copyleft
// project, not the reverse.
//
// When a project or a dependency carries several licenses they are folded
// into one family: the project keeps the most restrictive one, the
// dependency the least restrictive one.
//
// # Definitions
//
// Families and identities are loaded from an XML or YAML definition with
// [LoadXML] and [LoadYAML]. [Default] returns the embedded definition
// covering common open source licenses. A [Model] is built once and passed
// explicitly to whoever needs it; there is no package-level state.
package license

import (
	"cmp"
	"slices"
	"strings"
)

// Identity is a recognized license and the family it belongs to.
// Identities are compared by name only.
type Identity struct {
	Name   string
	Family string
}

func (i Identity) String() string {
	family := i.Family
	if family == "" {
		family = "null"
	}
	return "License {name=" + i.Name + ", family=" + family + "}"
}

func compareIdentity(a, b Identity) int { return cmp.Compare(a.Name, b.Name) }

// Family is a class of licenses sharing the same integration rules.
type Family struct {
	Name       string
	Copyleft   bool
	Include    []string // families this one may integrate
	Exclude    []string // families this one must not integrate, checked first
	Parameters map[string]string
}

// NewFamily returns an empty family.
func NewFamily(name string) *Family {
	return &Family{Name: name, Parameters: map[string]string{}}
}

func (f *Family) String() string { return f.Name }

// Definition is the set of licenses declared by one artifact.
type Definition struct {
	Name        string
	Composition []Identity // sorted by name, without duplicates
}

// NewDefinition returns a definition named name holding ids.
func NewDefinition(name string, ids []Identity) *Definition {
	comp := slices.Clone(ids)
	slices.SortStableFunc(comp, compareIdentity)
	comp = slices.CompactFunc(comp, func(a, b Identity) bool { return a.Name == b.Name })
	return &Definition{Name: name, Composition: comp}
}

// DefinitionOf returns a definition named after its identities, joined
// with ", ".
func DefinitionOf(ids []Identity) *Definition {
	d := NewDefinition("", ids)
	names := make([]string, len(d.Composition))
	for i, id := range d.Composition {
		names[i] = id.Name
	}
	d.Name = strings.Join(names, ", ")
	return d
}

// IsEmpty reports whether d is nil or has no identity.
func (d *Definition) IsEmpty() bool {
	return d == nil || len(d.Composition) == 0
}

// Names returns the identity names.
func (d *Definition) Names() []string {
	if d == nil {
		return nil
	}
	names := make([]string, len(d.Composition))
	for i, id := range d.Composition {
		names[i] = id.Name
	}
	return names
}

// Equal reports whether d and o have the same name and identities.
func (d *Definition) Equal(o *Definition) bool {
	if d == nil || o == nil {
		return d == o
	}
	return d.Name == o.Name && slices.EqualFunc(d.Composition, o.Composition,
		func(a, b Identity) bool { return a.Name == b.Name })
}
