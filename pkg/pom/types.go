package pom

import (
	"strings"

	"github.com/matzehuels/depexplorer/pkg/xmlpath"
)

// Source tells where a dependency was declared.
type Source int

const (
	SourceDependency Source = iota
	SourceDependencyManagement
	SourcePlugin
	SourcePluginManagement
)

var sourceNames = [...]string{"DEPENDENCY", "DEPENDENCY_MANAGEMENT", "PLUGIN", "PLUGIN_MANAGEMENT"}

func (s Source) String() string {
	if s < SourceDependency || s > SourcePluginManagement {
		return "UNKNOWN"
	}
	return sourceNames[s]
}

// Managed reports whether s is a management block.
func (s Source) Managed() bool {
	return s == SourceDependencyManagement || s == SourcePluginManagement
}

// Plugin reports whether s declares a build plugin.
func (s Source) Plugin() bool {
	return s == SourcePlugin || s == SourcePluginManagement
}

// Scope is a Maven dependency scope.
type Scope int

const (
	ScopeCompile Scope = iota
	ScopeProvided
	ScopeRuntime
	ScopeTest
	ScopeSystem
	ScopeImport
)

var scopeNames = [...]string{"COMPILE", "PROVIDED", "RUNTIME", "TEST", "SYSTEM", "IMPORT"}

// Scopes lists every scope in declaration order.
var Scopes = []Scope{ScopeCompile, ScopeProvided, ScopeRuntime, ScopeTest, ScopeSystem, ScopeImport}

func (s Scope) String() string {
	if s < ScopeCompile || s > ScopeImport {
		return "UNKNOWN"
	}
	return scopeNames[s]
}

// ParseScope maps a scope name to its Scope. Empty or unknown names map to
// [ScopeCompile], which is Maven's default.
func ParseScope(s string) Scope {
	for i, name := range scopeNames {
		if strings.EqualFold(s, name) {
			return Scope(i)
		}
	}
	return ScopeCompile
}

// Type is the role of a Pom in the reactor.
type Type int

const (
	TypeMain Type = iota
	TypeModule
	TypeParent
)

func (t Type) String() string {
	switch t {
	case TypeMain:
		return "MAIN"
	case TypeModule:
		return "MODULE"
	case TypeParent:
		return "PARENT"
	}
	return "UNKNOWN"
}

// FiledRange is a span of text in a given file.
type FiledRange struct {
	File  string
	Range xmlpath.Range
	Text  string
}
