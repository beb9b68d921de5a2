package pom

import (
	"strings"
)

// Artifact is a Maven coordinate as declared in a document or a report.
// Empty strings stand for absent values.
type Artifact struct {
	GroupID    string
	ArtifactID string
	Version    string // raw declared version, possibly a ${property}

	// EffectiveVersion is Version after property substitution or
	// management inheritance.
	EffectiveVersion string
	Type             string
	Scope            string
	// PropertyName is the ${...} token the version was declared with.
	PropertyName string
	Range        *FiledRange
}

// NewArtifact returns an artifact with the given coordinates.
func NewArtifact(groupID, artifactID, version string) *Artifact {
	return &Artifact{GroupID: groupID, ArtifactID: artifactID, Version: version}
}

// SetPropertyName records the property token. Empty names are ignored.
func (a *Artifact) SetPropertyName(name string) {
	if name != "" {
		a.PropertyName = name
	}
}

// GA returns "groupId:artifactId".
func (a *Artifact) GA() string {
	return a.GroupID + ":" + a.ArtifactID
}

// GAV returns "groupId:artifactId[:type]:version" with the raw version.
func (a *Artifact) GAV() string {
	var b strings.Builder
	a.writeGAV(&b)
	return b.String()
}

func (a *Artifact) writeGAV(b *strings.Builder) {
	b.WriteString(a.GroupID)
	b.WriteByte(':')
	b.WriteString(a.ArtifactID)
	b.WriteByte(':')
	if a.Type != "" {
		b.WriteString(a.Type)
		b.WriteByte(':')
	}
	b.WriteString(a.Version)
}

// Key is the identity of the artifact: group, artifact and raw version.
func (a *Artifact) Key() string {
	return a.GroupID + ":" + a.ArtifactID + ":" + a.Version
}

// Compare orders artifacts by group, artifact, then effective version.
func (a *Artifact) Compare(o *Artifact) int {
	return compareCoordinates(a.GroupID, a.ArtifactID, a.EffectiveVersion, o.GroupID, o.ArtifactID, o.EffectiveVersion)
}

func compareCoordinates(g1, a1, v1, g2, a2, v2 string) int {
	if c := strings.Compare(g1, g2); c != 0 {
		return c
	}
	if c := strings.Compare(a1, a2); c != 0 {
		return c
	}
	return strings.Compare(v1, v2)
}

// String returns the GAV followed by the source range and the scope when
// known, for example "junit:junit:4.11 (17:16 - 17:20) test".
func (a *Artifact) String() string {
	var b strings.Builder
	a.writeGAV(&b)
	if a.Range != nil {
		b.WriteString(" (")
		b.WriteString(a.Range.Range.String())
		b.WriteByte(')')
	}
	if a.Scope != "" {
		b.WriteByte(' ')
		b.WriteString(a.Scope)
	}
	return b.String()
}

func isProperty(v string) bool {
	return strings.HasPrefix(v, "${")
}
