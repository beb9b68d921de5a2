package maven

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/depexplorer/pkg/errors"
	"github.com/matzehuels/depexplorer/pkg/pom"
	"github.com/matzehuels/depexplorer/pkg/xmlpath"
)

// RepoEnv overrides the local repository location.
const RepoEnv = "MAVEN_REPO_LOCAL"

// maxParentDepth bounds parent chains, when loading parents and when
// looking up licenses.
const maxParentDepth = 10

// Repository is a local Maven repository laid out as
// <dir>/<group path>/<artifact>/<version>/<artifact>-<version>.pom.
type Repository struct {
	dir string
}

// NewRepository returns the repository rooted at dir.
func NewRepository(dir string) *Repository {
	return &Repository{dir: dir}
}

// DiscoverRepository picks the local repository: configured when set,
// then $MAVEN_REPO_LOCAL, then .m2/repository under workDir, then under
// the home directory. A candidate is skipped unless it is a directory,
// except the last one which is returned as is.
func DiscoverRepository(configured, workDir string) *Repository {
	var candidates []string
	if configured != "" {
		candidates = append(candidates, configured)
	}
	if env := os.Getenv(RepoEnv); env != "" {
		candidates = append(candidates, env)
	}
	if workDir != "" {
		candidates = append(candidates, filepath.Join(workDir, ".m2", "repository"))
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	fallback := filepath.Join(home, ".m2", "repository")

	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && info.IsDir() {
			return NewRepository(c)
		}
	}
	return NewRepository(fallback)
}

// Dir returns the repository root.
func (r *Repository) Dir() string { return r.dir }

// POMPath returns where the POM of the given coordinates is stored.
func (r *Repository) POMPath(groupID, artifactID, version string) string {
	return filepath.Join(r.dir, filepath.FromSlash(strings.ReplaceAll(groupID, ".", "/")),
		artifactID, version, artifactID+"-"+version+".pom")
}

// Has reports whether the POM of the given coordinates is present.
func (r *Repository) Has(groupID, artifactID, version string) bool {
	info, err := os.Stat(r.POMPath(groupID, artifactID, version))
	return err == nil && !info.IsDir()
}

// Licenses returns the license names declared by an artifact POM, or by
// the closest parent declaring some. ${...} names are resolved against the
// properties of the POM declaring them. A missing POM is an error with
// code FILE_NOT_FOUND; a missing parent ends the lookup.
func (r *Repository) Licenses(groupID, artifactID, version string) ([]string, error) {
	return FollowLicenses(groupID, artifactID, version, func(g, a, v string) (Descriptor, error) {
		var d descriptorReader
		if err := xmlpath.ParseFile(r.POMPath(g, a, v), d.matchers()...); err != nil {
			return Descriptor{}, err
		}
		return d.descriptor(), nil
	})
}

// Descriptor is the part of a POM needed to follow licenses.
type Descriptor struct {
	Parent   *pom.Artifact
	Licenses []string
}

// Describe reads the descriptor of the POM document in data.
func Describe(source string, data []byte) (Descriptor, error) {
	var d descriptorReader
	if err := xmlpath.ParseBytes(source, data, d.matchers()...); err != nil {
		return Descriptor{}, err
	}
	return d.descriptor(), nil
}

// FollowLicenses walks the parent chain from the given coordinates with
// describe until a POM declares licenses. A missing POM past the first one
// ends the walk without error.
func FollowLicenses(groupID, artifactID, version string, describe func(g, a, v string) (Descriptor, error)) ([]string, error) {
	g, a, v := groupID, artifactID, version
	for depth := 0; depth < maxParentDepth; depth++ {
		desc, err := describe(g, a, v)
		if err != nil {
			if depth > 0 && missing(err) {
				return nil, nil
			}
			return nil, err
		}
		if len(desc.Licenses) > 0 || desc.Parent == nil {
			return desc.Licenses, nil
		}
		g, a, v = desc.Parent.GroupID, desc.Parent.ArtifactID, desc.Parent.Version
	}
	return nil, nil
}

type descriptorReader struct {
	parent *pom.Artifact
	names  []string
	props  map[string]string
}

func (d *descriptorReader) matchers() []*xmlpath.Matcher {
	d.props = make(map[string]string)
	return []*xmlpath.Matcher{
		xmlpath.Match(pathParent, func(rec xmlpath.Record) {
			d.parent = pom.NewArtifact(rec.Get("/groupId"), rec.Get("/artifactId"), rec.Get("/version"))
		}),
		xmlpath.Match(pathProperties, func(rec xmlpath.Record) {
			for _, k := range rec.Keys() {
				if name, ok := strings.CutPrefix(k, "/"); ok {
					d.props["${"+name+"}"] = rec.Get(k)
				}
			}
		}),
		xmlpath.Match(pathLicense, func(rec xmlpath.Record) {
			if n := rec.Get("/name"); n != "" {
				d.names = append(d.names, n)
			}
		}),
	}
}

func (d *descriptorReader) descriptor() Descriptor {
	desc := Descriptor{Parent: d.parent}
	for _, n := range d.names {
		if strings.HasPrefix(n, "${") {
			n = d.props[n]
		}
		if n != "" {
			desc.Licenses = append(desc.Licenses, n)
		}
	}
	return desc
}

func missing(err error) bool {
	return errors.Is(err, errors.ErrCodeFileNotFound) ||
		errors.Is(err, errors.ErrCodeNotFound) ||
		errors.Is(err, errors.ErrCodeArtifactNotFound)
}
