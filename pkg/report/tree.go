package report

import (
	"bufio"
	"context"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/depexplorer/pkg/config"
	"github.com/matzehuels/depexplorer/pkg/pom"
)

// TreePath is where the tree report is expected.
const TreePath = "target/tree.txt"

const conflictMarker = "omitted for conflict with "

// Tree reads the text output of "mvn dependency:tree". Each line below
// the module itself becomes a node attached to the line one level up.
//
// With -Dverbose, lines such as
//
//	|  \- (org.slf4j:slf4j-api:jar:1.7.25:compile - omitted for conflict with 1.7.26)
//
// are not attached; both versions are recorded as an incompatibility of
// the artifact instead. Other omitted entries are ignored.
type Tree struct{}

func (Tree) Name() string { return "tree" }
func (Tree) Path() string { return TreePath }

func (Tree) Consume(ctx context.Context, r io.Reader, p *pom.Pom, _ config.Exploration) (bool, error) {
	var (
		found     bool
		stack     = map[int]*pom.Dependency{0: p.Root()}
		conflicts = make(map[string]*pom.Artifact)
		observed  = make(map[string][]string)
	)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return found, err
		}
		level, entry := treeLine(sc.Text())
		if level <= 0 || entry == "" {
			continue
		}

		var note string
		if strings.HasPrefix(entry, "(") {
			entry = strings.TrimSuffix(strings.TrimPrefix(entry, "("), ")")
			entry, note, _ = strings.Cut(entry, " - ")
		}
		a, ok := parseCoordinates(entry)
		previous := stack[level-1]
		if !ok || previous == nil {
			delete(stack, level)
			continue
		}

		if note != "" {
			delete(stack, level)
			if winner, ok := strings.CutPrefix(note, conflictMarker); ok {
				ga := a.GA()
				if _, seen := conflicts[ga]; !seen {
					conflicts[ga] = pom.NewArtifact(a.GroupID, a.ArtifactID, strings.TrimSpace(winner))
				}
				observed[ga] = append(observed[ga], a.Version, strings.TrimSpace(winner))
				found = true
			}
			continue
		}

		def := p.Own(p.DeclareDependency(pom.NewArtifact(a.GroupID, a.ArtifactID, a.Version), false))
		def.Type = a.Type
		def.Scope = a.Scope
		def.EffectiveVersion = a.Version
		previous.AddDependency(def)
		stack[level] = def
		found = true
	}
	if err := sc.Err(); err != nil {
		return found, err
	}

	for _, ga := range slices.Sorted(maps.Keys(conflicts)) {
		vs := observed[ga]
		slices.Sort(vs)
		p.AddVersionIncompatibility(conflicts[ga], slices.Compact(vs))
	}
	return found, nil
}

var treeReplacer = strings.NewReplacer("   ", " ", "+- ", " ", "|  ", " ", `\- `, " ")

// treeLine strips the tree drawing of a line and returns the depth of the
// entry with its text. The module line has depth 0.
func treeLine(line string) (int, string) {
	line = strings.TrimPrefix(line, "[INFO] ")
	l := treeReplacer.Replace(line)
	level := len(l) - len(strings.TrimLeft(l, " \t"))
	return level, strings.TrimSpace(l[level:])
}

// parseCoordinates reads "group:artifact:type[:classifier]:version:scope",
// ignoring any text after the first blank.
func parseCoordinates(s string) (*pom.Artifact, bool) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, false
	}
	d := strings.Split(fields[0], ":")
	if len(d) < 5 {
		return nil, false
	}
	version, scope := d[3], d[4]
	if len(d) > 5 {
		version, scope = d[4], d[5]
	}
	a := pom.NewArtifact(d[0], d[1], version)
	a.Type = d[2]
	a.Scope = scope
	a.EffectiveVersion = version
	return a, true
}
