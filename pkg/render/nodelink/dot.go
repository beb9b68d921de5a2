package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/depexplorer/pkg/errors"
	"github.com/matzehuels/depexplorer/pkg/pom"
	"github.com/matzehuels/depexplorer/pkg/version"
)

// Format is an output format of [Write].
type Format string

const (
	FormatDOT Format = "dot"
	FormatSVG Format = "svg"
)

// Formats lists the supported formats.
var Formats = []Format{FormatDOT, FormatSVG}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want dot or svg)", s)
}

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds scope, available update and licenses to node labels.
	Detailed bool
}

// Node fill colors.
const (
	colorModule   = "lightblue"
	colorUpdate   = "lightyellow"
	colorConflict = "salmon"
)

// ToDOT converts the dependency trees of poms to Graphviz DOT. Each module
// is a cluster; artifacts shared between modules appear once. Nodes with a
// newer candidate version are yellow, nodes whose artifact is reported
// with several versions are red.
func ToDOT(poms []*pom.Pom, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.2;\n")

	seen := make(map[string]bool)
	edges := make(map[[2]string]bool)
	for i, p := range poms {
		conflicts := make(map[string]bool)
		for _, inc := range p.VersionIncompatibilities() {
			conflicts[inc.Artifact.GA()] = true
		}

		fmt.Fprintf(&buf, "\n  subgraph cluster_%d {\n", i)
		fmt.Fprintf(&buf, "    label=%q;\n", p.Name())
		buf.WriteString("    style=dashed;\n")

		var walk func(d *pom.Dependency)
		walk = func(d *pom.Dependency) {
			id := d.GAeV()
			if !seen[id] {
				seen[id] = true
				attrs := nodeAttrs(d, d == p.Root(), conflicts[d.GA()], opts.Detailed)
				fmt.Fprintf(&buf, "    %q [%s];\n", id, strings.Join(attrs, ", "))
			}
			for _, c := range d.Children() {
				walk(c)
			}
		}
		walk(p.Root())
		buf.WriteString("  }\n")

		var link func(d *pom.Dependency)
		link = func(d *pom.Dependency) {
			for _, c := range d.Children() {
				e := [2]string{d.GAeV(), c.GAeV()}
				if !edges[e] {
					edges[e] = true
					fmt.Fprintf(&buf, "  %q -> %q;\n", e[0], e[1])
				}
				link(c)
			}
		}
		link(p.Root())
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(d *pom.Dependency, module, conflict, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", label(d, detailed))}
	switch {
	case module:
		attrs = append(attrs, "fillcolor="+colorModule)
	case conflict:
		attrs = append(attrs, "fillcolor="+colorConflict)
	case hasUpdate(d):
		attrs = append(attrs, "fillcolor="+colorUpdate)
	}
	if d.Scope == "test" || d.Scope == "provided" {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"")
	}
	return attrs
}

func label(d *pom.Dependency, detailed bool) string {
	l := d.ArtifactID + "\n" + d.Effective()
	if !detailed {
		return l
	}
	parts := []string{d.GroupID}
	if d.Scope != "" {
		parts = append(parts, "scope: "+d.Scope)
	}
	if hasUpdate(d) {
		last, _ := d.LastVersion()
		parts = append(parts, "latest: "+last.String())
	}
	if lic := d.Licenses(); !lic.IsEmpty() {
		parts = append(parts, "license: "+strings.Join(lic.Names(), ", "))
	}
	return l + "\n" + strings.Join(parts, "\n")
}

func hasUpdate(d *pom.Dependency) bool {
	last, ok := d.LastVersion()
	return ok && last.Compare(version.Parse(d.Effective())) > 0
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

// Write renders poms to w in the given format.
func Write(ctx context.Context, w io.Writer, poms []*pom.Pom, format Format, opts Options) error {
	dot := ToDOT(poms, opts)
	switch format {
	case FormatDOT:
		_, err := io.WriteString(w, dot)
		return err
	case FormatSVG:
		svg, err := RenderSVG(ctx, dot)
		if err != nil {
			return err
		}
		_, err = w.Write(svg)
		return err
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", format)
	}
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the drawing scales from a
// zero origin.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
