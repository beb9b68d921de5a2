// Package nodelink draws module dependency trees as Graphviz node-link
// diagrams.
//
//	dot := nodelink.ToDOT(poms, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Modules are clusters. Colors flag what the analysis cares about: the
// module roots are blue, dependencies with a newer candidate version
// yellow, and artifacts reported with conflicting versions red. Test and
// provided scoped nodes have a dashed outline.
//
// SVG output uses [github.com/goccy/go-graphviz], which runs Graphviz in
// process; no external binary is needed.
package nodelink
