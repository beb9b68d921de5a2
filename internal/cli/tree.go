package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/depexplorer/pkg/pom"
	"github.com/matzehuels/depexplorer/pkg/render/nodelink"
)

const formatText = "text"

type treeOptions struct {
	format   string
	output   string
	module   string
	detailed bool
}

// treeCommand creates the tree command.
func (c *CLI) treeCommand() *cobra.Command {
	var opts treeOptions

	cmd := &cobra.Command{
		Use:   "tree [dir]",
		Short: "Print or export the dependency tree of each module",
		Long: `Tree prints the dependency tree of each module in the layout of
"mvn dependency:tree", or exports the trees as a Graphviz graph.

Formats: text (default), dot, svg.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTree(cmd, projectDir(args), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", formatText, "output format: text, dot or svg")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&opts.module, "module", "m", "", "only the module with this artifactId")
	cmd.Flags().BoolVarP(&opts.detailed, "detailed", "d", false, "include scope, latest version and licenses in graph nodes")

	return cmd
}

func (c *CLI) runTree(cmd *cobra.Command, dir string, opts treeOptions) error {
	var format nodelink.Format
	if opts.format != formatText {
		f, err := nodelink.ParseFormat(opts.format)
		if err != nil {
			return err
		}
		format = f
	}

	p, err := c.loadProject(cmd.Context(), dir)
	if err != nil {
		return err
	}
	poms := selectModule(p.poms, opts.module)
	if len(poms) == 0 {
		printWarning(cmd.ErrOrStderr(), "No module named %q", opts.module)
		return nil
	}

	var w io.Writer = cmd.OutOrStdout()
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	if format == "" {
		err = writeTrees(w, poms)
	} else {
		err = nodelink.Write(cmd.Context(), w, poms, format, nodelink.Options{Detailed: opts.detailed})
	}
	if err != nil {
		return err
	}
	if opts.output != "" {
		printSuccess(cmd.OutOrStdout(), "Tree written")
		printFile(cmd.OutOrStdout(), opts.output)
	}
	return nil
}

// selectModule returns the Pom named name, or all of them when name is
// empty.
func selectModule(poms []*pom.Pom, name string) []*pom.Pom {
	if name == "" {
		return poms
	}
	for _, p := range poms {
		if p.Name() == name {
			return []*pom.Pom{p}
		}
	}
	return nil
}

func writeTrees(w io.Writer, poms []*pom.Pom) error {
	for _, p := range poms {
		if err := p.PrintTree(w); err != nil {
			return err
		}
	}
	return nil
}
