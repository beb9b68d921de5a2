package cli

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/depexplorer/pkg/license"
	"github.com/matzehuels/depexplorer/pkg/pom"
)

// licensesCommand creates the licenses command.
func (c *CLI) licensesCommand() *cobra.Command {
	var families bool

	cmd := &cobra.Command{
		Use:   "licenses [dir]",
		Short: "List the licenses of the dependencies",
		Long: `Licenses lists each module's license and the licenses found for its
dependencies, in the local repository or remotely when enabled.

With --families, print the license families of the configured matrix and
the families each one can integrate instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := projectDir(args)
			if families {
				cfg, _, err := c.loadConfig(dir)
				if err != nil {
					return err
				}
				model, err := cfg.LicenseModel(c.Logger)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), familyTable(model))
				return nil
			}

			p, err := c.loadProject(cmd.Context(), dir)
			if err != nil {
				return err
			}
			printLicenses(cmd.OutOrStdout(), p.poms)
			return nil
		},
	}

	cmd.Flags().BoolVar(&families, "families", false, "print the license matrix")
	return cmd
}

// licenseRow is one artifact of the license listing.
type licenseRow struct {
	gav      string
	licenses string
}

// licenseRows lists the distinct nodes of a module tree, root first, then
// by coordinates.
func licenseRows(p *pom.Pom) []licenseRow {
	var rows []licenseRow
	for ga, nodes := range p.Duplicates() {
		for _, d := range nodes {
			if d == p.Root() {
				continue
			}
			rows = append(rows, licenseRow{gav: ga + ":" + d.Effective(), licenses: licenseNames(d.Licenses())})
		}
	}
	slices.SortFunc(rows, func(a, b licenseRow) int { return strings.Compare(a.gav, b.gav) })
	rows = slices.CompactFunc(rows, func(a, b licenseRow) bool { return a.gav == b.gav })
	return append([]licenseRow{{gav: p.Root().GAeV(), licenses: licenseNames(p.Root().Licenses())}}, rows...)
}

func licenseNames(d *license.Definition) string {
	if d.IsEmpty() {
		return "unknown"
	}
	return strings.Join(d.Names(), ", ")
}

func printLicenses(w io.Writer, poms []*pom.Pom) {
	for _, p := range poms {
		rows := licenseRows(p)
		cells := make([][]string, len(rows))
		for i, r := range rows {
			cells[i] = []string{r.gav, r.licenses}
		}
		fmt.Fprintln(w, StyleTitle.Render(p.Name()))
		fmt.Fprintln(w, table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
			Headers("Artifact", "Licenses").
			Rows(cells...).
			StyleFunc(func(row, col int) lipgloss.Style {
				switch {
				case row == -1:
					return styleHeader
				case row == 0:
					return lipgloss.NewStyle().Foreground(colorCyan)
				case col == 1 && row < len(rows) && rows[row].licenses == "unknown":
					return StyleWarning
				}
				return lipgloss.NewStyle()
			}).
			Render())
	}
}

// familyTable renders the families of the model with what each one can
// integrate.
func familyTable(m *license.Model) string {
	var rows [][]string
	for _, f := range m.Matrix.Families() {
		var compatible []string
		for _, o := range m.Matrix.Families() {
			if o != f && m.Matrix.IsCompatible(f, o) {
				compatible = append(compatible, o.Name)
			}
		}
		rows = append(rows, []string{f.Name, strings.Join(compatible, ", ")})
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Family", "Integrates").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			return lipgloss.NewStyle()
		}).
		Render()
}
