package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/depexplorer/pkg/pom"
	"github.com/matzehuels/depexplorer/pkg/rules"
)

type analyzeOptions struct {
	print       bool
	output      string
	interactive bool
	failOn      string
}

// analyzeCommand creates the analyze command.
func (c *CLI) analyzeCommand() *cobra.Command {
	var opts analyzeOptions

	cmd := &cobra.Command{
		Use:   "analyze [dir]",
		Short: "Run the dependency rules on a Maven project",
		Long: `Analyze reads the project in dir (default: the current directory) and runs
the enabled rules on the main POM and each module.

Reports produced by the build complete the analysis when present in each
module's target directory:

  mvn dependency:tree -DoutputFile=target/tree.txt -Dverbose
  mvn versions:dependency-updates-report versions:property-updates-report -DreportFormat=xml
  mvn dependency:analyze > target/dependency-analysis.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAnalyze(cmd, projectDir(args), opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.print, "print", "p", false, "print the text report (trees and rule sections)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the text report to a file")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "browse the issues interactively")
	cmd.Flags().StringVar(&opts.failOn, "fail-on", "", "exit with an error if an issue has at least this severity (INFO, MINOR, MAJOR, CRITICAL, BLOCKER)")

	return cmd
}

func (c *CLI) runAnalyze(cmd *cobra.Command, dir string, opts analyzeOptions) error {
	var threshold rules.Severity
	if opts.failOn != "" {
		s, err := rules.ParseSeverity(opts.failOn)
		if err != nil {
			return err
		}
		threshold = s
	}

	ctx := cmd.Context()
	p, err := c.loadProject(ctx, dir)
	if err != nil {
		return err
	}

	prog := newProgress(p.logger)
	var checker rules.Checker
	if p.licenses != nil {
		checker = p.licenses
	}
	results := rules.NewProject(p.cfg.RuleSettings(), checker, p.logger).Run(ctx, p.poms...)
	if err := ctx.Err(); err != nil {
		return err
	}
	issues := rules.Issues(results)
	prog.done(fmt.Sprintf("Found %d issues", len(issues)))

	out := cmd.OutOrStdout()
	if opts.output != "" {
		if err := writeReportFile(opts.output, p.poms, results); err != nil {
			return err
		}
		printSuccess(out, "Report written")
		printFile(out, opts.output)
	}
	if opts.print {
		if err := writeReport(out, p.poms, results); err != nil {
			return err
		}
	}

	if opts.interactive {
		if _, err := tea.NewProgram(newIssueBrowser(issues), tea.WithContext(ctx)).Run(); err != nil {
			return err
		}
	} else if !opts.print {
		printSummary(out, p, issues)
	}

	if threshold > 0 {
		if n := countAtLeast(issues, threshold); n > 0 {
			return fmt.Errorf("%d issues at or above %s", n, threshold)
		}
	}
	return nil
}

// writeReport writes the dependency tree of every module, then the
// section of every rule result.
func writeReport(w io.Writer, poms []*pom.Pom, results []*rules.Result) error {
	for _, p := range poms {
		if err := p.PrintTree(w); err != nil {
			return err
		}
	}
	for _, r := range results {
		if err := r.Print(w); err != nil {
			return err
		}
	}
	return nil
}

func writeReportFile(path string, poms []*pom.Pom, results []*rules.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeReport(f, poms, results); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// printSummary prints the issue table and the count per severity.
func printSummary(w io.Writer, p *project, issues []rules.Issue) {
	fmt.Fprintln(w, StyleTitle.Render("depexplorer")+" "+StyleDim.Render(p.dir))
	printKeyValue(w, "Run", p.runID)
	printKeyValue(w, "Modules", strconv.Itoa(len(p.poms)))
	fmt.Fprintln(w)

	if len(issues) == 0 {
		printSuccess(w, "No issues found")
		return
	}
	fmt.Fprintln(w, issueTable(issues))
	fmt.Fprintln(w)

	counts := make(map[rules.Severity]int)
	for _, i := range issues {
		counts[i.Severity]++
	}
	var parts []string
	for s := rules.SeverityBlocker; s >= rules.SeverityInfo; s-- {
		if n := counts[s]; n > 0 {
			parts = append(parts, severityStyle(s).Render(fmt.Sprintf("%d %s", n, s)))
		}
	}
	printWarning(w, "%d issues", len(issues))
	printDetail(w, "%s", strings.Join(parts, " · "))
}

// issueTable renders issues as a table.
func issueTable(issues []rules.Issue) string {
	rows := make([][]string, 0, len(issues))
	for _, i := range issues {
		rows = append(rows, []string{i.Severity.String(), i.Module, i.GA, location(i), i.Description})
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Severity", "Module", "Artifact", "Line", "Issue").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if col == 0 && row >= 0 && row < len(issues) {
				return severityStyle(issues[row].Severity)
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

func location(i rules.Issue) string {
	if i.Location == nil {
		return ""
	}
	return strconv.Itoa(i.Location.Range.LineStart)
}

func countAtLeast(issues []rules.Issue, s rules.Severity) int {
	n := 0
	for _, i := range issues {
		if i.Severity >= s {
			n++
		}
	}
	return n
}
