// Package cli implements the depexplorer command-line interface.
//
// Commands:
//   - analyze: run the dependency rules on a Maven project
//   - tree: print or export the dependency tree of each module
//   - licenses: list the licenses of the dependencies
//   - cache: manage the remote metadata cache
//   - completion: generate shell completion scripts
//
// Every command reads the project in the given directory (default ".")
// with the configuration found there, or the one named by --config.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/depexplorer/pkg/buildinfo"
)

const appName = "depexplorer"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	noCache    bool
	refresh    bool
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level the library
// hooks report to the logger as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		installHooks(c.Logger)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "depexplorer analyzes the dependencies of Maven projects",
		Long:         `depexplorer reads the POMs of a Maven reactor and the reports the build left in each module's target directory, then flags incoherent versions, incompatible licenses, outdated, unused and undeclared dependencies.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", "", "configuration file (default: depexplorer.toml in the project)")
	flags.BoolVar(&c.noCache, "no-cache", false, "do not cache remote repository responses")
	flags.BoolVar(&c.refresh, "refresh", false, "ignore cached remote repository responses")

	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.licensesCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// projectDir returns the directory argument, "." when absent.
func projectDir(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return "."
}
