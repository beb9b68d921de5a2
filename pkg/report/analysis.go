package report

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/matzehuels/depexplorer/pkg/config"
	"github.com/matzehuels/depexplorer/pkg/pom"
)

// AnalysisPath is where the saved "mvn dependency:analyze" output is
// expected.
const AnalysisPath = "target/dependency-analysis.txt"

var analysisSections = map[string]func(*pom.Pom, *pom.Artifact){
	"Used declared dependencies found:":   (*pom.Pom).AddEffectiveDependency,
	"Used undeclared dependencies found:": (*pom.Pom).AddUndeclaredDependency,
	"Unused declared dependencies found:": (*pom.Pom).AddUnusedDependency,
}

var logLevels = []string{"[INFO]", "[WARNING]", "[WARN]", "[ERROR]", "[DEBUG]"}

// Analysis reads the console output of "mvn dependency:analyze", with or
// without log level prefixes:
//
//	[WARNING] Used undeclared dependencies found:
//	[WARNING]    org.slf4j:slf4j-api:jar:1.7.26:compile
//	[WARNING] Unused declared dependencies found:
//	[WARNING]    junit:junit:jar:4.11:test
//
// Used declared dependencies are listed only with -Dverbose.
type Analysis struct{}

func (Analysis) Name() string { return "analyze" }
func (Analysis) Path() string { return AnalysisPath }

func (Analysis) Consume(ctx context.Context, r io.Reader, p *pom.Pom, _ config.Exploration) (bool, error) {
	var (
		found bool
		add   func(*pom.Pom, *pom.Artifact)
	)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return found, err
		}
		line := stripLevel(sc.Text())
		text := strings.TrimSpace(line)
		if fn, ok := analysisSections[text]; ok {
			add = fn
			continue
		}
		if add == nil {
			continue
		}
		// Entries are indented below their header.
		if text == "" || len(line) == len(strings.TrimLeft(line, " \t")) {
			add = nil
			continue
		}
		a, ok := parseCoordinates(text)
		if !ok {
			add = nil
			continue
		}
		add(p, a)
		found = true
	}
	return found, sc.Err()
}

func stripLevel(line string) string {
	for _, l := range logLevels {
		if rest, ok := strings.CutPrefix(line, l); ok {
			return strings.TrimPrefix(rest, " ")
		}
	}
	return line
}
