// Package pkg holds the libraries behind the depexplorer command.
//
// # Overview
//
// depexplorer reads the POMs of a Maven reactor, completes each module with
// the reports the build left in its target directory, then evaluates rules
// on the result. The packages are organized by stage:
//
//	pom.xml, target/*.txt, target/*.xml
//	         ↓
//	    [xmlpath], [maven], [report] (parse and complete)
//	         ↓
//	    [pom] (modules and dependency trees)
//	         ↓
//	    [rules] with [license] and [version] (raise issues)
//	         ↓
//	    text report, issue table, [render/nodelink] graphs
//
// # Quick Start
//
//	cfg := config.Default()
//	exploration, _ := cfg.Exploration()
//	model, _ := cfg.LicenseModel(nil)
//
//	poms, err := maven.NewLoader(maven.Options{
//	    Exploration: exploration,
//	    Licenses:    model,
//	}).Crawl(ctx, "path/to/project")
//	if err != nil {
//	    return err
//	}
//	results := rules.NewProject(cfg.RuleSettings(), model, nil).Run(ctx, poms...)
//	for _, issue := range rules.Issues(results) {
//	    fmt.Println(issue.Severity, issue.GA, issue.Description)
//	}
//
// # Packages
//
// [xmlpath] flattens XML into records keyed by slash paths, with the exact
// source range of every value.
//
// [version] parses, orders and diffs Maven version strings.
//
// [license] maps free-text license names to identities and families, and
// decides whether a family may integrate another.
//
// [maven] and [report] build the [pom] model; [integrations/maven] reads
// versions and licenses from a remote repository through the shared
// [integrations] client and the [httputil] cache.
//
// [config], [filter], [errors] and [observability] are shared by all of
// the above.
//
// [xmlpath]: https://pkg.go.dev/github.com/matzehuels/depexplorer/pkg/xmlpath
// [version]: https://pkg.go.dev/github.com/matzehuels/depexplorer/pkg/version
// [license]: https://pkg.go.dev/github.com/matzehuels/depexplorer/pkg/license
// [maven]: https://pkg.go.dev/github.com/matzehuels/depexplorer/pkg/maven
// [report]: https://pkg.go.dev/github.com/matzehuels/depexplorer/pkg/report
// [pom]: https://pkg.go.dev/github.com/matzehuels/depexplorer/pkg/pom
// [rules]: https://pkg.go.dev/github.com/matzehuels/depexplorer/pkg/rules
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/depexplorer/pkg/render/nodelink
// [integrations]: https://pkg.go.dev/github.com/matzehuels/depexplorer/pkg/integrations
// [integrations/maven]: https://pkg.go.dev/github.com/matzehuels/depexplorer/pkg/integrations/maven
// [httputil]: https://pkg.go.dev/github.com/matzehuels/depexplorer/pkg/httputil
// [config]: https://pkg.go.dev/github.com/matzehuels/depexplorer/pkg/config
// [filter]: https://pkg.go.dev/github.com/matzehuels/depexplorer/pkg/filter
// [errors]: https://pkg.go.dev/github.com/matzehuels/depexplorer/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/depexplorer/pkg/observability
package pkg
