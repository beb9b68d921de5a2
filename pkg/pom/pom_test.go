package pom

import (
	"strings"
	"testing"

	"github.com/matzehuels/depexplorer/pkg/license"
	"github.com/matzehuels/depexplorer/pkg/xmlpath"
)

func node(p *Pom, g, a, v string) *Dependency {
	return NewDependency(p, NewArtifact(g, a, v))
}

func TestAddDependencyKeepsGreatest(t *testing.T) {
	p := New("pom.xml", nil, TypeMain)
	root := p.Root()

	steps := []struct {
		version string
		want    bool
	}{
		{"1.0", true},
		{"0.9", false},
		{"1.0", false},
		{"2.0", true},
		{"1.5", false},
	}
	for _, s := range steps {
		if got := root.AddDependency(node(p, "g", "a", s.version)); got != s.want {
			t.Errorf("AddDependency(g:a:%s) = %v, want %v", s.version, got, s.want)
		}
	}
	if n := len(root.Children()); n != 1 {
		t.Fatalf("got %d children, want 1", n)
	}
	child := root.Children()[0]
	if child.Version != "2.0" {
		t.Errorf("kept version %s, want 2.0", child.Version)
	}
	if child.Parent() != root {
		t.Error("child not linked to its parent")
	}
}

func TestAddDependencyOrder(t *testing.T) {
	p := New("pom.xml", nil, TypeMain)
	root := p.Root()
	for _, ga := range []string{"org.z:z", "com.b:b", "com.a:z", "com.a:a"} {
		g, a, _ := strings.Cut(ga, ":")
		root.AddDependency(node(p, g, a, "1"))
	}
	var got []string
	for _, c := range root.Children() {
		got = append(got, c.GA())
	}
	if want := "com.a:a com.a:z com.b:b org.z:z"; strings.Join(got, " ") != want {
		t.Errorf("children = %v, want %s", got, want)
	}
	if root.AddDependency(nil) {
		t.Error("AddDependency(nil) = true")
	}
}

func TestEffectiveVersion(t *testing.T) {
	parent := New("parent/pom.xml", nil, TypeParent)
	parent.AddPropertyLocation("b.version", FiledRange{File: "parent/pom.xml", Text: "2.0.0"})
	child := New("pom.xml", parent, TypeModule)

	tests := []struct {
		name string
		d    *Dependency
		want string
	}{
		{"plain", node(child, "g", "b", "1.0"), "1.0"},
		{"inherited property", node(child, "g", "b", "${b.version}"), "2.0.0"},
		{"unknown property", node(child, "g", "b", "${nope}"), ""},
		{"no parent", node(New("x.xml", nil, TypeMain), "g", "b", "${b.version}"), ""},
		{"explicit", &Dependency{Artifact: Artifact{Version: "${b.version}", EffectiveVersion: "3"}, pom: child}, "3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.d.Effective(); got != tt.want {
				t.Errorf("Effective() = %q, want %q", got, tt.want)
			}
		})
	}

	d := node(child, "g", "b", "${b.version}")
	if got := d.Property(); got != "${b.version}" {
		t.Errorf("Property() = %q", got)
	}
	if got := d.ResolvedVersion(); got != "2.0.0" {
		t.Errorf("ResolvedVersion() = %q", got)
	}
}

func TestResolveProjectVersion(t *testing.T) {
	p := New("pom.xml", nil, TypeMain)
	p.Fill(NewArtifact("g", "app", "1.2.3"))
	if got := p.ResolveProperty("${project.version}"); got != "1.2.3" {
		t.Errorf("ResolveProperty() = %q", got)
	}
}

func TestPomAddDependency(t *testing.T) {
	p := New("pom.xml", nil, TypeMain)

	managed := p.AddDependency(NewArtifact("g", "a", "${a.version}"), []string{"1.1"}, SourceDependencyManagement)
	direct := p.AddDependency(NewArtifact("g", "a", ""), []string{"1.2", "1.1"}, SourceDependency)
	if managed != direct {
		t.Fatal("declarations of g:a were not merged")
	}
	if got := len(direct.Versions()); got != 2 {
		t.Errorf("got %d candidate versions, want 2", got)
	}
	p.AddDependency(NewArtifact("g", "a", "${other}"), nil, SourceDependency)
	if direct.PropertyName != "${a.version}" {
		t.Errorf("PropertyName = %q, want first declaration", direct.PropertyName)
	}
	if direct.Source() != SourceDependencyManagement {
		t.Errorf("Source() = %s", direct.Source())
	}

	plugin := p.AddDependency(NewArtifact("org.apache.maven.plugins", "maven-jar-plugin", "3.0"), nil, SourcePlugin)
	if _, ok := p.Dependencies()[plugin.GA()]; ok {
		t.Error("plugin recorded in the dependency table")
	}
	if len(p.Plugins()) != 1 || len(p.Dependencies()) != 1 {
		t.Errorf("tables: %d plugins, %d dependencies", len(p.Plugins()), len(p.Dependencies()))
	}
}

func TestPomAddDependencyReusesAncestor(t *testing.T) {
	parent := New("parent.xml", nil, TypeParent)
	inherited := parent.DeclareDependency(NewArtifact("g", "x", "1.0"), true)

	child := New("pom.xml", parent, TypeModule)
	got := child.DeclareDependency(NewArtifact("g", "x", ""), false)
	if got != inherited {
		t.Fatal("unmanaged declaration did not reuse the managed node of the parent")
	}
	if child.Dependencies()["g:x"] != inherited {
		t.Error("reused node not recorded in the child table")
	}

	// Management blocks never inherit.
	own := child.DeclareDependency(NewArtifact("g", "y", "2.0"), true)
	if own.Pom() != child {
		t.Error("managed declaration not owned by the child")
	}
}

func TestPomOwn(t *testing.T) {
	parent := New("parent.xml", nil, TypeMain)
	shared := parent.DeclareDependency(NewArtifact("g", "lib", "1.0"), false)
	shared.EffectiveVersion = "1.0"
	shared.AddVersion("1.1")
	parent.Root().AddDependency(shared)
	parent.UpdateRoot()

	child := New("mod/pom.xml", parent, TypeModule)
	def := child.DeclareDependency(NewArtifact("g", "lib", "2.0"), false)
	if def != shared {
		t.Fatal("declaration did not reuse the node of the parent")
	}

	own := child.Own(def)
	if own == shared || own.Pom() != child {
		t.Fatal("Own() returned a node of the parent")
	}
	if child.Dependencies()["g:lib"] != own {
		t.Error("copy not recorded in the child table")
	}
	if child.Own(own) != own {
		t.Error("Own() copied a node the child already owns")
	}

	own.EffectiveVersion = "2.0"
	child.Root().AddDependency(own)
	if shared.Effective() != "1.0" || shared.Parent() != parent.Root() {
		t.Errorf("parent node changed: effective %s, parent %v", shared.Effective(), shared.Parent())
	}
	if len(own.Versions()) != 1 || own.Versions()[0].String() != "1.1.0" {
		t.Errorf("copy versions = %v", own.Versions())
	}
	if child.Own(nil) != nil {
		t.Error("Own(nil) != nil")
	}
}

func TestAddPlugin(t *testing.T) {
	p := New("pom.xml", nil, TypeMain)
	first := p.AddPlugin(NewArtifact("org.apache.maven.plugins", "maven-jar-plugin", "3.0"), true)
	p.AddPlugin(NewArtifact("org.apache.maven.plugins", "maven-jar-plugin", "3.1"), false)
	if got := p.Plugins()["org.apache.maven.plugins:maven-jar-plugin"]; got != first {
		t.Errorf("plugin table holds %v, want first declaration", got)
	}
	if first.Source() != SourcePluginManagement {
		t.Errorf("Source() = %s", first.Source())
	}
}

func TestAnyDependency(t *testing.T) {
	parent := New("parent.xml", nil, TypeParent)
	parent.Fill(NewArtifact("g", "parent", "1"))
	parentDef := parent.DeclareDependency(NewArtifact("g", "lib", "1.0"), true)

	child := New("pom.xml", parent, TypeModule)
	child.Fill(NewArtifact("", "child", ""))
	unversioned := child.DeclareDependency(NewArtifact("g", "own", ""), true)
	child.dependencies["g:lib"] = node(child, "g", "lib", "")
	plugin := child.AddPlugin(NewArtifact("g", "plug", "1"), false)

	tests := []struct {
		ga   string
		want *Dependency
	}{
		{"g:child", child.Root()},
		{"g:parent", parent.Root()},
		{"g:lib", parentDef},
		{"g:own", unversioned},
		{"g:plug", plugin},
		{"g:none", nil},
	}
	for _, tt := range tests {
		t.Run(tt.ga, func(t *testing.T) {
			if got := child.AnyDependency(tt.ga); got != tt.want {
				t.Errorf("AnyDependency() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFillInheritsFromParent(t *testing.T) {
	parent := New("parent.xml", nil, TypeParent)
	parent.Fill(NewArtifact("com.example", "parent", "2.0"))

	child := New("pom.xml", parent, TypeModule)
	child.Fill(NewArtifact("", "child", ""))
	if child.Name() != "child" {
		t.Errorf("Name() = %q", child.Name())
	}
	if got := child.Root().GAV(); got != "com.example:child:2.0" {
		t.Errorf("root = %s", got)
	}

	own := New("pom.xml", parent, TypeModule)
	own.AddPropertyLocation("revision", FiledRange{Text: "3.1"})
	own.Fill(NewArtifact("org.other", "own", "${revision}"))
	if got := own.Root().GAV(); got != "org.other:own:3.1" {
		t.Errorf("root = %s", got)
	}
}

func TestUpdateRoot(t *testing.T) {
	mit := license.DefinitionOf([]license.Identity{{Name: "MIT", Family: "MIT-like"}})
	parent := New("parent.xml", nil, TypeParent)
	parent.Fill(NewArtifact("g", "parent", "1"))
	parent.Root().SetLicenses(mit)

	p := New("pom.xml", parent, TypeModule)
	p.Fill(NewArtifact("g", "app", "1"))
	a1 := node(p, "g", "a", "1")
	b := node(p, "g", "b", "1")
	a2 := node(p, "g", "a", "2")
	p.Root().AddDependency(a1)
	p.Root().AddDependency(b)
	b.AddDependency(a2)

	if len(p.Duplicates()) != 0 {
		t.Error("duplicates indexed before UpdateRoot")
	}
	p.UpdateRoot()

	if !p.Root().Licenses().Equal(mit) {
		t.Errorf("root licenses = %v, want inherited MIT", p.Root().Licenses())
	}
	dups := p.Duplicates()["g:a"]
	if len(dups) != 2 || dups[0] != a1 || dups[1] != a2 {
		t.Errorf("Duplicates()[g:a] = %v, want [a1 a2]", dups)
	}
	if len(p.Duplicates()["g:app"]) != 1 {
		t.Error("root missing from the index")
	}

	replacement := node(p, "g", "app", "1")
	p.ReplaceRoot(replacement)
	if p.Root() != replacement || len(p.Duplicates()["g:a"]) != 0 {
		t.Error("ReplaceRoot did not rebuild the index")
	}
}

func TestSetLicensesKeepsKnown(t *testing.T) {
	d := node(nil, "g", "a", "1")
	mit := license.DefinitionOf([]license.Identity{{Name: "MIT"}})
	d.SetLicenses(license.NewDefinition("", nil))
	d.SetLicenses(mit)
	d.SetLicenses(license.DefinitionOf([]license.Identity{{Name: "BSD"}}))
	if d.Licenses() != mit {
		t.Errorf("Licenses() = %v, want MIT", d.Licenses())
	}
}

func TestTextRange(t *testing.T) {
	propRange := xmlpath.Range{LineStart: 5, ColStart: 20, LineStop: 5, ColStop: 25}
	verRange := xmlpath.Range{LineStart: 12, ColStart: 22, LineStop: 12, ColStop: 27}

	parent := New("parent.xml", nil, TypeParent)
	parent.AddPropertyLocation("${lib.version}", FiledRange{File: "parent.xml", Text: "1.0"})

	p := New("pom.xml", parent, TypeModule)
	p.AddPropertyLocation("a.version", FiledRange{File: "pom.xml", Range: propRange, Text: "1.0"})

	a := NewArtifact("g", "a", "${a.version}")
	p.DeclareDependency(a, false)

	b := NewArtifact("g", "b", "2.0")
	b.Range = &FiledRange{File: "pom.xml", Range: verRange, Text: "2.0"}
	p.DeclareDependency(b, false)

	lib := NewArtifact("g", "lib", "${lib.version}")
	lib.Range = &FiledRange{File: "pom.xml", Range: verRange}
	p.DeclareDependency(lib, false)

	other := NewArtifact("g", "other", "3.0")
	other.Range = &FiledRange{File: "parent.xml", Range: verRange}
	parent.DeclareDependency(other, true)

	tests := []struct {
		artifact string
		want     xmlpath.Range
		ok       bool
	}{
		{"a", propRange, true},
		{"b", verRange, true},
		{"lib", verRange, true},
		{"other", xmlpath.Range{}, false},
		{"missing", xmlpath.Range{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.artifact, func(t *testing.T) {
			got, ok := p.TextRange("g", tt.artifact)
			if ok != tt.ok || got.Range != tt.want {
				t.Errorf("TextRange() = %v, %v, want %v, %v", got.Range, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestVersionIncompatibilities(t *testing.T) {
	p := New("pom.xml", nil, TypeMain)
	p.AddVersionIncompatibility(&Artifact{GroupID: "g", ArtifactID: "z", Version: "1"}, []string{"1", "2"})
	p.AddVersionIncompatibility(&Artifact{GroupID: "g", ArtifactID: "a", Version: "1"}, []string{"1", "3"})
	p.AddVersionIncompatibility(&Artifact{GroupID: "g", ArtifactID: "a", Version: "1"}, []string{"1", "4"})

	got := p.VersionIncompatibilities()
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	if got[0].Artifact.ArtifactID != "a" || got[0].Versions[1] != "4" {
		t.Errorf("first entry = %+v", got[0])
	}
}

func TestScopeLists(t *testing.T) {
	p := New("pom.xml", nil, TypeMain)
	p.AddEffectiveDependency(&Artifact{GroupID: "g", ArtifactID: "a"})
	p.AddEffectiveDependency(&Artifact{GroupID: "g", ArtifactID: "b", Scope: "test"})
	p.AddUnusedDependency(&Artifact{GroupID: "g", ArtifactID: "c", Scope: "runtime"})
	p.AddUndeclaredDependency(&Artifact{GroupID: "g", ArtifactID: "d", Scope: "provided"})

	if n := len(p.EffectiveDependencies()[ScopeCompile]); n != 1 {
		t.Errorf("compile = %d", n)
	}
	if n := len(p.EffectiveDependencies()[ScopeTest]); n != 1 {
		t.Errorf("test = %d", n)
	}
	if n := len(p.UnusedDependencies()[ScopeRuntime]); n != 1 {
		t.Errorf("unused runtime = %d", n)
	}
	if n := len(p.UndeclaredDependencies()[ScopeProvided]); n != 1 {
		t.Errorf("undeclared provided = %d", n)
	}
}

func TestPrintTree(t *testing.T) {
	p := New("pom.xml", nil, TypeMain)
	p.Fill(NewArtifact("com.example", "app", "1.0.0"))
	junit := node(p, "junit", "junit", "4.11")
	junit.AddDependency(node(p, "org.hamcrest", "hamcrest-core", "1.3"))
	p.Root().AddDependency(node(p, "org.slf4j", "slf4j-api", "1.7.26"))
	p.Root().AddDependency(junit)

	var b strings.Builder
	if err := p.PrintTree(&b); err != nil {
		t.Fatalf("PrintTree() error = %v", err)
	}
	want := Rule + "\n DEPENDENCY TREE\n" + Rule + "\n" +
		"com.example:app:1.0.0\n" +
		"+- junit:junit:4.11\n" +
		"|  \\- org.hamcrest:hamcrest-core:1.3\n" +
		"\\- org.slf4j:slf4j-api:1.7.26\n\n"
	if got := b.String(); got != want {
		t.Errorf("PrintTree() =\n%s\nwant\n%s", got, want)
	}
}

func TestPrintTreeNested(t *testing.T) {
	p := New("pom.xml", nil, TypeMain)
	p.Fill(NewArtifact("g", "root", "1"))
	a := node(p, "g", "a", "1")
	b := node(p, "g", "b", "1")
	a.AddDependency(node(p, "g", "a1", "1"))
	b.AddDependency(node(p, "g", "b1", "1"))
	b.AddDependency(node(p, "g", "b2", "1"))
	p.Root().AddDependency(a)
	p.Root().AddDependency(b)

	var sb strings.Builder
	if err := p.PrintTree(&sb); err != nil {
		t.Fatal(err)
	}
	got := strings.TrimPrefix(sb.String(), Rule+"\n DEPENDENCY TREE\n"+Rule+"\n")
	want := `g:root:1
+- g:a:1
|  \- g:a1:1
\- g:b:1
   +- g:b1:1
   \- g:b2:1

`
	if got != want {
		t.Errorf("PrintTree() =\n%q\nwant\n%q", got, want)
	}
}

func TestDependencyString(t *testing.T) {
	d := node(nil, "org.slf4j", "slf4j-api", "1.7.26")
	if got := d.String(); got != "org.slf4j:slf4j-api:1.7.26 (DEPENDENCY)" {
		t.Errorf("String() = %q", got)
	}

	d.AddVersion("2.0.0")
	d.AddVersion("1.7.30")
	d.AddVersion("2.0.0")
	d.SetLicenses(license.DefinitionOf([]license.Identity{{Name: "MIT", Family: "permissive"}}))
	want := "org.slf4j:slf4j-api:1.7.26 (DEPENDENCY) -> [1.7.30, 2.0.0] [License {name=MIT, family=permissive}]"
	if got := d.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	d.SetSource(SourcePlugin)
	if !strings.Contains(d.String(), "(PLUGIN)") {
		t.Errorf("String() = %q", d.String())
	}
}

func TestUpdateVersions(t *testing.T) {
	d := node(nil, "g", "a", "1.2.0")
	if _, ok := d.NextVersion(); ok {
		t.Error("NextVersion() ok without candidates")
	}
	for _, v := range []string{"1.3.0", "1.0.0", "1.2.0", "2.0.0", "1.2.1"} {
		d.AddVersion(v)
	}
	updates := d.UpdatesVersions()
	if len(updates) != 4 {
		t.Fatalf("UpdatesVersions() = %v", updates)
	}
	next, _ := d.NextVersion()
	last, _ := d.LastVersion()
	if next.String() != "1.2.0" || last.String() != "2.0.0" {
		t.Errorf("next = %s, last = %s", next, last)
	}
}

func TestArtifact(t *testing.T) {
	a := &Artifact{GroupID: "junit", ArtifactID: "junit", Version: "4.11", Type: "jar", Scope: "test"}
	if got := a.GAV(); got != "junit:junit:jar:4.11" {
		t.Errorf("GAV() = %q", got)
	}
	if got := a.Key(); got != "junit:junit:4.11" {
		t.Errorf("Key() = %q", got)
	}
	a.Range = &FiledRange{Range: xmlpath.Range{LineStart: 17, ColStart: 16, LineStop: 17, ColStop: 20}}
	if got := a.String(); got != "junit:junit:jar:4.11 (17:16 - 17:20) test" {
		t.Errorf("String() = %q", got)
	}
	a.SetPropertyName("")
	a.SetPropertyName("${junit.version}")
	a.SetPropertyName("")
	if a.PropertyName != "${junit.version}" {
		t.Errorf("PropertyName = %q", a.PropertyName)
	}
}

func TestParseScope(t *testing.T) {
	tests := map[string]Scope{
		"":         ScopeCompile,
		"compile":  ScopeCompile,
		"TEST":     ScopeTest,
		"provided": ScopeProvided,
		"runtime":  ScopeRuntime,
		"system":   ScopeSystem,
		"import":   ScopeImport,
		"bogus":    ScopeCompile,
	}
	for in, want := range tests {
		if got := ParseScope(in); got != want {
			t.Errorf("ParseScope(%q) = %s, want %s", in, got, want)
		}
	}
}
