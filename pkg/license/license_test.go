package license

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

const mitBSD = `<licenses>
  <licenseFamilies>
    <licenseFamily>
      <name>MIT-like</name>
      <integration><include><code>MIT-like</code></include></integration>
      <parameter><copyleft>false</copyleft></parameter>
    </licenseFamily>
    <licenseFamily>
      <name>BSD-like</name>
      <integration>
        <include>
          <code>MIT-like</code>
          <code>BSD-like</code>
          <code>Public-domain</code>
        </include>
      </integration>
      <parameter><copyleft>false</copyleft></parameter>
    </licenseFamily>
  </licenseFamilies>
  <licenseIdentities>
    <licenseIdentity><name>BSD</name><family>BSD-like</family></licenseIdentity>
    <licenseIdentity><name>BSD-3-Clause</name><family>BSD-like</family></licenseIdentity>
    <licenseIdentity><name>MIT</name><family>MIT-like</family></licenseIdentity>
  </licenseIdentities>
</licenses>`

func loadMITBSD(t *testing.T) *Model {
	t.Helper()
	m := NewModel()
	if err := LoadXML(m, strings.NewReader(mitBSD)); err != nil {
		t.Fatalf("LoadXML() error = %v", err)
	}
	return m
}

func TestCompatibility(t *testing.T) {
	m := loadMITBSD(t)

	c := m.Compatibility(
		DefinitionOf(m.Lookup("MIT")),
		map[string]*Definition{"g:a:v": DefinitionOf(m.Lookup("bsd-3-clause"))},
		"artifact name")
	if !c.Problematic() {
		t.Fatal("MIT project with BSD dependency should be problematic")
	}
	want := "Dependency artifact name is not compatible with project license (MIT) :\n  - g:a:v : BSD-3-Clause (BSD-like)\n"
	if got := c.Description(); got != want {
		t.Errorf("Description() = %q, want %q", got, want)
	}

	c = m.Compatibility(
		DefinitionOf(m.Lookup("bsd-3-clause")),
		map[string]*Definition{"g:a:v": DefinitionOf(m.Lookup("MIT"))},
		"artifact name")
	if c.Problematic() {
		t.Fatal("BSD project with MIT dependency should be compatible")
	}
	if got := c.Description(); got != "Dependency artifact name is compatible license wise." {
		t.Errorf("Description() = %q", got)
	}
}

func TestReduce(t *testing.T) {
	m := loadMITBSD(t)
	ids := append(m.Lookup("MIT"), m.Lookup("bsd")...)
	def := DefinitionOf(ids)

	if got := m.Matrix.Reduce(def.Composition, m.Matrix.LeastRestrictive); got.Name != "BSD-like" {
		t.Errorf("least restrictive = %s, want BSD-like", got)
	}
	if got := m.Matrix.Reduce(def.Composition, m.Matrix.MostRestrictive); got.Name != "MIT-like" {
		t.Errorf("most restrictive = %s, want MIT-like", got)
	}
	if got := m.Matrix.Reduce([]Identity{{Name: "x"}}, m.Matrix.MostRestrictive); got != nil {
		t.Errorf("identities without family reduced to %s", got)
	}
}

func TestRestrictiveness(t *testing.T) {
	mx := NewMatrix()
	a := NewFamily("a")
	b := NewFamily("b")
	b.Include = []string{"a"}
	c := NewFamily("c")
	c.Include = []string{"a"}
	c.Copyleft = true
	d := NewFamily("d")
	d.Include = []string{"a"}
	d.Parameters["truc"] = "machin"
	for _, f := range []*Family{a, b, c, d} {
		mx.Add(f)
	}

	tests := []struct {
		name string
		fn   Restriction
		x, y *Family
		want *Family
	}{
		{"least a,nil", mx.LeastRestrictive, a, nil, a},
		{"least nil,b", mx.LeastRestrictive, nil, b, b},
		{"least a,b", mx.LeastRestrictive, a, b, b},
		{"least b,a", mx.LeastRestrictive, b, a, b},
		{"least b,c", mx.LeastRestrictive, b, c, b},
		{"least c,b", mx.LeastRestrictive, c, b, b},
		{"least b,d", mx.LeastRestrictive, b, d, b},
		{"least d,b", mx.LeastRestrictive, d, b, b},
		{"most a,nil", mx.MostRestrictive, a, nil, a},
		{"most nil,b", mx.MostRestrictive, nil, b, b},
		{"most a,b", mx.MostRestrictive, a, b, a},
		{"most b,a", mx.MostRestrictive, b, a, a},
		{"most b,c", mx.MostRestrictive, b, c, c},
		{"most c,b", mx.MostRestrictive, c, b, c},
		{"most b,d", mx.MostRestrictive, b, d, d},
		{"most d,b", mx.MostRestrictive, d, b, d},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.x, tt.y); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsCompatible(t *testing.T) {
	mx := NewMatrix()
	permissive := NewFamily("permissive")
	weak := NewFamily("weak")
	weak.Include = []string{"permissive"}
	strong := NewFamily("strong")
	strong.Include = []string{"weak"}
	strong.Exclude = []string{"vetoed"}
	vetoed := NewFamily("vetoed")
	for _, f := range []*Family{permissive, weak, strong, vetoed} {
		mx.Add(f)
	}

	tests := []struct {
		project, dep *Family
		want         bool
	}{
		{weak, weak, true},
		{weak, permissive, true},
		{permissive, weak, false},
		{strong, permissive, true},
		{strong, vetoed, false},
		{permissive, nil, false},
	}
	for _, tt := range tests {
		name := tt.project.Name + "->"
		if tt.dep != nil {
			name += tt.dep.Name
		}
		t.Run(name, func(t *testing.T) {
			if got := mx.IsCompatible(tt.project, tt.dep); got != tt.want {
				t.Errorf("IsCompatible() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsCompatibleCycle(t *testing.T) {
	mx := NewMatrix()
	a := NewFamily("a")
	a.Include = []string{"b"}
	b := NewFamily("b")
	b.Include = []string{"a", "c"}
	c := NewFamily("c")
	c.Include = []string{"b"}
	other := NewFamily("other")
	for _, f := range []*Family{a, b, c, other} {
		mx.Add(f)
	}

	all := []*Family{a, b, c, other}
	for _, x := range all {
		for _, y := range all {
			got := mx.IsCompatible(x, y)
			want := x == y || (x != other && y != other)
			if got != want {
				t.Errorf("IsCompatible(%s, %s) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestLoadXMLParameters(t *testing.T) {
	doc := `<licenses><licenseFamilies><licenseFamily>
  <name>Test</name>
  <integration><include><code>gpl</code></include></integration>
  <parameter><copyleft>TRUE</copyleft><by>true</by></parameter>
</licenseFamily></licenseFamilies></licenses>`

	m := NewModel()
	if err := LoadXML(m, strings.NewReader(doc)); err != nil {
		t.Fatalf("LoadXML() error = %v", err)
	}
	fams := m.Matrix.Families()
	if len(fams) != 1 {
		t.Fatalf("got %d families, want 1", len(fams))
	}
	f := fams[0]
	if f.Name != "Test" || !f.Copyleft {
		t.Errorf("family = %+v", f)
	}
	if len(f.Parameters) != 1 || f.Parameters["by"] != "true" {
		t.Errorf("Parameters = %v", f.Parameters)
	}
	if len(f.Include) != 1 || f.Include[0] != "gpl" || len(f.Exclude) != 0 {
		t.Errorf("Include = %v, Exclude = %v", f.Include, f.Exclude)
	}
}

func TestLoadXMLMalformed(t *testing.T) {
	err := LoadXML(NewModel(), strings.NewReader("<licenses><licenseFamilies></licenses>"))
	if err == nil {
		t.Fatal("LoadXML() error = nil, want error")
	}
}

func TestLoadYAML(t *testing.T) {
	doc := `
families:
  - name: MIT-like
  - name: GPL-like
    copyleft: true
    include: [MIT-like]
    parameters:
      linking: any
identities:
  - name: MIT
    family: MIT-like
    matches: ["The MIT License"]
  - name: GPL-3.0
    family: GPL-like
`
	m := NewModel()
	if err := LoadYAML(m, strings.NewReader(doc)); err != nil {
		t.Fatalf("LoadYAML() error = %v", err)
	}
	gpl := m.Family("GPL-like")
	if gpl == nil || !gpl.Copyleft || gpl.Parameters["linking"] != "any" {
		t.Fatalf("GPL-like = %+v", gpl)
	}
	ids := m.Lookup("the mit license")
	if len(ids) != 1 || ids[0].Name != "MIT" {
		t.Errorf("Lookup() = %v", ids)
	}
	if !m.Matrix.IsCompatible(gpl, m.Family("MIT-like")) {
		t.Error("GPL-like should integrate MIT-like")
	}

	if err := LoadYAML(NewModel(), strings.NewReader("families:\n  - nme: x\n")); err == nil {
		t.Error("unknown field accepted")
	}
}

func TestDictionaryFuzzy(t *testing.T) {
	m, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}

	tests := []struct {
		query string
		want  string
	}{
		{"MIT", "MIT"},
		{"the apache software license, version 2.0", "Apache-2.0"},
		{"Apache Software License - Version 2.0", "Apache-2.0"},
		{"GNU General Public License v3", "GPL-3.0"},
		{"Proprietary", ""},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			ids := m.Lookup(tt.query)
			if tt.want == "" {
				if ids != nil {
					t.Errorf("Lookup() = %v, want nil", ids)
				}
				return
			}
			if len(ids) == 0 || ids[0].Name != tt.want {
				t.Errorf("Lookup() = %v, want %s", ids, tt.want)
			}
		})
	}

	if ids := m.Dictionary.labels["gnu general public license v3"]; len(ids) != 1 || ids[0].Name != "GPL-3.0" {
		t.Errorf("fuzzy match not remembered: %v", ids)
	}
}

func TestDefaultValidates(t *testing.T) {
	m, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	var buf bytes.Buffer
	if n := m.Validate(log.New(&buf)); n != 0 {
		t.Errorf("Validate() = %d warnings:\n%s", n, buf.String())
	}

	gpl := m.Family("GPL2-like")
	if m.Matrix.IsCompatible(gpl, m.Family("Apache-like")) {
		t.Error("GPL2-like must exclude Apache-like")
	}
	if !m.Matrix.IsCompatible(gpl, m.Family("MIT-like")) {
		t.Error("GPL2-like should integrate MIT-like")
	}
}

func TestValidateWarnings(t *testing.T) {
	m := NewModel()
	f := NewFamily("a")
	f.Include = []string{"ghost"}
	f.Exclude = []string{"phantom"}
	m.AddFamily(f)
	m.AddIdentity("x", Identity{Name: "x"})
	m.AddIdentity("y", Identity{Name: "y", Family: "a"})

	var buf bytes.Buffer
	if n := m.Validate(log.New(&buf)); n != 3 {
		t.Errorf("Validate() = %d, want 3", n)
	}
	if !strings.Contains(buf.String(), "ghost") {
		t.Errorf("log does not mention the dangling family:\n%s", buf.String())
	}
}

func TestDefinition(t *testing.T) {
	a := NewDefinition("a", []Identity{{Name: "c"}, {Name: "b"}, {Name: "b"}})
	aa := NewDefinition("a", []Identity{{Name: "b"}, {Name: "c"}})
	b := NewDefinition("a", []Identity{{Name: "d"}})
	c := NewDefinition("e", []Identity{{Name: "b"}, {Name: "c"}})

	if !a.Equal(aa) {
		t.Error("a should equal aa")
	}
	if a.Equal(b) || a.Equal(c) {
		t.Error("definitions with other names or identities compare equal")
	}
	if got := strings.Join(a.Names(), ","); got != "b,c" {
		t.Errorf("Names() = %s, want b,c", got)
	}
	if got := DefinitionOf(a.Composition).Name; got != "b, c" {
		t.Errorf("DefinitionOf().Name = %q", got)
	}
	if !(*Definition)(nil).IsEmpty() || a.IsEmpty() {
		t.Error("IsEmpty mismatch")
	}
}

func TestIdentityString(t *testing.T) {
	if got := (Identity{Name: "MIT"}).String(); got != "License {name=MIT, family=null}" {
		t.Errorf("String() = %q", got)
	}
	if got := (Identity{Name: "MIT", Family: "MIT-like"}).String(); got != "License {name=MIT, family=MIT-like}" {
		t.Errorf("String() = %q", got)
	}
}
