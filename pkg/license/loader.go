package license

import (
	"bytes"
	_ "embed"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/depexplorer/pkg/errors"
	"github.com/matzehuels/depexplorer/pkg/xmlpath"
)

//go:embed licenses-oss.xml
var ossDefinition []byte

// Default returns a model loaded from the embedded open source license
// definition.
func Default() (*Model, error) {
	m := NewModel()
	if err := LoadXML(m, bytes.NewReader(ossDefinition)); err != nil {
		return nil, err
	}
	return m, nil
}

// LoadXML adds the families and identities of an XML definition to m:
//
//	<licenses>
//	  <licenseFamilies>
//	    <licenseFamily>
//	      <name>BSD-like</name>
//	      <integration><include><code>MIT-like</code></include></integration>
//	      <parameter><copyleft>false</copyleft></parameter>
//	    </licenseFamily>
//	  </licenseFamilies>
//	  <licenseIdentities>
//	    <licenseIdentity>
//	      <name>BSD-3-Clause</name>
//	      <family>BSD-like</family>
//	      <matching><match>New BSD License</match></matching>
//	    </licenseIdentity>
//	  </licenseIdentities>
//	</licenses>
func LoadXML(m *Model, r io.Reader) error {
	families := xmlpath.Match("/licenses/licenseFamilies/licenseFamily", func(rec xmlpath.Record) {
		name := rec.Get("/name")
		if name == "" {
			return
		}
		f := NewFamily(name)
		rec.ForEach("/integration/include/code", func(c xmlpath.Record) {
			f.Include = append(f.Include, c.Get(""))
		})
		rec.ForEach("/integration/exclude/code", func(c xmlpath.Record) {
			f.Exclude = append(f.Exclude, c.Get(""))
		})
		rec.ForEach("/parameter", func(p xmlpath.Record) {
			for _, key := range p.Keys() {
				if !strings.HasPrefix(key, "/") {
					continue
				}
				if key == "/copyleft" {
					f.Copyleft = parseBool(p.Get(key))
					continue
				}
				f.Parameters[strings.TrimPrefix(key, "/")] = p.Get(key)
			}
		})
		m.AddFamily(f)
	})
	identities := xmlpath.Match("/licenses/licenseIdentities/licenseIdentity", func(rec xmlpath.Record) {
		id := Identity{Name: rec.Get("/name"), Family: rec.Get("/family")}
		if id.Name == "" {
			return
		}
		m.AddIdentity(id.Name, id)
		rec.ForEach("/matching/match", func(c xmlpath.Record) {
			if label := c.Get(""); label != "" {
				m.AddIdentity(label, id)
			}
		})
	})

	if err := xmlpath.Parse(r, families, identities); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidLicenseDef, err, "load license definition")
	}
	return nil
}

func parseBool(s string) bool {
	b, _ := strconv.ParseBool(strings.ToLower(s))
	return b
}

type yamlDefinition struct {
	Families   []yamlFamily   `yaml:"families"`
	Identities []yamlIdentity `yaml:"identities"`
}

type yamlFamily struct {
	Name       string            `yaml:"name"`
	Copyleft   bool              `yaml:"copyleft"`
	Include    []string          `yaml:"include"`
	Exclude    []string          `yaml:"exclude"`
	Parameters map[string]string `yaml:"parameters"`
}

type yamlIdentity struct {
	Name    string   `yaml:"name"`
	Family  string   `yaml:"family"`
	Matches []string `yaml:"matches"`
}

// LoadYAML adds the families and identities of a YAML definition to m:
//
//	families:
//	  - name: BSD-like
//	    include: [MIT-like]
//	identities:
//	  - name: BSD-3-Clause
//	    family: BSD-like
//	    matches: [New BSD License]
func LoadYAML(m *Model, r io.Reader) error {
	var def yamlDefinition
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil && err != io.EOF {
		return errors.Wrap(errors.ErrCodeInvalidLicenseDef, err, "load license definition")
	}

	for _, yf := range def.Families {
		if yf.Name == "" {
			return errors.New(errors.ErrCodeInvalidLicenseDef, "license family without name")
		}
		f := NewFamily(yf.Name)
		f.Copyleft = yf.Copyleft
		f.Include = yf.Include
		f.Exclude = yf.Exclude
		for k, v := range yf.Parameters {
			f.Parameters[k] = v
		}
		m.AddFamily(f)
	}
	for _, yi := range def.Identities {
		if yi.Name == "" {
			return errors.New(errors.ErrCodeInvalidLicenseDef, "license identity without name")
		}
		id := Identity{Name: yi.Name, Family: yi.Family}
		m.AddIdentity(id.Name, id)
		for _, label := range yi.Matches {
			m.AddIdentity(label, id)
		}
	}
	return nil
}

// LoadFile adds the definition stored at path to m, choosing the format
// from the extension: .yaml and .yml are YAML, anything else is XML.
func LoadFile(m *Model, path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "license definition %s", path)
		}
		return err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(m, f)
	default:
		return LoadXML(m, f)
	}
}
