// Package config loads the exploration configuration from a TOML file.
//
// A configuration file looks like:
//
//	skip_plugins = false
//	only_main_versions = true
//	exclusions = ["org.springframework:*:*", "com.acme::"]
//	local_repository = "${HOME}/.m2/repository"
//
//	[license]
//	matrix = "licenses.yaml"
//
//	[remote]
//	enabled = true
//	cache_ttl = "12h"
//
//	[rules.updates]
//	patch = "MINOR"
//
//	[rules.unused]
//	skip = true
//
// ${NAME} references in string values are replaced by the environment
// variable NAME. Missing keys keep the values of [Default].
package config

import (
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/depexplorer/pkg/errors"
	"github.com/matzehuels/depexplorer/pkg/filter"
	"github.com/matzehuels/depexplorer/pkg/license"
	"github.com/matzehuels/depexplorer/pkg/rules"
	"github.com/matzehuels/depexplorer/pkg/version"
)

const (
	// FileName is the configuration file looked up in the project directory.
	FileName = "depexplorer.toml"

	DefaultCacheTTL  = 24 * time.Hour                   // Default remote metadata cache duration
	DefaultRemoteURL = "https://repo1.maven.org/maven2" // Default remote repository
)

// Config is the exploration configuration.
type Config struct {
	SkipPlugins      bool     `toml:"skip_plugins"`
	OnlyMainVersions bool     `toml:"only_main_versions"`
	Exclusions       []string `toml:"exclusions"` // group:artifact:version wildcard patterns
	LocalRepository  string   `toml:"local_repository"`

	License LicenseConfig `toml:"license"`
	Remote  RemoteConfig  `toml:"remote"`
	Rules   RulesConfig   `toml:"rules"`
}

// LicenseConfig selects the license definitions.
type LicenseConfig struct {
	// Matrix is a definition file replacing the embedded one. Files ending
	// in .yaml or .yml are YAML, others XML.
	Matrix string `toml:"matrix"`
	// Match is an inline XML definition added on top of the matrix.
	Match string `toml:"match"`
}

// RemoteConfig enables lookups against a remote Maven repository.
type RemoteConfig struct {
	Enabled  bool          `toml:"enabled"`
	URL      string        `toml:"url"`
	CacheTTL time.Duration `toml:"cache_ttl"`
}

// RulesConfig configures each rule.
type RulesConfig struct {
	Coherence  LevelRuleConfig `toml:"coherence"`
	Licenses   RuleConfig      `toml:"licenses"`
	Updates    LevelRuleConfig `toml:"updates"`
	Unused     RuleConfig      `toml:"unused"`
	Transitive RuleConfig      `toml:"transitive"`
}

// RuleConfig configures a rule with one severity.
type RuleConfig struct {
	Skip     bool           `toml:"skip"`
	Severity rules.Severity `toml:"severity"`
}

// LevelRuleConfig configures a rule with a severity per update level.
type LevelRuleConfig struct {
	Skip  bool           `toml:"skip"`
	Major rules.Severity `toml:"major"`
	Minor rules.Severity `toml:"minor"`
	Patch rules.Severity `toml:"patch"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		SkipPlugins:      true,
		OnlyMainVersions: true,
	}.WithDefaults()
}

// WithDefaults returns a copy of c with zero values replaced by defaults.
func (c Config) WithDefaults() Config {
	out := c
	if out.Remote.URL == "" {
		out.Remote.URL = DefaultRemoteURL
	}
	if out.Remote.CacheTTL <= 0 {
		out.Remote.CacheTTL = DefaultCacheTTL
	}
	return out
}

// Load reads the configuration at path. A missing file is an error with
// code FILE_NOT_FOUND.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "configuration %s", path)
		}
		return Config{}, err
	}
	return Parse(data)
}

// Parse decodes a TOML document over [Default], expands environment
// references and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode configuration")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown configuration key %q", undecoded[0].String())
	}

	cfg.LocalRepository = expandEnv(cfg.LocalRepository)
	cfg.License.Matrix = expandEnv(cfg.License.Matrix)
	cfg.Remote.URL = expandEnv(cfg.Remote.URL)
	for i, e := range cfg.Exclusions {
		cfg.Exclusions[i] = expandEnv(e)
	}

	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Find returns the configuration file for the project in dir: dir's
// depexplorer.toml or .depexplorer.toml, then the user configuration
// directory. It returns "" when none exists.
func Find(dir string) string {
	candidates := []string{
		filepath.Join(dir, FileName),
		filepath.Join(dir, "."+FileName),
	}
	if cfgDir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(cfgDir, "depexplorer", "config.toml"))
	}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// Validate checks the exclusion patterns and the remote repository URL.
func (c Config) Validate() error {
	if _, err := filter.ParseStrings(c.Exclusions); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "exclusions")
	}
	if c.Remote.Enabled {
		if err := errors.ValidateURL(c.Remote.URL); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "remote.url")
		}
	}
	return nil
}

// envPattern matches ${NAME} placeholders.
var envPattern = regexp.MustCompile(`\$\{([^}]+)}`)

func expandEnv(s string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	return envPattern.ReplaceAllStringFunc(s, func(m string) string {
		return os.Getenv(envPattern.FindStringSubmatch(m)[1])
	})
}

// Exploration is the configuration in the form the readers use.
type Exploration struct {
	ParsePlugins bool
	Versions     version.Pattern // accepted candidate update versions
	Exclusions   filter.List     // candidates never proposed
}

// Exploration resolves the reader settings.
func (c Config) Exploration() (Exploration, error) {
	excl, err := filter.ParseStrings(c.Exclusions)
	if err != nil {
		return Exploration{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "exclusions")
	}
	e := Exploration{
		ParsePlugins: !c.SkipPlugins,
		Versions:     version.AllowAll,
		Exclusions:   excl,
	}
	if c.OnlyMainVersions {
		e.Versions = version.ClassicOnly
	}
	return e, nil
}

// AcceptsVersion reports whether v matches the version pattern. A nil
// pattern accepts every version.
func (e Exploration) AcceptsVersion(v string) bool {
	return e.Versions == nil || e.Versions.MatchString(v)
}

// Accepts reports whether v is a candidate update of group:artifact.
func (e Exploration) Accepts(group, artifact, v string) bool {
	return e.AcceptsVersion(v) && !e.Exclusions.Match(group, artifact, v)
}

// RuleSettings converts the rule tables, filling unset severities with
// the rule defaults.
func (c Config) RuleSettings() rules.Settings {
	r := c.Rules
	return rules.Settings{
		Coherence:  rules.LevelRule(r.Coherence),
		Licenses:   rules.Rule(r.Licenses),
		Updates:    rules.LevelRule(r.Updates),
		Unused:     rules.Rule(r.Unused),
		Transitive: rules.Rule(r.Transitive),
	}.WithDefaults()
}

// LicenseModel loads the license definitions: the matrix file or the
// embedded definition, then the inline match. Undefined family references
// are logged as warnings.
func (c Config) LicenseModel(logger *log.Logger) (*license.Model, error) {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	var (
		m   *license.Model
		err error
	)
	if c.License.Matrix == "" {
		m, err = license.Default()
	} else {
		m = license.NewModel()
		err = license.LoadFile(m, c.License.Matrix)
	}
	if err != nil {
		return nil, err
	}
	if c.License.Match != "" {
		if err := license.LoadXML(m, strings.NewReader(c.License.Match)); err != nil {
			return nil, err
		}
	}
	m.Validate(logger)
	return m, nil
}
