// Package config loads the YAML workspace description projgen generates
// projects from.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"projgen/pkg/platform"
	"projgen/pkg/workspace"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file looked for when none is given.
const DefaultFile = "projgen.yaml"

// Environment variables consulted for defaults.
const (
	EnvConfig   = "PROJGEN_CONFIG"
	EnvCacheDir = "PROJGEN_CACHE_DIR"
)

// Workspace level defaults.
const (
	DefaultBuckets  = 4
	DefaultCacheDir = "tmp"
	DefaultOutDir   = "."
	DefaultCounter  = "carry"
	DefaultHash     = "xxhash"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config is one workspace description. Buckets is how many files go into
// each aggregate: a kind with F files yields ceil(F/Buckets) aggregates.
type Config struct {
	Name     string   `yaml:"name"`
	Unity    bool     `yaml:"unity"`
	Buckets  int      `yaml:"buckets"`
	Counter  string   `yaml:"counter"`
	Hash     string   `yaml:"hash"`
	CacheDir string   `yaml:"cacheDir"`
	OutDir   string   `yaml:"outDir"`
	Includes []string `yaml:"include"`
	Targets  []Target `yaml:"targets"`
}

// Target describes one project. Field names follow the generator's project
// variables.
type Target struct {
	Label          string `yaml:"label"`
	Build          string `yaml:"build"`
	Format         string `yaml:"format"`
	Src            string `yaml:"src"`
	Inc            string `yaml:"inc"`
	Res            string `yaml:"res"`
	Plist          string `yaml:"plist"`
	Ignore         string `yaml:"ignore"`
	SkipUnity      string `yaml:"skipUnity"`
	Disable        string `yaml:"disable"`
	Language       string `yaml:"language"`
	DefinesDbg     string `yaml:"definesDbg"`
	DefinesRel     string `yaml:"definesRel"`
	Deployment     string `yaml:"deployment"`
	LinkWith       string `yaml:"linkWith"`
	IncludePaths   string `yaml:"includePaths"`
	PrefixHeader   string `yaml:"prefixHeader"`
	FrameworkPaths string `yaml:"frameworkPaths"`
	LibraryPaths   string `yaml:"libraryPaths"`
	TeamName       string `yaml:"teamName"`
	OrgName        string `yaml:"orgName"`
	PlatformTools  string `yaml:"platformTools"`
	WindowsSDK     string `yaml:"windowsSDK"`
	Architecture   string `yaml:"architecture"`
	PreferredArch  string `yaml:"preferredArch"`
	UnicodeType    string `yaml:"unicodeType"`
	IntDir         string `yaml:"intDir"`
	OutDir         string `yaml:"outDir"`
	PostGenerate   string `yaml:"postGenerate"`
}

var builds = map[string]bool{
	"application": true,
	"console":     true,
	"static":      true,
	"shared":      true,
	"framework":   true,
	"bundle":      true,
}

// Load reads the config at file on fs, merges its includes and applies
// defaults and validation. Includes are resolved relative to the including
// file and appended in order; a leading "~" or "$TMPDIR" is expanded first.
func Load(fs afero.Fs, file string) (*Config, error) {
	cfg, err := load(fs, file, map[string]bool{})
	if err != nil {
		return nil, err
	}
	cfg.ApplyDefaults(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func load(fs afero.Fs, file string, seen map[string]bool) (*Config, error) {
	file = filepath.ToSlash(filepath.Clean(file))
	if seen[file] {
		return nil, fmt.Errorf("%w: include cycle at %s", ErrInvalidConfig, file)
	}
	seen[file] = true

	data, err := afero.ReadFile(fs, file)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", file, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}

	for _, entry := range cfg.Includes {
		inc, err := platform.ExpandPath(entry)
		if err != nil {
			return nil, fmt.Errorf("%s: include %s: %w", file, entry, err)
		}
		if !path.IsAbs(inc) {
			inc = path.Join(path.Dir(file), inc)
		}
		sub, err := load(fs, inc, seen)
		if err != nil {
			return nil, err
		}
		cfg.merge(sub)
	}
	cfg.Includes = nil
	return cfg, nil
}

// Parse decodes one YAML document without defaults or includes. Unknown keys
// are rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return &cfg, nil
}

// merge folds an included config into c. Targets are appended; workspace
// fields are only taken when c leaves them unset.
func (c *Config) merge(inc *Config) {
	if c.Name == "" {
		c.Name = inc.Name
	}
	c.Unity = c.Unity || inc.Unity
	if c.Buckets == 0 {
		c.Buckets = inc.Buckets
	}
	if c.Counter == "" {
		c.Counter = inc.Counter
	}
	if c.Hash == "" {
		c.Hash = inc.Hash
	}
	if c.CacheDir == "" {
		c.CacheDir = inc.CacheDir
	}
	if c.OutDir == "" {
		c.OutDir = inc.OutDir
	}
	c.Targets = append(c.Targets, inc.Targets...)
}

// ApplyDefaults fills unset fields. getenv supplies environment defaults and
// may be nil.
func (c *Config) ApplyDefaults(getenv func(string) string) {
	if getenv == nil {
		getenv = func(string) string { return "" }
	}
	if c.Buckets == 0 {
		c.Buckets = DefaultBuckets
	}
	if c.Counter == "" {
		c.Counter = DefaultCounter
	}
	if c.Hash == "" {
		c.Hash = DefaultHash
	}
	if c.CacheDir == "" {
		c.CacheDir = getenv(EnvCacheDir)
	}
	if c.CacheDir == "" {
		c.CacheDir = DefaultCacheDir
	}
	if c.OutDir == "" {
		c.OutDir = DefaultOutDir
	}
	for i := range c.Targets {
		c.Targets[i].applyDefaults()
	}
	if c.Name == "" && len(c.Targets) > 0 {
		c.Name = c.Targets[0].Label
	}
}

func (t *Target) applyDefaults() {
	set := func(field *string, value string) {
		if *field == "" {
			*field = value
		}
	}
	set(&t.Build, "application")
	set(&t.Format, "msvc")
	set(&t.Language, "c++17")
	set(&t.DefinesDbg, "_DEBUG, DEBUG")
	set(&t.DefinesRel, "NDEBUG, RELEASE")
	set(&t.Deployment, "10.15")
	set(&t.PlatformTools, "v142")
	set(&t.WindowsSDK, "10.0.17763.0")
	set(&t.Architecture, "x64")
	set(&t.PreferredArch, "x64")
	set(&t.UnicodeType, "MultiByte")
	set(&t.IntDir, ".intermediate")
	set(&t.OutDir, ".output")
}

// Validate checks the config and reports every problem found at once.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...)))
	}

	if c.Buckets < 1 {
		add("buckets must be at least 1, got %d", c.Buckets)
	}
	switch c.Counter {
	case "carry", "reset":
	default:
		add("counter must be carry or reset, got %q", c.Counter)
	}
	switch c.Hash {
	case "xxhash", "sha1":
	default:
		add("hash must be xxhash or sha1, got %q", c.Hash)
	}
	if path.IsAbs(filepath.ToSlash(c.CacheDir)) || filepath.IsAbs(c.CacheDir) {
		add("cacheDir must be relative, got %q", c.CacheDir)
	}
	if len(c.Targets) == 0 {
		add("no targets")
	}

	labels := make(map[string]bool)
	for i, t := range c.Targets {
		if t.Label == "" {
			add("target %d: label is required", i)
		} else if labels[t.Label] {
			add("target %d: duplicate label %q", i, t.Label)
		}
		labels[t.Label] = true
		if _, ok := workspace.FlavorByName(t.Format); !ok {
			add("target %q: unknown format %q", t.Label, t.Format)
		}
		if !builds[strings.ToLower(t.Build)] {
			add("target %q: unknown build %q", t.Label, t.Build)
		}
		if strings.TrimSpace(t.Src) == "" {
			add("target %q: src is required", t.Label)
		}
	}
	if c.Unity {
		for _, a := range c.Targets {
			for _, b := range c.Targets {
				if sharesAggregateNames(a.Label, b.Label) {
					add("targets %q and %q produce the same aggregate names; rename one so it does not end in digits after %q", a.Label, b.Label, a.Label)
				}
			}
		}
	}
	return newValidationError(errs)
}

// sharesAggregateNames reports whether b is a followed only by digits.
// Aggregate names are digests of label+counter, so target "game" bucket 10
// and target "game1" bucket 0 would write the same file.
func sharesAggregateNames(a, b string) bool {
	if a == "" || len(b) <= len(a) || !strings.HasPrefix(b, a) {
		return false
	}
	return strings.TrimLeft(b[len(a):], "0123456789") == ""
}

// Settings converts t into the project settings the generator works on.
func (t Target) Settings() workspace.Settings {
	return workspace.Settings{
		Label:          t.Label,
		Build:          strings.ToLower(t.Build),
		IgnoreParts:    t.Ignore,
		SkipUnity:      t.SkipUnity,
		DisableOptions: t.Disable,
		SrcPath:        t.Src,
		IncPath:        t.Inc,
		ResPath:        t.Res,
		PlistPath:      t.Plist,
		IncludePaths:   t.IncludePaths,
		PrefixHeader:   t.PrefixHeader,
		LinkWith:       t.LinkWith,
		FrameworkPaths: t.FrameworkPaths,
		LibraryPaths:   t.LibraryPaths,
		Language:       t.Language,
		DefinesDbg:     t.DefinesDbg,
		DefinesRel:     t.DefinesRel,
		Deployment:     t.Deployment,
		TeamName:       t.TeamName,
		OrgName:        t.OrgName,
		PlatformTools:  t.PlatformTools,
		WindowsSDK:     t.WindowsSDK,
		Architecture:   t.Architecture,
		PreferredArch:  t.PreferredArch,
		UnicodeType:    t.UnicodeType,
		IntDir:         t.IntDir,
		OutDir:         t.OutDir,
		PostGenerate:   t.PostGenerate,
	}
}

// Flavor resolves the target's IDE format.
func (t Target) Flavor() (*workspace.Flavor, error) {
	fl, ok := workspace.FlavorByName(t.Format)
	if !ok {
		return nil, fmt.Errorf("%w: target %q: unknown format %q", ErrInvalidConfig, t.Label, t.Format)
	}
	return fl, nil
}
