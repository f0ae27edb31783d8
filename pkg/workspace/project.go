package workspace

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrUnrecognizedExtension marks a path whose extension has no kind slot.
var ErrUnrecognizedExtension = errors.New("unrecognized file extension")

// Settings carries the per-project configuration strings.
type Settings struct {
	Label          string
	Build          string // application, console, static, shared, framework, bundle
	IgnoreParts    string // regex; matching files are dropped from the project
	SkipUnity      string // comma separated substrings kept out of aggregates
	DisableOptions string // contains "unity" to turn aggregation off
	SrcPath        string
	IncPath        string
	ResPath        string
	PlistPath      string
	IncludePaths   string
	PrefixHeader   string
	LinkWith       string
	FrameworkPaths string
	LibraryPaths   string
	Language       string
	DefinesDbg     string
	DefinesRel     string
	Deployment     string
	TeamName       string
	OrgName        string
	PlatformTools  string
	WindowsSDK     string
	Architecture   string
	PreferredArch  string
	UnicodeType    string
	IntDir         string
	OutDir         string
	PostGenerate   string
}

// Bucket is one unity partition slot: a file list per kind, shaped like
// Project.Sources.
type Bucket [][]File

// Project is one build target of a given flavor.
type Project struct {
	Flavor   *Flavor
	Settings Settings

	// Sources has exactly Flavor.Slots entries for the lifetime of the project.
	Sources [][]File

	// Unity is pass scoped: allocated by AllocateUnity, filled by the
	// partitioner, consumed by the aggregate writer, dropped by ResetUnity.
	Unity []Bucket

	PublicHeaders []File

	objectIDs map[string]string
}

// NewProject creates an empty project of the given flavor.
func NewProject(fl *Flavor, s Settings) *Project {
	return &Project{
		Flavor:   fl,
		Settings: s,
		Sources:  make([][]File, fl.Slots),
	}
}

// Label returns the project label.
func (p *Project) Label() string { return p.Settings.Label }

// NewBucket returns an empty bucket sized for this project.
func (p *Project) NewBucket() Bucket {
	return make(Bucket, p.Flavor.Slots)
}

// AllocateUnity sizes Unity to n empty buckets.
func (p *Project) AllocateUnity(n int) {
	p.Unity = make([]Bucket, n)
	for i := range p.Unity {
		p.Unity[i] = p.NewBucket()
	}
}

// ResetUnity discards the pass-scoped buckets.
func (p *Project) ResetUnity() {
	p.Unity = nil
}

// Add appends an already classified record to slot k.
func (p *Project) Add(k Kind, f File) {
	p.Sources[k] = append(p.Sources[k], f)
}

// Classify assigns path to its kind slot by extension, drawing fresh
// identifiers for it. Unrecognized extensions are logged and dropped.
func (p *Project) Classify(path string, logger *zap.Logger) (Kind, error) {
	k, ok := p.Flavor.KindOf(path)
	if !ok {
		if logger != nil {
			logger.Warn("Ignoring file with unrecognized extension",
				zap.String("file", path),
				zap.String("project", p.Label()),
				zap.String("flavor", p.Flavor.Name))
		}
		return 0, fmt.Errorf("%s: %w", path, ErrUnrecognizedExtension)
	}
	p.Add(k, NewFile(path, p.Flavor.IDs))
	return k, nil
}

// ObjectID returns the identifier the serializers use for the named project
// object (a build phase, a group, the project GUID). It is drawn from the
// flavor's IDSource the first time the name is asked for and reused after.
func (p *Project) ObjectID(name string) string {
	if id, ok := p.objectIDs[name]; ok {
		return id
	}
	if p.objectIDs == nil {
		p.objectIDs = make(map[string]string)
	}
	id := p.Flavor.IDs.NewID()
	p.objectIDs[name] = id
	return id
}

// Count returns the number of records across all kind slots.
func (p *Project) Count() int {
	n := 0
	for _, files := range p.Sources {
		n += len(files)
	}
	return n
}

// Workspace groups the projects generated together.
type Workspace struct {
	Name    string
	Targets []*Project
}
