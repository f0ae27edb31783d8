// Package workspace holds the in-memory description of the projects that
// projgen turns into IDE build files.
package workspace

// File is a single source path together with the identifiers the IDE
// serializers reference it by. The identifiers are drawn once, when the
// record is created, and never change afterwards.
type File struct {
	path    string
	buildID string
	refID   string
	public  bool
}

// NewFile creates a record for path and draws its BuildID and RefID from ids.
func NewFile(path string, ids IDSource) File {
	return File{
		path:    path,
		buildID: ids.NewID(),
		refID:   ids.NewID(),
	}
}

// Path returns the file path as it was classified.
func (f File) Path() string { return f.path }

// BuildID returns the identifier used for build-phase entries.
func (f File) BuildID() string { return f.buildID }

// RefID returns the identifier used for file-reference entries.
func (f File) RefID() string { return f.refID }

// Public reports whether the file is exported as a public header.
func (f File) Public() bool { return f.public }

// AsPublic returns a copy of f marked as a public header. Identifiers are kept.
func (f File) AsPublic() File {
	f.public = true
	return f
}

// String implements fmt.Stringer.
func (f File) String() string { return f.path }

// Paths returns the paths of files in order, nil for an empty list.
func Paths(files []File) []string {
	if len(files) == 0 {
		return nil
	}
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.path
	}
	return out
}
