// Package scan walks a target's source directories and classifies what it
// finds into the project's kind slots.
package scan

import (
	"errors"
	"os"
	"path"
	"path/filepath"
	"strings"

	"projgen/pkg/ignore"
	"projgen/pkg/workspace"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// bundleExts are directories the IDEs treat as a single resource.
var bundleExts = map[string]bool{
	".xcassets":  true,
	".lproj":     true,
	".framework": true,
}

// Walker finds source files below a set of directories.
type Walker struct {
	Fs     afero.Fs
	Logger *zap.Logger
}

// NewWalker returns a walker over fs. A nil fs means the OS filesystem.
func NewWalker(fs afero.Fs, logger *zap.Logger) *Walker {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Walker{Fs: fs, Logger: logger}
}

// SplitDirs splits a comma separated directory list, trimming entries and
// dropping empty ones.
func SplitDirs(list string) []string {
	var dirs []string
	for _, d := range strings.Split(list, ",") {
		if d = strings.TrimSpace(d); d != "" {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// Collect returns the candidate paths below every directory in roots, in
// lexical order per root. Each root may carry an ignore file whose rules are
// matched against paths relative to that root. Missing roots are logged and
// skipped.
func (w *Walker) Collect(roots []string) ([]string, error) {
	var collected []string
	w.Logger.Debug("Starting source collection", zap.Int("rootCount", len(roots)))

	for _, root := range roots {
		root = path.Clean(filepath.ToSlash(root))
		info, err := w.Fs.Stat(root)
		if err != nil {
			w.Logger.Warn("Source directory does not exist or cannot be accessed", zap.String("dir", root), zap.Error(err))
			continue
		}
		if !info.IsDir() {
			collected = append(collected, root)
			continue
		}

		rules, err := ignore.Load(w.Fs, path.Join(root, ignore.FileName), w.Logger)
		if err != nil {
			return nil, err
		}
		found, err := w.walkRoot(root, rules)
		if err != nil {
			return nil, err
		}
		collected = append(collected, found...)
	}

	w.Logger.Debug("Completed source collection", zap.Int("files", len(collected)))
	return collected, nil
}

func (w *Walker) walkRoot(root string, rules *ignore.Rules) ([]string, error) {
	var found []string
	err := afero.Walk(w.Fs, root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			w.Logger.Warn("Error accessing path during traversal", zap.String("path", p), zap.Error(err))
			return nil
		}
		p = filepath.ToSlash(p)
		if p == root {
			return nil
		}
		rel := strings.TrimPrefix(p, root+"/")
		name := info.Name()

		if info.IsDir() {
			switch {
			case strings.HasPrefix(name, "."):
				return filepath.SkipDir
			case rules.MatchesPath(rel + "/"):
				w.Logger.Debug("Skipping ignored directory", zap.String("dir", p))
				return filepath.SkipDir
			case bundleExts[strings.ToLower(path.Ext(name))]:
				found = append(found, p)
				return filepath.SkipDir
			}
			return nil
		}

		if name == ignore.FileName || strings.HasPrefix(name, ".") {
			return nil
		}
		if rules.MatchesPath(rel) {
			w.Logger.Debug("Skipping ignored file", zap.String("file", p))
			return nil
		}
		found = append(found, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// Populate scans the project's source and include directories and classifies
// every file found. Headers found under the include directories are also
// listed as public headers. It returns the number of files classified.
func (w *Walker) Populate(p *workspace.Project) (int, error) {
	logger := w.Logger.With(zap.String("project", p.Label()))
	added := 0

	classify := func(roots []string, public bool) error {
		paths, err := w.Collect(roots)
		if err != nil {
			return err
		}
		for _, f := range paths {
			k, err := p.Classify(f, logger)
			if errors.Is(err, workspace.ErrUnrecognizedExtension) {
				continue
			}
			if err != nil {
				return err
			}
			added++
			if public && isHeader(p.Flavor, k) {
				files := p.Sources[k]
				p.PublicHeaders = append(p.PublicHeaders, files[len(files)-1].AsPublic())
			}
		}
		return nil
	}

	if err := classify(SplitDirs(p.Settings.SrcPath), false); err != nil {
		return added, err
	}
	if err := classify(SplitDirs(p.Settings.IncPath), true); err != nil {
		return added, err
	}
	if err := classify(SplitDirs(p.Settings.ResPath), false); err != nil {
		return added, err
	}

	logger.Debug("Populated project", zap.Int("files", added))
	return added, nil
}

func isHeader(fl *workspace.Flavor, k workspace.Kind) bool {
	switch fl.KindName(k) {
	case "h", "hpp", "inl":
		return true
	}
	return false
}
