package unity

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"projgen/pkg/workspace"

	"go.uber.org/zap"
)

// DefaultCacheDir is where aggregates are written unless configured.
const DefaultCacheDir = "tmp"

// disableToken in a project's DisableOptions turns aggregation off.
const disableToken = "unity"

// Writer materializes unity buckets as aggregate translation units and
// rewrites the project's kind slots to point at them.
type Writer struct {
	Cache    Cache
	Digester Digester
	CacheDir string
	Matcher  Matcher
	Logger   *zap.Logger
	Stats    *Stats
}

// Disabled reports whether the project's disable options contain the
// aggregation token, compared case-insensitively.
func Disabled(s workspace.Settings) bool {
	return strings.Contains(strings.ToLower(s.DisableOptions), disableToken)
}

// AggregatePath returns the deterministic name of the aggregate written for
// the counter-th bucket of a kind. Only the label and the counter feed the
// name, never the bucket's contents.
func (w *Writer) AggregatePath(label string, counter int, ext string) string {
	return path.Join(w.cacheDir(), w.digester().Digest(label+strconv.Itoa(counter))+ext)
}

// IncludeLine returns the directive that pulls file into an aggregate living
// in the cache directory.
func (w *Writer) IncludeLine(file string) string {
	if path.IsAbs(file) {
		return `#include"` + file + `"`
	}
	return `#include"` + w.parentPrefix() + file + `"`
}

// Write rebuilds p.Sources[kind] from the project's unity buckets.
//
// It reports false when the slot was already empty. When aggregation is
// disabled it reports true and leaves the slot untouched. Otherwise the slot
// is cleared and, bucket by bucket, refilled with freshly written aggregate
// paths interleaved with the files that matched a skip substring.
//
// An aggregate that already exists is taken as a valid cache entry: it is
// not regenerated and is not added back to the slot.
func (w *Writer) Write(p *workspace.Project, kind workspace.Kind) (bool, error) {
	logger := w.logger()
	if len(p.Sources[kind]) == 0 {
		return false, nil
	}
	if Disabled(p.Settings) {
		logger.Debug("Unity build disabled",
			zap.String("project", p.Label()),
			zap.String("kind", p.Flavor.KindName(kind)),
			zap.String("disable", p.Settings.DisableOptions))
		return true, nil
	}

	p.Sources[kind] = nil
	ext := p.Flavor.ExtFor(kind)
	for counter, bucket := range p.Unity {
		savePath := w.AggregatePath(p.Label(), counter, ext)

		exists, err := w.Cache.Exists(savePath)
		if err != nil {
			return true, fmt.Errorf("%w: check %s: %v", ErrCacheWrite, savePath, err)
		}
		if exists {
			logger.Debug("Reusing cached aggregate", zap.String("aggregate", savePath))
			w.count(func(s *Stats) { s.CacheHits++ })
			continue
		}

		files := bucket[kind]
		if len(files) == 0 {
			continue
		}
		entries, err := w.writeAggregate(p, savePath, files)
		if err != nil {
			return true, err
		}
		p.Sources[kind] = append(p.Sources[kind], entries...)
	}
	return true, nil
}

// writeAggregate writes one aggregate for files and returns the slot entries
// it contributes, in file order: skipped files as they are, and the aggregate
// itself at the position of its first include.
func (w *Writer) writeAggregate(p *workspace.Project, savePath string, files []workspace.File) ([]workspace.File, error) {
	logger := w.logger()
	agg, err := w.Cache.Create(savePath)
	if err != nil {
		return nil, fmt.Errorf("%w: create %s: %v", ErrCacheWrite, savePath, err)
	}

	var entries []workspace.File
	added := false
	for _, f := range files {
		if w.Matcher != nil {
			if skip, ok := w.Matcher.SkipPattern(f.Path()); ok {
				logger.Info("Skipped file from unity build",
					zap.String("file", f.Path()),
					zap.String("pattern", skip))
				entries = append(entries, f)
				w.count(func(s *Stats) { s.Skipped++ })
				continue
			}
		}
		if err := agg.WriteLine(w.IncludeLine(f.Path())); err != nil {
			return nil, fmt.Errorf("%w: write %s: %v", ErrCacheWrite, savePath, err)
		}
		w.count(func(s *Stats) { s.Included++ })
		if !added {
			entries = append(entries, workspace.NewFile(agg.Name(), p.Flavor.IDs))
			added = true
		}
	}
	if err := agg.Save(); err != nil {
		return nil, err
	}
	w.count(func(s *Stats) { s.Written++ })
	logger.Debug("Wrote aggregate",
		zap.String("aggregate", savePath),
		zap.Int("files", len(files)))
	return entries, nil
}

func (w *Writer) count(fn func(*Stats)) {
	if w.Stats != nil {
		fn(w.Stats)
	}
}

func (w *Writer) cacheDir() string {
	if w.CacheDir == "" {
		return DefaultCacheDir
	}
	return w.CacheDir
}

func (w *Writer) digester() Digester {
	if w.Digester == nil {
		w.Digester = NewDigester()
	}
	return w.Digester
}

// parentPrefix climbs from the cache directory back to the directory paths
// are relative to: "../" for the default "tmp".
func (w *Writer) parentPrefix() string {
	dir := path.Clean(w.cacheDir())
	if dir == "." {
		return ""
	}
	return strings.Repeat("../", strings.Count(dir, "/")+1)
}

func (w *Writer) logger() *zap.Logger {
	if w.Logger == nil {
		return zap.NewNop()
	}
	return w.Logger
}
