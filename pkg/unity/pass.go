package unity

import (
	"fmt"

	"projgen/pkg/workspace"

	"go.uber.org/zap"
)

// Pass runs partitioning and aggregate writing for one project. It is
// synchronous and holds no locks; the cache directory is assumed to belong to
// a single generator process for the duration of the pass.
type Pass struct {
	Enabled     bool
	BucketCount int
	Mode        CounterMode
	Cache       Cache
	Digester    Digester
	CacheDir    string
	Logger      *zap.Logger
}

// Run aggregates every unity kind of p and returns what it did.
//
// A disabled pass leaves the sources alone. An invalid ignore pattern fails
// the pass before any slot changes.
func (ps *Pass) Run(p *workspace.Project) (Stats, error) {
	var stats Stats
	logger := ps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("project", p.Label()))

	if !ps.Enabled {
		return stats, nil
	}
	if ps.BucketCount < 1 {
		return stats, fmt.Errorf("%w: got %d", ErrBucketCount, ps.BucketCount)
	}

	matcher, err := NewMatcher(p.Settings.IgnoreParts, p.Settings.SkipUnity)
	if err != nil {
		return stats, fmt.Errorf("project %s: %w", p.Label(), err)
	}

	p.AllocateUnity(ps.BucketCount)
	defer p.ResetUnity()

	pt := &Partitioner{
		BucketCount: ps.BucketCount,
		Matcher:     matcher,
		Logger:      logger,
		Stats:       &stats,
	}
	pt.PartitionKinds(p, p.Flavor.UnityKinds, ps.Mode)

	w := &Writer{
		Cache:    ps.Cache,
		Digester: ps.Digester,
		CacheDir: ps.CacheDir,
		Matcher:  matcher,
		Logger:   logger,
		Stats:    &stats,
	}
	for _, k := range p.Flavor.UnityKinds {
		if _, err := w.Write(p, k); err != nil {
			return stats, fmt.Errorf("project %s, kind %s: %w", p.Label(), p.Flavor.KindName(k), err)
		}
	}

	logger.Info("Unity pass completed",
		zap.Int("buckets", ps.BucketCount),
		zap.Stringer("counter", ps.Mode),
		zap.Int("written", stats.Written),
		zap.Int("cacheHits", stats.CacheHits),
		zap.Int("skipped", stats.Skipped),
		zap.Int("ignored", stats.Ignored))
	return stats, nil
}
