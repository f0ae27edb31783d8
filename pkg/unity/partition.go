package unity

import (
	"projgen/pkg/workspace"

	"go.uber.org/zap"
)

// CounterMode chooses whether the running bucket counter carries over from
// one kind to the next within a pass.
type CounterMode int

const (
	// CarryCounter threads the counter across kinds, so the second kind
	// continues numbering where the first stopped.
	CarryCounter CounterMode = iota
	// ResetCounter starts every kind at zero.
	ResetCounter
)

func (m CounterMode) String() string {
	if m == ResetCounter {
		return "reset"
	}
	return "carry"
}

// Partitioner distributes a kind slot's files into the project's unity
// buckets. BucketCount is the number of files per bucket, not the number of
// buckets.
type Partitioner struct {
	BucketCount int
	Matcher     Matcher
	Logger      *zap.Logger
	Stats       *Stats
}

// Partition walks p.Sources[kind] in order. Files the matcher ignores are
// removed from the slot for good; every other file at running index r is
// appended to bucket r/BucketCount and r advances. The advanced counter is
// returned so the caller can hand it to the next kind.
//
// Unity grows when r/BucketCount passes its current length; it must not be
// touched again once writing begins.
func (pt *Partitioner) Partition(p *workspace.Project, kind workspace.Kind, running int) int {
	logger := pt.logger()
	n := pt.BucketCount
	if n < 1 {
		n = 1
	}
	files := p.Sources[kind]
	kept := files[:0:0]
	for _, f := range files {
		if pt.Matcher != nil && pt.Matcher.Ignored(f.Path()) {
			logger.Info("Ignoring file",
				zap.String("file", f.Path()),
				zap.String("regex", p.Settings.IgnoreParts))
			if pt.Stats != nil {
				pt.Stats.Ignored++
			}
			continue
		}
		kept = append(kept, f)

		ix := running / n
		for len(p.Unity) <= ix {
			p.Unity = append(p.Unity, p.NewBucket())
		}
		p.Unity[ix][kind] = append(p.Unity[ix][kind], f)
		running++
		if pt.Stats != nil {
			pt.Stats.Partitioned++
		}
	}
	p.Sources[kind] = kept
	return running
}

// PartitionKinds partitions each kind in order, carrying or resetting the
// running counter between kinds according to mode. It returns the final
// counter value.
func (pt *Partitioner) PartitionKinds(p *workspace.Project, kinds []workspace.Kind, mode CounterMode) int {
	running := 0
	for _, k := range kinds {
		if mode == ResetCounter {
			running = 0
		}
		running = pt.Partition(p, k, running)
		pt.logger().Debug("Partitioned kind",
			zap.String("project", p.Label()),
			zap.String("kind", p.Flavor.KindName(k)),
			zap.Int("running", running),
			zap.Int("buckets", len(p.Unity)))
	}
	return running
}

func (pt *Partitioner) logger() *zap.Logger {
	if pt.Logger == nil {
		return zap.NewNop()
	}
	return pt.Logger
}
