package unity

import "fmt"

// Stats counts what a unity pass did.
type Stats struct {
	Partitioned int // files assigned to a bucket
	Ignored     int // files dropped by the ignore pattern
	Written     int // aggregates freshly written
	CacheHits   int // aggregates found on disk and left alone
	Skipped     int // files kept out of aggregates by a skip substring
	Included    int // include lines written into aggregates
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Partitioned += o.Partitioned
	s.Ignored += o.Ignored
	s.Written += o.Written
	s.CacheHits += o.CacheHits
	s.Skipped += o.Skipped
	s.Included += o.Included
}

func (s Stats) String() string {
	return fmt.Sprintf("partitioned=%d ignored=%d written=%d cacheHits=%d skipped=%d included=%d",
		s.Partitioned, s.Ignored, s.Written, s.CacheHits, s.Skipped, s.Included)
}
