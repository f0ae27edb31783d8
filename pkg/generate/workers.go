package generate

import (
	"fmt"
	"runtime"
	"sync"

	"projgen/pkg/config"
	"projgen/pkg/scan"
	"projgen/pkg/workspace"

	"go.uber.org/zap"
)

// scanJob is one target waiting to be scanned, keyed by its config index so
// results keep config order.
type scanJob struct {
	index  int
	target config.Target
}

type scanResult struct {
	index   int
	project *workspace.Project
	err     error
}

// scanTargets classifies every target using a pool of workers. Scanning only
// reads the filesystem; the unity pass that follows stays sequential.
func scanTargets(targets []config.Target, maxWorkers int, walker *scan.Walker, logger *zap.Logger) ([]*workspace.Project, error) {
	jobs := make(chan scanJob, len(targets))
	results := make(chan scanResult, len(targets))
	var wg sync.WaitGroup

	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
	}
	if maxWorkers > len(targets) {
		maxWorkers = len(targets)
	}

	logger.Debug("Initializing scan workers", zap.Int("workers", maxWorkers), zap.Int("targets", len(targets)))
	for w := 0; w < maxWorkers; w++ {
		wg.Add(1)
		go scanWorker(jobs, results, walker, &wg, logger.With(zap.Int("workerID", w)))
	}

	for i, t := range targets {
		jobs <- scanJob{index: i, target: t}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	projects := make([]*workspace.Project, len(targets))
	var firstErr error
	firstIdx := len(targets)
	for r := range results {
		if r.err != nil {
			if r.index < firstIdx {
				firstIdx, firstErr = r.index, r.err
			}
			continue
		}
		projects[r.index] = r.project
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return projects, nil
}

func scanWorker(jobs <-chan scanJob, results chan<- scanResult, walker *scan.Walker, wg *sync.WaitGroup, logger *zap.Logger) {
	defer wg.Done()
	for job := range jobs {
		t := job.target
		fl, err := t.Flavor()
		if err != nil {
			results <- scanResult{index: job.index, err: err}
			continue
		}
		p := workspace.NewProject(fl, t.Settings())
		n, err := walker.Populate(p)
		if err != nil {
			logger.Error("Failed to scan target", zap.String("project", t.Label), zap.Error(err))
			results <- scanResult{index: job.index, err: fmt.Errorf("target %s: %w", t.Label, err)}
			continue
		}
		logger.Debug("Scanned target", zap.String("project", t.Label), zap.Int("files", n))
		results <- scanResult{index: job.index, project: p}
	}
}
