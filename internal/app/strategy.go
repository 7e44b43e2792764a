package app

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"shootcopy/internal/domain"
)

type shootJob struct {
	items   []copyItem
	verbose bool
}

// copyStrategy is chosen once per shoot.
type copyStrategy interface {
	name() domain.Strategy
	run(ctx context.Context, e *CopyEngine, job shootJob, result *domain.ShootResult)
}

// selectStrategy copies sequentially on hosts with two or fewer execution
// units, where a pool buys nothing over plain I/O.
func selectStrategy(units int) copyStrategy {
	if units <= 2 {
		return sequentialStrategy{}
	}
	return parallelStrategy{workers: units}
}

type sequentialStrategy struct{}

func (sequentialStrategy) name() domain.Strategy { return domain.StrategySequential }

// run copies one extension group at a time, each with its own progress bar.
func (sequentialStrategy) run(ctx context.Context, e *CopyEngine, job shootJob, result *domain.ShootResult) {
	groups := map[string][]copyItem{}
	for _, item := range job.items {
		ext := item.file.Ext()
		groups[ext] = append(groups[ext], item)
	}
	exts := make([]string, 0, len(groups))
	for ext := range groups {
		exts = append(exts, ext)
	}
	sort.Strings(exts)

	for _, ext := range exts {
		items := groups[ext]
		label := strings.ToUpper(ext)
		if label == "" {
			label = "other"
		}
		progress := e.newProgress(fmt.Sprintf("Copying %s files", label), len(items), job.verbose)

		copied := 0
		for _, item := range items {
			if ctx.Err() != nil {
				break
			}
			e.copyOne(item, job.verbose).apply(result)
			progress.Add(1)
			copied++
		}
		progress.Finish(fmt.Sprintf("%d %s files copied", copied, label))

		if ctx.Err() != nil {
			return
		}
	}
}

type parallelStrategy struct {
	workers int
}

func (parallelStrategy) name() domain.Strategy { return domain.StrategyParallel }

// run feeds every file of the shoot to a fixed pool of workers. Outcomes
// flow back over a channel to this goroutine, which alone owns the result
// and the progress bar, so the count advances exactly once per file.
func (s parallelStrategy) run(ctx context.Context, e *CopyEngine, job shootJob, result *domain.ShootResult) {
	workers := s.workers
	if workers > len(job.items) {
		workers = len(job.items)
	}
	if workers < 1 {
		workers = 1
	}

	progress := e.newProgress("Copying files", len(job.items), job.verbose)

	jobs := make(chan copyItem)
	outcomes := make(chan fileOutcome, workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for item := range jobs {
				outcomes <- e.copyOne(item, job.verbose)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, item := range job.items {
			select {
			case <-ctx.Done():
				return
			case jobs <- item:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	for out := range outcomes {
		out.apply(result)
		progress.Add(1)
	}
	progress.Finish(fmt.Sprintf("%d files copied", result.Processed))
}
