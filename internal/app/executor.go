package app

import (
	"context"
	"errors"

	"shootcopy/internal/domain"
	"shootcopy/internal/logging"
)

// Executor copies the selected shoots one after another.
type Executor struct {
	Engine  *CopyEngine
	Logger  logging.Logger
	Verbose bool
}

// Execute copies shoots[i-1] for every 1-based index in selected, in order.
// Out-of-range indices and shoots whose folders cannot be created are
// reported and skipped; the remaining shoots still run. Only cancellation
// stops the run early.
func (e *Executor) Execute(ctx context.Context, shoots []domain.Photoshoot, selected []int, destinationRoot string) (domain.RunSummary, error) {
	if e.Engine == nil {
		return domain.RunSummary{}, errors.New("executor requires a copy engine")
	}

	var summary domain.RunSummary
	for _, idx := range selected {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if idx < 1 || idx > len(shoots) {
			e.Logger.Warnf("Invalid shoot index: %d", idx)
			summary.InvalidSelections = append(summary.InvalidSelections, idx)
			continue
		}

		e.Logger.Infof("Backing up shoot %d", idx)
		result, err := e.Engine.CopyShoot(ctx, shoots[idx-1], destinationRoot, idx, e.Verbose)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				summary.Shoots = append(summary.Shoots, result)
				return summary, err
			}
			e.Logger.Errorf("Error copying shoot %d: %v", idx, err)
			summary.Aborted = append(summary.Aborted, domain.ShootError{Index: idx, Err: err})
			continue
		}
		summary.Shoots = append(summary.Shoots, result)
	}
	return summary, nil
}
