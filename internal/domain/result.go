package domain

import "time"

// Strategy names how a shoot's files were copied.
type Strategy string

const (
	StrategySequential Strategy = "sequential"
	StrategyParallel   Strategy = "parallel"
)

// ShootResult tallies the outcome of copying one shoot.
type ShootResult struct {
	Index          int
	Folder         string
	Strategy       Strategy
	Files          int
	Processed      int
	Verified       int
	CopyFailures   int
	ChecksumErrors int
	Mismatches     int
	Bytes          int64
	Elapsed        time.Duration
}

// Failures counts files that were not copied and verified cleanly.
func (r ShootResult) Failures() int {
	return r.CopyFailures + r.ChecksumErrors + r.Mismatches
}

// ShootError records a shoot that was aborted before any file was copied.
type ShootError struct {
	Index int
	Err   error
}

// RunSummary aggregates every selected shoot of a run.
type RunSummary struct {
	Shoots            []ShootResult
	Aborted           []ShootError
	InvalidSelections []int
	// Skipped counts card files left uncopied because they could not be
	// read or timestamped.
	Skipped int
}

func (s RunSummary) FileFailures() int {
	total := 0
	for _, r := range s.Shoots {
		total += r.Failures()
	}
	return total
}

// Failures counts every problem of the run: failed files, aborted shoots,
// out-of-range selections and files skipped during collection.
func (s RunSummary) Failures() int {
	return s.FileFailures() + len(s.Aborted) + len(s.InvalidSelections) + s.Skipped
}

func (s RunSummary) Processed() int {
	total := 0
	for _, r := range s.Shoots {
		total += r.Processed
	}
	return total
}

func (s RunSummary) Bytes() int64 {
	var total int64
	for _, r := range s.Shoots {
		total += r.Bytes
	}
	return total
}
