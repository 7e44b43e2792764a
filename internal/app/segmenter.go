package app

import (
	"sort"
	"time"

	"shootcopy/internal/domain"
)

// DefaultGapThreshold separates two shoots when no file was captured for two hours.
const DefaultGapThreshold = 120 * time.Minute

// Segment partitions files into photoshoots. Files are stable-sorted by
// timestamp, then a new shoot starts wherever the gap to the previous file is
// strictly greater than gapThreshold. Gaps are measured in whole seconds and
// a negative threshold is treated as zero. The input slice is not modified.
func Segment(files []domain.FileEntry, gapThreshold time.Duration) []domain.Photoshoot {
	if len(files) == 0 {
		return nil
	}
	if gapThreshold < 0 {
		gapThreshold = 0
	}
	maxGap := int64(gapThreshold / time.Second)

	sorted := make([]domain.FileEntry, len(files))
	copy(sorted, files)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	var shoots []domain.Photoshoot
	current := domain.Photoshoot{}
	current.Add(sorted[0])

	for i := 1; i < len(sorted); i++ {
		gap := sorted[i].Timestamp.Unix() - sorted[i-1].Timestamp.Unix()
		if gap > maxGap {
			shoots = append(shoots, current)
			current = domain.Photoshoot{}
		}
		current.Add(sorted[i])
	}

	return append(shoots, current)
}
