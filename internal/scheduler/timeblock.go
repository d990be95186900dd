package scheduler

import (
	"fmt"
	"sort"

	appErrors "github.com/noah-isme/lesson-solver/pkg/errors"
)

// MinutesToString renders a minute-of-day offset as "HH:MM".
func MinutesToString(minutes int) (string, error) {
	if minutes < 0 || minutes >= MinutesPerDay {
		return "", fmt.Errorf("%w: minutes %d out of range [0,%d)", appErrors.ErrInvalidTimeBlock, minutes, MinutesPerDay)
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60), nil
}

// StringToMinutes parses "HH:MM" into a minute-of-day offset.
func StringToMinutes(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%2d:%2d", &h, &m); err != nil {
		return 0, fmt.Errorf("%w: invalid time string %q", appErrors.ErrInvalidTimeBlock, s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: invalid time string %q", appErrors.ErrInvalidTimeBlock, s)
	}
	return h*60 + m, nil
}

// MergeBlocks sorts by start and coalesces blocks whose intervals overlap or
// touch (end == next start). The result is canonical: sorted, non-adjacent,
// non-overlapping.
func MergeBlocks(blocks []TimeBlock) []TimeBlock {
	if len(blocks) == 0 {
		return nil
	}
	sorted := make([]TimeBlock, len(blocks))
	copy(sorted, blocks)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	merged := make([]TimeBlock, 0, len(sorted))
	current := sorted[0]
	for _, b := range sorted[1:] {
		if b.Start <= current.End() {
			if b.End() > current.End() {
				current.Duration = b.End() - current.Start
			}
			continue
		}
		merged = append(merged, current)
		current = b
	}
	merged = append(merged, current)
	return merged
}

// Overlaps reports whether a and b (on the same day) share any minute.
func Overlaps(a, b TimeBlock) bool {
	return a.Start < b.End() && b.Start < a.End()
}

// FindAvailableSlots enumerates every start offset in the day's merged
// blocks such that the resulting duration-length slot fits entirely within
// a block and start is aligned to granularity. Granularity defaults to 1
// when <= 0.
func FindAvailableSlots(day DaySchedule, duration, granularity int) []TimeSlot {
	if granularity <= 0 {
		granularity = 1
	}
	merged := MergeBlocks(day.Blocks)
	var slots []TimeSlot
	for _, block := range merged {
		for s := block.Start; s+duration <= block.End(); s++ {
			if (s-block.Start)%granularity != 0 {
				continue
			}
			slots = append(slots, TimeSlot{DayOfWeek: day.DayOfWeek, Start: s, Duration: duration})
		}
	}
	return slots
}

// IsTimeAvailable reports whether some merged block in day wholly contains
// [start, start+duration].
func IsTimeAvailable(day DaySchedule, start, duration int) bool {
	end := start + duration
	for _, block := range MergeBlocks(day.Blocks) {
		if block.Start <= start && end <= block.End() {
			return true
		}
	}
	return false
}

// DetectOverlaps returns the subset of blocks involved in any pairwise
// overlap, in their original order.
func DetectOverlaps(blocks []TimeBlock) []TimeBlock {
	involved := make(map[int]bool, len(blocks))
	for i := range blocks {
		for j := range blocks {
			if i == j {
				continue
			}
			if Overlaps(blocks[i], blocks[j]) {
				involved[i] = true
				involved[j] = true
			}
		}
	}
	var result []TimeBlock
	for i, b := range blocks {
		if involved[i] {
			result = append(result, b)
		}
	}
	return result
}

// DayMetadata summarizes a day's merged availability.
type DayMetadata struct {
	TotalAvailable     int
	LargestBlock       TimeBlock
	FragmentationScore float64
}

// Metadata computes total available minutes, the largest merged block, and
// a fragmentation score ((n-1)/n for n merged blocks, 0 otherwise).
func Metadata(day DaySchedule) DayMetadata {
	merged := MergeBlocks(day.Blocks)
	var meta DayMetadata
	n := len(merged)
	for _, b := range merged {
		meta.TotalAvailable += b.Duration
		if b.Duration > meta.LargestBlock.Duration {
			meta.LargestBlock = b
		}
	}
	if n > 0 {
		meta.FragmentationScore = float64(n-1) / float64(n)
	}
	return meta
}
