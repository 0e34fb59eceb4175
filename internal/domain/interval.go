package domain

import (
	"sort"
	"time"
)

// Interval is a half-open [Start, End) window on the absolute timeline
type Interval struct {
	Start time.Time
	End   time.Time
}

// IsZero reports whether the interval is uninitialized
func (i Interval) IsZero() bool {
	return i.Start.IsZero() && i.End.IsZero()
}

// Duration returns End - Start
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Overlaps reports whether the two half-open intervals truly intersect.
// Touching boundaries (one ends exactly where the other starts) do not count.
func (i Interval) Overlaps(other Interval) bool {
	return other.Start.Before(i.End) && other.End.After(i.Start)
}

// Contains reports whether other lies fully inside i
func (i Interval) Contains(other Interval) bool {
	return !other.Start.Before(i.Start) && !other.End.After(i.End)
}

// SortIntervals orders intervals by start time ascending
func SortIntervals(intervals []Interval) {
	sort.Slice(intervals, func(a, b int) bool {
		return intervals[a].Start.Before(intervals[b].Start)
	})
}

// SubtractAll removes the busy intervals from open and returns the remaining
// free sub-intervals in ascending order. A cursor walks the open interval;
// each busy block clips or splits the free region it touches.
func SubtractAll(open Interval, busy []Interval) []Interval {
	sorted := make([]Interval, 0, len(busy))
	for _, b := range busy {
		if b.Overlaps(open) {
			sorted = append(sorted, b)
		}
	}
	SortIntervals(sorted)

	free := make([]Interval, 0, len(sorted)+1)
	cursor := open.Start

	for _, b := range sorted {
		if b.Start.After(cursor) {
			free = append(free, Interval{Start: cursor, End: minTime(b.Start, open.End)})
		}
		if b.End.After(cursor) {
			cursor = b.End
		}
		if !cursor.Before(open.End) {
			return free
		}
	}

	if cursor.Before(open.End) {
		free = append(free, Interval{Start: cursor, End: open.End})
	}

	return free
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
