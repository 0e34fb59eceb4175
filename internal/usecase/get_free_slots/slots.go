package get_free_slots

import (
	"time"

	"github.com/clinicbot-ai/scheduling-service/internal/domain"
)

// buildFreeSlots walks the open intervals, subtracts the busy appointments and
// emits the candidate windows of length slotLen. Candidate starts step by
// `step` anchored at each open interval's start, so slot alignment does not
// depend on the service duration. Starts not strictly after `earliest` (now +
// lead time) are excluded.
func buildFreeSlots(
	open []domain.Interval,
	busy []*domain.Appointment,
	slotLen time.Duration,
	step time.Duration,
	earliest time.Time,
) []domain.Interval {
	busyIntervals := activeIntervals(busy)
	domain.SortIntervals(busyIntervals)

	slots := make([]domain.Interval, 0)

	for _, openInterval := range open {
		free := domain.SubtractAll(openInterval, busyIntervals)
		if len(free) == 0 {
			continue
		}

		for cursor := openInterval.Start; ; cursor = cursor.Add(step) {
			end := cursor.Add(slotLen)
			if end.After(openInterval.End) {
				break
			}
			if !cursor.After(earliest) {
				continue
			}
			if fitsAny(free, domain.Interval{Start: cursor, End: end}) {
				slots = append(slots, domain.Interval{Start: cursor, End: end})
			}
		}
	}

	return slots
}

// activeIntervals collects the occupied windows of pending/confirmed records
func activeIntervals(appointments []*domain.Appointment) []domain.Interval {
	intervals := make([]domain.Interval, 0, len(appointments))
	for _, appt := range appointments {
		if !appt.IsActive() {
			continue
		}
		intervals = append(intervals, appt.Interval())
	}
	return intervals
}

// fitsAny reports whether the candidate lies fully inside one of the free
// sub-intervals
func fitsAny(free []domain.Interval, candidate domain.Interval) bool {
	for _, f := range free {
		if f.Contains(candidate) {
			return true
		}
		if f.Start.After(candidate.Start) {
			break
		}
	}
	return false
}

// isDateInPast проверяет, что дата раньше сегодняшнего дня
func isDateInPast(date, today time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	todayOnly := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return dateOnly.Before(todayOnly)
}

// effectiveSlotLength returns the full timeline footprint of one appointment:
// service duration plus buffers, with policy buffers as the fallback when the
// service does not define its own
func effectiveSlotLength(service *domain.Service, policy *domain.SchedulingPolicy) time.Duration {
	before := service.BufferBeforeMinutes
	if before == 0 {
		before = policy.BufferBeforeMinutes
	}
	after := service.BufferAfterMinutes
	if after == 0 {
		after = policy.BufferAfterMinutes
	}
	return time.Duration(service.DurationMinutes+before+after) * time.Minute
}
