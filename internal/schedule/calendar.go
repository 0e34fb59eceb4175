package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/clinicbot-ai/scheduling-service/internal/domain"
)

// HoursSource provides the working-hours ranges configured for a doctor.
// Implementations resolve doctor-specific overrides against clinic-wide rows.
type HoursSource interface {
	HoursForWeekday(ctx context.Context, clinicID, doctorID uuid.UUID, weekday time.Weekday) ([]domain.HoursRange, error)
}

// ClosureSource provides the closures recorded for a calendar date
type ClosureSource interface {
	ClosuresOn(ctx context.Context, clinicID uuid.UUID, date time.Time) ([]domain.Closure, error)
}

// Calendar answers "when is this doctor open on this date" in absolute time.
// It combines recurring weekly hours with date-specific closures and converts
// the result through the clinic's Clock.
type Calendar struct {
	hours    HoursSource
	closures ClosureSource
}

// NewCalendar creates a Calendar over the given sources
func NewCalendar(hours HoursSource, closures ClosureSource) *Calendar {
	return &Calendar{hours: hours, closures: closures}
}

// OpenIntervals returns the ordered absolute open intervals for the doctor on
// the given wall-clock date. A matching closure (clinic-wide or doctor leave)
// yields an empty result, which is not an error.
func (c *Calendar) OpenIntervals(ctx context.Context, clinic *domain.Clinic, doctorID uuid.UUID, date time.Time) ([]domain.Interval, error) {
	clock, err := ClockFor(clinic.Timezone)
	if err != nil {
		return nil, err
	}

	closures, err := c.closures.ClosuresOn(ctx, clinic.ID, date)
	if err != nil {
		return nil, err
	}
	for _, closure := range closures {
		if closure.AppliesTo(doctorID) {
			return nil, nil
		}
	}

	ranges, err := c.hours.HoursForWeekday(ctx, clinic.ID, doctorID, date.Weekday())
	if err != nil {
		return nil, err
	}

	intervals := make([]domain.Interval, 0, len(ranges))
	for _, r := range ranges {
		opens, err := clock.ToAbsolute(date, r.Opens)
		if err != nil {
			return nil, err
		}
		closes, err := clock.ToAbsolute(date, r.Closes)
		if err != nil {
			return nil, err
		}
		if !opens.Before(closes) {
			continue
		}
		intervals = append(intervals, domain.Interval{Start: opens, End: closes})
	}

	domain.SortIntervals(intervals)
	return intervals, nil
}
