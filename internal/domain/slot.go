package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/clinicbot-ai/scheduling-service/pkg/types"
)

// Slot is a candidate bookable window produced by the slot generator.
// It is never persisted; a slot becomes real only when the conflict guard
// commits an Appointment for its window.
type Slot struct {
	DoctorID  uuid.UUID
	ServiceID uuid.UUID

	StartsAt time.Time
	EndsAt   time.Time

	// Local wall-clock projection in the clinic's timezone, for display
	LocalDate  string
	LocalStart types.TimeString
	LocalEnd   types.TimeString
}

// Interval returns the absolute window of the slot
func (s Slot) Interval() Interval {
	return Interval{Start: s.StartsAt, End: s.EndsAt}
}
