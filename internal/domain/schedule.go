package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/clinicbot-ai/scheduling-service/pkg/types"
)

// HoursRange is one open interval of a working day, in the clinic's local
// wall-clock time. A day with a lunch break is modeled as two ranges.
type HoursRange struct {
	Opens  types.TimeString
	Closes types.TimeString
}

// IsValid reports whether the range is well formed (Opens strictly before Closes)
func (h HoursRange) IsValid() bool {
	return h.Opens.Validate() == nil && h.Closes.Validate() == nil && h.Opens.IsBefore(h.Closes)
}

// WeeklyHours maps a weekday to its ordered, non-overlapping open ranges.
// An absent weekday means closed.
type WeeklyHours map[time.Weekday][]HoursRange

// For returns the open ranges for the given weekday
func (w WeeklyHours) For(day time.Weekday) []HoursRange {
	return w[day]
}

// Closure excludes a whole calendar date from availability. A nil DoctorID
// closes the entire clinic; otherwise only that doctor's day (leave).
type Closure struct {
	ClinicID uuid.UUID
	DoctorID *uuid.UUID
	ClosedOn time.Time // date only, midnight in the clinic's zone is irrelevant
	Reason   *string
}

// AppliesTo reports whether the closure blocks the given doctor
func (c Closure) AppliesTo(doctorID uuid.UUID) bool {
	return c.DoctorID == nil || *c.DoctorID == doctorID
}
