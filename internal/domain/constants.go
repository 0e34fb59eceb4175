package domain

import "time"

// Default policy values
const (
	DefaultGranularityMinutes = 15
	DefaultLeadTimeMinutes    = 60 // 1 hour
	DefaultAdvanceBookingDays = 0  // 0 = unlimited
	DefaultBufferMinutes      = 0
)

// Business validation constants
const (
	MinGranularityMinutes = 5
	MaxGranularityMinutes = 240

	MinLeadTimeMinutes = 0
	MaxLeadTimeMinutes = 10080 // 1 week

	MinAdvanceBookingDays = 0
	MaxAdvanceBookingDays = 365

	MinBufferMinutes = 0
	MaxBufferMinutes = 120

	MinServiceDurationMinutes = 5
	MaxServiceDurationMinutes = 480 // 8 hours

	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
)

// DefaultGuardLockWait ограничивает ожидание per-doctor лока при бронировании
const DefaultGuardLockWait = 2 * time.Second

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses are the statuses that occupy time on a doctor's timeline.
// The per-doctor non-overlap invariant is enforced over exactly this set.
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
}

// InactiveStatuses are retained for history but excluded from overlap checks
var InactiveStatuses = []AppointmentStatus{
	StatusCancelled,
	StatusCompleted,
	StatusNoShow,
}
