package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the lifecycle status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
	StatusNoShow    AppointmentStatus = "no_show"
)

// ErrInvalidTransition возвращается при недопустимом переходе статуса
var ErrInvalidTransition = errors.New("domain: invalid appointment status transition")

// validTransitions describes the full status machine. Terminal states have no
// outgoing edges.
var validTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled, StatusCompleted, StatusNoShow},
}

// IsValid reports whether s is one of the known statuses
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed from s
func (s AppointmentStatus) IsTerminal() bool {
	return len(validTransitions[s]) == 0 && s.IsValid()
}

// CanTransitionTo reports whether the edge s -> next exists in the status machine
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Appointment is a committed booking on a doctor's timeline.
// StartsAt/EndsAt are absolute instants (UTC); EndsAt already includes the
// service buffers, so the [StartsAt, EndsAt) interval is exactly the time the
// record occupies.
type Appointment struct {
	ID         uuid.UUID
	ClinicID   uuid.UUID
	DoctorID   uuid.UUID
	ServiceID  uuid.UUID
	PatientRef string

	StartsAt time.Time
	EndsAt   time.Time
	Status   AppointmentStatus

	// Denormalized for history
	ServiceName *string
	PatientName *string
	Notes       *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive reports whether the appointment occupies time on the doctor's
// timeline. Only active records participate in overlap checks.
func (a *Appointment) IsActive() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// CanBeCancelled reports whether the appointment may still be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status.CanTransitionTo(StatusCancelled)
}

// Interval returns the occupied [StartsAt, EndsAt) window
func (a *Appointment) Interval() Interval {
	return Interval{Start: a.StartsAt, End: a.EndsAt}
}

// TransitionTo moves the appointment to next, enforcing the status machine
func (a *Appointment) TransitionTo(next AppointmentStatus) error {
	if !a.Status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	a.Status = next
	return nil
}

// AppointmentsFilter is the query filter for listing a doctor's appointments
type AppointmentsFilter struct {
	DoctorID        uuid.UUID
	From            *time.Time // inclusive lower bound on StartsAt
	To              *time.Time // exclusive upper bound on StartsAt
	Status          *AppointmentStatus
	IncludeInactive bool // include cancelled/completed/no-show records
}
