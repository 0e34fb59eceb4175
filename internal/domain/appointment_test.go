package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusMachine(t *testing.T) {
	tests := []struct {
		from    AppointmentStatus
		to      AppointmentStatus
		allowed bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusPending, StatusNoShow, false},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusNoShow, true},
		{StatusConfirmed, StatusPending, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCompleted, StatusConfirmed, false},
		{StatusNoShow, StatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusNoShow.IsTerminal())
	assert.False(t, AppointmentStatus("bogus").IsTerminal())
}

func TestAppointmentTransitionTo(t *testing.T) {
	appt := &Appointment{
		ID:     uuid.New(),
		Status: StatusPending,
	}

	require.NoError(t, appt.TransitionTo(StatusConfirmed))
	assert.Equal(t, StatusConfirmed, appt.Status)

	err := appt.TransitionTo(StatusPending)
	require.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StatusConfirmed, appt.Status, "failed transition must not change status")

	require.NoError(t, appt.TransitionTo(StatusCompleted))
	assert.ErrorIs(t, appt.TransitionTo(StatusCancelled), ErrInvalidTransition)
}

func TestAppointmentIsActive(t *testing.T) {
	appt := &Appointment{
		StartsAt: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		EndsAt:   time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC),
	}

	appt.Status = StatusPending
	assert.True(t, appt.IsActive())
	assert.True(t, appt.CanBeCancelled())

	appt.Status = StatusConfirmed
	assert.True(t, appt.IsActive())
	assert.True(t, appt.CanBeCancelled())

	for _, s := range []AppointmentStatus{StatusCancelled, StatusCompleted, StatusNoShow} {
		appt.Status = s
		assert.False(t, appt.IsActive(), "status %s must not occupy the timeline", s)
		assert.False(t, appt.CanBeCancelled())
	}
}
