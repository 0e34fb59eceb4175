package get_free_slots

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicbot-ai/scheduling-service/internal/domain"
)

func utc(t *testing.T, hour, min int) time.Time {
	t.Helper()
	return time.Date(2026, 3, 2, hour, min, 0, 0, time.UTC)
}

func busyAppointment(t *testing.T, startHour, startMin, endHour, endMin int, status domain.AppointmentStatus) *domain.Appointment {
	t.Helper()
	return &domain.Appointment{
		ID:       uuid.New(),
		Status:   status,
		StartsAt: utc(t, startHour, startMin),
		EndsAt:   utc(t, endHour, endMin),
	}
}

func slotStarts(slots []domain.Interval) []time.Time {
	starts := make([]time.Time, len(slots))
	for i, s := range slots {
		starts[i] = s.Start
	}
	return starts
}

func TestBuildFreeSlotsAroundBusyWindow(t *testing.T) {
	open := []domain.Interval{{Start: utc(t, 9, 0), End: utc(t, 12, 0)}}
	busy := []*domain.Appointment{
		busyAppointment(t, 10, 0, 10, 30, domain.StatusConfirmed),
	}
	earliest := utc(t, 0, 0)

	slots := buildFreeSlots(open, busy, 30*time.Minute, 30*time.Minute, earliest)

	assert.Equal(t, []time.Time{
		utc(t, 9, 0),
		utc(t, 9, 30),
		utc(t, 10, 30),
		utc(t, 11, 0),
		utc(t, 11, 30),
	}, slotStarts(slots))
}

func TestBuildFreeSlotsCancelledDoesNotOccupy(t *testing.T) {
	open := []domain.Interval{{Start: utc(t, 9, 0), End: utc(t, 10, 0)}}
	busy := []*domain.Appointment{
		busyAppointment(t, 9, 0, 9, 30, domain.StatusCancelled),
		busyAppointment(t, 9, 30, 10, 0, domain.StatusNoShow),
	}

	slots := buildFreeSlots(open, busy, 30*time.Minute, 30*time.Minute, utc(t, 0, 0))

	assert.Equal(t, []time.Time{utc(t, 9, 0), utc(t, 9, 30)}, slotStarts(slots))
}

func TestBuildFreeSlotsLeadTimeCutsEarlyStarts(t *testing.T) {
	open := []domain.Interval{{Start: utc(t, 9, 0), End: utc(t, 11, 0)}}

	// Старт строго позже earliest: 09:30 ровно — еще не подходит
	slots := buildFreeSlots(open, nil, 30*time.Minute, 30*time.Minute, utc(t, 9, 30))

	assert.Equal(t, []time.Time{utc(t, 10, 0), utc(t, 10, 30)}, slotStarts(slots))
}

func TestBuildFreeSlotsGridAnchoredAtIntervalStart(t *testing.T) {
	// Длительность 45 минут не ломает сетку стартов с шагом 15
	open := []domain.Interval{{Start: utc(t, 9, 0), End: utc(t, 10, 0)}}

	slots := buildFreeSlots(open, nil, 45*time.Minute, 15*time.Minute, utc(t, 0, 0))

	assert.Equal(t, []time.Time{utc(t, 9, 0), utc(t, 9, 15)}, slotStarts(slots))
}

func TestBuildFreeSlotsBackToBackNotAConflict(t *testing.T) {
	open := []domain.Interval{{Start: utc(t, 9, 0), End: utc(t, 10, 0)}}
	busy := []*domain.Appointment{
		busyAppointment(t, 9, 30, 10, 0, domain.StatusPending),
	}

	slots := buildFreeSlots(open, busy, 30*time.Minute, 30*time.Minute, utc(t, 0, 0))

	// Окно, заканчивающееся ровно на старте занятого, свободно
	assert.Equal(t, []time.Time{utc(t, 9, 0)}, slotStarts(slots))
}

func TestBuildFreeSlotsSlotNeverCrossesIntervalEnd(t *testing.T) {
	open := []domain.Interval{{Start: utc(t, 9, 0), End: utc(t, 9, 50)}}

	slots := buildFreeSlots(open, nil, 30*time.Minute, 15*time.Minute, utc(t, 0, 0))

	require.Len(t, slots, 2)
	assert.Equal(t, utc(t, 9, 15), slots[1].Start)
	assert.Equal(t, utc(t, 9, 45), slots[1].End)
}

func TestEffectiveSlotLength(t *testing.T) {
	policy := &domain.SchedulingPolicy{
		BufferBeforeMinutes: 5,
		BufferAfterMinutes:  10,
	}

	tests := []struct {
		name    string
		service *domain.Service
		want    time.Duration
	}{
		{
			name:    "policy buffers as fallback",
			service: &domain.Service{DurationMinutes: 30},
			want:    45 * time.Minute,
		},
		{
			name: "service buffers win",
			service: &domain.Service{
				DurationMinutes:     30,
				BufferBeforeMinutes: 1,
				BufferAfterMinutes:  2,
			},
			want: 33 * time.Minute,
		},
		{
			name: "mixed: only missing buffer falls back",
			service: &domain.Service{
				DurationMinutes:    30,
				BufferAfterMinutes: 2,
			},
			want: 37 * time.Minute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, effectiveSlotLength(tt.service, policy))
		})
	}
}
