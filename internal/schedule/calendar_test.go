package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicbot-ai/scheduling-service/internal/domain"
	"github.com/clinicbot-ai/scheduling-service/pkg/ptr"
)

type fakeHoursSource struct {
	ranges []domain.HoursRange
	err    error
}

func (f *fakeHoursSource) HoursForWeekday(_ context.Context, _, _ uuid.UUID, _ time.Weekday) ([]domain.HoursRange, error) {
	return f.ranges, f.err
}

type fakeClosureSource struct {
	closures []domain.Closure
	err      error
}

func (f *fakeClosureSource) ClosuresOn(_ context.Context, _ uuid.UUID, _ time.Time) ([]domain.Closure, error) {
	return f.closures, f.err
}

func hoursRange(t *testing.T, opens, closes string) domain.HoursRange {
	t.Helper()
	return domain.HoursRange{
		Opens:  mustTimeString(t, opens),
		Closes: mustTimeString(t, closes),
	}
}

func TestOpenIntervalsSplitDay(t *testing.T) {
	clinic := &domain.Clinic{ID: uuid.New(), Timezone: "Europe/Berlin"}
	doctorID := uuid.New()
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC) // Monday

	hours := &fakeHoursSource{ranges: []domain.HoursRange{
		hoursRange(t, "14:00", "18:00"),
		hoursRange(t, "09:00", "13:00"),
	}}
	calendar := NewCalendar(hours, &fakeClosureSource{})

	intervals, err := calendar.OpenIntervals(context.Background(), clinic, doctorID, date)
	require.NoError(t, err)
	require.Len(t, intervals, 2)

	// Berlin — CET (UTC+1) в начале марта
	assert.Equal(t, time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC), intervals[0].Start.UTC())
	assert.Equal(t, time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC), intervals[0].End.UTC())
	assert.Equal(t, time.Date(2026, 3, 2, 13, 0, 0, 0, time.UTC), intervals[1].Start.UTC())
	assert.Equal(t, time.Date(2026, 3, 2, 17, 0, 0, 0, time.UTC), intervals[1].End.UTC())
}

func TestOpenIntervalsClinicWideClosure(t *testing.T) {
	clinic := &domain.Clinic{ID: uuid.New(), Timezone: "Europe/Berlin"}
	doctorID := uuid.New()
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	hours := &fakeHoursSource{ranges: []domain.HoursRange{hoursRange(t, "09:00", "17:00")}}
	closures := &fakeClosureSource{closures: []domain.Closure{
		{ClinicID: clinic.ID, ClosedOn: date, Reason: ptr.Ptr("holiday")},
	}}
	calendar := NewCalendar(hours, closures)

	intervals, err := calendar.OpenIntervals(context.Background(), clinic, doctorID, date)
	require.NoError(t, err)
	assert.Empty(t, intervals)
}

func TestOpenIntervalsDoctorClosureOnlyAffectsThatDoctor(t *testing.T) {
	clinic := &domain.Clinic{ID: uuid.New(), Timezone: "Europe/Berlin"}
	onLeave := uuid.New()
	working := uuid.New()
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	hours := &fakeHoursSource{ranges: []domain.HoursRange{hoursRange(t, "09:00", "17:00")}}
	closures := &fakeClosureSource{closures: []domain.Closure{
		{ClinicID: clinic.ID, DoctorID: &onLeave, ClosedOn: date},
	}}
	calendar := NewCalendar(hours, closures)

	intervals, err := calendar.OpenIntervals(context.Background(), clinic, onLeave, date)
	require.NoError(t, err)
	assert.Empty(t, intervals)

	intervals, err = calendar.OpenIntervals(context.Background(), clinic, working, date)
	require.NoError(t, err)
	assert.Len(t, intervals, 1)
}

func TestOpenIntervalsInvalidRangeSkipped(t *testing.T) {
	clinic := &domain.Clinic{ID: uuid.New(), Timezone: "Europe/Berlin"}
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	hours := &fakeHoursSource{ranges: []domain.HoursRange{
		hoursRange(t, "17:00", "09:00"), // closes before opens
		hoursRange(t, "09:00", "12:00"),
	}}
	calendar := NewCalendar(hours, &fakeClosureSource{})

	intervals, err := calendar.OpenIntervals(context.Background(), clinic, uuid.New(), date)
	require.NoError(t, err)
	require.Len(t, intervals, 1)
	assert.Equal(t, time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC), intervals[0].Start.UTC())
}
