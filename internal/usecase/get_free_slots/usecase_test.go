package get_free_slots

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicbot-ai/scheduling-service/internal/domain"
	catalogRepo "github.com/clinicbot-ai/scheduling-service/internal/infra/storage/catalog"
	policyRepo "github.com/clinicbot-ai/scheduling-service/internal/infra/storage/policy"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f *fixedTime) Now() time.Time { return f.now }

type fakeLedger struct {
	appointments []*domain.Appointment
	err          error
}

func (f *fakeLedger) ListByDoctorBetween(_ context.Context, _ uuid.UUID, _, _ time.Time, _ bool) ([]*domain.Appointment, error) {
	return f.appointments, f.err
}

type fakeCatalog struct {
	clinic  *domain.Clinic
	doctor  *domain.Doctor
	service *domain.Service

	clinicErr  error
	doctorErr  error
	serviceErr error
}

func (f *fakeCatalog) GetClinic(_ context.Context, _ uuid.UUID) (*domain.Clinic, error) {
	return f.clinic, f.clinicErr
}

func (f *fakeCatalog) GetDoctor(_ context.Context, _ uuid.UUID) (*domain.Doctor, error) {
	return f.doctor, f.doctorErr
}

func (f *fakeCatalog) GetService(_ context.Context, _ uuid.UUID) (*domain.Service, error) {
	return f.service, f.serviceErr
}

type fakePolicies struct {
	policy *domain.SchedulingPolicy
	err    error
}

func (f *fakePolicies) ResolvePolicy(_ context.Context, _ uuid.UUID, _, _ *uuid.UUID) (*domain.SchedulingPolicy, error) {
	return f.policy, f.err
}

type fakeCalendar struct {
	intervals []domain.Interval
	err       error
}

func (f *fakeCalendar) OpenIntervals(_ context.Context, _ *domain.Clinic, _ uuid.UUID, _ time.Time) ([]domain.Interval, error) {
	return f.intervals, f.err
}

type fixture struct {
	clinic  *domain.Clinic
	doctor  *domain.Doctor
	service *domain.Service

	ledger   *fakeLedger
	catalog  *fakeCatalog
	policies *fakePolicies
	calendar *fakeCalendar
	clock    *fixedTime
}

func newFixture() *fixture {
	clinic := &domain.Clinic{ID: uuid.New(), Name: "Downtown Clinic", Timezone: "UTC"}
	doctor := &domain.Doctor{ID: uuid.New(), ClinicID: clinic.ID, Name: "Dr. Adams", Active: true}
	service := &domain.Service{
		ID:              uuid.New(),
		ClinicID:        clinic.ID,
		Name:            "Consultation",
		DurationMinutes: 30,
		Active:          true,
	}

	return &fixture{
		clinic:  clinic,
		doctor:  doctor,
		service: service,
		ledger:  &fakeLedger{},
		catalog: &fakeCatalog{clinic: clinic, doctor: doctor, service: service},
		policies: &fakePolicies{policy: &domain.SchedulingPolicy{
			ClinicID:           clinic.ID,
			GranularityMinutes: 30,
		}},
		calendar: &fakeCalendar{intervals: []domain.Interval{{
			Start: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
			End:   time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC),
		}}},
		clock: &fixedTime{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
	}
}

func (f *fixture) useCase() *UseCase {
	uc := NewUseCase(f.ledger, f.catalog, f.policies, f.calendar, nopLogger{})
	uc.timeProvider = f.clock
	return uc
}

func (f *fixture) request() *Request {
	return &Request{
		DoctorID:  f.doctor.ID,
		ServiceID: f.service.ID,
		Date:      time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
	}
}

func TestExecuteReturnsSlots(t *testing.T) {
	f := newFixture()
	f.ledger.appointments = []*domain.Appointment{{
		ID:       uuid.New(),
		DoctorID: f.doctor.ID,
		Status:   domain.StatusConfirmed,
		StartsAt: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		EndsAt:   time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC),
	}}

	resp, err := f.useCase().Execute(context.Background(), f.request())
	require.NoError(t, err)

	require.Len(t, resp.Slots, 5)
	assert.Equal(t, "2026-03-02", resp.Date)
	assert.Equal(t, "UTC", resp.Timezone)

	starts := make([]string, len(resp.Slots))
	for i, s := range resp.Slots {
		starts[i] = s.LocalStart.String()
		assert.Equal(t, 30, s.DurationMinutes)
	}
	assert.Equal(t, []string{"09:00", "09:30", "10:30", "11:00", "11:30"}, starts)
}

func TestExecuteRepeatedReadsReturnIdenticalSlots(t *testing.T) {
	f := newFixture()
	f.ledger.appointments = []*domain.Appointment{{
		ID:       uuid.New(),
		DoctorID: f.doctor.ID,
		Status:   domain.StatusPending,
		StartsAt: time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC),
		EndsAt:   time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	}}
	uc := f.useCase()

	first, err := uc.Execute(context.Background(), f.request())
	require.NoError(t, err)
	second, err := uc.Execute(context.Background(), f.request())
	require.NoError(t, err)

	// Чтение ничего не меняет: без мутаций между запросами список
	// идентичен вплоть до порядка
	assert.Equal(t, first.Slots, second.Slots)
	assert.NotEmpty(t, first.Slots)
}

func TestExecuteDoctorNotFound(t *testing.T) {
	f := newFixture()
	f.catalog.doctorErr = catalogRepo.ErrDoctorNotFound

	_, err := f.useCase().Execute(context.Background(), f.request())
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestExecuteServiceFromAnotherClinic(t *testing.T) {
	f := newFixture()
	f.service.ClinicID = uuid.New()

	_, err := f.useCase().Execute(context.Background(), f.request())
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecuteFallsBackToDefaultPolicy(t *testing.T) {
	f := newFixture()
	f.policies.policy = nil
	f.policies.err = policyRepo.ErrPolicyNotFound
	// Дефолтный lead time 60 минут от now отрезает прошедшие старты, но дата
	// завтрашняя, так что все слоты на месте
	f.calendar.intervals = []domain.Interval{{
		Start: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	}}

	resp, err := f.useCase().Execute(context.Background(), f.request())
	require.NoError(t, err)

	// Дефолтная гранулярность 15 минут: 09:00, 09:15, 09:30
	require.Len(t, resp.Slots, 3)
	assert.Equal(t, "09:15", resp.Slots[1].LocalStart.String())
}

func TestExecuteDateInPast(t *testing.T) {
	f := newFixture()
	req := f.request()
	req.Date = time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC)

	_, err := f.useCase().Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecuteDateBeyondAdvanceLimit(t *testing.T) {
	f := newFixture()
	f.policies.policy.AdvanceBookingDays = 7
	req := f.request()
	req.Date = time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)

	_, err := f.useCase().Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrDateTooFarInFuture)
}

func TestExecuteClosedDayIsEmptyNotError(t *testing.T) {
	f := newFixture()
	f.calendar.intervals = nil

	resp, err := f.useCase().Execute(context.Background(), f.request())
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
	assert.NotNil(t, resp.Slots, "closed day serializes as an empty array")
}

func TestExecuteInvalidInput(t *testing.T) {
	f := newFixture()
	req := f.request()
	req.ServiceID = uuid.Nil

	_, err := f.useCase().Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
