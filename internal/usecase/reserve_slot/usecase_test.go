package reserve_slot

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicbot-ai/scheduling-service/internal/domain"
	"github.com/clinicbot-ai/scheduling-service/internal/integrations/patientservice"
	"github.com/clinicbot-ai/scheduling-service/pkg/keymutex"
	"github.com/clinicbot-ai/scheduling-service/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f *fixedTime) Now() time.Time { return f.now }

// fakeLedger потокобезопасный in-memory леджер с той же семантикой
// пересечений, что и SQL-запрос: [start, end) против активных записей
type fakeLedger struct {
	mu           sync.Mutex
	appointments []*domain.Appointment
}

func (f *fakeLedger) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *appt
	stored.CreatedAt = time.Now()
	f.appointments = append(f.appointments, &stored)
	return &stored, nil
}

func (f *fakeLedger) ListActiveOverlapping(_ context.Context, doctorID uuid.UUID, start, end time.Time) ([]*domain.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Appointment
	for _, a := range f.appointments {
		if a.DoctorID != doctorID || !a.IsActive() {
			continue
		}
		if a.StartsAt.Before(end) && a.EndsAt.After(start) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeLedger) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.appointments)
}

type fakeCatalog struct {
	clinic  *domain.Clinic
	doctor  *domain.Doctor
	service *domain.Service

	doctorErr  error
	serviceErr error
}

func (f *fakeCatalog) GetClinic(_ context.Context, _ uuid.UUID) (*domain.Clinic, error) {
	return f.clinic, nil
}

func (f *fakeCatalog) GetDoctor(_ context.Context, _ uuid.UUID) (*domain.Doctor, error) {
	return f.doctor, f.doctorErr
}

func (f *fakeCatalog) GetService(_ context.Context, _ uuid.UUID) (*domain.Service, error) {
	return f.service, f.serviceErr
}

type fakePolicies struct {
	policy *domain.SchedulingPolicy
}

func (f *fakePolicies) ResolvePolicy(_ context.Context, _ uuid.UUID, _, _ *uuid.UUID) (*domain.SchedulingPolicy, error) {
	return f.policy, nil
}

type fakeCalendar struct {
	intervals []domain.Interval
}

func (f *fakeCalendar) OpenIntervals(_ context.Context, _ *domain.Clinic, _ uuid.UUID, _ time.Time) ([]domain.Interval, error) {
	return f.intervals, nil
}

type fakePatients struct {
	patient *patientservice.Patient
	err     error
}

func (f *fakePatients) GetPatientWithGracefulDegradation(_ context.Context, _ string) (*patientservice.Patient, error) {
	return f.patient, f.err
}

// fakeTxManager выполняет функцию напрямую: изоляцию в этих тестах
// обеспечивает per-doctor лок
type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type recordingObserver struct {
	mu       sync.Mutex
	outcomes map[string]int
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{outcomes: make(map[string]int)}
}

func (o *recordingObserver) ObserveReservation(outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes[outcome]++
}

func (o *recordingObserver) count(outcome string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.outcomes[outcome]
}

type fixture struct {
	clinic  *domain.Clinic
	doctor  *domain.Doctor
	service *domain.Service

	ledger   *fakeLedger
	catalog  *fakeCatalog
	policies *fakePolicies
	calendar *fakeCalendar
	patients *fakePatients
	guard    *keymutex.KeyMutex
	observer *recordingObserver
	clock    *fixedTime
	lockWait time.Duration
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
			End:   time.Date(2026, 3, 2, 17, 0, 0, 0, time.UTC),
		}}},
		patients: &fakePatients{patient: &patientservice.Patient{Ref: "wa:+15550001111", Name: "John Smith"}},
		guard:    keymutex.New(),
		observer: newRecordingObserver(),
		clock:    &fixedTime{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
		lockWait: time.Second,
	}
}

func (f *fixture) useCase() *UseCase {
	uc := NewUseCase(
		f.ledger, f.catalog, f.policies, f.calendar, f.patients,
		fakeTxManager{}, f.guard, f.observer, f.lockWait, nopLogger{},
	)
	uc.timeProvider = f.clock
	return uc
}

func (f *fixture) request() *Request {
	return &Request{
		DoctorID:   f.doctor.ID,
		ServiceID:  f.service.ID,
		PatientRef: "wa:+15550001111",
		StartsAt:   time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
	}
}

func TestExecuteReservesSlot(t *testing.T) {
	f := newFixture()

	resp, err := f.useCase().Execute(context.Background(), f.request())
	require.NoError(t, err)

	assert.Equal(t, domain.StatusConfirmed, resp.Status)
	assert.Equal(t, time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC), resp.StartsAt)
	assert.Equal(t, time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC), resp.EndsAt)
	require.NotNil(t, resp.PatientName)
	assert.Equal(t, "John Smith", *resp.PatientName)
	require.NotNil(t, resp.ServiceName)
	assert.Equal(t, "Consultation", *resp.ServiceName)

	assert.Equal(t, 1, f.ledger.count())
	assert.Equal(t, 1, f.observer.count(outcomeSuccess))
}

func TestExecuteConcurrentSameSlotOneWinner(t *testing.T) {
	f := newFixture()
	uc := f.useCase()

	const callers = 20
	var wg sync.WaitGroup
	results := make(chan error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), f.request())
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		switch {
		case err == nil:
			successes++
		default:
			require.ErrorIs(t, err, ErrSlotConflict)
			conflicts++
		}
	}

	assert.Equal(t, 1, successes, "exactly one caller wins the slot")
	assert.Equal(t, callers-1, conflicts)
	assert.Equal(t, 1, f.ledger.count())
	assert.Equal(t, callers-1, f.observer.count(outcomeConflict))
}

func TestExecuteBackToBackIsNotAConflict(t *testing.T) {
	f := newFixture()
	uc := f.useCase()

	_, err := uc.Execute(context.Background(), f.request())
	require.NoError(t, err)

	next := f.request()
	next.StartsAt = time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)
	_, err = uc.Execute(context.Background(), next)
	require.NoError(t, err)
	assert.Equal(t, 2, f.ledger.count())
}

func TestExecuteUnalignedStartRejected(t *testing.T) {
	f := newFixture()
	req := f.request()
	req.StartsAt = time.Date(2026, 3, 2, 10, 10, 0, 0, time.UTC)

	_, err := f.useCase().Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrOutOfWindow)
	assert.Equal(t, 1, f.observer.count(outcomeRejected))
}

func TestExecuteOutsideOpenHoursRejected(t *testing.T) {
	f := newFixture()
	req := f.request()
	req.StartsAt = time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)

	_, err := f.useCase().Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrOutOfWindow)
	assert.Equal(t, 0, f.ledger.count())
}

func TestExecuteSlotCrossingClosingTimeRejected(t *testing.T) {
	f := newFixture()
	req := f.request()
	// Старт на сетке, но конец вылезает за 17:00
	req.StartsAt = time.Date(2026, 3, 2, 16, 45, 0, 0, time.UTC)

	_, err := f.useCase().Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrOutOfWindow)
}

func TestExecuteLeadTimeRejected(t *testing.T) {
	f := newFixture()
	f.policies.policy.LeadTimeMinutes = 120
	f.clock.now = time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC)

	// 10:00 меньше чем за 2 часа от 08:30
	_, err := f.useCase().Execute(context.Background(), f.request())
	assert.ErrorIs(t, err, ErrOutOfWindow)
}

func TestExecuteBusyWhenDoctorQueueIsHeld(t *testing.T) {
	f := newFixture()
	f.lockWait = 20 * time.Millisecond

	release, err := f.guard.Lock(context.Background(), f.doctor.ID.String(), time.Second)
	require.NoError(t, err)
	defer release()

	_, err = f.useCase().Execute(context.Background(), f.request())
	assert.ErrorIs(t, err, ErrBusy)
	assert.Equal(t, 1, f.observer.count(outcomeBusy))
	assert.Equal(t, 0, f.ledger.count())
}

func TestExecutePatientNotFound(t *testing.T) {
	f := newFixture()
	f.patients.patient = nil
	f.patients.err = patientservice.ErrPatientNotFound

	_, err := f.useCase().Execute(context.Background(), f.request())
	assert.ErrorIs(t, err, ErrPatientNotFound)
	assert.Equal(t, 0, f.ledger.count())
}

func TestExecuteProceedsWhenPatientServiceDegraded(t *testing.T) {
	f := newFixture()
	f.patients.patient = nil
	f.patients.err = patientservice.ErrServiceDegraded

	resp, err := f.useCase().Execute(context.Background(), f.request())
	require.NoError(t, err)
	assert.Nil(t, resp.PatientName, "booking succeeds with the bare patient ref")
	assert.Equal(t, "wa:+15550001111", resp.PatientRef)
}

func TestExecutePendingStatusAccepted(t *testing.T) {
	f := newFixture()
	req := f.request()
	req.Status = ptr.Ptr(domain.StatusPending)

	resp, err := f.useCase().Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, resp.Status)
}

func TestExecuteTerminalInitialStatusRejected(t *testing.T) {
	f := newFixture()
	req := f.request()
	req.Status = ptr.Ptr(domain.StatusCompleted)

	_, err := f.useCase().Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
