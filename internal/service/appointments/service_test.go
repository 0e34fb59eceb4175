package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicbot-ai/scheduling-service/internal/domain"
	appointmentRepo "github.com/clinicbot-ai/scheduling-service/internal/infra/storage/appointment"
	catalogRepo "github.com/clinicbot-ai/scheduling-service/internal/infra/storage/catalog"
	"github.com/clinicbot-ai/scheduling-service/internal/service/appointments/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// fakeAppointmentRepo повторяет compare-and-set семантику настоящего
// репозитория: обновление статуса от устаревшего снимка не проходит.
// staleSnapshot подменяет результат GetByID, имитируя параллельный переход
// между чтением и обновлением.
type fakeAppointmentRepo struct {
	appointments map[uuid.UUID]*domain.Appointment

	staleSnapshot *domain.Appointment
	listFilter    *domain.AppointmentsFilter
	listResult    []*domain.Appointment
	cancelledWith string
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[uuid.UUID]*domain.Appointment)}
}

func (f *fakeAppointmentRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Appointment, error) {
	if f.staleSnapshot != nil && f.staleSnapshot.ID == id {
		return f.staleSnapshot, nil
	}
	appt, ok := f.appointments[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	return appt, nil
}

func (f *fakeAppointmentRepo) ListWithFilter(_ context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	f.listFilter = &filter
	return f.listResult, nil
}

func (f *fakeAppointmentRepo) ListByPatientRef(_ context.Context, _ string) ([]*domain.Appointment, error) {
	return f.listResult, nil
}

func (f *fakeAppointmentRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to domain.AppointmentStatus) error {
	appt, ok := f.appointments[id]
	if !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	if appt.Status != from {
		return appointmentRepo.ErrStaleStatus
	}
	appt.Status = to
	return nil
}

func (f *fakeAppointmentRepo) Cancel(_ context.Context, id uuid.UUID, reason string) error {
	appt, ok := f.appointments[id]
	if !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	if !appt.IsActive() {
		return appointmentRepo.ErrStaleStatus
	}
	appt.Status = domain.StatusCancelled
	f.cancelledWith = reason
	return nil
}

type fakeCatalogRepo struct {
	doctor    *domain.Doctor
	doctorErr error
}

func (f *fakeCatalogRepo) GetDoctor(_ context.Context, _ uuid.UUID) (*domain.Doctor, error) {
	return f.doctor, f.doctorErr
}

func newService(appts *fakeAppointmentRepo, catalog *fakeCatalogRepo) *Service {
	return NewService(appts, catalog, nopLogger{})
}

func storedAppointment(repo *fakeAppointmentRepo, status domain.AppointmentStatus) *domain.Appointment {
	appt := &domain.Appointment{
		ID:         uuid.New(),
		ClinicID:   uuid.New(),
		DoctorID:   uuid.New(),
		ServiceID:  uuid.New(),
		PatientRef: "wa:+15550001111",
		StartsAt:   time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		EndsAt:     time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC),
		Status:     status,
	}
	repo.appointments[appt.ID] = appt
	return appt
}

func TestGetByID(t *testing.T) {
	repo := newFakeAppointmentRepo()
	appt := storedAppointment(repo, domain.StatusConfirmed)
	svc := newService(repo, &fakeCatalogRepo{})

	resp, err := svc.GetByID(context.Background(), appt.ID)
	require.NoError(t, err)
	assert.Equal(t, appt.ID, resp.ID)
	assert.Equal(t, "confirmed", resp.Status)

	_, err = svc.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestGetDoctorAppointmentsBuildsFilter(t *testing.T) {
	repo := newFakeAppointmentRepo()
	doctor := &domain.Doctor{ID: uuid.New(), Active: true}
	svc := newService(repo, &fakeCatalogRepo{doctor: doctor})

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
	status := "confirmed"

	_, err := svc.GetDoctorAppointments(context.Background(), &models.GetDoctorAppointmentsRequest{
		DoctorID:        doctor.ID,
		From:            &from,
		To:              &to,
		Status:          &status,
		IncludeInactive: true,
	})
	require.NoError(t, err)

	require.NotNil(t, repo.listFilter)
	assert.Equal(t, doctor.ID, repo.listFilter.DoctorID)
	assert.Equal(t, from, *repo.listFilter.From)
	assert.Equal(t, to, *repo.listFilter.To)
	require.NotNil(t, repo.listFilter.Status)
	assert.Equal(t, domain.StatusConfirmed, *repo.listFilter.Status)
	assert.True(t, repo.listFilter.IncludeInactive)
}

func TestGetDoctorAppointmentsUnknownDoctor(t *testing.T) {
	svc := newService(newFakeAppointmentRepo(), &fakeCatalogRepo{doctorErr: catalogRepo.ErrDoctorNotFound})

	_, err := svc.GetDoctorAppointments(context.Background(), &models.GetDoctorAppointmentsRequest{
		DoctorID: uuid.New(),
	})
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestGetDoctorAppointmentsInvalidStatusFilter(t *testing.T) {
	doctor := &domain.Doctor{ID: uuid.New(), Active: true}
	svc := newService(newFakeAppointmentRepo(), &fakeCatalogRepo{doctor: doctor})

	bogus := "bogus"
	_, err := svc.GetDoctorAppointments(context.Background(), &models.GetDoctorAppointmentsRequest{
		DoctorID: doctor.ID,
		Status:   &bogus,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetPatientAppointmentsEmptyRef(t *testing.T) {
	svc := newService(newFakeAppointmentRepo(), &fakeCatalogRepo{})

	_, err := svc.GetPatientAppointments(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCancel(t *testing.T) {
	repo := newFakeAppointmentRepo()
	appt := storedAppointment(repo, domain.StatusPending)
	svc := newService(repo, &fakeCatalogRepo{})

	err := svc.Cancel(context.Background(), appt.ID, &models.CancelAppointmentRequest{
		CancellationReason: "patient request",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, appt.Status)
	assert.Equal(t, "patient request", repo.cancelledWith)
}

func TestCancelFromTerminalStatus(t *testing.T) {
	repo := newFakeAppointmentRepo()
	svc := newService(repo, &fakeCatalogRepo{})

	for _, status := range []domain.AppointmentStatus{domain.StatusCancelled, domain.StatusCompleted, domain.StatusNoShow} {
		appt := storedAppointment(repo, status)
		err := svc.Cancel(context.Background(), appt.ID, &models.CancelAppointmentRequest{})
		assert.ErrorIs(t, err, ErrCannotCancel, "status %s", status)
	}
}

func TestUpdateStatus(t *testing.T) {
	repo := newFakeAppointmentRepo()
	appt := storedAppointment(repo, domain.StatusPending)
	svc := newService(repo, &fakeCatalogRepo{})

	require.NoError(t, svc.UpdateStatus(context.Background(), appt.ID, &models.UpdateStatusRequest{Status: "confirmed"}))
	assert.Equal(t, domain.StatusConfirmed, appt.Status)

	require.NoError(t, svc.UpdateStatus(context.Background(), appt.ID, &models.UpdateStatusRequest{Status: "completed"}))
	assert.Equal(t, domain.StatusCompleted, appt.Status)
}

func TestUpdateStatusInvalidTransition(t *testing.T) {
	repo := newFakeAppointmentRepo()
	appt := storedAppointment(repo, domain.StatusCompleted)
	svc := newService(repo, &fakeCatalogRepo{})

	err := svc.UpdateStatus(context.Background(), appt.ID, &models.UpdateStatusRequest{Status: "confirmed"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, domain.StatusCompleted, appt.Status, "status untouched after rejected transition")
}

func TestUpdateStatusLostRaceKeepsTerminalState(t *testing.T) {
	repo := newFakeAppointmentRepo()
	appt := storedAppointment(repo, domain.StatusCancelled)
	svc := newService(repo, &fakeCatalogRepo{})

	// Чтение вернуло снимок до параллельной отмены
	snapshot := *appt
	snapshot.Status = domain.StatusConfirmed
	repo.staleSnapshot = &snapshot

	err := svc.UpdateStatus(context.Background(), appt.ID, &models.UpdateStatusRequest{Status: "completed"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, domain.StatusCancelled, appt.Status, "terminal state must survive a lost race")
}

func TestCancelLostRaceKeepsTerminalState(t *testing.T) {
	repo := newFakeAppointmentRepo()
	appt := storedAppointment(repo, domain.StatusCompleted)
	svc := newService(repo, &fakeCatalogRepo{})

	snapshot := *appt
	snapshot.Status = domain.StatusConfirmed
	repo.staleSnapshot = &snapshot

	err := svc.Cancel(context.Background(), appt.ID, &models.CancelAppointmentRequest{CancellationReason: "late"})
	assert.ErrorIs(t, err, ErrCannotCancel)
	assert.Equal(t, domain.StatusCompleted, appt.Status)
	assert.Empty(t, repo.cancelledWith)
}

func TestUpdateStatusUnknownValue(t *testing.T) {
	repo := newFakeAppointmentRepo()
	appt := storedAppointment(repo, domain.StatusPending)
	svc := newService(repo, &fakeCatalogRepo{})

	err := svc.UpdateStatus(context.Background(), appt.ID, &models.UpdateStatusRequest{Status: "paused"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
