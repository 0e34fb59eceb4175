package appointments

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinicbot-ai/scheduling-service/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей на прием.
// UpdateStatus и Cancel выполняются как compare-and-set: обновление от
// устаревшего снимка статуса завершается ErrStaleStatus, а не перезаписью.
type AppointmentRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error)
	ListWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
	ListByPatientRef(ctx context.Context, patientRef string) ([]*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.AppointmentStatus) error
	Cancel(ctx context.Context, id uuid.UUID, reason string) error
}

// CatalogRepository интерфейс справочника клиник и врачей
type CatalogRepository interface {
	GetDoctor(ctx context.Context, id uuid.UUID) (*domain.Doctor, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
