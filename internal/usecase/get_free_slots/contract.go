package get_free_slots

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/clinicbot-ai/scheduling-service/internal/domain"
)

// AppointmentLedger интерфейс леджера записей на приём
type AppointmentLedger interface {
	// ListByDoctorBetween получает записи врача, пересекающие интервал [from, to)
	ListByDoctorBetween(ctx context.Context, doctorID uuid.UUID, from, to time.Time, activeOnly bool) ([]*domain.Appointment, error)
}

// CatalogRepository интерфейс справочника клиник, врачей и услуг
type CatalogRepository interface {
	GetClinic(ctx context.Context, id uuid.UUID) (*domain.Clinic, error)
	GetDoctor(ctx context.Context, id uuid.UUID) (*domain.Doctor, error)
	GetService(ctx context.Context, id uuid.UUID) (*domain.Service, error)
}

// PolicyRepository интерфейс репозитория политик планирования
type PolicyRepository interface {
	// ResolvePolicy получает политику с учетом иерархии приоритетов
	ResolvePolicy(ctx context.Context, clinicID uuid.UUID, doctorID, serviceID *uuid.UUID) (*domain.SchedulingPolicy, error)
}

// ScheduleCalendar интерфейс календаря рабочих часов
type ScheduleCalendar interface {
	OpenIntervals(ctx context.Context, clinic *domain.Clinic, doctorID uuid.UUID, date time.Time) ([]domain.Interval, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
