package reschedule_appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/clinicbot-ai/scheduling-service/internal/domain"
)

// AppointmentLedger доступ к записям на прием
type AppointmentLedger interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error)
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	ListActiveOverlapping(ctx context.Context, doctorID uuid.UUID, start, end time.Time) ([]*domain.Appointment, error)
	Cancel(ctx context.Context, id uuid.UUID, reason string) error
}

// CatalogRepository доступ к справочнику клиник, врачей и услуг
type CatalogRepository interface {
	GetClinic(ctx context.Context, id uuid.UUID) (*domain.Clinic, error)
	GetDoctor(ctx context.Context, id uuid.UUID) (*domain.Doctor, error)
	GetService(ctx context.Context, id uuid.UUID) (*domain.Service, error)
}

// PolicyRepository доступ к политикам планирования
type PolicyRepository interface {
	ResolvePolicy(ctx context.Context, clinicID uuid.UUID, doctorID, serviceID *uuid.UUID) (*domain.SchedulingPolicy, error)
}

// ScheduleCalendar вычисляет открытые интервалы врача на дату
type ScheduleCalendar interface {
	OpenIntervals(ctx context.Context, clinic *domain.Clinic, doctorID uuid.UUID, date time.Time) ([]domain.Interval, error)
}

// TransactionManager запускает функцию в serializable-транзакции
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// DoctorGuard per-doctor mutual exclusion with bounded waiting
type DoctorGuard interface {
	Lock(ctx context.Context, key string, wait time.Duration) (func(), error)
}

// ReservationObserver счетчик исходов бронирования
type ReservationObserver interface {
	ObserveReservation(outcome string)
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реализация TimeProvider с реальным временем
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
