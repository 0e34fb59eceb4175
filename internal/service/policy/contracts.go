package policy

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinicbot-ai/scheduling-service/internal/domain"
)

// PolicyRepository интерфейс репозитория политик планирования
type PolicyRepository interface {
	ResolvePolicy(ctx context.Context, clinicID uuid.UUID, doctorID, serviceID *uuid.UUID) (*domain.SchedulingPolicy, error)
	ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*domain.SchedulingPolicy, error)
	Upsert(ctx context.Context, p *domain.SchedulingPolicy) (*domain.SchedulingPolicy, error)
}

// CatalogRepository интерфейс справочника клиник
type CatalogRepository interface {
	GetClinic(ctx context.Context, id uuid.UUID) (*domain.Clinic, error)
	GetDoctor(ctx context.Context, id uuid.UUID) (*domain.Doctor, error)
	GetService(ctx context.Context, id uuid.UUID) (*domain.Service, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
