package get_clinic_policies

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinicbot-ai/scheduling-service/internal/service/policy/models"
)

type PolicyService interface {
	GetClinicPolicies(ctx context.Context, clinicID uuid.UUID) (*models.PolicyListResponse, error)
	GetResolvedPolicy(ctx context.Context, clinicID uuid.UUID, doctorID, serviceID *uuid.UUID) (*models.PolicyResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
