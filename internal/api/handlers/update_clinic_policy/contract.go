package update_clinic_policy

import (
	"context"

	"github.com/clinicbot-ai/scheduling-service/internal/service/policy/models"
)

type PolicyService interface {
	UpsertPolicy(ctx context.Context, req *models.UpsertPolicyRequest) (*models.PolicyResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
