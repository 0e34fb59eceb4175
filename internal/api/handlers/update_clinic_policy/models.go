package update_clinic_policy

import (
	"github.com/google/uuid"

	"github.com/clinicbot-ai/scheduling-service/internal/service/policy/models"
)

// UpdatePolicyRequest HTTP request model
type UpdatePolicyRequest struct {
	DoctorID  *uuid.UUID `json:"doctorId,omitempty"`
	ServiceID *uuid.UUID `json:"serviceId,omitempty"`

	GranularityMinutes  int `json:"granularityMinutes"`
	LeadTimeMinutes     int `json:"leadTimeMinutes"`
	AdvanceBookingDays  int `json:"advanceBookingDays"`
	BufferBeforeMinutes int `json:"bufferBeforeMinutes"`
	BufferAfterMinutes  int `json:"bufferAfterMinutes"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdatePolicyRequest) ToServiceRequest(clinicID uuid.UUID) *models.UpsertPolicyRequest {
	return &models.UpsertPolicyRequest{
		ClinicID:            clinicID,
		DoctorID:            r.DoctorID,
		ServiceID:           r.ServiceID,
		GranularityMinutes:  r.GranularityMinutes,
		LeadTimeMinutes:     r.LeadTimeMinutes,
		AdvanceBookingDays:  r.AdvanceBookingDays,
		BufferBeforeMinutes: r.BufferBeforeMinutes,
		BufferAfterMinutes:  r.BufferAfterMinutes,
	}
}
