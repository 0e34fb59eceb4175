package reserve_slot

import (
	"time"

	"github.com/google/uuid"

	"github.com/clinicbot-ai/scheduling-service/internal/domain"
	reserveSlot "github.com/clinicbot-ai/scheduling-service/internal/usecase/reserve_slot"
)

// ReserveSlotRequest HTTP request model
type ReserveSlotRequest struct {
	DoctorID   uuid.UUID `json:"doctorId"`
	ServiceID  uuid.UUID `json:"serviceId"`
	PatientRef string    `json:"patientRef"`
	StartsAt   string    `json:"startsAt"` // ISO 8601
	Status     *string   `json:"status,omitempty"`
	Notes      *string   `json:"notes,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID          uuid.UUID `json:"id"`
	ClinicID    uuid.UUID `json:"clinicId"`
	DoctorID    uuid.UUID `json:"doctorId"`
	ServiceID   uuid.UUID `json:"serviceId"`
	PatientRef  string    `json:"patientRef"`
	PatientName *string   `json:"patientName,omitempty"`
	ServiceName *string   `json:"serviceName,omitempty"`
	StartsAt    string    `json:"startsAt"`
	EndsAt      string    `json:"endsAt"`
	Status      string    `json:"status"`
	CreatedAt   string    `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ReserveSlotRequest) ToUseCaseRequest() (*reserveSlot.Request, error) {
	startsAt, err := time.Parse(time.RFC3339, r.StartsAt)
	if err != nil {
		return nil, err
	}

	req := &reserveSlot.Request{
		DoctorID:   r.DoctorID,
		ServiceID:  r.ServiceID,
		PatientRef: r.PatientRef,
		StartsAt:   startsAt,
		Notes:      r.Notes,
	}

	if r.Status != nil {
		status := domain.AppointmentStatus(*r.Status)
		req.Status = &status
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *reserveSlot.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:          resp.ID,
		ClinicID:    resp.ClinicID,
		DoctorID:    resp.DoctorID,
		ServiceID:   resp.ServiceID,
		PatientRef:  resp.PatientRef,
		PatientName: resp.PatientName,
		ServiceName: resp.ServiceName,
		StartsAt:    resp.StartsAt.UTC().Format(time.RFC3339),
		EndsAt:      resp.EndsAt.UTC().Format(time.RFC3339),
		Status:      string(resp.Status),
		CreatedAt:   resp.CreatedAt.Format(time.RFC3339),
	}
}
