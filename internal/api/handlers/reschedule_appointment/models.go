package reschedule_appointment

import (
	"time"

	"github.com/google/uuid"

	rescheduleAppointment "github.com/clinicbot-ai/scheduling-service/internal/usecase/reschedule_appointment"
)

// RescheduleAppointmentRequest HTTP request model
type RescheduleAppointmentRequest struct {
	NewStartsAt string  `json:"newStartsAt"` // ISO 8601
	Reason      *string `json:"reason,omitempty"`
}

// RescheduledResponse HTTP response model
type RescheduledResponse struct {
	ID          uuid.UUID `json:"id"`
	ReplacedID  uuid.UUID `json:"replacedId"`
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
func (r *RescheduleAppointmentRequest) ToUseCaseRequest(appointmentID uuid.UUID) (*rescheduleAppointment.Request, error) {
	newStartsAt, err := time.Parse(time.RFC3339, r.NewStartsAt)
	if err != nil {
		return nil, err
	}

	return &rescheduleAppointment.Request{
		AppointmentID: appointmentID,
		NewStartsAt:   newStartsAt,
		Reason:        r.Reason,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *rescheduleAppointment.Response) *RescheduledResponse {
	return &RescheduledResponse{
		ID:          resp.ID,
		ReplacedID:  resp.ReplacedID,
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
