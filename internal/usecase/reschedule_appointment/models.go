package reschedule_appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/clinicbot-ai/scheduling-service/internal/domain"
)

// Request модель запроса на перенос записи
type Request struct {
	AppointmentID uuid.UUID // ID переносимой записи
	NewStartsAt   time.Time // Новое абсолютное начало слота (UTC)
	Reason        *string   // Причина переноса (попадает в отмененную запись)
}

// Response модель ответа: новая запись плюс ссылка на отмененную
type Response struct {
	ID          uuid.UUID                `json:"id"`
	ReplacedID  uuid.UUID                `json:"replacedId"`
	ClinicID    uuid.UUID                `json:"clinicId"`
	DoctorID    uuid.UUID                `json:"doctorId"`
	ServiceID   uuid.UUID                `json:"serviceId"`
	PatientRef  string                   `json:"patientRef"`
	PatientName *string                  `json:"patientName,omitempty"`
	ServiceName *string                  `json:"serviceName,omitempty"`
	StartsAt    time.Time                `json:"startsAt"`
	EndsAt      time.Time                `json:"endsAt"`
	Status      domain.AppointmentStatus `json:"status"`
	CreatedAt   time.Time                `json:"createdAt"`
}

func newResponse(appt *domain.Appointment, replacedID uuid.UUID) *Response {
	return &Response{
		ID:          appt.ID,
		ReplacedID:  replacedID,
		ClinicID:    appt.ClinicID,
		DoctorID:    appt.DoctorID,
		ServiceID:   appt.ServiceID,
		PatientRef:  appt.PatientRef,
		PatientName: appt.PatientName,
		ServiceName: appt.ServiceName,
		StartsAt:    appt.StartsAt,
		EndsAt:      appt.EndsAt,
		Status:      appt.Status,
		CreatedAt:   appt.CreatedAt,
	}
}
