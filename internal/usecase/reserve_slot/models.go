package reserve_slot

import (
	"time"

	"github.com/google/uuid"

	"github.com/clinicbot-ai/scheduling-service/internal/domain"
)

// Request модель запроса на бронирование слота
type Request struct {
	DoctorID   uuid.UUID                 // ID врача
	ServiceID  uuid.UUID                 // ID услуги
	PatientRef string                    // Непрозрачная ссылка на пациента
	StartsAt   time.Time                 // Абсолютное начало слота (UTC)
	Status     *domain.AppointmentStatus // Начальный статус; по умолчанию confirmed
	Notes      *string                   // Комментарий к записи
}

// Response модель ответа с созданной записью
type Response struct {
	ID          uuid.UUID                `json:"id"`
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

func newResponse(appt *domain.Appointment) *Response {
	return &Response{
		ID:          appt.ID,
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
