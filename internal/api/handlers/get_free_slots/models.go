package get_free_slots

import (
	"time"

	"github.com/google/uuid"

	"github.com/clinicbot-ai/scheduling-service/internal/domain"
	getFreeSlots "github.com/clinicbot-ai/scheduling-service/internal/usecase/get_free_slots"
)

// SlotResponse HTTP модель одного свободного окна
type SlotResponse struct {
	StartsAt        string `json:"startsAt"` // ISO 8601, UTC
	EndsAt          string `json:"endsAt"`
	LocalStart      string `json:"localStart"` // "10:00" в зоне клиники
	LocalEnd        string `json:"localEnd"`
	DurationMinutes int    `json:"durationMinutes"`
}

// FreeSlotsResponse HTTP модель ответа со свободными слотами
type FreeSlotsResponse struct {
	DoctorID  uuid.UUID      `json:"doctorId"`
	ServiceID uuid.UUID      `json:"serviceId"`
	Date      string         `json:"date"`
	Timezone  string         `json:"timezone"`
	Slots     []SlotResponse `json:"slots"`
}

// ToUseCaseRequest собирает модель use case из параметров запроса
func ToUseCaseRequest(doctorID, serviceID uuid.UUID, dateStr string) (*getFreeSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getFreeSlots.Request{
		DoctorID:  doctorID,
		ServiceID: serviceID,
		Date:      date,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getFreeSlots.Response) *FreeSlotsResponse {
	slots := make([]SlotResponse, len(resp.Slots))
	for i, s := range resp.Slots {
		slots[i] = SlotResponse{
			StartsAt:        s.StartsAt.UTC().Format(time.RFC3339),
			EndsAt:          s.EndsAt.UTC().Format(time.RFC3339),
			LocalStart:      s.LocalStart.String(),
			LocalEnd:        s.LocalEnd.String(),
			DurationMinutes: s.DurationMinutes,
		}
	}

	return &FreeSlotsResponse{
		DoctorID:  resp.DoctorID,
		ServiceID: resp.ServiceID,
		Date:      resp.Date,
		Timezone:  resp.Timezone,
		Slots:     slots,
	}
}
