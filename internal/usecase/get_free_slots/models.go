package get_free_slots

import (
	"time"

	"github.com/google/uuid"

	"github.com/clinicbot-ai/scheduling-service/pkg/types"
)

// Request модель запроса на получение свободных слотов
type Request struct {
	DoctorID  uuid.UUID // ID врача
	ServiceID uuid.UUID // ID услуги (определяет длительность слота)
	Date      time.Time // Дата в зоне клиники (без времени)
}

// Response модель ответа со списком свободных слотов
type Response struct {
	DoctorID  uuid.UUID `json:"doctorId"`
	ServiceID uuid.UUID `json:"serviceId"`
	Date      string    `json:"date"`
	Timezone  string    `json:"timezone"`
	Slots     []Slot    `json:"slots"`
}

// Slot модель свободного окна: абсолютные инстанты плюс локальная проекция
type Slot struct {
	StartsAt        time.Time        `json:"startsAt"`
	EndsAt          time.Time        `json:"endsAt"`
	LocalStart      types.TimeString `json:"localStart"`
	LocalEnd        types.TimeString `json:"localEnd"`
	DurationMinutes int              `json:"durationMinutes"`
}
