package get_free_slots

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/clinicbot-ai/scheduling-service/internal/api/handlers"
	"github.com/clinicbot-ai/scheduling-service/internal/schedule"
	getFreeSlots "github.com/clinicbot-ai/scheduling-service/internal/usecase/get_free_slots"
)

const (
	msgInvalidDoctorID  = "некорректный ID врача"
	msgInvalidServiceID = "некорректный ID услуги"
	msgInvalidDate      = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgDoctorNotFound   = "врач не найден"
	msgServiceNotFound  = "услуга не найдена"
	msgDateInPast       = "дата в прошлом"
	msgDateTooFar       = "дата слишком далеко в будущем"
	msgAmbiguousTime    = "локальное время не существует из-за перевода часов"
)

type Handler struct {
	useCase GetFreeSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetFreeSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/doctors/{doctorId}/free-slots?serviceId={uuid}&date=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	doctorID, err := uuid.Parse(vars["doctorId"])
	if err != nil {
		h.logger.Warn("GET /doctors/{id}/free-slots - Invalid doctor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDoctorID)
		return
	}

	serviceID, err := uuid.Parse(r.URL.Query().Get("serviceId"))
	if err != nil {
		h.logger.Warn("GET /doctors/{id}/free-slots - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	useCaseReq, err := ToUseCaseRequest(doctorID, serviceID, r.URL.Query().Get("date"))
	if err != nil {
		h.logger.Warn("GET /doctors/{id}/free-slots - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getFreeSlots.ErrDoctorNotFound):
			h.logger.Warn("GET /doctors/{id}/free-slots - Doctor not found: doctor_id=%s", doctorID)
			handlers.RespondNotFound(w, msgDoctorNotFound)

		case errors.Is(err, getFreeSlots.ErrServiceNotFound):
			h.logger.Warn("GET /doctors/{id}/free-slots - Service not found: service_id=%s", serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getFreeSlots.ErrInvalidDate):
			h.logger.Warn("GET /doctors/{id}/free-slots - Date in past: doctor_id=%s", doctorID)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, getFreeSlots.ErrDateTooFarInFuture):
			h.logger.Warn("GET /doctors/{id}/free-slots - Date too far in future: doctor_id=%s", doctorID)
			handlers.RespondUnprocessable(w, msgDateTooFar)

		case errors.Is(err, getFreeSlots.ErrInvalidInput):
			h.logger.Warn("GET /doctors/{id}/free-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidServiceID)

		case errors.Is(err, schedule.ErrAmbiguousLocalTime):
			h.logger.Warn("GET /doctors/{id}/free-slots - Ambiguous local time: doctor_id=%s", doctorID)
			handlers.RespondBadRequest(w, msgAmbiguousTime)

		default:
			h.logger.Error("GET /doctors/{id}/free-slots - Failed to get slots: doctor_id=%s, error=%v", doctorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /doctors/{id}/free-slots - %d slots returned: doctor_id=%s, date=%s",
		len(result.Slots), doctorID, result.Date)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
