package reserve_slot

import (
	"errors"
	"net/http"

	"github.com/clinicbot-ai/scheduling-service/internal/api/handlers"
	"github.com/clinicbot-ai/scheduling-service/internal/schedule"
	reserveSlot "github.com/clinicbot-ai/scheduling-service/internal/usecase/reserve_slot"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidStartsAt    = "некорректный формат startsAt, ожидается ISO 8601"
	msgSlotConflict       = "выбранный временной слот уже занят"
	msgOutOfWindow        = "слот вне доступного окна бронирования"
	msgDoctorNotFound     = "врач не найден"
	msgServiceNotFound    = "услуга не найдена"
	msgPatientNotFound    = "пациент не найден"
	msgAmbiguousTime      = "локальное время не существует из-за перевода часов"
	msgBusy               = "очередь бронирования занята, повторите попытку"

	retryAfterSeconds = 2
)

type Handler struct {
	useCase ReserveSlotUseCase
	logger  Logger
}

func NewHandler(useCase ReserveSlotUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req ReserveSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStartsAt)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, reserveSlot.ErrSlotConflict):
			h.logger.Warn("POST /appointments - Slot conflict: doctor_id=%s, starts_at=%s", req.DoctorID, req.StartsAt)
			handlers.RespondConflict(w, msgSlotConflict)

		case errors.Is(err, reserveSlot.ErrOutOfWindow):
			h.logger.Warn("POST /appointments - Out of window: doctor_id=%s, starts_at=%s", req.DoctorID, req.StartsAt)
			handlers.RespondUnprocessable(w, msgOutOfWindow)

		case errors.Is(err, reserveSlot.ErrBusy):
			h.logger.Warn("POST /appointments - Busy: doctor_id=%s", req.DoctorID)
			handlers.RespondBusy(w, retryAfterSeconds, msgBusy)

		case errors.Is(err, reserveSlot.ErrDoctorNotFound):
			h.logger.Warn("POST /appointments - Doctor not found: doctor_id=%s", req.DoctorID)
			handlers.RespondNotFound(w, msgDoctorNotFound)

		case errors.Is(err, reserveSlot.ErrServiceNotFound):
			h.logger.Warn("POST /appointments - Service not found: service_id=%s", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, reserveSlot.ErrPatientNotFound):
			h.logger.Warn("POST /appointments - Patient not found: patient_ref=%s", req.PatientRef)
			handlers.RespondNotFound(w, msgPatientNotFound)

		case errors.Is(err, schedule.ErrAmbiguousLocalTime):
			h.logger.Warn("POST /appointments - Ambiguous local time: doctor_id=%s, starts_at=%s", req.DoctorID, req.StartsAt)
			handlers.RespondBadRequest(w, msgAmbiguousTime)

		case errors.Is(err, reserveSlot.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /appointments - Failed to reserve slot: doctor_id=%s, error=%v", req.DoctorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Appointment created: appointment_id=%s, doctor_id=%s",
		result.ID, req.DoctorID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
