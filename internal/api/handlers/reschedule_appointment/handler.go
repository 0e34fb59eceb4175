package reschedule_appointment

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/clinicbot-ai/scheduling-service/internal/api/handlers"
	"github.com/clinicbot-ai/scheduling-service/internal/schedule"
	rescheduleAppointment "github.com/clinicbot-ai/scheduling-service/internal/usecase/reschedule_appointment"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidStartsAt      = "некорректный формат newStartsAt, ожидается ISO 8601"
	msgNotFound             = "запись не найдена"
	msgNotReschedulable     = "запись не может быть перенесена в текущем статусе"
	msgSlotConflict         = "новый временной слот уже занят"
	msgOutOfWindow          = "новый слот вне доступного окна бронирования"
	msgAmbiguousTime        = "локальное время не существует из-за перевода часов"
	msgBusy                 = "очередь бронирования занята, повторите попытку"

	retryAfterSeconds = 2
)

type Handler struct {
	useCase RescheduleAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase RescheduleAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments/{appointmentId}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	appointmentID, err := uuid.Parse(vars["appointmentId"])
	if err != nil {
		h.logger.Warn("POST /appointments/{id}/reschedule - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req RescheduleAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments/{id}/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(appointmentID)
	if err != nil {
		h.logger.Warn("POST /appointments/{id}/reschedule - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStartsAt)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, rescheduleAppointment.ErrAppointmentNotFound):
			h.logger.Warn("POST /appointments/{id}/reschedule - Appointment not found: appointment_id=%s", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, rescheduleAppointment.ErrNotReschedulable):
			h.logger.Warn("POST /appointments/{id}/reschedule - Not reschedulable: appointment_id=%s", appointmentID)
			handlers.RespondConflict(w, msgNotReschedulable)

		case errors.Is(err, rescheduleAppointment.ErrSlotConflict):
			h.logger.Warn("POST /appointments/{id}/reschedule - Slot conflict: appointment_id=%s", appointmentID)
			handlers.RespondConflict(w, msgSlotConflict)

		case errors.Is(err, rescheduleAppointment.ErrOutOfWindow):
			h.logger.Warn("POST /appointments/{id}/reschedule - Out of window: appointment_id=%s", appointmentID)
			handlers.RespondUnprocessable(w, msgOutOfWindow)

		case errors.Is(err, rescheduleAppointment.ErrBusy):
			h.logger.Warn("POST /appointments/{id}/reschedule - Busy: appointment_id=%s", appointmentID)
			handlers.RespondBusy(w, retryAfterSeconds, msgBusy)

		case errors.Is(err, schedule.ErrAmbiguousLocalTime):
			h.logger.Warn("POST /appointments/{id}/reschedule - Ambiguous local time: appointment_id=%s", appointmentID)
			handlers.RespondBadRequest(w, msgAmbiguousTime)

		case errors.Is(err, rescheduleAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments/{id}/reschedule - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /appointments/{id}/reschedule - Failed to reschedule: appointment_id=%s, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments/{id}/reschedule - Appointment rescheduled: old_id=%s, new_id=%s",
		appointmentID, result.ID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
