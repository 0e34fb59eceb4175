package get_patient_appointments

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/clinicbot-ai/scheduling-service/internal/api/handlers"
	"github.com/clinicbot-ai/scheduling-service/internal/service/appointments"
)

const (
	msgMissingPatientRef = "отсутствует ссылка на пациента"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/patients/{patientRef}/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	patientRef := vars["patientRef"]
	if patientRef == "" {
		h.logger.Warn("GET /patients/{ref}/appointments - Missing patient ref")
		handlers.RespondBadRequest(w, msgMissingPatientRef)
		return
	}

	result, err := h.service.GetPatientAppointments(r.Context(), patientRef)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /patients/{ref}/appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgMissingPatientRef)

		default:
			h.logger.Error("GET /patients/{ref}/appointments - Failed to get appointments: patient_ref=%s, error=%v",
				patientRef, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /patients/{ref}/appointments - %d appointments returned: patient_ref=%s",
		len(result.Appointments), patientRef)
	handlers.RespondJSON(w, http.StatusOK, result)
}
