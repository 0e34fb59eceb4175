package update_clinic_policy

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/clinicbot-ai/scheduling-service/internal/api/handlers"
	policyService "github.com/clinicbot-ai/scheduling-service/internal/service/policy"
)

const (
	msgInvalidClinicID    = "некорректный ID клиники"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgClinicNotFound     = "клиника не найдена"
	msgDoctorNotFound     = "врач не найден"
	msgServiceNotFound    = "услуга не найдена"
	msgInvalidPolicy      = "некорректные значения политики"
)

type Handler struct {
	service PolicyService
	logger  Logger
}

func NewHandler(service PolicyService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/clinics/{clinicId}/policies
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	clinicID, err := uuid.Parse(vars["clinicId"])
	if err != nil {
		h.logger.Warn("PUT /clinics/{id}/policies - Invalid clinic ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidClinicID)
		return
	}

	var req UpdatePolicyRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /clinics/{id}/policies - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.UpsertPolicy(r.Context(), req.ToServiceRequest(clinicID))
	if err != nil {
		switch {
		case errors.Is(err, policyService.ErrClinicNotFound):
			h.logger.Warn("PUT /clinics/{id}/policies - Clinic not found: clinic_id=%s", clinicID)
			handlers.RespondNotFound(w, msgClinicNotFound)

		case errors.Is(err, policyService.ErrDoctorNotFound):
			h.logger.Warn("PUT /clinics/{id}/policies - Doctor not found: clinic_id=%s", clinicID)
			handlers.RespondNotFound(w, msgDoctorNotFound)

		case errors.Is(err, policyService.ErrServiceNotFound):
			h.logger.Warn("PUT /clinics/{id}/policies - Service not found: clinic_id=%s", clinicID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, policyService.ErrInvalidInput):
			h.logger.Warn("PUT /clinics/{id}/policies - Invalid policy: clinic_id=%s, error=%v", clinicID, err)
			handlers.RespondBadRequest(w, msgInvalidPolicy)

		default:
			h.logger.Error("PUT /clinics/{id}/policies - Failed to upsert policy: clinic_id=%s, error=%v",
				clinicID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /clinics/{id}/policies - Policy upserted: policy_id=%d, clinic_id=%s", result.ID, clinicID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
