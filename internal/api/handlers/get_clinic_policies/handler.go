package get_clinic_policies

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/clinicbot-ai/scheduling-service/internal/api/handlers"
	policyService "github.com/clinicbot-ai/scheduling-service/internal/service/policy"
)

const (
	msgInvalidClinicID  = "некорректный ID клиники"
	msgInvalidDoctorID  = "некорректный ID врача"
	msgInvalidServiceID = "некорректный ID услуги"
	msgClinicNotFound   = "клиника не найдена"
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

// Handle GET /api/v1/clinics/{clinicId}/policies
//
// Без query-параметров возвращает все настроенные строки политик. С
// параметрами doctorId/serviceId возвращает одну действующую политику для
// указанной области (с учетом иерархии и встроенных значений по умолчанию).
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	clinicID, err := uuid.Parse(vars["clinicId"])
	if err != nil {
		h.logger.Warn("GET /clinics/{id}/policies - Invalid clinic ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidClinicID)
		return
	}

	query := r.URL.Query()
	resolve := query.Has("doctorId") || query.Has("serviceId")

	var doctorID, serviceID *uuid.UUID
	if doctorStr := query.Get("doctorId"); doctorStr != "" {
		id, err := uuid.Parse(doctorStr)
		if err != nil {
			h.logger.Warn("GET /clinics/{id}/policies - Invalid doctor ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDoctorID)
			return
		}
		doctorID = &id
	}
	if serviceStr := query.Get("serviceId"); serviceStr != "" {
		id, err := uuid.Parse(serviceStr)
		if err != nil {
			h.logger.Warn("GET /clinics/{id}/policies - Invalid service ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidServiceID)
			return
		}
		serviceID = &id
	}

	var (
		result interface{}
		count  int
	)
	if resolve {
		policy, err := h.service.GetResolvedPolicy(r.Context(), clinicID, doctorID, serviceID)
		if err != nil {
			h.respondServiceError(w, clinicID, err)
			return
		}
		result = policy
		count = 1
	} else {
		policies, err := h.service.GetClinicPolicies(r.Context(), clinicID)
		if err != nil {
			h.respondServiceError(w, clinicID, err)
			return
		}
		result = policies
		count = len(policies.Policies)
	}

	h.logger.Info("GET /clinics/{id}/policies - %d policies returned: clinic_id=%s", count, clinicID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, clinicID uuid.UUID, err error) {
	switch {
	case errors.Is(err, policyService.ErrClinicNotFound):
		h.logger.Warn("GET /clinics/{id}/policies - Clinic not found: clinic_id=%s", clinicID)
		handlers.RespondNotFound(w, msgClinicNotFound)

	default:
		h.logger.Error("GET /clinics/{id}/policies - Failed to get policies: clinic_id=%s, error=%v", clinicID, err)
		handlers.RespondInternalError(w)
	}
}
