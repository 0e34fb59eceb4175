package get_doctor_appointments

import (
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/clinicbot-ai/scheduling-service/internal/domain"
	"github.com/clinicbot-ai/scheduling-service/internal/service/appointments/models"
)

// ParseQuery собирает модель сервиса из query-параметров.
// Поддерживаются: from=YYYY-MM-DD, to=YYYY-MM-DD, status, includeInactive.
func ParseQuery(doctorID uuid.UUID, query url.Values) (*models.GetDoctorAppointmentsRequest, error) {
	req := &models.GetDoctorAppointmentsRequest{DoctorID: doctorID}

	if fromStr := query.Get("from"); fromStr != "" {
		from, err := time.Parse(domain.DateFormat, fromStr)
		if err != nil {
			return nil, err
		}
		req.From = &from
	}

	if toStr := query.Get("to"); toStr != "" {
		to, err := time.Parse(domain.DateFormat, toStr)
		if err != nil {
			return nil, err
		}
		// Верхняя граница эксклюзивная: включаем весь день to
		end := to.AddDate(0, 0, 1)
		req.To = &end
	}

	if statusStr := query.Get("status"); statusStr != "" {
		req.Status = &statusStr
	}

	if includeStr := query.Get("includeInactive"); includeStr != "" {
		include, err := strconv.ParseBool(includeStr)
		if err != nil {
			return nil, err
		}
		req.IncludeInactive = include
	}

	return req, nil
}
