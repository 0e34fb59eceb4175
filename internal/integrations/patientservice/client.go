package patientservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с PatientService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента PatientService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetPatient resolves a patient reference to the patient record
func (c *Client) GetPatient(ctx context.Context, patientRef string) (*Patient, error) {
	u := fmt.Sprintf("%s/internal/patients/%s", c.baseURL, url.PathEscape(patientRef))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusBadRequest:
		return nil, fmt.Errorf("%w: invalid patient reference format", ErrInvalidResponse)
	case http.StatusNotFound:
		return nil, ErrPatientNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var patient Patient
	if err := json.NewDecoder(resp.Body).Decode(&patient); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &patient, nil
}

// GetPatientWithGracefulDegradation resolves a patient reference, degrading
// gracefully when PatientService is unavailable: the booking flow proceeds
// with the bare reference and ErrServiceDegraded tells the caller why.
func (c *Client) GetPatientWithGracefulDegradation(ctx context.Context, patientRef string) (*Patient, error) {
	patient, err := c.GetPatient(ctx, patientRef)
	if err != nil {
		if err == ErrPatientNotFound {
			c.log.Info("No patient record found for ref=%s", patientRef)
			return nil, err
		}

		// Сервис недоступен - бронирование не должно от него зависеть
		c.log.Error("PatientService unavailable, applying graceful degradation for ref=%s: %v", patientRef, err)
		return nil, fmt.Errorf("%w: ref=%s, error=%v", ErrServiceDegraded, patientRef, err)
	}

	return patient, nil
}
