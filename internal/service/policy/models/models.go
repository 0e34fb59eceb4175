package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicbot-ai/scheduling-service/internal/domain"
)

// Request модели

// UpsertPolicyRequest запрос на создание/обновление политики планирования.
// Nil DoctorID/ServiceID задают политику для всех врачей / всех услуг.
type UpsertPolicyRequest struct {
	ClinicID  uuid.UUID  `json:"clinicId"`
	DoctorID  *uuid.UUID `json:"doctorId,omitempty"`
	ServiceID *uuid.UUID `json:"serviceId,omitempty"`

	GranularityMinutes  int `json:"granularityMinutes"`
	LeadTimeMinutes     int `json:"leadTimeMinutes"`
	AdvanceBookingDays  int `json:"advanceBookingDays"`
	BufferBeforeMinutes int `json:"bufferBeforeMinutes"`
	BufferAfterMinutes  int `json:"bufferAfterMinutes"`
}

// Validate проверяет значения против бизнес-ограничений
func (r *UpsertPolicyRequest) Validate() error {
	if r.ClinicID == uuid.Nil {
		return fmt.Errorf("clinicId is required")
	}
	if r.GranularityMinutes < domain.MinGranularityMinutes || r.GranularityMinutes > domain.MaxGranularityMinutes {
		return fmt.Errorf("granularityMinutes must be between %d and %d",
			domain.MinGranularityMinutes, domain.MaxGranularityMinutes)
	}
	if r.LeadTimeMinutes < domain.MinLeadTimeMinutes || r.LeadTimeMinutes > domain.MaxLeadTimeMinutes {
		return fmt.Errorf("leadTimeMinutes must be between %d and %d",
			domain.MinLeadTimeMinutes, domain.MaxLeadTimeMinutes)
	}
	if r.AdvanceBookingDays < domain.MinAdvanceBookingDays || r.AdvanceBookingDays > domain.MaxAdvanceBookingDays {
		return fmt.Errorf("advanceBookingDays must be between %d and %d",
			domain.MinAdvanceBookingDays, domain.MaxAdvanceBookingDays)
	}
	if r.BufferBeforeMinutes < domain.MinBufferMinutes || r.BufferBeforeMinutes > domain.MaxBufferMinutes {
		return fmt.Errorf("bufferBeforeMinutes must be between %d and %d",
			domain.MinBufferMinutes, domain.MaxBufferMinutes)
	}
	if r.BufferAfterMinutes < domain.MinBufferMinutes || r.BufferAfterMinutes > domain.MaxBufferMinutes {
		return fmt.Errorf("bufferAfterMinutes must be between %d and %d",
			domain.MinBufferMinutes, domain.MaxBufferMinutes)
	}
	return nil
}

// ToDomain конвертирует request в domain модель
func (r *UpsertPolicyRequest) ToDomain() *domain.SchedulingPolicy {
	return &domain.SchedulingPolicy{
		ClinicID:            r.ClinicID,
		DoctorID:            r.DoctorID,
		ServiceID:           r.ServiceID,
		GranularityMinutes:  r.GranularityMinutes,
		LeadTimeMinutes:     r.LeadTimeMinutes,
		AdvanceBookingDays:  r.AdvanceBookingDays,
		BufferBeforeMinutes: r.BufferBeforeMinutes,
		BufferAfterMinutes:  r.BufferAfterMinutes,
	}
}

// Response модели

// PolicyResponse ответ с данными политики
type PolicyResponse struct {
	ID        int64      `json:"id"`
	ClinicID  uuid.UUID  `json:"clinicId"`
	DoctorID  *uuid.UUID `json:"doctorId,omitempty"`
	ServiceID *uuid.UUID `json:"serviceId,omitempty"`

	GranularityMinutes  int `json:"granularityMinutes"`
	LeadTimeMinutes     int `json:"leadTimeMinutes"`
	AdvanceBookingDays  int `json:"advanceBookingDays"`
	BufferBeforeMinutes int `json:"bufferBeforeMinutes"`
	BufferAfterMinutes  int `json:"bufferAfterMinutes"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PolicyListResponse ответ со списком политик клиники
type PolicyListResponse struct {
	Policies []PolicyResponse `json:"policies"`
}

// Методы конвертации

// FromDomainPolicy конвертирует domain модель в DTO
func FromDomainPolicy(p *domain.SchedulingPolicy) *PolicyResponse {
	if p == nil {
		return nil
	}

	return &PolicyResponse{
		ID:                  p.ID,
		ClinicID:            p.ClinicID,
		DoctorID:            p.DoctorID,
		ServiceID:           p.ServiceID,
		GranularityMinutes:  p.GranularityMinutes,
		LeadTimeMinutes:     p.LeadTimeMinutes,
		AdvanceBookingDays:  p.AdvanceBookingDays,
		BufferBeforeMinutes: p.BufferBeforeMinutes,
		BufferAfterMinutes:  p.BufferAfterMinutes,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}

// FromDomainPolicyList конвертирует список domain моделей в DTO
func FromDomainPolicyList(policies []*domain.SchedulingPolicy) *PolicyListResponse {
	if policies == nil {
		return &PolicyListResponse{Policies: []PolicyResponse{}}
	}

	resp := &PolicyListResponse{
		Policies: make([]PolicyResponse, len(policies)),
	}
	for i, p := range policies {
		if policyResp := FromDomainPolicy(p); policyResp != nil {
			resp.Policies[i] = *policyResp
		}
	}
	return resp
}
