package domain

import (
	"time"

	"github.com/google/uuid"
)

// SchedulingPolicy holds the tunables of slot generation and booking rules.
// Supports hierarchical configuration:
// 1. Service with specific doctor (clinic_id, doctor_id, service_id)
// 2. Doctor-wide (clinic_id, doctor_id, NULL)
// 3. Service-wide (clinic_id, NULL, service_id)
// 4. Clinic-wide (clinic_id, NULL, NULL)
type SchedulingPolicy struct {
	ID        int64
	ClinicID  uuid.UUID
	DoctorID  *uuid.UUID // NULL = policy for all doctors
	ServiceID *uuid.UUID // NULL = policy for all services

	GranularityMinutes  int // slot-start stepping, independent of service duration
	LeadTimeMinutes     int // minimum notice between "now" and a bookable start
	AdvanceBookingDays  int // 0 = unlimited
	BufferBeforeMinutes int // defaults when the service does not override
	BufferAfterMinutes  int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsClinicWide returns true for the lowest-priority policy level
func (p *SchedulingPolicy) IsClinicWide() bool {
	return p.DoctorID == nil && p.ServiceID == nil
}

// IsDoctorSpecific returns true if the policy targets one doctor for all services
func (p *SchedulingPolicy) IsDoctorSpecific() bool {
	return p.DoctorID != nil && p.ServiceID == nil
}

// IsServiceSpecific returns true if the policy targets one service for all doctors
func (p *SchedulingPolicy) IsServiceSpecific() bool {
	return p.DoctorID == nil && p.ServiceID != nil
}

// HasAdvanceBookingLimit reports whether bookings are limited to a future window
func (p *SchedulingPolicy) HasAdvanceBookingLimit() bool {
	return p.AdvanceBookingDays > 0
}

// DefaultPolicy returns the built-in policy used when a clinic has no
// configured rows
func DefaultPolicy(clinicID uuid.UUID) *SchedulingPolicy {
	return &SchedulingPolicy{
		ClinicID:           clinicID,
		GranularityMinutes: DefaultGranularityMinutes,
		LeadTimeMinutes:    DefaultLeadTimeMinutes,
		AdvanceBookingDays: DefaultAdvanceBookingDays,
	}
}
