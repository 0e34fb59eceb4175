package domain

import "github.com/google/uuid"

// Clinic is the tenant owning doctors, services and the schedule.
// Timezone is an IANA zone name; all working hours and closures are local to it.
type Clinic struct {
	ID       uuid.UUID
	Name     string
	Timezone string
}

// Doctor is a bookable practitioner
type Doctor struct {
	ID        uuid.UUID
	ClinicID  uuid.UUID
	Name      string
	Specialty string
	Active    bool
}

// Service describes a bookable procedure and how much timeline it occupies
type Service struct {
	ID                  uuid.UUID
	ClinicID            uuid.UUID
	Name                string
	DurationMinutes     int
	BufferBeforeMinutes int
	BufferAfterMinutes  int
	Active              bool
}

// SlotLengthMinutes returns the total timeline footprint of one appointment:
// service duration plus both buffers
func (s *Service) SlotLengthMinutes() int {
	return s.DurationMinutes + s.BufferBeforeMinutes + s.BufferAfterMinutes
}
