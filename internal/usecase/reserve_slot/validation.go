package reserve_slot

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicbot-ai/scheduling-service/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.DoctorID == uuid.Nil {
		return fmt.Errorf("%w: doctorID is required", ErrInvalidInput)
	}

	if req.ServiceID == uuid.Nil {
		return fmt.Errorf("%w: serviceID is required", ErrInvalidInput)
	}

	if req.PatientRef == "" {
		return fmt.Errorf("%w: patientRef is required", ErrInvalidInput)
	}

	if req.StartsAt.IsZero() {
		return fmt.Errorf("%w: startsAt is required", ErrInvalidInput)
	}

	if req.Status != nil {
		if *req.Status != domain.StatusPending && *req.Status != domain.StatusConfirmed {
			return fmt.Errorf("%w: status must be pending or confirmed", ErrInvalidInput)
		}
	}

	return nil
}

// validateWindow проверяет, что запрошенный слот — один из слотов, которые
// предложил бы генератор: лежит внутри открытого интервала целиком и его
// начало выровнено по сетке гранулярности от начала интервала.
func validateWindow(open []domain.Interval, candidate domain.Interval, step time.Duration) error {
	for _, o := range open {
		if !o.Contains(candidate) {
			continue
		}
		if candidate.Start.Sub(o.Start)%step != 0 {
			return fmt.Errorf("%w: start is not aligned to the %s grid", ErrOutOfWindow, step)
		}
		return nil
	}
	return fmt.Errorf("%w: slot does not fit the doctor's open hours", ErrOutOfWindow)
}

// validateLeadTime проверяет ограничения "не раньше now + lead time" и
// "не дальше advanceBookingDays от сегодняшней даты клиники"
func validateLeadTime(startsAt, now time.Time, policy *domain.SchedulingPolicy, loc *time.Location) error {
	earliest := now.Add(time.Duration(policy.LeadTimeMinutes) * time.Minute)
	if !startsAt.After(earliest) {
		return fmt.Errorf("%w: slot starts before the %d minute lead time", ErrOutOfWindow, policy.LeadTimeMinutes)
	}

	if !policy.HasAdvanceBookingLimit() {
		return nil
	}

	localToday := now.In(loc)
	maxDate := time.Date(localToday.Year(), localToday.Month(), localToday.Day(), 0, 0, 0, 0, time.UTC).
		AddDate(0, 0, policy.AdvanceBookingDays)
	localStart := startsAt.In(loc)
	startDate := time.Date(localStart.Year(), localStart.Month(), localStart.Day(), 0, 0, 0, 0, time.UTC)

	if startDate.After(maxDate) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrOutOfWindow, policy.AdvanceBookingDays)
	}

	return nil
}

// effectiveSlotLength полный след записи на таймлайне: длительность услуги
// плюс буферы (буферы услуги имеют приоритет над буферами политики)
func effectiveSlotLength(service *domain.Service, policy *domain.SchedulingPolicy) time.Duration {
	before := service.BufferBeforeMinutes
	if before == 0 {
		before = policy.BufferBeforeMinutes
	}
	after := service.BufferAfterMinutes
	if after == 0 {
		after = policy.BufferAfterMinutes
	}
	return time.Duration(service.DurationMinutes+before+after) * time.Minute
}
