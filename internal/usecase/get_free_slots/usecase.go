package get_free_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clinicbot-ai/scheduling-service/internal/domain"
	catalogRepo "github.com/clinicbot-ai/scheduling-service/internal/infra/storage/catalog"
	policyRepo "github.com/clinicbot-ai/scheduling-service/internal/infra/storage/policy"
	"github.com/clinicbot-ai/scheduling-service/internal/schedule"
	"github.com/clinicbot-ai/scheduling-service/pkg/ptr"
)

// UseCase use case для получения свободных слотов врача на дату.
// Результат — чистая функция текущего состояния леджера: ничего не
// кэшируется, каждый запрос пересчитывает занятость заново.
type UseCase struct {
	ledger       AppointmentLedger
	catalog      CatalogRepository
	policies     PolicyRepository
	calendar     ScheduleCalendar
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	ledger AppointmentLedger,
	catalog CatalogRepository,
	policies PolicyRepository,
	calendar ScheduleCalendar,
	logger Logger,
) *UseCase {
	return &UseCase{
		ledger:       ledger,
		catalog:      catalog,
		policies:     policies,
		calendar:     calendar,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения свободных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetFreeSlots: doctor=%s, service=%s, date=%s",
		req.DoctorID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetFreeSlots: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Получаем врача
	doctor, err := uc.catalog.GetDoctor(ctx, req.DoctorID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrDoctorNotFound) {
			uc.logger.Warn("GetFreeSlots: doctor id=%s not found", req.DoctorID)
			return nil, ErrDoctorNotFound
		}
		uc.logger.Error("GetFreeSlots: failed to get doctor id=%s: %v", req.DoctorID, err)
		return nil, fmt.Errorf("%w: failed to get doctor: %v", ErrInternal, err)
	}

	// 3. Получаем клинику врача (нужна зона для календаря)
	clinic, err := uc.catalog.GetClinic(ctx, doctor.ClinicID)
	if err != nil {
		uc.logger.Error("GetFreeSlots: failed to get clinic id=%s: %v", doctor.ClinicID, err)
		return nil, fmt.Errorf("%w: failed to get clinic: %v", ErrInternal, err)
	}

	// 4. Получаем услугу и проверяем принадлежность клинике
	service, err := uc.catalog.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetFreeSlots: service id=%s not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetFreeSlots: failed to get service id=%s: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if service.ClinicID != doctor.ClinicID {
		uc.logger.Warn("GetFreeSlots: service id=%s belongs to another clinic", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	// 5. Получаем политику планирования с учетом иерархии
	policy, err := uc.policies.ResolvePolicy(ctx, clinic.ID, ptr.Ptr(req.DoctorID), ptr.Ptr(req.ServiceID))
	if err != nil && !errors.Is(err, policyRepo.ErrPolicyNotFound) {
		uc.logger.Error("GetFreeSlots: failed to resolve policy: %v", err)
		return nil, fmt.Errorf("%w: failed to resolve policy: %v", ErrInternal, err)
	}
	if policy == nil {
		policy = domain.DefaultPolicy(clinic.ID)
		uc.logger.Info("GetFreeSlots: using default policy for clinic=%s", clinic.ID)
	}

	// 6. Валидация даты в зоне клиники
	clock, err := schedule.ClockFor(clinic.Timezone)
	if err != nil {
		uc.logger.Error("GetFreeSlots: clinic id=%s has invalid timezone %q: %v", clinic.ID, clinic.Timezone, err)
		return nil, fmt.Errorf("%w: invalid clinic timezone: %v", ErrInternal, err)
	}
	localToday := now.In(clock.Location())
	if err := validateDate(req.Date, localToday, policy.AdvanceBookingDays); err != nil {
		uc.logger.Warn("GetFreeSlots: date validation failed: %v", err)
		return nil, err
	}

	// 7. Открытые интервалы календаря (закрытая дата — пустой список, не ошибка)
	open, err := uc.calendar.OpenIntervals(ctx, clinic, doctor.ID, req.Date)
	if err != nil {
		if errors.Is(err, schedule.ErrAmbiguousLocalTime) {
			uc.logger.Warn("GetFreeSlots: ambiguous local time on %s: %v", req.Date.Format(domain.DateFormat), err)
			return nil, err
		}
		uc.logger.Error("GetFreeSlots: failed to get open intervals: %v", err)
		return nil, fmt.Errorf("%w: failed to get open intervals: %v", ErrInternal, err)
	}

	if len(open) == 0 {
		uc.logger.Info("GetFreeSlots: doctor=%s has no open hours on %s", doctor.ID, req.Date.Format(domain.DateFormat))
		return uc.emptyResponse(req, clinic), nil
	}

	// 8. Занятость врача за день
	dayStart := open[0].Start
	dayEnd := open[len(open)-1].End
	busy, err := uc.ledger.ListByDoctorBetween(ctx, doctor.ID, dayStart, dayEnd, true)
	if err != nil {
		uc.logger.Error("GetFreeSlots: failed to list appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to list appointments: %v", ErrInternal, err)
	}

	// 9. Генерация свободных окон
	slotLen := effectiveSlotLength(service, policy)
	step := time.Duration(policy.GranularityMinutes) * time.Minute
	earliest := now.Add(time.Duration(policy.LeadTimeMinutes) * time.Minute)

	windows := buildFreeSlots(open, busy, slotLen, step, earliest)

	slots := make([]Slot, len(windows))
	for i, w := range windows {
		_, localStart := clock.ToLocal(w.Start)
		_, localEnd := clock.ToLocal(w.End)
		slots[i] = Slot{
			StartsAt:        w.Start,
			EndsAt:          w.End,
			LocalStart:      localStart,
			LocalEnd:        localEnd,
			DurationMinutes: int(slotLen / time.Minute),
		}
	}

	uc.logger.Info("GetFreeSlots: generated %d slots for doctor=%s, date=%s",
		len(slots), doctor.ID, req.Date.Format(domain.DateFormat))

	resp := uc.emptyResponse(req, clinic)
	resp.Slots = slots
	return resp, nil
}

func (uc *UseCase) emptyResponse(req *Request, clinic *domain.Clinic) *Response {
	return &Response{
		DoctorID:  req.DoctorID,
		ServiceID: req.ServiceID,
		Date:      req.Date.Format(domain.DateFormat),
		Timezone:  clinic.Timezone,
		Slots:     []Slot{},
	}
}
