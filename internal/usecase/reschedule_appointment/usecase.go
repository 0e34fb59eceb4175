package reschedule_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicbot-ai/scheduling-service/internal/domain"
	appointmentRepo "github.com/clinicbot-ai/scheduling-service/internal/infra/storage/appointment"
	policyRepo "github.com/clinicbot-ai/scheduling-service/internal/infra/storage/policy"
	"github.com/clinicbot-ai/scheduling-service/internal/schedule"
	"github.com/clinicbot-ai/scheduling-service/pkg/keymutex"
	"github.com/clinicbot-ai/scheduling-service/pkg/ptr"
)

const defaultRescheduleReason = "rescheduled"

// UseCase use case переноса записи: отмена старой и создание новой происходят
// в одной serializable-транзакции под per-doctor локом, поэтому промежуточное
// состояние "обе записи активны" или "обе отменены" снаружи не наблюдаемо.
// Перенос возможен только к тому же врачу.
type UseCase struct {
	ledger       AppointmentLedger
	catalog      CatalogRepository
	policies     PolicyRepository
	calendar     ScheduleCalendar
	txManager    TransactionManager
	guard        DoctorGuard
	observer     ReservationObserver
	timeProvider TimeProvider
	logger       Logger
	lockWait     time.Duration
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	ledger AppointmentLedger,
	catalog CatalogRepository,
	policies PolicyRepository,
	calendar ScheduleCalendar,
	txManager TransactionManager,
	guard DoctorGuard,
	observer ReservationObserver,
	lockWait time.Duration,
	logger Logger,
) *UseCase {
	if lockWait <= 0 {
		lockWait = domain.DefaultGuardLockWait
	}
	return &UseCase{
		ledger:       ledger,
		catalog:      catalog,
		policies:     policies,
		calendar:     calendar,
		txManager:    txManager,
		guard:        guard,
		observer:     observer,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		lockWait:     lockWait,
	}
}

// Execute выполняет use case переноса записи
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleAppointment: appointment=%s, newStartsAt=%s",
		req.AppointmentID, req.NewStartsAt.Format(time.RFC3339))

	// 1. Валидация входных данных
	if req.AppointmentID == uuid.Nil {
		return nil, fmt.Errorf("%w: appointmentID is required", ErrInvalidInput)
	}
	if req.NewStartsAt.IsZero() {
		return nil, fmt.Errorf("%w: newStartsAt is required", ErrInvalidInput)
	}

	now := uc.timeProvider.Now()

	// 2. Исходная запись
	old, err := uc.ledger.GetByID(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("RescheduleAppointment: appointment id=%s not found", req.AppointmentID)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("RescheduleAppointment: failed to get appointment id=%s: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
	}
	if !old.IsActive() {
		uc.logger.Warn("RescheduleAppointment: appointment id=%s is %s, not reschedulable", old.ID, old.Status)
		return nil, fmt.Errorf("%w: status is %s", ErrNotReschedulable, old.Status)
	}

	// 3. Справочные данные по исходной записи
	doctor, err := uc.catalog.GetDoctor(ctx, old.DoctorID)
	if err != nil {
		uc.logger.Error("RescheduleAppointment: failed to get doctor id=%s: %v", old.DoctorID, err)
		return nil, fmt.Errorf("%w: failed to get doctor: %v", ErrInternal, err)
	}
	clinic, err := uc.catalog.GetClinic(ctx, old.ClinicID)
	if err != nil {
		uc.logger.Error("RescheduleAppointment: failed to get clinic id=%s: %v", old.ClinicID, err)
		return nil, fmt.Errorf("%w: failed to get clinic: %v", ErrInternal, err)
	}
	service, err := uc.catalog.GetService(ctx, old.ServiceID)
	if err != nil {
		uc.logger.Error("RescheduleAppointment: failed to get service id=%s: %v", old.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 4. Политика и окно для нового слота
	policy, err := uc.policies.ResolvePolicy(ctx, clinic.ID, ptr.Ptr(old.DoctorID), ptr.Ptr(old.ServiceID))
	if err != nil && !errors.Is(err, policyRepo.ErrPolicyNotFound) {
		uc.logger.Error("RescheduleAppointment: failed to resolve policy: %v", err)
		return nil, fmt.Errorf("%w: failed to resolve policy: %v", ErrInternal, err)
	}
	if policy == nil {
		policy = domain.DefaultPolicy(clinic.ID)
	}

	clock, err := schedule.ClockFor(clinic.Timezone)
	if err != nil {
		uc.logger.Error("RescheduleAppointment: clinic id=%s has invalid timezone %q: %v", clinic.ID, clinic.Timezone, err)
		return nil, fmt.Errorf("%w: invalid clinic timezone: %v", ErrInternal, err)
	}

	slotLen := effectiveSlotLength(service, policy)
	candidate := domain.Interval{Start: req.NewStartsAt, End: req.NewStartsAt.Add(slotLen)}

	if err := validateLeadTime(req.NewStartsAt, now, policy, clock.Location()); err != nil {
		uc.logger.Warn("RescheduleAppointment: lead time check failed: %v", err)
		return nil, err
	}

	localStart := req.NewStartsAt.In(clock.Location())
	date := time.Date(localStart.Year(), localStart.Month(), localStart.Day(), 0, 0, 0, 0, time.UTC)

	open, err := uc.calendar.OpenIntervals(ctx, clinic, doctor.ID, date)
	if err != nil {
		if errors.Is(err, schedule.ErrAmbiguousLocalTime) {
			uc.logger.Warn("RescheduleAppointment: ambiguous local time on %s: %v", date.Format(domain.DateFormat), err)
			return nil, err
		}
		uc.logger.Error("RescheduleAppointment: failed to get open intervals: %v", err)
		return nil, fmt.Errorf("%w: failed to get open intervals: %v", ErrInternal, err)
	}

	step := time.Duration(policy.GranularityMinutes) * time.Minute
	if err := validateWindow(open, candidate, step); err != nil {
		uc.logger.Warn("RescheduleAppointment: window check failed: %v", err)
		return nil, err
	}

	// 5. Конфликтная секция под per-doctor локом
	release, err := uc.guard.Lock(ctx, doctor.ID.String(), uc.lockWait)
	if err != nil {
		if errors.Is(err, keymutex.ErrLockTimeout) {
			uc.logger.Warn("RescheduleAppointment: doctor=%s queue busy for %s", doctor.ID, uc.lockWait)
			uc.observer.ObserveReservation("busy")
			return nil, ErrBusy
		}
		return nil, fmt.Errorf("%w: failed to acquire doctor lock: %v", ErrInternal, err)
	}
	defer release()

	reason := defaultRescheduleReason
	if req.Reason != nil && *req.Reason != "" {
		reason = *req.Reason
	}

	replacement := &domain.Appointment{
		ID:          uuid.New(),
		ClinicID:    old.ClinicID,
		DoctorID:    old.DoctorID,
		ServiceID:   old.ServiceID,
		PatientRef:  old.PatientRef,
		StartsAt:    candidate.Start,
		EndsAt:      candidate.End,
		Status:      old.Status,
		ServiceName: old.ServiceName,
		PatientName: old.PatientName,
		Notes:       old.Notes,
	}

	// 6. Отмена старой и вставка новой в одной serializable-транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// Перечитываем под транзакцией: запись могли отменить параллельно
		current, err := uc.ledger.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("%w: failed to re-read appointment: %v", ErrInternal, err)
		}
		if !current.IsActive() {
			return fmt.Errorf("%w: status is %s", ErrNotReschedulable, current.Status)
		}

		overlapping, err := uc.ledger.ListActiveOverlapping(txCtx, doctor.ID, candidate.Start, candidate.End)
		if err != nil {
			return fmt.Errorf("%w: failed to check overlapping appointments: %v", ErrInternal, err)
		}
		for _, appt := range overlapping {
			// Старая запись не конкурирует сама с собой: перенос на
			// пересекающийся со старым временем слот допустим
			if appt.ID != current.ID {
				return ErrSlotConflict
			}
		}

		if err := uc.ledger.Cancel(txCtx, current.ID, reason); err != nil {
			return fmt.Errorf("%w: failed to cancel old appointment: %v", ErrInternal, err)
		}

		created, err := uc.ledger.Create(txCtx, replacement)
		if err != nil {
			return fmt.Errorf("%w: failed to create replacement: %v", ErrInternal, err)
		}
		replacement = created
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrSlotConflict):
			uc.observer.ObserveReservation("conflict")
			return nil, ErrSlotConflict
		case errors.Is(err, ErrAppointmentNotFound), errors.Is(err, ErrNotReschedulable):
			return nil, err
		}
		uc.logger.Error("RescheduleAppointment: transaction failed: %v", err)
		uc.observer.ObserveReservation("error")
		if errors.Is(err, ErrInternal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: reschedule transaction: %v", ErrInternal, err)
	}

	uc.logger.Info("RescheduleAppointment: appointment id=%s replaced by id=%s, slot=[%s, %s)",
		old.ID, replacement.ID, replacement.StartsAt.Format(time.RFC3339), replacement.EndsAt.Format(time.RFC3339))
	uc.observer.ObserveReservation("success")

	return newResponse(replacement, old.ID), nil
}
