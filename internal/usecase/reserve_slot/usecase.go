package reserve_slot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicbot-ai/scheduling-service/internal/domain"
	catalogRepo "github.com/clinicbot-ai/scheduling-service/internal/infra/storage/catalog"
	policyRepo "github.com/clinicbot-ai/scheduling-service/internal/infra/storage/policy"
	"github.com/clinicbot-ai/scheduling-service/internal/integrations/patientservice"
	"github.com/clinicbot-ai/scheduling-service/internal/schedule"
	"github.com/clinicbot-ai/scheduling-service/pkg/keymutex"
	"github.com/clinicbot-ai/scheduling-service/pkg/ptr"
)

// Outcome labels reported to ReservationObserver
const (
	outcomeSuccess  = "success"
	outcomeConflict = "conflict"
	outcomeBusy     = "busy"
	outcomeRejected = "rejected"
	outcomeError    = "error"
)

// UseCase use case бронирования слота. Последовательность "проверка
// пересечений — вставка" защищена дважды: per-doctor мьютексом с ограниченным
// ожиданием и serializable-транзакцией с блокировкой строк FOR UPDATE.
type UseCase struct {
	ledger       AppointmentLedger
	catalog      CatalogRepository
	policies     PolicyRepository
	calendar     ScheduleCalendar
	patients     PatientResolver
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
	patients PatientResolver,
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
		patients:     patients,
		txManager:    txManager,
		guard:        guard,
		observer:     observer,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		lockWait:     lockWait,
	}
}

// Execute выполняет use case бронирования слота
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ReserveSlot: doctor=%s, service=%s, startsAt=%s, patient=%s",
		req.DoctorID, req.ServiceID, req.StartsAt.Format(time.RFC3339), req.PatientRef)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ReserveSlot: validation failed: %v", err)
		uc.observer.ObserveReservation(outcomeRejected)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Справочные данные: врач, клиника, услуга
	doctor, clinic, service, err := uc.loadCatalog(ctx, req)
	if err != nil {
		uc.observer.ObserveReservation(outcomeRejected)
		return nil, err
	}

	// 3. Политика планирования
	policy, err := uc.policies.ResolvePolicy(ctx, clinic.ID, ptr.Ptr(req.DoctorID), ptr.Ptr(req.ServiceID))
	if err != nil && !errors.Is(err, policyRepo.ErrPolicyNotFound) {
		uc.logger.Error("ReserveSlot: failed to resolve policy: %v", err)
		uc.observer.ObserveReservation(outcomeError)
		return nil, fmt.Errorf("%w: failed to resolve policy: %v", ErrInternal, err)
	}
	if policy == nil {
		policy = domain.DefaultPolicy(clinic.ID)
	}

	// 4. Проверка окна бронирования
	clock, err := schedule.ClockFor(clinic.Timezone)
	if err != nil {
		uc.logger.Error("ReserveSlot: clinic id=%s has invalid timezone %q: %v", clinic.ID, clinic.Timezone, err)
		uc.observer.ObserveReservation(outcomeError)
		return nil, fmt.Errorf("%w: invalid clinic timezone: %v", ErrInternal, err)
	}

	slotLen := effectiveSlotLength(service, policy)
	candidate := domain.Interval{Start: req.StartsAt, End: req.StartsAt.Add(slotLen)}

	if err := validateLeadTime(req.StartsAt, now, policy, clock.Location()); err != nil {
		uc.logger.Warn("ReserveSlot: lead time check failed: %v", err)
		uc.observer.ObserveReservation(outcomeRejected)
		return nil, err
	}

	localStart := req.StartsAt.In(clock.Location())
	date := time.Date(localStart.Year(), localStart.Month(), localStart.Day(), 0, 0, 0, 0, time.UTC)

	open, err := uc.calendar.OpenIntervals(ctx, clinic, doctor.ID, date)
	if err != nil {
		if errors.Is(err, schedule.ErrAmbiguousLocalTime) {
			uc.logger.Warn("ReserveSlot: ambiguous local time on %s: %v", date.Format(domain.DateFormat), err)
			uc.observer.ObserveReservation(outcomeRejected)
			return nil, err
		}
		uc.logger.Error("ReserveSlot: failed to get open intervals: %v", err)
		uc.observer.ObserveReservation(outcomeError)
		return nil, fmt.Errorf("%w: failed to get open intervals: %v", ErrInternal, err)
	}

	step := time.Duration(policy.GranularityMinutes) * time.Minute
	if err := validateWindow(open, candidate, step); err != nil {
		uc.logger.Warn("ReserveSlot: window check failed: %v", err)
		uc.observer.ObserveReservation(outcomeRejected)
		return nil, err
	}

	// 5. Карточка пациента (graceful degradation: бронируем и без нее)
	var patientName *string
	patient, err := uc.patients.GetPatientWithGracefulDegradation(ctx, req.PatientRef)
	switch {
	case err == nil:
		patientName = ptr.Ptr(patient.Name)
	case errors.Is(err, patientservice.ErrPatientNotFound):
		uc.logger.Warn("ReserveSlot: patient ref=%s not found", req.PatientRef)
		uc.observer.ObserveReservation(outcomeRejected)
		return nil, ErrPatientNotFound
	default:
		uc.logger.Warn("ReserveSlot: proceeding without patient record for ref=%s: %v", req.PatientRef, err)
	}

	// 6. Конфликтная секция: per-doctor лок с ограниченным ожиданием
	release, err := uc.guard.Lock(ctx, doctor.ID.String(), uc.lockWait)
	if err != nil {
		if errors.Is(err, keymutex.ErrLockTimeout) {
			uc.logger.Warn("ReserveSlot: doctor=%s queue busy for %s", doctor.ID, uc.lockWait)
			uc.observer.ObserveReservation(outcomeBusy)
			return nil, ErrBusy
		}
		uc.observer.ObserveReservation(outcomeError)
		return nil, fmt.Errorf("%w: failed to acquire doctor lock: %v", ErrInternal, err)
	}
	defer release()

	status := domain.StatusConfirmed
	if req.Status != nil {
		status = *req.Status
	}

	appt := &domain.Appointment{
		ID:          uuid.New(),
		ClinicID:    clinic.ID,
		DoctorID:    doctor.ID,
		ServiceID:   service.ID,
		PatientRef:  req.PatientRef,
		StartsAt:    candidate.Start,
		EndsAt:      candidate.End,
		Status:      status,
		ServiceName: ptr.Ptr(service.Name),
		PatientName: patientName,
		Notes:       req.Notes,
	}

	// 7. Проверка пересечений и вставка в одной serializable-транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		overlapping, err := uc.ledger.ListActiveOverlapping(txCtx, doctor.ID, candidate.Start, candidate.End)
		if err != nil {
			return fmt.Errorf("%w: failed to check overlapping appointments: %v", ErrInternal, err)
		}
		if len(overlapping) > 0 {
			uc.logger.Info("ReserveSlot: doctor=%s slot %s already taken by %d appointment(s)",
				doctor.ID, candidate.Start.Format(time.RFC3339), len(overlapping))
			return ErrSlotConflict
		}

		created, err := uc.ledger.Create(txCtx, appt)
		if err != nil {
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}
		appt = created
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSlotConflict) {
			uc.observer.ObserveReservation(outcomeConflict)
			return nil, ErrSlotConflict
		}
		uc.logger.Error("ReserveSlot: transaction failed: %v", err)
		uc.observer.ObserveReservation(outcomeError)
		if errors.Is(err, ErrInternal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: reservation transaction: %v", ErrInternal, err)
	}

	uc.logger.Info("ReserveSlot: created appointment id=%s, doctor=%s, slot=[%s, %s)",
		appt.ID, doctor.ID, appt.StartsAt.Format(time.RFC3339), appt.EndsAt.Format(time.RFC3339))
	uc.observer.ObserveReservation(outcomeSuccess)

	return newResponse(appt), nil
}

// loadCatalog загружает врача, его клинику и услугу, проверяя согласованность
func (uc *UseCase) loadCatalog(ctx context.Context, req *Request) (*domain.Doctor, *domain.Clinic, *domain.Service, error) {
	doctor, err := uc.catalog.GetDoctor(ctx, req.DoctorID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrDoctorNotFound) {
			uc.logger.Warn("ReserveSlot: doctor id=%s not found", req.DoctorID)
			return nil, nil, nil, ErrDoctorNotFound
		}
		uc.logger.Error("ReserveSlot: failed to get doctor id=%s: %v", req.DoctorID, err)
		return nil, nil, nil, fmt.Errorf("%w: failed to get doctor: %v", ErrInternal, err)
	}

	clinic, err := uc.catalog.GetClinic(ctx, doctor.ClinicID)
	if err != nil {
		uc.logger.Error("ReserveSlot: failed to get clinic id=%s: %v", doctor.ClinicID, err)
		return nil, nil, nil, fmt.Errorf("%w: failed to get clinic: %v", ErrInternal, err)
	}

	service, err := uc.catalog.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("ReserveSlot: service id=%s not found", req.ServiceID)
			return nil, nil, nil, ErrServiceNotFound
		}
		uc.logger.Error("ReserveSlot: failed to get service id=%s: %v", req.ServiceID, err)
		return nil, nil, nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if service.ClinicID != doctor.ClinicID {
		uc.logger.Warn("ReserveSlot: service id=%s belongs to another clinic", req.ServiceID)
		return nil, nil, nil, ErrServiceNotFound
	}

	return doctor, clinic, service, nil
}
