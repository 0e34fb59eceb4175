package policy

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinicbot-ai/scheduling-service/internal/domain"
	catalogRepo "github.com/clinicbot-ai/scheduling-service/internal/infra/storage/catalog"
	policyRepo "github.com/clinicbot-ai/scheduling-service/internal/infra/storage/policy"
	"github.com/clinicbot-ai/scheduling-service/internal/service/policy/models"
)

// Service сервис для работы с политиками планирования
type Service struct {
	policyRepo  PolicyRepository
	catalogRepo CatalogRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса политик
func NewService(
	policyRepo PolicyRepository,
	catalogRepo CatalogRepository,
	logger Logger,
) *Service {
	return &Service{
		policyRepo:  policyRepo,
		catalogRepo: catalogRepo,
		logger:      logger,
	}
}

// GetClinicPolicies возвращает все политики, настроенные для клиники
func (s *Service) GetClinicPolicies(ctx context.Context, clinicID uuid.UUID) (*models.PolicyListResponse, error) {
	s.logger.Info("GetClinicPolicies: fetching policies for clinic=%s", clinicID)

	if _, err := s.catalogRepo.GetClinic(ctx, clinicID); err != nil {
		if errors.Is(err, catalogRepo.ErrClinicNotFound) {
			s.logger.Warn("GetClinicPolicies: clinic id=%s not found", clinicID)
			return nil, ErrClinicNotFound
		}
		s.logger.Error("GetClinicPolicies: failed to get clinic id=%s: %v", clinicID, err)
		return nil, fmt.Errorf("%w: GetClinicPolicies - failed to get clinic: %v", ErrInternal, err)
	}

	policies, err := s.policyRepo.ListByClinic(ctx, clinicID)
	if err != nil {
		s.logger.Error("GetClinicPolicies: repository error for clinic=%s: %v", clinicID, err)
		return nil, fmt.Errorf("%w: GetClinicPolicies - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetClinicPolicies: successfully fetched %d policies for clinic=%s", len(policies), clinicID)
	return models.FromDomainPolicyList(policies), nil
}

// GetResolvedPolicy возвращает действующую политику для заданной области с
// учетом иерархии; при отсутствии настроенных строк — встроенные значения
func (s *Service) GetResolvedPolicy(ctx context.Context, clinicID uuid.UUID, doctorID, serviceID *uuid.UUID) (*models.PolicyResponse, error) {
	s.logger.Info("GetResolvedPolicy: resolving policy for clinic=%s", clinicID)

	if _, err := s.catalogRepo.GetClinic(ctx, clinicID); err != nil {
		if errors.Is(err, catalogRepo.ErrClinicNotFound) {
			s.logger.Warn("GetResolvedPolicy: clinic id=%s not found", clinicID)
			return nil, ErrClinicNotFound
		}
		s.logger.Error("GetResolvedPolicy: failed to get clinic id=%s: %v", clinicID, err)
		return nil, fmt.Errorf("%w: GetResolvedPolicy - failed to get clinic: %v", ErrInternal, err)
	}

	policy, err := s.policyRepo.ResolvePolicy(ctx, clinicID, doctorID, serviceID)
	if err != nil {
		if errors.Is(err, policyRepo.ErrPolicyNotFound) {
			s.logger.Info("GetResolvedPolicy: no configured policy for clinic=%s, using defaults", clinicID)
			return models.FromDomainPolicy(domain.DefaultPolicy(clinicID)), nil
		}
		s.logger.Error("GetResolvedPolicy: repository error for clinic=%s: %v", clinicID, err)
		return nil, fmt.Errorf("%w: GetResolvedPolicy - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainPolicy(policy), nil
}

// UpsertPolicy создает или обновляет политику для ее точной области действия
func (s *Service) UpsertPolicy(ctx context.Context, req *models.UpsertPolicyRequest) (*models.PolicyResponse, error) {
	s.logger.Info("UpsertPolicy: upserting policy for clinic=%s", req.ClinicID)

	if err := req.Validate(); err != nil {
		s.logger.Warn("UpsertPolicy: validation failed for clinic=%s: %v", req.ClinicID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if _, err := s.catalogRepo.GetClinic(ctx, req.ClinicID); err != nil {
		if errors.Is(err, catalogRepo.ErrClinicNotFound) {
			s.logger.Warn("UpsertPolicy: clinic id=%s not found", req.ClinicID)
			return nil, ErrClinicNotFound
		}
		s.logger.Error("UpsertPolicy: failed to get clinic id=%s: %v", req.ClinicID, err)
		return nil, fmt.Errorf("%w: UpsertPolicy - failed to get clinic: %v", ErrInternal, err)
	}

	// Проверяем, что области действия указывают на существующие сущности
	if req.DoctorID != nil {
		if _, err := s.catalogRepo.GetDoctor(ctx, *req.DoctorID); err != nil {
			if errors.Is(err, catalogRepo.ErrDoctorNotFound) {
				s.logger.Warn("UpsertPolicy: doctor id=%s not found", *req.DoctorID)
				return nil, ErrDoctorNotFound
			}
			s.logger.Error("UpsertPolicy: failed to get doctor id=%s: %v", *req.DoctorID, err)
			return nil, fmt.Errorf("%w: UpsertPolicy - failed to get doctor: %v", ErrInternal, err)
		}
	}
	if req.ServiceID != nil {
		if _, err := s.catalogRepo.GetService(ctx, *req.ServiceID); err != nil {
			if errors.Is(err, catalogRepo.ErrServiceNotFound) {
				s.logger.Warn("UpsertPolicy: service id=%s not found", *req.ServiceID)
				return nil, ErrServiceNotFound
			}
			s.logger.Error("UpsertPolicy: failed to get service id=%s: %v", *req.ServiceID, err)
			return nil, fmt.Errorf("%w: UpsertPolicy - failed to get service: %v", ErrInternal, err)
		}
	}

	policy, err := s.policyRepo.Upsert(ctx, req.ToDomain())
	if err != nil {
		s.logger.Error("UpsertPolicy: repository error for clinic=%s: %v", req.ClinicID, err)
		return nil, fmt.Errorf("%w: UpsertPolicy - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpsertPolicy: successfully upserted policy id=%d for clinic=%s", policy.ID, req.ClinicID)
	return models.FromDomainPolicy(policy), nil
}
