package policy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/clinicbot-ai/scheduling-service/internal/domain"
	"github.com/clinicbot-ai/scheduling-service/pkg/dbmetrics"
	"github.com/clinicbot-ai/scheduling-service/pkg/psqlbuilder"
)

var policyColumns = []string{
	"id",
	"clinic_id",
	"doctor_id",
	"service_id",
	"granularity_minutes",
	"lead_time_minutes",
	"advance_booking_days",
	"buffer_before_minutes",
	"buffer_after_minutes",
	"created_at",
	"updated_at",
}

// Repository stores scheduling policies
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository creates a new policy repository
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// ResolvePolicy returns the most specific policy matching the given scope.
// Priority: (doctor, service) > (doctor, all) > (all, service) > clinic-wide.
// When no row matches at any level it fails with ErrPolicyNotFound; callers
// fall back to domain.DefaultPolicy.
func (r *Repository) ResolvePolicy(ctx context.Context, clinicID uuid.UUID, doctorID, serviceID *uuid.UUID) (*domain.SchedulingPolicy, error) {
	type scope struct {
		doctorID  *uuid.UUID
		serviceID *uuid.UUID
	}

	scopes := make([]scope, 0, 4)
	if doctorID != nil && serviceID != nil {
		scopes = append(scopes, scope{doctorID, serviceID})
	}
	if doctorID != nil {
		scopes = append(scopes, scope{doctorID, nil})
	}
	if serviceID != nil {
		scopes = append(scopes, scope{nil, serviceID})
	}
	scopes = append(scopes, scope{nil, nil})

	for _, s := range scopes {
		p, err := r.getExact(ctx, clinicID, s.doctorID, s.serviceID)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, ErrPolicyNotFound) {
			return nil, err
		}
	}

	return nil, ErrPolicyNotFound
}

// getExact returns the policy row for exactly the given scope, no hierarchy walk
func (r *Repository) getExact(ctx context.Context, clinicID uuid.UUID, doctorID, serviceID *uuid.UUID) (*domain.SchedulingPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(policyColumns...).
		From("scheduling_policies").
		Where(squirrel.Eq{"clinic_id": clinicID})

	if doctorID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"doctor_id": *doctorID})
	} else {
		selectBuilder = selectBuilder.Where("doctor_id IS NULL")
	}
	if serviceID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_id": *serviceID})
	} else {
		selectBuilder = selectBuilder.Where("service_id IS NULL")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getExact - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	p, err := scanPolicy(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrPolicyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: getExact - scan policy: %v", ErrScanRow, err)
	}

	return p, nil
}

// ListByClinic returns every policy row configured for the clinic
func (r *Repository) ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*domain.SchedulingPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(policyColumns...).
		From("scheduling_policies").
		Where(squirrel.Eq{"clinic_id": clinicID}).
		OrderBy("doctor_id NULLS FIRST, service_id NULLS FIRST").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByClinic - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByClinic - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	policies := make([]*domain.SchedulingPolicy, 0)
	for rows.Next() {
		p, err := scanPolicy(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByClinic - scan row: %v", ErrScanRow, err)
		}
		policies = append(policies, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByClinic - rows error: %v", ErrScanRow, err)
	}

	return policies, nil
}

// Upsert inserts or replaces the policy row for its exact scope
func (r *Repository) Upsert(ctx context.Context, p *domain.SchedulingPolicy) (*domain.SchedulingPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("scheduling_policies").
		Columns(
			"clinic_id",
			"doctor_id",
			"service_id",
			"granularity_minutes",
			"lead_time_minutes",
			"advance_booking_days",
			"buffer_before_minutes",
			"buffer_after_minutes",
		).
		Values(
			p.ClinicID,
			p.DoctorID,
			p.ServiceID,
			p.GranularityMinutes,
			p.LeadTimeMinutes,
			p.AdvanceBookingDays,
			p.BufferBeforeMinutes,
			p.BufferAfterMinutes,
		).
		Suffix(`ON CONFLICT (clinic_id, COALESCE(doctor_id, '00000000-0000-0000-0000-000000000000'), COALESCE(service_id, '00000000-0000-0000-0000-000000000000'))
			DO UPDATE SET
				granularity_minutes = EXCLUDED.granularity_minutes,
				lead_time_minutes = EXCLUDED.lead_time_minutes,
				advance_booking_days = EXCLUDED.advance_booking_days,
				buffer_before_minutes = EXCLUDED.buffer_before_minutes,
				buffer_after_minutes = EXCLUDED.buffer_after_minutes,
				updated_at = NOW()
			RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&p.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time

	return p, nil
}

func scanPolicy(scan func(dest ...interface{}) error) (*domain.SchedulingPolicy, error) {
	var p domain.SchedulingPolicy
	var createdAt, updatedAt sql.NullTime

	err := scan(
		&p.ID,
		&p.ClinicID,
		&p.DoctorID,
		&p.ServiceID,
		&p.GranularityMinutes,
		&p.LeadTimeMinutes,
		&p.AdvanceBookingDays,
		&p.BufferBeforeMinutes,
		&p.BufferAfterMinutes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time
	return &p, nil
}
