package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/clinicbot-ai/scheduling-service/internal/domain"
	"github.com/clinicbot-ai/scheduling-service/pkg/dbmetrics"
	"github.com/clinicbot-ai/scheduling-service/pkg/psqlbuilder"
)

// Repository reads the clinic catalog: clinics, doctors and services.
// All three are administered outside the scheduling core and read-only here.
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository creates a new catalog repository
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetClinic returns a clinic by id
func (r *Repository) GetClinic(ctx context.Context, id uuid.UUID) (*domain.Clinic, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "timezone").
		From("clinics").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetClinic - build select query: %v", ErrBuildQuery, err)
	}

	var clinic domain.Clinic
	err = executor.QueryRowContext(ctx, query, args...).Scan(&clinic.ID, &clinic.Name, &clinic.Timezone)
	if err == sql.ErrNoRows {
		return nil, ErrClinicNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetClinic - scan clinic: %v", ErrScanRow, err)
	}

	return &clinic, nil
}

// GetDoctor returns an active doctor by id
func (r *Repository) GetDoctor(ctx context.Context, id uuid.UUID) (*domain.Doctor, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "clinic_id", "name", "specialty", "active").
		From("doctors").
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"active": true}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetDoctor - build select query: %v", ErrBuildQuery, err)
	}

	var doctor domain.Doctor
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&doctor.ID,
		&doctor.ClinicID,
		&doctor.Name,
		&doctor.Specialty,
		&doctor.Active,
	)
	if err == sql.ErrNoRows {
		return nil, ErrDoctorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetDoctor - scan doctor: %v", ErrScanRow, err)
	}

	return &doctor, nil
}

// GetService returns an active service by id
func (r *Repository) GetService(ctx context.Context, id uuid.UUID) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"clinic_id",
		"name",
		"duration_minutes",
		"buffer_before_minutes",
		"buffer_after_minutes",
		"active",
	).
		From("services").
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"active": true}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetService - build select query: %v", ErrBuildQuery, err)
	}

	var service domain.Service
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&service.ID,
		&service.ClinicID,
		&service.Name,
		&service.DurationMinutes,
		&service.BufferBeforeMinutes,
		&service.BufferAfterMinutes,
		&service.Active,
	)
	if err == sql.ErrNoRows {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - scan service: %v", ErrScanRow, err)
	}

	return &service, nil
}
