package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/clinicbot-ai/scheduling-service/internal/domain"
	"github.com/clinicbot-ai/scheduling-service/pkg/dbmetrics"
	"github.com/clinicbot-ai/scheduling-service/pkg/psqlbuilder"
)

// Repository reads working hours and closures.
// Both tables are configured by clinic administrators outside this service and
// are read-only from the scheduling core's perspective.
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository creates a new schedule repository
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// HoursForWeekday returns the open ranges for a doctor on a weekday.
// Doctor-specific rows override the clinic-wide rows for that weekday: when
// any row exists with the doctor's id, only those rows apply.
func (r *Repository) HoursForWeekday(ctx context.Context, clinicID, doctorID uuid.UUID, weekday time.Weekday) ([]domain.HoursRange, error) {
	doctorRanges, err := r.hoursFor(ctx, clinicID, &doctorID, weekday)
	if err != nil {
		return nil, err
	}
	if len(doctorRanges) > 0 {
		return doctorRanges, nil
	}

	return r.hoursFor(ctx, clinicID, nil, weekday)
}

func (r *Repository) hoursFor(ctx context.Context, clinicID uuid.UUID, doctorID *uuid.UUID, weekday time.Weekday) ([]domain.HoursRange, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("opens_at", "closes_at").
		From("working_hours").
		Where(squirrel.Eq{"clinic_id": clinicID}).
		Where(squirrel.Eq{"weekday": int(weekday)}).
		OrderBy("opens_at ASC")

	if doctorID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"doctor_id": *doctorID})
	} else {
		selectBuilder = selectBuilder.Where("doctor_id IS NULL")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: hoursFor - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: hoursFor - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ranges := make([]domain.HoursRange, 0)
	for rows.Next() {
		var hr domain.HoursRange
		if err := rows.Scan(&hr.Opens, &hr.Closes); err != nil {
			return nil, fmt.Errorf("%w: hoursFor - scan row: %v", ErrScanRow, err)
		}
		ranges = append(ranges, hr)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: hoursFor - rows error: %v", ErrScanRow, err)
	}

	return ranges, nil
}

// ClosuresOn returns all closures recorded for the clinic on the given date
// (both clinic-wide rows and doctor-scoped leave)
func (r *Repository) ClosuresOn(ctx context.Context, clinicID uuid.UUID, date time.Time) ([]domain.Closure, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("clinic_id", "doctor_id", "closed_on", "reason").
		From("closures").
		Where(squirrel.Eq{"clinic_id": clinicID}).
		Where(squirrel.Eq{"closed_on": date.Format(domain.DateFormat)}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ClosuresOn - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ClosuresOn - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	closures := make([]domain.Closure, 0)
	for rows.Next() {
		var c domain.Closure
		var closedOn sql.NullTime
		if err := rows.Scan(&c.ClinicID, &c.DoctorID, &closedOn, &c.Reason); err != nil {
			return nil, fmt.Errorf("%w: ClosuresOn - scan row: %v", ErrScanRow, err)
		}
		c.ClosedOn = closedOn.Time
		closures = append(closures, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ClosuresOn - rows error: %v", ErrScanRow, err)
	}

	return closures, nil
}
