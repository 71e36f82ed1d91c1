package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/leave-service/internal/domain"
)

// ScheduleRepository reads schedule slots referenced by requests.
type ScheduleRepository interface {
	GetByID(ctx context.Context, scheduleID int64) (*domain.Schedule, error)
}

type scheduleRepository struct {
	pool *pgxpool.Pool
}

// NewScheduleRepository builds repository.
func NewScheduleRepository(pool *pgxpool.Pool) ScheduleRepository {
	return &scheduleRepository{pool: pool}
}

func (r *scheduleRepository) GetByID(ctx context.Context, scheduleID int64) (*domain.Schedule, error) {
	const query = `
        SELECT schedule_id, staff_id, date, time, reason, status
        FROM schedule WHERE schedule_id=$1`
	var s domain.Schedule
	if err := r.pool.QueryRow(ctx, query, scheduleID).Scan(
		&s.ScheduleID,
		&s.StaffID,
		&s.Date,
		&s.TimeSlot,
		&s.Reason,
		&s.Status,
	); err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}
