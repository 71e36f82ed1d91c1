package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/leave-service/internal/domain"
)

const requestColumns = "request_id, staff_id, schedule_id, reason, status, date, time_slot, request_type, created_at, updated_at"

// RequestFilter selects requests by owner and status. Empty StaffIDs means all owners.
type RequestFilter struct {
	StaffIDs []int64
	Status   *domain.RequestStatus
}

// RequestRepository encapsulates request persistence.
type RequestRepository interface {
	Create(ctx context.Context, request *domain.Request) error
	GetByID(ctx context.Context, requestID int64) (*domain.Request, error)
	// UpdateStatus moves a request from one status to another in a single conditional write.
	// It reports false when the row does not exist or is no longer in the from status.
	UpdateStatus(ctx context.Context, requestID int64, from, to domain.RequestStatus) (bool, error)
	List(ctx context.Context, filter RequestFilter) ([]domain.Request, error)
}

type requestRepository struct {
	pool *pgxpool.Pool
}

// NewRequestRepository instantiates repository.
func NewRequestRepository(pool *pgxpool.Pool) RequestRepository {
	return &requestRepository{pool: pool}
}

func (r *requestRepository) Create(ctx context.Context, request *domain.Request) error {
	const query = `
        INSERT INTO request (staff_id, schedule_id, reason, status, date, time_slot, request_type)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING request_id, created_at, updated_at`
	return conn(ctx, r.pool).QueryRow(ctx, query,
		request.StaffID,
		request.ScheduleID,
		request.Reason,
		request.Status,
		request.Date,
		request.TimeSlot,
		request.RequestType,
	).Scan(&request.RequestID, &request.CreatedAt, &request.UpdatedAt)
}

func (r *requestRepository) GetByID(ctx context.Context, requestID int64) (*domain.Request, error) {
	query := "SELECT " + requestColumns + " FROM request WHERE request_id=$1"
	return scanRequest(conn(ctx, r.pool).QueryRow(ctx, query, requestID))
}

func (r *requestRepository) UpdateStatus(ctx context.Context, requestID int64, from, to domain.RequestStatus) (bool, error) {
	query, args, err := buildStatusUpdate(requestID, from, to)
	if err != nil {
		return false, err
	}
	cmd, err := conn(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

func (r *requestRepository) List(ctx context.Context, filter RequestFilter) ([]domain.Request, error) {
	query, args, err := buildRequestListQuery(filter)
	if err != nil {
		return nil, err
	}
	rows, err := conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Request
	for rows.Next() {
		request, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *request)
	}
	return result, rows.Err()
}

func buildStatusUpdate(requestID int64, from, to domain.RequestStatus) (string, []any, error) {
	query, args, err := psql.Update("request").
		Set("status", to).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"request_id": requestID, "status": from}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build status update: %w", err)
	}
	return query, args, nil
}

func buildRequestListQuery(filter RequestFilter) (string, []any, error) {
	builder := psql.Select(requestColumns).From("request").OrderBy("request_id ASC")
	if len(filter.StaffIDs) > 0 {
		builder = builder.Where(sq.Eq{"staff_id": filter.StaffIDs})
	}
	if filter.Status != nil {
		builder = builder.Where(sq.Eq{"status": *filter.Status})
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build request list query: %w", err)
	}
	return query, args, nil
}

func scanRequest(row pgx.Row) (*domain.Request, error) {
	var request domain.Request
	if err := row.Scan(
		&request.RequestID,
		&request.StaffID,
		&request.ScheduleID,
		&request.Reason,
		&request.Status,
		&request.Date,
		&request.TimeSlot,
		&request.RequestType,
		&request.CreatedAt,
		&request.UpdatedAt,
	); err != nil {
		return nil, notFound(err)
	}
	return &request, nil
}
