package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/leave-service/internal/domain"
)

// TeamRepository reads team membership pairs.
type TeamRepository interface {
	ListByStaff(ctx context.Context, staffID int64) ([]domain.TeamMembership, error)
	ListByTeams(ctx context.Context, teamIDs []int64) ([]domain.TeamMembership, error)
}

type teamRepository struct {
	pool *pgxpool.Pool
}

// NewTeamRepository constructs repository.
func NewTeamRepository(pool *pgxpool.Pool) TeamRepository {
	return &teamRepository{pool: pool}
}

func (r *teamRepository) ListByStaff(ctx context.Context, staffID int64) ([]domain.TeamMembership, error) {
	return r.list(ctx, sq.Eq{"staff_id": staffID})
}

func (r *teamRepository) ListByTeams(ctx context.Context, teamIDs []int64) ([]domain.TeamMembership, error) {
	if len(teamIDs) == 0 {
		return nil, nil
	}
	return r.list(ctx, sq.Eq{"team_id": teamIDs})
}

func (r *teamRepository) list(ctx context.Context, where sq.Eq) ([]domain.TeamMembership, error) {
	query, args, err := buildMembershipQuery(where)
	if err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TeamMembership
	for rows.Next() {
		var m domain.TeamMembership
		if err := rows.Scan(&m.TeamID, &m.StaffID); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

func buildMembershipQuery(where sq.Eq) (string, []any, error) {
	query, args, err := psql.Select("team_id", "staff_id").
		From("team").
		Where(where).
		OrderBy("team_id ASC", "staff_id ASC").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build membership query: %w", err)
	}
	return query, args, nil
}
