package repository

import (
	"context"
	"fmt"
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/leave-service/internal/domain"
)

func TestBuildEmployeeListQuery(t *testing.T) {
	t.Run("no filter", func(t *testing.T) {
		query, args, err := buildEmployeeListQuery(EmployeeFilter{})
		require.NoError(t, err)
		assert.Equal(t, "SELECT "+employeeColumns+" FROM employee ORDER BY staff_id ASC", query)
		assert.Empty(t, args)
	})

	t.Run("department", func(t *testing.T) {
		dept := "Sales"
		query, args, err := buildEmployeeListQuery(EmployeeFilter{Department: &dept})
		require.NoError(t, err)
		assert.Contains(t, query, "WHERE dept = $1")
		assert.Equal(t, []any{"Sales"}, args)
	})

	t.Run("position and manager", func(t *testing.T) {
		position := "Director"
		manager := int64(130002)
		query, args, err := buildEmployeeListQuery(EmployeeFilter{Position: &position, ReportingManager: &manager})
		require.NoError(t, err)
		assert.Contains(t, query, "WHERE position = $1 AND reporting_manager = $2")
		assert.Equal(t, []any{"Director", int64(130002)}, args)
	})
}

func TestBuildRequestListQuery(t *testing.T) {
	pending := domain.RequestStatusPending
	query, args, err := buildRequestListQuery(RequestFilter{StaffIDs: []int64{10, 11}, Status: &pending})
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT "+requestColumns+" FROM request WHERE staff_id IN ($1,$2) AND status = $3 ORDER BY request_id ASC",
		query)
	assert.Equal(t, []any{int64(10), int64(11), domain.RequestStatusPending}, args)
}

func TestBuildStatusUpdate_IsConditional(t *testing.T) {
	query, args, err := buildStatusUpdate(7, domain.RequestStatusPending, domain.RequestStatusApproved)
	require.NoError(t, err)

	assert.Contains(t, query, "UPDATE request SET status = $1, updated_at = NOW()")
	assert.Contains(t, query, "request_id = $2")
	assert.Contains(t, query, "status = $3")
	assert.Equal(t, []any{domain.RequestStatusApproved, int64(7), domain.RequestStatusPending}, args)
}

func TestBuildMembershipQuery(t *testing.T) {
	query, args, err := buildMembershipQuery(sq.Eq{"team_id": []int64{1, 2}})
	require.NoError(t, err)
	assert.Equal(t, "SELECT team_id, staff_id FROM team WHERE team_id IN ($1,$2) ORDER BY team_id ASC, staff_id ASC", query)
	assert.Len(t, args, 2)
}

func TestNotFoundTranslation(t *testing.T) {
	assert.ErrorIs(t, notFound(pgx.ErrNoRows), ErrNotFound)
	assert.ErrorIs(t, notFound(fmt.Errorf("scan: %w", pgx.ErrNoRows)), ErrNotFound)

	other := fmt.Errorf("boom")
	assert.Equal(t, other, notFound(other))
}

func TestNewRedisNameCache_NilClientNeverHits(t *testing.T) {
	cache := NewRedisNameCache(nil, 0)

	require.NoError(t, cache.Set(context.Background(), 1, "Jack Sim"))
	_, ok, err := cache.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, ok)
}
