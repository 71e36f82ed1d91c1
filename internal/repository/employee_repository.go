package repository

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/leave-service/internal/domain"
)

const employeeColumns = "staff_id, staff_fname, staff_lname, dept, position, country, email, reporting_manager, role, password_hash, created_at"

// EmployeeRepository reads and provisions directory records.
type EmployeeRepository interface {
	Create(ctx context.Context, employee *domain.Employee) error
	GetByID(ctx context.Context, staffID int64) (*domain.Employee, error)
	GetByEmail(ctx context.Context, email string) (*domain.Employee, error)
	FindByName(ctx context.Context, name string) (*domain.Employee, error)
	List(ctx context.Context, filter EmployeeFilter) ([]domain.Employee, error)
	SetPasswordHash(ctx context.Context, staffID int64, hash string) error
}

// EmployeeFilter narrows employee listings. Nil fields do not filter.
type EmployeeFilter struct {
	Department       *string
	Position         *string
	ReportingManager *int64
}

type employeeRepository struct {
	pool *pgxpool.Pool
}

// NewEmployeeRepository instantiates the repository.
func NewEmployeeRepository(pool *pgxpool.Pool) EmployeeRepository {
	return &employeeRepository{pool: pool}
}

func (r *employeeRepository) Create(ctx context.Context, employee *domain.Employee) error {
	const query = `
        INSERT INTO employee (staff_id, staff_fname, staff_lname, dept, position, country, email, reporting_manager, role, password_hash)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		employee.StaffID,
		employee.FirstName,
		employee.LastName,
		employee.Department,
		employee.Position,
		employee.Country,
		employee.Email,
		employee.ReportingManager,
		employee.Role,
		employee.PasswordHash,
	).Scan(&employee.CreatedAt)
}

func (r *employeeRepository) GetByID(ctx context.Context, staffID int64) (*domain.Employee, error) {
	query := "SELECT " + employeeColumns + " FROM employee WHERE staff_id=$1"
	return scanEmployee(r.pool.QueryRow(ctx, query, staffID))
}

func (r *employeeRepository) GetByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	query := "SELECT " + employeeColumns + " FROM employee WHERE LOWER(email)=LOWER($1)"
	return scanEmployee(r.pool.QueryRow(ctx, query, email))
}

// FindByName matches the full name first, then the first name alone.
func (r *employeeRepository) FindByName(ctx context.Context, name string) (*domain.Employee, error) {
	query := "SELECT " + employeeColumns + ` FROM employee
        WHERE LOWER(staff_fname || ' ' || staff_lname) = LOWER($1) OR LOWER(staff_fname) = LOWER($1)
        ORDER BY (LOWER(staff_fname || ' ' || staff_lname) = LOWER($1)) DESC, staff_id ASC
        LIMIT 1`
	return scanEmployee(r.pool.QueryRow(ctx, query, strings.TrimSpace(name)))
}

func (r *employeeRepository) List(ctx context.Context, filter EmployeeFilter) ([]domain.Employee, error) {
	query, args, err := buildEmployeeListQuery(filter)
	if err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Employee
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *employee)
	}
	return result, rows.Err()
}

func (r *employeeRepository) SetPasswordHash(ctx context.Context, staffID int64, hash string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE employee SET password_hash=$1 WHERE staff_id=$2`, hash, staffID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func buildEmployeeListQuery(filter EmployeeFilter) (string, []any, error) {
	builder := psql.Select(employeeColumns).From("employee").OrderBy("staff_id ASC")
	if filter.Department != nil {
		builder = builder.Where(sq.Eq{"dept": *filter.Department})
	}
	if filter.Position != nil {
		builder = builder.Where(sq.Eq{"position": *filter.Position})
	}
	if filter.ReportingManager != nil {
		builder = builder.Where(sq.Eq{"reporting_manager": *filter.ReportingManager})
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build employee list query: %w", err)
	}
	return query, args, nil
}

func scanEmployee(row pgx.Row) (*domain.Employee, error) {
	var employee domain.Employee
	if err := row.Scan(
		&employee.StaffID,
		&employee.FirstName,
		&employee.LastName,
		&employee.Department,
		&employee.Position,
		&employee.Country,
		&employee.Email,
		&employee.ReportingManager,
		&employee.Role,
		&employee.PasswordHash,
		&employee.CreatedAt,
	); err != nil {
		return nil, notFound(err)
	}
	return &employee, nil
}
