package directory

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolationCode = "23505"

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const employeeColumns = `
    id, name, email, job_role, salary, allowances, deductions, employment_status, created_at, updated_at`

func scanEmployee(row pgx.Row) (*Employee, error) {
	var emp Employee
	err := row.Scan(
		&emp.ID, &emp.Name, &emp.Email, &emp.JobRole,
		&emp.Salary, &emp.Allowances, &emp.Deductions,
		&emp.EmploymentStatus, &emp.CreatedAt, &emp.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrEmployeeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (s *Store) List(ctx context.Context) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+employeeColumns+`
    FROM employees
    ORDER BY name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEmployees(rows)
}

func (s *Store) ListActive(ctx context.Context) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+employeeColumns+`
    FROM employees
    WHERE employment_status = $1
    ORDER BY name
  `, StatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEmployees(rows)
}

func collectEmployees(rows pgx.Rows) ([]Employee, error) {
	var employees []Employee
	for rows.Next() {
		var emp Employee
		if err := rows.Scan(
			&emp.ID, &emp.Name, &emp.Email, &emp.JobRole,
			&emp.Salary, &emp.Allowances, &emp.Deductions,
			&emp.EmploymentStatus, &emp.CreatedAt, &emp.UpdatedAt,
		); err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

func (s *Store) GetByID(ctx context.Context, id string) (*Employee, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT`+employeeColumns+`
    FROM employees
    WHERE id = $1
  `, id)
	return scanEmployee(row)
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*Employee, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT`+employeeColumns+`
    FROM employees
    WHERE email = $1
  `, email)
	return scanEmployee(row)
}

func (s *Store) Create(ctx context.Context, emp Employee) (*Employee, error) {
	row := s.DB.QueryRow(ctx, `
    INSERT INTO employees (name, email, job_role, salary, allowances, deductions, employment_status)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING`+employeeColumns+`
  `, emp.Name, emp.Email, emp.JobRole, emp.Salary, emp.Allowances, emp.Deductions, emp.EmploymentStatus)

	created, err := scanEmployee(row)
	if err != nil {
		return nil, translatePgError(err)
	}
	return created, nil
}

func (s *Store) Update(ctx context.Context, emp Employee) (*Employee, error) {
	row := s.DB.QueryRow(ctx, `
    UPDATE employees
    SET name = $2, email = $3, job_role = $4, salary = $5,
        allowances = $6, deductions = $7, employment_status = $8,
        updated_at = now()
    WHERE id = $1
    RETURNING`+employeeColumns+`
  `, emp.ID, emp.Name, emp.Email, emp.JobRole, emp.Salary, emp.Allowances, emp.Deductions, emp.EmploymentStatus)

	updated, err := scanEmployee(row)
	if err != nil {
		return nil, translatePgError(err)
	}
	return updated, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM employees WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

func translatePgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return ErrDuplicateEmail
	}
	return err
}
