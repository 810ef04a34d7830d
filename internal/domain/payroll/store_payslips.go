package payroll

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

const payslipColumns = `
    id, employee_id, employee_name, month, year, basic_salary, allowances, deductions, net_pay, generated_at`

func (s *Store) UpsertIfAbsent(ctx context.Context, slip Payslip) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    INSERT INTO payslips (id, employee_id, employee_name, month, year, basic_salary, allowances, deductions, net_pay, generated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
    ON CONFLICT (id) DO NOTHING
  `, slip.ID, slip.EmployeeID, slip.EmployeeName, slip.Month, slip.Year,
		slip.BasicSalary, slip.Allowances, slip.Deductions, slip.NetPay, slip.GeneratedAt)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*Payslip, error) {
	var slip Payslip
	err := s.DB.QueryRow(ctx, `
    SELECT`+payslipColumns+`
    FROM payslips
    WHERE id = $1
  `, id).Scan(
		&slip.ID, &slip.EmployeeID, &slip.EmployeeName, &slip.Month, &slip.Year,
		&slip.BasicSalary, &slip.Allowances, &slip.Deductions, &slip.NetPay, &slip.GeneratedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPayslipNotFound
	}
	if err != nil {
		return nil, err
	}
	return &slip, nil
}

func (s *Store) List(ctx context.Context) ([]Payslip, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+payslipColumns+`
    FROM payslips
    ORDER BY year DESC, month DESC, employee_name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPayslips(rows)
}

func (s *Store) ListByEmployee(ctx context.Context, employeeID string) ([]Payslip, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+payslipColumns+`
    FROM payslips
    WHERE employee_id = $1
    ORDER BY year DESC, month DESC
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPayslips(rows)
}

func (s *Store) ListByPeriod(ctx context.Context, month string, year int) ([]Payslip, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+payslipColumns+`
    FROM payslips
    WHERE month = $1 AND year = $2
    ORDER BY employee_name
  `, month, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPayslips(rows)
}

func collectPayslips(rows pgx.Rows) ([]Payslip, error) {
	var slips []Payslip
	for rows.Next() {
		var slip Payslip
		if err := rows.Scan(
			&slip.ID, &slip.EmployeeID, &slip.EmployeeName, &slip.Month, &slip.Year,
			&slip.BasicSalary, &slip.Allowances, &slip.Deductions, &slip.NetPay, &slip.GeneratedAt,
		); err != nil {
			return nil, err
		}
		slips = append(slips, slip)
	}
	return slips, rows.Err()
}
