package payroll

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the slice of pgxpool.Pool the payroll store needs. pgxmock
// satisfies it too, which is what the store tests use.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

type Store struct {
	DB Querier
}

func NewStore(db Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) CreateRun(ctx context.Context, run *Run, payslips []Payslip) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
    INSERT INTO payroll_runs (id, month, year, status, total_employees, total_amount, created_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
  `, run.ID, run.Month, run.Year, run.Status, run.TotalEmployees, run.TotalAmount, run.CreatedAt); err != nil {
		return err
	}

	for _, anomaly := range run.Anomalies {
		if _, err := tx.Exec(ctx, `
      INSERT INTO payroll_anomalies (run_id, employee_id, employee_name, type, message, severity)
      VALUES ($1,$2,$3,$4,$5,$6)
    `, run.ID, anomaly.EmployeeID, anomaly.EmployeeName, anomaly.Type, anomaly.Message, anomaly.Severity); err != nil {
			return err
		}
	}

	for _, slip := range payslips {
		if _, err := tx.Exec(ctx, `
      INSERT INTO payslips (id, employee_id, employee_name, month, year, basic_salary, allowances, deductions, net_pay, generated_at)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
      ON CONFLICT (id) DO NOTHING
    `, slip.ID, slip.EmployeeID, slip.EmployeeName, slip.Month, slip.Year,
			slip.BasicSalary, slip.Allowances, slip.Deductions, slip.NetPay, slip.GeneratedAt); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, month, year, status, total_employees, total_amount, COALESCE(rejection_reason, ''), created_at
    FROM payroll_runs
    ORDER BY created_at DESC
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	var ids []string
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.Month, &run.Year, &run.Status, &run.TotalEmployees, &run.TotalAmount, &run.RejectionReason, &run.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, run)
		ids = append(ids, run.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return runs, nil
	}

	anomalies, err := s.anomaliesForRuns(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range runs {
		runs[i].Anomalies = anomalies[runs[i].ID]
	}
	return runs, nil
}

func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	var run Run
	err := s.DB.QueryRow(ctx, `
    SELECT id, month, year, status, total_employees, total_amount, COALESCE(rejection_reason, ''), created_at
    FROM payroll_runs
    WHERE id = $1
  `, id).Scan(&run.ID, &run.Month, &run.Year, &run.Status, &run.TotalEmployees, &run.TotalAmount, &run.RejectionReason, &run.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}

	anomalies, err := s.anomaliesForRuns(ctx, []string{run.ID})
	if err != nil {
		return nil, err
	}
	run.Anomalies = anomalies[run.ID]
	return &run, nil
}

func (s *Store) anomaliesForRuns(ctx context.Context, runIDs []string) (map[string][]Anomaly, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT run_id, employee_id, employee_name, type, message, severity
    FROM payroll_anomalies
    WHERE run_id = ANY($1)
    ORDER BY id
  `, runIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string][]Anomaly{}
	for rows.Next() {
		var runID string
		var anomaly Anomaly
		if err := rows.Scan(&runID, &anomaly.EmployeeID, &anomaly.EmployeeName, &anomaly.Type, &anomaly.Message, &anomaly.Severity); err != nil {
			return nil, err
		}
		out[runID] = append(out[runID], anomaly)
	}
	return out, rows.Err()
}

// SetStatus is the compare-and-swap on run status: only a pending run moves,
// so two racing approvals cannot both win and an approved run can never flip
// to rejected.
func (s *Store) SetStatus(ctx context.Context, id, status, reason string) (*Run, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE payroll_runs
    SET status = $2, rejection_reason = NULLIF($3, '')
    WHERE id = $1 AND status = $4
  `, id, status, reason, StatusPending)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		var current string
		err := s.DB.QueryRow(ctx, "SELECT status FROM payroll_runs WHERE id = $1", id).Scan(&current)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRunNotFound
		}
		if err != nil {
			return nil, err
		}
		return nil, ErrRunNotPending
	}
	return s.GetRun(ctx, id)
}
