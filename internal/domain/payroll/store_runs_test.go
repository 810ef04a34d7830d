package payroll

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func newMockStore(t *testing.T) (pgxmock.PgxPoolIface, *Store) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock, NewStore(mock)
}

func runColumns() []string {
	return []string{"id", "month", "year", "status", "total_employees", "total_amount", "coalesce", "created_at"}
}

func anomalyColumns() []string {
	return []string{"run_id", "employee_id", "employee_name", "type", "message", "severity"}
}

func TestStoreCreateRun(t *testing.T) {
	mock, store := newMockStore(t)

	now := time.Now().UTC()
	run := &Run{
		ID:             "run-1",
		Month:          "01",
		Year:           2025,
		Status:         StatusPending,
		TotalEmployees: 1,
		TotalAmount:    1100,
		Anomalies: []Anomaly{
			{EmployeeID: "e1", EmployeeName: "Alice", Type: AnomalyUnusualDeduction, Message: "Deduction amount exceeds 30% of salary", Severity: SeverityHigh},
		},
		CreatedAt: now,
	}
	slip := Payslip{
		ID: "payslip-e1-2025-01", EmployeeID: "e1", EmployeeName: "Alice",
		Month: "01", Year: 2025, BasicSalary: 1000, Allowances: 200, Deductions: 100, NetPay: 1100, GeneratedAt: now,
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO payroll_runs")).
		WithArgs(run.ID, run.Month, run.Year, run.Status, run.TotalEmployees, run.TotalAmount, run.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO payroll_anomalies")).
		WithArgs(run.ID, "e1", "Alice", AnomalyUnusualDeduction, "Deduction amount exceeds 30% of salary", SeverityHigh).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO payslips")).
		WithArgs(slip.ID, slip.EmployeeID, slip.EmployeeName, slip.Month, slip.Year,
			slip.BasicSalary, slip.Allowances, slip.Deductions, slip.NetPay, slip.GeneratedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	if err := store.CreateRun(context.Background(), run, []Payslip{slip}); err != nil {
		t.Fatalf("CreateRun returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStoreCreateRunRollsBackOnFailure(t *testing.T) {
	mock, store := newMockStore(t)

	run := &Run{ID: "run-1", Month: "01", Year: 2025, Status: StatusPending, CreatedAt: time.Now().UTC()}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO payroll_runs")).
		WithArgs(run.ID, run.Month, run.Year, run.Status, 0, float64(0), run.CreatedAt).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	if err := store.CreateRun(context.Background(), run, nil); err == nil {
		t.Fatalf("expected error from failed insert")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStoreSetStatusApprovesPendingRun(t *testing.T) {
	mock, store := newMockStore(t)
	now := time.Now().UTC()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE payroll_runs")).
		WithArgs("run-1", StatusApproved, "", StatusPending).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM payroll_runs")).
		WithArgs("run-1").
		WillReturnRows(pgxmock.NewRows(runColumns()).
			AddRow("run-1", "01", 2025, StatusApproved, 2, 2100.0, "", now))
	mock.ExpectQuery(regexp.QuoteMeta("FROM payroll_anomalies")).
		WithArgs([]string{"run-1"}).
		WillReturnRows(pgxmock.NewRows(anomalyColumns()))

	run, err := store.SetStatus(context.Background(), "run-1", StatusApproved, "")
	if err != nil {
		t.Fatalf("SetStatus returned error: %v", err)
	}
	if run.Status != StatusApproved {
		t.Fatalf("expected approved, got %q", run.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStoreSetStatusRejectsNonPendingRun(t *testing.T) {
	mock, store := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE payroll_runs")).
		WithArgs("run-1", StatusRejected, "too late", StatusPending).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT status FROM payroll_runs")).
		WithArgs("run-1").
		WillReturnRows(pgxmock.NewRows([]string{"status"}).AddRow(StatusApproved))

	_, err := store.SetStatus(context.Background(), "run-1", StatusRejected, "too late")
	if !errors.Is(err, ErrRunNotPending) {
		t.Fatalf("expected ErrRunNotPending, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStoreSetStatusUnknownRun(t *testing.T) {
	mock, store := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE payroll_runs")).
		WithArgs("missing", StatusApproved, "", StatusPending).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT status FROM payroll_runs")).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := store.SetStatus(context.Background(), "missing", StatusApproved, "")
	if !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}

func TestStoreGetRunNotFound(t *testing.T) {
	mock, store := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM payroll_runs")).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := store.GetRun(context.Background(), "missing")
	if !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}

func TestStoreListRunsAttachesAnomalies(t *testing.T) {
	mock, store := newMockStore(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("FROM payroll_runs")).
		WillReturnRows(pgxmock.NewRows(runColumns()).
			AddRow("run-2", "02", 2025, StatusPending, 2, 2100.0, "", now).
			AddRow("run-1", "01", 2025, StatusRejected, 2, 2100.0, "numbers off", now.Add(-time.Hour)))
	mock.ExpectQuery(regexp.QuoteMeta("FROM payroll_anomalies")).
		WithArgs([]string{"run-2", "run-1"}).
		WillReturnRows(pgxmock.NewRows(anomalyColumns()).
			AddRow("run-1", "e2", "Bob", AnomalyUnusualDeduction, "Deduction amount exceeds 30% of salary", SeverityHigh))

	runs, err := store.ListRuns(context.Background())
	if err != nil {
		t.Fatalf("ListRuns returned error: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if len(runs[0].Anomalies) != 0 {
		t.Fatalf("run-2 should have no anomalies")
	}
	if len(runs[1].Anomalies) != 1 || runs[1].Anomalies[0].EmployeeID != "e2" {
		t.Fatalf("run-1 anomalies not attached: %+v", runs[1].Anomalies)
	}
	if runs[1].RejectionReason != "numbers off" {
		t.Fatalf("expected rejection reason, got %q", runs[1].RejectionReason)
	}
}
