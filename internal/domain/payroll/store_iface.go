package payroll

import (
	"context"

	"hrpay/internal/domain/directory"
)

// Directory supplies employee records. The payroll core only ever reads from
// it; employee ownership stays with the directory domain.
type Directory interface {
	ListActive(ctx context.Context) ([]directory.Employee, error)
	GetByID(ctx context.Context, id string) (*directory.Employee, error)
}

type RunStore interface {
	// CreateRun persists the run, its anomalies, and any payslips not already
	// present, as one atomic unit. A failure leaves nothing behind.
	CreateRun(ctx context.Context, run *Run, payslips []Payslip) error
	ListRuns(ctx context.Context) ([]Run, error)
	GetRun(ctx context.Context, id string) (*Run, error)
	// SetStatus transitions a pending run to a terminal status using a
	// compare-and-swap on the pending state. Returns ErrRunNotFound when the
	// id is unknown and ErrRunNotPending when the run is already terminal.
	SetStatus(ctx context.Context, id, status, reason string) (*Run, error)
}

type PayslipStore interface {
	// UpsertIfAbsent inserts the payslip unless one with the same id exists.
	// Reports whether a row was written.
	UpsertIfAbsent(ctx context.Context, slip Payslip) (bool, error)
	GetByID(ctx context.Context, id string) (*Payslip, error)
	List(ctx context.Context) ([]Payslip, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]Payslip, error)
	ListByPeriod(ctx context.Context, month string, year int) ([]Payslip, error)
}
