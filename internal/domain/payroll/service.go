package payroll

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	directory Directory
	runs      RunStore
	payslips  PayslipStore
	rules     []Rule
}

// NewService wires the orchestrator. With no explicit rules the default
// anomaly rule set applies.
func NewService(dir Directory, runs RunStore, payslips PayslipStore, rules ...Rule) *Service {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Service{directory: dir, runs: runs, payslips: payslips, rules: rules}
}

// ValidatePeriod checks the two-digit month string and a plausible year.
func ValidatePeriod(month string, year int) error {
	if len(month) != 2 {
		return ErrInvalidPeriod
	}
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return ErrInvalidPeriod
	}
	if year < 1900 || year > 9999 {
		return ErrInvalidPeriod
	}
	return nil
}

// RunPayroll executes payroll for one period: every active employee gets net
// pay computed and the anomaly rules applied, then the run record and any
// missing payslips are persisted together. Each invocation creates a new run
// record; payslips dedupe on their deterministic id, so re-running a period
// never duplicates them.
func (s *Service) RunPayroll(ctx context.Context, month string, year int) (*Run, error) {
	if err := ValidatePeriod(month, year); err != nil {
		return nil, err
	}

	employees, err := s.directory.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active employees: %w", err)
	}

	now := time.Now().UTC()
	var anomalies []Anomaly
	var total float64
	payslips := make([]Payslip, 0, len(employees))

	for _, emp := range employees {
		net := ComputeNetPay(emp.Salary, emp.Allowances, emp.Deductions)
		total += net
		anomalies = append(anomalies, Detect(s.rules, emp)...)
		payslips = append(payslips, Payslip{
			ID:           PayslipID(emp.ID, year, month),
			EmployeeID:   emp.ID,
			EmployeeName: emp.Name,
			Month:        month,
			Year:         year,
			BasicSalary:  Round2(emp.Salary),
			Allowances:   Round2(emp.Allowances),
			Deductions:   Round2(emp.Deductions),
			NetPay:       Round2(net),
			GeneratedAt:  now,
		})
	}

	run := &Run{
		ID:             uuid.NewString(),
		Month:          month,
		Year:           year,
		Status:         StatusPending,
		TotalEmployees: len(employees),
		TotalAmount:    Round2(total),
		Anomalies:      anomalies,
		CreatedAt:      now,
	}

	if err := s.runs.CreateRun(ctx, run, payslips); err != nil {
		return nil, fmt.Errorf("persist payroll run: %w", err)
	}
	return run, nil
}

func (s *Service) ListRuns(ctx context.Context) ([]Run, error) {
	return s.runs.ListRuns(ctx)
}

// GetRunDetail returns the run with its per-employee breakdown. The rows come
// from the payslips frozen when the period was first run, joined with the
// run's stored anomalies; later employee edits do not change them.
func (s *Service) GetRunDetail(ctx context.Context, id string) (*RunWithDetails, error) {
	run, err := s.runs.GetRun(ctx, id)
	if err != nil {
		return nil, err
	}

	slips, err := s.payslips.ListByPeriod(ctx, run.Month, run.Year)
	if err != nil {
		return nil, err
	}

	byEmployee := map[string][]Anomaly{}
	for _, anomaly := range run.Anomalies {
		byEmployee[anomaly.EmployeeID] = append(byEmployee[anomaly.EmployeeID], anomaly)
	}

	details := make([]Detail, 0, len(slips))
	for _, slip := range slips {
		details = append(details, Detail{
			EmployeeID:   slip.EmployeeID,
			EmployeeName: slip.EmployeeName,
			BasicSalary:  slip.BasicSalary,
			Allowances:   slip.Allowances,
			Deductions:   slip.Deductions,
			NetPay:       slip.NetPay,
			Anomalies:    byEmployee[slip.EmployeeID],
		})
	}

	return &RunWithDetails{Run: *run, Details: details}, nil
}

// Approve moves a pending run to approved. Terminal runs stay as they are.
func (s *Service) Approve(ctx context.Context, id string) (*Run, error) {
	return s.runs.SetStatus(ctx, id, StatusApproved, "")
}

// Reject moves a pending run to rejected. The reason, when given, is kept on
// the run record.
func (s *Service) Reject(ctx context.Context, id, reason string) (*Run, error) {
	return s.runs.SetStatus(ctx, id, StatusRejected, reason)
}

func (s *Service) GetPayslip(ctx context.Context, id string) (*Payslip, error) {
	return s.payslips.GetByID(ctx, id)
}

func (s *Service) ListPayslips(ctx context.Context) ([]Payslip, error) {
	return s.payslips.List(ctx)
}

func (s *Service) ListEmployeePayslips(ctx context.Context, employeeID string) ([]Payslip, error) {
	return s.payslips.ListByEmployee(ctx, employeeID)
}
