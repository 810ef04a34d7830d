package payroll

import (
	"fmt"
	"strconv"
	"time"
)

type Anomaly struct {
	EmployeeID   string `json:"employeeId"`
	EmployeeName string `json:"employeeName"`
	Type         string `json:"type"`
	Message      string `json:"message"`
	Severity     string `json:"severity"`
}

type Run struct {
	ID              string    `json:"id"`
	Month           string    `json:"month"`
	Year            int       `json:"year"`
	Status          string    `json:"status"`
	TotalEmployees  int       `json:"totalEmployees"`
	TotalAmount     float64   `json:"totalAmount"`
	Anomalies       []Anomaly `json:"anomalies,omitempty"`
	RejectionReason string    `json:"rejectionReason,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Detail is the per-employee breakdown of a run, built from the payslips
// frozen at run time rather than from live employee data.
type Detail struct {
	EmployeeID   string    `json:"employeeId"`
	EmployeeName string    `json:"employeeName"`
	BasicSalary  float64   `json:"basicSalary"`
	Allowances   float64   `json:"allowances"`
	Deductions   float64   `json:"deductions"`
	NetPay       float64   `json:"netPay"`
	Anomalies    []Anomaly `json:"anomalies,omitempty"`
}

type RunWithDetails struct {
	Run
	Details []Detail `json:"details"`
}

type Payslip struct {
	ID           string    `json:"id"`
	EmployeeID   string    `json:"employeeId"`
	EmployeeName string    `json:"employeeName"`
	Month        string    `json:"month"`
	Year         int       `json:"year"`
	BasicSalary  float64   `json:"basicSalary"`
	Allowances   float64   `json:"allowances"`
	Deductions   float64   `json:"deductions"`
	NetPay       float64   `json:"netPay"`
	GeneratedAt  time.Time `json:"generatedAt"`
}

// PayslipID builds the deterministic payslip id for an employee and period.
// Re-running the same period yields the same id, which is what makes payslip
// creation idempotent.
func PayslipID(employeeID string, year int, month string) string {
	return fmt.Sprintf("payslip-%s-%d-%s", employeeID, year, month)
}

// PeriodLabel renders the payslip period for display, e.g. "March 2025".
func (p Payslip) PeriodLabel() string {
	m, err := strconv.Atoi(p.Month)
	if err != nil || m < 1 || m > 12 {
		return fmt.Sprintf("%s/%d", p.Month, p.Year)
	}
	return time.Date(p.Year, time.Month(m), 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
}
