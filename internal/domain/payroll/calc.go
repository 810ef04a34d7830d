package payroll

import (
	"math"

	"hrpay/internal/domain/directory"
)

// ComputeNetPay is the single net pay formula: base salary plus allowances
// minus deductions. Pure; rounding happens at output, not here.
func ComputeNetPay(salary, allowances, deductions float64) float64 {
	return salary + allowances - deductions
}

// ComputeTotals sums unrounded net pay across the employee set and rounds the
// aggregate once, so per-employee rounding cannot drift the total.
func ComputeTotals(employees []directory.Employee) (totalAmount float64, totalEmployees int) {
	var total float64
	for _, emp := range employees {
		total += ComputeNetPay(emp.Salary, emp.Allowances, emp.Deductions)
	}
	return Round2(total), len(employees)
}

// Round2 rounds half away from zero to the currency minor unit.
func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}
