package payroll

import (
	"strings"

	"hrpay/internal/domain/directory"
)

// Rule inspects one employee's compensation figures and reports zero or more
// anomalies. Rules are advisory; a run proceeds regardless of what they flag.
type Rule func(directory.Employee) []Anomaly

const (
	deductionRateLimit = 0.3
	allowanceRateLimit = 0.2
)

func DefaultRules() []Rule {
	return []Rule{
		UnusualDeductionRule,
		EngineeringAllowanceRule,
	}
}

// UnusualDeductionRule flags deductions above 30% of base salary.
func UnusualDeductionRule(emp directory.Employee) []Anomaly {
	if emp.Deductions > emp.Salary*deductionRateLimit {
		return []Anomaly{{
			EmployeeID:   emp.ID,
			EmployeeName: emp.Name,
			Type:         AnomalyUnusualDeduction,
			Message:      "Deduction amount exceeds 30% of salary",
			Severity:     SeverityHigh,
		}}
	}
	return nil
}

// EngineeringAllowanceRule flags allowances above 20% of base salary for
// engineering roles (case-insensitive substring match on the job role).
func EngineeringAllowanceRule(emp directory.Employee) []Anomaly {
	if emp.Allowances > emp.Salary*allowanceRateLimit && strings.Contains(strings.ToLower(emp.JobRole), "engineer") {
		return []Anomaly{{
			EmployeeID:   emp.ID,
			EmployeeName: emp.Name,
			Type:         AnomalyOther,
			Message:      "High allowance for engineering role",
			Severity:     SeverityLow,
		}}
	}
	return nil
}

// Detect runs every rule against one employee and collects the results.
func Detect(rules []Rule, emp directory.Employee) []Anomaly {
	var anomalies []Anomaly
	for _, rule := range rules {
		anomalies = append(anomalies, rule(emp)...)
	}
	return anomalies
}
