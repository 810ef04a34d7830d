package payroll

import (
	"testing"

	"hrpay/internal/domain/directory"
)

func TestUnusualDeductionRule(t *testing.T) {
	tests := []struct {
		name string
		emp  directory.Employee
		want int
	}{
		{"deductions above 30 percent", directory.Employee{ID: "e1", Name: "A", Salary: 1000, Deductions: 400}, 1},
		{"deductions below threshold", directory.Employee{ID: "e1", Name: "A", Salary: 1000, Deductions: 250}, 0},
		{"deductions exactly at threshold", directory.Employee{ID: "e1", Name: "A", Salary: 1000, Deductions: 300}, 0},
		{"zero salary with deductions", directory.Employee{ID: "e1", Name: "A", Salary: 0, Deductions: 1}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UnusualDeductionRule(tt.emp)
			if len(got) != tt.want {
				t.Fatalf("expected %d anomalies, got %d", tt.want, len(got))
			}
			if tt.want == 0 {
				return
			}
			anomaly := got[0]
			if anomaly.Type != AnomalyUnusualDeduction {
				t.Fatalf("expected type %q, got %q", AnomalyUnusualDeduction, anomaly.Type)
			}
			if anomaly.Severity != SeverityHigh {
				t.Fatalf("expected severity %q, got %q", SeverityHigh, anomaly.Severity)
			}
			if anomaly.Message != "Deduction amount exceeds 30% of salary" {
				t.Fatalf("unexpected message %q", anomaly.Message)
			}
		})
	}
}

func TestEngineeringAllowanceRule(t *testing.T) {
	tests := []struct {
		name string
		emp  directory.Employee
		want int
	}{
		{"engineer above threshold", directory.Employee{ID: "e1", Name: "A", JobRole: "Senior Engineer", Salary: 1000, Allowances: 250}, 1},
		{"engineer case-insensitive match", directory.Employee{ID: "e1", Name: "A", JobRole: "software ENGINEERING lead", Salary: 1000, Allowances: 250}, 1},
		{"non-engineer above threshold", directory.Employee{ID: "e1", Name: "A", JobRole: "Designer", Salary: 1000, Allowances: 250}, 0},
		{"engineer below threshold", directory.Employee{ID: "e1", Name: "A", JobRole: "Engineer", Salary: 1000, Allowances: 150}, 0},
		{"engineer exactly at threshold", directory.Employee{ID: "e1", Name: "A", JobRole: "Engineer", Salary: 1000, Allowances: 200}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EngineeringAllowanceRule(tt.emp)
			if len(got) != tt.want {
				t.Fatalf("expected %d anomalies, got %d", tt.want, len(got))
			}
			if tt.want == 0 {
				return
			}
			anomaly := got[0]
			if anomaly.Type != AnomalyOther {
				t.Fatalf("expected type %q, got %q", AnomalyOther, anomaly.Type)
			}
			if anomaly.Severity != SeverityLow {
				t.Fatalf("expected severity %q, got %q", SeverityLow, anomaly.Severity)
			}
			if anomaly.Message != "High allowance for engineering role" {
				t.Fatalf("unexpected message %q", anomaly.Message)
			}
		})
	}
}

func TestDetectCombinesRules(t *testing.T) {
	emp := directory.Employee{
		ID:         "e1",
		Name:       "Both Flags",
		JobRole:    "Staff Engineer",
		Salary:     1000,
		Allowances: 300,
		Deductions: 500,
	}

	got := Detect(DefaultRules(), emp)
	if len(got) != 2 {
		t.Fatalf("expected 2 anomalies, got %d", len(got))
	}
	if got[0].Type != AnomalyUnusualDeduction || got[1].Type != AnomalyOther {
		t.Fatalf("unexpected anomaly ordering: %q, %q", got[0].Type, got[1].Type)
	}
}

func TestDetectCleanEmployee(t *testing.T) {
	emp := directory.Employee{ID: "e1", Name: "Clean", JobRole: "Accountant", Salary: 2000, Allowances: 100, Deductions: 200}
	if got := Detect(DefaultRules(), emp); len(got) != 0 {
		t.Fatalf("expected no anomalies, got %d", len(got))
	}
}
