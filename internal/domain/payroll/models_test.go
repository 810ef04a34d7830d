package payroll

import (
	"bytes"
	"testing"
	"time"
)

func TestPayslipID(t *testing.T) {
	got := PayslipID("e1", 2025, "03")
	if got != "payslip-e1-2025-03" {
		t.Fatalf("unexpected payslip id %q", got)
	}

	// Re-running the same period must produce the same id.
	if again := PayslipID("e1", 2025, "03"); again != got {
		t.Fatalf("payslip id not deterministic: %q vs %q", got, again)
	}
}

func TestPeriodLabel(t *testing.T) {
	slip := Payslip{Month: "03", Year: 2025}
	if got := slip.PeriodLabel(); got != "March 2025" {
		t.Fatalf("expected %q, got %q", "March 2025", got)
	}

	slip = Payslip{Month: "xx", Year: 2025}
	if got := slip.PeriodLabel(); got != "xx/2025" {
		t.Fatalf("expected fallback label, got %q", got)
	}
}

func TestRenderPayslipPDF(t *testing.T) {
	slip := Payslip{
		ID:           "payslip-e1-2025-03",
		EmployeeID:   "e1",
		EmployeeName: "Alice",
		Month:        "03",
		Year:         2025,
		BasicSalary:  1000,
		Allowances:   200,
		Deductions:   100,
		NetPay:       1100,
		GeneratedAt:  time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC),
	}

	pdf, err := RenderPayslipPDF(slip)
	if err != nil {
		t.Fatalf("RenderPayslipPDF returned error: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("output does not look like a PDF")
	}
}
