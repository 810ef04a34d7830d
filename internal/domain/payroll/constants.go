package payroll

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"

	AnomalySalaryMismatch   = "salary_mismatch"
	AnomalyUnusualDeduction = "unusual_deduction"
	AnomalyMissingData      = "missing_data"
	AnomalyOther            = "other"

	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)
