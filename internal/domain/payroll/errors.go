package payroll

import "errors"

var (
	ErrRunNotFound     = errors.New("payroll run not found")
	ErrRunNotPending   = errors.New("payroll run is not pending")
	ErrPayslipNotFound = errors.New("payslip not found")
	ErrInvalidPeriod   = errors.New("payroll period must be a month 01-12 and a four-digit year")
)
