package directory

import "time"

const (
	StatusActive     = "active"
	StatusInactive   = "inactive"
	StatusTerminated = "terminated"
)

type Employee struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	JobRole          string    `json:"jobRole"`
	Salary           float64   `json:"salary"`
	Allowances       float64   `json:"allowances"`
	Deductions       float64   `json:"deductions"`
	EmploymentStatus string    `json:"employmentStatus"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func ValidStatus(status string) bool {
	switch status {
	case StatusActive, StatusInactive, StatusTerminated:
		return true
	}
	return false
}
