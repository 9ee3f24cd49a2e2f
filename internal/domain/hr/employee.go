// Package hr holds the read-only employee model listed by the HR grids.
package hr

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// EmploymentStatus of an employee
type EmploymentStatus string

const (
	StatusActive     EmploymentStatus = "ACTIVE"
	StatusOnLeave    EmploymentStatus = "ON_LEAVE"
	StatusTerminated EmploymentStatus = "TERMINATED"
)

// Employee is a row of the employee directory
type Employee struct {
	ID         string
	Code       string
	Name       string
	Department string
	Position   string
	Status     EmploymentStatus
	JoinedAt   time.Time
	Salary     decimal.Decimal
}

// Directory lists employees
type Directory interface {
	List(ctx context.Context) ([]Employee, error)
}
