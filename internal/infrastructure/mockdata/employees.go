// Package mockdata generates deterministic demo datasets for the read-only
// grids and dashboard panels.
package mockdata

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/erp/workbench/internal/domain/hr"
	"github.com/shopspring/decimal"
)

// Departments used by the generated employee directory
var Departments = []string{"Finance", "Sales", "Operations", "Engineering", "HR", "Procurement"}

// EmployeeDirectory is an in-memory hr.Directory generated from a seed.
// The same non-zero seed always yields the same employees; gofakeit treats
// seed 0 as "random".
type EmployeeDirectory struct {
	seed   uint64
	size   int
	anchor time.Time

	once      sync.Once
	employees []hr.Employee
}

// NewEmployeeDirectory creates a directory of size employees. anchor is the
// latest possible join date.
func NewEmployeeDirectory(seed uint64, size int, anchor time.Time) *EmployeeDirectory {
	return &EmployeeDirectory{seed: seed, size: size, anchor: anchor}
}

// List implements hr.Directory. The returned slice is a copy.
func (d *EmployeeDirectory) List(ctx context.Context) ([]hr.Employee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.once.Do(d.generate)
	out := make([]hr.Employee, len(d.employees))
	copy(out, d.employees)
	return out, nil
}

func (d *EmployeeDirectory) generate() {
	f := gofakeit.New(d.seed)
	d.employees = make([]hr.Employee, d.size)
	for i := range d.employees {
		status := hr.StatusActive
		switch roll := f.Number(1, 20); {
		case roll == 1:
			status = hr.StatusTerminated
		case roll <= 3:
			status = hr.StatusOnLeave
		}
		d.employees[i] = hr.Employee{
			ID:         fmt.Sprintf("%d", i+1),
			Code:       fmt.Sprintf("EMP-%04d", i+1),
			Name:       f.Name(),
			Department: pick(f, Departments),
			Position:   f.JobTitle(),
			Status:     status,
			JoinedAt:   d.anchor.AddDate(0, 0, -f.Number(30, 3650)).Truncate(24 * time.Hour),
			Salary:     decimal.NewFromInt(int64(f.Number(2500, 12000))).Mul(decimal.NewFromInt(12)),
		}
	}
}

var _ hr.Directory = (*EmployeeDirectory)(nil)

func pick[T any](f *gofakeit.Faker, items []T) T {
	return items[f.Number(0, len(items)-1)]
}
