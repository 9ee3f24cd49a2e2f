package hr

import (
	"context"

	layoutapp "github.com/erp/workbench/internal/application/gridlayout"
	"github.com/erp/workbench/internal/domain/datagrid"
	"github.com/erp/workbench/internal/domain/gridlayout"
	"github.com/erp/workbench/internal/domain/hr"
	"github.com/erp/workbench/internal/infrastructure/telemetry"
	"github.com/google/uuid"
)

// EmployeeService lists employees through the generic grid
type EmployeeService struct {
	directory hr.Directory
	layouts   *layoutapp.LayoutService
}

// NewEmployeeService creates a new EmployeeService
func NewEmployeeService(directory hr.Directory, layouts *layoutapp.LayoutService) *EmployeeService {
	return &EmployeeService{directory: directory, layouts: layouts}
}

// Columns returns the grid's column definitions
func (s *EmployeeService) Columns() gridlayout.Columns {
	return EmployeeTable.Columns()
}

// Rows returns every employee. The directory is shared by all tenants.
func (s *EmployeeService) Rows(ctx context.Context, _ uuid.UUID) ([]hr.Employee, error) {
	return s.directory.List(ctx)
}

// List renders one page of the employee grid with the user's layout
func (s *EmployeeService) List(ctx context.Context, owner layoutapp.Owner, key gridlayout.GridKey, q datagrid.Query) (*datagrid.View, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "employee", "list",
		telemetry.SpanAttrGrid, key.String(),
	)
	defer span.End()

	rows, err := s.directory.List(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	state := s.layouts.State(ctx, owner, key, EmployeeTable.Columns())
	view := EmployeeTable.Render(rows, state, q)
	return &view, nil
}
