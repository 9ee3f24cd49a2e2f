// Package hr serves the read-only employee grids.
package hr

import (
	"github.com/erp/workbench/internal/domain/datagrid"
	"github.com/erp/workbench/internal/domain/gridlayout"
	"github.com/erp/workbench/internal/domain/hr"
)

// Grid identity of the employee list
const (
	ModuleHR            int64 = 5
	TransactionEmployee int64 = 1
	EmployeeGrid              = "employee"
)

// EmployeeGridKey is the default layout key of the employee list
var EmployeeGridKey = gridlayout.GridKey{
	ModuleID:      ModuleHR,
	TransactionID: TransactionEmployee,
	GridName:      EmployeeGrid,
}

// EmployeeTable is the employee grid. Nothing is locked; the grid is read-only.
var EmployeeTable = datagrid.MustNewTable(
	func(e hr.Employee) string { return e.ID },
	datagrid.ActionPolicy[hr.Employee]{},
	employeeColumn("employeeId", "Employee ID", 120, func(e hr.Employee) any { return e.ID }),
	employeeColumn("code", "Code", 100, func(e hr.Employee) any { return e.Code }),
	employeeColumn("name", "Name", 200, func(e hr.Employee) any { return e.Name }),
	employeeColumn("department", "Department", 140, func(e hr.Employee) any { return e.Department }),
	employeeColumn("position", "Position", 180, func(e hr.Employee) any { return e.Position }),
	employeeColumn("status", "Status", 110, func(e hr.Employee) any { return string(e.Status) }),
	employeeColumn("joinedAt", "Joined", 110, func(e hr.Employee) any { return e.JoinedAt }),
	employeeColumn("salary", "Salary", 120, func(e hr.Employee) any { return e.Salary }),
)

func employeeColumn(id, header string, width int, value func(hr.Employee) any) datagrid.Accessor[hr.Employee] {
	return datagrid.Accessor[hr.Employee]{Column: gridlayout.NewColumn(id, header, width), Value: value}
}
