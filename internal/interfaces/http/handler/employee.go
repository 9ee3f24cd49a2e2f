package handler

import (
	exportapp "github.com/erp/workbench/internal/application/export"
	hrapp "github.com/erp/workbench/internal/application/hr"
	"github.com/erp/workbench/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// EmployeeHandler serves the read-only employee grid
type EmployeeHandler struct {
	BaseHandler
	employees *hrapp.EmployeeService
	exports   *exportapp.Service
	source    exportapp.Source
}

// NewEmployeeHandler creates a new EmployeeHandler
func NewEmployeeHandler(employees *hrapp.EmployeeService, exports *exportapp.Service) *EmployeeHandler {
	return &EmployeeHandler{
		employees: employees,
		exports:   exports,
		source:    exportapp.NewTableSource(hrapp.EmployeeTable, employees.Rows),
	}
}

// List renders one page of the employee grid
// GET /hr/employees
func (h *EmployeeHandler) List(c *gin.Context) {
	o, ok := owner(c)
	if !ok {
		h.Unauthorized(c)
		return
	}
	var q dto.GridQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}
	view, err := h.employees.List(c.Request.Context(), o, hrapp.EmployeeGridKey, q.ToQuery())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, view, int64(view.Total), view.Page, view.PageSize)
}

// Export writes the employee grid as xlsx or pdf
// GET /hr/employees/export
func (h *EmployeeHandler) Export(c *gin.Context) {
	h.exportGrid(c, h.exports, h.source, hrapp.EmployeeGridKey)
}
