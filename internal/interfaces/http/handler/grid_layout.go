package handler

import (
	"strconv"

	layoutapp "github.com/erp/workbench/internal/application/gridlayout"
	"github.com/erp/workbench/internal/domain/gridlayout"
	"github.com/erp/workbench/internal/domain/shared"
	"github.com/gin-gonic/gin"
)

// GridLayoutHandler serves the saved column layouts of the signed-in user
type GridLayoutHandler struct {
	BaseHandler
	layouts  *layoutapp.LayoutService
	registry *layoutapp.Registry
}

// NewGridLayoutHandler creates a new GridLayoutHandler
func NewGridLayoutHandler(layouts *layoutapp.LayoutService, registry *layoutapp.Registry) *GridLayoutHandler {
	return &GridLayoutHandler{layouts: layouts, registry: registry}
}

// SaveLayoutRequest is the saveUserGrid payload: the grid key plus the four
// JSON strings of the layout
type SaveLayoutRequest struct {
	ModuleID      int64  `json:"module_id" binding:"gte=0"`
	TransactionID int64  `json:"transaction_id" binding:"gte=0"`
	GridName      string `json:"grid_name" binding:"required,max=100"`
	gridlayout.EncodedLayout
	// IncludeSort defaults to true
	IncludeSort *bool `json:"include_sort"`
}

// MoveColumnRequest moves the column at display position From to To
type MoveColumnRequest struct {
	From int `json:"from" binding:"gte=0"`
	To   int `json:"to" binding:"gte=0"`
}

// LayoutResponse is a layout with the grid definition it was resolved against
type LayoutResponse struct {
	layoutapp.KeyResponse
	Columns gridlayout.Columns `json:"columns"`
	layoutapp.LayoutView
}

// Get returns the user's layout, or the defaults when nothing is saved
// GET /grid-layouts/:module/:transaction/:grid
func (h *GridLayoutHandler) Get(c *gin.Context) {
	o, ok := owner(c)
	if !ok {
		h.Unauthorized(c)
		return
	}
	key, columns, err := h.resolve(c.Param("module"), c.Param("transaction"), c.Param("grid"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	view := h.layouts.Load(c.Request.Context(), o, key, columns)
	h.Success(c, toLayoutResponse(key, columns, view))
}

// Save stores the user's layout
// POST /grid-layouts
func (h *GridLayoutHandler) Save(c *gin.Context) {
	o, ok := owner(c)
	if !ok {
		h.Unauthorized(c)
		return
	}
	var req SaveLayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	key, columns, err := h.resolveKey(req.ModuleID, req.TransactionID, req.GridName)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	state, err := gridlayout.DecodeState(req.EncodedLayout)
	if err != nil {
		h.HandleError(c, shared.NewDomainError("INVALID_LAYOUT", err.Error()))
		return
	}

	includeSort := req.IncludeSort == nil || *req.IncludeSort
	view, err := h.layouts.Save(c.Request.Context(), o, key, columns, layoutapp.SaveLayoutRequest{
		Visibility:  state.Visibility,
		Order:       state.Order,
		Sizes:       state.Sizes,
		Sort:        state.Sort,
		IncludeSort: includeSort,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toLayoutResponse(key, columns, view))
}

// Move relocates one column and saves the layout
// POST /grid-layouts/:module/:transaction/:grid/move
func (h *GridLayoutHandler) Move(c *gin.Context) {
	o, ok := owner(c)
	if !ok {
		h.Unauthorized(c)
		return
	}
	var req MoveColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	key, columns, err := h.resolve(c.Param("module"), c.Param("transaction"), c.Param("grid"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	view, err := h.layouts.Move(c.Request.Context(), o, key, columns, req.From, req.To)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toLayoutResponse(key, columns, view))
}

// Reset deletes the user's layout and returns the defaults
// DELETE /grid-layouts/:module/:transaction/:grid
func (h *GridLayoutHandler) Reset(c *gin.Context) {
	o, ok := owner(c)
	if !ok {
		h.Unauthorized(c)
		return
	}
	key, columns, err := h.resolve(c.Param("module"), c.Param("transaction"), c.Param("grid"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	view, err := h.layouts.Reset(c.Request.Context(), o, key, columns)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toLayoutResponse(key, columns, view))
}

// List returns the keys of every layout the user saved
// GET /grid-layouts
func (h *GridLayoutHandler) List(c *gin.Context) {
	o, ok := owner(c)
	if !ok {
		h.Unauthorized(c)
		return
	}
	keys, err := h.layouts.ListForUser(c.Request.Context(), o)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, layoutapp.ToKeyResponses(keys))
}

func (h *GridLayoutHandler) resolve(module, transaction, grid string) (gridlayout.GridKey, gridlayout.Columns, error) {
	moduleID, err := strconv.ParseInt(module, 10, 64)
	if err != nil {
		return gridlayout.GridKey{}, nil, shared.NewDomainError("INVALID_GRID_KEY", "Module id must be a number")
	}
	transactionID, err := strconv.ParseInt(transaction, 10, 64)
	if err != nil {
		return gridlayout.GridKey{}, nil, shared.NewDomainError("INVALID_GRID_KEY", "Transaction id must be a number")
	}
	return h.resolveKey(moduleID, transactionID, grid)
}

func (h *GridLayoutHandler) resolveKey(moduleID, transactionID int64, grid string) (gridlayout.GridKey, gridlayout.Columns, error) {
	key, err := gridlayout.NewGridKey(moduleID, transactionID, grid)
	if err != nil {
		return gridlayout.GridKey{}, nil, err
	}
	columns, err := h.registry.Columns(key)
	if err != nil {
		return gridlayout.GridKey{}, nil, err
	}
	return key, columns, nil
}

func toLayoutResponse(key gridlayout.GridKey, columns gridlayout.Columns, view layoutapp.LayoutView) LayoutResponse {
	return LayoutResponse{
		KeyResponse: layoutapp.KeyResponse{
			ModuleID:      key.ModuleID,
			TransactionID: key.TransactionID,
			GridName:      key.GridName,
		},
		Columns:    columns,
		LayoutView: view,
	}
}
