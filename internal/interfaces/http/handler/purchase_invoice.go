package handler

import (
	"github.com/erp/workbench/internal/application/common"
	exportapp "github.com/erp/workbench/internal/application/export"
	financeapp "github.com/erp/workbench/internal/application/finance"
	"github.com/erp/workbench/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// PurchaseInvoiceHandler serves the purchase invoice grid and its rows
type PurchaseInvoiceHandler struct {
	BaseHandler
	invoices *financeapp.PurchaseInvoiceService
	exports  *exportapp.Service
	source   exportapp.Source
}

// NewPurchaseInvoiceHandler creates a new PurchaseInvoiceHandler
func NewPurchaseInvoiceHandler(invoices *financeapp.PurchaseInvoiceService, exports *exportapp.Service) *PurchaseInvoiceHandler {
	return &PurchaseInvoiceHandler{
		invoices: invoices,
		exports:  exports,
		source:   exportapp.NewTableSource(financeapp.PurchaseInvoiceTable, invoices.Rows),
	}
}

// LinkDebitNoteRequest names the debit note that settles an invoice
type LinkDebitNoteRequest struct {
	DebitNoteID int64 `json:"debit_note_id" binding:"required,gt=0"`
}

// List renders one page of the grid with the user's layout
// GET /finance/purchase-invoices
func (h *PurchaseInvoiceHandler) List(c *gin.Context) {
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
	view, err := h.invoices.List(c.Request.Context(), o, financeapp.PurchaseInvoiceGridKey, q.ToQuery())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, view, int64(view.Total), view.Page, view.PageSize)
}

// Get returns one invoice
// GET /finance/purchase-invoices/:id
func (h *PurchaseInvoiceHandler) Get(c *gin.Context) {
	o, ok := owner(c)
	if !ok {
		h.Unauthorized(c)
		return
	}
	id, err := parseUUID(c, "id")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	inv, err := h.invoices.Get(c.Request.Context(), o.TenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inv)
}

// Create adds a draft invoice
// POST /finance/purchase-invoices
func (h *PurchaseInvoiceHandler) Create(c *gin.Context) {
	o, ok := owner(c)
	if !ok {
		h.Unauthorized(c)
		return
	}
	var req financeapp.SaveInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	Result(c, h.invoices.Create(c.Request.Context(), o.TenantID, req))
}

// Update edits an invoice; linked invoices are refused
// PUT /finance/purchase-invoices/:id
func (h *PurchaseInvoiceHandler) Update(c *gin.Context) {
	o, ok := owner(c)
	if !ok {
		h.Unauthorized(c)
		return
	}
	id, err := parseUUID(c, "id")
	if err != nil {
		Result(c, common.Envelope[*financeapp.InvoiceResponse](c.Request.Context(), nil, err, ""))
		return
	}
	var req financeapp.SaveInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	Result(c, h.invoices.Update(c.Request.Context(), o.TenantID, id, req))
}

// Delete removes one invoice; linked invoices are refused
// DELETE /finance/purchase-invoices/:id
func (h *PurchaseInvoiceHandler) Delete(c *gin.Context) {
	o, ok := owner(c)
	if !ok {
		h.Unauthorized(c)
		return
	}
	id, err := parseUUID(c, "id")
	if err != nil {
		Result(c, common.Envelope[any](c.Request.Context(), nil, err, ""))
		return
	}
	Result(c, h.invoices.Delete(c.Request.Context(), o.TenantID, id))
}

// BulkDelete removes the selected invoices
// POST /finance/purchase-invoices/bulk-delete
func (h *PurchaseInvoiceHandler) BulkDelete(c *gin.Context) {
	o, ok := owner(c)
	if !ok {
		h.Unauthorized(c)
		return
	}
	var req financeapp.BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	Result(c, h.invoices.BulkDelete(c.Request.Context(), o.TenantID, req))
}

// Post moves a draft invoice to POSTED
// POST /finance/purchase-invoices/:id/post
func (h *PurchaseInvoiceHandler) Post(c *gin.Context) {
	o, ok := owner(c)
	if !ok {
		h.Unauthorized(c)
		return
	}
	id, err := parseUUID(c, "id")
	if err != nil {
		Result(c, common.Envelope[*financeapp.InvoiceResponse](c.Request.Context(), nil, err, ""))
		return
	}
	Result(c, h.invoices.Post(c.Request.Context(), o.TenantID, id))
}

// Cancel cancels an invoice
// POST /finance/purchase-invoices/:id/cancel
func (h *PurchaseInvoiceHandler) Cancel(c *gin.Context) {
	o, ok := owner(c)
	if !ok {
		h.Unauthorized(c)
		return
	}
	id, err := parseUUID(c, "id")
	if err != nil {
		Result(c, common.Envelope[*financeapp.InvoiceResponse](c.Request.Context(), nil, err, ""))
		return
	}
	Result(c, h.invoices.Cancel(c.Request.Context(), o.TenantID, id))
}

// LinkDebitNote records the settling debit note, locking the row
// POST /finance/purchase-invoices/:id/debit-note
func (h *PurchaseInvoiceHandler) LinkDebitNote(c *gin.Context) {
	o, ok := owner(c)
	if !ok {
		h.Unauthorized(c)
		return
	}
	id, err := parseUUID(c, "id")
	if err != nil {
		Result(c, common.Envelope[*financeapp.InvoiceResponse](c.Request.Context(), nil, err, ""))
		return
	}
	var req LinkDebitNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	Result(c, h.invoices.LinkDebitNote(c.Request.Context(), o.TenantID, id, req.DebitNoteID))
}

// Export writes the grid as xlsx or pdf
// GET /finance/purchase-invoices/export?format=xlsx|pdf
func (h *PurchaseInvoiceHandler) Export(c *gin.Context) {
	h.exportGrid(c, h.exports, h.source, financeapp.PurchaseInvoiceGridKey)
}
