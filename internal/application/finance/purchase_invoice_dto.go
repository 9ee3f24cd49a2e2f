package finance

import (
	"time"

	"github.com/erp/workbench/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaveInvoiceRequest carries the editable fields of an invoice
type SaveInvoiceRequest struct {
	InvoiceNumber string          `json:"invoice_number" binding:"required,max=50"`
	SupplierName  string          `json:"supplier_name" binding:"required,max=200"`
	InvoiceDate   time.Time       `json:"invoice_date"`
	DueDate       time.Time       `json:"due_date"`
	Amount        decimal.Decimal `json:"amount"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	Remark        string          `json:"remark" binding:"max=500"`
}

func (r SaveInvoiceRequest) input() finance.InvoiceInput {
	return finance.InvoiceInput{
		InvoiceNumber: r.InvoiceNumber,
		SupplierName:  r.SupplierName,
		InvoiceDate:   r.InvoiceDate,
		DueDate:       r.DueDate,
		Amount:        r.Amount,
		TaxAmount:     r.TaxAmount,
		Remark:        r.Remark,
	}
}

// BulkDeleteRequest names the rows to delete, either by row id or by
// selection index into the unfiltered invoice list.
type BulkDeleteRequest struct {
	IDs     []string `json:"ids"`
	Indices []int    `json:"indices"`
}

// BulkDeleteResult lists the deleted invoice ids
type BulkDeleteResult struct {
	DeletedIDs []string `json:"deleted_ids"`
	Count      int      `json:"count"`
}

// InvoiceResponse is the API form of an invoice
type InvoiceResponse struct {
	ID            uuid.UUID       `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	SupplierName  string          `json:"supplier_name"`
	InvoiceDate   time.Time       `json:"invoice_date"`
	DueDate       time.Time       `json:"due_date"`
	Amount        decimal.Decimal `json:"amount"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	Total         decimal.Decimal `json:"total"`
	Status        string          `json:"status"`
	Remark        string          `json:"remark"`
	DebitNoteID   *int64          `json:"debitNoteId"`
	Locked        bool            `json:"locked"`
	Version       int             `json:"version"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToInvoiceResponse converts a domain invoice
func ToInvoiceResponse(i *finance.PurchaseInvoice) *InvoiceResponse {
	return &InvoiceResponse{
		ID:            i.ID,
		InvoiceNumber: i.InvoiceNumber,
		SupplierName:  i.SupplierName,
		InvoiceDate:   i.InvoiceDate,
		DueDate:       i.DueDate,
		Amount:        i.Amount,
		TaxAmount:     i.TaxAmount,
		Total:         i.Total(),
		Status:        string(i.Status),
		Remark:        i.Remark,
		DebitNoteID:   i.DebitNoteID,
		Locked:        i.IsLinked(),
		Version:       i.Version,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}
}
