package finance

import (
	"strings"
	"time"

	"github.com/erp/workbench/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the status of a purchase invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "DRAFT"
	InvoiceStatusPosted    InvoiceStatus = "POSTED"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusPosted, InvoiceStatusCancelled:
		return true
	}
	return false
}

// PurchaseInvoice is a supplier invoice. Once a debit note references it
// (DebitNoteID > 0) the invoice can no longer be edited or deleted.
type PurchaseInvoice struct {
	shared.TenantAggregateRoot
	InvoiceNumber string
	SupplierName  string
	InvoiceDate   time.Time
	DueDate       time.Time
	Amount        decimal.Decimal
	TaxAmount     decimal.Decimal
	Status        InvoiceStatus
	Remark        string
	DebitNoteID   *int64
}

// InvoiceInput carries the editable fields of an invoice
type InvoiceInput struct {
	InvoiceNumber string
	SupplierName  string
	InvoiceDate   time.Time
	DueDate       time.Time
	Amount        decimal.Decimal
	TaxAmount     decimal.Decimal
	Remark        string
}

func (in InvoiceInput) validate() error {
	if strings.TrimSpace(in.InvoiceNumber) == "" {
		return shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if len(in.InvoiceNumber) > 50 {
		return shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot exceed 50 characters")
	}
	if strings.TrimSpace(in.SupplierName) == "" {
		return shared.NewDomainError("INVALID_SUPPLIER_NAME", "Supplier name cannot be empty")
	}
	if in.InvoiceDate.IsZero() {
		return shared.NewDomainError("INVALID_INVOICE_DATE", "Invoice date is required")
	}
	if !in.DueDate.IsZero() && in.DueDate.Before(in.InvoiceDate) {
		return shared.NewDomainError("INVALID_DUE_DATE", "Due date cannot be before invoice date")
	}
	if !in.Amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if in.TaxAmount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Tax amount cannot be negative")
	}
	return nil
}

// NewPurchaseInvoice creates a draft invoice
func NewPurchaseInvoice(tenantID uuid.UUID, in InvoiceInput) (*PurchaseInvoice, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	inv := &PurchaseInvoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Status:              InvoiceStatusDraft,
	}
	inv.apply(in)
	return inv, nil
}

func (i *PurchaseInvoice) apply(in InvoiceInput) {
	i.InvoiceNumber = strings.TrimSpace(in.InvoiceNumber)
	i.SupplierName = strings.TrimSpace(in.SupplierName)
	i.InvoiceDate = in.InvoiceDate
	i.DueDate = in.DueDate
	if i.DueDate.IsZero() {
		i.DueDate = in.InvoiceDate
	}
	i.Amount = in.Amount
	i.TaxAmount = in.TaxAmount
	i.Remark = in.Remark
}

// IsLinked reports whether a debit note references this invoice
func (i *PurchaseInvoice) IsLinked() bool {
	return i.DebitNoteID != nil && *i.DebitNoteID > 0
}

// Update replaces the editable fields
func (i *PurchaseInvoice) Update(in InvoiceInput) error {
	if i.IsLinked() {
		return shared.ErrLinkedDocument
	}
	if i.Status == InvoiceStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cancelled invoices cannot be edited")
	}
	if err := in.validate(); err != nil {
		return err
	}
	i.apply(in)
	i.IncrementVersion()
	return nil
}

// Post moves a draft invoice to POSTED
func (i *PurchaseInvoice) Post() error {
	if i.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft invoices can be posted")
	}
	i.Status = InvoiceStatusPosted
	i.IncrementVersion()
	return nil
}

// Cancel cancels an invoice that is not linked
func (i *PurchaseInvoice) Cancel() error {
	if i.IsLinked() {
		return shared.ErrLinkedDocument
	}
	if i.Status == InvoiceStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Invoice is already cancelled")
	}
	i.Status = InvoiceStatusCancelled
	i.IncrementVersion()
	return nil
}

// LinkDebitNote records the debit note settling this invoice
func (i *PurchaseInvoice) LinkDebitNote(debitNoteID int64) error {
	if debitNoteID <= 0 {
		return shared.NewDomainError("INVALID_DEBIT_NOTE", "Debit note id must be positive")
	}
	if i.Status != InvoiceStatusPosted {
		return shared.NewDomainError("INVALID_STATE", "Only posted invoices can be linked to a debit note")
	}
	if i.IsLinked() {
		return shared.ErrLinkedDocument
	}
	i.DebitNoteID = &debitNoteID
	i.IncrementVersion()
	return nil
}

// EnsureDeletable returns an error when the invoice must be kept
func (i *PurchaseInvoice) EnsureDeletable() error {
	if i.IsLinked() {
		return shared.ErrLinkedDocument
	}
	return nil
}

// Total returns amount plus tax
func (i *PurchaseInvoice) Total() decimal.Decimal {
	return i.Amount.Add(i.TaxAmount)
}

// DaysOverdue returns how many whole days past due the invoice is at asOf
func (i *PurchaseInvoice) DaysOverdue(asOf time.Time) int {
	if !asOf.After(i.DueDate) {
		return 0
	}
	return int(asOf.Sub(i.DueDate).Hours() / 24)
}
