package models

import (
	"time"

	"github.com/erp/workbench/internal/domain/finance"
	"github.com/shopspring/decimal"
)

// PurchaseInvoiceModel is the persistence model for purchase invoices
type PurchaseInvoiceModel struct {
	TenantAggregateModel
	InvoiceNumber string          `gorm:"type:varchar(50);not null"`
	SupplierName  string          `gorm:"type:varchar(200);not null"`
	InvoiceDate   time.Time       `gorm:"type:date;not null"`
	DueDate       time.Time       `gorm:"type:date;not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TaxAmount     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status        string          `gorm:"type:varchar(20);not null"`
	Remark        string          `gorm:"type:text"`
	DebitNoteID   *int64
}

// TableName returns the table name for GORM
func (PurchaseInvoiceModel) TableName() string {
	return "purchase_invoices"
}

// PurchaseInvoiceModelFromDomain converts an invoice for storage
func PurchaseInvoiceModelFromDomain(inv *finance.PurchaseInvoice) *PurchaseInvoiceModel {
	m := &PurchaseInvoiceModel{
		InvoiceNumber: inv.InvoiceNumber,
		SupplierName:  inv.SupplierName,
		InvoiceDate:   inv.InvoiceDate,
		DueDate:       inv.DueDate,
		Amount:        inv.Amount,
		TaxAmount:     inv.TaxAmount,
		Status:        string(inv.Status),
		Remark:        inv.Remark,
		DebitNoteID:   inv.DebitNoteID,
	}
	m.TenantAggregateModel.FromDomain(inv.TenantAggregateRoot)
	return m
}

// ToDomain converts the row back to an invoice
func (m *PurchaseInvoiceModel) ToDomain() *finance.PurchaseInvoice {
	return &finance.PurchaseInvoice{
		TenantAggregateRoot: m.TenantAggregateModel.ToDomain(),
		InvoiceNumber:       m.InvoiceNumber,
		SupplierName:        m.SupplierName,
		InvoiceDate:         m.InvoiceDate,
		DueDate:             m.DueDate,
		Amount:              m.Amount,
		TaxAmount:           m.TaxAmount,
		Status:              finance.InvoiceStatus(m.Status),
		Remark:              m.Remark,
		DebitNoteID:         m.DebitNoteID,
	}
}
