package finance

import (
	"github.com/erp/workbench/internal/domain/datagrid"
	"github.com/erp/workbench/internal/domain/finance"
	"github.com/erp/workbench/internal/domain/gridlayout"
)

// Grid identity of the purchase invoice list
const (
	ModuleFinance              int64 = 3
	TransactionPurchaseInvoice int64 = 21
	PurchaseInvoiceGrid              = "purchaseInvoice"
)

// PurchaseInvoiceGridKey is the default layout key of the invoice list
var PurchaseInvoiceGridKey = gridlayout.GridKey{
	ModuleID:      ModuleFinance,
	TransactionID: TransactionPurchaseInvoice,
	GridName:      PurchaseInvoiceGrid,
}

// PurchaseInvoiceTable is the invoice grid. Invoices settled by a debit
// note are locked.
var PurchaseInvoiceTable = datagrid.MustNewTable(
	func(i finance.PurchaseInvoice) string { return i.ID.String() },
	datagrid.ActionPolicy[finance.PurchaseInvoice]{
		LockedBy: datagrid.LinkedDocument(func(i finance.PurchaseInvoice) *int64 { return i.DebitNoteID }),
	},
	invoiceColumn("invoiceNumber", "Invoice No.", 140, func(i finance.PurchaseInvoice) any { return i.InvoiceNumber }),
	invoiceColumn("supplierName", "Supplier", 220, func(i finance.PurchaseInvoice) any { return i.SupplierName }),
	invoiceColumn("invoiceDate", "Invoice Date", 120, func(i finance.PurchaseInvoice) any { return i.InvoiceDate }),
	invoiceColumn("dueDate", "Due Date", 120, func(i finance.PurchaseInvoice) any { return i.DueDate }),
	invoiceColumn("amount", "Amount", 120, func(i finance.PurchaseInvoice) any { return i.Amount }),
	invoiceColumn("taxAmount", "Tax", 100, func(i finance.PurchaseInvoice) any { return i.TaxAmount }),
	invoiceColumn("total", "Total", 120, func(i finance.PurchaseInvoice) any { return i.Total() }),
	invoiceColumn("status", "Status", 100, func(i finance.PurchaseInvoice) any { return string(i.Status) }),
	invoiceColumn("debitNoteId", "Debit Note", 110, func(i finance.PurchaseInvoice) any { return i.DebitNoteID }),
	invoiceColumn("remark", "Remark", 240, func(i finance.PurchaseInvoice) any { return i.Remark }),
)

func invoiceColumn(id, header string, width int, value func(finance.PurchaseInvoice) any) datagrid.Accessor[finance.PurchaseInvoice] {
	col := gridlayout.NewColumn(id, header, width)
	col.MinWidth = 60
	if id == "invoiceNumber" {
		col.Hideable = false
	}
	return datagrid.Accessor[finance.PurchaseInvoice]{Column: col, Value: value}
}
