package finance

import (
	"context"
	"fmt"

	"github.com/erp/workbench/internal/application/common"
	layoutapp "github.com/erp/workbench/internal/application/gridlayout"
	"github.com/erp/workbench/internal/domain/datagrid"
	"github.com/erp/workbench/internal/domain/finance"
	"github.com/erp/workbench/internal/domain/gridlayout"
	"github.com/erp/workbench/internal/domain/shared"
	"github.com/erp/workbench/internal/infrastructure/telemetry"
	"github.com/google/uuid"
)

// PurchaseInvoiceService serves the purchase invoice grid and its row
// operations. Mutations answer with the result envelope.
type PurchaseInvoiceService struct {
	repo    finance.PurchaseInvoiceRepository
	layouts *layoutapp.LayoutService
	metrics *telemetry.WorkbenchMetrics
}

// NewPurchaseInvoiceService creates a new PurchaseInvoiceService
func NewPurchaseInvoiceService(
	repo finance.PurchaseInvoiceRepository,
	layouts *layoutapp.LayoutService,
	metrics *telemetry.WorkbenchMetrics,
) *PurchaseInvoiceService {
	return &PurchaseInvoiceService{
		repo:    repo,
		layouts: layouts,
		metrics: metrics,
	}
}

// Columns returns the grid's column definitions
func (s *PurchaseInvoiceService) Columns() gridlayout.Columns {
	return PurchaseInvoiceTable.Columns()
}

// Rows returns the tenant's invoices in the grid's base order
func (s *PurchaseInvoiceService) Rows(ctx context.Context, tenantID uuid.UUID) ([]finance.PurchaseInvoice, error) {
	return s.repo.FindAll(ctx, tenantID)
}

// List renders one page of the invoice grid with the user's layout
func (s *PurchaseInvoiceService) List(ctx context.Context, owner layoutapp.Owner, key gridlayout.GridKey, q datagrid.Query) (*datagrid.View, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "purchase_invoice", "list",
		telemetry.SpanAttrTenantID, owner.TenantID.String(),
		telemetry.SpanAttrGrid, key.String(),
	)
	defer span.End()

	rows, err := s.repo.FindAll(ctx, owner.TenantID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	state := s.layouts.State(ctx, owner, key, PurchaseInvoiceTable.Columns())
	view := PurchaseInvoiceTable.Render(rows, state, q)
	telemetry.SetAttributes(span, telemetry.SpanAttrRows, view.Total)
	return &view, nil
}

// Get returns one invoice
func (s *PurchaseInvoiceService) Get(ctx context.Context, tenantID, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return ToInvoiceResponse(inv), nil
}

// Create stores a new draft invoice
func (s *PurchaseInvoiceService) Create(ctx context.Context, tenantID uuid.UUID, req SaveInvoiceRequest) shared.Result[*InvoiceResponse] {
	ctx, span := telemetry.StartServiceSpan(ctx, "purchase_invoice", "create",
		telemetry.SpanAttrTenantID, tenantID.String(),
	)
	defer span.End()

	resp, err := s.create(ctx, tenantID, req)
	if err != nil {
		telemetry.RecordError(span, err)
	}
	return common.Envelope(ctx, resp, err, "Invoice created")
}

func (s *PurchaseInvoiceService) create(ctx context.Context, tenantID uuid.UUID, req SaveInvoiceRequest) (*InvoiceResponse, error) {
	if err := s.ensureUniqueNumber(ctx, tenantID, req.InvoiceNumber, uuid.Nil); err != nil {
		return nil, err
	}
	inv, err := finance.NewPurchaseInvoice(tenantID, req.input())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}
	return ToInvoiceResponse(inv), nil
}

// Update replaces the editable fields. Linked invoices are rejected.
func (s *PurchaseInvoiceService) Update(ctx context.Context, tenantID, id uuid.UUID, req SaveInvoiceRequest) shared.Result[*InvoiceResponse] {
	ctx, span := telemetry.StartServiceSpan(ctx, "purchase_invoice", "update",
		telemetry.SpanAttrTenantID, tenantID.String(),
		"invoice_id", id.String(),
	)
	defer span.End()

	resp, err := s.modify(ctx, tenantID, id, func(inv *finance.PurchaseInvoice) error {
		if err := inv.Update(req.input()); err != nil {
			return err
		}
		return s.ensureUniqueNumber(ctx, tenantID, inv.InvoiceNumber, id)
	})
	if err != nil {
		telemetry.RecordError(span, err)
	}
	return common.Envelope(ctx, resp, err, "Invoice updated")
}

// Post moves a draft invoice to POSTED
func (s *PurchaseInvoiceService) Post(ctx context.Context, tenantID, id uuid.UUID) shared.Result[*InvoiceResponse] {
	resp, err := s.modify(ctx, tenantID, id, func(inv *finance.PurchaseInvoice) error {
		return inv.Post()
	})
	return common.Envelope(ctx, resp, err, "Invoice posted")
}

// Cancel cancels an invoice that no debit note references
func (s *PurchaseInvoiceService) Cancel(ctx context.Context, tenantID, id uuid.UUID) shared.Result[*InvoiceResponse] {
	resp, err := s.modify(ctx, tenantID, id, func(inv *finance.PurchaseInvoice) error {
		return inv.Cancel()
	})
	return common.Envelope(ctx, resp, err, "Invoice cancelled")
}

// LinkDebitNote records the debit note settling an invoice. From then on
// the row is locked.
func (s *PurchaseInvoiceService) LinkDebitNote(ctx context.Context, tenantID, id uuid.UUID, debitNoteID int64) shared.Result[*InvoiceResponse] {
	resp, err := s.modify(ctx, tenantID, id, func(inv *finance.PurchaseInvoice) error {
		return inv.LinkDebitNote(debitNoteID)
	})
	return common.Envelope(ctx, resp, err, "Debit note linked")
}

func (s *PurchaseInvoiceService) modify(ctx context.Context, tenantID, id uuid.UUID, fn func(*finance.PurchaseInvoice) error) (*InvoiceResponse, error) {
	inv, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := fn(inv); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}
	return ToInvoiceResponse(inv), nil
}

func (s *PurchaseInvoiceService) ensureUniqueNumber(ctx context.Context, tenantID uuid.UUID, number string, excludeID uuid.UUID) error {
	exists, err := s.repo.ExistsByNumber(ctx, tenantID, number, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "Invoice with this number already exists")
	}
	return nil
}

// Delete removes one invoice. Linked invoices are rejected, including ones
// linked after the check below.
func (s *PurchaseInvoiceService) Delete(ctx context.Context, tenantID, id uuid.UUID) shared.Result[any] {
	ctx, span := telemetry.StartServiceSpan(ctx, "purchase_invoice", "delete",
		telemetry.SpanAttrTenantID, tenantID.String(),
		"invoice_id", id.String(),
	)
	defer span.End()

	err := s.delete(ctx, tenantID, id)
	if err != nil {
		telemetry.RecordError(span, err)
	} else {
		s.metrics.RowsDeleted(ctx, 1)
	}
	return common.Envelope[any](ctx, nil, err, "Invoice deleted")
}

func (s *PurchaseInvoiceService) delete(ctx context.Context, tenantID, id uuid.UUID) error {
	inv, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := inv.EnsureDeletable(); err != nil {
		return err
	}
	return s.repo.Delete(ctx, tenantID, id)
}

// BulkDelete deletes exactly the selected invoices. The selection is
// resolved against the tenant's unfiltered invoice list, so it does not
// depend on how the grid was sorted or filtered when the rows were picked.
// A selection containing a linked invoice deletes nothing, even when the
// link lands between loading the rows and deleting them.
func (s *PurchaseInvoiceService) BulkDelete(ctx context.Context, tenantID uuid.UUID, req BulkDeleteRequest) shared.Result[*BulkDeleteResult] {
	ctx, span := telemetry.StartServiceSpan(ctx, "purchase_invoice", "bulk_delete",
		telemetry.SpanAttrTenantID, tenantID.String(),
	)
	defer span.End()

	ids, err := s.bulkDelete(ctx, tenantID, req)
	if err != nil {
		telemetry.RecordError(span, err)
		return common.Envelope[*BulkDeleteResult](ctx, nil, err, "")
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrSelectedIDs, len(ids))
	s.metrics.RowsDeleted(ctx, len(ids))
	return common.Envelope(ctx, &BulkDeleteResult{DeletedIDs: ids, Count: len(ids)}, nil,
		fmt.Sprintf("%d invoice(s) deleted", len(ids)))
}

func (s *PurchaseInvoiceService) bulkDelete(ctx context.Context, tenantID uuid.UUID, req BulkDeleteRequest) ([]string, error) {
	rows, err := s.repo.FindAll(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	sel, err := selectionFor(rows, req)
	if err != nil {
		return nil, err
	}
	return PurchaseInvoiceTable.BulkDelete(ctx, sel, rows, func(ctx context.Context, ids []string) error {
		parsed := make([]uuid.UUID, len(ids))
		for i, id := range ids {
			parsed[i] = uuid.MustParse(id)
		}
		if _, err := s.repo.DeleteMany(ctx, tenantID, parsed); err != nil {
			return fmt.Errorf("failed to delete invoices: %w", err)
		}
		return nil
	})
}

// selectionFor turns ids or indexes into a Selection over rows
func selectionFor(rows []finance.PurchaseInvoice, req BulkDeleteRequest) (*datagrid.Selection, error) {
	sel := datagrid.NewSelection(nil)
	if len(req.IDs) > 0 {
		position := make(map[string]int, len(rows))
		for i := range rows {
			position[rows[i].ID.String()] = i
		}
		for _, id := range req.IDs {
			i, ok := position[id]
			if !ok {
				return nil, shared.NewDomainError("NOT_FOUND", "Invoice not found: "+id)
			}
			sel.Set(i, true)
		}
		return sel, nil
	}
	for _, i := range req.Indices {
		if i < 0 || i >= len(rows) {
			return nil, shared.NewDomainError("INVALID_ROW", "Row index out of range")
		}
		sel.Set(i, true)
	}
	return sel, nil
}
