// Package dashboard assembles the home page panels.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/workbench/internal/domain/dashboard"
	"github.com/erp/workbench/internal/domain/finance"
	"github.com/erp/workbench/internal/domain/hr"
	"github.com/erp/workbench/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// FinanceDataset provides the cash and receivable figures
type FinanceDataset interface {
	CashEntries(ctx context.Context) ([]dashboard.CashEntry, error)
	Receivables(ctx context.Context) ([]dashboard.Receivable, error)
}

// Panels is the full dashboard payload
type Panels struct {
	AsOf           time.Time                   `json:"as_of"`
	CashFlow       dashboard.CashFlowPanel     `json:"cash_flow"`
	Aging          dashboard.AgingPanel        `json:"aging"`
	InvoiceAmounts dashboard.DistributionPanel `json:"invoice_amounts"`
	Headcount      dashboard.HeadcountPanel    `json:"headcount"`
}

// Service loads the dashboard sources concurrently and reduces them
type Service struct {
	finance   FinanceDataset
	invoices  finance.PurchaseInvoiceRepository
	directory hr.Directory
	now       func() time.Time
}

// NewService creates a new dashboard Service
func NewService(financeData FinanceDataset, invoices finance.PurchaseInvoiceRepository, directory hr.Directory) *Service {
	return &Service{
		finance:   financeData,
		invoices:  invoices,
		directory: directory,
		now:       time.Now,
	}
}

// Panels builds every panel for tenantID. Cancelled invoices are left out
// of the invoice distribution. The first failing source aborts the others.
func (s *Service) Panels(ctx context.Context, tenantID uuid.UUID) (*Panels, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "dashboard", "panels",
		telemetry.SpanAttrTenantID, tenantID.String(),
	)
	defer span.End()

	var (
		cash        []dashboard.CashEntry
		receivables []dashboard.Receivable
		invoices    []finance.PurchaseInvoice
		employees   []hr.Employee
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		cash, err = s.finance.CashEntries(gctx)
		return wrap("cash entries", err)
	})
	g.Go(func() (err error) {
		receivables, err = s.finance.Receivables(gctx)
		return wrap("receivables", err)
	})
	g.Go(func() (err error) {
		invoices, err = s.invoices.FindAll(gctx, tenantID)
		return wrap("invoices", err)
	})
	g.Go(func() (err error) {
		employees, err = s.directory.List(gctx)
		return wrap("employees", err)
	})
	if err := g.Wait(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	asOf := s.now()
	amounts := make([]decimal.Decimal, 0, len(invoices))
	for i := range invoices {
		if invoices[i].Status != finance.InvoiceStatusCancelled {
			amounts = append(amounts, invoices[i].Total())
		}
	}
	return &Panels{
		AsOf:           asOf,
		CashFlow:       dashboard.NewCashFlowPanel(cash),
		Aging:          dashboard.NewAgingPanel(receivables, asOf),
		InvoiceAmounts: dashboard.NewDistributionPanel(amounts),
		Headcount:      dashboard.NewHeadcountPanel(employees),
	}, nil
}

func wrap(source string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("failed to load %s: %w", source, err)
}
