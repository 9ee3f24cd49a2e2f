package dashboard

import (
	"time"

	"github.com/erp/workbench/internal/domain/hr"
	"github.com/shopspring/decimal"
)

// CashEntry is a movement on a bank or cash account; inflows are positive
type CashEntry struct {
	Date   time.Time
	Amount decimal.Decimal
}

// Receivable is an open customer balance
type Receivable struct {
	Customer string
	DueDate  time.Time
	Balance  decimal.Decimal
}

// CashFlowPanel summarises inflows and outflows
type CashFlowPanel struct {
	Inflow  decimal.Decimal `json:"inflow"`
	Outflow decimal.Decimal `json:"outflow"`
	Net     decimal.Decimal `json:"net"`
	Entries int             `json:"entries"`
}

// NewCashFlowPanel reduces cash entries
func NewCashFlowPanel(entries []CashEntry) CashFlowPanel {
	p := CashFlowPanel{Inflow: decimal.Zero, Outflow: decimal.Zero, Entries: len(entries)}
	for _, e := range entries {
		if e.Amount.IsNegative() {
			p.Outflow = p.Outflow.Add(e.Amount.Neg())
		} else {
			p.Inflow = p.Inflow.Add(e.Amount)
		}
	}
	p.Net = p.Inflow.Sub(p.Outflow)
	return p
}

// Aging bucket edges in days overdue
var (
	AgingEdges  = []int{0, 31, 61, 91}
	AgingLabels = []string{"0-30", "31-60", "61-90", "90+"}
)

// AgingPanel buckets receivables by days overdue at AsOf
type AgingPanel struct {
	AsOf    time.Time       `json:"as_of"`
	Buckets []Bucket        `json:"buckets"`
	Total   decimal.Decimal `json:"total"`
}

// NewAgingPanel buckets receivables. Items not yet due fall in the first bucket.
func NewAgingPanel(items []Receivable, asOf time.Time) AgingPanel {
	points := make([]Point, 0, len(items))
	balances := make([]decimal.Decimal, 0, len(items))
	for _, r := range items {
		days := 0
		if asOf.After(r.DueDate) {
			days = int(asOf.Sub(r.DueDate).Hours() / 24)
		}
		points = append(points, Point{Key: days, Value: r.Balance})
		balances = append(balances, r.Balance)
	}
	return AgingPanel{
		AsOf:    asOf,
		Buckets: Bucketize(points, AgingEdges, AgingLabels),
		Total:   Total(balances),
	}
}

// DistributionPanel describes the spread of a set of amounts
type DistributionPanel struct {
	Count   int             `json:"count"`
	Total   decimal.Decimal `json:"total"`
	Average decimal.Decimal `json:"average"`
	P50     decimal.Decimal `json:"p50"`
	P90     decimal.Decimal `json:"p90"`
	P99     decimal.Decimal `json:"p99"`
}

// NewDistributionPanel computes totals and percentiles; empty input yields zeros
func NewDistributionPanel(values []decimal.Decimal) DistributionPanel {
	p := DistributionPanel{
		Count:   len(values),
		Total:   Total(values),
		Average: Average(values).Round(2),
		P50:     decimal.Zero,
		P90:     decimal.Zero,
		P99:     decimal.Zero,
	}
	if len(values) == 0 {
		return p
	}
	p.P50, _ = Percentile(values, 50)
	p.P90, _ = Percentile(values, 90)
	p.P99, _ = Percentile(values, 99)
	p.P50, p.P90, p.P99 = p.P50.Round(2), p.P90.Round(2), p.P99.Round(2)
	return p
}

// HeadcountPanel groups employees by department
type HeadcountPanel struct {
	Total       int     `json:"total"`
	Departments []Group `json:"departments"`
}

// NewHeadcountPanel groups active employees by department, summing salaries
func NewHeadcountPanel(employees []hr.Employee) HeadcountPanel {
	active := make([]hr.Employee, 0, len(employees))
	for _, e := range employees {
		if e.Status != hr.StatusTerminated {
			active = append(active, e)
		}
	}
	return HeadcountPanel{
		Total: len(active),
		Departments: GroupSum(active,
			func(e hr.Employee) string { return e.Department },
			func(e hr.Employee) decimal.Decimal { return e.Salary },
		),
	}
}
