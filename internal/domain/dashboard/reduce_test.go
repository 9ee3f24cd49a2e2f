package dashboard

import (
	"testing"
	"time"

	"github.com/erp/workbench/internal/domain/hr"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decs(vals ...int64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(vals))
	for i, v := range vals {
		out[i] = decimal.NewFromInt(v)
	}
	return out
}

func TestTotalAndAverage(t *testing.T) {
	assert.True(t, Total(decs(1, 2, 3)).Equal(decimal.NewFromInt(6)))
	assert.True(t, Total(nil).IsZero())
	assert.True(t, Average(decs(1, 2, 3, 4)).Equal(decimal.RequireFromString("2.5")))
	assert.True(t, Average(nil).IsZero())
}

func TestPercentile(t *testing.T) {
	values := decs(40, 10, 30, 20, 50)

	tests := []struct {
		p    float64
		want string
	}{
		{0, "10"},
		{50, "30"},
		{100, "50"},
		{90, "46"},
		{25, "20"},
	}
	for _, tt := range tests {
		got, err := Percentile(values, tt.p)
		require.NoError(t, err)
		assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "p%v: got %s", tt.p, got)
	}

	t.Run("should not reorder the input", func(t *testing.T) {
		assert.True(t, values[0].Equal(decimal.NewFromInt(40)))
	})

	t.Run("should reject empty input and bad p", func(t *testing.T) {
		_, err := Percentile(nil, 50)
		assert.Error(t, err)
		_, err = Percentile(values, 101)
		assert.Error(t, err)
	})
}

func TestBucketize(t *testing.T) {
	points := []Point{
		{Key: 0, Value: decimal.NewFromInt(1)},
		{Key: 30, Value: decimal.NewFromInt(2)},
		{Key: 31, Value: decimal.NewFromInt(4)},
		{Key: 95, Value: decimal.NewFromInt(8)},
		{Key: -3, Value: decimal.NewFromInt(16)},
	}
	buckets := Bucketize(points, AgingEdges, AgingLabels)
	require.Len(t, buckets, 4)

	assert.Equal(t, "0-30", buckets[0].Label)
	assert.Equal(t, 2, buckets[0].Count)
	assert.True(t, buckets[0].Sum.Equal(decimal.NewFromInt(3)))
	assert.Equal(t, 1, buckets[1].Count)
	assert.Equal(t, 0, buckets[2].Count)
	assert.Equal(t, 1, buckets[3].Count)
	assert.Nil(t, buckets[3].To)
	require.NotNil(t, buckets[0].To)
	assert.Equal(t, 31, *buckets[0].To)
}

func TestGroupSum(t *testing.T) {
	emps := []hr.Employee{
		{Department: "Sales", Salary: decimal.NewFromInt(100), Status: hr.StatusActive},
		{Department: "Finance", Salary: decimal.NewFromInt(300), Status: hr.StatusOnLeave},
		{Department: "Sales", Salary: decimal.NewFromInt(50), Status: hr.StatusActive},
		{Department: "Sales", Salary: decimal.NewFromInt(75), Status: hr.StatusTerminated},
	}
	p := NewHeadcountPanel(emps)
	assert.Equal(t, 3, p.Total)
	require.Len(t, p.Departments, 2)
	assert.Equal(t, "Finance", p.Departments[0].Key)
	assert.Equal(t, 2, p.Departments[1].Count)
	assert.True(t, p.Departments[1].Sum.Equal(decimal.NewFromInt(150)))
}

func TestPanels(t *testing.T) {
	t.Run("cash flow", func(t *testing.T) {
		p := NewCashFlowPanel([]CashEntry{
			{Amount: decimal.NewFromInt(500)},
			{Amount: decimal.NewFromInt(-200)},
			{Amount: decimal.NewFromInt(-50)},
		})
		assert.True(t, p.Inflow.Equal(decimal.NewFromInt(500)))
		assert.True(t, p.Outflow.Equal(decimal.NewFromInt(250)))
		assert.True(t, p.Net.Equal(decimal.NewFromInt(250)))
	})

	t.Run("aging", func(t *testing.T) {
		asOf := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
		p := NewAgingPanel([]Receivable{
			{DueDate: asOf.AddDate(0, 0, 5), Balance: decimal.NewFromInt(10)},
			{DueDate: asOf.AddDate(0, 0, -45), Balance: decimal.NewFromInt(20)},
			{DueDate: asOf.AddDate(0, 0, -120), Balance: decimal.NewFromInt(30)},
		}, asOf)
		assert.Equal(t, 1, p.Buckets[0].Count)
		assert.Equal(t, 1, p.Buckets[1].Count)
		assert.Equal(t, 1, p.Buckets[3].Count)
		assert.True(t, p.Total.Equal(decimal.NewFromInt(60)))
	})

	t.Run("distribution of empty set", func(t *testing.T) {
		p := NewDistributionPanel(nil)
		assert.Equal(t, 0, p.Count)
		assert.True(t, p.P90.IsZero())
	})

	t.Run("distribution", func(t *testing.T) {
		p := NewDistributionPanel(decs(10, 20, 30, 40, 50))
		assert.True(t, p.P50.Equal(decimal.NewFromInt(30)))
		assert.True(t, p.Average.Equal(decimal.NewFromInt(30)))
	})
}
