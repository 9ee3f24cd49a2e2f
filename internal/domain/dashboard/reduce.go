// Package dashboard holds the pure reductions behind dashboard panels.
// Every function works on in-memory slices and has no side effects.
package dashboard

import (
	"slices"
	"sort"

	"github.com/erp/workbench/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Total sums values
func Total(values []decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(v)
	}
	return sum
}

// Average returns the mean of values, zero for an empty slice
func Average(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	return Total(values).Div(decimal.NewFromInt(int64(len(values))))
}

// Percentile returns the p-th percentile (0..100) using linear
// interpolation between the closest ranks.
func Percentile(values []decimal.Decimal, p float64) (decimal.Decimal, error) {
	if len(values) == 0 {
		return decimal.Zero, shared.NewDomainError("EMPTY_DATASET", "Cannot compute a percentile of no values")
	}
	if p < 0 || p > 100 {
		return decimal.Zero, shared.NewDomainError("INVALID_PERCENTILE", "Percentile must be between 0 and 100")
	}
	sorted := slices.Clone(values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })

	rank := decimal.NewFromFloat(p).Div(decimal.NewFromInt(100)).Mul(decimal.NewFromInt(int64(len(sorted) - 1)))
	lo := int(rank.IntPart())
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1], nil
	}
	frac := rank.Sub(decimal.NewFromInt(int64(lo)))
	return sorted[lo].Add(sorted[lo+1].Sub(sorted[lo]).Mul(frac)), nil
}

// Bucket is one range of a bucketed aggregate. The range is [From, To);
// a nil To is open ended.
type Bucket struct {
	Label string          `json:"label"`
	From  int             `json:"from"`
	To    *int            `json:"to,omitempty"`
	Count int             `json:"count"`
	Sum   decimal.Decimal `json:"sum"`
}

// Point is a keyed value fed to Bucketize
type Point struct {
	Key   int
	Value decimal.Decimal
}

// Bucketize counts and sums points into the buckets defined by edges. edges
// must be ascending; n edges produce n buckets, the last open ended. Points
// below the first edge are dropped.
func Bucketize(points []Point, edges []int, labels []string) []Bucket {
	buckets := make([]Bucket, len(edges))
	for i, from := range edges {
		b := Bucket{From: from, Sum: decimal.Zero}
		if i+1 < len(edges) {
			to := edges[i+1]
			b.To = &to
		}
		if i < len(labels) {
			b.Label = labels[i]
		}
		buckets[i] = b
	}
	for _, p := range points {
		i := sort.SearchInts(edges, p.Key+1) - 1
		if i < 0 {
			continue
		}
		buckets[i].Count++
		buckets[i].Sum = buckets[i].Sum.Add(p.Value)
	}
	return buckets
}

// Group is one entry of GroupSum
type Group struct {
	Key   string          `json:"key"`
	Count int             `json:"count"`
	Sum   decimal.Decimal `json:"sum"`
}

// GroupSum aggregates items by key, ordered by key
func GroupSum[T any](items []T, key func(T) string, value func(T) decimal.Decimal) []Group {
	idx := make(map[string]int)
	groups := make([]Group, 0)
	for _, it := range items {
		k := key(it)
		i, ok := idx[k]
		if !ok {
			i = len(groups)
			idx[k] = i
			groups = append(groups, Group{Key: k, Sum: decimal.Zero})
		}
		groups[i].Count++
		groups[i].Sum = groups[i].Sum.Add(value(it))
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })
	return groups
}
