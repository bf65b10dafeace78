package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/carteland/carte/pkg/core"
)

// Read-side projections over parsed orders. All of these are pure: they
// never touch the ledger and may be chained freely.

// FilterByMenu keeps orders bound to the given menu id.
func FilterByMenu(orders []core.ParsedOrder, menuID string) []core.ParsedOrder {
	if menuID == "" {
		return orders
	}
	var out []core.ParsedOrder
	for _, o := range orders {
		if o.MenuID == menuID {
			out = append(out, o)
		}
	}
	return out
}

// FilterByDateRange keeps orders created within [from, to]. A zero bound
// leaves that side open.
func FilterByDateRange(orders []core.ParsedOrder, from, to time.Time) []core.ParsedOrder {
	if from.IsZero() && to.IsZero() {
		return orders
	}
	var out []core.ParsedOrder
	for _, o := range orders {
		t := o.Note.CreateTime
		if !from.IsZero() && t.Before(from) {
			continue
		}
		if !to.IsZero() && t.After(to) {
			continue
		}
		out = append(out, o)
	}
	return out
}

// MenuIDs returns the distinct menu ids seen across orders, sorted.
func MenuIDs(orders []core.ParsedOrder) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, o := range orders {
		if o.MenuID == "" {
			continue
		}
		if _, ok := seen[o.MenuID]; ok {
			continue
		}
		seen[o.MenuID] = struct{}{}
		ids = append(ids, o.MenuID)
	}
	sort.Strings(ids)
	return ids
}

// ItemAggregate is the per-dish rollup of a filtered order set.
type ItemAggregate struct {
	Name     string
	Quantity int
	Revenue  decimal.Decimal
}

// AggregateByItem sums quantity and revenue per item name. Rows appear in
// order of first occurrence.
func AggregateByItem(orders []core.ParsedOrder) []ItemAggregate {
	index := make(map[string]int)
	var rows []ItemAggregate
	for _, o := range orders {
		for _, it := range o.Items {
			i, ok := index[it.Name]
			if !ok {
				i = len(rows)
				index[it.Name] = i
				rows = append(rows, ItemAggregate{Name: it.Name})
			}
			rows[i].Quantity += it.Quantity
			if it.UnitPrice != nil {
				rows[i].Revenue = rows[i].Revenue.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
			}
		}
	}
	return rows
}
