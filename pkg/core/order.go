package core

import "github.com/shopspring/decimal"

// OrderItem is one line of an order: a dish name, a quantity and an
// optional unit price.
type OrderItem struct {
	Name      string
	Quantity  int
	UnitPrice *decimal.Decimal
}

// ParsedOrder is the structured interpretation of one order-tagged note.
// It is derived, disposable state: safe to discard and recompute from the
// note snapshot at any time.
type ParsedOrder struct {
	Note          Note
	MenuID        string
	Items         []OrderItem
	TotalQuantity int
	// TotalAmount is the sum of quantity*unitPrice over priced items,
	// nil when no item carries a price.
	TotalAmount *decimal.Decimal
}

// Totalize computes TotalQuantity and TotalAmount from Items.
func (o *ParsedOrder) Totalize() {
	qty := 0
	amount := decimal.Zero
	priced := false
	for _, it := range o.Items {
		qty += it.Quantity
		if it.UnitPrice != nil {
			amount = amount.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
			priced = true
		}
	}
	o.TotalQuantity = qty
	if priced {
		o.TotalAmount = &amount
	} else {
		o.TotalAmount = nil
	}
}
