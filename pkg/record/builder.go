package record

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/carteland/carte/pkg/core"
)

// Selection pairs a menu item with a requested quantity.
type Selection struct {
	Item     core.MenuItem
	Quantity int
}

// BuildOrderContent renders an order as note text in the grammar ParseOrder
// accepts: a first-line menu anchor followed by compact item lines. The
// descriptive lines (menu name, customer, totals, remark) carry no leading
// dash and are skipped by the parser.
func BuildOrderContent(menu core.Menu, selections []Selection, customer, remark string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#%s #menu:%s\n\n", TagOrder, menu.ID)
	fmt.Fprintf(&b, "Menu: %s\n", menu.Name)
	if customer != "" {
		fmt.Fprintf(&b, "Customer: %s\n", customer)
	}
	b.WriteString("\n")

	totalQty := 0
	totalAmount := decimal.Zero
	priced := false
	for _, sel := range selections {
		if sel.Quantity < 1 || sel.Item.Name == "" {
			continue
		}
		totalQty += sel.Quantity
		if sel.Item.Price != nil {
			line := sel.Item.Price.Mul(decimal.NewFromInt(int64(sel.Quantity)))
			totalAmount = totalAmount.Add(line)
			priced = true
			fmt.Fprintf(&b, "- %s × %d × ¥%s = ¥%s\n", sel.Item.Name, sel.Quantity, sel.Item.Price.String(), line.String())
		} else {
			fmt.Fprintf(&b, "- %s × %d\n", sel.Item.Name, sel.Quantity)
		}
	}

	if totalQty > 0 {
		b.WriteString("\n")
		if priced {
			fmt.Fprintf(&b, "Total: %d items, ¥%s\n", totalQty, totalAmount.String())
		} else {
			fmt.Fprintf(&b, "Total: %d items\n", totalQty)
		}
	}
	if remark = strings.TrimSpace(remark); remark != "" {
		fmt.Fprintf(&b, "\nRemark: %s\n", remark)
	}
	return strings.TrimRight(b.String(), "\n")
}
