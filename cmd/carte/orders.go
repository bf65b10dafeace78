package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/carteland/carte"
	"github.com/carteland/carte/pkg/ledger"
)

var (
	ordersJSON  bool
	ordersMenu  string
	ordersPages int
	ordersFrom  string
	ordersTo    string
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Inspect and manage the order ledger",
}

var ordersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List parsed orders, newest first",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		orders := loadOrders(cmd.Context())

		if ordersJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(orders); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}

		for _, o := range orders {
			amount := "-"
			if o.TotalAmount != nil {
				amount = "¥" + o.TotalAmount.String()
			}
			fmt.Printf("%s  %s  menu=%s  items=%d  %s\n",
				o.Note.CreateTime.Format("2006-01-02 15:04"),
				o.Note.Name, o.MenuID, o.TotalQuantity, amount)
		}
	},
}

var ordersAggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Sum quantities and revenue per menu item",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		orders := loadOrders(cmd.Context())
		aggregates := ledger.AggregateByItem(orders)

		if ordersJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(aggregates); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}

		for _, a := range aggregates {
			fmt.Printf("%-30s  qty=%-4d  ¥%s\n", a.Name, a.Quantity, a.Revenue.String())
		}
	},
}

var ordersDeleteCmd = &cobra.Command{
	Use:   "delete <note> [note...]",
	Short: "Delete order notes from the service",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app := newApp()
		deleted := app.Ledger.DeleteOrders(cmd.Context(), args)
		fmt.Printf("Deleted %d of %d orders\n", deleted, len(args))
		if deleted < len(args) {
			os.Exit(1)
		}
	},
}

// loadOrders pulls pages from the service and rebuilds the ledger with
// the requested filters applied.
func loadOrders(ctx context.Context) []carte.ParsedOrder {
	app := newApp()

	for page := 0; page < ordersPages && app.Ledger.HasMore(); page++ {
		if _, err := app.Ledger.FetchNextPage(ctx); err != nil {
			fatal("Error fetching notes", err)
		}
	}

	orders := app.Ledger.Rebuild()
	if ordersMenu != "" {
		orders = ledger.FilterByMenu(orders, ordersMenu)
	}
	from, to := parseDateFlag(ordersFrom), parseDateFlag(ordersTo)
	if !from.IsZero() || !to.IsZero() {
		orders = ledger.FilterByDateRange(orders, from, to)
	}
	return orders
}

func parseDateFlag(v string) time.Time {
	if v == "" {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		fatal("Error parsing date (want YYYY-MM-DD)", err)
	}
	return t
}

func init() {
	rootCmd.AddCommand(ordersCmd)
	ordersCmd.AddCommand(ordersListCmd)
	ordersCmd.AddCommand(ordersAggregateCmd)
	ordersCmd.AddCommand(ordersDeleteCmd)

	for _, c := range []*cobra.Command{ordersListCmd, ordersAggregateCmd} {
		c.Flags().BoolVar(&ordersJSON, "json", false, "Output in JSON format")
		c.Flags().StringVar(&ordersMenu, "menu", "", "Only orders for this menu id")
		c.Flags().IntVar(&ordersPages, "pages", 1, "Number of pages to fetch")
		c.Flags().StringVar(&ordersFrom, "from", "", "Only orders on or after this date (YYYY-MM-DD)")
		c.Flags().StringVar(&ordersTo, "to", "", "Only orders on or before this date (YYYY-MM-DD)")
	}
}
