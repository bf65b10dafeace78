package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/carteland/carte"
	"github.com/carteland/carte/pkg/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the local catalog slots",
}

var catalogShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the menus in the configured namespace",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app := newApp()
		cat, err := app.Catalogs.Load(cmd.Context(), app.Config.CatalogNamespace)
		if err != nil {
			fatal("Error loading local catalog", err)
		}
		fmt.Printf("Namespace %s, version %d, %d menus\n",
			app.Config.CatalogNamespace, cat.Version, len(cat.Menus))
		for _, m := range cat.Menus {
			shared := ""
			if m.AllowPublicOrder && m.PublicID != "" {
				shared = "  publicId=" + m.PublicID
			}
			fmt.Printf("%s  %s  (%d items)%s\n", m.ID, m.Name, len(m.Items), shared)
		}
	},
}

var catalogNamespacesCmd = &cobra.Command{
	Use:   "namespaces [pattern]",
	Short: "List catalog namespaces matching a glob pattern",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := localCatalogStore(newApp())

		pattern := "*"
		if len(args) == 1 {
			pattern = args[0]
		}
		names, err := store.List(pattern)
		if err != nil {
			fatal("Error listing namespaces", err)
		}
		for _, ns := range names {
			fmt.Println(ns)
		}
	},
}

var catalogWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the configured namespace for external changes",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app := newApp()
		store := localCatalogStore(app)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		changes, err := store.Watch(ctx, app.Config.CatalogNamespace)
		if err != nil {
			fatal("Error watching catalog", err)
		}
		fmt.Printf("Watching namespace %s (Ctrl-C to stop)\n", app.Config.CatalogNamespace)
		for ch := range changes {
			fmt.Printf("Catalog %s changed\n", ch.Namespace)
		}
	},
}

func localCatalogStore(app *carte.App) *catalog.Store {
	store, ok := app.Catalogs.(*catalog.Store)
	if !ok {
		fatal("Error accessing catalog store", fmt.Errorf("catalog backend is not file based"))
	}
	return store
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogNamespacesCmd)
	catalogCmd.AddCommand(catalogWatchCmd)
}
