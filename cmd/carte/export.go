package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carteland/carte/pkg/core"
)

var exportVisibility string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Publish the local catalog as a menu definition note",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app := newApp()
		ctx := cmd.Context()

		cat, err := app.Catalogs.Load(ctx, app.Config.CatalogNamespace)
		if err != nil {
			fatal("Error loading local catalog", err)
		}

		rec, err := app.Codec.EncodeCatalog(ctx, cat, parseVisibility(exportVisibility))
		if err != nil {
			fatal("Error publishing catalog", err)
		}

		form := "inline"
		if !rec.Inline {
			form = "attachment"
		}
		fmt.Printf("Exported %d menus to %s (%s)\n", len(cat.Menus), rec.NoteName, form)
	},
}

func parseVisibility(v string) core.Visibility {
	switch v {
	case "private":
		return core.VisibilityPrivate
	case "protected":
		return core.VisibilityProtected
	case "public":
		return core.VisibilityPublic
	default:
		fatal("Error parsing visibility", fmt.Errorf("unknown visibility %q", v))
		return core.VisibilityPrivate
	}
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportVisibility, "visibility", "protected", "Note visibility: private, protected or public")
}
