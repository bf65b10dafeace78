package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carteland/carte/pkg/core"
)

var publishCmd = &cobra.Command{
	Use:   "publish <menu-id>",
	Short: "Publish one menu for anonymous ordering",
	Long: `Publish writes the menu as a public note and prints its publicId.
The first publication assigns the publicId; republishing after edits
keeps it, so shared links stay valid.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app := newApp()
		ctx := cmd.Context()

		cat, err := app.Catalogs.Load(ctx, app.Config.CatalogNamespace)
		if err != nil {
			fatal("Error loading local catalog", err)
		}
		menu, ok := cat.FindMenu(args[0])
		if !ok {
			fatal("Error finding menu", fmt.Errorf("no menu with id %q", args[0]))
		}
		menu.AllowPublicOrder = true

		rec, err := app.Codec.PublishMenu(ctx, &menu, core.VisibilityPublic)
		if err != nil {
			fatal("Error publishing menu", err)
		}

		// Persist the (possibly fresh) publicId so republication and the
		// local resolution fallback keep using the same token.
		for i := range cat.Menus {
			if cat.Menus[i].ID == menu.ID {
				cat.Menus[i] = menu
			}
		}
		if err := app.Catalogs.Save(ctx, app.Config.CatalogNamespace, cat); err != nil {
			if errors.Is(err, core.ErrStoreReadOnly) {
				fmt.Println("Warning: catalog store is read-only, publicId not persisted locally")
			} else {
				fatal("Error saving local catalog", err)
			}
		}

		fmt.Printf("Published %s as %s\n", menu.ID, rec.NoteName)
		fmt.Printf("publicId: %s\n", menu.PublicID)
	},
}

func init() {
	rootCmd.AddCommand(publishCmd)
}
