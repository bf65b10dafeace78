package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carteland/carte"
	"github.com/carteland/carte/pkg/core"
	"github.com/carteland/carte/pkg/record"
)

var importNote string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import menu definitions from notes into the local catalog",
	Long: `Import scans recent notes for menu definitions (or reads one specific
note with --note) and merges the menus into the local catalog. Existing
menus are never modified; colliding ids get an "-imported" suffix.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		app := newApp()
		ctx := cmd.Context()

		incoming := collectMenus(ctx, app)
		if len(incoming) == 0 {
			fmt.Println("No menu definitions found")
			return
		}

		local, err := app.Catalogs.Load(ctx, app.Config.CatalogNamespace)
		if err != nil && !errors.Is(err, core.ErrCatalogNotFound) {
			fatal("Error loading local catalog", err)
		}

		before := len(local.Menus)
		merged := carte.MergeMenus(local, incoming)
		if err := app.Catalogs.Save(ctx, app.Config.CatalogNamespace, merged); err != nil {
			fatal("Error saving local catalog", err)
		}
		fmt.Printf("Imported %d menus (%d before, %d after)\n",
			len(merged.Menus)-before, before, len(merged.Menus))
	},
}

// collectMenus gathers menus from the hinted note or from a bounded scan
// of recent menu definition notes.
func collectMenus(ctx context.Context, app *carte.App) []carte.Menu {
	if importNote != "" {
		note, err := app.Store.GetNote(ctx, importNote)
		if err != nil {
			fatal("Error fetching note", err)
		}
		cat, ok := app.Codec.DecodeCatalog(ctx, note)
		if !ok {
			fatal("Error decoding note", fmt.Errorf("%s: %w", importNote, core.ErrDecodeFailure))
		}
		return cat.Menus
	}

	var menus []carte.Menu
	token := ""
	for page := 0; page < app.Config.ScanPages; page++ {
		res, err := app.Store.ListNotes(ctx, token)
		if err != nil {
			fatal("Error listing notes", err)
		}
		for _, n := range res.Notes {
			if record.Classify(n) != record.SignalMenuDef {
				continue
			}
			if cat, ok := app.Codec.DecodeCatalog(ctx, n); ok {
				menus = append(menus, cat.Menus...)
			}
		}
		if res.NextPageToken == "" {
			break
		}
		token = res.NextPageToken
	}
	return menus
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringVar(&importNote, "note", "", "Import from this specific note instead of scanning")
}
