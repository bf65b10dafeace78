package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/carteland/carte"
)

var (
	resolveNote string
	resolveJSON bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <publicId>",
	Short: "Resolve a shared publicId to its menu",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app := newApp()

		menu, err := app.Resolver.Resolve(cmd.Context(), carte.Query{
			PublicID: args[0],
			NoteHint: resolveNote,
		})
		if err != nil {
			fatal("Error resolving menu", err)
		}

		if resolveJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(menu); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}

		fmt.Printf("%s (%s), %d items\n", menu.Name, menu.ID, len(menu.Items))
		for _, it := range menu.Items {
			if it.Price != nil {
				fmt.Printf("- %s  ¥%s\n", it.Name, it.Price.String())
			} else {
				fmt.Printf("- %s\n", it.Name)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().StringVar(&resolveNote, "note", "", "Resource name of the publication note, if known")
	resolveCmd.Flags().BoolVar(&resolveJSON, "json", false, "Output in JSON format")
}
