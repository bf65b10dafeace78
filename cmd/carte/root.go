package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/carteland/carte"
)

var (
	verbose    bool
	configPath string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "carte",
	Short: "Menus and orders on top of an append-only note service",
	Long: `Carte publishes menus as tagged notes, accepts orders against them
and rebuilds the order ledger from the note stream.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the YAML config file")
}

// newApp assembles the client for a subcommand run.
func newApp() *carte.App {
	cfg, err := carte.LoadConfig(configPath)
	if err != nil {
		fatal("Error loading configuration", err)
	}
	app, err := carte.New(
		carte.WithConfig(cfg),
		carte.WithLogger(slog.Default()),
	)
	if err != nil {
		fatal("Error initializing carte", err)
	}
	return app
}
