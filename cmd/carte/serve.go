package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/carteland/carte/pkg/publicapi"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the anonymous ordering API",
	Long: `Serve exposes GET /public/menu and POST /public/menu-order so that
customers without an account can view a shared menu and place orders.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if !verbose {
			gin.SetMode(gin.ReleaseMode)
		}
		app := newApp()

		opts := []publicapi.ServerOption{
			publicapi.WithScanPages(app.Config.ScanPages),
			publicapi.WithServerLogger(app.Logger),
		}
		if app.Config.WebhookURL != "" {
			opts = append(opts, publicapi.WithNotifier(publicapi.NewWebhookNotifier(app.Config.WebhookURL)))
		}
		srv := publicapi.NewServer(app.Store, app.Codec, opts...)

		addr := serveAddr
		if addr == "" {
			addr = app.Config.ListenAddr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := srv.Run(ctx, addr); err != nil {
			fatal("Error running server", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (defaults to the configured one)")
}
