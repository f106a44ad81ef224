package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/litflow/litflow/internal/config"
	"github.com/litflow/litflow/internal/home"
	"github.com/litflow/litflow/internal/server"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Litflow server",
	Long: `Start the Litflow HTTP server.

The server opens the key-value store and watches the config file for
changes. When it shuts down (via Ctrl+C or SIGTERM), the store is closed.

The server provides:
  - /health - Basic server health check
  - /ready  - Readiness check (includes store status)
  - /api/*  - Strategy configuration endpoints

Examples:
  litflow serve                  # Start on default port 8580
  litflow serve --port 3000      # Start on custom port
  litflow serve --host 0.0.0.0   # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Set up logger
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))

		// Get home directory
		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		// Load config with hot-reload support
		cfgMgr, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfgMgr.WatchConfig()

		host := serveHost
		port := servePort
		if !cmd.Flags().Changed("host") {
			host = cfgMgr.Get().Server.Host
		}
		if !cmd.Flags().Changed("port") {
			port = cfgMgr.Get().Server.Port
		}

		srv, err := server.New(server.Config{
			Host:          host,
			Port:          port,
			Home:          h,
			ConfigManager: cfgMgr,
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Host to bind to")
	serveCmd.Flags().IntVar(&servePort, "port", 8580, "Port to listen on")

	rootCmd.AddCommand(serveCmd)
}
