package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/waxlog/waxlog/internal/catalog"
	"github.com/waxlog/waxlog/internal/config"
	"github.com/waxlog/waxlog/internal/db"
	"github.com/waxlog/waxlog/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the waxlog API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if err := cfg.ValidateServer(); err != nil {
			return err
		}

		logger := log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "waxlog",
		})

		database, err := db.New(cmd.Context(), cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()

		search := catalog.New(cmd.Context(), catalog.Config{
			ClientID:     cfg.SpotifyID,
			ClientSecret: cfg.SpotifySecret,
		})

		server, err := web.NewServer(web.ServerConfig{
			Addr:     cfg.Addr,
			Database: database,
			Catalog:  search,
			Logger:   logger,
		})
		if err != nil {
			return fmt.Errorf("creating server: %w", err)
		}

		return server.Run()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
