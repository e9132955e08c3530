package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/waxlog/waxlog/internal/client"
	"github.com/waxlog/waxlog/internal/ui"
)

var browseServerURL string

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse a collection in the terminal",
	Long: `Opens a terminal browser against a running waxlog server: sign in,
search your collection, wishlist and the album catalog, and save records
straight from search results.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := client.NewAPI(browseServerURL)
		if err != nil {
			return err
		}

		model := ui.NewModel(cmd.Context(), client.NewLibrary(api))
		if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
			return fmt.Errorf("running browser: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
	browseCmd.Flags().StringVar(&browseServerURL, "server", "http://127.0.0.1:8080", "base URL of the waxlog server")
}
