// Command waxlog runs the vinyl collection server and its companion tools.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "waxlog",
	Short: "waxlog tracks vinyl collections and wishlists",
	Long: `waxlog is a personal vinyl collection tracker: a JSON API over
PostgreSQL with catalog search proxied to Spotify, plus a terminal
browser for your collection.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
