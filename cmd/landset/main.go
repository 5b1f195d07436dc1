package main

import (
	"fmt"
	"os"

	"github.com/anushST/landset-nasa/internal/cli"
	"github.com/anushST/landset-nasa/internal/cli/client"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "landset",
		Short: "Landset CLI - satellite scene search and acquisition plans",
		Long: `Landset CLI provides commands to search satellite scenes and inspect
acquisition plans.

Environment variables:
  LANDSET_API_URL   API base URL (default: http://localhost:8080)`,
		Version: version,
	}

	rootCmd.PersistentFlags().Bool("output", false, "Output as JSON")
	rootCmd.PersistentFlags().String("api-url", "", "API base URL (overrides env)")
	cli.AddHelpJSONFlag(rootCmd)

	rootCmd.AddCommand(client.SearchCmd())
	rootCmd.AddCommand(client.StatusCmd())
	rootCmd.AddCommand(client.AcquisitionsCmd())
	rootCmd.AddCommand(client.AssetsCmd())

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
