package main

import (
	"fmt"
	"os"

	"github.com/anushST/landset-nasa/internal/cli"
	"github.com/anushST/landset-nasa/internal/cli/admin"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "landsetd",
		Short: "Landset daemon",
		Long:  "Landset daemon for running the scene search API, the request worker and the acquisition plan crawler",
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(admin.ServeCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
