package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// SceneAsset represents one downloadable scene file.
type SceneAsset struct {
	Name string `json:"name"`
	Key  string `json:"key"`
	URL  string `json:"url"`
}

// SceneAssetsResponse represents the assets API response.
type SceneAssetsResponse struct {
	Count  int          `json:"count"`
	Assets []SceneAsset `json:"assets"`
}

// AssetsCmd creates the assets command.
func AssetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assets <product-id>",
		Short: "List download URLs for a scene's files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runAssets(cmd, args[0], outputJSON)
		},
	}

	return cmd
}

func runAssets(cmd *cobra.Command, productID string, outputJSON bool) error {
	api, err := NewAPIClient(cmd)
	if err != nil {
		return err
	}

	var resp SceneAssetsResponse
	if _, err := api.Get("/scenes/"+productID+"/assets", &resp); err != nil {
		return fmt.Errorf("failed to list scene assets: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(resp, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("%d files for %s:\n\n", resp.Count, productID)
	for _, a := range resp.Assets {
		fmt.Printf("%-14s %s\n", a.Name, a.URL)
	}
	return nil
}
