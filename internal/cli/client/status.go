package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

// SceneProduct represents one found scene in a finished search.
type SceneProduct struct {
	ID            string   `json:"id"`
	CloudCover    *float64 `json:"cloud_cover"`
	SceneDatetime string   `json:"scene_datetime"`
	Platform      string   `json:"platform"`
	WrsPath       string   `json:"wrs_path"`
	WrsRow        string   `json:"wrs_row"`
	Thumbnail     string   `json:"thumbnail"`
}

// StatusResponse represents a finished-search API response.
type StatusResponse struct {
	Status   string         `json:"status"`
	Count    int            `json:"count"`
	Products []SceneProduct `json:"products"`
}

// StatusCmd creates the status command.
func StatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status <request-id>",
		Short: "Show the outcome of a scene search",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runStatus(cmd, args[0], outputJSON)
		},
	}

	return cmd
}

func runStatus(cmd *cobra.Command, requestID string, outputJSON bool) error {
	api, err := NewAPIClient(cmd)
	if err != nil {
		return err
	}

	products, done, err := fetchStatus(api, requestID)
	if err != nil {
		return err
	}

	if !done {
		if outputJSON {
			fmt.Println(`{"status": "in_progress"}`)
		} else {
			fmt.Println("Search still in progress.")
		}
		return nil
	}

	printProducts(products, outputJSON)
	return nil
}

// fetchStatus polls the status endpoint once. done is false while the
// search is still in flight; a failed search surfaces as an error.
func fetchStatus(api *APIClient, requestID string) ([]SceneProduct, bool, error) {
	var resp StatusResponse
	status, err := api.Get("/scenes/status?request_id="+requestID, &resp)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusBadGateway {
			return nil, false, fmt.Errorf("search %s failed: %s", requestID, apiErr.Message)
		}
		return nil, false, err
	}

	if status == http.StatusAccepted {
		return nil, false, nil
	}
	return resp.Products, true, nil
}

func printProducts(products []SceneProduct, outputJSON bool) {
	if outputJSON {
		output, _ := json.MarshalIndent(products, "", "  ")
		fmt.Println(string(output))
		return
	}

	if len(products) == 0 {
		fmt.Println("No scenes found.")
		return
	}

	fmt.Printf("Found %d scenes:\n\n", len(products))
	for i, p := range products {
		fmt.Printf("%d. %s\n", i+1, p.ID)
		fmt.Printf("   Acquired: %s  Platform: %s  WRS: %s/%s\n", p.SceneDatetime, p.Platform, p.WrsPath, p.WrsRow)
		if p.CloudCover != nil {
			fmt.Printf("   Cloud cover: %.1f%%\n", *p.CloudCover)
		}
		if p.Thumbnail != "" {
			fmt.Printf("   Preview: %s\n", p.Thumbnail)
		}
	}
}
