package client

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// SearchRequest represents the scene search API request.
type SearchRequest struct {
	Longitude     float64  `json:"longitude"`
	Latitude      float64  `json:"latitude"`
	TimeRange     string   `json:"time_range"`
	MinCloudCover *float64 `json:"min_cloud_cover,omitempty"`
	MaxCloudCover *float64 `json:"max_cloud_cover,omitempty"`
}

// SearchResponse represents the accepted-search API response.
type SearchResponse struct {
	RequestID string `json:"request_id"`
}

// SearchCmd creates the search command.
func SearchCmd() *cobra.Command {
	var (
		lon       float64
		lat       float64
		timeRange string
		minCloud  float64
		maxCloud  float64
		wait      bool
		timeout   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search satellite scenes around a point",
		Long:  "Submits an asynchronous scene search and prints the request id, or waits for the result with --wait.",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")

			req := SearchRequest{
				Longitude: lon,
				Latitude:  lat,
				TimeRange: timeRange,
			}
			if cmd.Flags().Changed("min-cloud") {
				req.MinCloudCover = &minCloud
			}
			if cmd.Flags().Changed("max-cloud") {
				req.MaxCloudCover = &maxCloud
			}

			return runSearch(cmd, req, wait, timeout, outputJSON)
		},
	}

	cmd.Flags().Float64Var(&lon, "lon", 0, "Longitude of the point of interest")
	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude of the point of interest")
	cmd.Flags().StringVar(&timeRange, "range", "", "Date range as YYYY-MM-DD/YYYY-MM-DD")
	cmd.Flags().Float64Var(&minCloud, "min-cloud", 0, "Minimum cloud cover percentage")
	cmd.Flags().Float64Var(&maxCloud, "max-cloud", 100, "Maximum cloud cover percentage")
	cmd.Flags().BoolVarP(&wait, "wait", "w", false, "Poll until the search finishes")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "How long to poll with --wait")
	cmd.MarkFlagRequired("lon")
	cmd.MarkFlagRequired("lat")
	cmd.MarkFlagRequired("range")

	return cmd
}

func runSearch(cmd *cobra.Command, req SearchRequest, wait bool, timeout time.Duration, outputJSON bool) error {
	api, err := NewAPIClient(cmd)
	if err != nil {
		return err
	}

	var resp SearchResponse
	if _, err := api.Post("/scenes", req, &resp); err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if !wait {
		if outputJSON {
			output, _ := json.MarshalIndent(resp, "", "  ")
			fmt.Println(string(output))
		} else {
			fmt.Printf("Search accepted. Request ID: %s\n", resp.RequestID)
			fmt.Printf("Poll with: landset status %s\n", resp.RequestID)
		}
		return nil
	}

	deadline := time.Now().Add(timeout)
	for {
		products, done, err := fetchStatus(api, resp.RequestID)
		if err != nil {
			return err
		}
		if done {
			printProducts(products, outputJSON)
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("search %s still in progress after %s", resp.RequestID, timeout)
		}
		time.Sleep(2 * time.Second)
	}
}
