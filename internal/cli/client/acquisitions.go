package client

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
)

// Acquisition represents one recorded acquisition.
type Acquisition struct {
	ID         int64  `json:"id"`
	Satellite  string `json:"satellite"`
	Path       string `json:"path"`
	Row        string `json:"row"`
	AcquiredAt string `json:"acquired_at"`
}

// AcquisitionListResponse represents the acquisitions API response.
type AcquisitionListResponse struct {
	Count        int           `json:"count"`
	Acquisitions []Acquisition `json:"acquisitions"`
}

// AcquisitionsCmd creates the acquisitions command with its plan subcommand.
func AcquisitionsCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "acquisitions",
		Short: "List recorded satellite acquisitions",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runAcquisitionsByDay(cmd, date, outputJSON)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Calendar day as YYYY-MM-DD")
	cmd.MarkFlagRequired("date")

	cmd.AddCommand(planCmd())

	return cmd
}

func planCmd() *cobra.Command {
	var (
		areas      []string
		satellites []string
		after      string
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show upcoming acquisitions over WRS cells",
		Long:  "Shows planned acquisitions over one or more WRS cells, given as PATH|ROW pairs.",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runAcquisitionPlan(cmd, satellites, areas, after, outputJSON)
		},
	}

	cmd.Flags().StringSliceVar(&areas, "areas", nil, "WRS cells as PATH|ROW (repeatable)")
	cmd.Flags().StringSliceVar(&satellites, "satellites", nil, "Satellites to include (default Landsat-8, Landsat-9)")
	cmd.Flags().StringVar(&after, "after", "", "Only acquisitions after this RFC3339 instant (default now)")
	cmd.MarkFlagRequired("areas")

	return cmd
}

func runAcquisitionsByDay(cmd *cobra.Command, date string, outputJSON bool) error {
	api, err := NewAPIClient(cmd)
	if err != nil {
		return err
	}

	var resp AcquisitionListResponse
	if _, err := api.Get("/acquisitions?datetime="+url.QueryEscape(date), &resp); err != nil {
		return fmt.Errorf("failed to list acquisitions: %w", err)
	}

	printAcquisitions(resp, outputJSON)
	return nil
}

func runAcquisitionPlan(cmd *cobra.Command, satellites, areas []string, after string, outputJSON bool) error {
	api, err := NewAPIClient(cmd)
	if err != nil {
		return err
	}

	params := url.Values{}
	params.Set("areas", strings.Join(areas, ","))
	if len(satellites) > 0 {
		params.Set("satellites", strings.Join(satellites, ","))
	}
	if after != "" {
		params.Set("after", after)
	}

	var resp AcquisitionListResponse
	if _, err := api.Get("/acquisitions/plan?"+params.Encode(), &resp); err != nil {
		return fmt.Errorf("failed to fetch acquisition plan: %w", err)
	}

	printAcquisitions(resp, outputJSON)
	return nil
}

func printAcquisitions(resp AcquisitionListResponse, outputJSON bool) {
	if outputJSON {
		output, _ := json.MarshalIndent(resp, "", "  ")
		fmt.Println(string(output))
		return
	}

	if resp.Count == 0 {
		fmt.Println("No acquisitions found.")
		return
	}

	fmt.Printf("Found %d acquisitions:\n\n", resp.Count)
	for _, a := range resp.Acquisitions {
		fmt.Printf("%s  %s  WRS %s/%s\n", a.AcquiredAt, a.Satellite, a.Path, a.Row)
	}
}
