package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:     "health",
	Short:   "Check the health of the relay",
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var out struct {
			Status string `json:"status"`
		}
		if err := relayGet("/health", &out); err != nil {
			return fmt.Errorf("checking health: %w", err)
		}

		if jsonOutput {
			data, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling JSON: %w", err)
			}
			fmt.Println(string(data))
		} else {
			fmt.Printf("Health: %s\n", out.Status)
		}

		if out.Status != "ok" {
			return fmt.Errorf("unhealthy: %s", out.Status)
		}
		return nil
	},
}

// relayGet fetches a relay endpoint and decodes the JSON response.
func relayGet(path string, v any) error {
	resp, err := http.Get(strings.TrimRight(relayURL, "/") + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("relay returned HTTP %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
