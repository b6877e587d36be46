package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/hovden/gitboard/internal/viewers"
	"github.com/spf13/cobra"
)

var viewersCmd = &cobra.Command{
	Use:     "viewers",
	Short:   "List viewers connected to the relay",
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var out struct {
			Viewers []viewers.Entry `json:"viewers"`
			Count   int             `json:"count"`
		}
		if err := relayGet("/webhooks/viewers", &out); err != nil {
			return fmt.Errorf("listing viewers: %w", err)
		}

		if jsonOutput {
			data, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		if out.Count == 0 {
			fmt.Println("no viewers connected")
			return nil
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tREMOTE\tCONNECTED\tDELIVERED")
		for _, v := range out.Viewers {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\n",
				v.ID,
				v.RemoteAddr,
				v.ConnectedAt.Format(time.RFC3339),
				v.Delivered,
			)
		}
		w.Flush()
		fmt.Printf("\n%d viewers\n", out.Count)
		return nil
	},
}
