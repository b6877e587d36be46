package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hovden/gitboard/internal/bridge"
	"github.com/spf13/cobra"
)

var projectIDCmd = &cobra.Command{
	Use:     "projectid",
	Short:   "Print the relay's configured GitLab project id",
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := bridge.New(relayURL).ProjectID(context.Background())
		if err != nil {
			return err
		}
		if jsonOutput {
			data, err := json.MarshalIndent(map[string]string{"projectId": id}, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}
		fmt.Println(id)
		return nil
	},
}
