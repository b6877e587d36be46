package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hovden/gitboard/internal/bridge"
	"github.com/spf13/cobra"
)

var reopenCmd = &cobra.Command{
	Use:     "reopen <iid>",
	Short:   "Reopen an issue through the relay",
	GroupID: "board",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		iid, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid issue iid %q", args[0])
		}
		if err := bridge.New(relayURL).Reopen(context.Background(), iid); err != nil {
			return err
		}
		fmt.Printf("issue #%d reopen requested\n", iid)
		return nil
	},
}
