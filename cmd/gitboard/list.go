package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"

	"github.com/hovden/gitboard/internal/board"
	"github.com/hovden/gitboard/internal/model"
	"github.com/hovden/gitboard/internal/stream"
	"github.com/spf13/cobra"
)

// errSnapshotDone stops the stream reader once the snapshot has arrived.
var errSnapshotDone = errors.New("snapshot received")

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "Print the current issue board and exit",
	GroupID: "board",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		b := board.New(nil, logger)

		reader := stream.NewReader(relayURL)
		err := reader.Run(ctx, func(evt stream.Event) error {
			if applyErr := b.Apply(evt.Envelope); applyErr != nil {
				return applyErr
			}
			if evt.Envelope.Type == model.TagSnapshot {
				return errSnapshotDone
			}
			return nil
		})
		if err != nil && !errors.Is(err, errSnapshotDone) {
			return err
		}

		if jsonOutput {
			printItemsJSON(b.Items())
		} else {
			printItemsTable(b.Items())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
