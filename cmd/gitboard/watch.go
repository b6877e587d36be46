package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/hovden/gitboard/internal/board"
	"github.com/hovden/gitboard/internal/bridge"
	"github.com/hovden/gitboard/internal/events"
	"github.com/hovden/gitboard/internal/model"
	"github.com/hovden/gitboard/internal/stream"
	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Short:   "Follow the live issue board",
	GroupID: "board",
	Args:    cobra.NoArgs,
	Long: `Connects to the relay and prints each board change as it happens.

The default transport is SSE (GET /webhooks/events), which delivers the
full issue snapshot on connect followed by live events. The nats transport
subscribes to the relay's bus mirror instead; it carries live events only,
so the board starts empty.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		b := board.New(bridge.New(relayURL), logger)
		b.OnChange(printItemChange)

		switch transport {
		case "sse":
			return watchSSE(ctx, b)
		case "nats":
			natsURL, _ := cmd.Flags().GetString("nats")
			if natsURL == "" {
				natsURL = os.Getenv("GITBOARD_NATS_URL")
			}
			if natsURL == "" {
				natsURL = activeRemoteNATSURL()
			}
			if natsURL == "" {
				return fmt.Errorf("nats transport requires --nats or GITBOARD_NATS_URL")
			}
			return watchNATS(ctx, natsURL, b)
		default:
			return fmt.Errorf("unknown transport %q (must be sse or nats)", transport)
		}
	},
}

// watchSSE follows the relay's event stream until interrupted.
func watchSSE(ctx context.Context, b *board.Board) error {
	reader := stream.NewReader(relayURL)
	err := reader.Run(ctx, func(evt stream.Event) error {
		if applyErr := b.Apply(evt.Envelope); applyErr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", applyErr)
		}
		return nil
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// watchNATS follows the relay's bus mirror until interrupted.
func watchNATS(ctx context.Context, natsURL string, b *board.Board) error {
	sub, err := events.NewNATSSubscriber(natsURL,
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Printf("nats: disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			log.Printf("nats: reconnected")
		}),
	)
	if err != nil {
		return fmt.Errorf("connecting to NATS: %w", err)
	}
	defer sub.Close()

	ch, cancel, err := sub.Subscribe("board.issues.>")
	if err != nil {
		return fmt.Errorf("subscribing to events: %w", err)
	}
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var env model.Envelope
			if err := json.Unmarshal(msg.Data, &env); err != nil || env.Type == "" {
				// Older relays publish bare payloads; recover the tag
				// from the subject.
				env = model.Envelope{Type: events.TagForSubject(msg.Subject), Data: msg.Data}
			}
			if applyErr := b.Apply(env); applyErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", applyErr)
			}
		}
	}
}

func init() {
	watchCmd.Flags().String("transport", "sse", "event transport (sse or nats)")
	watchCmd.Flags().String("nats", "", "NATS URL for the nats transport")
}
