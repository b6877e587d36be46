package main

import (
	"os"

	"github.com/hovden/gitboard/internal/ui"
	"github.com/spf13/cobra"
)

var (
	relayURL   string
	jsonOutput bool
)

func defaultRelayURL() string {
	if s := os.Getenv("GITBOARD_URL"); s != "" {
		return s
	}
	if u := activeRemoteURL(); u != "" {
		return u
	}
	return "http://localhost:8080"
}

var rootCmd = &cobra.Command{
	Use:   "gitboard <command>",
	Short: "Live issue board for GitLab projects",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if !ui.ShouldUseColor() {
			ui.ForceNoColor()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&relayURL, "relay", defaultRelayURL(), "relay HTTP URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	rootCmd.AddGroup(
		&cobra.Group{ID: "board", Title: "Board:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)
	cobra.EnableCommandSorting = false

	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(closeCmd)
	rootCmd.AddCommand(reopenCmd)
	rootCmd.AddCommand(projectIDCmd)
	rootCmd.AddCommand(viewersCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(remoteCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
