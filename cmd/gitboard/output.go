package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/hovden/gitboard/internal/board"
	"github.com/hovden/gitboard/internal/ui"
)

// printItemChange prints one board row as it is created or updated. In JSON
// mode each change is one line, suitable for piping.
func printItemChange(item board.Item) {
	if jsonOutput {
		data, err := json.Marshal(item)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
			return
		}
		fmt.Println(string(data))
		return
	}
	title := item.Title
	if len(title) > 60 {
		title = title[:57] + "..."
	}
	fmt.Printf("%s %s  %-8s %s\n",
		ui.Checkbox(item.Closed),
		ui.RenderIID(item.IID),
		ui.RenderState(item.Closed),
		ui.RenderTitle(title, item.Closed),
	)
}

func printItemsTable(items []board.Item) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "IID\tSTATE\tTITLE")
	for _, item := range items {
		title := item.Title
		if len(title) > 60 {
			title = title[:57] + "..."
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", item.IID, ui.RenderState(item.Closed), ui.RenderTitle(title, item.Closed))
	}
	w.Flush()
	fmt.Printf("\n%d issues\n", len(items))
}

func printItemsJSON(items []board.Item) {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}
