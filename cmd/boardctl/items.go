package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"boardctl/internal/board"
	"boardctl/internal/ui"
)

type itemJSON struct {
	ID     string `json:"id"`
	Number int    `json:"number,omitempty"`
	Title  string `json:"title"`
	Status string `json:"status,omitempty"`
	URL    string `json:"url,omitempty"`
	State  string `json:"state,omitempty"`
}

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "List board items grouped by status",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		client := newClient()

		b, err := client.FetchBoard(rootCtx)
		if err != nil {
			FatalErrorRespectJSON("%v", err)
		}
		verbosef("board %s (%s), %d status options", b.Title, b.ID, len(b.StatusOptions))

		items, err := client.FetchItems(rootCtx, b.ID)
		if err != nil {
			FatalErrorRespectJSON("%v", err)
		}

		if jsonOutput {
			out := make([]itemJSON, 0, len(items))
			for _, it := range items {
				out = append(out, toItemJSON(it))
			}
			printJSON(out)
			return
		}

		renderGrouped(b, items)
	},
}

func init() {
	rootCmd.AddCommand(itemsCmd)
}

func toItemJSON(it *board.Item) itemJSON {
	j := itemJSON{ID: it.ID}
	if t, ok := it.Title(); ok {
		j.Title = t
	}
	if n, ok := it.Number(); ok {
		j.Number = n
	}
	if s, ok := it.Status(); ok {
		j.Status = s
	}
	if it.Content != nil {
		j.URL = it.Content.URL
		j.State = it.Content.State
	}
	return j
}

// renderGrouped prints items under one header per status, with
// no-status items last.
func renderGrouped(b *board.Board, items []*board.Item) {
	groups := make(map[string][]*board.Item)
	for _, it := range items {
		name, _ := it.Status()
		groups[name] = append(groups[name], it)
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		if name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	if _, ok := groups[""]; ok {
		names = append(names, "")
	}

	fmt.Println(ui.Header(fmt.Sprintf("%s (#%d)", b.Title, cfg.ProjectNumber)))
	for _, name := range names {
		header := name
		if header == "" {
			header = "(no status)"
		}
		fmt.Printf("\n%s\n", ui.Header(header))
		for _, it := range groups[name] {
			title, ok := it.Title()
			if !ok {
				title = ui.Muted("(no linked content)")
			}
			if n, ok := it.Number(); ok {
				fmt.Printf("  %s #%d %s\n", ui.IconDot, n, title)
			} else {
				fmt.Printf("  %s %s\n", ui.IconDot, title)
			}
		}
	}
}
