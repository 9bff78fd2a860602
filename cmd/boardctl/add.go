package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"boardctl/internal/ui"
)

var addCmd = &cobra.Command{
	Use:   "add <content-node-id>",
	Short: "Add an existing issue or pull request to the board",
	Long: `Add an issue or pull request to the board by its GraphQL node ID
(visible in the API, or via "gh api" lookups).`,
	Args: cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		client := newClient()

		b, err := client.FetchBoard(rootCtx)
		if err != nil {
			FatalErrorRespectJSON("%v", err)
		}

		itemID, err := client.AddItem(rootCtx, b.ID, args[0])
		if err != nil {
			FatalErrorRespectJSON("%v", err)
		}

		if jsonOutput {
			printJSON(map[string]string{"item_id": itemID})
			return
		}
		fmt.Printf("%s added to %s (item %s)\n", ui.OK(ui.IconOK), b.Title, itemID)
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
}
