package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"boardctl/internal/board"
	"boardctl/internal/ui"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check that the configured token can reach the API",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		if cfg.Token == "" {
			FatalErrorRespectJSON("no GitHub token: set GITHUB_TOKEN or token in config")
		}
		// Token verification needs no board; skip the owner/project checks.
		client := board.NewClient(cfg.Token, cfg.Owner, cfg.ProjectNumber, cfg.IsOrg)

		login, err := client.VerifyToken(rootCtx)
		if err != nil {
			FatalErrorRespectJSON("token check failed: %v", err)
		}

		if jsonOutput {
			printJSON(map[string]string{"login": login})
			return
		}
		fmt.Printf("%s authenticated as %s\n", ui.OK(ui.IconOK), login)
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
