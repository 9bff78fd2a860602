// boardctl issues natural-language status updates against a GitHub
// Projects v2 board.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"boardctl/internal/board"
	"boardctl/internal/config"
	"boardctl/internal/ui"
)

var version = "0.3.0"

var (
	cfg *config.Config
	vp  = viper.New()

	// Signal-aware context for graceful cancellation.
	rootCtx    context.Context
	rootCancel context.CancelFunc

	jsonOutput  bool
	verboseFlag bool
	noColor     bool
	noInput     bool
)

var rootCmd = &cobra.Command{
	Use:     "boardctl",
	Short:   "Natural-language status updates for GitHub Projects boards",
	Version: version,
	Long: `boardctl resolves free-text commands against a GitHub Projects v2 board
and applies the matching status change.

Examples:
  boardctl status "move API docs to done"
  boardctl status "set PDF extraction as blocked - waiting on review"
  boardctl status "#12 in progress"
  boardctl items
  boardctl verify`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		if noColor {
			ui.DisableColor()
		}
		var err error
		cfg, err = config.Load(vp)
		if err != nil {
			FatalErrorRespectJSON("%v", err)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&noInput, "no-input", false, "Never prompt interactively")

	rootCmd.PersistentFlags().String("owner", "", "Board owner (user or organization login)")
	rootCmd.PersistentFlags().Int("project", 0, "Project number")
	rootCmd.PersistentFlags().Bool("org", false, "Owner is an organization")
	_ = vp.BindPFlag("owner", rootCmd.PersistentFlags().Lookup("owner"))
	_ = vp.BindPFlag("project", rootCmd.PersistentFlags().Lookup("project"))
	_ = vp.BindPFlag("org", rootCmd.PersistentFlags().Lookup("org"))
}

// newClient validates the loaded config and builds the board client.
func newClient() *board.Client {
	if err := cfg.Validate(); err != nil {
		FatalErrorRespectJSON("%v", err)
	}
	c := board.NewClient(cfg.Token, cfg.Owner, cfg.ProjectNumber, cfg.IsOrg)
	if cfg.CacheTTL > 0 {
		c = c.WithCacheTTL(cfg.CacheTTL)
	}
	return c
}

func verbosef(format string, args ...interface{}) {
	if verboseFlag && !jsonOutput {
		fmt.Fprintln(os.Stderr, ui.Muted(fmt.Sprintf(format, args...)))
	}
}

func main() {
	rootCtx, rootCancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer rootCancel()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
