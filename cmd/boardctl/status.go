package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"boardctl/internal/command"
	"boardctl/internal/config"
	"boardctl/internal/status"
	"boardctl/internal/ui"
	"boardctl/internal/updater"
)

var statusDryRun bool

var statusCmd = &cobra.Command{
	Use:   "status <command text>",
	Short: "Update an item's status from a free-text command",
	Long: `Resolve a free-text command to a board item and a status option, then
apply the change.

Accepted forms:
  [move|set|mark|change] <item> [to|as|is] <status>
  <item> <status>
  <item> blocked - <reason>

The item reference is fuzzy-matched against board item titles; "#12" or
"12" addresses an item by its issue number exactly.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		text := strings.Join(args, " ")

		req, err := command.Parse(text)
		if err != nil {
			FatalErrorRespectJSON("%v", err)
		}
		verbosef("parsed query=%q status=%q blocked=%t", req.Query, req.TargetStatus, req.IsBlocked)

		u := newUpdater()
		res, err := runUpdate(u, req)

		// One disambiguation round: let the user pick a candidate,
		// then retry by exact number.
		var amb *updater.AmbiguousMatchError
		if errors.As(err, &amb) && canPrompt() {
			if number, ok := pickCandidate(amb); ok {
				req.Query = fmt.Sprintf("#%d", number)
				res, err = runUpdate(u, req)
			}
		}
		if err != nil {
			renderUpdateError(err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(res)
			return
		}
		icon := ui.OK(ui.IconOK)
		transition := res.NewStatus
		if res.PreviousStatus != "" {
			transition = fmt.Sprintf("%s → %s", res.PreviousStatus, res.NewStatus)
		}
		fmt.Printf("%s #%d %s: %s\n", icon, res.Number, res.Title, transition)
		if res.Message != "" {
			fmt.Println(ui.Muted("  " + res.Message))
		}
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusDryRun, "dry-run", false, "Resolve the command but apply nothing")
	rootCmd.AddCommand(statusCmd)
}

func newUpdater() *updater.Updater {
	aliases, err := config.LoadAliases(cfg.AliasesFile)
	if err != nil {
		FatalErrorRespectJSON("%v", err)
	}
	ucfg := updater.DefaultConfig()
	if cfg.MinScore > 0 {
		ucfg.MinScore = cfg.MinScore
	}
	return updater.New(newClient(), status.NewResolver(aliases), ucfg)
}

func runUpdate(u *updater.Updater, req *command.Request) (*updater.Result, error) {
	if statusDryRun {
		return u.Preview(rootCtx, req)
	}
	return u.Update(rootCtx, req)
}

func canPrompt() bool {
	return promptAllowed(jsonOutput, noInput, term.IsTerminal(int(os.Stdin.Fd())))
}

// promptAllowed reports whether interactive disambiguation may run:
// never under --json or --no-input, and only on a terminal.
func promptAllowed(jsonOut, noIn, isTTY bool) bool {
	return !jsonOut && !noIn && isTTY
}

// pickCandidate prompts the user to choose between ambiguous matches.
// Returns false if the prompt was cancelled.
func pickCandidate(amb *updater.AmbiguousMatchError) (int, bool) {
	opts := make([]huh.Option[int], len(amb.Candidates))
	for i, c := range amb.Candidates {
		opts[i] = huh.NewOption(fmt.Sprintf("#%d %s (score %.2f)", c.Number, c.Title, c.Score), c.Number)
	}

	var picked int
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[int]().
			Title(fmt.Sprintf("%q matches multiple items", amb.Query)).
			Options(opts...).
			Value(&picked),
	))
	if err := form.Run(); err != nil {
		return 0, false
	}
	return picked, true
}

// renderUpdateError prints one of the pipeline's typed errors with its
// structured context.
func renderUpdateError(err error) {
	if jsonOutput {
		printJSON(updateErrorJSON(err))
		return
	}

	var notFound *updater.ItemNotFoundError
	var amb *updater.AmbiguousMatchError
	var invalid *updater.InvalidStatusError

	switch {
	case errors.As(err, &notFound):
		fmt.Fprintf(os.Stderr, "%s no board item matches %q\n", ui.Err(ui.IconErr), notFound.Query)
		if len(notFound.Suggestions) > 0 {
			fmt.Fprintln(os.Stderr, ui.Muted("  did you mean:"))
			for _, s := range notFound.Suggestions {
				fmt.Fprintln(os.Stderr, ui.Muted("    "+s))
			}
		}
	case errors.As(err, &amb):
		fmt.Fprintf(os.Stderr, "%s %q matches multiple items:\n", ui.Warn(ui.IconWarn), amb.Query)
		for _, c := range amb.Candidates {
			fmt.Fprintf(os.Stderr, "  %s #%d %s %s\n", ui.IconDot, c.Number, c.Title, ui.Muted(fmt.Sprintf("(score %.2f)", c.Score)))
		}
		fmt.Fprintln(os.Stderr, ui.Muted("  re-run with an item number, e.g. \"#12 done\""))
	case errors.As(err, &invalid):
		fmt.Fprintf(os.Stderr, "%s status %q not defined on this board\n", ui.Err(ui.IconErr), invalid.Target)
		fmt.Fprintf(os.Stderr, "  valid statuses: %s\n", strings.Join(invalid.ValidStatuses, ", "))
	default:
		fmt.Fprintf(os.Stderr, "%s %v\n", ui.Err(ui.IconErr), err)
	}
}

func updateErrorJSON(err error) interface{} {
	var notFound *updater.ItemNotFoundError
	var amb *updater.AmbiguousMatchError
	var invalid *updater.InvalidStatusError

	switch {
	case errors.As(err, &notFound):
		return map[string]interface{}{
			"error":       notFound.Error(),
			"kind":        "item_not_found",
			"query":       notFound.Query,
			"suggestions": notFound.Suggestions,
		}
	case errors.As(err, &amb):
		type candidate struct {
			Number int     `json:"number"`
			Title  string  `json:"title"`
			Score  float64 `json:"score"`
		}
		cands := make([]candidate, len(amb.Candidates))
		for i, c := range amb.Candidates {
			cands[i] = candidate{Number: c.Number, Title: c.Title, Score: c.Score}
		}
		return map[string]interface{}{
			"error":      amb.Error(),
			"kind":       "ambiguous_match",
			"query":      amb.Query,
			"candidates": cands,
		}
	case errors.As(err, &invalid):
		return map[string]interface{}{
			"error":          invalid.Error(),
			"kind":           "invalid_status",
			"target":         invalid.Target,
			"valid_statuses": invalid.ValidStatuses,
		}
	default:
		return map[string]string{"error": err.Error()}
	}
}
