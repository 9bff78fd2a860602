package updater

import (
	"fmt"
	"strings"

	"boardctl/internal/match"
)

// The pipeline surfaces a closed set of error kinds so callers can
// handle each exhaustively: command.Error (malformed input),
// board.ClientError (transport), and the three resolution errors below.
// Every kind carries enough structured context to render an actionable
// message without re-querying the board.

// ItemNotFoundError means no item cleared the minimum match score.
type ItemNotFoundError struct {
	Query       string
	Suggestions []string // nearest misses, "#number: title"
}

func (e *ItemNotFoundError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("no board item matches %q", e.Query)
	}
	return fmt.Sprintf("no board item matches %q (did you mean %s?)", e.Query, strings.Join(e.Suggestions, ", "))
}

// AmbiguousMatchError means multiple items matched too closely to pick
// one. The user must disambiguate, e.g. by number.
type AmbiguousMatchError struct {
	Query      string
	Candidates []match.Result // top candidates, best first
}

func (e *AmbiguousMatchError) Error() string {
	names := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		names[i] = fmt.Sprintf("#%d %q", c.Number, c.Title)
	}
	return fmt.Sprintf("%q matches multiple items: %s", e.Query, strings.Join(names, ", "))
}

// InvalidStatusError means the target status text resolved to none of
// the board's status options.
type InvalidStatusError struct {
	Target        string
	ValidStatuses []string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("status %q not defined on this board (valid: %s)", e.Target, strings.Join(e.ValidStatuses, ", "))
}
