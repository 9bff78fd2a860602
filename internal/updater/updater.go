// Package updater composes parsing, matching, status resolution, and
// the board client into a single natural-language status update.
//
// The pipeline is one linear pass: parse input, resolve the board,
// fetch its items, resolve the query to exactly one item, resolve the
// target status to a board option, then mutate. Any stage can fail
// terminally; no stage is re-entered, and no state survives across
// invocations except the board metadata cache inside the client.
package updater

import (
	"context"
	"fmt"

	"boardctl/internal/board"
	"boardctl/internal/command"
	"boardctl/internal/match"
	"boardctl/internal/status"
)

// BoardService is the slice of the board client the updater needs.
// Tests inject fakes; production passes *board.Client.
type BoardService interface {
	FetchBoard(ctx context.Context) (*board.Board, error)
	FetchItems(ctx context.Context, boardID string) ([]*board.Item, error)
	UpdateItemStatus(ctx context.Context, boardID, itemID, fieldID, optionID string) error
}

// Config holds the matching thresholds. Explicit configuration rather
// than package state, so tests can vary thresholds without
// cross-test interference.
type Config struct {
	MinScore       float64 // floor for accepting a match
	AmbiguityGap   float64 // score gap below which top two candidates are indistinguishable
	CertaintyScore float64 // top scores at or above this are never ambiguous
	MaxCandidates  int     // candidates carried in an AmbiguousMatchError
	MaxSuggestions int     // nearest misses carried in an ItemNotFoundError
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		MinScore:       match.DefaultMinScore,
		AmbiguityGap:   0.05,
		CertaintyScore: 0.9,
		MaxCandidates:  5,
		MaxSuggestions: match.DefaultMaxSuggestions,
	}
}

// Updater runs the status-update pipeline against one board.
type Updater struct {
	boards   BoardService
	matcher  *match.Matcher
	statuses *status.Resolver
	cfg      Config
}

// New builds an Updater. A nil statuses resolver gets the default alias
// table.
func New(boards BoardService, statuses *status.Resolver, cfg Config) *Updater {
	if statuses == nil {
		statuses = status.NewResolver(nil)
	}
	return &Updater{
		boards:   boards,
		matcher:  &match.Matcher{MinScore: cfg.MinScore},
		statuses: statuses,
		cfg:      cfg,
	}
}

// Result reports a completed (or previewed) status update.
type Result struct {
	Success        bool    `json:"success"`
	ItemID         string  `json:"item_id"`
	Title          string  `json:"title"`
	Number         int     `json:"number"`
	NewStatus      string  `json:"new_status"`
	PreviousStatus string  `json:"previous_status,omitempty"`
	Score          float64 `json:"score"`
	Message        string  `json:"message,omitempty"`
}

// resolution is the pipeline state after every stage except Mutate.
type resolution struct {
	board    *board.Board
	top      match.Result
	status   string
	optionID string
	previous string
}

// UpdateFromText parses input and applies the resulting update.
func (u *Updater) UpdateFromText(ctx context.Context, input string) (*Result, error) {
	req, err := command.Parse(input)
	if err != nil {
		return nil, err
	}
	return u.Update(ctx, req)
}

// Update applies a parsed request: resolve board, items, item, and
// status, then mutate. A mutation failure leaves nothing half-applied;
// the update either fully succeeds or the result is absent.
func (u *Updater) Update(ctx context.Context, req *command.Request) (*Result, error) {
	res, err := u.resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := u.boards.UpdateItemStatus(ctx, res.board.ID, res.top.Item.ID, res.board.StatusFieldID, res.optionID); err != nil {
		return nil, err
	}

	return u.result(res, req, ""), nil
}

// Preview runs every stage except the mutation and reports what Update
// would do.
func (u *Updater) Preview(ctx context.Context, req *command.Request) (*Result, error) {
	res, err := u.resolve(ctx, req)
	if err != nil {
		return nil, err
	}
	return u.result(res, req, "dry run, no change applied"), nil
}

func (u *Updater) resolve(ctx context.Context, req *command.Request) (*resolution, error) {
	b, err := u.boards.FetchBoard(ctx)
	if err != nil {
		return nil, err
	}

	items, err := u.boards.FetchItems(ctx, b.ID)
	if err != nil {
		return nil, err
	}

	matches := u.matcher.FindMatches(items, req.Query)
	if len(matches) == 0 {
		return nil, &ItemNotFoundError{
			Query:       req.Query,
			Suggestions: u.matcher.Suggestions(items, req.Query, u.cfg.MaxSuggestions),
		}
	}

	if err := u.checkAmbiguity(req.Query, matches); err != nil {
		return nil, err
	}
	top := matches[0]

	name, optionID, ok := u.statuses.Resolve(req.TargetStatus, b.StatusOptions)
	if !ok {
		return nil, &InvalidStatusError{
			Target:        req.TargetStatus,
			ValidStatuses: status.ValidNames(b.StatusOptions),
		}
	}

	prev, _ := top.Item.Status()
	return &resolution{board: b, top: top, status: name, optionID: optionID, previous: prev}, nil
}

// checkAmbiguity rejects a match set whose top two scores are within
// the ambiguity gap, unless the top score clears the certainty
// threshold, in which case the high-confidence match wins outright no
// matter how close the runner-up is.
func (u *Updater) checkAmbiguity(query string, matches []match.Result) error {
	if len(matches) < 2 {
		return nil
	}
	top, second := matches[0], matches[1]
	if top.Score >= u.cfg.CertaintyScore {
		return nil
	}
	if top.Score-second.Score >= u.cfg.AmbiguityGap {
		return nil
	}

	// Carry every candidate within the gap of the leader, capped.
	candidates := []match.Result{top}
	for _, m := range matches[1:] {
		if top.Score-m.Score < u.cfg.AmbiguityGap {
			candidates = append(candidates, m)
		}
	}
	if len(candidates) > u.cfg.MaxCandidates {
		candidates = candidates[:u.cfg.MaxCandidates]
	}
	return &AmbiguousMatchError{Query: query, Candidates: candidates}
}

func (u *Updater) result(res *resolution, req *command.Request, note string) *Result {
	msg := note
	if req.IsBlocked && req.BlockedReason != "" {
		if msg != "" {
			msg += "; "
		}
		msg += fmt.Sprintf("blocked: %s", req.BlockedReason)
	}
	return &Result{
		Success:        true,
		ItemID:         res.top.Item.ID,
		Title:          res.top.Title,
		Number:         res.top.Number,
		NewStatus:      res.status,
		PreviousStatus: res.previous,
		Score:          res.top.Score,
		Message:        msg,
	}
}
