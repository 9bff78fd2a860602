// Package boardctl provides a minimal public API for embedding the
// natural-language status-update pipeline in other tools.
//
// Most automation should shell out to the boardctl CLI; this package
// exports only the types and constructors needed to drive updates
// programmatically against a GitHub Projects v2 board.
package boardctl

import (
	"boardctl/internal/board"
	"boardctl/internal/command"
	"boardctl/internal/status"
	"boardctl/internal/updater"
)

// Core types for working with boards and updates.
type (
	Board   = board.Board
	Item    = board.Item
	Client  = board.Client
	Request = command.Request
	Result  = updater.Result
	Config  = updater.Config
)

// Typed errors surfaced by the update pipeline. Check with errors.As.
type (
	ParseError          = command.Error
	ItemNotFoundError   = updater.ItemNotFoundError
	AmbiguousMatchError = updater.AmbiguousMatchError
	InvalidStatusError  = updater.InvalidStatusError
	ClientError         = board.ClientError
)

// NewClient creates a board client for one project.
func NewClient(token, owner string, projectNumber int, isOrg bool) *Client {
	return board.NewClient(token, owner, projectNumber, isOrg)
}

// DefaultConfig returns the standard matching thresholds.
func DefaultConfig() Config {
	return updater.DefaultConfig()
}

// NewUpdater builds an update pipeline over client. Extra status
// aliases are merged over the built-in table; pass nil for defaults.
func NewUpdater(client *Client, aliases map[string]string, cfg Config) *updater.Updater {
	return updater.New(client, status.NewResolver(aliases), cfg)
}

// ParseCommand turns free text like "move API docs to done" into a
// structured request.
func ParseCommand(input string) (*Request, error) {
	return command.Parse(input)
}
