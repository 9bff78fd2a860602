// Package command parses free-text board instructions like "move API
// docs to done" into structured status-update requests.
package command

import (
	"fmt"
	"regexp"
	"strings"
)

// Request is the structured form of one parsed instruction. Produced
// once per command and consumed once.
type Request struct {
	Query         string `json:"query"`         // free-text item reference
	TargetStatus  string `json:"target_status"` // raw status text, resolved later against the board
	BlockedReason string `json:"blocked_reason,omitempty"`
	IsBlocked     bool   `json:"is_blocked"`
}

// Error reports input that matched none of the accepted command forms.
// The user must rephrase; no best-effort interpretation is attempted.
type Error struct {
	Input string
}

func (e *Error) Error() string {
	return fmt.Sprintf("could not understand %q: try \"move <item> to <status>\" or \"<item> <status>\"", e.Input)
}

// blockedStatuses are target statuses that imply the item is blocked.
var blockedStatuses = map[string]bool{
	"blocked": true,
	"on hold": true,
	"waiting": true,
	"paused":  true,
}

// The grammar is three patterns tried in fixed priority order against
// the lowercased, trimmed input.
var (
	// "set pdf extraction as blocked - waiting on review"
	blockedReasonPattern = regexp.MustCompile(`^(?:(?:move|set|mark|change)\s+)?(.+?)\s+(?:(?:to|as|is)\s+)?blocked\s*[-:]\s*(.+)$`)

	// "move api docs to done"
	standardPattern = regexp.MustCompile(`^(?:(?:move|set|mark|change)\s+)?(.+?)\s+(?:to|as|is)\s+(.+)$`)

	// "api docs done"
	simpleSuffixPattern = regexp.MustCompile(`^(.+?)\s+(done|todo|in progress|completed?|blocked|backlog)$`)
)

// Parse turns a free-text instruction into a Request. Input that fits
// none of the three accepted forms returns *Error.
func Parse(input string) (*Request, error) {
	text := strings.ToLower(strings.TrimSpace(input))

	if m := blockedReasonPattern.FindStringSubmatch(text); m != nil {
		return &Request{
			Query:         strings.TrimSpace(m[1]),
			TargetStatus:  "blocked",
			BlockedReason: strings.TrimSpace(m[2]),
			IsBlocked:     true,
		}, nil
	}

	if m := standardPattern.FindStringSubmatch(text); m != nil {
		status := strings.TrimSpace(m[2])
		return &Request{
			Query:        strings.TrimSpace(m[1]),
			TargetStatus: status,
			IsBlocked:    blockedStatuses[status],
		}, nil
	}

	if m := simpleSuffixPattern.FindStringSubmatch(text); m != nil {
		status := strings.TrimSpace(m[2])
		return &Request{
			Query:        strings.TrimSpace(m[1]),
			TargetStatus: status,
			IsBlocked:    blockedStatuses[status],
		}, nil
	}

	return nil, &Error{Input: strings.TrimSpace(input)}
}
