// Package board provides a client for GitHub Projects v2 boards.
//
// It discovers a project's status field and options through the GraphQL
// API, fetches board items with cursor pagination, and applies
// single-select field mutations. Board metadata is cached in-memory with
// a time-based expiry; all network calls run through a bounded-retry
// policy that distinguishes transient failures from client errors.
package board

import (
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// API configuration constants.
const (
	// DefaultAPIEndpoint is the GitHub GraphQL API URL.
	DefaultAPIEndpoint = "https://api.github.com/graphql"

	// DefaultRESTEndpoint is the GitHub REST API base URL, used only
	// for token verification.
	DefaultRESTEndpoint = "https://api.github.com"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// MaxRetries is the maximum number of retries for transient failures.
	MaxRetries = 3

	// RetryDelay is the base delay between retries (exponential backoff).
	RetryDelay = time.Second

	// MaxRetryDelay caps the backoff interval between attempts.
	MaxRetryDelay = 30 * time.Second

	// MaxPageSize is the number of items to fetch per GraphQL page.
	MaxPageSize = 100

	// MaxPages is the maximum number of pages to fetch before stopping.
	// This prevents infinite loops from a misbehaving cursor.
	MaxPages = 1000

	// DefaultCacheTTL is the freshness window for cached board metadata.
	DefaultCacheTTL = 5 * time.Minute
)

// Client provides methods to interact with a GitHub Projects v2 board.
type Client struct {
	Token         string // GitHub personal access token
	Owner         string // Organization or user login
	ProjectNumber int    // Project number within the owner's namespace
	IsOrg         bool   // Whether Owner is an organization
	BaseURL       string // GraphQL endpoint (default: https://api.github.com/graphql)
	RESTBaseURL   string // REST endpoint, for token verification
	CacheTTL      time.Duration
	HTTPClient    *http.Client

	cache *metadataCache

	// retryPolicy overrides the default backoff construction; tests use
	// it to avoid real delays.
	retryPolicy func() backoff.BackOff
}

// Board holds the discovered metadata for a project board.
type Board struct {
	ID            string            // ProjectV2 node ID
	Title         string            // Project title
	StatusFieldID string            // Node ID of the single-select "Status" field
	StatusOptions map[string]string // normalized option name -> option node ID
	FetchedAt     time.Time         // When this snapshot was captured
}

// ContentType values for linked item content.
const (
	ContentTypeIssue       = "Issue"
	ContentTypePullRequest = "PullRequest"
	ContentTypeDraftIssue  = "DraftIssue"
)

// Content is the issue or pull request linked to a board item.
type Content struct {
	ID        string     `json:"id"`     // Content node ID
	Type      string     `json:"type"`   // Issue, PullRequest, or DraftIssue
	Number    int        `json:"number"` // Repository-scoped number (0 for drafts)
	Title     string     `json:"title"`
	URL       string     `json:"url,omitempty"`
	State     string     `json:"state,omitempty"` // OPEN, CLOSED, MERGED
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// FieldKind discriminates the value types a project field can hold.
type FieldKind string

const (
	FieldText         FieldKind = "text"
	FieldSingleSelect FieldKind = "single_select"
	FieldDate         FieldKind = "date"
)

// FieldValue is one field's current value on a board item.
type FieldValue struct {
	Kind     FieldKind
	Text     string // text fields
	Name     string // single-select display name
	OptionID string // single-select option node ID
	Date     string // date fields, ISO 8601
}

// Item is an immutable snapshot of one board card. Updates happen
// server-side; observing them requires a re-fetch.
type Item struct {
	ID      string                // ProjectV2Item node ID
	Fields  map[string]FieldValue // field name -> value
	Content *Content              // nil for items without linked content
}

// Title returns the linked content's title, or false if the item has no
// linked content.
func (it *Item) Title() (string, bool) {
	if it.Content == nil || it.Content.Title == "" {
		return "", false
	}
	return it.Content.Title, true
}

// Number returns the linked issue/PR number, or false for items that
// cannot be addressed by number (drafts, missing content).
func (it *Item) Number() (int, bool) {
	if it.Content == nil || it.Content.Number == 0 {
		return 0, false
	}
	return it.Content.Number, true
}

// Status returns the item's current status display name, if set.
func (it *Item) Status() (string, bool) {
	fv, ok := it.Fields["Status"]
	if !ok || fv.Kind != FieldSingleSelect || fv.Name == "" {
		return "", false
	}
	return fv.Name, true
}

// ClientError is a transport-level failure, tagged with whether the
// retry policy considered it transient and any HTTP status observed.
type ClientError struct {
	Op         string // operation that failed (e.g. "fetch board")
	StatusCode int    // HTTP status, 0 if the request never completed
	Retryable  bool
	Err        error
}

func (e *ClientError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %v (status %d)", e.Op, e.Err, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ClientError) Unwrap() error { return e.Err }
