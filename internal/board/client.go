package board

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// NewClient creates a client for one project board.
func NewClient(token, owner string, projectNumber int, isOrg bool) *Client {
	return &Client{
		Token:         token,
		Owner:         owner,
		ProjectNumber: projectNumber,
		IsOrg:         isOrg,
		BaseURL:       DefaultAPIEndpoint,
		RESTBaseURL:   DefaultRESTEndpoint,
		CacheTTL:      DefaultCacheTTL,
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		cache: newMetadataCache(),
	}
}

// WithHTTPClient returns a new client with a custom HTTP client. The
// metadata cache is shared with the receiver.
func (c *Client) WithHTTPClient(httpClient *http.Client) *Client {
	cp := *c
	cp.HTTPClient = httpClient
	return &cp
}

// WithBaseURL returns a new client with custom API endpoints (for
// testing or GitHub Enterprise). Both the GraphQL and REST URLs are
// pointed at baseURL.
func (c *Client) WithBaseURL(baseURL string) *Client {
	cp := *c
	cp.BaseURL = baseURL
	cp.RESTBaseURL = baseURL
	return &cp
}

// WithCacheTTL returns a new client with a custom metadata freshness
// window.
func (c *Client) WithCacheTTL(ttl time.Duration) *Client {
	cp := *c
	cp.CacheTTL = ttl
	return &cp
}

func (c *Client) key() string {
	return cacheKey(c.Owner, c.ProjectNumber, c.IsOrg)
}

// normalizeOption canonicalizes a status option name for map lookup.
func normalizeOption(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// FetchBoard returns the board's metadata: node ID, status field ID,
// and the status option name→ID mapping. Results within the freshness
// window are served from cache without a network call.
func (c *Client) FetchBoard(ctx context.Context) (*Board, error) {
	if b, ok := c.cache.get(c.key(), c.CacheTTL); ok {
		return b, nil
	}

	query := userBoardQuery
	if c.IsOrg {
		query = orgBoardQuery
	}
	vars := map[string]interface{}{
		"login":  c.Owner,
		"number": c.ProjectNumber,
	}

	var data gqlBoardData
	err := c.withRetry(ctx, func() error {
		return c.doGraphQL(ctx, "fetch board", query, vars, &data)
	})
	if err != nil {
		return nil, err
	}

	var project *gqlProject
	switch {
	case data.Organization != nil:
		project = data.Organization.ProjectV2
	case data.User != nil:
		project = data.User.ProjectV2
	}
	if project == nil || project.ID == "" {
		return nil, &ClientError{
			Op:        "fetch board",
			Retryable: false,
			Err:       fmt.Errorf("project %d not found for %s", c.ProjectNumber, c.Owner),
		}
	}
	if project.Field.ID == "" {
		return nil, &ClientError{
			Op:        "fetch board",
			Retryable: false,
			Err:       fmt.Errorf("project %d has no single-select Status field", c.ProjectNumber),
		}
	}

	board := &Board{
		ID:            project.ID,
		Title:         project.Title,
		StatusFieldID: project.Field.ID,
		StatusOptions: make(map[string]string, len(project.Field.Options)),
		FetchedAt:     time.Now(),
	}
	for _, opt := range project.Field.Options {
		board.StatusOptions[normalizeOption(opt.Name)] = opt.ID
	}

	c.cache.put(c.key(), board)
	return board, nil
}

// InvalidateCache drops the cached metadata for this client's board,
// forcing the next FetchBoard to hit the network.
func (c *Client) InvalidateCache() {
	c.cache.drop(c.key())
}

// FetchItems retrieves every item on the board, following cursor
// pagination until the server reports no further page. Pages are
// accumulated in order.
func (c *Client) FetchItems(ctx context.Context, boardID string) ([]*Item, error) {
	var all []*Item
	var cursor string

	for page := 1; ; page++ {
		vars := map[string]interface{}{
			"board": boardID,
			"limit": MaxPageSize,
		}
		if cursor != "" {
			vars["cursor"] = cursor
		}

		var data gqlItemsData
		err := c.withRetry(ctx, func() error {
			return c.doGraphQL(ctx, "fetch items", itemsQuery, vars, &data)
		})
		if err != nil {
			return nil, err
		}
		if data.Node == nil {
			return nil, &ClientError{
				Op:        "fetch items",
				Retryable: false,
				Err:       fmt.Errorf("board %s not found", boardID),
			}
		}

		for _, n := range data.Node.Items.Nodes {
			all = append(all, itemFromGQL(n.ID, n.FieldValues.Nodes, n.Content))
		}

		if !data.Node.Items.PageInfo.HasNextPage {
			break
		}
		cursor = data.Node.Items.PageInfo.EndCursor

		if page >= MaxPages {
			return nil, &ClientError{
				Op:        "fetch items",
				Retryable: false,
				Err:       fmt.Errorf("pagination limit exceeded: stopped after %d pages", MaxPages),
			}
		}
	}

	return all, nil
}

// UpdateItemStatus sets the item's status field to the given option.
func (c *Client) UpdateItemStatus(ctx context.Context, boardID, itemID, fieldID, optionID string) error {
	vars := map[string]interface{}{
		"project": boardID,
		"item":    itemID,
		"field":   fieldID,
		"option":  optionID,
	}
	var data gqlMutationData
	err := c.withRetry(ctx, func() error {
		return c.doGraphQL(ctx, "update status", updateStatusMutation, vars, &data)
	})
	if err != nil {
		return err
	}
	if data.UpdateProjectV2ItemFieldValue == nil {
		return &ClientError{
			Op:        "update status",
			Retryable: false,
			Err:       fmt.Errorf("mutation returned no item"),
		}
	}
	return nil
}

// AddItem adds an existing issue or pull request (by content node ID)
// to the board and returns the new item's ID.
func (c *Client) AddItem(ctx context.Context, boardID, contentID string) (string, error) {
	vars := map[string]interface{}{
		"project": boardID,
		"content": contentID,
	}
	var data gqlMutationData
	err := c.withRetry(ctx, func() error {
		return c.doGraphQL(ctx, "add item", addItemMutation, vars, &data)
	})
	if err != nil {
		return "", err
	}
	if data.AddProjectV2ItemByID == nil {
		return "", &ClientError{
			Op:        "add item",
			Retryable: false,
			Err:       fmt.Errorf("mutation returned no item"),
		}
	}
	return data.AddProjectV2ItemByID.Item.ID, nil
}

// VerifyToken checks the token against the REST /user endpoint and
// returns the authenticated login.
func (c *Client) VerifyToken(ctx context.Context) (string, error) {
	var login string
	err := c.withRetry(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.RESTBaseURL+"/user", nil)
		if err != nil {
			return &ClientError{Op: "verify token", Retryable: false, Err: err}
		}
		req.Header.Set("Authorization", "Bearer "+c.Token)
		req.Header.Set("Accept", "application/vnd.github+json")

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			return &ClientError{Op: "verify token", Retryable: true, Err: err}
		}
		body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		_ = resp.Body.Close()
		if err != nil {
			return &ClientError{Op: "verify token", Retryable: true, Err: fmt.Errorf("read response: %w", err)}
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return &ClientError{
				Op:         "verify token",
				StatusCode: resp.StatusCode,
				Retryable:  isRetryableStatus(resp.StatusCode, resp.Header),
				Err:        fmt.Errorf("API error: %s", strings.TrimSpace(string(body))),
			}
		}
		var user struct {
			Login string `json:"login"`
		}
		if err := json.Unmarshal(body, &user); err != nil {
			return &ClientError{Op: "verify token", StatusCode: resp.StatusCode, Retryable: false, Err: fmt.Errorf("parse response: %w", err)}
		}
		login = user.Login
		return nil
	})
	return login, err
}
