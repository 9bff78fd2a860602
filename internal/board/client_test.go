package board

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// fastRetry swaps the production backoff for a millisecond one so
// retry tests run instantly.
func fastRetry(c *Client) *Client {
	c.retryPolicy = func() backoff.BackOff {
		return backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Millisecond), MaxRetries)
	}
	return c
}

const boardResponse = `{
  "data": {
    "organization": {
      "projectV2": {
        "id": "PVT_board1",
        "title": "Roadmap",
        "field": {
          "id": "PVTSSF_status",
          "name": "Status",
          "options": [
            {"id": "opt1", "name": "Todo"},
            {"id": "opt2", "name": "In Progress"},
            {"id": "opt3", "name": "Done"}
          ]
        }
      }
    }
  }
}`

func newBoardServer(t *testing.T, calls *atomic.Int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, boardResponse)
	}))
}

func TestNewClientDefaults(t *testing.T) {
	client := NewClient("tok", "acme", 4, true)

	if client.BaseURL != DefaultAPIEndpoint {
		t.Errorf("BaseURL = %q, want %q", client.BaseURL, DefaultAPIEndpoint)
	}
	if client.CacheTTL != DefaultCacheTTL {
		t.Errorf("CacheTTL = %v, want %v", client.CacheTTL, DefaultCacheTTL)
	}
	if client.HTTPClient == nil {
		t.Error("HTTPClient is nil, want non-nil default client")
	}
}

func TestFetchBoard(t *testing.T) {
	var calls atomic.Int64
	server := newBoardServer(t, &calls)
	defer server.Close()

	client := NewClient("tok", "acme", 4, true).WithBaseURL(server.URL)
	b, err := client.FetchBoard(context.Background())
	if err != nil {
		t.Fatalf("FetchBoard: %v", err)
	}

	if b.ID != "PVT_board1" {
		t.Errorf("ID = %q, want PVT_board1", b.ID)
	}
	if b.StatusFieldID != "PVTSSF_status" {
		t.Errorf("StatusFieldID = %q, want PVTSSF_status", b.StatusFieldID)
	}
	if got := b.StatusOptions["in progress"]; got != "opt2" {
		t.Errorf("StatusOptions[in progress] = %q, want opt2", got)
	}
	if len(b.StatusOptions) != 3 {
		t.Errorf("len(StatusOptions) = %d, want 3", len(b.StatusOptions))
	}
}

func TestFetchBoardCacheHit(t *testing.T) {
	var calls atomic.Int64
	server := newBoardServer(t, &calls)
	defer server.Close()

	client := NewClient("tok", "acme", 4, true).WithBaseURL(server.URL)
	ctx := context.Background()

	if _, err := client.FetchBoard(ctx); err != nil {
		t.Fatalf("first FetchBoard: %v", err)
	}
	if _, err := client.FetchBoard(ctx); err != nil {
		t.Fatalf("second FetchBoard: %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("transport calls = %d, want 1 (second fetch should hit cache)", calls.Load())
	}
}

func TestFetchBoardCacheExpiry(t *testing.T) {
	var calls atomic.Int64
	server := newBoardServer(t, &calls)
	defer server.Close()

	client := NewClient("tok", "acme", 4, true).WithBaseURL(server.URL).WithCacheTTL(30 * time.Millisecond)
	ctx := context.Background()

	if _, err := client.FetchBoard(ctx); err != nil {
		t.Fatalf("first FetchBoard: %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	if _, err := client.FetchBoard(ctx); err != nil {
		t.Fatalf("second FetchBoard: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("transport calls = %d, want 2 (cache should have expired)", calls.Load())
	}
}

func TestInvalidateCache(t *testing.T) {
	var calls atomic.Int64
	server := newBoardServer(t, &calls)
	defer server.Close()

	client := NewClient("tok", "acme", 4, true).WithBaseURL(server.URL)
	ctx := context.Background()

	if _, err := client.FetchBoard(ctx); err != nil {
		t.Fatalf("first FetchBoard: %v", err)
	}
	client.InvalidateCache()
	if _, err := client.FetchBoard(ctx); err != nil {
		t.Fatalf("second FetchBoard: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("transport calls = %d, want 2 after explicit invalidation", calls.Load())
	}
}

func TestRetryOnServerError(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, boardResponse)
	}))
	defer server.Close()

	client := fastRetry(NewClient("tok", "acme", 4, true).WithBaseURL(server.URL))
	if _, err := client.FetchBoard(context.Background()); err != nil {
		t.Fatalf("FetchBoard should succeed after retries: %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("transport calls = %d, want 3 (two failures + one success)", calls.Load())
	}
}

func TestNoRetryOnClientError(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Not Found"}`)
	}))
	defer server.Close()

	client := fastRetry(NewClient("tok", "acme", 4, true).WithBaseURL(server.URL))
	_, err := client.FetchBoard(context.Background())
	if err == nil {
		t.Fatal("FetchBoard should fail on 404")
	}
	if calls.Load() != 1 {
		t.Errorf("transport calls = %d, want 1 (404 must not be retried)", calls.Load())
	}

	var ce *ClientError
	if !errors.As(err, &ce) {
		t.Fatalf("error = %T, want *ClientError", err)
	}
	if ce.Retryable {
		t.Error("Retryable = true, want false for 404")
	}
	if ce.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", ce.StatusCode)
	}
}

func TestRetryOnRateLimit(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, boardResponse)
	}))
	defer server.Close()

	client := fastRetry(NewClient("tok", "acme", 4, true).WithBaseURL(server.URL))
	if _, err := client.FetchBoard(context.Background()); err != nil {
		t.Fatalf("FetchBoard should succeed after rate-limit retry: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("transport calls = %d, want 2", calls.Load())
	}
}

func TestGraphQLErrorIsTerminal(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, `{"errors":[{"message":"Could not resolve to a ProjectV2","type":"NOT_FOUND"}]}`)
	}))
	defer server.Close()

	client := fastRetry(NewClient("tok", "acme", 4, true).WithBaseURL(server.URL))
	_, err := client.FetchBoard(context.Background())
	if err == nil {
		t.Fatal("FetchBoard should surface GraphQL errors")
	}
	if calls.Load() != 1 {
		t.Errorf("transport calls = %d, want 1 (NOT_FOUND must not be retried)", calls.Load())
	}
	if !strings.Contains(err.Error(), "Could not resolve") {
		t.Errorf("error %q should carry the GraphQL message", err)
	}
}

func itemsPage(cursor string, hasNext bool, items string) string {
	return fmt.Sprintf(`{
  "data": {
    "node": {
      "items": {
        "pageInfo": {"hasNextPage": %t, "endCursor": %q},
        "nodes": [%s]
      }
    }
  }
}`, hasNext, cursor, items)
}

const itemNode = `{
  "id": %q,
  "fieldValues": {
    "nodes": [
      {
        "__typename": "ProjectV2ItemFieldSingleSelectValue",
        "name": "In Progress",
        "optionId": "opt2",
        "field": {"name": "Status"}
      }
    ]
  },
  "content": {
    "__typename": "Issue",
    "id": %q,
    "number": %d,
    "title": %q,
    "url": "https://github.com/acme/repo/issues/%d",
    "state": "OPEN"
  }
}`

func TestFetchItemsPagination(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req gqlRequest
		_ = json.Unmarshal(body, &req)

		page1 := itemsPage("cursor1", true, fmt.Sprintf(itemNode, "item1", "I_1", 12, "API documentation", 12))
		page2 := itemsPage("", false, fmt.Sprintf(itemNode, "item2", "I_2", 7, "PDF extraction", 7))

		calls.Add(1)
		if req.Variables["cursor"] == "cursor1" {
			fmt.Fprint(w, page2)
		} else {
			fmt.Fprint(w, page1)
		}
	}))
	defer server.Close()

	client := NewClient("tok", "acme", 4, true).WithBaseURL(server.URL)
	items, err := client.FetchItems(context.Background(), "PVT_board1")
	if err != nil {
		t.Fatalf("FetchItems: %v", err)
	}

	if calls.Load() != 2 {
		t.Errorf("transport calls = %d, want 2 pages", calls.Load())
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	if title, _ := items[0].Title(); title != "API documentation" {
		t.Errorf("items[0].Title = %q, want API documentation", title)
	}
	if n, _ := items[1].Number(); n != 7 {
		t.Errorf("items[1].Number = %d, want 7", n)
	}
	if status, ok := items[0].Status(); !ok || status != "In Progress" {
		t.Errorf("items[0].Status = %q (%t), want In Progress", status, ok)
	}
}

func TestUpdateItemStatus(t *testing.T) {
	var gotVars map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req gqlRequest
		_ = json.Unmarshal(body, &req)
		gotVars = req.Variables
		fmt.Fprint(w, `{"data":{"updateProjectV2ItemFieldValue":{"projectV2Item":{"id":"item1"}}}}`)
	}))
	defer server.Close()

	client := NewClient("tok", "acme", 4, true).WithBaseURL(server.URL)
	err := client.UpdateItemStatus(context.Background(), "PVT_board1", "item1", "PVTSSF_status", "opt3")
	if err != nil {
		t.Fatalf("UpdateItemStatus: %v", err)
	}

	if gotVars["project"] != "PVT_board1" || gotVars["item"] != "item1" || gotVars["field"] != "PVTSSF_status" || gotVars["option"] != "opt3" {
		t.Errorf("mutation variables = %v", gotVars)
	}
}

func TestAddItem(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":{"addProjectV2ItemById":{"item":{"id":"item-new"}}}}`)
	}))
	defer server.Close()

	client := NewClient("tok", "acme", 4, true).WithBaseURL(server.URL)
	id, err := client.AddItem(context.Background(), "PVT_board1", "I_99")
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if id != "item-new" {
		t.Errorf("item id = %q, want item-new", id)
	}
}

func TestVerifyToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer tok" {
			t.Errorf("Authorization = %q, want Bearer tok", auth)
		}
		fmt.Fprint(w, `{"login":"octocat"}`)
	}))
	defer server.Close()

	client := NewClient("tok", "acme", 4, true).WithBaseURL(server.URL)
	login, err := client.VerifyToken(context.Background())
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if login != "octocat" {
		t.Errorf("login = %q, want octocat", login)
	}
}

func TestAuthHeaderSent(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, boardResponse)
	}))
	defer server.Close()

	client := NewClient("secret", "acme", 4, true).WithBaseURL(server.URL)
	if _, err := client.FetchBoard(context.Background()); err != nil {
		t.Fatalf("FetchBoard: %v", err)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("Authorization = %q, want Bearer secret", gotAuth)
	}
}
