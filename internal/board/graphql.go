package board

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// GraphQL documents. The board metadata query comes in org and user
// flavors because organization and user projects hang off different
// root fields.
const (
	orgBoardQuery = `query($login: String!, $number: Int!) {
  organization(login: $login) {
    projectV2(number: $number) {
      id
      title
      field(name: "Status") {
        ... on ProjectV2SingleSelectField { id name options { id name } }
      }
    }
  }
}`

	userBoardQuery = `query($login: String!, $number: Int!) {
  user(login: $login) {
    projectV2(number: $number) {
      id
      title
      field(name: "Status") {
        ... on ProjectV2SingleSelectField { id name options { id name } }
      }
    }
  }
}`

	itemsQuery = `query($board: ID!, $limit: Int!, $cursor: String) {
  node(id: $board) {
    ... on ProjectV2 {
      items(first: $limit, after: $cursor) {
        pageInfo { hasNextPage endCursor }
        nodes {
          id
          fieldValues(first: 50) {
            nodes {
              __typename
              ... on ProjectV2ItemFieldTextValue {
                text
                field { ... on ProjectV2FieldCommon { name } }
              }
              ... on ProjectV2ItemFieldSingleSelectValue {
                name
                optionId
                field { ... on ProjectV2FieldCommon { name } }
              }
              ... on ProjectV2ItemFieldDateValue {
                date
                field { ... on ProjectV2FieldCommon { name } }
              }
            }
          }
          content {
            __typename
            ... on Issue { id number title url state createdAt updatedAt }
            ... on PullRequest { id number title url state createdAt updatedAt }
            ... on DraftIssue { id title createdAt updatedAt }
          }
        }
      }
    }
  }
}`

	updateStatusMutation = `mutation($project: ID!, $item: ID!, $field: ID!, $option: String!) {
  updateProjectV2ItemFieldValue(input: {
    projectId: $project, itemId: $item, fieldId: $field,
    value: { singleSelectOptionId: $option }
  }) {
    projectV2Item { id }
  }
}`

	addItemMutation = `mutation($project: ID!, $content: ID!) {
  addProjectV2ItemById(input: { projectId: $project, contentId: $content }) {
    item { id }
  }
}`
)

type gqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type gqlError struct {
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors,omitempty"`
}

// Raw response shapes, decoded field-by-field into the Board/Item types.

type gqlProject struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Field struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Options []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"options"`
	} `json:"field"`
}

type gqlBoardData struct {
	Organization *struct {
		ProjectV2 *gqlProject `json:"projectV2"`
	} `json:"organization"`
	User *struct {
		ProjectV2 *gqlProject `json:"projectV2"`
	} `json:"user"`
}

type gqlFieldValue struct {
	Typename string `json:"__typename"`
	Text     string `json:"text"`
	Name     string `json:"name"`
	OptionID string `json:"optionId"`
	Date     string `json:"date"`
	Field    struct {
		Name string `json:"name"`
	} `json:"field"`
}

type gqlContent struct {
	Typename  string     `json:"__typename"`
	ID        string     `json:"id"`
	Number    int        `json:"number"`
	Title     string     `json:"title"`
	URL       string     `json:"url"`
	State     string     `json:"state"`
	CreatedAt *time.Time `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt"`
}

type gqlItemsData struct {
	Node *struct {
		Items struct {
			PageInfo struct {
				HasNextPage bool   `json:"hasNextPage"`
				EndCursor   string `json:"endCursor"`
			} `json:"pageInfo"`
			Nodes []struct {
				ID          string `json:"id"`
				FieldValues struct {
					Nodes []gqlFieldValue `json:"nodes"`
				} `json:"fieldValues"`
				Content *gqlContent `json:"content"`
			} `json:"nodes"`
		} `json:"items"`
	} `json:"node"`
}

type gqlMutationData struct {
	UpdateProjectV2ItemFieldValue *struct {
		ProjectV2Item struct {
			ID string `json:"id"`
		} `json:"projectV2Item"`
	} `json:"updateProjectV2ItemFieldValue"`
	AddProjectV2ItemByID *struct {
		Item struct {
			ID string `json:"id"`
		} `json:"item"`
	} `json:"addProjectV2ItemById"`
}

// doGraphQL performs a single GraphQL request and decodes the data
// envelope into out. Failures are returned as *ClientError so the retry
// wrapper can classify them.
func (c *Client) doGraphQL(ctx context.Context, op, query string, variables map[string]interface{}, out interface{}) error {
	body, err := json.Marshal(gqlRequest{Query: query, Variables: variables})
	if err != nil {
		return &ClientError{Op: op, Retryable: false, Err: fmt.Errorf("marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(body))
	if err != nil {
		return &ClientError{Op: op, Retryable: false, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		// Network-level failure: connection refused, timeout, DNS.
		return &ClientError{Op: op, Retryable: true, Err: err}
	}

	const maxResponseSize = 50 * 1024 * 1024
	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	_ = resp.Body.Close()
	if err != nil {
		return &ClientError{Op: op, Retryable: true, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &ClientError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Retryable:  isRetryableStatus(resp.StatusCode, resp.Header),
			Err:        fmt.Errorf("API error: %s", strings.TrimSpace(string(respBody))),
		}
	}

	var envelope gqlResponse
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return &ClientError{Op: op, StatusCode: resp.StatusCode, Retryable: false, Err: fmt.Errorf("parse response: %w", err)}
	}

	if len(envelope.Errors) > 0 {
		return &ClientError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Retryable:  isRateLimitError(envelope.Errors),
			Err:        fmt.Errorf("graphql: %s", envelope.Errors[0].Message),
		}
	}

	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return &ClientError{Op: op, StatusCode: resp.StatusCode, Retryable: false, Err: fmt.Errorf("decode data: %w", err)}
		}
	}
	return nil
}

// isRetryableStatus reports whether an HTTP status warrants a retry.
// Rate limiting (429, or 403 with an exhausted rate-limit header) and
// server errors are transient; other 4xx responses are not.
func isRetryableStatus(status int, headers http.Header) bool {
	switch {
	case status == http.StatusTooManyRequests:
		return true
	case status == http.StatusForbidden && headers.Get("X-RateLimit-Remaining") == "0":
		return true
	case status >= 500:
		return true
	default:
		return false
	}
}

// isRateLimitError reports whether a GraphQL error list signals rate
// limiting (GitHub returns these with HTTP 200).
func isRateLimitError(errs []gqlError) bool {
	for _, e := range errs {
		if e.Type == "RATE_LIMITED" {
			return true
		}
	}
	return false
}

func itemFromGQL(id string, fvs []gqlFieldValue, content *gqlContent) *Item {
	item := &Item{ID: id, Fields: make(map[string]FieldValue, len(fvs))}
	for _, fv := range fvs {
		if fv.Field.Name == "" {
			continue
		}
		switch fv.Typename {
		case "ProjectV2ItemFieldTextValue":
			item.Fields[fv.Field.Name] = FieldValue{Kind: FieldText, Text: fv.Text}
		case "ProjectV2ItemFieldSingleSelectValue":
			item.Fields[fv.Field.Name] = FieldValue{Kind: FieldSingleSelect, Name: fv.Name, OptionID: fv.OptionID}
		case "ProjectV2ItemFieldDateValue":
			item.Fields[fv.Field.Name] = FieldValue{Kind: FieldDate, Date: fv.Date}
		}
	}
	if content != nil && content.Typename != "" {
		item.Content = &Content{
			ID:        content.ID,
			Type:      content.Typename,
			Number:    content.Number,
			Title:     content.Title,
			URL:       content.URL,
			State:     content.State,
			CreatedAt: content.CreatedAt,
			UpdatedAt: content.UpdatedAt,
		}
	}
	return item
}
