package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const graphQLPath = "/graphql.json"

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code"`
	} `json:"extensions"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// graphQL posts a query and decodes its data object into out.
// Top-level errors become an APIError so the retry policy can classify them.
func (c *Client) graphQL(ctx context.Context, operation, query string, variables map[string]any, out any) error {
	var resp graphQLResponse
	if _, err := c.do(ctx, http.MethodPost, graphQLPath, nil, graphQLRequest{Query: query, Variables: variables}, &resp); err != nil {
		return err
	}

	if len(resp.Errors) > 0 {
		status := http.StatusBadRequest
		msgs := make([]string, 0, len(resp.Errors))
		for _, e := range resp.Errors {
			msgs = append(msgs, e.Message)
			switch e.Extensions.Code {
			case "THROTTLED":
				status = http.StatusTooManyRequests
			case "INTERNAL_SERVER_ERROR":
				if status != http.StatusTooManyRequests {
					status = http.StatusInternalServerError
				}
			}
		}
		return &APIError{Endpoint: operation, StatusCode: status, Message: strings.Join(msgs, "; ")}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("decode %s data: %w", operation, err)
	}
	return nil
}

// GID returns the global id of a resource, leaving ids that already are global untouched.
func GID(resource, id string) string {
	if strings.HasPrefix(id, "gid://") {
		return id
	}
	return "gid://shopify/" + resource + "/" + id
}
