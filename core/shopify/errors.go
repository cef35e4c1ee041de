package shopify

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrRateLimited matches API errors caused by throttling.
	ErrRateLimited = errors.New("shopify rate limit exceeded")
	// ErrUnavailable matches API errors caused by a server-side failure.
	ErrUnavailable = errors.New("shopify unavailable")
)

// APIError is a non-success response from the Admin API. GraphQL throttling
// is reported with StatusCode 429 even though the HTTP status was 200.
type APIError struct {
	Endpoint   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("shopify %s: status %d: %s", e.Endpoint, e.StatusCode, e.Message)
}

// Is maps the status code onto ErrRateLimited and ErrUnavailable.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrRateLimited:
		return e.StatusCode == http.StatusTooManyRequests
	case ErrUnavailable:
		return e.StatusCode >= http.StatusInternalServerError
	}
	return false
}

// Retryable reports whether resubmitting the same request can succeed.
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// UserError is one validation problem reported by a mutation.
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

// UserErrors is returned when a mutation was accepted by the transport but rejected by the shop.
type UserErrors struct {
	Operation string
	Errors    []UserError
}

func (e *UserErrors) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, ue := range e.Errors {
		if len(ue.Field) > 0 {
			msgs = append(msgs, strings.Join(ue.Field, ".")+": "+ue.Message)
			continue
		}
		msgs = append(msgs, ue.Message)
	}
	return fmt.Sprintf("shopify %s rejected: %s", e.Operation, strings.Join(msgs, "; "))
}

// Retryable is always false: the same input will be rejected again.
func (e *UserErrors) Retryable() bool { return false }
