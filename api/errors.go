package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed backend call.
type Kind int

const (
	KindUnknown Kind = iota
	KindNetwork
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindValidation
	KindRateLimited
	KindServer
)

// Sentinels for errors.Is against an *Error.
var (
	ErrNetwork      = errors.New("network error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrRateLimited  = errors.New("too many requests")
	ErrServer       = errors.New("server error")
)

var kindSentinels = map[Kind]error{
	KindNetwork:      ErrNetwork,
	KindUnauthorized: ErrUnauthorized,
	KindForbidden:    ErrForbidden,
	KindNotFound:     ErrNotFound,
	KindValidation:   ErrValidation,
	KindRateLimited:  ErrRateLimited,
	KindServer:       ErrServer,
}

const fallbackErrorMessage = "An error occurred"

// Error is returned for every failed backend call, after the gateway has
// already notified the user.
type Error struct {
	Kind       Kind                `json:"-"`
	StatusCode int                 `json:"statusCode"`
	Message    string              `json:"message"`
	Errors     map[string][]string `json:"errors,omitempty"`
	Detail     string              `json:"error,omitempty"`

	// backendMessage is the message the backend supplied, empty when the
	// body did not parse or had none.
	backendMessage string
	cause          error
}

func (e *Error) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("api: %s", e.Message)
	}
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches the kind sentinels.
func (e *Error) Is(target error) bool {
	s, ok := kindSentinels[e.Kind]
	return ok && s == target
}

// BackendMessage returns the message supplied by the backend, if any.
func (e *Error) BackendMessage() string {
	return e.backendMessage
}

// KindForStatus maps an HTTP status to a Kind. Status 0 means no response.
func KindForStatus(status int) Kind {
	switch status {
	case 0:
		return KindNetwork
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusUnprocessableEntity:
		return KindValidation
	case http.StatusTooManyRequests:
		return KindRateLimited
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return KindServer
	default:
		return KindUnknown
	}
}

func networkError(cause error) *Error {
	return &Error{
		Kind:    KindNetwork,
		Message: "Network error",
		cause:   cause,
	}
}

// parseError builds the error for a non-2xx response. A body that is not a
// JSON object gets the fallback message.
func parseError(status int, body []byte) *Error {
	apiErr := &Error{Kind: KindForStatus(status)}

	var parsed Error
	if len(body) > 0 && json.Unmarshal(body, &parsed) == nil {
		apiErr.Message = parsed.Message
		apiErr.Errors = parsed.Errors
		apiErr.Detail = parsed.Detail
		apiErr.backendMessage = parsed.Message
	}
	if apiErr.Message == "" {
		apiErr.Message = fallbackErrorMessage
	}
	// the transport status wins over any statusCode echoed in the body
	apiErr.StatusCode = status
	return apiErr
}
