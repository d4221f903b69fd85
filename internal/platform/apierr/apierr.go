package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// StatusNetwork is reported when no response was received at all.
const StatusNetwork = 0

const (
	fallbackMessage = "something went wrong, please try again"
	networkMessage  = "network error"
)

type Error struct {
	Status  int
	Code    string
	Message string
	Err     error
	// RetryAfter is the server's Retry-After hint on a 408/429/5xx, or zero.
	RetryAfter time.Duration
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPStatusCode lets httpx classify the error for retries.
func (e *Error) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.Status
}

func New(status int, code string, err error) *Error {
	e := &Error{Status: status, Code: code, Err: err}
	if err != nil {
		e.Message = err.Error()
	}
	return e
}

// Network wraps a transport failure (dial, TLS, timeout, reset) as a status-0 error.
func Network(err error) *Error {
	return &Error{Status: StatusNetwork, Code: "network_error", Message: networkMessage, Err: err}
}

// errorBody covers the shapes the education API uses for failures.
type errorBody struct {
	Message string          `json:"message"`
	Detail  string          `json:"detail"`
	Error   json.RawMessage `json:"error"`
	Code    string          `json:"code"`
}

// FromResponse builds an Error from a non-2xx response body. The server's
// message is surfaced verbatim when present; otherwise a generic fallback.
func FromResponse(status int, raw []byte) *Error {
	e := &Error{Status: status}
	var body errorBody
	if len(raw) > 0 && json.Unmarshal(raw, &body) == nil {
		e.Code = strings.TrimSpace(body.Code)
		switch {
		case strings.TrimSpace(body.Message) != "":
			e.Message = strings.TrimSpace(body.Message)
		case strings.TrimSpace(body.Detail) != "":
			e.Message = strings.TrimSpace(body.Detail)
		case len(body.Error) > 0:
			e.Message = nestedMessage(body.Error)
		}
	}
	if e.Message == "" {
		e.Message = fallbackMessage
		if text := http.StatusText(status); status >= 500 && text != "" {
			e.Message = fmt.Sprintf("%s (%s)", fallbackMessage, strings.ToLower(text))
		}
	}
	return e
}

func nestedMessage(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return strings.TrimSpace(s)
	}
	var obj struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &obj) == nil {
		return strings.TrimSpace(obj.Message)
	}
	return ""
}

// StatusOf returns the HTTP status carried by err, or -1 when err is not an *Error.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return -1
}

// RetryAfterOf returns the Retry-After hint carried by err, or zero.
func RetryAfterOf(err error) time.Duration {
	var e *Error
	if errors.As(err, &e) {
		return e.RetryAfter
	}
	return 0
}

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	return StatusOf(err) == http.StatusUnauthorized
}
