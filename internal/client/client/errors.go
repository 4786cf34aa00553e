package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	// ErrUnavailable wraps transport failures: no response was received.
	ErrUnavailable = errors.New("api unavailable")
	// ErrMalformedResponse wraps a 2xx response whose body could not be decoded.
	ErrMalformedResponse = errors.New("malformed response")
)

// HTTPError represents a non-2xx HTTP response from the API.
type HTTPError struct {
	StatusCode int
	Message    string
	// Fields holds per-field validation messages, e.g. "username".
	Fields map[string][]string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsStatus returns true if err (or any wrapped error) is an HTTPError with the given status code.
func IsStatus(err error, code int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == code
	}
	return false
}

// AsHTTPError unwraps err into an *HTTPError.
func AsHTTPError(err error) (*HTTPError, bool) {
	var httpErr *HTTPError
	ok := errors.As(err, &httpErr)
	return httpErr, ok
}

// parseErrorBody builds an HTTPError from a response body. It understands
// {"detail": ...}, {"error": ...}, {"message": ...}, {"non_field_errors": [...]} and
// field-keyed message lists.
func parseErrorBody(status int, body []byte) *HTTPError {
	e := &HTTPError{StatusCode: status}

	var raw map[string]json.RawMessage
	if json.Unmarshal(body, &raw) != nil {
		e.Message = strings.TrimSpace(string(body))
		if e.Message == "" {
			e.Message = http.StatusText(status)
		}
		return e
	}

	for key, value := range raw {
		msgs := decodeMessages(value)
		if len(msgs) == 0 {
			continue
		}
		switch key {
		case "detail", "error", "message":
			if e.Message == "" {
				e.Message = msgs[0]
			}
		case "non_field_errors":
			e.Message = strings.Join(msgs, " ")
		default:
			if e.Fields == nil {
				e.Fields = make(map[string][]string)
			}
			e.Fields[key] = msgs
		}
	}

	if e.Message == "" && len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		e.Message = e.Fields[keys[0]][0]
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}

// decodeMessages accepts either a string or a list of strings.
func decodeMessages(v json.RawMessage) []string {
	var s string
	if json.Unmarshal(v, &s) == nil {
		if s == "" {
			return nil
		}
		return []string{s}
	}
	var list []string
	if json.Unmarshal(v, &list) == nil {
		return list
	}
	return nil
}
