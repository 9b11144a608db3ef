package apiclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrTransport = errors.New("backend unreachable")
	ErrDecode    = errors.New("unexpected backend response")
)

type FieldError struct {
	Field    string   `json:"field"`
	Messages []string `json:"messages"`
}

// Error is a response the backend answered with a failure, either a non-2xx
// status or a 2xx body carrying success=false.
type Error struct {
	Status  int
	Message string
	Fields  []FieldError
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend status %d", e.Status)
}

// FirstFieldMessage is the first message of the first field, in the order the
// backend listed them.
func (e *Error) FirstFieldMessage() string {
	for _, f := range e.Fields {
		if len(f.Messages) > 0 {
			return f.Messages[0]
		}
		return ""
	}
	return ""
}

// UserMessage picks the text shown to the user for a failed call.
func UserMessage(err error, fallback string) string {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return fallback
	}
	if apiErr.Status == http.StatusUnprocessableEntity {
		if msg := apiErr.FirstFieldMessage(); msg != "" {
			return msg
		}
	}
	if apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

func IsStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == status
}

type errorBody struct {
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Errors  json.RawMessage `json:"errors"`
}

func decodeError(status int, body []byte) *Error {
	out := &Error{Status: status}
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return out
	}
	out.Message = eb.Message
	if out.Message == "" {
		out.Message = eb.Error
	}
	out.Fields = parseFieldErrors(eb.Errors)
	return out
}

// parseFieldErrors walks the errors object token by token so field order
// survives.
func parseFieldErrors(raw json.RawMessage) []FieldError {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil
	}

	var out []FieldError
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return out
		}
		key, ok := keyTok.(string)
		if !ok {
			return out
		}
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return out
		}
		var msgs []string
		if err := json.Unmarshal(v, &msgs); err != nil {
			var s string
			if json.Unmarshal(v, &s) == nil {
				msgs = []string{s}
			}
		}
		out = append(out, FieldError{Field: key, Messages: msgs})
	}
	return out
}
