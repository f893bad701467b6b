package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"marketplace/client/internal/apperr"
)

const maxErrorBody = 64 * 1024

// classify turns a non-2xx response into an *apperr.Error carrying the
// server's own message for display.
func classify(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	message := serverMessage(body)
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	e := &apperr.Error{Op: op, Status: resp.StatusCode, Message: message}
	authOp := strings.HasPrefix(op, "auth.")

	switch {
	case authOp && resp.StatusCode < 500 && resp.StatusCode != http.StatusNotFound:
		e.Kind = apperr.KindAuth
		e.Err = apperr.ErrUnauthorized
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		e.Kind = apperr.KindAuth
		e.Err = apperr.ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		e.Kind = apperr.KindNotFound
		e.Err = apperr.ErrNotFound
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		e.Kind = apperr.KindValidation
	default:
		e.Kind = apperr.KindServer
	}
	return e
}

// serverMessage pulls the human-readable text out of the error bodies the
// services produce: {"message": ...}, {"error": ...}, or plain text.
func serverMessage(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(trimmed), &payload); err == nil {
		for _, key := range []string{"message", "error", "detail"} {
			if s, ok := payload[key].(string); ok && s != "" {
				return s
			}
		}
		return trimmed
	}

	var quoted string
	if err := json.Unmarshal([]byte(trimmed), &quoted); err == nil {
		return quoted
	}
	return trimmed
}
