package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a remote store failure for uniform caller handling.
type ErrorKind string

const (
	KindAuth       ErrorKind = "auth"
	KindNotFound   ErrorKind = "not_found"
	KindConflict   ErrorKind = "conflict"
	KindValidation ErrorKind = "validation"
	KindServer     ErrorKind = "server"
	KindNetwork    ErrorKind = "network"
)

// ConflictReason narrows a 409 response into an actionable sub-reason.
type ConflictReason string

const (
	ConflictForeignKey ConflictReason = "foreign_key"
	ConflictUnique     ConflictReason = "unique"
	ConflictConstraint ConflictReason = "constraint"
)

// APIError is the typed error surfaced by the data access layer. Message is
// always the best-available human-readable detail, never blank.
type APIError struct {
	Kind     ErrorKind
	Status   int
	Message  string
	Conflict ConflictReason
}

func (e *APIError) Error() string {
	if e.Kind == KindConflict && e.Conflict != "" {
		return fmt.Sprintf("%s (%s): %s", e.Kind, e.Conflict, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// SessionExpired is returned when the one-refresh-then-retry budget is spent.
func SessionExpired() *APIError {
	return &APIError{
		Kind:    KindAuth,
		Status:  401,
		Message: "session expired, please sign in again",
	}
}

// NetworkError wraps a transport failure that survived the retry budget.
func NetworkError(err error) *APIError {
	msg := "network unavailable"
	if err != nil {
		msg = err.Error()
	}
	return &APIError{Kind: KindNetwork, Message: msg}
}

// IsKind reports whether err is an APIError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

func IsAuth(err error) bool       { return IsKind(err, KindAuth) }
func IsNotFound(err error) bool   { return IsKind(err, KindNotFound) }
func IsConflict(err error) bool   { return IsKind(err, KindConflict) }
func IsValidation(err error) bool { return IsKind(err, KindValidation) }
func IsNetwork(err error) bool    { return IsKind(err, KindNetwork) }

// Classify maps a non-2xx response onto the error taxonomy.
func Classify(status int, body []byte) *APIError {
	msg := extractMessage(body)
	apiErr := &APIError{Status: status, Message: msg}

	switch {
	case status == 401 || status == 403:
		apiErr.Kind = KindAuth
	case status == 404:
		apiErr.Kind = KindNotFound
	case status == 409:
		apiErr.Kind = KindConflict
		apiErr.Conflict = classifyConflict(msg)
	case status == 400 || status == 422:
		apiErr.Kind = KindValidation
	default:
		apiErr.Kind = KindServer
	}
	return apiErr
}

// classifyConflict inspects the 409 detail text for foreign-key vs
// uniqueness vs generic constraint violations.
func classifyConflict(msg string) ConflictReason {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "foreign key"):
		return ConflictForeignKey
	case strings.Contains(lower, "unique") || strings.Contains(lower, "duplicate"):
		return ConflictUnique
	default:
		return ConflictConstraint
	}
}

// extractMessage digs the most useful detail string out of an error body.
func extractMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, candidate := range []string{payload.Message, payload.Error, payload.Details} {
			if candidate != "" {
				return candidate
			}
		}
	}
	if trimmed := strings.TrimSpace(string(body)); trimmed != "" {
		return trimmed
	}
	return "request failed"
}
