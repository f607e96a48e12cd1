package evegateway

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when ESI answers 404.
var ErrNotFound = errors.New("esi: not found")

// ErrTokenNotFound is returned by a TokenStore that has no token for a character.
var ErrTokenNotFound = errors.New("esi: no token for character")

// StatusError is an unexpected non-2xx response.
type StatusError struct {
	StatusCode int
	Endpoint   string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("ESI returned status %d for %s: %s", e.StatusCode, e.Endpoint, e.Body)
	}
	return fmt.Sprintf("ESI returned status %d for %s", e.StatusCode, e.Endpoint)
}

// Unwrap lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *StatusError) Unwrap() error {
	if e.StatusCode == 404 {
		return ErrNotFound
	}
	return nil
}

// ScopeError means the character has not granted the scope an endpoint needs,
// or the upstream refused the call for authorization reasons.
type ScopeError struct {
	CharacterID int32
	Scope       string
	Reason      string
}

func (e *ScopeError) Error() string {
	msg := fmt.Sprintf("character %d is missing scope %s", e.CharacterID, e.Scope)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// AsScopeError unwraps err into a *ScopeError when possible.
func AsScopeError(err error) (*ScopeError, bool) {
	var se *ScopeError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
