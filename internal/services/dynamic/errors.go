package dynamic

import (
	"errors"
	"fmt"
)

// Token problems. None of them stop expansion.
var (
	ErrTooManyValues = errors.New("too many values")
	ErrInvalidRange  = errors.New("invalid range")
	ErrNonInteger    = errors.New("non-integer")
	ErrTooFewValues  = errors.New("too few values")
)

// TokenError reports one malformed token along with the line it came from
type TokenError struct {
	Kind  error
	Token string

	// Line is the unexpanded text the token was found in
	Line string
}

// Error implements error
func (e *TokenError) Error() string {
	return fmt.Sprintf("dynamic category contains %s %s in line %q", e.Kind, e.Token, e.Line)
}

// Unwrap returns the kind so errors.Is matches the sentinels above
func (e *TokenError) Unwrap() error {
	return e.Kind
}

// Hint returns the expected token format for the error kind
func (e *TokenError) Hint() string {
	switch e.Kind {
	case ErrNonInteger:
		return "Only integers are supported."
	case ErrTooFewValues:
		return "Expected format: CHOOSE[term1|term2|term3...] with at least two terms."
	default:
		return "Expected format: NUMBER[min,max]"
	}
}
