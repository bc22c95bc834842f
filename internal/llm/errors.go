package llm

import (
	"fmt"
)

// Kind tells why a completion failed
type Kind int

const (
	KindService Kind = iota
	KindAuth
	KindQuota
	KindResponse
)

func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "AuthenticationError"
	case KindQuota:
		return "QuotaError"
	case KindResponse:
		return "ResponseError"
	default:
		return "ServiceError"
	}
}

// Error is returned by every generator in this package
type Error struct {
	Kind     Kind
	Provider string
	Message  string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s (%s): %v", e.Provider, e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s %s: %s", e.Provider, e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new Error
func NewError(kind Kind, provider, message string, err error) *Error {
	return &Error{
		Kind:     kind,
		Provider: provider,
		Message:  message,
		Err:      err,
	}
}
