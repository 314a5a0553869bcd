package words

import (
	"errors"
	"fmt"
)

const (
	KindBadRequest Kind = iota + 1
	KindInternal
)

const (
	internalErrorMessage  = "Internal server error"
	incorrectPairMessage  = "Received incorrect word pair"
	improperPageMessage   = "Improper page value"
	requiredFieldsMessage = "Source word and translation are required"
)

type (
	Kind int

	// Error is the only error type returned by Service.
	Error struct {
		Kind    Kind
		Message string
		Err     error
	}
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindInternal:
		return "internal"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func BadRequest(message string) *Error {
	return &Error{Kind: KindBadRequest, Message: message}
}

// Internal hides the cause behind a generic message; the cause stays reachable through errors.Unwrap.
func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Message: internalErrorMessage, Err: cause}
}

func IsBadRequest(err error) bool {
	return kindOf(err) == KindBadRequest
}

func IsInternal(err error) bool {
	return kindOf(err) == KindInternal
}

func kindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
