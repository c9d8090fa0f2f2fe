package authclient

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized is returned by the gateway on any 401. By the time
	// the caller sees it, the forced-logout transition has already run.
	ErrUnauthorized = errors.New("unauthorized")

	errNoStorage = errors.New("no storage medium available")
)

// APIError is a non-2xx HTTP response other than 401. Message carries
// the backend's message field when one was present.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
}

// NetworkError is a transport-level failure: the request never produced
// an HTTP response at all. UIs show "offline" messaging for these.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ErrorKind classifies auth operation failures for display purposes.
type ErrorKind int

const (
	KindValidation ErrorKind = iota
	KindCredentials
	KindAccountLocked
	KindConflict
	KindNetwork
	KindServer
)

// AuthError is the failure shape of every session operation. Message is
// safe to show to a user verbatim; backend internals never leak into it.
type AuthError struct {
	Kind    ErrorKind
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

func validationError(message string) *AuthError {
	return &AuthError{Kind: KindValidation, Message: message}
}

// mapRequestError translates gateway failures into user-facing auth
// errors. statusMessages overrides the default text per HTTP status.
func mapRequestError(err error, statusMessages map[int]string) *AuthError {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return &AuthError{Kind: KindNetwork, Message: "Unable to reach the server. Check your connection."}
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if msg, ok := statusMessages[apiErr.Status]; ok {
			return &AuthError{Kind: kindForStatus(apiErr.Status), Message: msg}
		}
	}
	if errors.Is(err, ErrUnauthorized) {
		if msg, ok := statusMessages[401]; ok {
			return &AuthError{Kind: KindCredentials, Message: msg}
		}
	}

	return &AuthError{Kind: KindServer, Message: "Something went wrong. Please try again."}
}

func kindForStatus(status int) ErrorKind {
	switch status {
	case 401:
		return KindCredentials
	case 423:
		return KindAccountLocked
	case 409:
		return KindConflict
	case 422:
		return KindValidation
	default:
		return KindServer
	}
}
