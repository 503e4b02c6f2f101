package leagueapi

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthenticationRequired means there is no usable session; the caller
	// must prompt for a login.
	ErrAuthenticationRequired = errors.New("authentication required")

	// ErrSessionExpired means the refresh token was rejected (or the refresh
	// could not complete). Local session state has already been cleared.
	ErrSessionExpired = errors.New("session expired, please login again")
)

// HTTPError is any non-2xx response not handled by the refresh flow.
// Message is the body's "detail" field when present, else "HTTP <status>".
type HTTPError struct {
	Status  int
	Message string
	Body    []byte
}

func (e *HTTPError) Error() string {
	return e.Message
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.Status
	}
	return 0
}

// NetworkError is a transport-level failure (DNS, refused connection,
// timeout, cancellation). The cause is available through errors.Unwrap.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("leagueapi: %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// DecodeError is returned when a 2xx body is not the JSON the caller expected.
type DecodeError struct {
	Status int
	Body   []byte
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("leagueapi: decode %d response: %v", e.Status, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
