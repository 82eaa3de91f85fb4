package inventory

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSession is returned without a request when there is no token.
	ErrNoSession = errors.New("no session, please log in again")
	// ErrUnauthorized is returned when the API rejects the token.
	ErrUnauthorized = errors.New("session rejected by inventory API, please log in again")
)

// StatusError is a non-2xx response from the inventory API.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("inventory API error: %d %s", e.Code, e.Message)
}

// TransportError means the request never produced a response.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("inventory API %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError means a response body matched none of the known shapes.
type DecodeError struct {
	What string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("unrecognized %s response shape", e.What)
	}
	return fmt.Sprintf("unrecognized %s response shape: %v", e.What, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
