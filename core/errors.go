package core

import (
	"errors"
	"fmt"
)

var (
	ErrNotValidHandshake  = errors.New("not a valid handshake state")
	ErrClientToSlow       = errors.New("client was to slow with sending its packets")
	ErrClientClosedConn   = errors.New("client closed the connection")
	ErrNoServerFound      = errors.New("could not find server")
	ErrUnsupportedVersion = errors.New("protocol version is not supported")
	ErrConnClosed         = errors.New("connection is closed")
	ErrStaleSession       = errors.New("session already left the limbo")
	ErrInvalidInput       = errors.New("invalid input")
	ErrBackendLogin       = errors.New("backend refused the login")
)

// InvalidInputError is returned when a caller hands the session something it
// cannot send, nothing has been written to the client when this is returned.
type InvalidInputError struct {
	Reason string
}

func NewInvalidInput(format string, a ...interface{}) *InvalidInputError {
	return &InvalidInputError{Reason: fmt.Sprintf(format, a...)}
}

func (err *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s", err.Reason)
}

func (err *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}
