package session

import (
	"errors"
	"fmt"
)

// Protocol error kinds. A *ProtocolError wraps exactly one of them.
var (
	// ErrNoResponse means the radio never answered the identification request
	ErrNoResponse = errors.New("no response from radio")

	// ErrUnexpectedIdentity means the radio is not a model the layout supports
	ErrUnexpectedIdentity = errors.New("unexpected radio identity")

	// ErrTimeout means every attempt timed out
	ErrTimeout = errors.New("timed out waiting for response")

	// ErrCorruptResponse means the last attempt produced an invalid frame
	ErrCorruptResponse = errors.New("corrupt response")

	// ErrRejected means the radio answered with a non-success status
	ErrRejected = errors.New("request rejected by radio")
)

// ProtocolError describes a failed request/response exchange.
type ProtocolError struct {
	// Op is the operation, e.g. "read block"
	Op string

	// Address is the block address, zero for identification
	Address uint32

	// Attempts is the number of requests sent
	Attempts int

	// Status is the radio's status code for ErrRejected
	Status byte

	// Err is the error kind
	Err error

	// Cause is the last underlying failure, if any
	Cause error
}

func (e *ProtocolError) Error() string {
	msg := fmt.Sprintf("%s at 0x%04X: %v after %d attempt(s)", e.Op, e.Address, e.Err, e.Attempts)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// TransportError indicates that the port itself failed.
// The session is Faulted afterwards.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StateError indicates that an operation was attempted in the wrong state,
// including while another operation is in progress.
type StateError struct {
	Op    string
	State State
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s: session is %s", e.Op, e.State)
}

// AddressError indicates a block address that is unaligned or outside the
// layout's channel table.
type AddressError struct {
	Address uint32
	Reason  string
}

func (e *AddressError) Error() string {
	return fmt.Sprintf("invalid block address 0x%04X: %s", e.Address, e.Reason)
}
