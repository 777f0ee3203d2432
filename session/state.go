package session

import "fmt"

// State is the lifecycle state of a Session.
type State int32

// Session states.
//
//	Idle -> Negotiating -> Ready -> (Reading | Writing) -> Ready -> Closed
//
// Faulted is entered from any state on an unrecoverable error.
const (
	StateIdle State = iota
	StateNegotiating
	StateReady
	StateReading
	StateWriting
	StateClosed
	StateFaulted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateNegotiating:
		return "negotiating"
	case StateReady:
		return "ready"
	case StateReading:
		return "reading"
	case StateWriting:
		return "writing"
	case StateClosed:
		return "closed"
	case StateFaulted:
		return "faulted"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}
