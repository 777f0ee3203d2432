// Package session runs the memory-access protocol with a radio.
//
// A Session owns one Port and walks through the states
//
//	Idle -> Negotiating -> Ready -> (Reading | Writing) -> Ready -> Closed
//
// with Faulted reachable from any state. Every request is a single frame
// followed by a single response; there is never more than one outstanding
// request.
//
// # Retries
//
// Each request is sent up to MaxAttempts times (default 3) when the response
// times out or is corrupt. The port is flushed before every attempt, so a
// late reply to an earlier request is never taken as the answer, and the
// identical frame is sent again. A negative status from the radio is not
// retried and fails with ErrRejected; the session stays ready.
//
// # Errors
//
// Exchange failures are *ProtocolError values wrapping one of ErrNoResponse,
// ErrUnexpectedIdentity, ErrTimeout, ErrCorruptResponse or ErrRejected, so
// callers can test them with errors.Is. Port failures are *TransportError and
// fault the session. Operations called in the wrong state fail with
// *StateError without touching the port.
//
// # Example
//
//	s := session.New(port, codec.Reference, session.WithLogger(logger))
//	if _, err := s.Open(ctx); err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	block, err := s.ReadBlock(ctx, codec.Reference.BlockAddress(0))
package session
