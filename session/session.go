package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/google/uuid"

	"github.com/moffa90/go-radiomem/codec"
	"github.com/moffa90/go-radiomem/protocol"
)

// Session drives the memory-access protocol with one radio over a Port.
//
// A Session is owned by one goroutine at a time. Operations check and move
// the session state with compare-and-swap, so a second concurrent caller
// fails with *StateError instead of interleaving frames on the port.
type Session struct {
	port     Port
	layout   *codec.Layout
	config   Config
	id       string
	state    atomic.Int32
	identity protocol.Identity
}

// New creates a new Session talking to port about memory organised by layout.
//
// Example:
//
//	s := session.New(port, codec.Reference,
//	    session.WithTimeout(time.Second),
//	    session.WithLogger(logger.Sugar()),
//	)
//	if _, err := s.Open(ctx); err != nil { ... }
//	defer s.Close()
func New(port Port, layout *codec.Layout, opts ...Option) *Session {
	if port == nil {
		panic("port cannot be nil")
	}
	if layout == nil {
		panic("layout cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Session{
		port:   port,
		layout: layout,
		config: cfg,
		id:     uuid.New().String(),
	}
}

// ID returns the session identifier used in log entries.
func (s *Session) ID() string {
	return s.id
}

// Layout returns the memory layout the session was created for.
func (s *Session) Layout() *codec.Layout {
	return s.layout
}

// State returns the current session state.
func (s *Session) State() State {
	return State(s.state.Load())
}

// Identity returns the identification reported by the radio during Open.
func (s *Session) Identity() protocol.Identity {
	return s.identity
}

// Logger returns the configured logger.
func (s *Session) Logger() Logger {
	return s.config.Logger
}

func (s *Session) transition(from, to State) bool {
	return s.state.CompareAndSwap(int32(from), int32(to))
}

func (s *Session) enter(op string, from, to State) error {
	if !s.transition(from, to) {
		return &StateError{Op: op, State: s.State()}
	}
	return nil
}

// settle leaves the busy state after an exchange. Rejections and
// cancellations keep the session usable, everything else faults it.
func (s *Session) settle(busy State, err error) {
	to := StateReady
	if err != nil && !recoverable(err) {
		to = StateFaulted
	}
	s.transition(busy, to)
}

func recoverable(err error) bool {
	return errors.Is(err, ErrRejected) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// Open identifies the radio and checks that it uses the session's layout.
//
// It fails with ErrNoResponse if the radio never answers and with
// ErrUnexpectedIdentity if it reports a model the layout does not list.
func (s *Session) Open(ctx context.Context) (*protocol.Identity, error) {
	const op = "identify"
	if err := s.enter(op, StateIdle, StateNegotiating); err != nil {
		return nil, err
	}

	cmd, err := protocol.BuildIdentifyCmd()
	if err != nil {
		s.transition(StateNegotiating, StateFaulted)
		return nil, err
	}

	var id *protocol.Identity
	err = s.exchange(ctx, op, 0, cmd, func(data []byte) error {
		parsed, err := protocol.ParseIdentifyResponse(data)
		if err != nil {
			return err
		}
		id = parsed
		return nil
	})
	if err != nil {
		var pe *ProtocolError
		if errors.As(err, &pe) && pe.Err == ErrTimeout {
			pe.Err = ErrNoResponse
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			s.transition(StateNegotiating, StateIdle)
		} else {
			s.transition(StateNegotiating, StateFaulted)
		}
		s.config.Logger.Errorw("radio identification failed", "session", s.id, "error", err)
		return nil, err
	}

	if !s.layout.SupportsModel(id.ModelID) {
		s.transition(StateNegotiating, StateFaulted)
		return nil, &ProtocolError{
			Op:       op,
			Attempts: 1,
			Err:      ErrUnexpectedIdentity,
			Cause:    fmt.Errorf("radio reports %v, layout %s expects %s", id, s.layout.Name, modelList(s.layout.ModelIDs)),
		}
	}

	s.identity = *id
	s.transition(StateNegotiating, StateReady)

	s.config.Logger.Infow("radio identified",
		"session", s.id,
		"model", fmt.Sprintf("0x%04X", id.ModelID),
		"revision", id.Revision,
		"layout", s.layout.Name,
	)

	return id, nil
}

// ReadBlock reads the block at addr. The address must be a block address
// inside the layout's channel table.
func (s *Session) ReadBlock(ctx context.Context, addr uint32) ([]byte, error) {
	const op = "read block"
	if err := s.enter(op, StateReady, StateReading); err != nil {
		return nil, err
	}

	if err := s.checkAddress(addr); err != nil {
		s.transition(StateReading, StateReady)
		return nil, err
	}

	size := s.layout.BlockSize()
	cmd, err := protocol.BuildReadBlockCmd(addr, uint16(size))
	if err != nil {
		s.transition(StateReading, StateReady)
		return nil, err
	}

	var block []byte
	err = s.exchange(ctx, op, addr, cmd, func(data []byte) error {
		payload, err := protocol.ParseReadBlockResponse(data, addr, size)
		if err != nil {
			return err
		}
		block = append([]byte(nil), payload...)
		return nil
	})
	s.settle(StateReading, err)
	if err != nil {
		return nil, err
	}

	s.config.Logger.Debugw("block read", "session", s.id, "address", fmt.Sprintf("0x%04X", addr), "bytes", len(block))
	return block, nil
}

// WriteBlock writes one block at addr. A rejection by the radio fails with
// ErrRejected and is not retried; the session stays ready.
func (s *Session) WriteBlock(ctx context.Context, addr uint32, data []byte) error {
	const op = "write block"
	if err := s.enter(op, StateReady, StateWriting); err != nil {
		return err
	}

	if err := s.checkAddress(addr); err != nil {
		s.transition(StateWriting, StateReady)
		return err
	}
	if len(data) != s.layout.BlockSize() {
		s.transition(StateWriting, StateReady)
		return fmt.Errorf("block at 0x%04X must be %d bytes, got %d", addr, s.layout.BlockSize(), len(data))
	}

	cmd, err := protocol.BuildWriteBlockCmd(addr, data)
	if err != nil {
		s.transition(StateWriting, StateReady)
		return err
	}

	err = s.exchange(ctx, op, addr, cmd, func(resp []byte) error {
		if len(resp) != 0 {
			return fmt.Errorf("unexpected %d data bytes in Write Block response", len(resp))
		}
		return nil
	})
	s.settle(StateWriting, err)
	if err != nil {
		return err
	}

	s.config.Logger.Debugw("block written", "session", s.id, "address", fmt.Sprintf("0x%04X", addr), "bytes", len(data))
	return nil
}

// Close ends the session. If the radio was identified, a single End Session
// request is sent and its outcome only logged. The session is Closed
// afterwards whatever happens; only a port failure is returned.
func (s *Session) Close() error {
	prev := State(s.state.Swap(int32(StateClosed)))
	if prev != StateReady && prev != StateFaulted {
		return nil
	}

	cmd, err := protocol.BuildEndSessionCmd()
	if err != nil {
		return err
	}

	const op = "end session"
	if err := s.port.Flush(); err != nil {
		s.config.Logger.Warnw("end session not sent", "session", s.id, "error", err)
		return &TransportError{Op: op, Err: fmt.Errorf("flush: %w", err)}
	}
	if _, err := s.port.Write(cmd); err != nil {
		s.config.Logger.Warnw("end session not sent", "session", s.id, "error", err)
		return &TransportError{Op: op, Err: err}
	}

	frame, err := s.readFrame(op)
	if err == nil {
		var status byte
		status, _, err = protocol.ParseResponse(frame)
		if err == nil && status != protocol.StatusSuccess {
			err = &protocol.StatusError{Operation: op, StatusCode: status}
		}
	}
	if err != nil {
		s.config.Logger.Warnw("end session not acknowledged", "session", s.id, "error", err)
		var te *TransportError
		if errors.As(err, &te) {
			return te
		}
		return nil
	}

	s.config.Logger.Debugw("session closed", "session", s.id)
	return nil
}

func (s *Session) checkAddress(addr uint32) error {
	if _, ok := s.layout.BlockIndex(addr); ok {
		return nil
	}

	start := s.layout.BaseAddress
	end := start + uint32(s.layout.MemorySize())
	if addr < start || addr >= end {
		return &AddressError{
			Address: addr,
			Reason:  fmt.Sprintf("outside the channel table 0x%04X-0x%04X", start, end-1),
		}
	}
	return &AddressError{
		Address: addr,
		Reason:  fmt.Sprintf("not aligned to %d-byte blocks from 0x%04X", s.layout.BlockSize(), start),
	}
}

// attemptError is a failed attempt that may be retried.
type attemptError struct {
	kind  error
	cause error
}

func (e *attemptError) Error() string {
	return fmt.Sprintf("%v: %v", e.kind, e.cause)
}

// exchange sends cmd and waits for a success response whose data accept
// takes, retrying timeouts and corrupt responses up to MaxAttempts times.
// Every attempt flushes the port and then sends the identical frame.
func (s *Session) exchange(ctx context.Context, op string, addr uint32, cmd []byte, accept func(data []byte) error) error {
	attempts := 0

	operation := func() error {
		if err := ctx.Err(); err != nil {
			return backoff.Permanent(err)
		}

		// Late replies to earlier requests must not answer this one.
		if err := s.port.Flush(); err != nil {
			return backoff.Permanent(&TransportError{Op: op, Err: fmt.Errorf("flush: %w", err)})
		}

		attempts++
		if _, err := s.port.Write(cmd); err != nil {
			return backoff.Permanent(&TransportError{Op: op, Err: fmt.Errorf("write command: %w", err)})
		}

		frame, err := s.readFrame(op)
		if err != nil {
			if _, ok := err.(*attemptError); ok {
				return err
			}
			return backoff.Permanent(err)
		}

		status, data, err := protocol.ParseResponse(frame)
		if err != nil {
			return &attemptError{kind: ErrCorruptResponse, cause: err}
		}
		if status != protocol.StatusSuccess {
			return backoff.Permanent(&ProtocolError{
				Op:       op,
				Address:  addr,
				Attempts: attempts,
				Status:   status,
				Err:      ErrRejected,
				Cause:    &protocol.StatusError{Operation: op, StatusCode: status},
			})
		}
		if err := accept(data); err != nil {
			return &attemptError{kind: ErrCorruptResponse, cause: err}
		}
		return nil
	}

	var policy backoff.BackOff = &backoff.ZeroBackOff{}
	if s.config.RetryDelay > 0 {
		policy = backoff.NewConstantBackOff(s.config.RetryDelay)
	}
	policy = backoff.WithMaxRetries(policy, uint64(s.config.MaxAttempts-1))

	err := backoff.RetryNotify(operation, policy, func(err error, next time.Duration) {
		s.config.Logger.Warnw("retrying request",
			"session", s.id,
			"op", op,
			"address", fmt.Sprintf("0x%04X", addr),
			"attempt", attempts,
			"error", err,
		)
	})
	if err == nil {
		return nil
	}

	switch e := err.(type) {
	case *attemptError:
		return &ProtocolError{Op: op, Address: addr, Attempts: attempts, Err: e.kind, Cause: e.cause}
	case *ProtocolError, *TransportError:
		return err
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// readFrame reads one complete frame, skipping noise before the start
// marker. A frame that does not complete within the timeout is discarded
// and reported as a timed out attempt.
func (s *Session) readFrame(op string) ([]byte, error) {
	timeout := s.config.Timeout
	deadline := time.Now().Add(timeout)
	buf := make([]byte, 0, protocol.DefaultResponseBufferSize)
	chunk := make([]byte, protocol.DefaultResponseBufferSize)
	skipped := 0

	for {
		if i := bytes.IndexByte(buf, protocol.StartOfPacket); i != 0 {
			if i < 0 {
				i = len(buf)
			}
			skipped += i
			buf = buf[i:]
		}

		if len(buf) >= protocol.HeaderSize {
			size, err := protocol.FrameLength(buf)
			if err != nil {
				return nil, &attemptError{kind: ErrCorruptResponse, cause: err}
			}
			if len(buf) >= size {
				if skipped > 0 {
					s.config.Logger.Debugw("skipped noise before frame", "session", s.id, "bytes", skipped)
				}
				return buf[:size], nil
			}
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			cause := fmt.Errorf("no response within %s", timeout)
			if len(buf) > 0 {
				cause = fmt.Errorf("partial frame of %d bytes discarded after %s", len(buf), timeout)
			}
			return nil, &attemptError{kind: ErrTimeout, cause: cause}
		}

		n, err := s.port.ReadTimeout(chunk, remaining)
		if err != nil {
			return nil, &TransportError{Op: op, Err: fmt.Errorf("read response: %w", err)}
		}
		buf = append(buf, chunk[:n]...)
	}
}

func modelList(ids []uint16) string {
	var b bytes.Buffer
	for i, id := range ids {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "0x%04X", id)
	}
	return b.String()
}
