package radiosim

import (
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/moffa90/go-radiomem/channel"
	"github.com/moffa90/go-radiomem/codec"
	"github.com/moffa90/go-radiomem/protocol"
	"github.com/moffa90/go-radiomem/session"
)

var _ session.Port = (*Radio)(nil)

// Fault is a misbehaviour injected into one response.
type Fault int

const (
	// FaultNone answers normally
	FaultNone Fault = iota
	// FaultDrop sends no response
	FaultDrop
	// FaultCorrupt damages the response checksum
	FaultCorrupt
	// FaultPartial sends only the first half of the response
	FaultPartial
	// FaultNoise sends junk bytes before the response
	FaultNoise
	// FaultReject answers with a data error status without acting
	FaultReject
	// FaultBusy answers with the busy status without acting
	FaultBusy
)

func (f Fault) String() string {
	switch f {
	case FaultNone:
		return "none"
	case FaultDrop:
		return "drop"
	case FaultCorrupt:
		return "corrupt"
	case FaultPartial:
		return "partial"
	case FaultNoise:
		return "noise"
	case FaultReject:
		return "reject"
	case FaultBusy:
		return "busy"
	default:
		return fmt.Sprintf("Fault(%d)", int(f))
	}
}

// Logger receives a debug entry per request.
type Logger interface {
	Debugw(msg string, keysAndValues ...interface{})
}

// Radio simulates the memory-access firmware of a radio. It implements
// session.Port: frames written to it are answered on the read side.
//
// Radio is safe for concurrent use.
type Radio struct {
	mu       sync.Mutex
	layout   *codec.Layout
	codec    *codec.Codec
	identity protocol.Identity
	memory   []byte
	out      []byte
	ready    chan struct{}
	faults   []Fault
	faultAt  map[uint32][]Fault
	requests int
	writes   []uint32
	ended    bool
	logger   Logger
}

// Option configures a Radio.
type Option func(*Radio)

// WithIdentity sets the model ID and revision reported to Identify.
func WithIdentity(id protocol.Identity) Option {
	return func(r *Radio) {
		r.identity = id
	}
}

// WithLogger logs every request the radio answers.
func WithLogger(logger Logger) Option {
	return func(r *Radio) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates a radio with the given layout whose memory holds empty
// records in every slot. It identifies as the layout's first model.
func New(layout *codec.Layout, opts ...Option) *Radio {
	c := codec.MustNew(layout)

	r := &Radio{
		layout:   layout,
		codec:    c,
		identity: protocol.Identity{ModelID: layout.ModelIDs[0], Revision: 1},
		memory:   make([]byte, 0, layout.MemorySize()),
		ready:    make(chan struct{}, 1),
		faultAt:  make(map[uint32][]Fault),
		logger:   zap.NewNop().Sugar(),
	}
	for n := 1; n <= layout.Channels; n++ {
		b, err := c.Encode(channel.Empty(n))
		if err != nil {
			panic(err)
		}
		r.memory = append(r.memory, b...)
	}

	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Program stores records directly in the radio memory.
func (r *Radio) Program(records ...channel.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range records {
		if rec.Number < 1 || rec.Number > r.layout.Channels {
			return fmt.Errorf("channel %d is out of range", rec.Number)
		}
		b, err := r.codec.Encode(rec)
		if err != nil {
			return err
		}
		copy(r.memory[(rec.Number-1)*r.layout.RecordSize:], b)
	}
	return nil
}

// Memory returns a copy of the channel table memory.
func (r *Radio) Memory() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]byte(nil), r.memory...)
}

// Load replaces the channel table memory with raw bytes.
func (r *Radio) Load(mem []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(mem) != len(r.memory) {
		return fmt.Errorf("memory must be %d bytes, got %d", len(r.memory), len(mem))
	}
	copy(r.memory, mem)
	return nil
}

// Inject queues faults applied to the next responses, one per request.
func (r *Radio) Inject(faults ...Fault) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.faults = append(r.faults, faults...)
}

// InjectAt queues faults applied to the next block requests for addr.
func (r *Radio) InjectAt(addr uint32, faults ...Fault) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.faultAt[addr] = append(r.faultAt[addr], faults...)
}

// Requests returns the number of frames received.
func (r *Radio) Requests() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.requests
}

// WrittenBlocks returns the addresses of accepted Write Block requests in
// the order they were received.
func (r *Radio) WrittenBlocks() []uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]uint32(nil), r.writes...)
}

// Ended reports whether an End Session request was received.
func (r *Radio) Ended() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ended
}

// Write takes one complete command frame and queues the response.
func (r *Radio) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.requests++
	resp := r.handle(p)
	if len(resp) > 0 {
		r.out = append(r.out, resp...)
		select {
		case r.ready <- struct{}{}:
		default:
		}
	}
	return len(p), nil
}

// ReadTimeout returns pending response bytes, waiting up to timeout for
// some to arrive. It returns 0, nil on timeout.
func (r *Radio) ReadTimeout(p []byte, timeout time.Duration) (int, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		r.mu.Lock()
		if len(r.out) > 0 {
			n := copy(p, r.out)
			r.out = r.out[n:]
			r.mu.Unlock()
			return n, nil
		}
		r.mu.Unlock()

		select {
		case <-r.ready:
		case <-timer.C:
			return 0, nil
		}
	}
}

// Flush discards responses not read yet.
func (r *Radio) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.out = nil
	return nil
}

// handle answers one frame. Callers hold r.mu.
func (r *Radio) handle(frame []byte) []byte {
	cmd, data, err := protocol.ParseCommand(frame)
	if err != nil {
		r.logger.Debugw("radio: bad frame", "error", err)
		return r.respond(protocol.ErrChecksum, nil)
	}

	fault := r.nextFault(cmd, data)
	r.logger.Debugw("radio: request", "command", protocol.CommandName(cmd), "fault", fault.String())

	switch fault {
	case FaultReject:
		return r.respond(protocol.ErrData, nil)
	case FaultBusy:
		return r.respond(protocol.ErrBusy, nil)
	}

	var resp []byte
	switch cmd {
	case protocol.CmdIdentify:
		resp = r.respond(protocol.StatusSuccess, protocol.BuildIdentifyResponse(r.identity))
	case protocol.CmdReadBlock:
		resp = r.readBlock(data)
	case protocol.CmdWriteBlock:
		resp = r.writeBlock(data)
	case protocol.CmdEndSession:
		r.ended = true
		resp = r.respond(protocol.StatusSuccess, nil)
	default:
		resp = r.respond(protocol.ErrCommand, nil)
	}

	switch fault {
	case FaultDrop:
		return nil
	case FaultCorrupt:
		resp[len(resp)-2] ^= 0xFF
	case FaultPartial:
		resp = resp[:len(resp)/2]
	case FaultNoise:
		resp = append([]byte{0xFF, 0x00, 0x55}, resp...)
	}
	return resp
}

func (r *Radio) nextFault(cmd byte, data []byte) Fault {
	if cmd == protocol.CmdReadBlock || cmd == protocol.CmdWriteBlock {
		if len(data) >= protocol.AddressSize {
			addr := binary.LittleEndian.Uint32(data[:protocol.AddressSize])
			if q := r.faultAt[addr]; len(q) > 0 {
				r.faultAt[addr] = q[1:]
				return q[0]
			}
		}
	}
	if len(r.faults) > 0 {
		f := r.faults[0]
		r.faults = r.faults[1:]
		return f
	}
	return FaultNone
}

func (r *Radio) readBlock(data []byte) []byte {
	addr, size, err := protocol.ParseReadBlockCmd(data)
	if err != nil {
		return r.respond(protocol.ErrLength, nil)
	}
	off, status := r.locate(addr, int(size))
	if status != protocol.StatusSuccess {
		return r.respond(status, nil)
	}
	return r.respond(protocol.StatusSuccess, protocol.BuildReadBlockResponse(addr, r.memory[off:off+int(size)]))
}

func (r *Radio) writeBlock(data []byte) []byte {
	addr, block, err := protocol.ParseWriteBlockCmd(data)
	if err != nil {
		return r.respond(protocol.ErrLength, nil)
	}
	off, status := r.locate(addr, len(block))
	if status != protocol.StatusSuccess {
		return r.respond(status, nil)
	}

	idx, _ := r.layout.BlockIndex(addr)
	first := r.layout.FirstChannel(idx)
	for k := 0; k < r.layout.RecordsPerBlock; k++ {
		rec := block[k*r.layout.RecordSize : (k+1)*r.layout.RecordSize]
		if _, err := r.codec.Decode(first+k, rec); err != nil {
			r.logger.Debugw("radio: rejecting record", "channel", first+k, "error", err)
			return r.respond(protocol.ErrData, nil)
		}
	}

	copy(r.memory[off:], block)
	r.writes = append(r.writes, addr)
	return r.respond(protocol.StatusSuccess, nil)
}

// locate maps a block request to a memory offset.
func (r *Radio) locate(addr uint32, size int) (int, byte) {
	if size != r.layout.BlockSize() {
		return 0, protocol.ErrLength
	}
	idx, ok := r.layout.BlockIndex(addr)
	if !ok {
		return 0, protocol.ErrAddress
	}
	return idx * size, protocol.StatusSuccess
}

func (r *Radio) respond(status byte, data []byte) []byte {
	frame, err := protocol.BuildResponse(status, data)
	if err != nil {
		frame, _ = protocol.BuildResponse(protocol.ErrUnknown, nil)
	}
	return frame
}
