package port

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/jacobsa/go-serial/serial"

	"github.com/moffa90/go-radiomem/session"
)

var _ session.Port = (*Serial)(nil)

// DefaultBaudRate is the CAT port speed radios ship with.
const DefaultBaudRate = 38400

// SerialConfig holds the serial line settings.
type SerialConfig struct {
	// BaudRate is the line speed
	BaudRate uint

	// InterCharacterTimeout ends a read once the line has been quiet for
	// this many milliseconds after the first byte
	InterCharacterTimeout uint
}

// SerialOption is a functional option for OpenSerial.
type SerialOption func(*SerialConfig)

// WithBaudRate sets the line speed.
func WithBaudRate(baud uint) SerialOption {
	return func(c *SerialConfig) {
		if baud > 0 {
			c.BaudRate = baud
		}
	}
}

// Serial is a serial device used as a session.Port. A background goroutine
// reads the device so ReadTimeout can honour arbitrary timeouts.
type Serial struct {
	rwc     io.ReadWriteCloser
	data    chan []byte
	done    chan struct{}
	err     error // set before data is closed
	pending []byte
	once    sync.Once
}

// OpenSerial opens the named serial device at 8N1.
//
// Example:
//
//	p, err := port.OpenSerial("/dev/ttyUSB0", port.WithBaudRate(38400))
//	if err != nil { ... }
//	defer p.Close()
//	s := session.New(p, codec.Reference)
func OpenSerial(name string, opts ...SerialOption) (*Serial, error) {
	cfg := SerialConfig{
		BaudRate:              DefaultBaudRate,
		InterCharacterTimeout: 100,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	rwc, err := serial.Open(serial.OpenOptions{
		PortName:              name,
		BaudRate:              cfg.BaudRate,
		DataBits:              8,
		StopBits:              1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: cfg.InterCharacterTimeout,
		MinimumReadSize:       1,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}

	return NewSerial(rwc), nil
}

// NewSerial wraps an already open byte stream.
func NewSerial(rwc io.ReadWriteCloser) *Serial {
	s := &Serial{
		rwc:  rwc,
		data: make(chan []byte, 16),
		done: make(chan struct{}),
	}
	go s.readLoop()
	return s
}

func (s *Serial) readLoop() {
	defer close(s.data)

	buf := make([]byte, 256)
	for {
		n, err := s.rwc.Read(buf)
		if n > 0 {
			chunk := append([]byte(nil), buf[:n]...)
			select {
			case s.data <- chunk:
			case <-s.done:
				return
			}
		}
		if err != nil {
			s.err = err
			return
		}
	}
}

// Write sends p to the device.
func (s *Serial) Write(p []byte) (int, error) {
	return s.rwc.Write(p)
}

// ReadTimeout returns received bytes, waiting up to timeout for some to
// arrive. It returns 0, nil on timeout.
func (s *Serial) ReadTimeout(p []byte, timeout time.Duration) (int, error) {
	if len(s.pending) > 0 {
		n := copy(p, s.pending)
		s.pending = s.pending[n:]
		return n, nil
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case chunk, ok := <-s.data:
		if !ok {
			if s.err != nil {
				return 0, s.err
			}
			return 0, io.ErrClosedPipe
		}
		n := copy(p, chunk)
		s.pending = chunk[n:]
		return n, nil
	case <-timer.C:
		return 0, nil
	}
}

// Flush discards everything received but not read yet.
func (s *Serial) Flush() error {
	s.pending = nil
	for {
		select {
		case _, ok := <-s.data:
			if !ok {
				return s.err
			}
		default:
			return nil
		}
	}
}

// Close stops the reader and closes the device.
func (s *Serial) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		err = s.rwc.Close()
	})
	return err
}
