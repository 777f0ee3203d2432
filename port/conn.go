package port

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/moffa90/go-radiomem/session"
)

var _ session.Port = (*Conn)(nil)

// flushWindow is how long Flush waits for more stale bytes.
const flushWindow = 5 * time.Millisecond

// Conn is a network connection to a serial bridge used as a session.Port.
// Timeouts are implemented with read deadlines.
type Conn struct {
	conn net.Conn
}

// Dial connects to a serial bridge at address ("host:port").
func Dial(ctx context.Context, address string) (*Conn, error) {
	var d net.Dialer
	c, err := d.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", address, err)
	}
	return NewConn(c), nil
}

// NewConn wraps an established connection.
func NewConn(c net.Conn) *Conn {
	return &Conn{conn: c}
}

// Write sends p over the connection.
func (c *Conn) Write(p []byte) (int, error) {
	if err := c.conn.SetWriteDeadline(time.Time{}); err != nil {
		return 0, err
	}
	return c.conn.Write(p)
}

// ReadTimeout returns received bytes, waiting up to timeout for some to
// arrive. It returns 0, nil on timeout.
func (c *Conn) ReadTimeout(p []byte, timeout time.Duration) (int, error) {
	if err := c.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return 0, err
	}
	n, err := c.conn.Read(p)
	if err != nil && isTimeout(err) {
		return n, nil
	}
	return n, err
}

// Flush reads and discards bytes until the connection stays quiet for a
// short window.
func (c *Conn) Flush() error {
	buf := make([]byte, 256)
	for {
		n, err := c.ReadTimeout(buf, flushWindow)
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
	}
}

// Close closes the connection.
func (c *Conn) Close() error {
	return c.conn.Close()
}

func isTimeout(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
