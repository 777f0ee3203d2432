package session

import "time"

// Port is the byte stream to the radio.
//
// ReadTimeout blocks until at least one byte is available or the timeout
// elapses. On timeout it returns 0, nil. Any returned error is treated as a
// transport failure.
//
// Flush discards bytes the port has received but not yet delivered.
type Port interface {
	Write(p []byte) (int, error)
	ReadTimeout(p []byte, timeout time.Duration) (int, error)
	Flush() error
}
