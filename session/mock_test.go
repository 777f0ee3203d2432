package session

import (
	"bytes"
	"sync"
	"time"

	"github.com/moffa90/go-radiomem/protocol"
)

// MockPort replays a scripted reply for every frame written to it.
// A nil reply simulates a radio that stays silent.
type MockPort struct {
	mu       sync.Mutex
	replies  [][]byte
	writes   [][]byte
	rx       []byte
	flushes  int
	writeErr error
	readErr  error
}

func NewMockPort(replies ...[]byte) *MockPort {
	return &MockPort{replies: replies}
}

func (m *MockPort) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.writeErr != nil {
		return 0, m.writeErr
	}
	m.writes = append(m.writes, append([]byte(nil), p...))

	idx := len(m.writes) - 1
	if idx < len(m.replies) && m.replies[idx] != nil {
		m.rx = append(m.rx, m.replies[idx]...)
	}
	return len(p), nil
}

func (m *MockPort) ReadTimeout(p []byte, timeout time.Duration) (int, error) {
	m.mu.Lock()
	if m.readErr != nil {
		m.mu.Unlock()
		return 0, m.readErr
	}
	if len(m.rx) > 0 {
		n := copy(p, m.rx)
		m.rx = m.rx[n:]
		m.mu.Unlock()
		return n, nil
	}
	m.mu.Unlock()

	// Nothing buffered: behave like a quiet line.
	if timeout > time.Millisecond {
		timeout = time.Millisecond
	}
	time.Sleep(timeout)
	return 0, nil
}

func (m *MockPort) Flush() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flushes++
	m.rx = nil
	return nil
}

func (m *MockPort) Writes() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func (m *MockPort) Flushes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flushes
}

// Helpers building radio replies.

func okResponse(data []byte) []byte {
	frame, err := protocol.BuildResponse(protocol.StatusSuccess, data)
	if err != nil {
		panic(err)
	}
	return frame
}

func statusResponse(status byte) []byte {
	frame, err := protocol.BuildResponse(status, nil)
	if err != nil {
		panic(err)
	}
	return frame
}

func identifyResponse(model uint16) []byte {
	return okResponse(protocol.BuildIdentifyResponse(protocol.Identity{ModelID: model, Revision: 1}))
}

func blockResponse(addr uint32, block []byte) []byte {
	return okResponse(protocol.BuildReadBlockResponse(addr, block))
}

func corrupt(frame []byte) []byte {
	out := append([]byte(nil), frame...)
	out[len(out)-3] ^= 0xFF
	return out
}

func allEqual(frames [][]byte) bool {
	if len(frames) == 0 {
		return true
	}
	for _, f := range frames[1:] {
		if !bytes.Equal(f, frames[0]) {
			return false
		}
	}
	return true
}
