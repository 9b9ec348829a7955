// Package domain contains core concepts of the relay.
// This file defines the Session entity and its lifecycle states.
// No runtime, network loop, or UI logic should be added here.
package domain

import (
	"net"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// State is the lifecycle position of a Session.
type State int32

const (
	// Connecting - accepted transport, display name not received yet.
	Connecting State = iota
	// Named - display name captured, session being announced.
	Named
	// Active - session participates in the relay loop.
	Active
	// Closed - terminal state, transport released.
	Closed
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "Connecting"
	case Named:
		return "Named"
	case Active:
		return "Active"
	case Closed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// Session represents one accepted client connection.
// The handler that created it is the only reader of the transport and the
// only writer of Name; everybody else reaches the session through the
// registry and may only call Send or Close.
type Session struct {
	ID   string
	Name string

	conn  net.Conn
	state atomic.Int32

	wmu  sync.Mutex
	once sync.Once
}

func NewSession(conn net.Conn) *Session {
	return &Session{
		ID:   uuid.NewString(),
		conn: conn,
	}
}

func (s *Session) State() State {
	return State(s.state.Load())
}

func (s *Session) SetState(state State) {
	s.state.Store(int32(state))
}

// Send writes a single line to the transport. The write mutex keeps
// concurrent broadcasts from interleaving bytes on the same connection.
func (s *Session) Send(line string) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	_, err := s.conn.Write([]byte(line + "\n"))
	return err
}

// Close releases the transport. Safe to call from any goroutine and on
// every exit path of the owning handler.
func (s *Session) Close() {
	s.once.Do(func() {
		_ = s.conn.Close()
	})
}

func (s *Session) RemoteAddr() net.Addr {
	return s.conn.RemoteAddr()
}
