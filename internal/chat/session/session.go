package session

import (
	"errors"
	"sync"
	"time"

	"aelfgpt/internal/model"
	"aelfgpt/pkg/chatmemory"
)

// ErrBusy is returned by Begin and Reset while a turn is in flight.
var ErrBusy = errors.New("session is responding")

// State is the turn state of a session.
type State int

const (
	StateIdle State = iota
	StateResponding
)

func (s State) String() string {
	if s == StateResponding {
		return "responding"
	}
	return "idle"
}

// Session owns one conversation: its displayed history and the memory buffer
// fed to the chat engine. Sessions share no mutable state with each other.
type Session struct {
	id        string
	createdAt time.Time

	mu         sync.Mutex
	state      State
	history    []model.Message
	memory     *chatmemory.Buffer
	lastActive time.Time
}

// New creates an idle session.
func New(id string, memory *chatmemory.Buffer) *Session {
	now := time.Now()
	return &Session{
		id:         id,
		createdAt:  now,
		memory:     memory,
		lastActive: now,
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Memory returns the session's chat memory buffer.
func (s *Session) Memory() *chatmemory.Buffer {
	return s.memory
}

// Begin moves the session from idle to responding.
func (s *Session) Begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateResponding {
		return ErrBusy
	}
	s.state = StateResponding
	s.lastActive = time.Now()
	return nil
}

// End returns the session to idle.
func (s *Session) End() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = StateIdle
	s.lastActive = time.Now()
}

// Append adds messages to the history in order.
func (s *Session) Append(msgs ...model.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(s.history, msgs...)
}

// History returns a copy of the ordered history.
func (s *Session) History() []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Message, len(s.history))
	copy(out, s.history)
	return out
}

// Len returns the number of history entries.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

// Reset clears history and memory. It fails while a turn is in flight.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateResponding {
		return ErrBusy
	}
	s.history = nil
	s.memory.Reset()
	s.lastActive = time.Now()
	return nil
}
