package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"aelfgpt/pkg/chatmemory"
)

// Store keeps sessions in an expirable LRU keyed by session ID.
// Access refreshes a session's TTL.
type Store struct {
	mu        sync.Mutex
	cache     *expirable.LRU[string, *Session]
	newMemory func() *chatmemory.Buffer
}

// NewStore creates a store holding at most size sessions (0 = unbounded),
// each evicted after ttl without access.
func NewStore(size int, ttl time.Duration, newMemory func() *chatmemory.Buffer) *Store {
	if newMemory == nil {
		newMemory = func() *chatmemory.Buffer {
			return chatmemory.New(chatmemory.DefaultTokenLimit, nil)
		}
	}
	return &Store{
		cache:     expirable.NewLRU[string, *Session](size, nil, ttl),
		newMemory: newMemory,
	}
}

// GetOrCreate returns the session for id, creating one with a fresh UUID when
// id is empty or unknown. created reports whether a new session was made.
func (s *Store) GetOrCreate(id string) (sess *Session, created bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != "" {
		if sess, ok := s.cache.Get(id); ok {
			s.cache.Add(id, sess)
			return sess, false
		}
	}

	sess = New(uuid.NewString(), s.newMemory())
	s.cache.Add(sess.ID(), sess)
	return sess, true
}

// Get returns an existing session.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.cache.Get(id)
	if ok {
		s.cache.Add(id, sess)
	}
	return sess, ok
}

// Delete drops a session.
func (s *Store) Delete(id string) {
	s.cache.Remove(id)
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	return s.cache.Len()
}
