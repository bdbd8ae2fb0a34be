package session

import (
	"container/list"
	"sync"
	"time"
)

// Message is one turn of a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Session holds a conversation's history.
type Session struct {
	ID       string
	Messages []Message
	lastUsed time.Time
}

// Store is a bounded in-memory session cache with LRU eviction and TTL
// expiry. When the store is full, the least recently used session is evicted
// to admit a new one. Safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	order    *list.List // front = most recently used
	items    map[string]*list.Element
	now      func() time.Time
}

// NewStore builds a store with the given capacity and per-session TTL.
// A capacity below 1 defaults to 1000; a non-positive ttl disables expiry.
func NewStore(capacity int, ttl time.Duration) *Store {
	if capacity < 1 {
		capacity = 1000
	}
	return &Store{
		capacity: capacity,
		ttl:      ttl,
		order:    list.New(),
		items:    make(map[string]*list.Element),
		now:      time.Now,
	}
}

// Get returns the session's message history, or nil when it does not exist
// or has expired. A hit refreshes both recency and TTL.
func (s *Store) Get(id string) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.items[id]
	if !ok {
		return nil
	}
	sess := el.Value.(*Session)
	if s.expired(sess) {
		s.remove(el)
		return nil
	}
	sess.lastUsed = s.now()
	s.order.MoveToFront(el)

	out := make([]Message, len(sess.Messages))
	copy(out, sess.Messages)
	return out
}

// Append adds messages to the session, creating it if needed. Eviction of the
// least recently used session makes room when the store is full.
func (s *Store) Append(id string, msgs ...Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.items[id]
	if ok {
		sess := el.Value.(*Session)
		if s.expired(sess) {
			s.remove(el)
			ok = false
		} else {
			sess.Messages = append(sess.Messages, msgs...)
			sess.lastUsed = s.now()
			s.order.MoveToFront(el)
			return
		}
	}
	if !ok {
		for s.order.Len() >= s.capacity {
			s.remove(s.order.Back())
		}
		sess := &Session{
			ID:       id,
			Messages: append([]Message(nil), msgs...),
			lastUsed: s.now(),
		}
		s.items[id] = s.order.PushFront(sess)
	}
}

// Delete removes a session.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if el, ok := s.items[id]; ok {
		s.remove(el)
	}
}

// Len returns the number of live (possibly expired but not yet reaped)
// sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}

func (s *Store) expired(sess *Session) bool {
	return s.ttl > 0 && s.now().Sub(sess.lastUsed) > s.ttl
}

func (s *Store) remove(el *list.Element) {
	sess := el.Value.(*Session)
	delete(s.items, sess.ID)
	s.order.Remove(el)
}
