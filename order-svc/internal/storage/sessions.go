package storage

import (
	"sync"

	"homecafe/order-svc/internal/domain"
)

type sessionSlot struct {
	mu      sync.Mutex
	session *domain.Session
}

// MemorySessionStore keeps conversations in process memory, one slot per
// customer. Sessions are lost on restart.
type MemorySessionStore struct {
	mu    sync.Mutex
	slots map[int64]*sessionSlot
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{slots: make(map[int64]*sessionSlot)}
}

func (s *MemorySessionStore) slot(customerID int64) *sessionSlot {
	s.mu.Lock()
	defer s.mu.Unlock()
	sl, ok := s.slots[customerID]
	if !ok {
		sl = &sessionSlot{}
		s.slots[customerID] = sl
	}
	return sl
}

// Do runs fn with the customer's current session (nil when there is none)
// while holding that customer's slot. The returned session replaces the
// stored one; returning nil ends the session.
func (s *MemorySessionStore) Do(customerID int64, fn func(current *domain.Session) *domain.Session) {
	sl := s.slot(customerID)
	sl.mu.Lock()
	defer sl.mu.Unlock()

	sl.session = fn(sl.session)
}

// Peek reports the customer's current state, for diagnostics and tests.
func (s *MemorySessionStore) Peek(customerID int64) (domain.ConversationState, bool) {
	sl := s.slot(customerID)
	sl.mu.Lock()
	defer sl.mu.Unlock()

	if sl.session == nil {
		return domain.StateClosed, false
	}
	return sl.session.State, true
}

func (s *MemorySessionStore) Len() int {
	s.mu.Lock()
	slots := make([]*sessionSlot, 0, len(s.slots))
	for _, sl := range s.slots {
		slots = append(slots, sl)
	}
	s.mu.Unlock()

	n := 0
	for _, sl := range slots {
		sl.mu.Lock()
		if sl.session != nil {
			n++
		}
		sl.mu.Unlock()
	}
	return n
}
