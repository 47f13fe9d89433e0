// Package session tracks per-visitor state: the cart and, once checkout is
// confirmed, the pending order record. Nothing outlives the session: on
// expiry the cart and any confirmed order are gone, mirroring a page
// reload in the original site.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/laxmiresto/website/internal/cart"
	"github.com/laxmiresto/website/internal/order"
)

// Session is one visitor's state. Cart is internally synchronized; the
// checkout record is guarded by mu since confirm/back/done and receipt
// downloads can race.
type Session struct {
	ID   string
	Cart *cart.Store

	mu       sync.Mutex
	pending  *order.Record
	lastSeen time.Time
}

// Confirm stores the order record, moving the checkout flow into the
// Confirmed state. Any previous pending record is replaced.
func (s *Session) Confirm(rec *order.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = rec
}

// Pending returns the confirmed order record, or nil while editing.
func (s *Session) Pending() *order.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Back discards the confirmed order and returns to editing. The cart is
// deliberately left intact.
func (s *Session) Back() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
}

// Done finishes the checkout flow: the pending order is discarded and the
// cart cleared.
func (s *Session) Done() {
	s.mu.Lock()
	s.pending = nil
	s.mu.Unlock()
	s.Cart.Clear()
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
}

func (s *Session) seen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Manager is the registry of live sessions, keyed by the session cookie
// value. Stale sessions are evicted by a background goroutine.
type Manager struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates a Manager evicting sessions idle longer than ttl.
func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// GetOrCreate returns the session for id, refreshing its idle timer. When
// id is empty or unknown a new session with a fresh UUID is created; the
// boolean reports whether that happened so the handler can set the cookie.
func (m *Manager) GetOrCreate(id string) (*Session, bool) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	if id != "" {
		if s, ok := m.sessions[id]; ok {
			s.touch(now)
			return s, false
		}
	}

	s := &Session{
		ID:   uuid.NewString(),
		Cart: cart.New(),
	}
	s.touch(now)
	m.sessions[s.ID] = s
	return s, true
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// evict drops sessions idle longer than the TTL.
func (m *Manager) evict(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, s := range m.sessions {
		if now.Sub(s.seen()) >= m.ttl {
			delete(m.sessions, id)
		}
	}
}

// StartCleanup launches a goroutine evicting expired sessions at the given
// interval until ctx is cancelled.
func (m *Manager) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				m.evict(now)
			}
		}
	}()
}
