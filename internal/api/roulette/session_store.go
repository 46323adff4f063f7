package roulette

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/FACorreiaa/go-lunch-roulette/internal/types"
)

const DefaultSessionTTL = time.Hour

// Session is the state of one completed search: the eligible candidates and
// the ids already shown. It belongs to a single owner.
type Session struct {
	ID         uuid.UUID
	Owner      uuid.UUID
	Origin     *types.LatLng
	Config     types.SearchConfig
	Candidates []types.Restaurant
	History    []string
	Winner     types.Restaurant
	Stats      types.FilterStats
	CreatedAt  time.Time
}

func (s *Session) clone() *Session {
	c := *s
	c.Candidates = slices.Clone(s.Candidates)
	c.History = slices.Clone(s.History)
	return &c
}

// SessionStore keeps sessions in memory; each access renews the TTL.
type SessionStore struct {
	mu    sync.Mutex
	cache *cache.Cache
	ttl   time.Duration
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{cache: cache.New(ttl, ttl/2), ttl: ttl}
}

func (s *SessionStore) Put(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Set(sess.ID.String(), sess.clone(), s.ttl)
}

// Get returns a copy of the owner's session.
func (s *SessionStore) Get(owner, id uuid.UUID) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.cache.Get(id.String())
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, types.ErrSessionNotFound)
	}
	sess := v.(*Session)
	if sess.Owner != owner {
		return nil, fmt.Errorf("session %s: %w", id, types.ErrSessionNotFound)
	}
	return sess.clone(), nil
}

// Update applies fn to the stored session under the store lock.
func (s *SessionStore) Update(owner, id uuid.UUID, fn func(*Session) error) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.cache.Get(id.String())
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, types.ErrSessionNotFound)
	}
	sess := v.(*Session).clone()
	if sess.Owner != owner {
		return nil, fmt.Errorf("session %s: %w", id, types.ErrSessionNotFound)
	}
	if err := fn(sess); err != nil {
		return nil, err
	}
	s.cache.Set(id.String(), sess, s.ttl)
	return sess.clone(), nil
}

func (s *SessionStore) Len() int {
	return s.cache.ItemCount()
}
