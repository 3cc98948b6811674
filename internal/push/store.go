package push

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Keys struct {
	P256dh string `json:"p256dh"`
	Auth   string `json:"auth"`
}

type Subscription struct {
	ID        string    `json:"id"`
	Endpoint  string    `json:"endpoint"`
	Keys      Keys      `json:"keys"`
	CreatedAt time.Time `json:"createdAt"`
}

// MemoryStore keeps subscriptions keyed by endpoint. Nothing survives a
// restart.
type MemoryStore struct {
	mu   sync.RWMutex
	subs map[string]Subscription
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{subs: make(map[string]Subscription)}
}

// Create stores a subscription. A known endpoint returns the existing entry.
func (s *MemoryStore) Create(endpoint string, keys Keys) Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.subs[endpoint]; ok {
		return existing
	}
	sub := Subscription{
		ID:        uuid.NewString(),
		Endpoint:  endpoint,
		Keys:      keys,
		CreatedAt: time.Now().UTC(),
	}
	s.subs[endpoint] = sub
	return sub
}

func (s *MemoryStore) Get(endpoint string) (Subscription, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.subs[endpoint]
	return sub, ok
}

// All returns the subscriptions ordered by creation time.
func (s *MemoryStore) All() []Subscription {
	s.mu.RLock()
	out := make([]Subscription, 0, len(s.subs))
	for _, sub := range s.subs {
		out = append(out, sub)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// Delete reports whether the endpoint was known.
func (s *MemoryStore) Delete(endpoint string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.subs[endpoint]
	delete(s.subs, endpoint)
	return ok
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}
