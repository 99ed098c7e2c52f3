package roster

import (
	"crypto/rand"
	"io"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/oklog/ulid/v2"

	"vibetracker/internal/domain"
)

// Store owns the ordered roster of tracked influencers for one session.
// Nothing is persisted; a new Store starts empty.
type Store struct {
	mu      sync.RWMutex
	items   []domain.Influencer
	initial int

	clock   clockwork.Clock
	entropy io.Reader
}

type Option func(*Store)

// WithClock sets the clock used for ids and creation times.
func WithClock(clock clockwork.Clock) Option {
	return func(s *Store) {
		s.clock = clock
	}
}

// WithEntropy sets the randomness source for ids.
func WithEntropy(r io.Reader) Option {
	return func(s *Store) {
		s.entropy = r
	}
}

func New(opts ...Option) *Store {
	s := &Store{
		clock:   clockwork.NewRealClock(),
		entropy: rand.Reader,
	}
	for _, opt := range opts {
		opt(s)
	}
	// Monotonic entropy keeps ids sortable when several land in one millisecond.
	s.entropy = ulid.Monotonic(s.entropy, 0)
	return s
}

// Seed appends the initial roster and records its size as the baseline for
// AddedSinceStart. Seeded influencers get fresh ids.
func (s *Store) Seed(influencers []domain.Influencer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, inf := range influencers {
		inf.ID = s.nextID()
		if inf.CreatedAt.IsZero() {
			inf.CreatedAt = s.clock.Now()
		}
		s.items = append(s.items, inf)
	}
	s.initial = len(s.items)
}

// Add appends a new influencer. Duplicate handles are allowed.
func (s *Store) Add(in domain.ValidatedInfluencer) domain.Influencer {
	s.mu.Lock()
	defer s.mu.Unlock()

	inf := domain.Influencer{
		ID:           s.nextID(),
		Name:         in.Name,
		Handle:       in.Handle,
		Platform:     in.Platform,
		Followers:    in.Followers,
		Engagement:   in.Engagement,
		Avatar:       domain.PlaceholderAvatar,
		LastActivity: domain.LastActivityJustAdded,
		CreatedAt:    s.clock.Now(),
	}
	s.items = append(s.items, inf)

	return inf
}

// Update replaces name, handle and platform of the influencer with the given
// id. Followers and engagement change only when the input supplies them.
func (s *Store) Update(id string, in domain.ValidatedInfluencer) (domain.Influencer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.Influencer{}, domain.ErrNotFound
	}

	inf := s.items[i]
	inf.Name = in.Name
	inf.Handle = in.Handle
	inf.Platform = in.Platform
	if in.Followers != "" {
		inf.Followers = in.Followers
	}
	if in.Engagement != "" {
		inf.Engagement = in.Engagement
	}
	s.items[i] = inf

	return inf, nil
}

// Remove deletes the influencer and returns its last snapshot.
func (s *Store) Remove(id string) (domain.Influencer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.Influencer{}, domain.ErrNotFound
	}

	removed := s.items[i]
	s.items = append(s.items[:i], s.items[i+1:]...)

	return removed, nil
}

func (s *Store) Get(id string) (domain.Influencer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.Influencer{}, domain.ErrNotFound
	}
	return s.items[i], nil
}

// List returns a snapshot in insertion order. Later mutations do not show
// up in it.
func (s *Store) List() []domain.Influencer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Influencer, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// InitialLen is the size of the seeded roster.
func (s *Store) InitialLen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initial
}

func (s *Store) indexOf(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

// nextID must be called with mu held; monotonic entropy is not safe for
// concurrent use.
func (s *Store) nextID() string {
	return ulid.MustNew(ulid.Timestamp(s.clock.Now()), s.entropy).String()
}
