package roster

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/suite"

	"vibetracker/internal/domain"
)

type StoreTestSuite struct {
	suite.Suite
	clock *clockwork.FakeClock
	store *Store
}

func (s *StoreTestSuite) SetupTest() {
	s.clock = clockwork.NewFakeClockAt(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	s.store = New(WithClock(s.clock))
	s.store.Seed(DefaultInfluencers())
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func (s *StoreTestSuite) TestSeed() {
	s.Equal(3, s.store.Len())
	s.Equal(3, s.store.InitialLen())

	list := s.store.List()
	s.Equal("Sarah Chen", list[0].Name)
	s.Equal("Digital Trends", list[2].Name)
	for _, inf := range list {
		s.NotEmpty(inf.ID)
	}
}

func (s *StoreTestSuite) TestAdd_AppendsWithUniqueID() {
	seen := make(map[string]bool)
	for _, inf := range s.store.List() {
		seen[inf.ID] = true
	}

	for i := 0; i < 50; i++ {
		before := s.store.Len()
		inf := s.store.Add(domain.ValidatedInfluencer{
			Name:     "Dup",
			Handle:   "@dup",
			Platform: domain.PlatformTwitter,
		})

		s.Equal(before+1, s.store.Len())
		s.False(seen[inf.ID], "id %s reused", inf.ID)
		seen[inf.ID] = true
	}

	list := s.store.List()
	s.Equal("@dup", list[len(list)-1].Handle)
}

func (s *StoreTestSuite) TestAdd_SetsJustAdded() {
	inf := s.store.Add(domain.ValidatedInfluencer{
		Name:       "A",
		Handle:     "@a",
		Platform:   domain.PlatformYouTube,
		Followers:  "0",
		Engagement: "0%",
	})

	s.Equal(domain.LastActivityJustAdded, inf.LastActivity)
	s.Equal(domain.PlaceholderAvatar, inf.Avatar)
	s.Equal(s.clock.Now(), inf.CreatedAt)

	got, err := s.store.Get(inf.ID)
	s.NoError(err)
	s.Equal(inf, got)
}

func (s *StoreTestSuite) TestUpdate_KeepsEmptyOptionalFields() {
	target := s.store.List()[1]

	updated, err := s.store.Update(target.ID, domain.ValidatedInfluencer{
		Name:      "B",
		Handle:    "@b",
		Platform:  domain.PlatformTikTok,
		Followers: "5K",
	})

	s.NoError(err)
	s.Equal(target.ID, updated.ID)
	s.Equal("B", updated.Name)
	s.Equal("@b", updated.Handle)
	s.Equal(domain.PlatformTikTok, updated.Platform)
	s.Equal("5K", updated.Followers)
	s.Equal(target.Engagement, updated.Engagement)
	s.Equal(target.LastActivity, updated.LastActivity)

	s.Equal(updated, s.store.List()[1])
}

func (s *StoreTestSuite) TestUpdate_NotFound() {
	before := s.store.List()

	_, err := s.store.Update("missing", domain.ValidatedInfluencer{Name: "X", Handle: "@x", Platform: domain.PlatformLinkedIn})

	s.ErrorIs(err, domain.ErrNotFound)
	s.Equal(before, s.store.List())
}

func (s *StoreTestSuite) TestRemove() {
	target := s.store.List()[0]

	removed, err := s.store.Remove(target.ID)

	s.NoError(err)
	s.Equal(target, removed)
	s.Equal(2, s.store.Len())

	_, err = s.store.Get(target.ID)
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *StoreTestSuite) TestRemove_NotFound() {
	before := s.store.List()

	_, err := s.store.Remove("missing")

	s.ErrorIs(err, domain.ErrNotFound)
	s.Equal(before, s.store.List())
}

func (s *StoreTestSuite) TestList_IsSnapshot() {
	snapshot := s.store.List()
	first := snapshot[0]

	_, err := s.store.Remove(first.ID)
	s.NoError(err)

	s.Len(snapshot, 3)
	s.Equal(first, snapshot[0])
}
