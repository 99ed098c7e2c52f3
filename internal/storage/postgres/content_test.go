package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/suite"

	"vibetracker/internal/domain"
)

type StoreMockSuite struct {
	suite.Suite
	ctx  context.Context
	db   *sqlx.DB
	mock sqlmock.Sqlmock
}

func (s *StoreMockSuite) SetupTest() {
	s.ctx = context.Background()

	db, mock, err := sqlmock.New()
	s.Require().NoError(err)

	s.db = sqlx.NewDb(db, "postgres")
	s.mock = mock
}

func (s *StoreMockSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
	s.db.Close()
}

func TestStoreMockSuite(t *testing.T) {
	suite.Run(t, new(StoreMockSuite))
}

func (s *StoreMockSuite) summary() *domain.ContentSummary {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return &domain.ContentSummary{
		SourceID:     "demo",
		ExternalID:   1,
		Influencer:   "Sarah Chen",
		Platform:     domain.PlatformLinkedIn,
		Summary:      "AI marketing trends",
		Sentiment:    domain.SentimentPositive,
		Link:         "#",
		PublishedAt:  now,
		LastModified: now,
	}
}

func (s *StoreMockSuite) TestContentStore_UpsertInsert() {
	c := s.summary()

	s.mock.ExpectQuery("INSERT INTO content_summaries").
		WithArgs(c.SourceID, c.ExternalID, c.Influencer, c.Platform, c.Summary, c.Sentiment,
			c.Link, c.PublishedAt, c.LastModified).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	id, err := NewContentStore(s.db).Upsert(s.ctx, c)

	s.NoError(err)
	s.Equal(int64(42), id)
}

func (s *StoreMockSuite) TestContentStore_UpsertNotNewerFallsBackToSelect() {
	c := s.summary()

	s.mock.ExpectQuery("INSERT INTO content_summaries").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	s.mock.ExpectQuery("SELECT id FROM content_summaries WHERE source_id = \\$1 AND external_id = \\$2").
		WithArgs("demo", int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	id, err := NewContentStore(s.db).Upsert(s.ctx, c)

	s.NoError(err)
	s.Equal(int64(7), id)
}

func (s *StoreMockSuite) TestContentStore_UpsertError() {
	s.mock.ExpectQuery("INSERT INTO content_summaries").
		WillReturnError(errors.New("connection reset"))

	_, err := NewContentStore(s.db).Upsert(s.ctx, s.summary())

	s.Error(err)
}

func (s *StoreMockSuite) TestContentStore_GetExisting() {
	lastMod := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	s.mock.ExpectQuery("SELECT external_id, last_modified FROM content_summaries").
		WithArgs("demo", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"external_id", "last_modified"}).
			AddRow(1, lastMod).
			AddRow(3, lastMod))

	result, err := NewContentStore(s.db).GetExistingBySourceAndExternalIDs(s.ctx, "demo", []int64{1, 2, 3})

	s.NoError(err)
	s.Len(result, 2)
	s.Equal(lastMod, result[1])
	s.NotContains(result, int64(2))
}

func (s *StoreMockSuite) TestContentStore_GetExistingEmptyIDs() {
	result, err := NewContentStore(s.db).GetExistingBySourceAndExternalIDs(s.ctx, "demo", nil)

	s.NoError(err)
	s.Empty(result)
}

func (s *StoreMockSuite) TestContentStore_List() {
	c := s.summary()

	s.mock.ExpectQuery("FROM content_summaries").
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "source_id", "external_id", "influencer", "platform", "summary", "sentiment",
			"link", "published_at", "last_modified",
		}).AddRow(
			5, c.SourceID, c.ExternalID, c.Influencer, "LinkedIn", c.Summary, "positive",
			c.Link, c.PublishedAt, c.LastModified,
		))

	summaries, err := NewContentStore(s.db).List(s.ctx, 10)

	s.NoError(err)
	s.Require().Len(summaries, 1)
	s.Equal(int64(5), summaries[0].ID)
	s.Equal(domain.PlatformLinkedIn, summaries[0].Platform)
	s.Equal(domain.SentimentPositive, summaries[0].Sentiment)
	s.Equal(c.PublishedAt, summaries[0].PublishedAt)
	s.Empty(summaries[0].Timestamp)
}

func (s *StoreMockSuite) TestFeedStateStore_GetNew() {
	s.mock.ExpectQuery("FROM feed_state").
		WithArgs("demo").
		WillReturnRows(sqlmock.NewRows([]string{"id", "source_id", "last_synced_at", "total_synced"}))

	state, err := NewFeedStateStore(s.db).Get(s.ctx, "demo")

	s.NoError(err)
	s.Equal("demo", state.SourceID)
	s.True(state.LastSyncedAt.IsZero())
	s.Equal(int64(0), state.TotalSynced)
}

func (s *StoreMockSuite) TestFeedStateStore_Update() {
	now := time.Now()
	state := &domain.FeedState{SourceID: "demo", LastSyncedAt: now, TotalSynced: 9}

	s.mock.ExpectExec("INSERT INTO feed_state").
		WithArgs("demo", now, int64(9)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	s.NoError(NewFeedStateStore(s.db).Update(s.ctx, state))
}

func (s *StoreMockSuite) TestTransaction_CommitUsesTx() {
	c := s.summary()

	s.mock.ExpectBegin()
	s.mock.ExpectQuery("INSERT INTO content_summaries").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	s.mock.ExpectCommit()

	err := NewTransactionManager(s.db).WithTransaction(s.ctx, func(ctx context.Context) error {
		s.NotNil(txFromContext(ctx))
		_, err := NewContentStore(s.db).Upsert(ctx, c)
		return err
	})

	s.NoError(err)
}

func (s *StoreMockSuite) TestTransaction_RollbackOnError() {
	s.mock.ExpectBegin()
	s.mock.ExpectRollback()

	err := NewTransactionManager(s.db).WithTransaction(s.ctx, func(ctx context.Context) error {
		return context.Canceled
	})

	s.ErrorIs(err, context.Canceled)
}

func (s *StoreMockSuite) TestTransaction_NestedCallJoinsOuter() {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tm := NewTransactionManager(s.db)

	s.mock.ExpectBegin()
	s.mock.ExpectQuery("INSERT INTO content_summaries").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	s.mock.ExpectExec("INSERT INTO feed_state").
		WillReturnResult(sqlmock.NewResult(1, 1))
	s.mock.ExpectCommit()

	err := tm.WithTransaction(s.ctx, func(ctx context.Context) error {
		outer := txFromContext(ctx)
		if _, err := NewContentStore(s.db).Upsert(ctx, s.summary()); err != nil {
			return err
		}
		return tm.WithTransaction(ctx, func(inner context.Context) error {
			s.Same(outer, txFromContext(inner))
			return NewFeedStateStore(s.db).Update(inner, &domain.FeedState{SourceID: "demo", LastSyncedAt: now, TotalSynced: 1})
		})
	})

	s.NoError(err)
}

func (s *StoreMockSuite) TestTransaction_BeginError() {
	s.mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

	err := NewTransactionManager(s.db).WithTransaction(s.ctx, func(context.Context) error {
		s.Fail("fn must not run without a transaction")
		return nil
	})

	s.ErrorContains(err, "begin feed transaction")
}

func (s *StoreMockSuite) TestTransaction_RollbackErrorJoined() {
	s.mock.ExpectBegin()
	s.mock.ExpectRollback().WillReturnError(errors.New("connection lost"))

	err := NewTransactionManager(s.db).WithTransaction(s.ctx, func(context.Context) error {
		return context.DeadlineExceeded
	})

	s.ErrorIs(err, context.DeadlineExceeded)
	s.ErrorContains(err, "rollback feed transaction")
}

func (s *StoreMockSuite) TestTransaction_CommitError() {
	s.mock.ExpectBegin()
	s.mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

	err := NewTransactionManager(s.db).WithTransaction(s.ctx, func(context.Context) error {
		return nil
	})

	s.ErrorContains(err, "commit feed transaction")
}

func (s *StoreMockSuite) TestTransaction_RollbackOnPanic() {
	s.mock.ExpectBegin()
	s.mock.ExpectRollback()

	s.PanicsWithValue("boom", func() {
		_ = NewTransactionManager(s.db).WithTransaction(s.ctx, func(context.Context) error {
			panic("boom")
		})
	})
}
