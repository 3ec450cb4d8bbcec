package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockTagger struct {
	bookID uint
	isbn   string
	err    error
}

func (m *mockTagger) RefreshClassifierTags(_ context.Context, bookID uint, isbn string) error {
	m.bookID = bookID
	m.isbn = isbn
	return m.err
}

type cleanerFunc func() (int64, error)

func (f cleanerFunc) DeleteOrphanTags() (int64, error) { return f() }

type mockCleaner struct {
	deleted int64
	err     error
	calls   int
}

func (m *mockCleaner) DeleteOrphanTags() (int64, error) {
	m.calls++
	return m.deleted, m.err
}

func TestRefreshClassifiersProcessor(t *testing.T) {
	tagger := &mockTagger{}
	process := RefreshClassifiersProcessor(tagger)

	err := process(context.Background(), RefreshClassifiersTask{BookID: 3, ISBN: "9780143127550"})
	require.NoError(t, err)
	assert.Equal(t, uint(3), tagger.bookID)
	assert.Equal(t, "9780143127550", tagger.isbn)
}

func TestRefreshClassifiersProcessor_PropagatesErrorForRetry(t *testing.T) {
	down := errors.New("metadata service is down")
	process := RefreshClassifiersProcessor(&mockTagger{err: down})

	err := process(context.Background(), RefreshClassifiersTask{BookID: 3})
	assert.ErrorIs(t, err, down)
}

func TestRefreshClassifiersProcessor_NotConfigured(t *testing.T) {
	err := RefreshClassifiersProcessor(nil)(context.Background(), RefreshClassifiersTask{})
	assert.Error(t, err)
}

func TestCleanupOrphanTagsProcessor(t *testing.T) {
	for _, deleted := range []int64{0, 4} {
		cleaner := &mockCleaner{deleted: deleted}
		task := CleanupOrphanTagsTask{QueuedAt: time.Now().Add(-time.Minute)}
		require.NoError(t, CleanupOrphanTagsProcessor(cleaner)(context.Background(), task))
		assert.Equal(t, 1, cleaner.calls)
	}

	locked := errors.New("database is locked")
	err := CleanupOrphanTagsProcessor(&mockCleaner{err: locked})(context.Background(), CleanupOrphanTagsTask{})
	assert.ErrorIs(t, err, locked)

	assert.Error(t, CleanupOrphanTagsProcessor(nil)(context.Background(), CleanupOrphanTagsTask{}))
}
