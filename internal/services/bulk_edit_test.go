package services

import (
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mockBookWriter struct {
	books   map[uint]map[string]any
	failIDs map[uint]bool
}

func newMockBookWriter(ids ...uint) *mockBookWriter {
	m := &mockBookWriter{books: map[uint]map[string]any{}, failIDs: map[uint]bool{}}
	for _, id := range ids {
		m.books[id] = map[string]any{}
	}
	return m
}

func (m *mockBookWriter) UpdateBookFields(id uint, fields map[string]any) error {
	if m.failIDs[id] {
		return errors.New("disk full")
	}
	book, ok := m.books[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range fields {
		book[k] = v
	}
	return nil
}

func TestBuildRows(t *testing.T) {
	values := url.Values{
		"book_id":   {"1", "2", "3"},
		"title":     {"Emma", "Dune"},
		"publisher": {"Penguin", "Ace", "Tor"},
	}

	rows := BuildRows(values, []string{"book_id", "title", "publisher"})

	assert.Equal(t, []Row{
		{"book_id": "1", "title": "Emma", "publisher": "Penguin"},
		{"book_id": "2", "title": "Dune", "publisher": "Ace"},
	}, rows)
}

func TestBuildRows_MissingField(t *testing.T) {
	values := url.Values{"book_id": {"1"}}
	assert.Empty(t, BuildRows(values, BulkEditFields))
	assert.Empty(t, BuildRows(values, nil))
}

func TestBulkEditService_Apply(t *testing.T) {
	writer := newMockBookWriter(1, 2)
	service := NewBulkEditService(writer)

	result := service.Apply([]Row{
		{"book_id": "1", "title": " Emma ", "subtitle": "", "publisher": "Penguin", "publication_date": "1815"},
		{"book_id": "2", "title": "Dune", "subtitle": "", "publisher": "Ace", "publication_date": "1965"},
	})

	assert.Equal(t, 2, result.Updated)
	assert.Empty(t, result.Failed)
	assert.Equal(t, "Emma", writer.books[1]["title"])
	assert.Equal(t, "1965", writer.books[2]["publication_date"])
	assert.NotContains(t, writer.books[1], "book_id")
}

func TestBulkEditService_Apply_RowsAreIndependent(t *testing.T) {
	writer := newMockBookWriter(1, 2, 3)
	writer.failIDs[2] = true
	service := NewBulkEditService(writer)

	result := service.Apply([]Row{
		{"book_id": "1", "title": "Emma"},
		{"book_id": "2", "title": "Dune"},
		{"book_id": "3", "title": ""},
		{"book_id": "abc", "title": "Ghost"},
		{"book_id": "99", "title": "Missing"},
		{"book_id": "3", "title": "Persuasion"},
	})

	assert.Equal(t, 2, result.Updated)
	require.Len(t, result.Failed, 4)
	assert.Equal(t, 1, result.Failed[0].Index)
	assert.ErrorIs(t, result.Failed[1], errTitleRequired)
	assert.Contains(t, result.Failed[2].Error(), "invalid book_id")
	assert.ErrorIs(t, result.Failed[3], gorm.ErrRecordNotFound)

	assert.Equal(t, "Emma", writer.books[1]["title"])
	assert.Equal(t, "Persuasion", writer.books[3]["title"])
}
