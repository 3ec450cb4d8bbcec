package services

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// BulkEditFields are the parallel form lists accepted by the bulk editor.
// book_id picks the target book of each row, the rest are book columns.
var BulkEditFields = []string{"book_id", "title", "subtitle", "publisher", "publication_date"}

var errTitleRequired = errors.New("title is required")

// Row holds the values of one book in a bulk edit submission.
type Row map[string]string

// BookID parses the row's book_id.
func (r Row) BookID() (uint, error) {
	raw := strings.TrimSpace(r["book_id"])
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid book_id %q", raw)
	}
	return uint(id), nil
}

// BuildRows rotates the parallel lists in values into one Row per position.
// The result is as long as the shortest list; a missing field yields no rows.
func BuildRows(values url.Values, fields []string) []Row {
	if len(fields) == 0 {
		return nil
	}
	count := -1
	for _, field := range fields {
		if n := len(values[field]); count < 0 || n < count {
			count = n
		}
	}
	rows := make([]Row, 0, count)
	for i := 0; i < count; i++ {
		row := make(Row, len(fields))
		for _, field := range fields {
			row[field] = values[field][i]
		}
		rows = append(rows, row)
	}
	return rows
}

// RowError reports a row that could not be saved.
type RowError struct {
	Index  int
	BookID string
	Err    error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d (book %s): %v", e.Index+1, e.BookID, e.Err)
}

func (e RowError) Unwrap() error {
	return e.Err
}

// BulkEditResult contains the outcome of a bulk edit.
type BulkEditResult struct {
	Updated int
	Failed  []RowError
}

// BulkEditService applies bulk edit submissions one row at a time.
type BulkEditService struct {
	books BookWriter
}

func NewBulkEditService(books BookWriter) *BulkEditService {
	return &BulkEditService{books: books}
}

// Apply saves every row on its own. A failing row is reported and leaves
// the other rows untouched.
func (s *BulkEditService) Apply(rows []Row) BulkEditResult {
	var result BulkEditResult
	for i, row := range rows {
		if err := s.applyRow(row); err != nil {
			result.Failed = append(result.Failed, RowError{Index: i, BookID: row["book_id"], Err: err})
			continue
		}
		result.Updated++
	}
	return result
}

func (s *BulkEditService) applyRow(row Row) error {
	id, err := row.BookID()
	if err != nil {
		return err
	}
	fields := make(map[string]any, len(row))
	for field, value := range row {
		if field == "book_id" {
			continue
		}
		value = strings.TrimSpace(value)
		if field == "title" && value == "" {
			return errTitleRequired
		}
		fields[field] = value
	}
	return s.books.UpdateBookFields(id, fields)
}
