package importers

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mrlokans/catalog/internal/entities"
	"github.com/mrlokans/catalog/internal/utils"
)

// trailingISBN splits "Title 9780441172719" into title and ISBN.
var trailingISBN = regexp.MustCompile(`^(.*?)\s*(\d{10,13})$`)

// TitleLine is one parsed line of a manual import.
type TitleLine struct {
	Title string
	ISBN  string
}

// ParseTitleLines reads one title per line, splitting off an optional
// trailing 10 to 13 digit ISBN. Blank lines are dropped.
func ParseTitleLines(text string) []TitleLine {
	lines := utils.GetLines(text)
	parsed := make([]TitleLine, 0, len(lines))
	for _, line := range lines {
		if m := trailingISBN.FindStringSubmatch(line); m != nil && strings.TrimSpace(m[1]) != "" {
			parsed = append(parsed, TitleLine{Title: strings.TrimSpace(m[1]), ISBN: m[2]})
			continue
		}
		parsed = append(parsed, TitleLine{Title: line})
	}
	return parsed
}

// TitleImporter creates books by title for an already cataloged author.
type TitleImporter struct {
	books   BookStore
	persons PersonStore
}

func NewTitleImporter(books BookStore, persons PersonStore) *TitleImporter {
	return &TitleImporter{books: books, persons: persons}
}

// Import creates one book per line of text, each credited to authorID as
// its primary author. Titles are stored as typed.
func (t *TitleImporter) Import(authorID uint, text string) ([]entities.Book, error) {
	author, err := t.persons.GetPersonByID(authorID)
	if err != nil {
		return nil, fmt.Errorf("author %d: %w", authorID, err)
	}

	var created []entities.Book
	for _, line := range ParseTitleLines(text) {
		book := &entities.Book{Title: line.Title, ISBN: line.ISBN}
		if err := t.books.CreateBook(book); err != nil {
			return created, err
		}
		if _, err := t.books.AddCredit(book.ID, author.ID, entities.RoleAuthor, 1); err != nil {
			return created, fmt.Errorf("failed to credit %s on %q: %w", author.Name, book.Title, err)
		}
		created = append(created, *book)
	}
	return created, nil
}
