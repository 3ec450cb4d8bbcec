package filters

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/catalog/internal/database"
	"github.com/mrlokans/catalog/internal/entities"
)

// Scope narrows a book query. Scopes are composed with AND.
type Scope = func(*gorm.DB) *gorm.DB

// Kind is the match kind selected by a parameter suffix.
type Kind int

const (
	Exact Kind = iota
	Contains
	StartsWith
	EndsWith
	Custom
)

// Suffix returns the parameter suffix that selects k.
func (k Kind) Suffix() string {
	switch k {
	case Contains:
		return "~"
	case StartsWith:
		return "^"
	case EndsWith:
		return "$"
	}
	return ""
}

func (k Kind) verb() string {
	switch k {
	case Contains:
		return "matches"
	case StartsWith:
		return "begins with"
	case EndsWith:
		return "ends with"
	}
	return ""
}

// Label renders the human readable description of an applied filter.
func (k Kind) Label(field, value string) string {
	if verb := k.verb(); verb != "" {
		return field + " " + verb + ` "` + value + `"`
	}
	return field + ": " + value
}

type target int

const (
	bookColumn target = iota
	tagValue
	seriesTitle
	creditedPerson
)

// Predicate is one registry entry: a field, the way it is matched and
// what it is matched against.
type Predicate struct {
	Field string
	Kind  Kind

	target     target
	column     string
	role       entities.Role
	foldCase   bool
	customFunc func(value string) (Scope, bool)
}

const (
	tagSubquery = `books.id IN (SELECT book_tags.book_id FROM book_tags
		JOIN tags ON tags.id = book_tags.tag_id WHERE %s)`
	seriesSubquery = `books.id IN (SELECT series_memberships.book_id FROM series_memberships
		JOIN series ON series.id = series_memberships.series_id WHERE %s)`
	creditSubquery = `books.id IN (SELECT credits.book_id FROM credits
		JOIN persons ON persons.id = credits.person_id WHERE credits.role = ? AND %s)`
)

// Scope turns the predicate and a raw parameter value into a query scope.
// The second result is false when the value selects nothing to filter on.
func (p Predicate) Scope(value string) (Scope, bool) {
	if p.Kind == Custom {
		return p.customFunc(value)
	}

	var column string
	switch p.target {
	case tagValue:
		column = "tags.value"
	case seriesTitle:
		column = "series.title"
	case creditedPerson:
		column = "persons.name"
	default:
		column = p.column
	}

	cond, arg := matchCondition(column, p.Kind, value, p.foldCase)

	switch p.target {
	case tagValue:
		return where(fmt.Sprintf(tagSubquery, cond), arg), true
	case seriesTitle:
		return where(fmt.Sprintf(seriesSubquery, cond), arg), true
	case creditedPerson:
		return where(fmt.Sprintf(creditSubquery, cond), p.role, arg), true
	default:
		return where(cond, arg), true
	}
}

// matchCondition builds the SQL condition for one column. Suffixed kinds are
// always case-insensitive; exact matches fold case only when asked to.
func matchCondition(column string, kind Kind, value string, foldCase bool) (string, string) {
	switch kind {
	case Contains:
		return likeCondition(column), "%" + escapeLike(strings.ToLower(value)) + "%"
	case StartsWith:
		return likeCondition(column), escapeLike(strings.ToLower(value)) + "%"
	case EndsWith:
		return likeCondition(column), "%" + escapeLike(strings.ToLower(value))
	}
	if foldCase {
		return foldColumn(column) + " = ?", strings.ToLower(value)
	}
	return column + " = ?", value
}

func likeCondition(column string) string {
	return foldColumn(column) + ` LIKE ? ESCAPE '\'`
}

// foldColumn must agree with strings.ToLower on the value side.
func foldColumn(column string) string {
	return database.FoldFunc + "(" + column + ")"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func where(query string, args ...any) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(query, args...)
	}
}
