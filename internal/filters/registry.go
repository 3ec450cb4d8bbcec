package filters

import (
	"net/url"
	"sort"
	"strings"

	"github.com/mrlokans/catalog/internal/entities"
)

// Tag values that decide the fiction and non-fiction categories.
var (
	fictionTags    = []string{"novel", "short stories"}
	nonFictionTags = []string{"novel", "short stories", "poetry", "comics", "play"}
)

// Categories lists the named category groups in display order.
var Categories = []string{"fiction", "non-fiction", "translated"}

var categoryScopes = map[string]Scope{
	"fiction": where(`books.id IN (SELECT book_tags.book_id FROM book_tags
		JOIN tags ON tags.id = book_tags.tag_id WHERE tags.value IN ?)`, fictionTags),
	"non-fiction": where(`books.id NOT IN (SELECT book_tags.book_id FROM book_tags
		JOIN tags ON tags.id = book_tags.tag_id WHERE tags.value IN ?)`, nonFictionTags),
	"translated": where(`books.id IN (SELECT credits.book_id FROM credits WHERE credits.role = ?)`,
		entities.RoleTranslator),
}

// Registry maps a query parameter name, suffix included, to its predicate.
type Registry map[string]Predicate

// DefaultRegistry holds every filter the catalog listing understands.
var DefaultRegistry = NewRegistry()

var matchKinds = []Kind{Exact, Contains, StartsWith, EndsWith}

func (r Registry) group(field string, base Predicate) {
	for _, kind := range matchKinds {
		p := base
		p.Field = field
		p.Kind = kind
		r[field+kind.Suffix()] = p
	}
}

func (r Registry) custom(field string, fn func(string) (Scope, bool)) {
	r[field] = Predicate{Field: field, Kind: Custom, customFunc: fn}
}

func NewRegistry() Registry {
	r := Registry{}

	r.custom("category", func(value string) (Scope, bool) {
		scope, ok := categoryScopes[value]
		return scope, ok
	})
	r["format"] = Predicate{Field: "format", Kind: Exact, target: bookColumn, column: "books.format"}
	r["year"] = Predicate{Field: "year", Kind: Exact, target: bookColumn, column: "books.publication_date"}
	r["isbn"] = Predicate{Field: "isbn", Kind: Exact, target: bookColumn, column: "books.isbn"}
	r.custom("q", func(value string) (Scope, bool) {
		value = strings.TrimSpace(value)
		if value == "" {
			return nil, false
		}
		pattern := "%" + escapeLike(strings.ToLower(value)) + "%"
		return where("("+likeCondition("books.title")+` OR books.id IN (SELECT credits.book_id FROM credits
			JOIN persons ON persons.id = credits.person_id WHERE `+likeCondition("persons.name")+"))",
			pattern, pattern), true
	})

	r.group("title", Predicate{target: bookColumn, column: "books.title"})
	r.group("publisher", Predicate{target: bookColumn, column: "books.publisher"})
	r.group("series", Predicate{target: seriesTitle})
	r.group("tag", Predicate{target: tagValue})
	for _, role := range entities.Roles {
		r.group(string(role), Predicate{target: creditedPerson, role: role, foldCase: true})
	}

	return r
}

// Applied is one filter in effect on the listing.
type Applied struct {
	Name      string // parameter name including any suffix, e.g. "title~"
	Value     string
	Label     string
	RemoveURL string
}

// Set is the result of building filters from a query.
type Set struct {
	Scopes  []Scope
	Applied []Applied
}

// Build turns the recognised parameters of u's query into scopes. Unknown
// names are ignored and every repeated value is applied. Parameters are
// visited in name order so labels come out stable.
func (r Registry) Build(u *url.URL) Set {
	query := u.Query()
	names := make([]string, 0, len(query))
	for name := range query {
		if _, ok := r[name]; ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var set Set
	for _, name := range names {
		predicate := r[name]
		for _, value := range query[name] {
			scope, ok := predicate.Scope(value)
			if !ok {
				continue
			}
			set.Scopes = append(set.Scopes, scope)
			set.Applied = append(set.Applied, Applied{
				Name:      name,
				Value:     value,
				Label:     predicate.Kind.Label(predicate.Field, value),
				RemoveURL: RemoveFilter(u, name, value),
			})
		}
	}
	return set
}

// Build applies the default registry.
func Build(u *url.URL) Set {
	return DefaultRegistry.Build(u)
}
