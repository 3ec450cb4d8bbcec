// Package seed loads a YAML catalog fixture into the database.
//
//	books:
//	  - title: Dune
//	    isbn: "9780441172719"
//	    format: paperback
//	    credits:
//	      - name: Frank Herbert
//	    tags: [novel]
//	    series: {title: Dune Chronicles, order: 1}
package seed

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/mrlokans/catalog/internal/config"
	"github.com/mrlokans/catalog/internal/entities"
	"github.com/mrlokans/catalog/internal/isbn"
	"github.com/mrlokans/catalog/internal/names"
	"github.com/mrlokans/catalog/internal/validation"
)

type Fixture struct {
	Books []BookRecord `yaml:"books" validate:"dive"`
}

type BookRecord struct {
	Title           string         `yaml:"title" validate:"required"`
	Subtitle        string         `yaml:"subtitle"`
	ISBN            string         `yaml:"isbn" validate:"omitempty,isbn"`
	Publisher       string         `yaml:"publisher"`
	PublicationDate string         `yaml:"publication_date"`
	Format          string         `yaml:"format" validate:"omitempty,format"`
	Credits         []CreditRecord `yaml:"credits" validate:"dive"`
	Tags            []string       `yaml:"tags" validate:"dive,required"`
	Series          *SeriesRecord  `yaml:"series"`
}

// CreditRecord credits a person by name. Role defaults to author and
// order to the next free position for the role.
type CreditRecord struct {
	Name     string `yaml:"name" validate:"required"`
	SortName string `yaml:"sort_name"`
	Role     string `yaml:"role" validate:"omitempty,role"`
	Order    int    `yaml:"order" validate:"gte=0"`
}

type SeriesRecord struct {
	Title string `yaml:"title" validate:"required"`
	Order int    `yaml:"order" validate:"gte=0"`
}

// Parse decodes and validates a fixture. Unknown keys are rejected.
func Parse(r io.Reader) (*Fixture, error) {
	var fixture Fixture
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&fixture); err != nil {
		if errors.Is(err, io.EOF) {
			return &fixture, nil
		}
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}
	if err := validation.New().Validate(fixture); err != nil {
		return nil, err
	}
	return &fixture, nil
}

// ParseFile reads a fixture from path.
func ParseFile(path string) (*Fixture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

type BookStore interface {
	FindBookByISBN(isbn string) (*entities.Book, error)
	CreateBook(book *entities.Book) error
	AddCredit(bookID, personID uint, role entities.Role, order int) (*entities.Credit, error)
	NextCreditOrder(bookID uint, role entities.Role) (int, error)
}

type PersonStore interface {
	GetOrCreatePerson(name, sortName string) (*entities.Person, bool, error)
}

type TagStore interface {
	GetOrCreateTag(value string) (*entities.Tag, error)
	AddTagToBook(bookID, tagID uint) error
}

type SeriesStore interface {
	GetOrCreateSeries(title string) (*entities.Series, error)
	AddBookToSeries(seriesID, bookID uint, order int) error
}

// Report counts what a seed run did.
type Report struct {
	Created int
	Skipped int
}

// Seeder writes fixtures through the catalog repositories.
type Seeder struct {
	Books          BookStore
	Persons        PersonStore
	Tags           TagStore
	Series         SeriesStore
	SortNameFormat string
}

// Seed creates every fixture book whose ISBN is not already cataloged.
// Books without an ISBN are always created.
func (s *Seeder) Seed(fixture *Fixture) (Report, error) {
	var report Report
	for _, record := range fixture.Books {
		created, err := s.seedBook(record)
		if err != nil {
			return report, fmt.Errorf("seed %q: %w", record.Title, err)
		}
		if created {
			report.Created++
		} else {
			report.Skipped++
		}
	}
	zap.S().Infof("Seeded %d books (%d already present)", report.Created, report.Skipped)
	return report, nil
}

func (s *Seeder) seedBook(record BookRecord) (bool, error) {
	code := ""
	if record.ISBN != "" {
		code = isbn.Normalize(record.ISBN)
		existing, err := s.Books.FindBookByISBN(code)
		if err != nil {
			return false, err
		}
		if existing != nil {
			return false, nil
		}
	}

	book := &entities.Book{
		Title:           record.Title,
		Subtitle:        record.Subtitle,
		ISBN:            code,
		Publisher:       record.Publisher,
		PublicationDate: record.PublicationDate,
		Format:          entities.Format(record.Format),
	}
	if err := s.Books.CreateBook(book); err != nil {
		return false, err
	}

	for _, credit := range record.Credits {
		if err := s.addCredit(book.ID, credit); err != nil {
			return false, err
		}
	}

	for _, value := range record.Tags {
		tag, err := s.Tags.GetOrCreateTag(value)
		if err != nil {
			return false, err
		}
		if err := s.Tags.AddTagToBook(book.ID, tag.ID); err != nil {
			return false, err
		}
	}

	if record.Series != nil {
		series, err := s.Series.GetOrCreateSeries(record.Series.Title)
		if err != nil {
			return false, err
		}
		if err := s.Series.AddBookToSeries(series.ID, book.ID, record.Series.Order); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (s *Seeder) addCredit(bookID uint, record CreditRecord) error {
	role := entities.Role(record.Role)
	if role == "" {
		role = entities.RoleAuthor
	}
	sortName := record.SortName
	if sortName == "" {
		layout := s.SortNameFormat
		if layout == "" {
			layout = config.DefaultSortNameFormat
		}
		sortName = names.SortName(record.Name, layout)
	}
	person, _, err := s.Persons.GetOrCreatePerson(record.Name, sortName)
	if err != nil {
		return err
	}
	order := record.Order
	if order == 0 {
		if order, err = s.Books.NextCreditOrder(bookID, role); err != nil {
			return err
		}
	}
	_, err = s.Books.AddCredit(bookID, person.ID, role, order)
	return err
}
