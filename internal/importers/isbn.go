package importers

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/mrlokans/catalog/internal/config"
	"github.com/mrlokans/catalog/internal/entities"
	"github.com/mrlokans/catalog/internal/isbn"
	"github.com/mrlokans/catalog/internal/metadata"
	"github.com/mrlokans/catalog/internal/names"
	"github.com/mrlokans/catalog/internal/utils"
)

// MetadataSource resolves bibliographic data for an ISBN.
//
// Implemented by metadata.OpenLibraryClient.
type MetadataSource interface {
	LookupISBN(ctx context.Context, isbn string) (*metadata.BookMetadata, error)
	PhysicalFormat(ctx context.Context, isbn string) (string, error)
	Classify(ctx context.Context, isbn string) ([]metadata.Classification, error)
}

// BookStore persists imported books and their author credits.
type BookStore interface {
	FindBookByISBN(isbn string) (*entities.Book, error)
	CreateBook(book *entities.Book) error
	AddCredit(bookID, personID uint, role entities.Role, order int) (*entities.Credit, error)
}

// PersonStore resolves credited persons by name.
type PersonStore interface {
	GetOrCreatePerson(name, sortName string) (*entities.Person, bool, error)
	GetPersonByID(id uint) (*entities.Person, error)
}

// TagStore attaches classifier tags to books.
type TagStore interface {
	GetOrCreateTag(value string) (*entities.Tag, error)
	AddTagToBook(bookID, tagID uint) error
}

// ClassifierRefreshQueue schedules a later classifier lookup for a book
// imported while the classifier was unreachable.
type ClassifierRefreshQueue interface {
	EnqueueClassifierRefresh(ctx context.Context, bookID uint, isbn string) error
}

// Status describes what happened to one submitted ISBN.
type Status string

const (
	StatusImported Status = "imported"
	StatusExisting Status = "existing"
	StatusFailed   Status = "failed"
)

// Result is the outcome of importing one ISBN.
type Result struct {
	ISBN    string
	Status  Status
	BookID  uint
	Title   string
	Message string
}

// Success reports whether the ISBN ended up in the catalog.
func (r Result) Success() bool {
	return r.Status != StatusFailed
}

// ISBNImporter creates catalog books from ISBNs.
//
// Each ISBN goes through: validate → skip if cataloged → fetch metadata →
// split title → resolve format → credit authors → attach classifier tags.
// Failures are recorded per ISBN and never abort the rest of the batch.
type ISBNImporter struct {
	source         MetadataSource
	books          BookStore
	persons        PersonStore
	tags           TagStore
	refresh        ClassifierRefreshQueue
	sortNameFormat string
}

// NewISBNImporter creates an importer. An empty sortNameFormat falls back
// to config.DefaultSortNameFormat.
func NewISBNImporter(source MetadataSource, books BookStore, persons PersonStore, tags TagStore, sortNameFormat string) *ISBNImporter {
	if sortNameFormat == "" {
		sortNameFormat = config.DefaultSortNameFormat
	}
	return &ISBNImporter{
		source:         source,
		books:          books,
		persons:        persons,
		tags:           tags,
		sortNameFormat: sortNameFormat,
	}
}

// SetRefreshQueue enables background classifier retries.
func (i *ISBNImporter) SetRefreshQueue(queue ClassifierRefreshQueue) {
	i.refresh = queue
}

// Import processes isbns sequentially and returns one result per input.
func (i *ISBNImporter) Import(ctx context.Context, isbns []string) []Result {
	results := make([]Result, 0, len(isbns))
	for _, raw := range isbns {
		result := i.ImportOne(ctx, raw)
		if result.Status == StatusFailed {
			zap.S().Warnf("ISBN import failed for %q: %s", raw, result.Message)
		}
		results = append(results, result)
	}
	return results
}

// ImportOne imports a single ISBN.
func (i *ISBNImporter) ImportOne(ctx context.Context, raw string) Result {
	code, err := isbn.Validate(raw)
	if err != nil {
		return Result{ISBN: strings.TrimSpace(raw), Status: StatusFailed, Message: err.Error()}
	}

	existing, err := i.books.FindBookByISBN(code)
	if err != nil {
		return failed(code, fmt.Errorf("failed to check for existing book: %w", err))
	}
	if existing != nil {
		return Result{
			ISBN:    code,
			Status:  StatusExisting,
			BookID:  existing.ID,
			Title:   existing.Title,
			Message: "already cataloged",
		}
	}

	meta, err := i.source.LookupISBN(ctx, code)
	if err != nil {
		return failed(code, fmt.Errorf("metadata lookup failed: %w", err))
	}

	title, subtitle := utils.SplitTitle(meta.Title)
	book := &entities.Book{
		Title:           title,
		Subtitle:        subtitle,
		ISBN:            code,
		Publisher:       orUnknown(meta.Publisher),
		PublicationDate: orUnknown(meta.Year),
		Format:          i.lookupFormat(ctx, code),
	}
	if err := i.books.CreateBook(book); err != nil {
		return failed(code, err)
	}

	for n, author := range meta.Authors {
		person, _, err := i.persons.GetOrCreatePerson(author, names.SortName(author, i.sortNameFormat))
		if err != nil {
			return failed(code, fmt.Errorf("failed to save author %q: %w", author, err))
		}
		if _, err := i.books.AddCredit(book.ID, person.ID, entities.RoleAuthor, n+1); err != nil {
			return failed(code, fmt.Errorf("failed to credit author %q: %w", author, err))
		}
	}

	if err := i.applyClassifierTags(ctx, book.ID, code); err != nil {
		if errors.Is(err, metadata.ErrServiceDown) {
			i.scheduleRefresh(ctx, book.ID, code)
		} else {
			zap.S().Warnf("Classifier lookup failed for ISBN %s: %v", code, err)
		}
	}

	zap.S().Infof("Imported ISBN %s as book %d (%s)", code, book.ID, book.Title)
	return Result{
		ISBN:    code,
		Status:  StatusImported,
		BookID:  book.ID,
		Title:   book.Title,
		Message: "imported",
	}
}

// RefreshClassifierTags repeats the classifier lookup for an existing book.
// Unlike the import path it reports a service outage so the caller can retry.
func (i *ISBNImporter) RefreshClassifierTags(ctx context.Context, bookID uint, code string) error {
	return i.applyClassifierTags(ctx, bookID, code)
}

func (i *ISBNImporter) applyClassifierTags(ctx context.Context, bookID uint, code string) error {
	classes, err := i.source.Classify(ctx, code)
	if err != nil {
		return err
	}
	for _, value := range ClassifierTags(classes) {
		tag, err := i.tags.GetOrCreateTag(value)
		if err != nil {
			return fmt.Errorf("failed to save tag %q: %w", value, err)
		}
		if err := i.tags.AddTagToBook(bookID, tag.ID); err != nil {
			return fmt.Errorf("failed to tag book %d: %w", bookID, err)
		}
	}
	return nil
}

func (i *ISBNImporter) scheduleRefresh(ctx context.Context, bookID uint, code string) {
	if i.refresh == nil {
		zap.S().Warnf("Classifier unavailable for ISBN %s, importing without classifier tags", code)
		return
	}
	if err := i.refresh.EnqueueClassifierRefresh(ctx, bookID, code); err != nil {
		zap.S().Errorf("Failed to enqueue classifier refresh for book %d: %v", bookID, err)
		return
	}
	zap.S().Infof("Classifier unavailable for ISBN %s, refresh queued", code)
}

func (i *ISBNImporter) lookupFormat(ctx context.Context, code string) entities.Format {
	raw, err := i.source.PhysicalFormat(ctx, code)
	if err != nil {
		zap.S().Debugf("No physical format for ISBN %s: %v", code, err)
		return entities.FormatUnknown
	}
	return entities.ParseFormat(raw)
}

// ClassifierTags renders classifications as tag values. FAST headings become
// "fast:{number};{description}", every other system "{system}:{value}".
func ClassifierTags(classes []metadata.Classification) []string {
	var values []string
	for _, class := range classes {
		system := strings.ToLower(strings.TrimSpace(class.System))
		if system == "" {
			continue
		}
		if system == "fast" {
			numbers := make([]string, 0, len(class.Headings))
			for number := range class.Headings {
				numbers = append(numbers, number)
			}
			sort.Strings(numbers)
			for _, number := range numbers {
				values = append(values, fmt.Sprintf("fast:%s;%s", number, class.Headings[number]))
			}
			continue
		}
		if class.Value == "" {
			continue
		}
		values = append(values, system+":"+class.Value)
	}
	return values
}

func failed(code string, err error) Result {
	return Result{ISBN: code, Status: StatusFailed, Message: err.Error()}
}

func orUnknown(value string) string {
	if strings.TrimSpace(value) == "" {
		return entities.UnknownValue
	}
	return value
}
