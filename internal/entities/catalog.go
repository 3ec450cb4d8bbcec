package entities

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleAuthor      Role = "author"
	RoleEditor      Role = "editor"
	RoleTranslator  Role = "translator"
	RoleIllustrator Role = "illustrator"
	RoleAnnotator   Role = "annotator"
)

// Roles lists every credit role in display order.
var Roles = []Role{RoleAuthor, RoleEditor, RoleTranslator, RoleIllustrator, RoleAnnotator}

// Label returns the capitalised role name.
func (r Role) Label() string {
	if r == "" {
		return ""
	}
	return strings.ToUpper(string(r[:1])) + string(r[1:])
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

type Format string

const (
	FormatHardcover  Format = "hardcover"
	FormatPaperback  Format = "paperback"
	FormatMassMarket Format = "mass_market"
	FormatEbook      Format = "ebook"
	FormatMap        Format = "map"
	FormatChapbook   Format = "chapbook"
	FormatUnknown    Format = "?"
)

// Formats lists the selectable formats in display order.
var Formats = []Format{FormatHardcover, FormatPaperback, FormatMassMarket, FormatEbook, FormatMap, FormatChapbook}

var formatLabels = map[Format]string{
	FormatHardcover:  "Hardcover",
	FormatPaperback:  "Paperback",
	FormatMassMarket: "Mass-market paperback",
	FormatEbook:      "Ebook",
	FormatMap:        "Map",
	FormatChapbook:   "Chapbook",
	FormatUnknown:    "?",
}

func (f Format) Label() string {
	if label, ok := formatLabels[f]; ok {
		return label
	}
	return string(f)
}

// UnknownValue is stored for imported fields the metadata service left blank.
const UnknownValue = "?"

type Person struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"index;size:256" json:"name"`
	SortName  string    `gorm:"index;size:256" json:"sort_name"`
	Credits   []Credit  `gorm:"foreignKey:PersonID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName pins the table name used by raw filter and ordering SQL.
func (Person) TableName() string {
	return "persons"
}

func (p Person) String() string {
	return p.Name
}

type Book struct {
	ID              uint               `gorm:"primaryKey" json:"id"`
	UUID            string             `gorm:"uniqueIndex;size:36" json:"uuid"`
	Title           string             `gorm:"index;size:1024" json:"title"`
	Subtitle        string             `gorm:"size:1024" json:"subtitle,omitempty"`
	ISBN            string             `gorm:"index;size:13" json:"isbn,omitempty"`
	Publisher       string             `gorm:"size:256" json:"publisher,omitempty"`
	PublicationDate string             `gorm:"index;size:32" json:"publication_date,omitempty"`
	Format          Format             `gorm:"size:32" json:"format,omitempty"`
	Credits         []Credit           `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"credits,omitempty"`
	Tags            []Tag              `gorm:"many2many:book_tags;constraint:OnDelete:CASCADE" json:"tags,omitempty"`
	Memberships     []SeriesMembership `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"series,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// BeforeCreate mints the permalink UUID for new books.
func (b *Book) BeforeCreate(tx *gorm.DB) error {
	if b.UUID == "" {
		b.UUID = uuid.NewString()
	}
	return nil
}

func (b Book) String() string {
	return b.Title
}

// PersonsByRole returns the persons credited with role, ordered by credit order.
// Credits must be preloaded with their Person.
func (b *Book) PersonsByRole(role Role) []Person {
	credits := b.CreditsByRole(role)
	persons := make([]Person, 0, len(credits))
	for _, credit := range credits {
		persons = append(persons, credit.Person)
	}
	return persons
}

// CreditsByRole returns the credits with role, ordered by credit order.
func (b *Book) CreditsByRole(role Role) []Credit {
	var credits []Credit
	for _, credit := range b.Credits {
		if credit.Role == role {
			credits = append(credits, credit)
		}
	}
	sort.SliceStable(credits, func(i, j int) bool {
		return credits[i].Order < credits[j].Order
	})
	return credits
}

// PrimaryAuthor returns the order 1 author, or nil when the book has none.
func (b *Book) PrimaryAuthor() *Person {
	for _, credit := range b.Credits {
		if credit.Role == RoleAuthor && credit.Order == 1 {
			person := credit.Person
			return &person
		}
	}
	return nil
}

// PlainTags returns the genre/category tags.
func (b *Book) PlainTags() []Tag {
	var tags []Tag
	for _, tag := range b.Tags {
		if !tag.IsClassifier() {
			tags = append(tags, tag)
		}
	}
	return tags
}

// ClassifierTags returns the tags that encode an external classification.
func (b *Book) ClassifierTags() []Tag {
	var tags []Tag
	for _, tag := range b.Tags {
		if tag.IsClassifier() {
			tags = append(tags, tag)
		}
	}
	return tags
}

// Credit links a person to a book in a role. Order is 1-based within the role.
type Credit struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BookID    uint      `gorm:"index;not null" json:"book_id"`
	PersonID  uint      `gorm:"index;not null" json:"person_id"`
	Role      Role      `gorm:"size:16;default:'author'" json:"role"`
	Order     int       `gorm:"column:sort_order;default:1" json:"order"`
	Book      Book      `gorm:"foreignKey:BookID" json:"-"`
	Person    Person    `gorm:"foreignKey:PersonID" json:"person"`
	CreatedAt time.Time `json:"created_at"`
}

type Series struct {
	ID          uint               `gorm:"primaryKey" json:"id"`
	Title       string             `gorm:"index;size:512" json:"title"`
	Memberships []SeriesMembership `gorm:"foreignKey:SeriesID;constraint:OnDelete:CASCADE" json:"books,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
}

func (Series) TableName() string {
	return "series"
}

// SeriesMembership places a book in a series. Order is the book's number in the series.
type SeriesMembership struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	SeriesID uint   `gorm:"index;not null" json:"series_id"`
	BookID   uint   `gorm:"index;not null" json:"book_id"`
	Order    int    `gorm:"column:sort_order" json:"order"`
	Series   Series `gorm:"foreignKey:SeriesID" json:"series"`
	Book     Book   `gorm:"foreignKey:BookID" json:"-"`
}

const classifierSeparator = ":"

type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Value     string    `gorm:"uniqueIndex;size:512" json:"value"`
	Books     []Book    `gorm:"many2many:book_tags;" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (t Tag) String() string {
	return t.Value
}

// IsClassifier reports whether the tag encodes a classification system and code.
func (t Tag) IsClassifier() bool {
	return strings.Contains(t.Value, classifierSeparator)
}

// System returns the classification system of a classifier tag ("ddc" for "ddc:813").
func (t Tag) System() string {
	system, _, found := strings.Cut(t.Value, classifierSeparator)
	if !found {
		return ""
	}
	return system
}

// Code returns the part of a classifier tag after the system.
func (t Tag) Code() string {
	_, code, found := strings.Cut(t.Value, classifierSeparator)
	if !found {
		return t.Value
	}
	return code
}

var formatAliases = []struct {
	needle string
	format Format
}{
	{"mass market", FormatMassMarket},
	{"mass-market", FormatMassMarket},
	{"hardcover", FormatHardcover},
	{"hardback", FormatHardcover},
	{"hard cover", FormatHardcover},
	{"library binding", FormatHardcover},
	{"paperback", FormatPaperback},
	{"softcover", FormatPaperback},
	{"soft cover", FormatPaperback},
	{"ebook", FormatEbook},
	{"e-book", FormatEbook},
	{"electronic", FormatEbook},
	{"kindle", FormatEbook},
	{"chapbook", FormatChapbook},
	{"map", FormatMap},
}

// ParseFormat maps a free-form physical format description onto a Format.
// Anything unrecognised is FormatUnknown.
func ParseFormat(raw string) Format {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return FormatUnknown
	}
	for _, f := range Formats {
		if value == string(f) {
			return f
		}
	}
	for _, alias := range formatAliases {
		if strings.Contains(value, alias.needle) {
			return alias.format
		}
	}
	return FormatUnknown
}
