package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/mrlokans/catalog/internal/config"
)

var (
	// ErrNotFound means the service answered but knows nothing about the ISBN.
	ErrNotFound = errors.New("ISBN not found")
	// ErrServiceDown means the service could not be reached or failed on its side.
	ErrServiceDown = errors.New("metadata service is down")
)

const userAgent = "Catalog/1.0 (https://github.com/mrlokans/catalog)"

// BookMetadata is the bibliographic record for one ISBN.
type BookMetadata struct {
	ISBN      string   `json:"isbn"`
	Title     string   `json:"title"`
	Authors   []string `json:"authors,omitempty"`
	Publisher string   `json:"publisher,omitempty"`
	Year      string   `json:"year,omitempty"`
}

// Classification is one external classification of a book. FAST subject
// headings carry their number and description in Headings instead of Value.
type Classification struct {
	System   string            `json:"system"`
	Value    string            `json:"value,omitempty"`
	Headings map[string]string `json:"headings,omitempty"`
}

// OpenLibraryClient fetches book metadata from the OpenLibrary API.
type OpenLibraryClient struct {
	httpClient    *http.Client
	baseURL       string
	coversBaseURL string
	limiter       *rate.Limiter
}

// NewOpenLibraryClient creates a new OpenLibrary API client with rate limiting.
func NewOpenLibraryClient(cfg config.OpenLibrary) *OpenLibraryClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	limit := rate.Inf
	if cfg.Rate > 0 {
		limit = rate.Limit(cfg.Rate)
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = config.DefaultOpenLibraryBaseURL
	}
	return &OpenLibraryClient{
		httpClient:    &http.Client{Timeout: timeout},
		baseURL:       baseURL,
		coversBaseURL: "https://covers.openlibrary.org",
		limiter:       rate.NewLimiter(limit, 1),
	}
}

// CoverURL returns the large cover image URL for isbn. The service answers
// 404 instead of a placeholder when it has no cover.
func (c *OpenLibraryClient) CoverURL(isbn string) string {
	return fmt.Sprintf("%s/b/isbn/%s-L.jpg?default=false", c.coversBaseURL, isbn)
}

// LookupISBN fetches the edition record for isbn and resolves its authors.
func (c *OpenLibraryClient) LookupISBN(ctx context.Context, isbn string) (*BookMetadata, error) {
	var edition openLibraryEdition
	if err := c.getJSON(ctx, fmt.Sprintf("%s/isbn/%s.json", c.baseURL, url.PathEscape(isbn)), &edition); err != nil {
		return nil, err
	}
	if edition.Title == "" {
		return nil, fmt.Errorf("%w: %s has no title", ErrNotFound, isbn)
	}

	metadata := &BookMetadata{
		ISBN:  isbn,
		Title: edition.Title,
		Year:  extractYear(edition.PublishDate),
	}
	if edition.Subtitle != "" && !strings.Contains(edition.Title, " - ") {
		metadata.Title = edition.Title + " - " + edition.Subtitle
	}
	if len(edition.Publishers) > 0 {
		metadata.Publisher = edition.Publishers[0]
	}

	for _, ref := range edition.Authors {
		name, err := c.fetchAuthorName(ctx, ref.Key)
		if err != nil {
			zap.S().Warnf("Failed to resolve author %s for ISBN %s: %v", ref.Key, isbn, err)
			continue
		}
		if name != "" {
			metadata.Authors = append(metadata.Authors, name)
		}
	}

	return metadata, nil
}

// PhysicalFormat returns the free text physical format recorded for isbn,
// e.g. "Paperback".
func (c *OpenLibraryClient) PhysicalFormat(ctx context.Context, isbn string) (string, error) {
	var response map[string]struct {
		Details struct {
			PhysicalFormat string `json:"physical_format"`
		} `json:"details"`
	}
	if err := c.getJSON(ctx, c.booksAPIURL(isbn, "details"), &response); err != nil {
		return "", err
	}
	entry, ok := response["ISBN:"+isbn]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, isbn)
	}
	return entry.Details.PhysicalFormat, nil
}

// Classify returns the classifications OpenLibrary knows for isbn: Dewey,
// Library of Congress, OCLC and LCCN.
func (c *OpenLibraryClient) Classify(ctx context.Context, isbn string) ([]Classification, error) {
	var response map[string]openLibraryData
	if err := c.getJSON(ctx, c.booksAPIURL(isbn, "data"), &response); err != nil {
		return nil, err
	}
	data, ok := response["ISBN:"+isbn]
	if !ok {
		return nil, nil
	}

	var classes []Classification
	add := func(system string, values []string) {
		if len(values) > 0 && strings.TrimSpace(values[0]) != "" {
			classes = append(classes, Classification{System: system, Value: strings.TrimSpace(values[0])})
		}
	}
	add("ddc", data.Classifications.DeweyDecimalClass)
	add("lcc", data.Classifications.LCClassifications)
	add("oclc", data.Identifiers.OCLC)
	add("lccn", data.Identifiers.LCCN)
	return classes, nil
}

func (c *OpenLibraryClient) booksAPIURL(isbn, jscmd string) string {
	query := url.Values{}
	query.Set("bibkeys", "ISBN:"+isbn)
	query.Set("format", "json")
	query.Set("jscmd", jscmd)
	return c.baseURL + "/api/books?" + query.Encode()
}

func (c *OpenLibraryClient) fetchAuthorName(ctx context.Context, authorKey string) (string, error) {
	if authorKey == "" {
		return "", fmt.Errorf("empty author key")
	}
	var author struct {
		Name         string `json:"name"`
		PersonalName string `json:"personal_name"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("%s%s.json", c.baseURL, authorKey), &author); err != nil {
		return "", err
	}
	if author.Name == "" {
		return author.PersonalName, nil
	}
	return author.Name, nil
}

// getJSON performs a rate limited GET and decodes the JSON body into target.
// Transport failures and 5xx answers map to ErrServiceDown, 404 to ErrNotFound.
func (c *OpenLibraryClient) getJSON(ctx context.Context, target string, into any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	zap.S().Debugf("GET %s", target)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrServiceDown, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("%w: status %d", ErrServiceDown, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// extractYear pulls a 4-digit year out of a free text date, or returns the
// trimmed text when there is none.
func extractYear(dateStr string) string {
	dateStr = strings.TrimSpace(dateStr)
	if len(dateStr) < 4 {
		return dateStr
	}

	formats := []string{
		"2006",
		"January 2, 2006",
		"Jan 2, 2006",
		"2006-01-02",
		"January 2006",
	}
	for _, format := range formats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return strconv.Itoa(t.Year())
		}
	}

	for i := 0; i <= len(dateStr)-4; i++ {
		candidate := dateStr[i : i+4]
		if year, err := strconv.Atoi(candidate); err == nil && year > 1000 && year < 3000 {
			return candidate
		}
	}

	return dateStr
}

// OpenLibrary API response types (internal)

type openLibraryEdition struct {
	Key         string      `json:"key"`
	Title       string      `json:"title"`
	Subtitle    string      `json:"subtitle"`
	Authors     []authorRef `json:"authors"`
	Publishers  []string    `json:"publishers"`
	PublishDate string      `json:"publish_date"`
}

type authorRef struct {
	Key string `json:"key"`
}

type openLibraryData struct {
	Classifications struct {
		DeweyDecimalClass []string `json:"dewey_decimal_class"`
		LCClassifications []string `json:"lc_classifications"`
	} `json:"classifications"`
	Identifiers struct {
		OCLC []string `json:"oclc"`
		LCCN []string `json:"lccn"`
	} `json:"identifiers"`
}
