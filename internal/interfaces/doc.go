// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
// Consumers declare the narrow store they need next to the code using it:
//
//   - BookStore, PersonStore, CreditStore, TagStore: catalog pages (internal/http/stores.go)
//   - BookStore, PersonStore, TagStore: ISBN and title imports (internal/importers/isbn.go)
//   - BookStore, PersonStore, TagStore, SeriesStore: YAML fixtures (internal/seed/seed.go)
//   - BookEditor: bulk editing (internal/services/interfaces.go)
//
// All of them are implemented by the repositories under internal/database.
//
// ## External Service Interfaces
//
//   - MetadataSource: ISBN metadata, physical format and classifications (internal/importers/isbn.go)
//   - URLResolver: cover image location for an ISBN (internal/covers/cache.go)
//
// ## Background Work Interfaces
//
//   - ClassifierRefreshQueue: retry classifier lookups later (internal/importers/isbn.go)
//   - CleanupEnqueuer: hand scheduled tag cleanup to the queue (internal/scheduler/tag_cleanup.go)
//
// # Adding a New Metadata Provider
//
// To add a new source of book metadata (e.g., Google Books):
//
//  1. Implement MetadataSource in internal/metadata/
//
//     type GoogleBooksClient struct {
//         apiKey     string
//         httpClient *http.Client
//     }
//
//     func (c *GoogleBooksClient) LookupISBN(ctx context.Context, isbn string) (*BookMetadata, error)
//     func (c *GoogleBooksClient) PhysicalFormat(ctx context.Context, isbn string) (string, error)
//     func (c *GoogleBooksClient) Classify(ctx context.Context, isbn string) ([]Classification, error)
//
//  2. Pass it to importers.NewISBNImporter in entrypoint/app.go
//
// # Adding a New Filter
//
// Listing filters live in filters.DefaultRegistry. A filter names a field
// and the supported operations; the registry turns query parameters into
// gorm scopes, so no controller changes are needed.
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
