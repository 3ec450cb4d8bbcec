package config

const (
	// DefaultDatabasePath is the default path for the catalog database
	DefaultDatabasePath = "./catalog.db"

	DefaultOpenLibraryBaseURL = "https://openlibrary.org"

	// DefaultSortNameFormat renders "Kurt Vonnegut Jr." as "Vonnegut, Kurt Jr."
	DefaultSortNameFormat = "{last}, {title} {first} {suffix}"

	DefaultPageSize = 10
)
