// Package importers adds books to the catalog.
//
// # ISBN import
//
// ISBNImporter turns ISBNs into books using an external MetadataSource:
//
//	ISBN → validate → skip if cataloged → LookupISBN → SplitTitle
//	     → PhysicalFormat → persons + author credits → classifier tags
//
// Every ISBN yields a Result; a failing ISBN never aborts the batch. An ISBN
// already present in the catalog is reported as StatusExisting and counts
// as a success. When the classifier is down the book is imported without
// classifier tags and, if a ClassifierRefreshQueue is set, a retry is queued.
//
// Person sort names are derived with an explicit layout (see names.SortName),
// so concurrent imports never share name parsing state.
//
// # Manual import
//
// TitleImporter creates books by title for an existing author:
//
//	importer := importers.NewTitleImporter(booksRepo, personsRepo)
//	books, err := importer.Import(authorID, "Emma\nPersuasion 9780141439686")
package importers
