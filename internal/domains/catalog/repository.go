package catalog

import "context"

// Repository is the catalog data access contract. Implementations must
// return books with the author eagerly populated.
type Repository interface {
	// FindOrCreateAuthor looks an author up by exact name and inserts
	// it when absent.
	FindOrCreateAuthor(ctx context.Context, name string) (*Author, error)

	// CreateBook resolves the author (creating it if unseen) and
	// inserts the book, atomically.
	CreateBook(ctx context.Context, title, genre string, year int, authorName string) (*Book, error)

	// GetBook returns ErrBookNotFound when id does not exist.
	GetBook(ctx context.Context, id int64) (*Book, error)

	// UpdateBook applies only the non-nil patch fields. A new author
	// name re-resolves the author; the old one is never deleted.
	UpdateBook(ctx context.Context, id int64, patch BookPatch) (*Book, error)

	// DeleteBook hard-deletes. ErrBookNotFound when absent.
	DeleteBook(ctx context.Context, id int64) error

	// ListBooks applies the dynamic filter, allow-listed sort and
	// pagination.
	ListBooks(ctx context.Context, filter ListFilter) ([]Book, error)

	// CountBooks returns the total matching the filter, for list meta.
	CountBooks(ctx context.Context, filter ListFilter) (int, error)

	// ListAllForExport returns up to cap books ordered by id.
	ListAllForExport(ctx context.Context, cap int) ([]Book, error)

	// Recommend returns up to limit other books sharing the source
	// book's author or genre. ErrBookNotFound when the source is absent.
	Recommend(ctx context.Context, bookID int64, limit int) ([]Book, error)
}
