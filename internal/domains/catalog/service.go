package catalog

import (
	"context"
	"io"
)

// Service is the catalog business logic contract.
type Service interface {
	Create(ctx context.Context, req CreateBookRequest) (*Book, error)
	Get(ctx context.Context, id int64) (*Book, error)
	Update(ctx context.Context, id int64, req UpdateBookRequest) (*Book, error)
	Delete(ctx context.Context, id int64) error
	// List returns the matching page plus the total count for
	// pagination metadata.
	List(ctx context.Context, query ListBooksQuery) ([]Book, int, error)
	Recommend(ctx context.Context, id int64, limit int) ([]Book, error)

	// Import parses an uploaded CSV or JSON file (chosen by filename
	// extension) and creates books row by row. Rows failing validation
	// are skipped silently; a storage failure aborts the import.
	Import(ctx context.Context, filename string, r io.Reader) (*ImportResult, error)

	// ExportCSV streams all books (capped) as CSV.
	ExportCSV(ctx context.Context, w io.Writer) error
}
