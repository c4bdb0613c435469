package service

import (
	"context"
	"fmt"
	"io"

	"bookcatalog-backend/internal/domains/catalog"
)

// ExportCap bounds the export endpoint.
const ExportCap = 10000

// bookService implements catalog.Service.
type bookService struct {
	repo catalog.Repository
}

func NewBookService(repo catalog.Repository) catalog.Service {
	return &bookService{repo: repo}
}

func (s *bookService) Create(ctx context.Context, req catalog.CreateBookRequest) (*catalog.Book, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Validation already covers membership; this guard keeps the
	// invariant independent of the DTO layer.
	if !catalog.GenreAllowed(req.Genre) {
		return nil, catalog.ErrInvalidGenre
	}

	return s.repo.CreateBook(ctx, req.Title, req.Genre, req.PublishedYear, req.Author)
}

func (s *bookService) Get(ctx context.Context, id int64) (*catalog.Book, error) {
	return s.repo.GetBook(ctx, id)
}

func (s *bookService) Update(ctx context.Context, id int64, req catalog.UpdateBookRequest) (*catalog.Book, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Genre != nil && !catalog.GenreAllowed(*req.Genre) {
		return nil, catalog.ErrInvalidGenre
	}
	if req.Empty() {
		// Nothing to change; still a read so a missing id stays a 404.
		return s.repo.GetBook(ctx, id)
	}

	return s.repo.UpdateBook(ctx, id, catalog.BookPatch{
		Title:         req.Title,
		Genre:         req.Genre,
		PublishedYear: req.PublishedYear,
		AuthorName:    req.Author,
	})
}

func (s *bookService) Delete(ctx context.Context, id int64) error {
	return s.repo.DeleteBook(ctx, id)
}

// List returns the page and the total count matching the filter, so
// the handler can expose pagination metadata.
func (s *bookService) List(ctx context.Context, query catalog.ListBooksQuery) ([]catalog.Book, int, error) {
	query.SetDefaults()
	filter := query.ToFilter()

	books, err := s.repo.ListBooks(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.repo.CountBooks(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return books, total, nil
}

func (s *bookService) Recommend(ctx context.Context, id int64, limit int) ([]catalog.Book, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.repo.Recommend(ctx, id, limit)
}

func (s *bookService) ExportCSV(ctx context.Context, w io.Writer) error {
	books, err := s.repo.ListAllForExport(ctx, ExportCap)
	if err != nil {
		return fmt.Errorf("load books for export: %w", err)
	}

	return writeBooksCSV(w, books)
}
