package catalog

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ========================================
// BOOK DTOs
// ========================================

// CreateBookRequest - POST /books/ body. Author is a name, resolved
// (and created if unseen) at write time.
type CreateBookRequest struct {
	Title         string `json:"title" binding:"required"`
	Author        string `json:"author" binding:"required"`
	Genre         string `json:"genre" binding:"required"`
	PublishedYear int    `json:"published_year" binding:"required"`
}

func (r *CreateBookRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Author = strings.TrimSpace(r.Author)
	r.Genre = strings.TrimSpace(r.Genre)
}

func (r CreateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.Length(1, 512),
		),
		validation.Field(&r.Author,
			validation.Required.Error("author is required"),
			validation.Length(1, 255),
		),
		validation.Field(&r.Genre,
			validation.Required.Error("genre is required"),
			validation.By(genreRule),
		),
		validation.Field(&r.PublishedYear,
			validation.Required.Error("published_year is required"),
			validation.Min(MinPublishedYear).Error("published_year must be 1800 or later"),
			validation.Max(time.Now().Year()).Error("published_year cannot be in the future"),
		),
	)
}

// UpdateBookRequest - PUT /books/:id body. Only supplied fields are
// applied; genre is re-validated when present.
type UpdateBookRequest struct {
	Title         *string `json:"title"`
	Author        *string `json:"author"`
	Genre         *string `json:"genre"`
	PublishedYear *int    `json:"published_year"`
}

func (r UpdateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.When(r.Title != nil, validation.Length(1, 512)),
		),
		validation.Field(&r.Author,
			validation.When(r.Author != nil, validation.Length(1, 255)),
		),
		validation.Field(&r.Genre,
			validation.When(r.Genre != nil, validation.By(genreRulePtr)),
		),
		validation.Field(&r.PublishedYear,
			validation.When(r.PublishedYear != nil,
				validation.Min(MinPublishedYear).Error("published_year must be 1800 or later"),
				validation.Max(time.Now().Year()).Error("published_year cannot be in the future"),
			),
		),
	)
}

// Empty reports whether the patch changes nothing.
func (r UpdateBookRequest) Empty() bool {
	return r.Title == nil && r.Author == nil && r.Genre == nil && r.PublishedYear == nil
}

func genreRule(value interface{}) error {
	g, _ := value.(string)
	if !GenreAllowed(g) {
		return ErrInvalidGenre
	}
	return nil
}

func genreRulePtr(value interface{}) error {
	g, ok := value.(*string)
	if !ok || g == nil {
		return nil
	}
	return genreRule(*g)
}

// ========================================
// LIST / FILTER DTOs
// ========================================

// ListBooksQuery - GET /books/ query parameters.
type ListBooksQuery struct {
	Skip     int    `form:"skip"`
	Limit    int    `form:"limit"`
	Sort     string `form:"sort"`
	Title    string `form:"title"`
	Author   string `form:"author"`
	Genre    string `form:"genre"`
	YearFrom *int   `form:"year_from"`
	YearTo   *int   `form:"year_to"`
}

// SetDefaults applies pagination defaults and clamps out-of-range
// values instead of rejecting them.
func (q *ListBooksQuery) SetDefaults() {
	if q.Limit <= 0 {
		q.Limit = 20
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
	if q.Skip < 0 {
		q.Skip = 0
	}
}

// ToFilter converts the query into a repository filter.
func (q ListBooksQuery) ToFilter() ListFilter {
	return ListFilter{
		Title:    q.Title,
		Author:   q.Author,
		Genre:    q.Genre,
		YearFrom: q.YearFrom,
		YearTo:   q.YearTo,
		Sort:     q.Sort,
		Limit:    q.Limit,
		Skip:     q.Skip,
	}
}

// ListFilter drives the dynamic WHERE/ORDER BY builder in the
// repository. Sort values outside the allow-list fall back to id.
type ListFilter struct {
	Title    string
	Author   string
	Genre    string
	YearFrom *int
	YearTo   *int
	Sort     string
	Limit    int
	Skip     int
}

// BookPatch is the partial update applied by UpdateBook. Nil fields are
// left unchanged.
type BookPatch struct {
	Title         *string
	Genre         *string
	PublishedYear *int
	AuthorName    *string
}

// ========================================
// IMPORT DTOs
// ========================================

// ImportRow is one parsed row of an uploaded CSV or JSON file, before
// validation.
type ImportRow struct {
	Title         string
	Author        string
	Genre         string
	PublishedYear int
}

// ToCreateRequest converts a row into the create DTO so import rows go
// through the exact same validation as the create endpoint.
func (r ImportRow) ToCreateRequest() CreateBookRequest {
	return CreateBookRequest{
		Title:         r.Title,
		Author:        r.Author,
		Genre:         r.Genre,
		PublishedYear: r.PublishedYear,
	}
}

// ImportResult summarizes a bulk import. Per-row failures are counted,
// never surfaced individually.
type ImportResult struct {
	Imported int `json:"imported"`
}
