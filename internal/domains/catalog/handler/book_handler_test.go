package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookcatalog-backend/internal/domains/catalog"
)

// fakeService is an in-memory catalog.Service for handler tests.
type fakeService struct {
	books  map[int64]*catalog.Book
	nextID int64
}

func newFakeService() *fakeService {
	return &fakeService{books: map[int64]*catalog.Book{}}
}

func (f *fakeService) Create(ctx context.Context, req catalog.CreateBookRequest) (*catalog.Book, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	f.nextID++
	b := &catalog.Book{
		ID:            f.nextID,
		Title:         req.Title,
		Genre:         req.Genre,
		PublishedYear: req.PublishedYear,
		Author:        catalog.Author{ID: f.nextID, Name: req.Author},
	}
	f.books[b.ID] = b
	return b, nil
}

func (f *fakeService) Get(ctx context.Context, id int64) (*catalog.Book, error) {
	b, ok := f.books[id]
	if !ok {
		return nil, catalog.ErrBookNotFound
	}
	return b, nil
}

func (f *fakeService) Update(ctx context.Context, id int64, req catalog.UpdateBookRequest) (*catalog.Book, error) {
	b, ok := f.books[id]
	if !ok {
		return nil, catalog.ErrBookNotFound
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Title != nil {
		b.Title = *req.Title
	}
	return b, nil
}

func (f *fakeService) Delete(ctx context.Context, id int64) error {
	if _, ok := f.books[id]; !ok {
		return catalog.ErrBookNotFound
	}
	delete(f.books, id)
	return nil
}

func (f *fakeService) List(ctx context.Context, query catalog.ListBooksQuery) ([]catalog.Book, int, error) {
	out := make([]catalog.Book, 0, len(f.books))
	for _, b := range f.books {
		out = append(out, *b)
	}
	return out, len(f.books), nil
}

func (f *fakeService) Recommend(ctx context.Context, id int64, limit int) ([]catalog.Book, error) {
	if _, ok := f.books[id]; !ok {
		return nil, catalog.ErrBookNotFound
	}
	return []catalog.Book{}, nil
}

func (f *fakeService) Import(ctx context.Context, filename string, r io.Reader) (*catalog.ImportResult, error) {
	return &catalog.ImportResult{Imported: 0}, nil
}

func (f *fakeService) ExportCSV(ctx context.Context, w io.Writer) error {
	_, err := io.WriteString(w, "id,title,genre,published_year,author\n")
	return err
}

func setupRouter(svc catalog.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewBookHandler(svc)
	ie := NewImportExportHandler(svc)

	r := gin.New()
	books := r.Group("/books")
	{
		books.POST("", h.Create)
		books.GET("", h.List)
		books.GET("/export", ie.Export)
		books.POST("/import", ie.Import)
		books.GET("/:id", h.Get)
		books.PUT("/:id", h.Update)
		books.DELETE("/:id", h.Delete)
		books.GET("/:id/recommend", h.Recommend)
	}
	return r
}

func doJSON(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateBookReturnsAuthor(t *testing.T) {
	r := setupRouter(newFakeService())

	w := doJSON(r, http.MethodPost, "/books", gin.H{
		"title":          "Dune",
		"author":         "Frank Herbert",
		"genre":          "Science",
		"published_year": 1965,
	})

	require.Equal(t, http.StatusOK, w.Code)

	var got catalog.Book
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Dune", got.Title)
	assert.Equal(t, "Frank Herbert", got.Author.Name)
	assert.NotZero(t, got.ID)
}

func TestCreateBookInvalidGenre(t *testing.T) {
	r := setupRouter(newFakeService())

	w := doJSON(r, http.MethodPost, "/books", gin.H{
		"title":          "Dune",
		"author":         "Frank Herbert",
		"genre":          "Romance",
		"published_year": 1965,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "detail")
}

func TestCreateBookMalformedBody(t *testing.T) {
	r := setupRouter(newFakeService())

	req := httptest.NewRequest(http.MethodPost, "/books", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListSetsTotalCount(t *testing.T) {
	r := setupRouter(newFakeService())

	created := doJSON(r, http.MethodPost, "/books", gin.H{
		"title":          "Dune",
		"author":         "Frank Herbert",
		"genre":          "Science",
		"published_year": 1965,
	})
	require.Equal(t, http.StatusOK, created.Code)

	w := doJSON(r, http.MethodGet, "/books", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-Total-Count"))

	var got []catalog.Book
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got, 1)
}

func TestGetMissingBook(t *testing.T) {
	r := setupRouter(newFakeService())

	w := doJSON(r, http.MethodGet, "/books/42", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"detail":"Book not found"}`, w.Body.String())
}

func TestGetUnparsableIDIsNotFound(t *testing.T) {
	r := setupRouter(newFakeService())

	w := doJSON(r, http.MethodGet, "/books/abc", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"detail":"Book not found"}`, w.Body.String())
}

func TestDeleteBook(t *testing.T) {
	svc := newFakeService()
	r := setupRouter(svc)

	created := doJSON(r, http.MethodPost, "/books", gin.H{
		"title":          "Dune",
		"author":         "Frank Herbert",
		"genre":          "Science",
		"published_year": 1965,
	})
	require.Equal(t, http.StatusOK, created.Code)

	w := doJSON(r, http.MethodDelete, "/books/1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = doJSON(r, http.MethodDelete, "/books/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecommendMissingSource(t *testing.T) {
	r := setupRouter(newFakeService())

	w := doJSON(r, http.MethodGet, "/books/99/recommend", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportSetsCSVHeaders(t *testing.T) {
	r := setupRouter(newFakeService())

	w := doJSON(r, http.MethodGet, "/books/export", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Equal(t, "id,title,genre,published_year,author\n", w.Body.String())
}

func TestImportRejectsUnknownExtension(t *testing.T) {
	r := setupRouter(newFakeService())

	var buf bytes.Buffer
	mw := newMultipartFile(t, &buf, "books.txt", "title,author,genre,published_year\n")

	req := httptest.NewRequest(http.MethodPost, "/books/import", &buf)
	req.Header.Set("Content-Type", mw)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImportAcceptsCSVUpload(t *testing.T) {
	r := setupRouter(newFakeService())

	var buf bytes.Buffer
	mw := newMultipartFile(t, &buf, "books.csv", "title,author,genre,published_year\n")

	req := httptest.NewRequest(http.MethodPost, "/books/import", &buf)
	req.Header.Set("Content-Type", mw)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"imported":0}`, w.Body.String())
}

func TestImportWithoutFile(t *testing.T) {
	r := setupRouter(newFakeService())

	w := doJSON(r, http.MethodPost, "/books/import", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func newMultipartFile(t *testing.T, buf *bytes.Buffer, filename, content string) string {
	t.Helper()
	boundary := "testboundary"
	fmt.Fprintf(buf, "--%s\r\n", boundary)
	fmt.Fprintf(buf, "Content-Disposition: form-data; name=\"file\"; filename=%q\r\n", filename)
	fmt.Fprintf(buf, "Content-Type: application/octet-stream\r\n\r\n")
	buf.WriteString(content)
	fmt.Fprintf(buf, "\r\n--%s--\r\n", boundary)
	return "multipart/form-data; boundary=" + boundary
}
