package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookcatalog-backend/internal/domains/catalog"
)

func TestImportCSVSkipsMalformedRows(t *testing.T) {
	repo := newFakeRepo()
	svc := NewBookService(repo)

	// 5 rows: 2 bad genres, 1 bad year -> 2 created.
	csvData := strings.Join([]string{
		"title,author,genre,published_year",
		"Dune,Frank Herbert,Science,1965",
		"Bad Genre,Someone,Cooking,1990",
		"Also Bad,Someone,NotAGenre,1991",
		"Too Old,Ancient,History,1492",
		"Foundation,Isaac Asimov,Science,1951",
	}, "\n")

	result, err := svc.Import(context.Background(), "books.csv", strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Len(t, repo.books, 2)
}

func TestImportLargeFile(t *testing.T) {
	repo := newFakeRepo()
	svc := NewBookService(repo)

	// No row count ceiling: a fully valid upload of any size imports
	// every row.
	var sb strings.Builder
	sb.WriteString("title,author,genre,published_year\n")
	for i := 0; i < 1001; i++ {
		fmt.Fprintf(&sb, "Book %d,Author %d,Science,1965\n", i, i)
	}

	result, err := svc.Import(context.Background(), "books.csv", strings.NewReader(sb.String()))
	require.NoError(t, err)
	assert.Equal(t, 1001, result.Imported)
	assert.Len(t, repo.books, 1001)
}

func TestImportCSVMissingColumns(t *testing.T) {
	svc := NewBookService(newFakeRepo())

	// No published_year column: every row fails validation, import
	// still succeeds with zero created.
	csvData := "title,author,genre\nDune,Frank Herbert,Science\n"

	result, err := svc.Import(context.Background(), "books.csv", strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Imported)
}

func TestImportJSON(t *testing.T) {
	repo := newFakeRepo()
	svc := NewBookService(repo)

	jsonData := `[
		{"title": "Dune", "author": "Frank Herbert", "genre": "Science", "published_year": 1965},
		{"title": "Bad", "author": "X", "genre": "Nope", "published_year": 2000},
		{"title": "Hobbit", "author": "J.R.R. Tolkien", "genre": "Fantasy", "published_year": "1937"}
	]`

	result, err := svc.Import(context.Background(), "books.json", strings.NewReader(jsonData))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
}

func TestImportUnparsableFileFails(t *testing.T) {
	svc := NewBookService(newFakeRepo())

	_, err := svc.Import(context.Background(), "books.json", strings.NewReader("{not json"))
	assert.Error(t, err)
}

func TestImportAbortsOnStorageFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.failCreates = true
	svc := NewBookService(repo)

	csvData := "title,author,genre,published_year\nDune,Frank Herbert,Science,1965\n"

	// A store outage is an error, never reported as "0 imported".
	_, err := svc.Import(context.Background(), "books.csv", strings.NewReader(csvData))
	assert.Error(t, err)
}

func TestImportDeduplicatesAuthors(t *testing.T) {
	repo := newFakeRepo()
	svc := NewBookService(repo)

	csvData := strings.Join([]string{
		"title,author,genre,published_year",
		"Dune,Frank Herbert,Science,1965",
		"Dune Messiah,Frank Herbert,Science,1969",
	}, "\n")

	result, err := svc.Import(context.Background(), "books.csv", strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Len(t, repo.authors, 1)
}

func TestExportCSVFormat(t *testing.T) {
	repo := newFakeRepo()
	svc := NewBookService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, catalog.CreateBookRequest{
		Title: "Dune", Author: "Frank Herbert", Genre: "Science", PublishedYear: 1965,
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCSV(ctx, &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "id,title,genre,published_year,author", lines[0])
	assert.Equal(t, "1,Dune,Science,1965,Frank Herbert", lines[1])
}

func TestExportCSVEmptyCatalog(t *testing.T) {
	svc := NewBookService(newFakeRepo())

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCSV(context.Background(), &buf))
	assert.Equal(t, "id,title,genre,published_year,author\n", buf.String())
}
