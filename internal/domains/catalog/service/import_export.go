package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"bookcatalog-backend/internal/domains/catalog"
)

// Import parses the uploaded file and creates books sequentially. A row
// that fails validation is dropped silently; only the count of created
// books is reported. A storage-level failure aborts the whole import so
// an outage is never reported as "0 imported".
func (s *bookService) Import(ctx context.Context, filename string, r io.Reader) (*catalog.ImportResult, error) {
	var rows []catalog.ImportRow
	var err error

	if strings.HasSuffix(strings.ToLower(filename), ".csv") {
		rows, err = parseCSVRows(r)
	} else {
		rows, err = parseJSONRows(r)
	}
	if err != nil {
		return nil, fmt.Errorf("parse import file: %w", err)
	}

	imported := 0
	for i, row := range rows {
		req := row.ToCreateRequest()
		req.Normalize()
		if err := req.Validate(); err != nil {
			log.Debug().Int("row", i+1).Err(err).Msg("Skipping invalid import row")
			continue
		}

		if _, err := s.repo.CreateBook(ctx, req.Title, req.Genre, req.PublishedYear, req.Author); err != nil {
			// Not a row problem: the store itself failed. Abort rather
			// than silently dropping the remainder.
			return nil, fmt.Errorf("import row %d: %w", i+1, err)
		}
		imported++
	}

	log.Info().
		Int("total_rows", len(rows)).
		Int("imported", imported).
		Msg("Bulk import completed")

	return &catalog.ImportResult{Imported: imported}, nil
}

// parseCSVRows reads header-driven CSV. Rows with a bad field count or
// an unparsable year become zero-valued fields and are rejected later
// by validation, matching the silent-skip policy.
func parseCSVRows(r io.Reader) ([]catalog.ImportRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	// Map header names to column positions, case-insensitively.
	cols := map[string]int{}
	for i, name := range records[0] {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}

	rows := make([]catalog.ImportRow, 0, len(records)-1)
	for _, record := range records[1:] {
		rows = append(rows, catalog.ImportRow{
			Title:         fieldAt(record, cols, "title"),
			Author:        fieldAt(record, cols, "author"),
			Genre:         fieldAt(record, cols, "genre"),
			PublishedYear: intFieldAt(record, cols, "published_year"),
		})
	}

	return rows, nil
}

func fieldAt(record []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func intFieldAt(record []string, cols map[string]int, name string) int {
	v, err := strconv.Atoi(fieldAt(record, cols, name))
	if err != nil {
		return 0
	}
	return v
}

// jsonImportRow tolerates published_year arriving as a number or a
// numeric string.
type jsonImportRow struct {
	Title         string      `json:"title"`
	Author        string      `json:"author"`
	Genre         string      `json:"genre"`
	PublishedYear json.Number `json:"published_year"`
}

// parseJSONRows reads a JSON array of objects.
func parseJSONRows(r io.Reader) ([]catalog.ImportRow, error) {
	decoder := json.NewDecoder(r)
	decoder.UseNumber()

	var raw []jsonImportRow
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}

	rows := make([]catalog.ImportRow, 0, len(raw))
	for _, jr := range raw {
		year, _ := jr.PublishedYear.Int64()
		rows = append(rows, catalog.ImportRow{
			Title:         strings.TrimSpace(jr.Title),
			Author:        strings.TrimSpace(jr.Author),
			Genre:         strings.TrimSpace(jr.Genre),
			PublishedYear: int(year),
		})
	}

	return rows, nil
}

// writeBooksCSV streams the export format: a header row then one line
// per book with the author flattened to its name.
func writeBooksCSV(w io.Writer, books []catalog.Book) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"id", "title", "genre", "published_year", "author"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, b := range books {
		record := []string{
			strconv.FormatInt(b.ID, 10),
			b.Title,
			b.Genre,
			strconv.Itoa(b.PublishedYear),
			b.Author.Name,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
