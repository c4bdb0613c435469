package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"bookcatalog-backend/internal/domains/catalog"
	"bookcatalog-backend/internal/shared/response"
)

// ImportExportHandler handles bulk import and CSV export.
type ImportExportHandler struct {
	service catalog.Service
}

func NewImportExportHandler(service catalog.Service) *ImportExportHandler {
	return &ImportExportHandler{service: service}
}

// Import handles POST /books/import with a multipart "file" field
// containing CSV or JSON.
func (h *ImportExportHandler) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required (multipart/form-data)")
		return
	}

	name := strings.ToLower(fileHeader.Filename)
	if !strings.HasSuffix(name, ".csv") && !strings.HasSuffix(name, ".json") {
		response.BadRequest(c, "file must be .csv or .json")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "could not read uploaded file")
		return
	}
	defer file.Close()

	log.Info().
		Str("file_name", fileHeader.Filename).
		Int64("file_size", fileHeader.Size).
		Msg("Received bulk import request")

	result, err := h.service.Import(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		log.Error().Err(err).Msg("Bulk import failed")
		response.InternalServerError(c)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Export handles GET /books/export, streaming all books as CSV.
func (h *ImportExportHandler) Export(c *gin.Context) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename=books.csv`)
	c.Status(http.StatusOK)

	if err := h.service.ExportCSV(c.Request.Context(), c.Writer); err != nil {
		// Headers are already out; all we can do is log.
		log.Error().Err(err).Msg("CSV export failed mid-stream")
	}
}
