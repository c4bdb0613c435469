package handler

import (
	"errors"
	"net/http"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"

	"bookcatalog-backend/internal/domains/catalog"
	"bookcatalog-backend/internal/shared/response"
	"bookcatalog-backend/pkg/logger"
)

// recommendLimit caps the recommendation endpoint.
const recommendLimit = 5

// BookHandler handles the catalog endpoints. Stateless, only holds
// dependencies.
type BookHandler struct {
	service catalog.Service
}

func NewBookHandler(service catalog.Service) *BookHandler {
	return &BookHandler{service: service}
}

// Create handles POST /books/.
func (h *BookHandler) Create(c *gin.Context) {
	var req catalog.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	book, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, book)
}

// List handles GET /books/ with optional filters, sort and pagination.
// The total match count travels in X-Total-Count so the body stays a
// plain array.
func (h *BookHandler) List(c *gin.Context) {
	var query catalog.ListBooksQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	books, total, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("X-Total-Count", strconv.Itoa(total))
	c.JSON(http.StatusOK, books)
}

// Get handles GET /books/:id.
func (h *BookHandler) Get(c *gin.Context) {
	id, ok := h.bookID(c)
	if !ok {
		return
	}

	book, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, book)
}

// Update handles PUT /books/:id with a partial body.
func (h *BookHandler) Update(c *gin.Context) {
	id, ok := h.bookID(c)
	if !ok {
		return
	}

	var req catalog.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	book, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, book)
}

// Delete handles DELETE /books/:id.
func (h *BookHandler) Delete(c *gin.Context) {
	id, ok := h.bookID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Recommend handles GET /books/:id/recommend.
func (h *BookHandler) Recommend(c *gin.Context) {
	id, ok := h.bookID(c)
	if !ok {
		return
	}

	books, err := h.service.Recommend(c.Request.Context(), id, recommendLimit)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, books)
}

func (h *BookHandler) bookID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.NotFound(c, "Book not found")
		return 0, false
	}
	return id, true
}

// handleError maps domain errors to HTTP status codes.
func (h *BookHandler) handleError(c *gin.Context, err error) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		response.ValidationFailed(c, verrs)
	case errors.Is(err, catalog.ErrInvalidGenre):
		response.BadRequest(c, "Invalid genre")
	case errors.Is(err, catalog.ErrInvalidYear):
		response.BadRequest(c, "Published year out of range")
	case errors.Is(err, catalog.ErrBookNotFound):
		response.NotFound(c, "Book not found")
	default:
		logger.Error("book handler error", err)
		response.InternalServerError(c)
	}
}
