package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the error shape returned by every endpoint:
// {"detail": "..."} with an optional field map for validation failures.
type ErrorBody struct {
	Detail string      `json:"detail"`
	Fields interface{} `json:"fields,omitempty"`
}

// Detail writes an error response with the given status.
func Detail(c *gin.Context, status int, detail string) {
	c.JSON(status, ErrorBody{Detail: detail})
}

// ValidationFailed writes a 400 with field-level detail. fields is
// typically an ozzo validation.Errors value, which marshals to a
// field→message map.
func ValidationFailed(c *gin.Context, fields interface{}) {
	c.JSON(http.StatusBadRequest, ErrorBody{
		Detail: "Validation failed",
		Fields: fields,
	})
}

// BadRequest writes a 400.
func BadRequest(c *gin.Context, detail string) {
	Detail(c, http.StatusBadRequest, detail)
}

// Unauthorized writes a 401.
func Unauthorized(c *gin.Context, detail string) {
	Detail(c, http.StatusUnauthorized, detail)
}

// NotFound writes a 404.
func NotFound(c *gin.Context, detail string) {
	Detail(c, http.StatusNotFound, detail)
}

// InternalServerError writes a 500 without internal detail.
func InternalServerError(c *gin.Context) {
	Detail(c, http.StatusInternalServerError, "Internal server error")
}
