// Package admin implements the gin handlers behind the /api routes of the console:
// organization and user CRUD. Each handler performs exactly one repository call.
package admin

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/orgadmin/orgadmin/internal/db/repositories"
	"github.com/orgadmin/orgadmin/internal/middleware"
)

// Error codes returned alongside the message in every error body.
const (
	codeNotFound = "not_found"
	codeInvalid  = "invalid"
	codeConflict = "conflict"
	codeInternal = "internal"
)

// errorWriter maps repository errors onto HTTP responses.
type errorWriter struct {
	// strict reports uniqueness conflicts as 409 rather than 400.
	strict bool
}

func abortWithError(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg, "code": code})
}

// write responds to err. notFound is the message used for ErrNotFound and
// internal the message used for anything unclassified.
func (w errorWriter) write(c *gin.Context, err error, notFound, internal string) {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		abortWithError(c, http.StatusNotFound, codeNotFound, notFound)
	case errors.Is(err, repositories.ErrConflict):
		status := http.StatusBadRequest
		if w.strict {
			status = http.StatusConflict
		}
		abortWithError(c, status, codeConflict, repositories.StoreMessage(err))
	case errors.Is(err, repositories.ErrInvalid):
		abortWithError(c, http.StatusBadRequest, codeInvalid, repositories.StoreMessage(err))
	default:
		_ = c.Error(err)
		slog.ErrorContext(c.Request.Context(), internal,
			"error", err,
			"request_id", middleware.RequestID(c),
			"path", c.FullPath())
		abortWithError(c, http.StatusInternalServerError, codeInternal, internal)
	}
}

// bindJSON decodes the request body into dst, writing 400 (or 413 for a body
// over the configured limit) on failure.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			abortWithError(c, http.StatusRequestEntityTooLarge, codeInvalid, "Request body too large")
			return false
		}
		abortWithError(c, http.StatusBadRequest, codeInvalid, "Invalid request: "+err.Error())
		return false
	}
	return true
}

// pathID parses the numeric path parameter name, writing 400 when it is not a
// positive integer.
func pathID(c *gin.Context, name, entity string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		abortWithError(c, http.StatusBadRequest, codeInvalid, "Invalid "+entity+" id: "+c.Param(name))
		return 0, false
	}
	return id, true
}
