// Package api exposes the REST surface: gin handlers, the auth gate and the
// single place where service errors become HTTP statuses.
package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tmarkov/flightdesk/internal/apperr"
)

// respondError is the one boundary where errors turn into HTTP responses.
// Non-taxonomy errors come out as a generic 500 so internals never leak.
func respondError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(apperr.KindOf(err).HTTPStatus(), gin.H{"error": apperr.MessageOf(err)})
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}

// idQuery reads the numeric ?id= query parameter every detail endpoint uses.
func idQuery(c *gin.Context) (int64, bool) {
	raw := c.Query("id")
	if raw == "" {
		respondError(c, apperr.Validation("id is required"))
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respondError(c, apperr.Validation("id must be a positive integer"))
		return 0, false
	}
	return id, true
}

// pageQuery reads ?page=, defaulting to the first page. Values below one are
// clamped by the pagination package.
func pageQuery(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		return 1
	}
	return page
}

func bindJSON(c *gin.Context, out any) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		respondError(c, apperr.Validation("invalid request body"))
		return false
	}
	return true
}
