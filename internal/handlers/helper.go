package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// ParseStringIDParam extracts and validates a string ID path parameter.
func ParseStringIDParam(c *gin.Context, paramName string) (string, error) {
	value := strings.TrimSpace(c.Param(paramName))
	if value == "" {
		return "", fmt.Errorf("missing %s parameter", paramName)
	}
	return value, nil
}

// requireIDParam reads a path parameter or aborts with 400.
func requireIDParam(c *gin.Context, paramName string) (string, bool) {
	value, err := ParseStringIDParam(c, paramName)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: err.Error(),
		})
		return "", false
	}
	return value, true
}

// parseIntQuery reads an integer query parameter, falling back to a default
// when absent or malformed.
func parseIntQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

// parsePagination reads limit/offset query parameters with sane bounds.
func parsePagination(c *gin.Context) (limit, offset int) {
	limit = parseIntQuery(c, "limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset = parseIntQuery(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
