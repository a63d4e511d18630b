// Package handler defines the HTTP handlers for the planetarium API.
// Handlers bind and validate request shapes, call repositories or
// services, and translate domain errors to status codes.
package handler

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	defaultPageSize = 5
	maxPageSize     = 30
)

// getUserID extracts the authenticated user's id from the context.
// JWT numeric claims decode as float64, so several shapes are
// accepted.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// parsePage reads page and page_size query parameters and clamps them:
// page is at least 1, page_size defaults to 5 and is capped at 30.
func parsePage(c echo.Context) (page, pageSize int) {
	page = 1
	if n, err := strconv.Atoi(c.QueryParam("page")); err == nil && n > 0 {
		page = n
	}
	pageSize = defaultPageSize
	if n, err := strconv.Atoi(c.QueryParam("page_size")); err == nil && n > 0 {
		pageSize = n
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

// parseID parses a numeric path parameter.
func parseID(c echo.Context, name string) (uint64, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	return n, err == nil && n > 0
}
