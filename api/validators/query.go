package validators

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/catalog-api/pkg/pagination"
)

// ParseQueryInt reads an integer query parameter. Blank or unparsable values
// yield defaultVal.
func ParseQueryInt(r *http.Request, key string, defaultVal int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return defaultVal
	}
	return value
}

// ParsePagination reads limit and offset (1-based page) and applies bounds.
func ParsePagination(r *http.Request, bounds pagination.Bounds) pagination.Params {
	return bounds.Normalize(pagination.Params{
		Limit:  ParseQueryInt(r, "limit", 0),
		Offset: ParseQueryInt(r, "offset", 0),
	})
}

// ParseIDParam reads a positive numeric chi URL parameter. Callers decide
// how a malformed id is reported.
func ParseIDParam(r *http.Request, key string) (uint, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	if id == 0 {
		return 0, fmt.Errorf("invalid %s %q", key, raw)
	}
	return uint(id), nil
}
