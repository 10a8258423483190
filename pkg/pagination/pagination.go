package pagination

import "math"

const (
	// DefaultLimit is the page size used when a client omits limit.
	DefaultLimit = 15
	// MaxLimit caps how many rows a single page may request.
	MaxLimit = 100
)

// Params holds page-number pagination inputs. Offset is the 1-based page
// number, which is what storefront clients send as "offset".
type Params struct {
	Limit  int
	Offset int
}

// Bounds configures the default and maximum page sizes.
type Bounds struct {
	Default int
	Max     int
}

// DefaultBounds mirrors DefaultLimit and MaxLimit.
var DefaultBounds = Bounds{Default: DefaultLimit, Max: MaxLimit}

// Normalize enforces the bounds and clamps the page to at least 1.
func (b Bounds) Normalize(p Params) Params {
	def := b.Default
	if def <= 0 {
		def = DefaultLimit
	}
	max := b.Max
	if max <= 0 {
		max = MaxLimit
	}

	if p.Limit <= 0 {
		p.Limit = def
	}
	if p.Limit > max {
		p.Limit = max
	}
	if p.Offset <= 0 {
		p.Offset = 1
	}
	return p
}

// NormalizeLimit enforces the package default and maximum limits.
func NormalizeLimit(limit int) int {
	return DefaultBounds.Normalize(Params{Limit: limit}).Limit
}

// SQLOffset converts the page number into a row offset, saturating at
// math.MaxInt instead of wrapping negative.
func (p Params) SQLOffset() int {
	if p.Offset <= 1 || p.Limit <= 0 {
		return 0
	}
	if p.Offset-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Offset - 1) * p.Limit
}

// PastEnd reports whether the page starts after the last of total rows.
func (p Params) PastEnd(total int64) bool {
	if p.Offset <= 1 || p.Limit <= 0 {
		return false
	}
	pages := (total + int64(p.Limit) - 1) / int64(p.Limit)
	return int64(p.Offset-1) >= pages
}

// Page is a slice of rows plus the total count across all pages.
type Page[T any] struct {
	Items  []T
	Total  int64
	Limit  int
	Offset int
}
