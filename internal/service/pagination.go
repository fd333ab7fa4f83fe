package service

import (
	"math"
	"strconv"

	"github.com/phrazzld/tasks-api/internal/config"
)

// Paginator turns page/size query values into offsets.
type Paginator struct {
	DefaultSize int
	MaxSize     int
}

// NewPaginator creates a Paginator from configuration.
func NewPaginator(cfg config.PaginationConfig) Paginator {
	return Paginator{DefaultSize: cfg.DefaultPageSize, MaxSize: cfg.MaxPageSize}
}

// PageRequest is a resolved page number and size.
type PageRequest struct {
	Number int
	Size   int
}

// Offset is the zero-based index of the first record on the page.
func (r PageRequest) Offset() int {
	return (r.Number - 1) * r.Size
}

// Resolve parses raw query values. An empty page means the first page; a
// page that is not a positive integer, or whose offset would not fit in an
// int, is ErrInvalidPage. A size that is
// missing, malformed or not positive falls back to the default, and sizes
// above the maximum are clamped.
func (p Paginator) Resolve(rawPage, rawSize string) (PageRequest, error) {
	req := PageRequest{Number: 1, Size: p.size(rawSize)}

	if rawPage != "" {
		n, err := strconv.Atoi(rawPage)
		if err != nil || n < 1 || n-1 > math.MaxInt/req.Size {
			return PageRequest{}, ErrInvalidPage
		}
		req.Number = n
	}

	return req, nil
}

func (p Paginator) size(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return p.DefaultSize
	}
	if p.MaxSize > 0 && n > p.MaxSize {
		return p.MaxSize
	}
	return n
}

// Check reports ErrInvalidPage for a page past the end of count records.
// The first page is always valid, even when count is zero.
func (p Paginator) Check(req PageRequest, count int) error {
	if req.Number > 1 && req.Offset() >= count {
		return ErrInvalidPage
	}
	return nil
}
