package service

import (
	"math"

	"noteshare/cmd/internal/contract"
)

// Pagination holds the page size limits applied to every list operation.
type Pagination struct {
	DefaultSize int
	MaxSize     int
}

func NewPagination(defaultSize, maxSize int) Pagination {
	if maxSize <= 0 {
		maxSize = 100
	}
	if defaultSize <= 0 || defaultSize > maxSize {
		defaultSize = min(25, maxSize)
	}
	return Pagination{DefaultSize: defaultSize, MaxSize: maxSize}
}

// normalize clamps the requested page. Pages start at 1 and stop where
// the row offset would leave the int32 range, far past any real listing.
func (p Pagination) normalize(req contract.PageRequest) (page, size int) {
	size = req.PageSize
	if size <= 0 {
		size = p.DefaultSize
	}
	size = min(size, p.MaxSize)

	page = min(max(req.Page, 1), math.MaxInt32/size)
	return page, size
}

func pageOffset(page, size int) int {
	return (page - 1) * size
}

func newNotePage(results []*contract.NoteResponse, total int64, page, size int) *contract.NotePage {
	resp := &contract.NotePage{
		Count:    total,
		Page:     page,
		PageSize: size,
		Results:  results,
	}

	if int64(page)*int64(size) < total {
		next := page + 1
		resp.Next = &next
	}
	if page > 1 {
		prev := page - 1
		resp.Previous = &prev
	}
	return resp
}
