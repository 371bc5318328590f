// Package pagination slices ordered result sets into fixed-size pages.
package pagination

import "strconv"

// Page is the metadata describing one slice of an ordered result set.
type Page struct {
	Number  int   `json:"number"`    // 1-indexed, already clamped
	Size    int   `json:"size"`      // configured page size
	Count   int   `json:"count"`     // total number of pages, at least 1
	Total   int64 `json:"total"`     // total items across all pages
	HasNext bool  `json:"has_next"`
	HasPrev bool  `json:"has_prev"`
}

// PageCount returns ceil(total/size), with a minimum of one page so that an
// empty set still renders as page 1 of 1.
func PageCount(total int64, size int) int {
	if total <= 0 {
		return 1
	}
	count := int((total + int64(size) - 1) / int64(size))
	return count
}

// Clamp normalizes a requested page number: below 1 becomes the first page,
// past the end becomes the last valid page. Out-of-range requests are never
// an error.
func Clamp(requested, count int) int {
	if requested < 1 {
		return 1
	}
	if requested > count {
		return count
	}
	return requested
}

// Paginate computes the offset/limit window for a requested page over a set
// of total items, plus the page metadata for rendering.
func Paginate(total int64, size, requested int) (offset, limit int, page Page) {
	count := PageCount(total, size)
	number := Clamp(requested, count)

	page = Page{
		Number:  number,
		Size:    size,
		Count:   count,
		Total:   total,
		HasNext: number < count,
		HasPrev: number > 1,
	}
	return (number - 1) * size, size, page
}

// ParsePageParam turns a raw ?page= query value into a page number.
// Absent or non-numeric values default to the first page.
func ParsePageParam(raw string) int {
	if raw == "" {
		return 1
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	return n
}
