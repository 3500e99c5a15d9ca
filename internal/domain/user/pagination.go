package user

import (
	apperrors "userapp/pkg/errors"
)

// Pageable describes the requested window over an ordered result set.
type Pageable struct {
	Page int // Page index (0-based)
	Size int // Number of records per page
}

// NewPageable creates a Pageable and validates it.
func NewPageable(page, size int) (Pageable, error) {
	p := Pageable{Page: page, Size: size}
	if err := p.Validate(); err != nil {
		return Pageable{}, err
	}
	return p, nil
}

// Validate rejects negative pages and non-positive sizes.
func (p Pageable) Validate() error {
	if p.Page < 0 {
		return apperrors.NewValidationError("page", "must not be negative")
	}
	if p.Size <= 0 {
		return apperrors.NewValidationError("size", "must be greater than zero")
	}
	return nil
}

// Offset returns the index of the first record of the page. Callers check
// PastEnd first; the product is only meaningful within the result set.
func (p Pageable) Offset() int {
	return p.Page * p.Size
}

// PastEnd reports whether the page starts at or beyond total records. It
// divides instead of multiplying so huge page numbers cannot overflow.
func (p Pageable) PastEnd(total int64) bool {
	if total <= 0 {
		return true
	}
	return int64(p.Page) > (total-1)/int64(p.Size)
}

// Page is a bounded window over an ordered result set.
type Page[T any] struct {
	Content          []T   `json:"content"`
	TotalElements    int64 `json:"totalElements"`
	TotalPages       int   `json:"totalPages"`
	Number           int   `json:"number"` // Current page index (0-based)
	Size             int   `json:"size"`
	NumberOfElements int   `json:"numberOfElements"`
	First            bool  `json:"first"`
	Last             bool  `json:"last"`
	Empty            bool  `json:"empty"`
}

// NewPage creates a Page for content that is already windowed by p.
func NewPage[T any](content []T, p Pageable, total int64) *Page[T] {
	if content == nil {
		content = []T{}
	}

	totalPages := 0
	if p.Size > 0 {
		size := int64(p.Size)
		pages := total / size
		if total%size != 0 {
			pages++
		}
		totalPages = int(pages)
	}

	return &Page[T]{
		Content:          content,
		TotalElements:    total,
		TotalPages:       totalPages,
		Number:           p.Page,
		Size:             p.Size,
		NumberOfElements: len(content),
		First:            p.Page == 0,
		Last:             p.Page >= totalPages-1,
		Empty:            len(content) == 0,
	}
}

// PageOf windows the full ordered sequence items by p.
func PageOf[T any](items []T, p Pageable) *Page[T] {
	total := len(items)
	if p.PastEnd(int64(total)) {
		return NewPage([]T{}, p, int64(total))
	}

	start := p.Offset()
	end := total
	if p.Size < total-start {
		end = start + p.Size
	}

	window := make([]T, end-start)
	copy(window, items[start:end])
	return NewPage(window, p, int64(total))
}
