package domain

import (
	"errors"
	"fmt"
	"math"
)

// Page is one slice of an ordered listing together with the total number of
// elements across all pages.
type Page[T any] struct {
	Content       []T
	Number        int
	Size          int
	TotalElements int64
}

func NewPage[T any](content []T, number, size int, total int64) *Page[T] {
	if content == nil {
		content = []T{}
	}
	return &Page[T]{Content: content, Number: number, Size: size, TotalElements: total}
}

// Offset returns the row offset of the first element on page number.
func Offset(number, size int) int {
	return number * size
}

// MapPage converts the content of a page keeping its metadata.
func MapPage[T, R any](p *Page[T], fn func(T) R) *Page[R] {
	out := make([]R, 0, len(p.Content))
	for _, item := range p.Content {
		out = append(out, fn(item))
	}
	return &Page[R]{Content: out, Number: p.Number, Size: p.Size, TotalElements: p.TotalElements}
}

// MaxPageSize bounds the size of any requested page.
const MaxPageSize = 100

var ErrInvalidPageRequest = errors.New("invalid page request")

// ValidatePageRequest checks that number is not negative, size is within
// 1..MaxPageSize and the resulting Offset fits in an int.
func ValidatePageRequest(number, size int) error {
	if number < 0 {
		return fmt.Errorf("%w: pageNumber must not be negative, got %d", ErrInvalidPageRequest, number)
	}
	if size < 1 || size > MaxPageSize {
		return fmt.Errorf("%w: pageSize must be between 1 and %d, got %d", ErrInvalidPageRequest, MaxPageSize, size)
	}
	if number > math.MaxInt/size {
		return fmt.Errorf("%w: pageNumber %d is too large for pageSize %d", ErrInvalidPageRequest, number, size)
	}
	return nil
}
