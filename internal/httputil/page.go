package httputil

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"bankdemo/internal/domain"
)

const DefaultPageSize = 20

type PageMetadata struct {
	Page         int   `json:"page"`
	Size         int   `json:"size"`
	TotalElement int64 `json:"totalElement"`
}

type PageResponse[T any] struct {
	Content  []T          `json:"content"`
	Metadata PageMetadata `json:"metadata"`
}

func NewPageResponse[T, R any](p *domain.Page[T], fn func(T) R) PageResponse[R] {
	mapped := domain.MapPage(p, fn)
	return PageResponse[R]{
		Content: mapped.Content,
		Metadata: PageMetadata{
			Page:         mapped.Number,
			Size:         mapped.Size,
			TotalElement: mapped.TotalElements,
		},
	}
}

// ParsePageParams reads pageNumber and pageSize from the query string.
func ParsePageParams(r *http.Request) (int, int, error) {
	pageNumber, err := queryInt(r, "pageNumber", 0)
	if err != nil {
		return 0, 0, err
	}
	pageSize, err := queryInt(r, "pageSize", DefaultPageSize)
	if err != nil {
		return 0, 0, err
	}
	if err := domain.ValidatePageRequest(pageNumber, pageSize); err != nil {
		return 0, 0, err
	}
	return pageNumber, pageSize, nil
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, Invalid("%s must be an integer, got %q", key, raw)
	}
	return v, nil
}

// PathID parses a positive int64 URL parameter.
func PathID(r *http.Request, key string) (int64, error) {
	raw := chi.URLParam(r, key)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, Invalid("%s must be a positive integer, got %q", key, raw)
	}
	return id, nil
}
