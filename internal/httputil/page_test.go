package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankdemo/internal/domain"
)

func TestParsePageParams(t *testing.T) {
	tests := []struct {
		query      string
		wantNumber int
		wantSize   int
		wantErr    bool
	}{
		{query: "", wantNumber: 0, wantSize: DefaultPageSize},
		{query: "pageNumber=2&pageSize=5", wantNumber: 2, wantSize: 5},
		{query: "pageNumber=-1&pageSize=5", wantErr: true},
		{query: "pageNumber=0&pageSize=0", wantErr: true},
		{query: "pageNumber=0&pageSize=1000", wantErr: true},
		{query: "pageNumber=abc", wantErr: true},
		{query: "pageNumber=922337203685477580&pageSize=20", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/accounts?"+tt.query, nil)
			number, size, err := ParsePageParams(r)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, http.StatusBadRequest, StatusFor(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantNumber, number)
			assert.Equal(t, tt.wantSize, size)
		})
	}
}

func TestPathID(t *testing.T) {
	withParam := func(v string) *http.Request {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", v)
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}

	id, err := PathID(withParam("42"), "id")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, bad := range []string{"", "0", "-3", "x1"} {
		_, err := PathID(withParam(bad), "id")
		assert.ErrorIs(t, err, ErrValidation, bad)
	}
}

func TestNewPageResponse(t *testing.T) {
	page := domain.NewPage([]int{1, 2}, 0, 2, 2)

	resp := NewPageResponse(page, func(v int) int { return v * 10 })

	assert.Equal(t, []int{10, 20}, resp.Content)
	assert.Equal(t, PageMetadata{Page: 0, Size: 2, TotalElement: 2}, resp.Metadata)
}
