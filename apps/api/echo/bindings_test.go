package echoapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/classportal/core"
)

func Test_bindOrdering(t *testing.T) {
	tests := []struct {
		query string
		want  []core.DBOrdering
	}{
		{query: "", want: nil},
		{query: "?ordering=", want: nil},
		{query: "?ordering=name", want: []core.DBOrdering{{Field: "name", Ascending: true}}},
		{
			query: "?ordering=-created_at,%20name%20,,-",
			want:  []core.DBOrdering{{Field: "created_at"}, {Field: "name", Ascending: true}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/"+tt.query, nil)
			ctx := echo.New().NewContext(req, httptest.NewRecorder())
			assert.Equal(t, tt.want, bindOrdering(ctx))
		})
	}
}
