package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func paramsFor(t *testing.T, query string) Params {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return Parse(c)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{name: "defaults", query: "", wantPage: 1, wantLimit: 20, wantOffset: 0},
		{name: "explicit values", query: "page=3&limit=10", wantPage: 3, wantLimit: 10, wantOffset: 20},
		{name: "zero page falls back", query: "page=0&limit=10", wantPage: 1, wantLimit: 10, wantOffset: 0},
		{name: "negative page falls back", query: "page=-2", wantPage: 1, wantLimit: 20, wantOffset: 0},
		{name: "limit capped at max", query: "limit=5000", wantPage: 1, wantLimit: 100, wantOffset: 0},
		{name: "zero limit falls back", query: "limit=0", wantPage: 1, wantLimit: 20, wantOffset: 0},
		{name: "garbage input falls back", query: "page=abc&limit=xyz", wantPage: 1, wantLimit: 20, wantOffset: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := paramsFor(t, tt.query)
			assert.Equal(t, tt.wantPage, got.Page)
			assert.Equal(t, tt.wantLimit, got.Limit)
			assert.Equal(t, tt.wantOffset, got.Offset)
		})
	}
}
