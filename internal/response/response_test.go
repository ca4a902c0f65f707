package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestIDMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { Fail(c, http.StatusNotFound, ErrNotFound) })

	get := func(id string) (*httptest.ResponseRecorder, Response) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if id != "" {
			req.Header.Set(HeaderRequestID, id)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		var body Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		return w, body
	}

	w, body := get("trace-123")
	assert.Equal(t, "trace-123", w.Header().Get(HeaderRequestID))
	assert.Equal(t, "trace-123", body.Metadata.RequestID)
	require.NotNil(t, body.Error)
	assert.Equal(t, ErrNotFound, body.Error.Code)
	assert.Equal(t, GetMessage(ErrNotFound), body.Error.Message)

	for _, bad := range []string{"", "has space", "<script>", strings.Repeat("a", 65)} {
		w, body = get(bad)
		assert.NotEqual(t, bad, w.Header().Get(HeaderRequestID))
		assert.Len(t, body.Metadata.RequestID, 36)
	}
}

func TestPaginationBounds(t *testing.T) {
	p := NewPagination(2, 10, 25)
	assert.Equal(t, 3, p.TotalPages)
	from, to := p.Bounds()
	assert.Equal(t, 10, from)
	assert.Equal(t, 20, to)

	from, to = NewPagination(3, 10, 25).Bounds()
	assert.Equal(t, 20, from)
	assert.Equal(t, 25, to)

	from, to = NewPagination(9, 10, 25).Bounds()
	assert.Equal(t, 25, from)
	assert.Equal(t, 25, to)

	p = NewPagination(0, 0, 0)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 0, p.TotalPages)
}
