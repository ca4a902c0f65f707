package validator

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type quizBody struct {
	Slug  string `json:"slug" binding:"required,slug"`
	Order int    `json:"order"`
}

func bind(body string) map[string]string {
	Setup()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	var dst quizBody
	return Bind(c, &dst)
}

func TestBind(t *testing.T) {
	assert.Nil(t, bind(`{"slug":"letters-1"}`))

	fields := bind(`{"slug":"Letters 1"}`)
	assert.Contains(t, fields["slug"], "lower-case")

	fields = bind(`{}`)
	assert.Contains(t, fields["slug"], "required")

	fields = bind(`{"slug":"a","order":"first"}`)
	assert.Equal(t, "must be a int", fields["order"])

	fields = bind(`{`)
	assert.Contains(t, fields, "detail")
}
