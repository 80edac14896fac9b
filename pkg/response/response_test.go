package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(t *testing.T, h gin.HandlerFunc) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	h(c)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestError_StatusByKind(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", apperrors.NotFound("book not found"), http.StatusNotFound},
		{"validation", apperrors.Validation("title must not be empty"), http.StatusBadRequest},
		{"business", apperrors.Business("no copies available"), http.StatusBadRequest},
		{"conflict", apperrors.Conflict("category in use"), http.StatusConflict},
		{"unauthorized", apperrors.ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", apperrors.ErrForbidden, http.StatusForbidden},
		{"internal", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := perform(t, func(c *gin.Context) { Error(c, tt.err) })
			assert.Equal(t, tt.status, w.Code)
			assert.NotZero(t, resp.Code)
			assert.Nil(t, resp.Data)
		})
	}
}

func TestError_HidesInternalCause(t *testing.T) {
	_, resp := perform(t, func(c *gin.Context) {
		Error(c, apperrors.Wrap(errors.New("dial tcp 10.0.0.1:3306"), "query book failed"))
	})
	assert.Equal(t, "query book failed", resp.Message)
	assert.NotContains(t, resp.Message, "10.0.0.1")
}

func TestSuccess(t *testing.T) {
	w, resp := perform(t, func(c *gin.Context) { Success(c, gin.H{"id": 1}) })
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, resp.Code)
	assert.Equal(t, "success", resp.Message)
}

func TestNewPageData(t *testing.T) {
	t.Run("中间页", func(t *testing.T) {
		p := NewPageData([]int{1, 2, 3}, 10, 1, 3)
		assert.Equal(t, 4, p.TotalPages)
		assert.False(t, p.LastPage)
	})

	t.Run("最后一页", func(t *testing.T) {
		p := NewPageData([]int{10}, 10, 3, 3)
		assert.True(t, p.LastPage)
	})

	t.Run("空结果", func(t *testing.T) {
		p := NewPageData([]int{}, 0, 0, 10)
		assert.Equal(t, 0, p.TotalPages)
		assert.True(t, p.LastPage)
	})
}
