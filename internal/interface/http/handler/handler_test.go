package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/interface/http/dto"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func bind(t *testing.T, body string) (int, response.Response) {
	t.Helper()
	return bindAs[dto.SignupRequest](t, body)
}

// bindAs 用指定请求结构绑定body
func bindAs[T any](t *testing.T, body string) (int, response.Response) {
	t.Helper()
	r := gin.New()
	r.POST("/signup", func(c *gin.Context) {
		var req T
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
		response.Success(c, nil)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func TestBindError(t *testing.T) {
	t.Run("字段校验错误", func(t *testing.T) {
		status, resp := bind(t, `{"username":"ab","email":"not-an-email","password":"secret1"}`)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, apperrors.ErrCodeBindError, resp.Code)
		assert.Equal(t, "Username must be at least 3; Email must be a valid email", resp.Message)
	})

	t.Run("缺少必填字段", func(t *testing.T) {
		_, resp := bind(t, `{"username":"reader1","email":"reader1@test.com"}`)
		assert.Equal(t, "Password is required", resp.Message)
	})

	t.Run("JSON格式错误", func(t *testing.T) {
		status, resp := bind(t, `{"username":`)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.True(t, strings.HasPrefix(resp.Message, "invalid request: "))
	})

	t.Run("校验通过", func(t *testing.T) {
		status, _ := bind(t, `{"username":"reader1","email":"reader1@test.com","password":"secret1"}`)
		assert.Equal(t, http.StatusOK, status)
	})
}

// TestBindError_LengthLimits 超过表字段长度的输入在绑定阶段返回400,不会落到数据库
func TestBindError_LengthLimits(t *testing.T) {
	longTitle := strings.Repeat("a", 201)
	longName := strings.Repeat("c", 101)

	t.Run("书名超长", func(t *testing.T) {
		status, resp := bindAs[dto.BookRequest](t, `{"title":"`+longTitle+`","author":"x","copies_total":1}`)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Title must be at most 200", resp.Message)
	})

	t.Run("部分更新书名超长", func(t *testing.T) {
		status, resp := bindAs[dto.BookPatchRequest](t, `{"title":"`+longTitle+`"}`)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Title must be at most 200", resp.Message)
	})

	t.Run("作者超长", func(t *testing.T) {
		_, resp := bindAs[dto.BookRequest](t, `{"title":"Dune","author":"`+strings.Repeat("b", 101)+`","copies_total":1}`)
		assert.Equal(t, "Author must be at most 100", resp.Message)
	})

	t.Run("分类名超长", func(t *testing.T) {
		status, resp := bindAs[dto.CategoryRequest](t, `{"category_name":"`+longName+`"}`)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Name must be at most 100", resp.Message)
	})

	t.Run("边界长度通过", func(t *testing.T) {
		status, _ := bindAs[dto.BookRequest](t, `{"title":"`+strings.Repeat("a", 200)+`","copies_total":1}`)
		assert.Equal(t, http.StatusOK, status)
		status, _ = bindAs[dto.CategoryRequest](t, `{"category_name":"`+strings.Repeat("c", 100)+`"}`)
		assert.Equal(t, http.StatusOK, status)
	})
	t.Logf("✓ 长度上限与表字段一致")
}

func TestPathID(t *testing.T) {
	r := gin.New()
	r.GET("/books/:bookId", func(c *gin.Context) {
		id, ok := pathID(c, "bookId")
		if !ok {
			return
		}
		response.Success(c, id)
	})

	for _, tc := range []struct {
		path   string
		status int
	}{
		{"/books/7", http.StatusOK},
		{"/books/0", http.StatusBadRequest},
		{"/books/-1", http.StatusBadRequest},
		{"/books/abc", http.StatusBadRequest},
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))
		assert.Equal(t, tc.status, w.Code, tc.path)
	}
}
