package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/bootstrap"
	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/persistence/rdb"
)

// 测试辅助工具
//
// 集成测试在进程内驱动完整的gin路由(httptest),数据库使用临时SQLite文件,
// Redis由内存版stubSessions代替,不需要启动任何外部服务:
//
//	go test -v ./test/integration/...

const (
	adminUsername = "admin"
	adminPassword = "admin123"
	testPassword  = "Test1234"
)

// Response 统一响应结构
type Response struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// LoginData 登录响应数据
type LoginData struct {
	User struct {
		ID       uint     `json:"id"`
		Username string   `json:"username"`
		Roles    []string `json:"roles"`
	} `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// CategoryData 分类响应数据
type CategoryData struct {
	ID   uint   `json:"category_id"`
	Name string `json:"category_name"`
}

// BookData 图书响应数据
type BookData struct {
	ID              uint   `json:"book_id"`
	CategoryID      uint   `json:"category_id"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	Description     string `json:"description"`
	CopiesTotal     int    `json:"copies_total"`
	CopiesAvailable int    `json:"copies_available"`
	CopiesBorrowed  int    `json:"copies_borrowed"`
	Active          bool   `json:"is_active"`
}

// TransactionData 借阅记录响应数据
type TransactionData struct {
	ID           uint       `json:"transaction_id"`
	BookID       uint       `json:"book_id"`
	UserID       uint       `json:"user_id"`
	BorrowedDate time.Time  `json:"borrowed_date"`
	ReturnedDate *time.Time `json:"returned_date"`
	Returned     bool       `json:"is_returned"`
}

// PageData 分页响应数据
type PageData[T any] struct {
	Content       []T   `json:"content"`
	PageNumber    int   `json:"page_number"`
	PageSize      int   `json:"page_size"`
	TotalElements int64 `json:"total_elements"`
	TotalPages    int   `json:"total_pages"`
	LastPage      bool  `json:"last_page"`
}

// testServer 进程内的完整服务
type testServer struct {
	t          *testing.T
	engine     *gin.Engine
	sessions   *stubSessions
	adminToken string
}

// newTestServer 创建临时SQLite数据库、组装路由、预置管理员账号并登录
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		Server:     config.ServerConfig{Port: 8080, Mode: gin.TestMode},
		Database:   config.DatabaseConfig{Driver: config.DriverSQLite, Path: filepath.Join(t.TempDir(), "library.db"), LogLevel: "silent"},
		JWT:        config.JWTConfig{Secret: "integration-secret", AccessTokenExpire: time.Hour, RefreshTokenExpire: 24 * time.Hour},
		Pagination: config.PaginationConfig{DefaultPageSize: 10, MaxPageSize: 100},
		Metrics:    config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}

	db, err := rdb.NewDB(cfg.Database)
	require.NoError(t, err, "打开SQLite失败")
	require.NoError(t, rdb.Migrate(db), "数据库迁移失败")
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	// 管理员只能由已有管理员创建,测试直接写库预置
	_, err = user.NewService(rdb.NewUserRepository(db)).
		RegisterAdmin(context.Background(), adminUsername, "admin@example.com", adminPassword)
	require.NoError(t, err, "预置管理员失败")

	sessions := newStubSessions()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app := bootstrap.Build(cfg, logger, db, bootstrap.Infra{Sessions: sessions})

	s := &testServer{t: t, engine: app.Engine, sessions: sessions}
	s.adminToken = s.signin(adminUsername, adminPassword).AccessToken
	return s
}

// do 发送请求并解析统一响应,返回HTTP状态码
func (s *testServer) do(method, path string, body interface{}, token string) (int, *Response) {
	s.t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(s.t, err, "JSON序列化失败")
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var result Response
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &result), "解析JSON响应失败: %s", w.Body.String())
	return w.Code, &result
}

// signup 注册普通用户
func (s *testServer) signup(username string) {
	s.t.Helper()
	status, resp := s.do(http.MethodPost, "/api/auth/signup", map[string]string{
		"username": username,
		"email":    username + "@test.com",
		"password": testPassword,
	}, "")
	require.Equal(s.t, http.StatusCreated, status, "注册失败: %s", resp.Message)
}

// signin 登录
func (s *testServer) signin(username, password string) LoginData {
	s.t.Helper()
	status, resp := s.do(http.MethodPost, "/api/auth/signin", map[string]string{
		"username": username,
		"password": password,
	}, "")
	require.Equal(s.t, http.StatusOK, status, "登录失败: %s", resp.Message)
	return decode[LoginData](s.t, resp)
}

// registerUser 注册并登录,返回Token
func (s *testServer) registerUser(username string) string {
	s.t.Helper()
	s.signup(username)
	return s.signin(username, testPassword).AccessToken
}

// createCategory 管理员创建分类
func (s *testServer) createCategory(name string) CategoryData {
	s.t.Helper()
	status, resp := s.do(http.MethodPost, "/api/admin/categories", map[string]string{"category_name": name}, s.adminToken)
	require.Equal(s.t, http.StatusCreated, status, "创建分类失败: %s", resp.Message)
	return decode[CategoryData](s.t, resp)
}

// addBook 管理员向分类添加图书
func (s *testServer) addBook(categoryID uint, title, author string, copies int) BookData {
	s.t.Helper()
	status, resp := s.do(http.MethodPost, fmt.Sprintf("/api/admin/categories/%d/book", categoryID), map[string]interface{}{
		"title":        title,
		"author":       author,
		"description":  "集成测试用图书",
		"copies_total": copies,
	}, s.adminToken)
	require.Equal(s.t, http.StatusCreated, status, "添加图书失败: %s", resp.Message)
	return decode[BookData](s.t, resp)
}

// getBook 查询图书详情
func (s *testServer) getBook(id uint) BookData {
	s.t.Helper()
	status, resp := s.do(http.MethodGet, fmt.Sprintf("/api/public/books/%d", id), nil, "")
	require.Equal(s.t, http.StatusOK, status, "查询图书失败: %s", resp.Message)
	return decode[BookData](s.t, resp)
}

// borrow 借书,返回状态码和响应
func (s *testServer) borrow(token string, bookID uint) (int, *Response) {
	return s.do(http.MethodPost, fmt.Sprintf("/api/borrow/%d", bookID), nil, token)
}

// giveBack 还书
func (s *testServer) giveBack(token string, bookID uint) (int, *Response) {
	return s.do(http.MethodPost, fmt.Sprintf("/api/return/%d", bookID), nil, token)
}

// decode 解析响应中的data字段
func decode[T any](t *testing.T, resp *Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(resp.Data, &v), "解析响应数据失败: %s", string(resp.Data))
	return v
}

// =========================================
// 内存版会话存储(代替Redis)
// =========================================

type stubSessions struct {
	mu        sync.Mutex
	sessions  map[uint]map[string]interface{}
	blacklist map[string]time.Duration
}

func newStubSessions() *stubSessions {
	return &stubSessions{
		sessions:  make(map[uint]map[string]interface{}),
		blacklist: make(map[string]time.Duration),
	}
}

func (s *stubSessions) SaveSession(_ context.Context, userID uint, data map[string]interface{}, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = data
	return nil
}

func (s *stubSessions) DeleteSession(_ context.Context, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	return nil
}

func (s *stubSessions) AddToBlacklist(_ context.Context, token string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blacklist[token] = ttl
	return nil
}

func (s *stubSessions) IsInBlacklist(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.blacklist[token]
	return ok, nil
}

func (s *stubSessions) hasSession(userID uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[userID]
	return ok
}
