package integration

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 借还集成测试
//
// 借还是本项目的核心:
// 1. 同一本书的借还在一个数据库事务内串行执行(行锁 + CAS扣减)
// 2. 借阅记录与副本数同时提交或同时回滚
// 3. 同一用户同一本书最多一条未归还记录

func TestLending_Scenarios(t *testing.T) {
	s := newTestServer(t)
	fiction := s.createCategory("Fiction")
	token := s.registerUser("reader1")
	b := s.addBook(fiction.ID, "Dune", "Frank Herbert", 5)

	t.Run("场景A:借书", func(t *testing.T) {
		status, resp := s.borrow(token, b.ID)
		require.Equal(t, http.StatusOK, status, resp.Message)

		tx := decode[TransactionData](t, resp)
		assert.NotZero(t, tx.ID)
		assert.Equal(t, b.ID, tx.BookID)
		assert.False(t, tx.Returned)
		assert.Nil(t, tx.ReturnedDate)
		assert.False(t, tx.BorrowedDate.IsZero())

		after := s.getBook(b.ID)
		assert.Equal(t, 4, after.CopiesAvailable)
		assert.Equal(t, 1, after.CopiesBorrowed)
		t.Logf("✓ 借书成功,借阅记录ID: %d", tx.ID)
	})

	t.Run("场景B:重复借阅", func(t *testing.T) {
		status, resp := s.borrow(token, b.ID)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "already borrowed by you", resp.Message)
		assert.Equal(t, 4, s.getBook(b.ID).CopiesAvailable, "可借数不变")
	})

	t.Run("还书恢复可借数", func(t *testing.T) {
		status, resp := s.giveBack(token, b.ID)
		require.Equal(t, http.StatusOK, status, resp.Message)

		tx := decode[TransactionData](t, resp)
		assert.True(t, tx.Returned)
		require.NotNil(t, tx.ReturnedDate)

		after := s.getBook(b.ID)
		assert.Equal(t, 5, after.CopiesAvailable)
		assert.Equal(t, 0, after.CopiesBorrowed)
	})

	t.Run("重复还书", func(t *testing.T) {
		status, resp := s.giveBack(token, b.ID)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "not currently borrowed by this user", resp.Message)
		assert.Equal(t, 5, s.getBook(b.ID).CopiesAvailable)
	})

	t.Run("归还后可以再次借阅", func(t *testing.T) {
		status, resp := s.borrow(token, b.ID)
		require.Equal(t, http.StatusOK, status, resp.Message)
		assert.Equal(t, 4, s.getBook(b.ID).CopiesAvailable)
	})

	t.Run("场景C:无可借副本", func(t *testing.T) {
		single := s.addBook(fiction.ID, "Solaris", "Stanislaw Lem", 1)
		other := s.registerUser("reader2")

		status, resp := s.borrow(other, single.ID)
		require.Equal(t, http.StatusOK, status, resp.Message)

		status, resp = s.borrow(token, single.ID)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "no copies available", resp.Message)

		// 失败的借阅不产生记录
		status, resp = s.do(http.MethodGet, "/api/borrow/me?pageSize=100", nil, token)
		require.Equal(t, http.StatusOK, status)
		for _, tx := range decode[PageData[TransactionData]](t, resp).Content {
			assert.NotEqual(t, single.ID, tx.BookID)
		}
		t.Logf("✓ 无可借副本时拒绝借阅")
	})

	t.Run("已下架图书不能借", func(t *testing.T) {
		gone := s.addBook(fiction.ID, "Retired", "Someone", 2)
		status, _ := s.do(http.MethodDelete, fmt.Sprintf("/api/admin/books/%d", gone.ID), nil, s.adminToken)
		require.Equal(t, http.StatusOK, status)

		status, resp := s.borrow(token, gone.ID)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "book no longer borrowable", resp.Message)
	})

	t.Run("图书不存在", func(t *testing.T) {
		status, _ := s.borrow(token, 9999)
		assert.Equal(t, http.StatusNotFound, status)

		status, _ = s.giveBack(token, 9999)
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("未登录", func(t *testing.T) {
		status, _ := s.borrow("", b.ID)
		assert.Equal(t, http.StatusUnauthorized, status)
	})
}

func TestLending_MyTransactions(t *testing.T) {
	s := newTestServer(t)
	fiction := s.createCategory("Fiction")
	token := s.registerUser("reader1")
	other := s.registerUser("reader2")

	books := []BookData{
		s.addBook(fiction.ID, "Dune", "Frank Herbert", 2),
		s.addBook(fiction.ID, "Foundation", "Isaac Asimov", 2),
		s.addBook(fiction.ID, "Hyperion", "Dan Simmons", 2),
	}
	for _, b := range books {
		status, resp := s.borrow(token, b.ID)
		require.Equal(t, http.StatusOK, status, resp.Message)
	}
	status, resp := s.borrow(other, books[0].ID)
	require.Equal(t, http.StatusOK, status, resp.Message)

	status, resp = s.giveBack(token, books[1].ID)
	require.Equal(t, http.StatusOK, status, resp.Message)

	t.Run("只返回自己的记录", func(t *testing.T) {
		status, resp := s.do(http.MethodGet, "/api/borrow/me", nil, token)
		require.Equal(t, http.StatusOK, status)

		page := decode[PageData[TransactionData]](t, resp)
		require.Len(t, page.Content, 3)
		for _, tx := range page.Content {
			assert.NotEqual(t, uint(0), tx.UserID)
			assert.Equal(t, page.Content[0].UserID, tx.UserID)
		}
		assert.True(t, page.Content[1].Returned, "Foundation已归还")
	})

	t.Run("倒序分页", func(t *testing.T) {
		status, resp := s.do(http.MethodGet, "/api/borrow/me?pageSize=2&sortBy=transactionId&sortOrder=desc", nil, token)
		require.Equal(t, http.StatusOK, status)

		page := decode[PageData[TransactionData]](t, resp)
		require.Len(t, page.Content, 2)
		assert.Equal(t, books[2].ID, page.Content[0].BookID)
		assert.Equal(t, 2, page.TotalPages)
		assert.False(t, page.LastPage)
	})

	t.Run("未知排序字段", func(t *testing.T) {
		status, _ := s.do(http.MethodGet, "/api/borrow/me?sortBy=title", nil, token)
		assert.Equal(t, http.StatusBadRequest, status)
	})
}

// TestLending_ConcurrentBorrow 多个用户并发借最后几本副本
//
// 8个用户同时借一本只有3个副本的书,必须恰好3个成功,
// 失败的都是"no copies available",最终可借数为0
func TestLending_ConcurrentBorrow(t *testing.T) {
	s := newTestServer(t)
	fiction := s.createCategory("Fiction")
	b := s.addBook(fiction.ID, "Dune", "Frank Herbert", 3)

	const concurrency = 8
	tokens := make([]string, concurrency)
	for i := range tokens {
		tokens[i] = s.registerUser(fmt.Sprintf("reader%d", i+1))
	}

	var (
		wg        sync.WaitGroup
		successes atomic.Int32
		rejected  atomic.Int32
	)
	for _, token := range tokens {
		wg.Add(1)
		go func(token string) {
			defer wg.Done()
			status, body := rawBorrow(s, token, b.ID)
			switch {
			case status == http.StatusOK:
				successes.Add(1)
			case status == http.StatusBadRequest && strings.Contains(body, "no copies available"):
				rejected.Add(1)
			default:
				t.Errorf("意外的响应: %d %s", status, body)
			}
		}(token)
	}
	wg.Wait()

	assert.Equal(t, int32(3), successes.Load(), "成功数必须等于副本总数")
	assert.Equal(t, int32(concurrency-3), rejected.Load())

	after := s.getBook(b.ID)
	assert.Equal(t, 0, after.CopiesAvailable)
	assert.Equal(t, 3, after.CopiesBorrowed)
	t.Logf("✓ 并发借阅没有超借: 成功%d 拒绝%d", successes.Load(), rejected.Load())
}

// TestLending_ConcurrentSameUser 同一用户并发借同一本书只能产生一条未归还记录
func TestLending_ConcurrentSameUser(t *testing.T) {
	s := newTestServer(t)
	fiction := s.createCategory("Fiction")
	b := s.addBook(fiction.ID, "Dune", "Frank Herbert", 5)
	token := s.registerUser("reader1")

	const attempts = 6
	var (
		wg        sync.WaitGroup
		successes atomic.Int32
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status, body := rawBorrow(s, token, b.ID)
			if status == http.StatusOK {
				successes.Add(1)
				return
			}
			if !strings.Contains(body, "already borrowed by you") {
				t.Errorf("意外的响应: %d %s", status, body)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), successes.Load())
	assert.Equal(t, 4, s.getBook(b.ID).CopiesAvailable)

	status, resp := s.do(http.MethodGet, "/api/borrow/me", nil, token)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[PageData[TransactionData]](t, resp).Content, 1)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	fiction := s.createCategory("Fiction")
	b := s.addBook(fiction.ID, "Dune", "Frank Herbert", 1)
	token := s.registerUser("reader1")

	status, resp := s.borrow(token, b.ID)
	require.Equal(t, http.StatusOK, status, resp.Message)

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "library_borrows_total")
	assert.Contains(t, w.Body.String(), `path="/api/borrow/:bookId"`)
}

// rawBorrow 并发场景下使用,不调用require(不能在子goroutine中FailNow)
func rawBorrow(s *testServer, token string, bookID uint) (int, string) {
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/borrow/%d", bookID), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w.Code, w.Body.String()
}
