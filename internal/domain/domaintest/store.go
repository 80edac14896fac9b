package domaintest

import (
	"context"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/category"
	"github.com/xiebiao/library/internal/domain/lending"
	"github.com/xiebiao/library/internal/domain/shared"
	"github.com/xiebiao/library/internal/domain/user"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// Store 内存数据库
type Store struct {
	txMu         sync.Mutex // 事务锁,先于mu获取
	mu           sync.Mutex
	nextID       uint
	categories   map[uint]category.Category
	books        map[uint]book.Book
	transactions map[uint]lending.Transaction
	users        map[uint]user.User

	// FailUpdateCopies 非nil时UpdateCopies直接返回该错误(模拟写入失败)
	FailUpdateCopies error
}

// NewStore 创建空的内存数据库
func NewStore() *Store {
	return &Store{
		categories:   map[uint]category.Category{},
		books:        map[uint]book.Book{},
		transactions: map[uint]lending.Transaction{},
		users:        map[uint]user.User{},
	}
}

// TxManager 绑定到该Store的事务管理器
// 同一Store的TxManager共用事务锁
func (s *Store) TxManager() *TxManager {
	return &TxManager{lock: &s.txMu, stores: []Snapshotter{s}}
}

// Categories 分类仓储
func (s *Store) Categories() category.Repository { return &categoryRepo{s} }

// Books 图书仓储
func (s *Store) Books() book.Repository { return &bookRepo{s} }

// Transactions 借阅记录仓储
func (s *Store) Transactions() lending.Repository { return &transactionRepo{s} }

// Users 用户仓储
func (s *Store) Users() user.Repository { return &userRepo{s} }

// Snapshot 实现Snapshotter
func (s *Store) Snapshot() func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	nextID := s.nextID
	categories := maps.Clone(s.categories)
	books := maps.Clone(s.books)
	transactions := maps.Clone(s.transactions)
	users := maps.Clone(s.users)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.nextID = nextID
		s.categories = categories
		s.books = books
		s.transactions = transactions
		s.users = users
	}
}

// OpenTransactions 未归还记录数(测试断言用)
func (s *Store) OpenTransactions(userID, bookID uint) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, t := range s.transactions {
		if t.UserID == userID && t.BookID == bookID && t.IsOpen() {
			n++
		}
	}
	return n
}

// TransactionCount 借阅记录总数
func (s *Store) TransactionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.transactions)
}

// autocommit 事务外的写入拿事务锁,返回释放函数
func (s *Store) autocommit(ctx context.Context) (release func()) {
	if holdsLock(ctx, &s.txMu) {
		return func() {}
	}
	s.txMu.Lock()
	return s.txMu.Unlock
}

func (s *Store) newID() uint {
	s.nextID++
	return s.nextID
}

// =========================================
// 分类
// =========================================

type categoryRepo struct{ s *Store }

func (r *categoryRepo) Create(ctx context.Context, c *category.Category) error {
	defer r.s.autocommit(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.nameTaken(c.NameKey(), 0) {
		return category.ErrNameTaken(c.Name)
	}
	c.ID = r.s.newID()
	r.s.categories[c.ID] = *c
	return nil
}

func (r *categoryRepo) FindByID(_ context.Context, id uint) (*category.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.categories[id]
	if !ok {
		return nil, category.ErrCategoryNotFound
	}
	return &c, nil
}

func (r *categoryRepo) LockByID(ctx context.Context, id uint) (*category.Category, error) {
	return r.FindByID(ctx, id)
}

func (r *categoryRepo) Update(ctx context.Context, c *category.Category) error {
	defer r.s.autocommit(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.categories[c.ID]; !ok {
		return category.ErrCategoryNotFound
	}
	if r.nameTaken(c.NameKey(), c.ID) {
		return category.ErrNameTaken(c.Name)
	}
	r.s.categories[c.ID] = *c
	return nil
}

func (r *categoryRepo) Delete(ctx context.Context, id uint) error {
	defer r.s.autocommit(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.categories[id]; !ok {
		return category.ErrCategoryNotFound
	}
	delete(r.s.categories, id)
	return nil
}

func (r *categoryRepo) HasBooks(_ context.Context, id uint) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, b := range r.s.books {
		if b.CategoryID == id {
			return true, nil
		}
	}
	return false, nil
}

func (r *categoryRepo) List(_ context.Context, q shared.PageQuery) ([]*category.Category, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	items := make([]*category.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		items = append(items, &c)
	}
	return paginate(items, q, func(a, b *category.Category) int {
		if q.SortBy == "categoryName" {
			return strings.Compare(a.Name, b.Name)
		}
		return int(a.ID) - int(b.ID)
	})
}

func (r *categoryRepo) nameTaken(key string, exceptID uint) bool {
	for id, c := range r.s.categories {
		if id != exceptID && c.NameKey() == key {
			return true
		}
	}
	return false
}

// =========================================
// 图书
// =========================================

type bookRepo struct{ s *Store }

func (r *bookRepo) Create(ctx context.Context, b *book.Book) error {
	defer r.s.autocommit(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b.ID = r.s.newID()
	r.s.books[b.ID] = *b
	return nil
}

func (r *bookRepo) FindByID(_ context.Context, id uint) (*book.Book, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.books[id]
	if !ok {
		return nil, book.ErrBookNotFound
	}
	return &b, nil
}

func (r *bookRepo) LockByID(ctx context.Context, id uint) (*book.Book, error) {
	return r.FindByID(ctx, id)
}

func (r *bookRepo) Update(ctx context.Context, b *book.Book) error {
	defer r.s.autocommit(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.books[b.ID]; !ok {
		return book.ErrBookNotFound
	}
	r.s.books[b.ID] = *b
	return nil
}

func (r *bookRepo) UpdateCopies(ctx context.Context, id uint, delta int) error {
	defer r.s.autocommit(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.FailUpdateCopies != nil {
		return r.s.FailUpdateCopies
	}

	b, ok := r.s.books[id]
	if !ok {
		return book.ErrBookNotFound
	}
	next := b.CopiesAvailable + delta
	switch {
	case delta < 0 && (!b.IsActive() || next < 0):
		return book.ErrNoCopiesAvailable
	case delta > 0 && next > b.CopiesTotal:
		return book.ErrCopiesOutOfSync
	}
	b.CopiesAvailable = next
	r.s.books[id] = b
	return nil
}

func (r *bookRepo) List(_ context.Context, f book.Filter, q shared.PageQuery) ([]*book.Book, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	items := make([]*book.Book, 0)
	for _, b := range r.s.books {
		if f.ActiveOnly && !b.IsActive() {
			continue
		}
		if f.CategoryID != 0 && b.CategoryID != f.CategoryID {
			continue
		}
		if f.Author != "" && !containsFold(b.Author, f.Author) {
			continue
		}
		if f.Title != "" && !containsFold(b.Title, f.Title) {
			continue
		}
		items = append(items, &b)
	}
	return paginate(items, q, func(a, b *book.Book) int {
		switch q.SortBy {
		case "title":
			return strings.Compare(a.Title, b.Title)
		case "author":
			return strings.Compare(a.Author, b.Author)
		case "copiesTotal":
			return a.CopiesTotal - b.CopiesTotal
		case "copiesAvailable":
			return a.CopiesAvailable - b.CopiesAvailable
		}
		return int(a.ID) - int(b.ID)
	})
}

// =========================================
// 借阅记录
// =========================================

type transactionRepo struct{ s *Store }

func (r *transactionRepo) Create(ctx context.Context, t *lending.Transaction) error {
	defer r.s.autocommit(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.transactions {
		if existing.IsOpen() && existing.OpenKey() == t.OpenKey() {
			return lending.ErrAlreadyBorrowed
		}
	}
	t.ID = r.s.newID()
	r.s.transactions[t.ID] = *t
	return nil
}

func (r *transactionRepo) FindOpen(_ context.Context, userID, bookID uint) (*lending.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, t := range r.s.transactions {
		if t.UserID == userID && t.BookID == bookID && t.IsOpen() {
			return &t, nil
		}
	}
	return nil, lending.ErrTransactionNotFound
}

func (r *transactionRepo) MarkReturned(ctx context.Context, t *lending.Transaction) error {
	defer r.s.autocommit(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.transactions[t.ID]
	if !ok || existing.Returned {
		return lending.ErrNotBorrowed
	}
	r.s.transactions[t.ID] = *t
	return nil
}

func (r *transactionRepo) ListByUser(_ context.Context, userID uint, q shared.PageQuery) ([]*lending.Transaction, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	items := make([]*lending.Transaction, 0)
	for _, t := range r.s.transactions {
		if t.UserID == userID {
			items = append(items, &t)
		}
	}
	return paginate(items, q, func(a, b *lending.Transaction) int {
		if q.SortBy == "borrowedDate" {
			return a.BorrowedAt.Compare(b.BorrowedAt)
		}
		return int(a.ID) - int(b.ID)
	})
}

// =========================================
// 用户
// =========================================

type userRepo struct{ s *Store }

func (r *userRepo) Create(ctx context.Context, u *user.User) error {
	defer r.s.autocommit(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return apperrors.New(apperrors.ErrCodeDuplicateEntry, "user already exists")
		}
	}
	u.ID = r.s.newID()
	r.s.users[u.ID] = *u
	return nil
}

func (r *userRepo) FindByID(_ context.Context, id uint) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return &u, nil
}

func (r *userRepo) FindByUsername(_ context.Context, username string) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *userRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.FindByUsername(ctx, username)
	return err == nil, nil
}

func (r *userRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// =========================================
// 辅助函数
// =========================================

func paginate[T any](items []T, q shared.PageQuery, cmp func(a, b T) int) ([]T, int64, error) {
	slices.SortStableFunc(items, cmp)
	if q.SortDir == shared.SortDesc {
		slices.Reverse(items)
	}

	total := int64(len(items))
	start := min(q.Offset(), len(items))
	end := min(start+q.PageSize, len(items))
	return items[start:end], total, nil
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
