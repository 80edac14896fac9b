// Package domaintest 领域服务测试用的内存仓储和事务管理器
//
// Store在一个进程内模拟数据库:所有仓储共享同一份数据,
// 同一个Store的所有TxManager共用一把事务锁,串行执行事务(相当于所有行加锁),
// fn返回错误时恢复快照。事务外的写入同样先拿事务锁(相当于自动提交的单语句事务),
// 回滚不会抹掉并发的事务外写入。
package domaintest

import (
	"context"
	"sync"
)

// Snapshotter 支持回滚的存储
// Snapshot保存当前状态,返回的函数把状态恢复到保存时
type Snapshotter interface {
	Snapshot() (restore func())
}

type txKey struct{}

// TxManager 串行执行事务的内存实现
// 嵌套调用直接加入外层事务
type TxManager struct {
	lock   *sync.Mutex
	stores []Snapshotter
}

// NewTxManager 创建内存事务管理器(独立的事务锁)
func NewTxManager(stores ...Snapshotter) *TxManager {
	return &TxManager{lock: &sync.Mutex{}, stores: stores}
}

// Transaction 执行事务
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if holdsLock(ctx, m.lock) {
		return fn(ctx)
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	restores := make([]func(), 0, len(m.stores))
	for _, s := range m.stores {
		restores = append(restores, s.Snapshot())
	}

	if err := fn(context.WithValue(ctx, txKey{}, m.lock)); err != nil {
		for _, restore := range restores {
			restore()
		}
		return err
	}
	return nil
}

// holdsLock ctx是否处于持有lock的事务中
func holdsLock(ctx context.Context, lock *sync.Mutex) bool {
	held, _ := ctx.Value(txKey{}).(*sync.Mutex)
	return held == lock
}
