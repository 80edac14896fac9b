// Package shared 领域层公共抽象
//
// 这里只放各聚合共用的接口和值对象，不依赖任何基础设施。
package shared

import "context"

// TxManager 事务管理器接口
// 设计说明:
// 1. 领域服务只依赖这个接口,具体实现在infrastructure/persistence/rdb
// 2. fn内通过ctx传递事务,Repository从ctx中取出同一个事务连接
// 3. fn返回error时回滚,返回nil时提交
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
