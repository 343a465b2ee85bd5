package store

import (
	"context"
	"sync"

	"activity-enroll-system/internal/global/response"
)

// LocalLocker 进程内互斥锁，单实例部署或未配置 Redis 时使用
// 锁语义与 RedisLocker 一致，但无法跨实例生效
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[string]chan struct{})}
}

// Acquire 获取 key 对应的锁，等待期间 ctx 取消则放弃
func (l *LocalLocker) Acquire(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	ch, ok := l.locks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.locks[key] = ch
	}
	l.mu.Unlock()

	select {
	case ch <- struct{}{}:
		return func() { <-ch }, nil
	case <-ctx.Done():
		return nil, response.ErrBusy.WithOrigin(ctx.Err())
	}
}
