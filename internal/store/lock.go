package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"activity-enroll-system/internal/global/response"

	"github.com/redis/go-redis/v9"
)

// releaseScript 只删除自己持有的锁，避免误删他人在超时后重新获取的锁
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`)

// RedisLocker 基于 Redis SETNX 的互斥锁。
// 创建按地点加锁、报名按活动加锁，持锁窗口覆盖“读快照-校验-写入”全过程，
// 多实例部署时依然能阻止并发请求基于同一快照双重放行
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration // 锁自动过期时间，防止持有者崩溃后死锁
	wait   time.Duration // 获取锁的最长等待时间
	retry  time.Duration // 重试间隔
}

func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{
		client: client,
		ttl:    5 * time.Second,
		wait:   2 * time.Second,
		retry:  50 * time.Millisecond,
	}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string) (func(), error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return nil, response.ErrInternal.WithOrigin(err)
	}
	token := hex.EncodeToString(buf)

	deadline := time.Now().Add(l.wait)
	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, response.ErrDatabase.WithOrigin(err)
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return nil, response.ErrBusy
		}
		select {
		case <-ctx.Done():
			return nil, response.ErrBusy.WithOrigin(ctx.Err())
		case <-time.After(l.retry):
		}
	}

	release := func() {
		releaseScript.Run(context.Background(), l.client, []string{key}, token)
	}
	return release, nil
}
