package database

import (
	"context"
	"time"

	"activity-enroll-system/config"
	"activity-enroll-system/internal/global/sentry/tracing"
	"activity-enroll-system/tools"

	"github.com/redis/go-redis/v9"
)

var RDB *redis.Client

// InitRedis 初始化 Redis 客户端，用于校验窗口的互斥锁
// 未配置 Host 时跳过，此时退化为进程内锁（仅适用于单实例部署）
func InitRedis() {
	cfg := config.Get().Redis
	if cfg.Host == "" {
		return
	}

	RDB = redis.NewClient(&redis.Options{
		Addr:     cfg.Host + ":" + cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if config.Get().Sentry.Dsn != "" {
		RDB.AddHook(tracing.NewRedisHook())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	tools.PanicOnErr(RDB.Ping(ctx).Err())
}
