package tracing

import (
	"context"
	"net"
	"strings"
	"time"

	"activity-enroll-system/config"

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
)

// RedisHook 把 Redis 命令作为子 Span 挂到当前请求的 Sentry 事务上。
// 互斥锁的 SETNX 等待就发生在这条链路上，慢锁直接体现为慢 Span
type RedisHook struct {
	// slowThreshold 超过该时长的命令才上报，0 表示全部上报
	slowThreshold time.Duration
}

func NewRedisHook() *RedisHook {
	ms := config.Get().Sentry.Tracing.RedisSlowThresholdMs
	return &RedisHook{slowThreshold: time.Duration(ms) * time.Millisecond}
}

func (h *RedisHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (h *RedisHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()

		var span *sentry.Span
		if parent := sentry.SpanFromContext(ctx); parent != nil {
			span = parent.StartChild("db.redis")
			// 只携带命令名，参数里有锁 token 等内容，不上报
			span.Description = strings.ToUpper(cmd.Name())
			span.SetData("db.system", "redis")
			ctx = span.Context()
		}

		err := next(ctx, cmd)

		if span != nil {
			h.finish(span, start, err)
		}
		return err
	}
}

func (h *RedisHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		start := time.Now()

		var span *sentry.Span
		if parent := sentry.SpanFromContext(ctx); parent != nil {
			span = parent.StartChild("db.redis.pipeline")
			span.Description = pipelineDescription(cmds)
			span.SetData("db.system", "redis")
			span.SetData("redis.pipeline_length", len(cmds))
			ctx = span.Context()
		}

		err := next(ctx, cmds)

		if span != nil {
			h.finish(span, start, err)
		}
		return err
	}
}

func (h *RedisHook) finish(span *sentry.Span, start time.Time, err error) {
	if h.slowThreshold > 0 && time.Since(start) < h.slowThreshold {
		span.Sampled = sentry.SampledFalse
	}
	if err != nil && err != redis.Nil {
		span.Status = sentry.SpanStatusInternalError
		span.SetData("redis.error", err.Error())
	} else {
		span.Status = sentry.SpanStatusOK
	}
	span.Finish()
}

// pipelineDescription 列出前几个命令名，避免描述过长
func pipelineDescription(cmds []redis.Cmder) string {
	const maxShow = 3
	if len(cmds) == 0 {
		return "PIPELINE (empty)"
	}
	names := make([]string, 0, maxShow)
	for i, cmd := range cmds {
		if i >= maxShow {
			break
		}
		names = append(names, strings.ToUpper(cmd.Name()))
	}
	desc := "PIPELINE: " + strings.Join(names, ", ")
	if len(cmds) > maxShow {
		desc += "..."
	}
	return desc
}
