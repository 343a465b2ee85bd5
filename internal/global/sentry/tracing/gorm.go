package tracing

import (
	"time"

	"activity-enroll-system/config"

	"github.com/getsentry/sentry-go"
	"gorm.io/gorm"
)

const (
	spanInstanceKey  = "sentry:span"
	startInstanceKey = "sentry:start"
)

// GormPlugin 把数据库操作作为子 Span 挂到当前请求的 Sentry 事务上。
// Span 描述只携带表名，完整 SQL 可能含敏感数据且基数过高，不上报
type GormPlugin struct {
	// slowThreshold 超过该时长的查询才上报，0 表示全部上报
	slowThreshold time.Duration
}

func NewGormPlugin() *GormPlugin {
	ms := config.Get().Sentry.Tracing.DBSlowThresholdMs
	return &GormPlugin{slowThreshold: time.Duration(ms) * time.Millisecond}
}

func (p *GormPlugin) Name() string {
	return "sentry-tracing"
}

func (p *GormPlugin) Initialize(db *gorm.DB) error {
	_ = db.Callback().Create().Before("gorm:create").Register("sentry:before_create", p.before("db.sql.create"))
	_ = db.Callback().Query().Before("gorm:query").Register("sentry:before_query", p.before("db.sql.query"))
	_ = db.Callback().Update().Before("gorm:update").Register("sentry:before_update", p.before("db.sql.update"))
	_ = db.Callback().Delete().Before("gorm:delete").Register("sentry:before_delete", p.before("db.sql.delete"))
	_ = db.Callback().Row().Before("gorm:row").Register("sentry:before_row", p.before("db.sql.row"))
	_ = db.Callback().Raw().Before("gorm:raw").Register("sentry:before_raw", p.before("db.sql.raw"))

	_ = db.Callback().Create().After("gorm:create").Register("sentry:after_create", p.after)
	_ = db.Callback().Query().After("gorm:query").Register("sentry:after_query", p.after)
	_ = db.Callback().Update().After("gorm:update").Register("sentry:after_update", p.after)
	_ = db.Callback().Delete().After("gorm:delete").Register("sentry:after_delete", p.after)
	_ = db.Callback().Row().After("gorm:row").Register("sentry:after_row", p.after)
	_ = db.Callback().Raw().After("gorm:raw").Register("sentry:after_raw", p.after)

	return nil
}

func (p *GormPlugin) before(operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		if db.Statement == nil || db.Statement.Context == nil {
			return
		}
		db.InstanceSet(startInstanceKey, time.Now())

		parent := sentry.SpanFromContext(db.Statement.Context)
		if parent == nil {
			return
		}
		span := parent.StartChild(operation)
		span.Description = db.Statement.Table
		span.SetData("db.system", "mysql")

		db.InstanceSet(spanInstanceKey, span)
		db.Statement.Context = span.Context()
	}
}

func (p *GormPlugin) after(db *gorm.DB) {
	if db.Statement == nil {
		return
	}
	startVal, ok := db.InstanceGet(startInstanceKey)
	if !ok {
		return
	}
	start, ok := startVal.(time.Time)
	if !ok {
		return
	}

	spanVal, ok := db.InstanceGet(spanInstanceKey)
	if !ok {
		return
	}
	span, ok := spanVal.(*sentry.Span)
	if !ok || span == nil {
		return
	}

	if p.slowThreshold > 0 && time.Since(start) < p.slowThreshold {
		// 未过阈值的查询标记为不采样，不会发送
		span.Sampled = sentry.SampledFalse
	}

	span.SetData("db.rows_affected", db.RowsAffected)
	if db.Error != nil {
		span.Status = sentry.SpanStatusInternalError
		span.SetData("db.error", db.Error.Error())
	} else {
		span.Status = sentry.SpanStatusOK
	}
	span.Finish()
}
