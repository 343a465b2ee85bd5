package engine

import (
	"context"

	"activity-enroll-system/internal/model"
)

// ActivityStore 活动存储契约，由 internal/store 提供实现。
// 引擎只消费快照与写入结果，自身不持有任何状态
type ActivityStore interface {
	Create(ctx context.Context, activity *model.Activity) error
	GetByID(ctx context.Context, id uint) (*model.Activity, error)
	// ListByLocation 返回同地点、未下架的全部活动
	ListByLocation(ctx context.Context, location string) ([]model.Activity, error)
	// List 按编译后的查询规格返回未下架活动及总数，分页由调用方给定
	List(ctx context.Context, spec ListSpec, offset, limit int) ([]model.Activity, int64, error)
	// SetDisabled 更新下架标记。恢复路径由 Service.RestoreActivity 把关，
	// 不要在地点锁之外直接置回 false
	SetDisabled(ctx context.Context, id uint, disabled bool) error
}

// EnrollmentStore 报名存储契约
type EnrollmentStore interface {
	Create(ctx context.Context, enrollment *model.Enrollment) error
	CountByActivity(ctx context.Context, activityID uint) (int64, error)
	ExistsFor(ctx context.Context, activityID uint, participantID string) (bool, error)
	// ListByParticipant 返回参与者的全部报名记录，附带活动时间段
	ListByParticipant(ctx context.Context, participantID string) ([]model.Enrollment, error)
}

// Locker 互斥锁契约，锁的粒度由调用方的 key 决定。
// 持锁窗口须覆盖“读快照-校验-写入”全过程，否则并发请求会基于同一
// 快照双重放行，破坏地点独占与名额上限
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}
