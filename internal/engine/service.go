package engine

import (
	"context"
	"fmt"
	"time"

	"activity-enroll-system/internal/global/response"
	"activity-enroll-system/internal/model"
)

// Service 调度与报名一致性引擎的编排入口。
// 本身无状态，所有决策都基于存储层在持锁窗口内提供的快照
type Service struct {
	activities  ActivityStore
	enrollments EnrollmentStore
	locker      Locker
	clock       Clock
}

func NewService(activities ActivityStore, enrollments EnrollmentStore, locker Locker, clock Clock) *Service {
	if clock == nil {
		clock = SystemClock
	}
	return &Service{
		activities:  activities,
		enrollments: enrollments,
		locker:      locker,
		clock:       clock,
	}
}

// CreateActivity 在地点锁内完成“查询-校验-落库”。
// 同地点的并发创建请求被串行化，避免基于同一快照双重放行产生重叠活动
func (s *Service) CreateActivity(ctx context.Context, p CreationProposal) (*model.Activity, error) {
	release, err := s.locker.Acquire(ctx, "lock:location:"+p.Location)
	if err != nil {
		return nil, err
	}
	defer release()

	existing, err := s.activities.ListByLocation(ctx, p.Location)
	if err != nil {
		return nil, err
	}

	activity, err := ValidateCreation(s.clock.Now(), p, existing)
	if err != nil {
		return nil, err
	}

	if err := s.activities.Create(ctx, activity); err != nil {
		return nil, err
	}
	return activity, nil
}

// Enroll 在活动锁内完成报名的“查询-校验-落库”，
// 报名数、重复报名与参与者时间冲突都读取同一持锁快照
func (s *Service) Enroll(ctx context.Context, activityID uint, participantID string) (*model.Enrollment, error) {
	release, err := s.locker.Acquire(ctx, fmt.Sprintf("lock:activity:%d", activityID))
	if err != nil {
		return nil, err
	}
	defer release()

	activity, err := s.activities.GetByID(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if activity.Disabled {
		return nil, response.ErrNotFound.WithTips("活动已下架")
	}

	enrolled, err := s.enrollments.CountByActivity(ctx, activityID)
	if err != nil {
		return nil, err
	}
	already, err := s.enrollments.ExistsFor(ctx, activityID, participantID)
	if err != nil {
		return nil, err
	}
	records, err := s.enrollments.ListByParticipant(ctx, participantID)
	if err != nil {
		return nil, err
	}
	others := make([]Commitment, 0, len(records))
	for i := range records {
		others = append(others, Commitment{
			ActivityID: records[i].ActivityID,
			Interval:   IntervalOf(&records[i].Activity),
		})
	}

	enrollment, err := ValidateEnrollment(s.clock.Now(), activity, participantID, enrolled, already, others)
	if err != nil {
		return nil, err
	}

	if err := s.enrollments.Create(ctx, enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

// DisableActivity 下架活动，地点占用与名额随之释放，报名记录保留。
// 下架只释放资源不新占资源，无需加锁
func (s *Service) DisableActivity(ctx context.Context, id uint) error {
	return s.activities.SetDisabled(ctx, id, true)
}

// RestoreActivity 恢复已下架的活动。恢复会重新占用地点，
// 下架期间同地点可能已建立重叠的活动，因此必须在地点锁内
// 重跑冲突检查后才能清除下架标记
func (s *Service) RestoreActivity(ctx context.Context, id uint) error {
	activity, err := s.activities.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !activity.Disabled {
		return nil
	}

	release, err := s.locker.Acquire(ctx, "lock:location:"+activity.Location)
	if err != nil {
		return err
	}
	defer release()

	existing, err := s.activities.ListByLocation(ctx, activity.Location)
	if err != nil {
		return err
	}
	restored := IntervalOf(activity)
	for i := range existing {
		if existing[i].ID == activity.ID {
			continue
		}
		if Conflicts(restored, IntervalOf(&existing[i])) {
			return response.ErrLocationConflict.WithTips(
				fmt.Sprintf("冲突活动ID=%d", existing[i].ID))
		}
	}

	return s.activities.SetDisabled(ctx, id, false)
}

// ListActivities 编译目录查询并交给存储层执行，at 为状态筛选的评估时刻，
// 零值时取当前时间
func (s *Service) ListActivities(ctx context.Context, q CatalogQuery, at time.Time, offset, limit int) ([]model.Activity, int64, error) {
	if at.IsZero() {
		at = s.clock.Now()
	}
	spec, err := q.Compile(at)
	if err != nil {
		return nil, 0, err
	}
	return s.activities.List(ctx, spec, offset, limit)
}

// GetActivity 读取单个活动
func (s *Service) GetActivity(ctx context.Context, id uint) (*model.Activity, error) {
	return s.activities.GetByID(ctx, id)
}

// Now 暴露引擎时钟，供展示层推导状态时与引擎保持同一时间源
func (s *Service) Now() time.Time {
	return s.clock.Now()
}
