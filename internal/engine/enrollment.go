package engine

import (
	"fmt"
	"time"

	"activity-enroll-system/internal/global/response"
	"activity-enroll-system/internal/model"
)

// Commitment 参与者已报名活动的时间占用
type Commitment struct {
	ActivityID uint
	Interval   Interval
}

// ValidateEnrollment 依序执行报名校验，返回第一条被违反的规则对应的错误。
// enrolled 为该活动当前报名数，already 表示该参与者是否已报名该活动，
// others 是该参与者其余已报名活动的时间占用；三者须来自同一持锁快照。
// 校验顺序决定并发违规时报哪一个错，调整顺序会改变对外的错误语义
func ValidateEnrollment(now time.Time, activity *model.Activity, participantID string,
	enrolled int64, already bool, others []Commitment) (*model.Enrollment, error) {

	if StatusAt(now, activity.BeginTime, activity.EndTime) != StatusReserved {
		return nil, response.ErrActivityNotJoinable
	}
	if activity.PublisherID == participantID {
		return nil, response.ErrPublisherCannotEnroll
	}
	if enrolled >= int64(activity.Capacity) {
		return nil, response.ErrCapacityExceeded.WithTips(
			fmt.Sprintf("名额上限=%d", activity.Capacity))
	}
	if already {
		return nil, response.ErrAlreadyEnrolled
	}

	target := IntervalOf(activity)
	for _, other := range others {
		if other.ActivityID == activity.ID {
			// 自身的报名记录由重复报名检查负责
			continue
		}
		if Conflicts(target, other.Interval) {
			return nil, response.ErrParticipantTimeConflict.WithTips(
				fmt.Sprintf("冲突活动ID=%d", other.ActivityID))
		}
	}

	return &model.Enrollment{
		ActivityID:    activity.ID,
		ParticipantID: participantID,
	}, nil
}
