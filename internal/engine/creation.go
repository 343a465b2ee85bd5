package engine

import (
	"fmt"
	"time"

	"activity-enroll-system/internal/global/response"
	"activity-enroll-system/internal/model"
)

// maxActivityDays 活动时长上限（整天）
const maxActivityDays = 1

// CreationProposal 待创建的活动提案
type CreationProposal struct {
	PublisherID string
	Name        string
	Description string
	Location    string
	Begin       time.Time
	End         time.Time
	Capacity    int
}

// ValidateCreation 依序执行创建校验，返回第一条被违反的规则对应的错误。
// sameLocation 是存储层提供的同地点、未下架活动的快照，本函数不做任何 I/O。
// 校验通过时返回待持久化的活动记录，落库由调用方负责
func ValidateCreation(now time.Time, p CreationProposal, sameLocation []model.Activity) (*model.Activity, error) {
	if !p.Begin.Before(p.End) {
		return nil, response.ErrInvalidTimeRange
	}
	if p.Begin.Before(now) {
		return nil, response.ErrPastStartTime
	}
	// 时长按整天截断判断：23小时59分的活动不会被拒绝，刚好24小时的会。
	// 与既有线上行为保持一致，调整边界前需与业务确认
	if p.End.Sub(p.Begin)/(24*time.Hour) >= maxActivityDays {
		return nil, response.ErrActivityTooLong
	}

	proposed := Interval{Begin: p.Begin, End: p.End}
	for i := range sameLocation {
		if Conflicts(proposed, IntervalOf(&sameLocation[i])) {
			return nil, response.ErrLocationConflict.WithTips(
				fmt.Sprintf("冲突活动ID=%d", sameLocation[i].ID))
		}
	}

	return &model.Activity{
		Name:        p.Name,
		Description: p.Description,
		PublisherID: p.PublisherID,
		Location:    p.Location,
		BeginTime:   p.Begin,
		EndTime:     p.End,
		Capacity:    p.Capacity,
	}, nil
}
