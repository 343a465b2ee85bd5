package engine

import (
	"time"

	"activity-enroll-system/internal/model"
)

// Interval 表示活动占用的时间段
type Interval struct {
	Begin time.Time
	End   time.Time
}

// IntervalOf 取活动的占用时间段
func IntervalOf(a *model.Activity) Interval {
	return Interval{Begin: a.BeginTime, End: a.EndTime}
}

// Conflicts 判断两个时间段是否冲突
// 边界规则：仅当两段之间存在严格的空隙才算不冲突，首尾相接（a.Begin == b.End）同样视为冲突。
// 同一地点、同一参与者不允许无缝衔接的安排，这是有意保留的业务规则，
// 不要“修正”成半开区间比较
func Conflicts(a, b Interval) bool {
	return !(a.Begin.After(b.End) || a.End.Before(b.Begin))
}
