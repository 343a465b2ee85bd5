package engine

import "time"

// Status 活动生命周期状态，始终由当前时间推导，不落库
type Status int

const (
	StatusReserved Status = iota + 1 // 未开始，可报名
	StatusOngoing                    // 进行中
	StatusFinished                   // 已结束
)

func (s Status) String() string {
	switch s {
	case StatusReserved:
		return "reserved"
	case StatusOngoing:
		return "ongoing"
	case StatusFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// StatusAt 由给定时刻推导活动状态
// 对固定的活动，状态随时间单调经历 Reserved → Ongoing → Finished，不会回退
func StatusAt(now, begin, end time.Time) Status {
	switch {
	case now.Before(begin):
		return StatusReserved
	case now.Before(end):
		return StatusOngoing
	default:
		return StatusFinished
	}
}
