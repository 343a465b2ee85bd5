package engine

import "time"

// Clock 提供当前时间。状态推导与全部校验都经由它读取时钟，
// 测试时注入固定时间即可复现任意时刻的行为
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock 读取系统壁钟
var SystemClock Clock = systemClock{}

// FixedClock 返回固定时间的 Clock，供测试使用
type FixedClock time.Time

func (f FixedClock) Now() time.Time { return time.Time(f) }
