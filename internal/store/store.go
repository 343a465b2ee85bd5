package store

import (
	"activity-enroll-system/internal/engine"
	"activity-enroll-system/internal/global/database"
)

// Service 全局引擎实例，server.Init 时装配
var Service *engine.Service

// Init 装配存储实现与互斥锁，构建引擎
// 配置了 Redis 时使用分布式锁，否则退化为进程内锁
func Init() {
	activities := NewActivityStore(database.DB)
	enrollments := NewEnrollmentStore(database.DB)

	var locker engine.Locker
	if database.RDB != nil {
		locker = NewRedisLocker(database.RDB)
	} else {
		locker = NewLocalLocker()
	}

	Service = engine.NewService(activities, enrollments, locker, engine.SystemClock)
}
