package model

import "time"

// Activity 活动记录。创建后时间与地点不可变更，唯一允许的修改是下架标记
type Activity struct {
	Model
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`          // 活动名称
	Description string    `gorm:"type:varchar(255);" json:"description"`           // 活动描述
	PublisherID string    `gorm:"type:varchar(20);not null;index" json:"publisher_id"` // 发布者用户名
	Location    string    `gorm:"type:varchar(64);not null;index" json:"location"` // 活动地点
	BeginTime   time.Time `gorm:"not null;index" json:"begin_time"`                // 活动开始时间
	EndTime     time.Time `gorm:"not null;index" json:"end_time"`                  // 活动结束时间
	Capacity    int       `gorm:"not null" json:"capacity"`                        // 名额上限
	Disabled    bool      `gorm:"default:false;not null" json:"disabled"`          // 下架标记，下架后不再占用地点
	// 关联到发布者
	Publisher User `gorm:"foreignKey:PublisherID;references:Username" json:"publisher"`
}
