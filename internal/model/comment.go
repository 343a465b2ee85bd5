package model

type Comment struct {
	Model
	ActivityID uint   `gorm:"not null;index" json:"activity_id"`
	AuthorID   string `gorm:"type:varchar(20);not null" json:"author_id"`
	Body       string `gorm:"type:varchar(255);not null" json:"body"`
	Disabled   bool   `gorm:"default:false;not null" json:"-"` // 管理员屏蔽标记
}
