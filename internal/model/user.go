package model

type User struct {
	Model
	Username string `gorm:"type:varchar(20);uniqueIndex;not null" json:"username"`
	Password string `gorm:"type:varchar(255);not null" json:"-"`
	RoleID   int    `gorm:"default:0;not null" json:"role_id"` // 0 普通用户  1 管理员
	NickName string `gorm:"type:varchar(20);not null" json:"nick_name"`
	Avatar   string `gorm:"type:varchar(255);" json:"avatar"`
}
