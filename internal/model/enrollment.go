package model

// Enrollment 报名记录，(activity_id, participant_id) 唯一
type Enrollment struct {
	Model
	ActivityID    uint   `gorm:"not null;index:idx_activity_participant,unique" json:"activity_id"`
	ParticipantID string `gorm:"type:varchar(20);not null;index:idx_activity_participant,unique" json:"participant_id"`
	Activity      Activity `gorm:"foreignKey:ActivityID;references:ID" json:"activity"`
}
