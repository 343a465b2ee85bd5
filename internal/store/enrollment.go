package store

import (
	"context"
	"strings"

	"activity-enroll-system/internal/global/response"
	"activity-enroll-system/internal/model"

	"gorm.io/gorm"
)

// EnrollmentStore 报名存储的 gorm 实现
type EnrollmentStore struct {
	db *gorm.DB
}

func NewEnrollmentStore(db *gorm.DB) *EnrollmentStore {
	return &EnrollmentStore{db: db}
}

func (s *EnrollmentStore) Create(ctx context.Context, enrollment *model.Enrollment) error {
	if err := s.db.WithContext(ctx).Create(enrollment).Error; err != nil {
		// 唯一索引兜底，正常路径下重复报名在校验阶段已被拦下
		if strings.Contains(strings.ToLower(err.Error()), "duplicate") {
			return response.ErrAlreadyEnrolled
		}
		return response.ErrDatabase.WithOrigin(err)
	}
	return nil
}

func (s *EnrollmentStore) CountByActivity(ctx context.Context, activityID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Enrollment{}).
		Where("activity_id = ?", activityID).
		Count(&count).Error
	if err != nil {
		return 0, response.ErrDatabase.WithOrigin(err)
	}
	return count, nil
}

func (s *EnrollmentStore) ExistsFor(ctx context.Context, activityID uint, participantID string) (bool, error) {
	var exist bool
	err := s.db.WithContext(ctx).
		Raw("SELECT EXISTS(SELECT 1 FROM enrollment WHERE activity_id = ? AND participant_id = ?)",
			activityID, participantID).
		Scan(&exist).Error
	if err != nil {
		return false, response.ErrDatabase.WithOrigin(err)
	}
	return exist, nil
}

// ListByParticipant 参与者的全部报名记录，附带活动时间段供冲突检查
func (s *EnrollmentStore) ListByParticipant(ctx context.Context, participantID string) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := s.db.WithContext(ctx).Model(&model.Enrollment{}).
		Preload("Activity", func(db *gorm.DB) *gorm.DB {
			return db.Unscoped()
		}).
		Where("participant_id = ?", participantID).
		Order("created_at DESC").
		Find(&enrollments).Error
	if err != nil {
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	return enrollments, nil
}
