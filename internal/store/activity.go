package store

import (
	"context"
	"errors"

	"activity-enroll-system/internal/engine"
	"activity-enroll-system/internal/global/response"
	"activity-enroll-system/internal/model"

	"gorm.io/gorm"
)

// ActivityStore 活动存储的 gorm 实现
type ActivityStore struct {
	db *gorm.DB
}

func NewActivityStore(db *gorm.DB) *ActivityStore {
	return &ActivityStore{db: db}
}

func (s *ActivityStore) Create(ctx context.Context, activity *model.Activity) error {
	if err := s.db.WithContext(ctx).Create(activity).Error; err != nil {
		return response.ErrDatabase.WithOrigin(err)
	}
	return nil
}

func (s *ActivityStore) GetByID(ctx context.Context, id uint) (*model.Activity, error) {
	var activity model.Activity
	err := s.db.WithContext(ctx).First(&activity, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.ErrNotFound.WithTips("活动不存在")
	}
	if err != nil {
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	return &activity, nil
}

// ListByLocation 同地点、未下架活动的快照，供创建校验做冲突检查
func (s *ActivityStore) ListByLocation(ctx context.Context, location string) ([]model.Activity, error) {
	var activities []model.Activity
	err := s.db.WithContext(ctx).
		Where("location = ? AND disabled = ?", location, false).
		Find(&activities).Error
	if err != nil {
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	return activities, nil
}

// List 应用编译后的查询规格，返回一页未下架活动及总数
func (s *ActivityStore) List(ctx context.Context, spec engine.ListSpec, offset, limit int) ([]model.Activity, int64, error) {
	tx := s.db.WithContext(ctx).Model(&model.Activity{}).Where("disabled = ?", false)
	for _, cond := range spec.Conds {
		tx = tx.Where(cond.Expr, cond.Args...)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, response.ErrDatabase.WithOrigin(err)
	}

	for _, order := range spec.Orders {
		tx = tx.Order(order)
	}

	var activities []model.Activity
	if err := tx.Preload("Publisher").Offset(offset).Limit(limit).Find(&activities).Error; err != nil {
		return nil, 0, response.ErrDatabase.WithOrigin(err)
	}
	return activities, total, nil
}

// SetDisabled 更新下架标记；下架后地点与名额即被释放。
// 恢复走 Service.RestoreActivity，那里会在地点锁内重跑冲突检查
func (s *ActivityStore) SetDisabled(ctx context.Context, id uint, disabled bool) error {
	result := s.db.WithContext(ctx).Model(&model.Activity{}).
		Where("id = ?", id).
		Update("disabled", disabled)
	if result.Error != nil {
		return response.ErrDatabase.WithOrigin(result.Error)
	}
	if result.RowsAffected == 0 {
		return response.ErrNotFound.WithTips("活动不存在")
	}
	return nil
}
