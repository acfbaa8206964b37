package repository

import (
	"context"
	"interview_prep_backend/internal/model"
	"interview_prep_backend/internal/util"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PerformanceTargetRepository struct {
	DB *gorm.DB
}

func NewPerformanceTargetRepository(db *gorm.DB) *PerformanceTargetRepository {
	return &PerformanceTargetRepository{DB: db}
}

func (r *PerformanceTargetRepository) CountBySession(ctx context.Context, sessionID string) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.PerformanceTarget{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error
	return count, err
}

func (r *PerformanceTargetRepository) FindBySession(ctx context.Context, sessionID string) (*model.PerformanceTarget, error) {
	var target model.PerformanceTarget
	err := r.DB.WithContext(ctx).Where("session_id = ?", sessionID).First(&target).Error
	if err != nil {
		return nil, err
	}
	return &target, nil
}

// Create 插入目标分数；会话已有目标时不写入并返回 util.ErrTargetExists
func (r *PerformanceTargetRepository) Create(ctx context.Context, target *model.PerformanceTarget) error {
	result := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "session_id"}}, DoNothing: true}).
		Create(target)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return util.ErrTargetExists
	}
	return nil
}
