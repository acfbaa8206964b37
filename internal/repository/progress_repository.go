package repository

import (
	"context"
	"interview_prep_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProgressRepository 主题/子主题进度，(user_id, topic_id, subtopic_id) 唯一
type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// WithTx 绑定到事务
func (r *ProgressRepository) WithTx(tx *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: tx}
}

// FindRecordForUpdate 同 FindRecord，并对该行加写锁（需在事务中调用）
func (r *ProgressRepository) FindRecordForUpdate(ctx context.Context, userID uint, topicID, subtopicID string) (*model.ProgressRecord, error) {
	var rec model.ProgressRecord
	err := r.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND topic_id = ? AND subtopic_id = ?", userID, topicID, subtopicID).
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// FindRecord 查找一条进度，主题级记录 subtopicID 传空串
func (r *ProgressRepository) FindRecord(ctx context.Context, userID uint, topicID, subtopicID string) (*model.ProgressRecord, error) {
	var rec model.ProgressRecord
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND topic_id = ? AND subtopic_id = ?", userID, topicID, subtopicID).
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetOrCreate 不存在则插入 rec，已存在（含并发插入）则返回已有记录且不做修改
func (r *ProgressRepository) GetOrCreate(ctx context.Context, rec *model.ProgressRecord) (*model.ProgressRecord, bool, error) {
	result := r.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(rec)
	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected > 0 {
		return rec, true, nil
	}

	existing, err := r.FindRecord(ctx, rec.UserID, rec.TopicID, rec.SubtopicID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// UpdateTopicRecord 更新主题级记录的状态、百分比、指针与完成时间
func (r *ProgressRepository) UpdateTopicRecord(ctx context.Context, rec *model.ProgressRecord) error {
	return r.DB.WithContext(ctx).Model(&model.ProgressRecord{}).
		Where("id = ?", rec.ID).
		Updates(map[string]interface{}{
			"status":              rec.Status,
			"progress_percentage": rec.ProgressPercentage,
			"current_subtopic_id": rec.CurrentSubtopicID,
			"completed_at":        rec.CompletedAt,
			"updated_at":          time.Now(),
		}).Error
}

// MarkSubtopicComplete 子主题记录置为完成，不存在则创建
func (r *ProgressRepository) MarkSubtopicComplete(ctx context.Context, userID uint, topicID, subtopicID string, at time.Time) error {
	rec := &model.ProgressRecord{
		UserID:             userID,
		TopicID:            topicID,
		SubtopicID:         subtopicID,
		Status:             model.StatusComplete,
		ProgressPercentage: 100,
		CompletedAt:        &at,
	}
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "topic_id"}, {Name: "subtopic_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"status", "progress_percentage", "completed_at", "updated_at",
		}),
	}).Create(rec).Error
}

// CompletedSubtopics 主题下已完成的子主题 ID 集合
func (r *ProgressRepository) CompletedSubtopics(ctx context.Context, userID uint, topicID string) (map[string]bool, error) {
	var ids []string
	err := r.DB.WithContext(ctx).Model(&model.ProgressRecord{}).
		Where("user_id = ? AND topic_id = ? AND subtopic_id <> '' AND status = ?", userID, topicID, model.StatusComplete).
		Pluck("subtopic_id", &ids).Error
	if err != nil {
		return nil, err
	}

	done := make(map[string]bool, len(ids))
	for _, id := range ids {
		done[id] = true
	}
	return done, nil
}

// ListByUser 用户的全部进度记录
func (r *ProgressRepository) ListByUser(ctx context.Context, userID uint) ([]model.ProgressRecord, error) {
	var records []model.ProgressRecord
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("topic_id ASC, subtopic_id ASC").
		Find(&records).Error
	return records, err
}
