package repository

import (
	"context"
	"interview_prep_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) FindByTopic(ctx context.Context, topicID string) (*model.Question, error) {
	var q model.Question
	err := r.DB.WithContext(ctx).Where("topic_id = ?", topicID).First(&q).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuestionRepository) FindByID(ctx context.Context, id string) (*model.Question, error) {
	var q model.Question
	err := r.DB.WithContext(ctx).First(&q, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// GetOrCreate 每个子主题只保留一道题，并发生成时以先写入的为准
func (r *QuestionRepository) GetOrCreate(ctx context.Context, q *model.Question) (*model.Question, error) {
	result := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "topic_id"}}, DoNothing: true}).
		Create(q)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected > 0 {
		return q, nil
	}
	return r.FindByTopic(ctx, q.TopicID)
}
