package repository

import (
	"context"
	"encoding/json"
	"interview_prep_backend/internal/model"
	"interview_prep_backend/pkg/logger"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const topicTreeKeyPrefix = "topic:tree:"

// TopicRepository 课程树只读访问，Redis 可选，用于缓存整棵分类树
type TopicRepository struct {
	DB       *gorm.DB
	Redis    *redis.Client
	cacheTTL time.Duration
}

func NewTopicRepository(db *gorm.DB, rdb *redis.Client, cacheTTL time.Duration) *TopicRepository {
	return &TopicRepository{DB: db, Redis: rdb, cacheTTL: cacheTTL}
}

func orderByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// FindRootByCategory 分类下的顶层主题及其子主题（按声明顺序）
func (r *TopicRepository) FindRootByCategory(ctx context.Context, category string) (*model.Topic, error) {
	key := topicTreeKeyPrefix + category
	if cached := r.getCached(ctx, key); cached != nil {
		return cached, nil
	}

	var topic model.Topic
	err := r.DB.WithContext(ctx).
		Preload("Subtopics", orderByPosition).
		Where("category = ? AND parent_id IS NULL", category).
		Order("position ASC").
		First(&topic).Error
	if err != nil {
		return nil, err
	}

	r.setCached(ctx, key, &topic)
	return &topic, nil
}

// ListRoots 所有顶层主题及其子主题
func (r *TopicRepository) ListRoots(ctx context.Context) ([]model.Topic, error) {
	var topics []model.Topic
	err := r.DB.WithContext(ctx).
		Preload("Subtopics", orderByPosition).
		Where("parent_id IS NULL").
		Order("position ASC").
		Find(&topics).Error
	return topics, err
}

func (r *TopicRepository) FindByID(ctx context.Context, id string) (*model.Topic, error) {
	var topic model.Topic
	err := r.DB.WithContext(ctx).First(&topic, "id = ?", id).Error
	return &topic, err
}

// InvalidateCategory 清除分类树缓存
func (r *TopicRepository) InvalidateCategory(ctx context.Context, category string) error {
	if r.Redis == nil {
		return nil
	}
	return r.Redis.Del(ctx, topicTreeKeyPrefix+category).Err()
}

func (r *TopicRepository) getCached(ctx context.Context, key string) *model.Topic {
	if r.Redis == nil {
		return nil
	}
	val, err := r.Redis.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Log.Warn("topic cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil
	}

	var topic model.Topic
	if err := json.Unmarshal([]byte(val), &topic); err != nil {
		logger.Log.Warn("topic cache decode failed", zap.String("key", key), zap.Error(err))
		return nil
	}
	return &topic
}

func (r *TopicRepository) setCached(ctx context.Context, key string, topic *model.Topic) {
	if r.Redis == nil {
		return
	}
	data, err := json.Marshal(topic)
	if err != nil {
		return
	}
	if err := r.Redis.Set(ctx, key, data, r.cacheTTL).Err(); err != nil {
		logger.Log.Warn("topic cache write failed", zap.String("key", key), zap.Error(err))
	}
}
