package repository

import (
	"context"
	"interview_prep_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type ChatRepository struct {
	DB *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{DB: db}
}

func (r *ChatRepository) CreateSession(ctx context.Context, session *model.ChatSession) error {
	return r.DB.WithContext(ctx).Create(session).Error
}

// FindSession 只返回属于该用户的会话
func (r *ChatRepository) FindSession(ctx context.Context, id string, userID uint) (*model.ChatSession, error) {
	var session model.ChatSession
	err := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *ChatRepository) ListSessions(ctx context.Context, userID uint, limit, offset int) ([]model.ChatSession, int64, error) {
	var sessions []model.ChatSession
	var total int64

	db := r.DB.WithContext(ctx).Model(&model.ChatSession{}).Where("user_id = ?", userID)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Order("updated_at DESC").Limit(limit).Offset(offset).Find(&sessions).Error
	return sessions, total, err
}

// TouchSession 更新会话时间，会话列表按它排序
func (r *ChatRepository) TouchSession(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Model(&model.ChatSession{}).
		Where("id = ?", id).
		Update("updated_at", time.Now()).Error
}

func (r *ChatRepository) UpdateSessionTitle(ctx context.Context, id, title string) error {
	return r.DB.WithContext(ctx).Model(&model.ChatSession{}).
		Where("id = ?", id).
		Update("title", title).Error
}

func (r *ChatRepository) CreateMessage(ctx context.Context, msg *model.ChatMessage) error {
	return r.DB.WithContext(ctx).Create(msg).Error
}

// ListMessages 会话全部消息，时间正序
func (r *ChatRepository) ListMessages(ctx context.Context, sessionID string) ([]model.ChatMessage, error) {
	var messages []model.ChatMessage
	err := r.DB.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	return messages, err
}

// LatestMessageByType 指定类型的最新一条消息
func (r *ChatRepository) LatestMessageByType(ctx context.Context, sessionID string, msgType model.MessageType) (*model.ChatMessage, error) {
	var msg model.ChatMessage
	err := r.DB.WithContext(ctx).
		Where("session_id = ? AND message_type = ?", sessionID, msgType).
		Order("created_at DESC, id DESC").
		First(&msg).Error
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// RecentMessagesByType 指定类型最近 limit 条消息，按时间正序返回
func (r *ChatRepository) RecentMessagesByType(ctx context.Context, sessionID string, msgType model.MessageType, limit int) ([]model.ChatMessage, error) {
	var messages []model.ChatMessage
	err := r.DB.WithContext(ctx).
		Where("session_id = ? AND message_type = ?", sessionID, msgType).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (r *ChatRepository) CreateSubmission(ctx context.Context, sub *model.CodeSubmission) error {
	return r.DB.WithContext(ctx).Create(sub).Error
}

func (r *ChatRepository) LatestSubmission(ctx context.Context, sessionID string) (*model.CodeSubmission, error) {
	var sub model.CodeSubmission
	err := r.DB.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC, id DESC").
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *ChatRepository) SetSubmissionArchive(ctx context.Context, id uint, url string) error {
	return r.DB.WithContext(ctx).Model(&model.CodeSubmission{}).
		Where("id = ?", id).
		Update("archive_url", url).Error
}
