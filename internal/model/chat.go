package model

import (
	"time"
)

const (
	SenderUser      = "user"
	SenderAssistant = "assistant"
)

type MessageType string

const (
	MessageGeneral    MessageType = "general"
	MessageQuestion   MessageType = "question"
	MessageEvaluation MessageType = "evaluation"
)

// ChatSession 用户与 AI 导师的一次对话
// swagger:model ChatSession
type ChatSession struct {
	UUIDBase
	UserID uint   `gorm:"index;not null" json:"userId"`
	Title  string `gorm:"size:255" json:"title"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}

// ChatMessage 会话消息，按 (created_at, id) 排序
// swagger:model ChatMessage
type ChatMessage struct {
	ID          uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID   string      `gorm:"type:varchar(36);not null;index:idx_chat_msg_session_created" json:"sessionId"`
	CreatedAt   time.Time   `gorm:"index:idx_chat_msg_session_created" json:"createdAt"`
	Sender      string      `gorm:"size:20;not null" json:"sender"`
	MessageType MessageType `gorm:"size:20;not null;index" json:"messageType"`
	Content     string      `gorm:"type:text;not null" json:"content"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}

// CodeSubmission 会话中保存的代码
// swagger:model CodeSubmission
type CodeSubmission struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID  string    `gorm:"type:varchar(36);not null;index" json:"sessionId"`
	UserID     uint      `gorm:"index;not null" json:"userId"`
	Language   string    `gorm:"size:30;not null" json:"language"`
	Code       string    `gorm:"type:text;not null" json:"code"`
	ArchiveURL string    `gorm:"size:255" json:"archiveUrl,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (CodeSubmission) TableName() string {
	return "code_submissions"
}
