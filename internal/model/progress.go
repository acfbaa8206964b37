package model

import "time"

type ProgressStatus string

const (
	StatusNotStarted ProgressStatus = "not_started"
	StatusInProgress ProgressStatus = "in_progress"
	StatusComplete   ProgressStatus = "complete"
)

// ProgressRecord 用户在某个主题/子主题上的进度。
// 主题级记录的 SubtopicID 为空串，这样 (user_id, topic_id, subtopic_id) 唯一索引同样约束它。
// swagger:model ProgressRecord
type ProgressRecord struct {
	ID                 uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID             uint           `gorm:"not null;uniqueIndex:idx_progress_user_topic_subtopic" json:"userId"`
	TopicID            string         `gorm:"type:varchar(64);not null;uniqueIndex:idx_progress_user_topic_subtopic" json:"topicId"`
	SubtopicID         string         `gorm:"type:varchar(64);not null;uniqueIndex:idx_progress_user_topic_subtopic" json:"subtopicId"`
	Status             ProgressStatus `gorm:"size:20;not null" json:"status"`
	ProgressPercentage int            `gorm:"not null;default:0" json:"progressPercentage"`
	CurrentSubtopicID  *string        `gorm:"type:varchar(64)" json:"currentSubtopicId"`
	CompletedAt        *time.Time     `json:"completedAt"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`
}

func (ProgressRecord) TableName() string {
	return "progress_records"
}

// IsTopicLevel 是否为主题级记录
func (p *ProgressRecord) IsTopicLevel() bool {
	return p.SubtopicID == ""
}
