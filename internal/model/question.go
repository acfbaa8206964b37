package model

import (
	"time"

	"gorm.io/gorm"
)

type QuestionExample struct {
	Input       string `json:"input"`
	Output      string `json:"output"`
	Explanation string `json:"explanation"`
}

type QuestionTestCase struct {
	Input    string `json:"input"`
	Output   string `json:"output"`
	IsHidden bool   `json:"isHidden"`
}

// Question 为子主题生成的题目，每个子主题缓存一道
// swagger:model Question
type Question struct {
	ID          string             `gorm:"primaryKey;type:varchar(36)" json:"id"`
	TopicID     string             `gorm:"type:varchar(64);uniqueIndex;not null" json:"topicId"`
	Title       string             `gorm:"size:255;not null" json:"title"`
	Description string             `gorm:"type:text" json:"description"`
	Difficulty  Difficulty         `gorm:"size:20;not null" json:"difficulty"`
	Constraints []string           `gorm:"serializer:json;type:text" json:"constraints"`
	Examples    []QuestionExample  `gorm:"serializer:json;type:text" json:"examples"`
	TestCases   []QuestionTestCase `gorm:"serializer:json;type:text" json:"testCases"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

func (Question) TableName() string {
	return "interview_questions"
}

func (q *Question) BeforeCreate(tx *gorm.DB) (err error) {
	if q.ID == "" {
		q.ID = GenerateUUID()
	}
	return
}

// Public 去掉隐藏用例后的副本
func (q Question) Public() Question {
	visible := make([]QuestionTestCase, 0, len(q.TestCases))
	for _, tc := range q.TestCases {
		if !tc.IsHidden {
			visible = append(visible, tc)
		}
	}
	q.TestCases = visible
	if q.Examples == nil {
		q.Examples = []QuestionExample{}
	}
	if q.Constraints == nil {
		q.Constraints = []string{}
	}
	return q
}
