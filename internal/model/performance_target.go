package model

import (
	"interview_prep_backend/internal/scoring"
	"time"

	"gorm.io/gorm"
)

// PerformanceTarget 会话的目标分数，每个会话最多一条，创建后不再修改
// swagger:model PerformanceTarget
type PerformanceTarget struct {
	ID                   string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID               uint      `gorm:"index;not null" json:"userId"`
	SessionID            string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"sessionId"`
	TargetJobTitle       string    `gorm:"size:100;not null" json:"targetJobTitle"`
	ProblemUnderstanding int       `gorm:"not null" json:"problemUnderstanding"`
	DataStructureChoice  int       `gorm:"not null" json:"dataStructureChoice"`
	TimeComplexity       int       `gorm:"not null" json:"timeComplexity"`
	CodingStyle          int       `gorm:"not null" json:"codingStyle"`
	EdgeCases            int       `gorm:"not null" json:"edgeCases"`
	LanguageUsage        int       `gorm:"not null" json:"languageUsage"`
	Communication        int       `gorm:"not null" json:"communication"`
	Optimization         int       `gorm:"not null" json:"optimization"`
	TotalScore           int       `gorm:"not null" json:"totalScore"`
	CreatedAt            time.Time `json:"createdAt"`
}

func (PerformanceTarget) TableName() string {
	return "performance_targets"
}

func (t *PerformanceTarget) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == "" {
		t.ID = GenerateUUID()
	}
	return
}

// NewPerformanceTarget 由一组完整的目标分数构造记录，TotalScore 取各项之和
func NewPerformanceTarget(userID uint, sessionID, title string, s scoring.Scores) *PerformanceTarget {
	return &PerformanceTarget{
		UserID:               userID,
		SessionID:            sessionID,
		TargetJobTitle:       title,
		ProblemUnderstanding: s[scoring.ProblemUnderstanding],
		DataStructureChoice:  s[scoring.DataStructureChoice],
		TimeComplexity:       s[scoring.TimeComplexity],
		CodingStyle:          s[scoring.CodingStyle],
		EdgeCases:            s[scoring.EdgeCases],
		LanguageUsage:        s[scoring.LanguageUsage],
		Communication:        s[scoring.Communication],
		Optimization:         s[scoring.Optimization],
		TotalScore:           s.Total(),
	}
}

// Scores 转换为按维度索引的分数
func (t *PerformanceTarget) Scores() scoring.Scores {
	return scoring.Scores{
		scoring.ProblemUnderstanding: t.ProblemUnderstanding,
		scoring.DataStructureChoice:  t.DataStructureChoice,
		scoring.TimeComplexity:       t.TimeComplexity,
		scoring.CodingStyle:          t.CodingStyle,
		scoring.EdgeCases:            t.EdgeCases,
		scoring.LanguageUsage:        t.LanguageUsage,
		scoring.Communication:        t.Communication,
		scoring.Optimization:         t.Optimization,
	}
}
