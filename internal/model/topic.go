package model

import "time"

type Difficulty string

const (
	DifficultyBeginner Difficulty = "beginner"
	DifficultyEasy     Difficulty = "easy"
	DifficultyMedium   Difficulty = "medium"
	DifficultyHard     Difficulty = "hard"
)

// Topic 课程树节点，两层：顶层主题与其子主题。
// Position 记录声明顺序，子主题按它排序。
// swagger:model Topic
type Topic struct {
	ID            string     `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Name          string     `gorm:"size:100;not null" json:"name"`
	Category      string     `gorm:"size:100;index;not null" json:"category"`
	Difficulty    Difficulty `gorm:"size:20;not null" json:"difficulty"`
	Description   string     `gorm:"type:text" json:"description"`
	Prerequisites []string   `gorm:"serializer:json;type:text" json:"prerequisites"`
	ParentID      *string    `gorm:"type:varchar(64);index" json:"parentId"`
	Position      int        `gorm:"not null;default:0" json:"position"`
	Subtopics     []Topic    `gorm:"foreignKey:ParentID" json:"subtopics,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func (Topic) TableName() string {
	return "topics"
}

// IsRoot 是否为顶层主题
func (t *Topic) IsRoot() bool {
	return t.ParentID == nil
}
