// Package curriculum 内置的面试准备课程树
package curriculum

import (
	_ "embed"
	"fmt"
	"interview_prep_backend/internal/model"

	"gopkg.in/yaml.v3"
)

//go:embed curriculum.yaml
var defaultCurriculum []byte

// CategorySlugs URL 中的分类 slug 到分类名
var CategorySlugs = map[string]string{
	"data-structures": "Data Structures",
	"algorithms":      "Algorithms",
	"system-design":   "System Design",
	"web-development": "Web Development",
}

// CategoryFromSlug 解析分类 slug，未知 slug 原样返回
func CategoryFromSlug(slug string) string {
	if name, ok := CategorySlugs[slug]; ok {
		return name
	}
	return slug
}

type topicSpec struct {
	ID            string      `yaml:"id"`
	Name          string      `yaml:"name"`
	Category      string      `yaml:"category"`
	Difficulty    string      `yaml:"difficulty"`
	Description   string      `yaml:"description"`
	Prerequisites []string    `yaml:"prerequisites"`
	Subtopics     []topicSpec `yaml:"subtopics"`
}

type document struct {
	Topics []topicSpec `yaml:"topics"`
}

// Default 解析内置课程树
func Default() ([]model.Topic, error) {
	return Parse(defaultCurriculum)
}

// Parse 解析 YAML 课程树，返回顶层主题（含子主题）。
// 子主题继承父主题的分类，Position 为声明顺序。
func Parse(data []byte) ([]model.Topic, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse curriculum: %w", err)
	}

	seen := map[string]bool{}
	topics := make([]model.Topic, 0, len(doc.Topics))
	for i, spec := range doc.Topics {
		root, err := buildTopic(spec, nil, spec.Category, i, seen)
		if err != nil {
			return nil, err
		}
		for j, sub := range spec.Subtopics {
			if len(sub.Subtopics) > 0 {
				return nil, fmt.Errorf("topic %s: only two levels are supported", sub.ID)
			}
			child, err := buildTopic(sub, &root.ID, root.Category, j, seen)
			if err != nil {
				return nil, err
			}
			root.Subtopics = append(root.Subtopics, child)
		}
		topics = append(topics, root)
	}
	return topics, nil
}

func buildTopic(spec topicSpec, parentID *string, category string, position int, seen map[string]bool) (model.Topic, error) {
	if spec.ID == "" || spec.Name == "" {
		return model.Topic{}, fmt.Errorf("topic at position %d: id and name are required", position)
	}
	if seen[spec.ID] {
		return model.Topic{}, fmt.Errorf("duplicate topic id %s", spec.ID)
	}
	seen[spec.ID] = true

	if category == "" {
		return model.Topic{}, fmt.Errorf("topic %s: category is required", spec.ID)
	}

	difficulty := model.Difficulty(spec.Difficulty)
	switch difficulty {
	case model.DifficultyBeginner, model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard:
	case "":
		difficulty = model.DifficultyBeginner
	default:
		return model.Topic{}, fmt.Errorf("topic %s: unknown difficulty %q", spec.ID, spec.Difficulty)
	}

	prereqs := spec.Prerequisites
	if prereqs == nil {
		prereqs = []string{}
	}

	t := model.Topic{
		ID:            spec.ID,
		Name:          spec.Name,
		Category:      category,
		Difficulty:    difficulty,
		Description:   spec.Description,
		Prerequisites: prereqs,
		Position:      position,
	}
	if parentID != nil {
		pid := *parentID
		t.ParentID = &pid
	}
	return t, nil
}

// Flatten 展开为父节点在前的列表，便于按顺序写库
func Flatten(roots []model.Topic) []model.Topic {
	var out []model.Topic
	for _, root := range roots {
		children := root.Subtopics
		root.Subtopics = nil
		out = append(out, root)
		out = append(out, children...)
	}
	return out
}
