package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"interview_prep_backend/internal/curriculum"
	"interview_prep_backend/internal/model"
	"interview_prep_backend/internal/repository"
	"interview_prep_backend/internal/util"
	"interview_prep_backend/pkg/logger"
	"interview_prep_backend/pkg/monitoring"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// QuestionResult 当前子主题的题目
type QuestionResult struct {
	SubtopicID string         `json:"subtopicId"`
	Generated  bool           `json:"generated"`
	Question   model.Question `json:"question"`
}

type generatedQuestion struct {
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	Examples    []model.QuestionExample `json:"examples"`
	Constraints []string                `json:"constraints"`
	TestCases   []struct {
		Input    string `json:"input"`
		Output   string `json:"output"`
		IsHidden bool   `json:"isHidden"`
	} `json:"testCases"`
}

type QuestionService struct {
	Questions  *repository.QuestionRepository
	Topics     *repository.TopicRepository
	Tracker    *TopicProgressService
	AI         CompletionClient
	difficulty model.Difficulty
}

func NewQuestionService(
	questions *repository.QuestionRepository,
	topics *repository.TopicRepository,
	tracker *TopicProgressService,
	ai CompletionClient,
	difficulty string,
) *QuestionService {
	d := model.Difficulty(difficulty)
	if d == "" {
		d = model.DifficultyBeginner
	}
	return &QuestionService{
		Questions:  questions,
		Topics:     topics,
		Tracker:    tracker,
		AI:         ai,
		difficulty: d,
	}
}

// GetForCategory 按分类 slug 选出当前子主题，返回缓存的题目或生成一道新题
func (s *QuestionService) GetForCategory(ctx context.Context, userID uint, slug string) (*QuestionResult, error) {
	category := curriculum.CategoryFromSlug(slug)

	subtopicID, err := s.Tracker.SelectTargetSubtopic(ctx, userID, category)
	if err != nil {
		return nil, err
	}

	existing, err := s.Questions.FindByTopic(ctx, subtopicID)
	if err == nil {
		return &QuestionResult{SubtopicID: subtopicID, Question: existing.Public()}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	subtopic, err := s.Topics.FindByID(ctx, subtopicID)
	if err != nil {
		return nil, fmt.Errorf("load subtopic %s: %w", subtopicID, err)
	}

	question, err := s.generate(ctx, subtopic)
	if err != nil {
		return nil, err
	}

	saved, err := s.Questions.GetOrCreate(ctx, question)
	if err != nil {
		return nil, err
	}
	return &QuestionResult{SubtopicID: subtopicID, Generated: saved.ID == question.ID, Question: saved.Public()}, nil
}

func (s *QuestionService) generate(ctx context.Context, subtopic *model.Topic) (*model.Question, error) {
	reply, err := s.AI.Complete(ctx, []AIChatMessage{
		{Role: RoleUser, Content: questionPrompt(subtopic.Name, subtopic.Description, string(s.difficulty))},
	})
	if err != nil {
		return nil, err
	}

	parsed, err := parseGeneratedQuestion(reply)
	if err != nil {
		logger.Log.Warn("unparseable generated question", zap.String("topic", subtopic.ID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", util.ErrAIUnavailable, err)
	}
	monitoring.QuestionsGenerated.Inc()

	q := &model.Question{
		TopicID:     subtopic.ID,
		Title:       parsed.Title,
		Description: parsed.Description,
		Difficulty:  s.difficulty,
		Constraints: parsed.Constraints,
		Examples:    parsed.Examples,
	}
	if q.Title == "" {
		q.Title = subtopic.Name
	}
	for _, tc := range parsed.TestCases {
		q.TestCases = append(q.TestCases, model.QuestionTestCase{Input: tc.Input, Output: tc.Output, IsHidden: tc.IsHidden})
	}
	return q, nil
}

// parseGeneratedQuestion 解析模型返回的 JSON，允许外层包着 ``` 代码块
func parseGeneratedQuestion(reply string) (*generatedQuestion, error) {
	text := strings.TrimSpace(reply)
	if start := strings.Index(text, "{"); start >= 0 {
		if end := strings.LastIndex(text, "}"); end > start {
			text = text[start : end+1]
		}
	}

	var q generatedQuestion
	if err := json.Unmarshal([]byte(text), &q); err != nil {
		return nil, err
	}
	if q.Title == "" && q.Description == "" {
		return nil, errors.New("generated question has no title or description")
	}
	return &q, nil
}

// Hint 为题目生成提示，不给出完整解答
func (s *QuestionService) Hint(ctx context.Context, problem string) (string, error) {
	return s.AI.Complete(ctx, []AIChatMessage{
		{Role: RoleUser, Content: hintPrompt(problem)},
	})
}

// HintForQuestion 按题目 ID 生成提示
func (s *QuestionService) HintForQuestion(ctx context.Context, questionID string) (string, error) {
	q, err := s.Questions.FindByID(ctx, questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", util.ErrQuestionNotFound
		}
		return "", err
	}
	return s.Hint(ctx, q.Title+"\n\n"+q.Description)
}
