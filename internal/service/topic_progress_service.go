package service

import (
	"context"
	"errors"
	"fmt"
	"interview_prep_backend/internal/model"
	"interview_prep_backend/internal/repository"
	"interview_prep_backend/internal/util"
	"interview_prep_backend/pkg/logger"
	"interview_prep_backend/pkg/tracing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProgressView 进度展示，没有记录时为 not_started/0
type ProgressView struct {
	Status             model.ProgressStatus `json:"status"`
	ProgressPercentage int                  `json:"progressPercentage"`
	CompletedAt        *time.Time           `json:"completedAt"`
	CurrentSubtopicID  *string              `json:"currentSubtopicId"`
}

type SubtopicProgressView struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Category      string           `json:"category"`
	Difficulty    model.Difficulty `json:"difficulty"`
	Description   string           `json:"description"`
	Prerequisites []string         `json:"prerequisites"`
	Progress      ProgressView     `json:"progress"`
}

type TopicProgressView struct {
	ID            string                 `json:"id"`
	Name          string                 `json:"name"`
	Category      string                 `json:"category"`
	Difficulty    model.Difficulty       `json:"difficulty"`
	Description   string                 `json:"description"`
	Prerequisites []string               `json:"prerequisites"`
	Progress      ProgressView           `json:"progress"`
	Subtopics     []SubtopicProgressView `json:"subtopics"`
}

// TopicProgressService 决定用户在某个分类下当前该学哪个子主题。
// 子主题按声明顺序推进，prerequisites 只用于展示。
type TopicProgressService struct {
	Topics   *repository.TopicRepository
	Progress *repository.ProgressRepository
}

func NewTopicProgressService(topics *repository.TopicRepository, progress *repository.ProgressRepository) *TopicProgressService {
	return &TopicProgressService{Topics: topics, Progress: progress}
}

func (s *TopicProgressService) rootFor(ctx context.Context, category string) (*model.Topic, error) {
	root, err := s.Topics.FindRootByCategory(ctx, category)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTopicNotFound
		}
		return nil, err
	}
	if len(root.Subtopics) == 0 {
		return nil, util.ErrNoSubtopics
	}
	return root, nil
}

// topicRecord 取主题级记录，不存在时创建并指向第一个子主题
func topicRecord(ctx context.Context, progress *repository.ProgressRepository, userID uint, root *model.Topic) (*model.ProgressRecord, bool, error) {
	rec, err := progress.FindRecord(ctx, userID, root.ID, "")
	if err == nil {
		return rec, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	first := root.Subtopics[0].ID
	return progress.GetOrCreate(ctx, &model.ProgressRecord{
		UserID:             userID,
		TopicID:            root.ID,
		SubtopicID:         "",
		Status:             model.StatusInProgress,
		ProgressPercentage: 0,
		CurrentSubtopicID:  &first,
	})
}

// firstIncomplete 声明顺序中第一个未完成的子主题
func firstIncomplete(root *model.Topic, completed map[string]bool) (string, bool) {
	for _, sub := range root.Subtopics {
		if !completed[sub.ID] {
			return sub.ID, true
		}
	}
	return "", false
}

// SelectTargetSubtopic 返回用户在该分类下应当练习的子主题 ID。
// 所有子主题都完成时返回 util.ErrAllSubtopicsCompleted。
func (s *TopicProgressService) SelectTargetSubtopic(ctx context.Context, userID uint, category string) (subtopicID string, err error) {
	ctx, span := tracing.StartSpan(ctx, "TopicProgressService.SelectTargetSubtopic", attribute.String("category", category))
	defer func() { tracing.EndSpan(span, err) }()

	root, err := s.rootFor(ctx, category)
	if err != nil {
		return "", err
	}

	rec, created, err := topicRecord(ctx, s.Progress, userID, root)
	if err != nil {
		return "", err
	}
	if created {
		return root.Subtopics[0].ID, nil
	}

	if rec.CurrentSubtopicID != nil && *rec.CurrentSubtopicID != "" {
		return *rec.CurrentSubtopicID, nil
	}

	completed, err := s.Progress.CompletedSubtopics(ctx, userID, root.ID)
	if err != nil {
		return "", err
	}
	next, ok := firstIncomplete(root, completed)
	if !ok {
		return "", util.ErrAllSubtopicsCompleted
	}

	rec.CurrentSubtopicID = &next
	if rec.Status != model.StatusInProgress {
		rec.Status = model.StatusInProgress
		rec.CompletedAt = nil
	}
	if err := s.Progress.UpdateTopicRecord(ctx, rec); err != nil {
		return "", fmt.Errorf("advance topic %s: %w", root.ID, err)
	}
	return next, nil
}

// CompleteSubtopic 标记子主题完成并推进主题进度
func (s *TopicProgressService) CompleteSubtopic(ctx context.Context, userID uint, category, subtopicID string) (rec *model.ProgressRecord, err error) {
	ctx, span := tracing.StartSpan(ctx, "TopicProgressService.CompleteSubtopic",
		attribute.String("category", category), attribute.String("subtopic.id", subtopicID))
	defer func() { tracing.EndSpan(span, err) }()

	root, err := s.rootFor(ctx, category)
	if err != nil {
		return nil, err
	}

	belongs := false
	for _, sub := range root.Subtopics {
		if sub.ID == subtopicID {
			belongs = true
			break
		}
	}
	if !belongs {
		return nil, util.ErrSubtopicNotFound
	}

	// 读取、重算、回写在同一事务内，主题级记录加行锁
	err = s.Progress.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		progress := s.Progress.WithTx(tx)

		if _, _, err := topicRecord(ctx, progress, userID, root); err != nil {
			return err
		}
		locked, err := progress.FindRecordForUpdate(ctx, userID, root.ID, "")
		if err != nil {
			return err
		}

		now := time.Now()
		if err := progress.MarkSubtopicComplete(ctx, userID, root.ID, subtopicID, now); err != nil {
			return err
		}

		completed, err := progress.CompletedSubtopics(ctx, userID, root.ID)
		if err != nil {
			return err
		}
		advanceTopicRecord(locked, root, completed, now)

		if err := progress.UpdateTopicRecord(ctx, locked); err != nil {
			return err
		}
		rec = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("subtopic completed",
		zap.Uint("user", userID),
		zap.String("topic", root.ID),
		zap.String("subtopic", subtopicID),
		zap.Int("percentage", rec.ProgressPercentage),
	)
	return rec, nil
}

// advanceTopicRecord 按已完成集合重算百分比与指针。
// 当前指针仍未完成时保持不变，否则指向声明顺序中第一个未完成的子主题；全部完成后主题置为 complete。
func advanceTopicRecord(rec *model.ProgressRecord, root *model.Topic, completed map[string]bool, now time.Time) {
	done := 0
	for _, sub := range root.Subtopics {
		if completed[sub.ID] {
			done++
		}
	}
	rec.ProgressPercentage = done * 100 / len(root.Subtopics)

	current := rec.CurrentSubtopicID
	if current == nil || completed[*current] {
		if next, ok := firstIncomplete(root, completed); ok {
			current = &next
		} else {
			current = nil
		}
	}

	rec.CurrentSubtopicID = current
	if current == nil {
		rec.Status = model.StatusComplete
		rec.CompletedAt = &now
	} else {
		rec.Status = model.StatusInProgress
		rec.CompletedAt = nil
	}
}

func progressView(rec *model.ProgressRecord) ProgressView {
	if rec == nil {
		return ProgressView{Status: model.StatusNotStarted}
	}
	return ProgressView{
		Status:             rec.Status,
		ProgressPercentage: rec.ProgressPercentage,
		CompletedAt:        rec.CompletedAt,
		CurrentSubtopicID:  rec.CurrentSubtopicID,
	}
}

// GetHierarchy 全部顶层主题、子主题及用户进度
func (s *TopicProgressService) GetHierarchy(ctx context.Context, userID uint) ([]TopicProgressView, error) {
	roots, err := s.Topics.ListRoots(ctx)
	if err != nil {
		return nil, err
	}
	records, err := s.Progress.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	type key struct{ topic, subtopic string }
	byKey := make(map[key]*model.ProgressRecord, len(records))
	for i := range records {
		byKey[key{records[i].TopicID, records[i].SubtopicID}] = &records[i]
	}

	views := make([]TopicProgressView, 0, len(roots))
	for _, root := range roots {
		view := TopicProgressView{
			ID:            root.ID,
			Name:          root.Name,
			Category:      root.Category,
			Difficulty:    root.Difficulty,
			Description:   root.Description,
			Prerequisites: root.Prerequisites,
			Progress:      progressView(byKey[key{root.ID, ""}]),
			Subtopics:     make([]SubtopicProgressView, 0, len(root.Subtopics)),
		}
		for _, sub := range root.Subtopics {
			view.Subtopics = append(view.Subtopics, SubtopicProgressView{
				ID:            sub.ID,
				Name:          sub.Name,
				Category:      sub.Category,
				Difficulty:    sub.Difficulty,
				Description:   sub.Description,
				Prerequisites: sub.Prerequisites,
				Progress:      progressView(byKey[key{root.ID, sub.ID}]),
			})
		}
		views = append(views, view)
	}
	return views, nil
}
