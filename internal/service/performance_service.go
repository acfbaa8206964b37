package service

import (
	"context"
	"errors"
	"fmt"
	"interview_prep_backend/internal/model"
	"interview_prep_backend/internal/repository"
	"interview_prep_backend/internal/scoring"
	"interview_prep_backend/internal/util"
	"interview_prep_backend/pkg/logger"
	"interview_prep_backend/pkg/monitoring"
	"interview_prep_backend/pkg/tracing"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProgressReport 一次评估后的进度报告
type ProgressReport struct {
	TargetJobTitle            string         `json:"targetJobTitle"`
	Level                     scoring.Level  `json:"level"`
	Scores                    scoring.Scores `json:"scores"`
	Targets                   scoring.Scores `json:"targets"`
	MetricsNeedingImprovement []string       `json:"metricsNeedingImprovement"`
	AreasNeedingImprovement   []string       `json:"areasNeedingImprovement"`
	Achieved                  int            `json:"achieved"`
	MetricCount               int            `json:"metricCount"`
	Ready                     bool           `json:"ready"`
	Feedback                  string         `json:"feedback"`
}

// Guidance 下一轮出题时注入提示词的上下文
type Guidance struct {
	JobTitle    string
	WeakMetrics []string
	Areas       []string
}

type PerformanceService struct {
	Targets         *repository.PerformanceTargetRepository
	Chats           *repository.ChatRepository
	levels          *scoring.LevelResolver
	titles          *scoring.TitleExtractor
	comparator      *scoring.Comparator
	defaultJobTitle string
	areasLookback   int
}

func NewPerformanceService(
	targets *repository.PerformanceTargetRepository,
	chats *repository.ChatRepository,
	levels *scoring.LevelResolver,
	titles *scoring.TitleExtractor,
	comparator *scoring.Comparator,
	defaultJobTitle string,
	areasLookback int,
) *PerformanceService {
	if defaultJobTitle == "" {
		defaultJobTitle = scoring.DefaultJobTitle
	}
	if areasLookback <= 0 {
		areasLookback = scoring.DefaultAreasLimit
	}
	return &PerformanceService{
		Targets:         targets,
		Chats:           chats,
		levels:          levels,
		titles:          titles,
		comparator:      comparator,
		defaultJobTitle: defaultJobTitle,
		areasLookback:   areasLookback,
	}
}

// MaybeInitialize 会话还没有目标分数时，从对话中推断职位并写入目标。
// 返回 nil, nil 表示本次没有创建：已存在、职位未知，或并发时另一请求先写入。
func (s *PerformanceService) MaybeInitialize(ctx context.Context, session *model.ChatSession, history []scoring.Turn, latestUserMessage string) (target *model.PerformanceTarget, err error) {
	ctx, span := tracing.StartSpan(ctx, "PerformanceService.MaybeInitialize", attribute.String("session.id", session.ID))
	defer func() { tracing.EndSpan(span, err) }()

	count, err := s.Targets.CountBySession(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, nil
	}

	title := s.titles.ExtractTitleFromHistory(history, latestUserMessage)
	if title == "" {
		return nil, nil
	}

	level := s.levels.ResolveLevel(title)
	target = model.NewPerformanceTarget(session.UserID, session.ID, title, s.levels.BaseTargets(level))

	if err := s.Targets.Create(ctx, target); err != nil {
		if errors.Is(err, util.ErrTargetExists) {
			logger.Log.Debug("performance target created concurrently", zap.String("session", session.ID))
			return nil, nil
		}
		return nil, fmt.Errorf("create performance target: %w", err)
	}

	monitoring.TargetsInitialized.WithLabelValues(string(level)).Inc()
	logger.Log.Info("performance target initialized",
		zap.String("session", session.ID),
		zap.String("title", title),
		zap.String("level", string(level)),
		zap.Int("total", target.TotalScore),
	)
	return target, nil
}

// GetTarget 会话的目标分数
func (s *PerformanceService) GetTarget(ctx context.Context, sessionID string) (*model.PerformanceTarget, error) {
	target, err := s.Targets.FindBySession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTargetNotFound
		}
		return nil, err
	}
	return target, nil
}

// JobTitleFor 会话目标职位，没有目标时用默认职位
func (s *PerformanceService) JobTitleFor(ctx context.Context, sessionID string) (string, error) {
	target, err := s.GetTarget(ctx, sessionID)
	if err != nil {
		if errors.Is(err, util.ErrTargetNotFound) {
			return s.defaultJobTitle, nil
		}
		return "", err
	}
	return target.TargetJobTitle, nil
}

// targetsFor 目标分数与职位；没有记录时按默认职位推算，不写库
func (s *PerformanceService) targetsFor(ctx context.Context, sessionID string) (string, scoring.Scores, error) {
	target, err := s.GetTarget(ctx, sessionID)
	if err == nil {
		return target.TargetJobTitle, target.Scores(), nil
	}
	if !errors.Is(err, util.ErrTargetNotFound) {
		return "", nil, err
	}
	return s.defaultJobTitle, s.levels.BaseTargets(s.levels.ResolveLevel(s.defaultJobTitle)), nil
}

// recentEvaluations 最近若干条评估文本，时间正序
func (s *PerformanceService) recentEvaluations(ctx context.Context, sessionID string) ([]string, error) {
	messages, err := s.Chats.RecentMessagesByType(ctx, sessionID, model.MessageEvaluation, s.areasLookback)
	if err != nil {
		return nil, err
	}
	texts := make([]string, 0, len(messages))
	for _, m := range messages {
		texts = append(texts, m.Content)
	}
	return texts, nil
}

// BuildReport 解析评估文本并与目标对比。evaluationText 为空时使用最近一次评估。
func (s *PerformanceService) BuildReport(ctx context.Context, sessionID, evaluationText string) (report *ProgressReport, err error) {
	ctx, span := tracing.StartSpan(ctx, "PerformanceService.BuildReport", attribute.String("session.id", sessionID))
	defer func() { tracing.EndSpan(span, err) }()

	evaluations, err := s.recentEvaluations(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if evaluationText == "" && len(evaluations) > 0 {
		evaluationText = evaluations[len(evaluations)-1]
	}

	title, targets, err := s.targetsFor(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	scores, found := scoring.ParseScores(evaluationText)
	monitoring.EvaluationsParsed.WithLabelValues(strconv.FormatBool(found)).Inc()

	achieved := s.comparator.Achieved(scores, targets)
	ready := achieved >= scoring.ReadinessThreshold
	monitoring.ReadinessVerdicts.WithLabelValues(strconv.FormatBool(ready)).Inc()

	return &ProgressReport{
		TargetJobTitle:            title,
		Level:                     s.levels.ResolveLevel(title),
		Scores:                    scores,
		Targets:                   targets,
		MetricsNeedingImprovement: s.comparator.MetricsNeedingImprovement(scores, targets),
		AreasNeedingImprovement:   scoring.ExtractAreasNeedingImprovement(evaluations, s.areasLookback),
		Achieved:                  achieved,
		MetricCount:               scoring.MetricCount,
		Ready:                     ready,
		Feedback:                  s.comparator.ComposeFeedback(scores, targets),
	}, nil
}

// Guidance 出题上下文：已知职位、最近一次评估中低于目标的维度、最近评估的改进项
func (s *PerformanceService) Guidance(ctx context.Context, sessionID string) (*Guidance, error) {
	g := &Guidance{}

	target, err := s.GetTarget(ctx, sessionID)
	if err != nil && !errors.Is(err, util.ErrTargetNotFound) {
		return nil, err
	}
	if target != nil {
		g.JobTitle = target.TargetJobTitle
	}

	evaluations, err := s.recentEvaluations(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(evaluations) == 0 {
		return g, nil
	}

	if target != nil {
		scores, _ := scoring.ParseScores(evaluations[len(evaluations)-1])
		g.WeakMetrics = s.comparator.MetricsNeedingImprovement(scores, target.Scores())
	}
	g.Areas = scoring.ExtractAreasNeedingImprovement(evaluations, s.areasLookback)
	return g, nil
}
