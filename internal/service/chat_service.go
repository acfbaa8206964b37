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
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 助手回复中包含该标记即视为出题消息
const problemMarker = "Problem Title:"

const sessionTitleMaxRunes = 50

// ChatReply 一轮对话的结果
type ChatReply struct {
	UserMessage      *model.ChatMessage       `json:"userMessage"`
	AssistantMessage *model.ChatMessage       `json:"assistantMessage"`
	Target           *model.PerformanceTarget `json:"target,omitempty"`
}

// StreamOutcome 流式对话结束时的结果
type StreamOutcome struct {
	Message *model.ChatMessage
	Err     error
}

// EvaluationOutcome 代码评估结果
type EvaluationOutcome struct {
	Message *model.ChatMessage `json:"message"`
	Report  *ProgressReport    `json:"report"`
}

type ChatService struct {
	Chats          *repository.ChatRepository
	Performance    *PerformanceService
	AI             CompletionClient
	Runner         CodeRunner
	Storage        *StorageService
	archiveEnabled bool
}

func NewChatService(
	chats *repository.ChatRepository,
	performance *PerformanceService,
	ai CompletionClient,
	runner CodeRunner,
	storage *StorageService,
	archiveEnabled bool,
) *ChatService {
	return &ChatService{
		Chats:          chats,
		Performance:    performance,
		AI:             ai,
		Runner:         runner,
		Storage:        storage,
		archiveEnabled: archiveEnabled,
	}
}

// ClassifyReply 含出题标记的助手回复记为 question，其余为 general
func ClassifyReply(content string) model.MessageType {
	if strings.Contains(content, problemMarker) {
		return model.MessageQuestion
	}
	return model.MessageGeneral
}

func toTurns(messages []model.ChatMessage) []scoring.Turn {
	turns := make([]scoring.Turn, 0, len(messages))
	for _, m := range messages {
		role := scoring.RoleUser
		if m.Sender == model.SenderAssistant {
			role = scoring.RoleAssistant
		}
		turns = append(turns, scoring.Turn{Role: role, Content: m.Content})
	}
	return turns
}

func sessionTitle(content string) string {
	title := strings.Join(strings.Fields(content), " ")
	runes := []rune(title)
	if len(runes) > sessionTitleMaxRunes {
		return string(runes[:sessionTitleMaxRunes]) + "..."
	}
	return title
}

func (s *ChatService) CreateSession(ctx context.Context, userID uint, title string) (*model.ChatSession, error) {
	session := &model.ChatSession{UserID: userID, Title: strings.TrimSpace(title)}
	if err := s.Chats.CreateSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *ChatService) ListSessions(ctx context.Context, userID uint, limit, offset int) ([]model.ChatSession, int64, error) {
	return s.Chats.ListSessions(ctx, userID, limit, offset)
}

// GetSession 会话不存在或不属于该用户时返回 util.ErrSessionNotFound
func (s *ChatService) GetSession(ctx context.Context, userID uint, sessionID string) (*model.ChatSession, error) {
	session, err := s.Chats.FindSession(ctx, sessionID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

func (s *ChatService) GetMessages(ctx context.Context, userID uint, sessionID string) ([]model.ChatMessage, error) {
	if _, err := s.GetSession(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	return s.Chats.ListMessages(ctx, sessionID)
}

// prepareTurn 保存用户消息、按需初始化目标分数，并拼出发给模型的消息
func (s *ChatService) prepareTurn(ctx context.Context, session *model.ChatSession, content string) (*model.ChatMessage, *model.PerformanceTarget, []AIChatMessage, error) {
	history, err := s.Chats.ListMessages(ctx, session.ID)
	if err != nil {
		return nil, nil, nil, err
	}

	userMsg := &model.ChatMessage{
		SessionID:   session.ID,
		Sender:      model.SenderUser,
		MessageType: model.MessageGeneral,
		Content:     content,
	}
	if err := s.Chats.CreateMessage(ctx, userMsg); err != nil {
		return nil, nil, nil, err
	}

	if session.Title == "" {
		session.Title = sessionTitle(content)
		if err := s.Chats.UpdateSessionTitle(ctx, session.ID, session.Title); err != nil {
			logger.Log.Warn("update session title failed", zap.String("session", session.ID), zap.Error(err))
		}
	}

	target, err := s.Performance.MaybeInitialize(ctx, session, toTurns(history), content)
	if err != nil {
		// 目标初始化失败不影响本轮对话
		logger.Log.Error("initialize performance target failed", zap.String("session", session.ID), zap.Error(err))
	}

	system := problemGeneratorPrompt
	if g, err := s.Performance.Guidance(ctx, session.ID); err != nil {
		logger.Log.Warn("load tutor guidance failed", zap.String("session", session.ID), zap.Error(err))
	} else {
		system += tutorGuidance(g.JobTitle, g.WeakMetrics, g.Areas)
	}

	messages := make([]AIChatMessage, 0, len(history)+2)
	messages = append(messages, AIChatMessage{Role: RoleSystem, Content: system})
	for _, turn := range toTurns(history) {
		messages = append(messages, AIChatMessage{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, AIChatMessage{Role: RoleUser, Content: content})

	return userMsg, target, messages, nil
}

func (s *ChatService) saveReply(ctx context.Context, sessionID, reply string) (*model.ChatMessage, error) {
	msg := &model.ChatMessage{
		SessionID:   sessionID,
		Sender:      model.SenderAssistant,
		MessageType: ClassifyReply(reply),
		Content:     reply,
	}
	if err := s.Chats.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}
	if err := s.Chats.TouchSession(ctx, sessionID); err != nil {
		logger.Log.Warn("touch session failed", zap.String("session", sessionID), zap.Error(err))
	}
	return msg, nil
}

// SendMessage 一轮完整的对话
func (s *ChatService) SendMessage(ctx context.Context, userID uint, sessionID, content string) (reply *ChatReply, err error) {
	ctx, span := tracing.StartSpan(ctx, "ChatService.SendMessage", attribute.String("session.id", sessionID))
	defer func() { tracing.EndSpan(span, err) }()

	session, err := s.GetSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	userMsg, target, messages, err := s.prepareTurn(ctx, session, content)
	if err != nil {
		return nil, err
	}

	text, err := s.AI.Complete(ctx, messages)
	if err != nil {
		return nil, err
	}

	assistantMsg, err := s.saveReply(ctx, session.ID, text)
	if err != nil {
		return nil, err
	}

	return &ChatReply{UserMessage: userMsg, AssistantMessage: assistantMsg, Target: target}, nil
}

// SendMessageStream 流式对话。内容块从第一个通道输出，结束后第二个通道给出保存的助手消息或错误。
func (s *ChatService) SendMessageStream(ctx context.Context, userID uint, sessionID, content string) (<-chan string, <-chan StreamOutcome, error) {
	session, err := s.GetSession(ctx, userID, sessionID)
	if err != nil {
		return nil, nil, err
	}

	_, _, messages, err := s.prepareTurn(ctx, session, content)
	if err != nil {
		return nil, nil, err
	}

	chunks, errChan := s.AI.CompleteStream(ctx, messages)
	out := make(chan string)
	done := make(chan StreamOutcome, 1)

	go func() {
		defer close(done)
		defer close(out)

		var b strings.Builder
		for chunk := range chunks {
			b.WriteString(chunk)
			select {
			case out <- chunk:
			case <-ctx.Done():
			}
		}

		// 客户端断开时保存已生成的部分内容
		if err := <-errChan; err != nil && (ctx.Err() == nil || b.Len() == 0) {
			done <- StreamOutcome{Err: err}
			return
		}
		if b.Len() == 0 {
			done <- StreamOutcome{Err: fmt.Errorf("%w: empty reply", util.ErrAIUnavailable)}
			return
		}

		msg, err := s.saveReply(context.WithoutCancel(ctx), session.ID, b.String())
		done <- StreamOutcome{Message: msg, Err: err}
	}()

	return out, done, nil
}

// SaveCode 保存一份代码提交，开启归档时同时写入对象存储
func (s *ChatService) SaveCode(ctx context.Context, userID uint, sessionID, language, code string) (*model.CodeSubmission, error) {
	if _, err := s.GetSession(ctx, userID, sessionID); err != nil {
		return nil, err
	}

	sub := &model.CodeSubmission{
		SessionID: sessionID,
		UserID:    userID,
		Language:  util.NormalizeLanguage(language),
		Code:      code,
	}
	if err := s.Chats.CreateSubmission(ctx, sub); err != nil {
		return nil, err
	}

	if s.archiveEnabled && s.Storage != nil {
		url, err := s.Storage.ArchiveSubmission(ctx, sub)
		if err != nil {
			logger.Log.Warn("archive submission failed", zap.Uint("submission", sub.ID), zap.Error(err))
		} else if err := s.Chats.SetSubmissionArchive(ctx, sub.ID, url); err == nil {
			sub.ArchiveURL = url
		}
	}
	return sub, nil
}

// GetLatestCode 会话最新的代码提交
func (s *ChatService) GetLatestCode(ctx context.Context, userID uint, sessionID string) (*model.CodeSubmission, error) {
	if _, err := s.GetSession(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	sub, err := s.Chats.LatestSubmission(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNoSubmission
		}
		return nil, err
	}
	return sub, nil
}

// Execute 直接运行一段代码
func (s *ChatService) Execute(ctx context.Context, language, code, stdin string) (result *ExecutionResult, err error) {
	ctx, span := tracing.StartSpan(ctx, "ChatService.Execute", attribute.String("language", language))
	defer func() { tracing.EndSpan(span, err) }()

	result, err = s.Runner.Execute(ctx, language, code, stdin)
	outcome := "error"
	switch {
	case err != nil:
	case result.Error == "":
		outcome = "ok"
	default:
		outcome = "failed"
	}
	monitoring.CodeExecutions.WithLabelValues(util.NormalizeLanguage(language), outcome).Inc()
	return result, err
}

// ExecuteSessionCode 运行会话中的代码；code 为空时运行最新的提交
func (s *ChatService) ExecuteSessionCode(ctx context.Context, userID uint, sessionID, language, code, stdin string) (*ExecutionResult, error) {
	if strings.TrimSpace(code) == "" {
		sub, err := s.GetLatestCode(ctx, userID, sessionID)
		if err != nil {
			return nil, err
		}
		return s.Execute(ctx, sub.Language, sub.Code, stdin)
	}

	if _, err := s.GetSession(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	return s.Execute(ctx, language, code, stdin)
}

// EvaluateCode 用当前题目评估最新的代码提交，评估文本保存为 evaluation 消息并返回进度报告
func (s *ChatService) EvaluateCode(ctx context.Context, userID uint, sessionID string) (outcome *EvaluationOutcome, err error) {
	ctx, span := tracing.StartSpan(ctx, "ChatService.EvaluateCode", attribute.String("session.id", sessionID))
	defer func() { tracing.EndSpan(span, err) }()

	if _, err := s.GetSession(ctx, userID, sessionID); err != nil {
		return nil, err
	}

	problem, err := s.Chats.LatestMessageByType(ctx, sessionID, model.MessageQuestion)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNoActiveProblem
		}
		return nil, err
	}

	sub, err := s.Chats.LatestSubmission(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNoSubmission
		}
		return nil, err
	}

	title, err := s.Performance.JobTitleFor(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	text, err := s.AI.Complete(ctx, []AIChatMessage{
		{Role: RoleSystem, Content: evaluationPrompt()},
		{Role: RoleUser, Content: evaluationUserPrompt(problem.Content, sub.Language, sub.Code, title)},
	})
	if err != nil {
		return nil, err
	}

	msg := &model.ChatMessage{
		SessionID:   sessionID,
		Sender:      model.SenderAssistant,
		MessageType: model.MessageEvaluation,
		Content:     text,
	}
	if err := s.Chats.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	report, err := s.Performance.BuildReport(ctx, sessionID, text)
	if err != nil {
		return nil, err
	}

	logger.Log.Info("code evaluated",
		zap.String("session", sessionID),
		zap.Int("achieved", report.Achieved),
		zap.Bool("ready", report.Ready),
	)
	return &EvaluationOutcome{Message: msg, Report: report}, nil
}

// GetPerformance 会话当前的进度报告（基于最近一次评估）
func (s *ChatService) GetPerformance(ctx context.Context, userID uint, sessionID string) (*ProgressReport, error) {
	if _, err := s.GetSession(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	return s.Performance.BuildReport(ctx, sessionID, "")
}
