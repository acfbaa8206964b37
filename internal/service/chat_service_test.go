package service

import (
	"context"
	"errors"
	"interview_prep_backend/internal/config"
	"interview_prep_backend/internal/model"
	"interview_prep_backend/internal/repository"
	"interview_prep_backend/internal/util"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const problemReply = "Here is a problem for a Senior Software Engineer role.\n\nProblem Title: Two Sum\nDescription: find two numbers adding up to target."

type chatFixture struct {
	svc     *ChatService
	ai      *fakeCompletion
	runner  *fakeRunner
	chats   *repository.ChatRepository
	session *model.ChatSession
	dir     string
}

func newChatFixture(t *testing.T, replies ...string) *chatFixture {
	t.Helper()
	perf, chats, _ := newPerformanceService(t)

	dir := t.TempDir()
	storage := NewStorageService(&config.Config{Storage: config.StorageConfig{Type: util.StorageLocal, LocalPath: dir}})

	ai := &fakeCompletion{replies: replies}
	runner := &fakeRunner{result: &ExecutionResult{Output: "ok\n", Status: "Accepted", Language: "python"}}
	svc := NewChatService(chats, perf, ai, runner, storage, true)

	return &chatFixture{
		svc:     svc,
		ai:      ai,
		runner:  runner,
		chats:   chats,
		session: newSession(t, chats, 1),
		dir:     dir,
	}
}

func TestClassifyReply(t *testing.T) {
	if got := ClassifyReply(problemReply); got != model.MessageQuestion {
		t.Fatalf("problem reply classified as %s", got)
	}
	if got := ClassifyReply("What role are you preparing for?"); got != model.MessageGeneral {
		t.Fatalf("general reply classified as %s", got)
	}
}

func TestSendMessageInitializesTargetAndStoresReply(t *testing.T) {
	f := newChatFixture(t, problemReply)
	ctx := context.Background()

	reply, err := f.svc.SendMessage(ctx, 1, f.session.ID, "I want to prepare for a Senior Software Engineer role")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if reply.Target == nil || reply.Target.TargetJobTitle != "Senior Software Engineer" {
		t.Fatalf("target = %+v", reply.Target)
	}
	if reply.AssistantMessage.MessageType != model.MessageQuestion {
		t.Fatalf("assistant message type = %s", reply.AssistantMessage.MessageType)
	}

	req := f.ai.lastRequest()
	if len(req) != 2 || req[0].Role != RoleSystem || req[1].Role != RoleUser {
		t.Fatalf("request = %+v", req)
	}
	if !strings.Contains(req[0].Content, "Target job title: Senior Software Engineer") {
		t.Fatalf("system prompt missing guidance")
	}

	messages, err := f.svc.GetMessages(ctx, 1, f.session.ID)
	if err != nil {
		t.Fatalf("GetMessages: %v", err)
	}
	if len(messages) != 2 || messages[0].Sender != model.SenderUser || messages[1].Sender != model.SenderAssistant {
		t.Fatalf("messages = %+v", messages)
	}

	session, err := f.svc.GetSession(ctx, 1, f.session.ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if session.Title == "" {
		t.Fatalf("session title not set from first message")
	}
}

func TestSendMessageRejectsOtherUsersSession(t *testing.T) {
	f := newChatFixture(t, "hi")

	if _, err := f.svc.SendMessage(context.Background(), 2, f.session.ID, "hello"); !errors.Is(err, util.ErrSessionNotFound) {
		t.Fatalf("error = %v", err)
	}
	if f.ai.calls() != 0 {
		t.Fatalf("completion called for foreign session")
	}
}

func TestSendMessageStream(t *testing.T) {
	f := newChatFixture(t, "What role are you preparing for?")
	ctx := context.Background()

	chunks, done, err := f.svc.SendMessageStream(ctx, 1, f.session.ID, "hello")
	if err != nil {
		t.Fatalf("SendMessageStream: %v", err)
	}

	var b strings.Builder
	for c := range chunks {
		b.WriteString(c)
	}
	outcome := <-done
	if outcome.Err != nil {
		t.Fatalf("stream outcome: %v", outcome.Err)
	}
	if b.String() != "What role are you preparing for?" || outcome.Message.Content != b.String() {
		t.Fatalf("streamed %q saved %q", b.String(), outcome.Message.Content)
	}
	if outcome.Message.MessageType != model.MessageGeneral {
		t.Fatalf("type = %s", outcome.Message.MessageType)
	}
}

func TestSendMessageStreamPropagatesError(t *testing.T) {
	f := newChatFixture(t)
	f.ai.err = util.ErrAIUnavailable

	chunks, done, err := f.svc.SendMessageStream(context.Background(), 1, f.session.ID, "hello")
	if err != nil {
		t.Fatalf("SendMessageStream: %v", err)
	}
	for range chunks {
	}
	if outcome := <-done; !errors.Is(outcome.Err, util.ErrAIUnavailable) {
		t.Fatalf("outcome error = %v", outcome.Err)
	}
}

func TestSaveCodeArchivesSubmission(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	sub, err := f.svc.SaveCode(ctx, 1, f.session.ID, "Python3", "print('hi')")
	if err != nil {
		t.Fatalf("SaveCode: %v", err)
	}
	if sub.Language != "python" {
		t.Fatalf("language = %q", sub.Language)
	}
	if sub.ArchiveURL == "" {
		t.Fatalf("submission not archived")
	}

	path := filepath.Join(f.dir, filepath.FromSlash(util.SubmissionObjectName(sub.SessionID, sub.ID, sub.Language)))
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read archive: %v", err)
	}
	if string(data) != "print('hi')" {
		t.Fatalf("archive content = %q", data)
	}

	latest, err := f.svc.GetLatestCode(ctx, 1, f.session.ID)
	if err != nil {
		t.Fatalf("GetLatestCode: %v", err)
	}
	if latest.ID != sub.ID || latest.ArchiveURL != sub.ArchiveURL {
		t.Fatalf("latest = %+v", latest)
	}
}

func TestExecuteSessionCodeFallsBackToLatestSubmission(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	if _, err := f.svc.ExecuteSessionCode(ctx, 1, f.session.ID, "", "", ""); !errors.Is(err, util.ErrNoSubmission) {
		t.Fatalf("no submission error = %v", err)
	}

	if _, err := f.svc.SaveCode(ctx, 1, f.session.ID, "python", "print('saved')"); err != nil {
		t.Fatalf("SaveCode: %v", err)
	}
	result, err := f.svc.ExecuteSessionCode(ctx, 1, f.session.ID, "", "", "")
	if err != nil {
		t.Fatalf("ExecuteSessionCode: %v", err)
	}
	if f.runner.code != "print('saved')" || result.Output != "ok\n" {
		t.Fatalf("ran %q, result %+v", f.runner.code, result)
	}
}

func TestEvaluateCodeRequiresProblemAndSubmission(t *testing.T) {
	f := newChatFixture(t, "What role are you preparing for?", problemReply)
	ctx := context.Background()

	if _, err := f.svc.EvaluateCode(ctx, 1, f.session.ID); !errors.Is(err, util.ErrNoActiveProblem) {
		t.Fatalf("no problem error = %v", err)
	}

	if _, err := f.svc.SendMessage(ctx, 1, f.session.ID, "hello"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if _, err := f.svc.SendMessage(ctx, 1, f.session.ID, "senior software engineer"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if _, err := f.svc.EvaluateCode(ctx, 1, f.session.ID); !errors.Is(err, util.ErrNoSubmission) {
		t.Fatalf("no submission error = %v", err)
	}
}

func TestEvaluateCodeReturnsReport(t *testing.T) {
	f := newChatFixture(t, problemReply)
	ctx := context.Background()

	if _, err := f.svc.SendMessage(ctx, 1, f.session.ID, "I want to prepare for a Senior Software Engineer role"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if _, err := f.svc.SaveCode(ctx, 1, f.session.ID, "go", "package main"); err != nil {
		t.Fatalf("SaveCode: %v", err)
	}

	f.ai.replies = []string{evaluationWith(9, "Add more tests")}
	outcome, err := f.svc.EvaluateCode(ctx, 1, f.session.ID)
	if err != nil {
		t.Fatalf("EvaluateCode: %v", err)
	}
	if outcome.Message.MessageType != model.MessageEvaluation {
		t.Fatalf("message type = %s", outcome.Message.MessageType)
	}

	req := f.ai.lastRequest()
	if !strings.Contains(req[1].Content, "Two Sum") || !strings.Contains(req[1].Content, "package main") {
		t.Fatalf("evaluation request missing problem or code: %q", req[1].Content)
	}

	report := outcome.Report
	// Senior: 8,8,8,9,8,9,9,8，全部 9 分时全部达标
	if report.TargetJobTitle != "Senior Software Engineer" || report.Achieved != 8 || !report.Ready {
		t.Fatalf("report = %+v", report)
	}
	if len(report.AreasNeedingImprovement) != 1 || report.AreasNeedingImprovement[0] != "Add more tests" {
		t.Fatalf("areas = %v", report.AreasNeedingImprovement)
	}

	perf, err := f.svc.GetPerformance(ctx, 1, f.session.ID)
	if err != nil {
		t.Fatalf("GetPerformance: %v", err)
	}
	if perf.Achieved != report.Achieved {
		t.Fatalf("performance achieved = %d", perf.Achieved)
	}
}
