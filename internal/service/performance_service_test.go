package service

import (
	"context"
	"errors"
	"fmt"
	"interview_prep_backend/internal/model"
	"interview_prep_backend/internal/repository"
	"interview_prep_backend/internal/scoring"
	"interview_prep_backend/internal/testutil"
	"interview_prep_backend/internal/util"
	"strings"
	"testing"

	"gorm.io/gorm"
)

func newPerformanceService(t *testing.T) (*PerformanceService, *repository.ChatRepository, *gorm.DB) {
	t.Helper()
	db := testutil.DB(t)
	chats := repository.NewChatRepository(db)
	s := NewPerformanceService(
		repository.NewPerformanceTargetRepository(db),
		chats,
		scoring.NewLevelResolver(scoring.DefaultLevelTable()),
		scoring.NewTitleExtractor(scoring.DefaultTitlePatterns()),
		scoring.NewComparatorWithPicker(func(int) int { return 0 }),
		"",
		0,
	)
	return s, chats, db
}

func newSession(t *testing.T, chats *repository.ChatRepository, userID uint) *model.ChatSession {
	t.Helper()
	session := &model.ChatSession{UserID: userID}
	if err := chats.CreateSession(context.Background(), session); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	return session
}

// evaluationWith 每个维度同一个分数
func evaluationWith(score int, improvements ...string) string {
	var b strings.Builder
	b.WriteString("## Score Breakdown\n\n")
	for i, m := range scoring.Metrics() {
		fmt.Fprintf(&b, "%d. %s (%d/10)\n", i+1, m.DisplayName(), score)
	}
	b.WriteString("\n### Areas Needing Improvement\n")
	for _, item := range improvements {
		fmt.Fprintf(&b, "- %s\n", item)
	}
	return b.String()
}

func TestMaybeInitializeCreatesOnce(t *testing.T) {
	s, chats, _ := newPerformanceService(t)
	ctx := context.Background()
	session := newSession(t, chats, 1)

	target, err := s.MaybeInitialize(ctx, session, nil, "I want to prepare for a Senior Software Engineer role")
	if err != nil {
		t.Fatalf("MaybeInitialize: %v", err)
	}
	if target == nil {
		t.Fatalf("expected a target to be created")
	}
	if target.TargetJobTitle != "Senior Software Engineer" {
		t.Fatalf("title = %q", target.TargetJobTitle)
	}
	senior := scoring.NewLevelResolver(scoring.DefaultLevelTable()).BaseTargets(scoring.Senior)
	if target.TotalScore != senior.Total() {
		t.Fatalf("total = %d, want %d", target.TotalScore, senior.Total())
	}

	again, err := s.MaybeInitialize(ctx, session, nil, "Actually I want a junior developer role")
	if err != nil {
		t.Fatalf("second MaybeInitialize: %v", err)
	}
	if again != nil {
		t.Fatalf("second call created %+v", again)
	}

	stored, err := s.GetTarget(ctx, session.ID)
	if err != nil {
		t.Fatalf("GetTarget: %v", err)
	}
	if stored.ID != target.ID || stored.TargetJobTitle != "Senior Software Engineer" {
		t.Fatalf("stored target changed: %+v", stored)
	}
}

func TestMaybeInitializeWithoutTitle(t *testing.T) {
	s, chats, _ := newPerformanceService(t)
	ctx := context.Background()
	session := newSession(t, chats, 1)

	target, err := s.MaybeInitialize(ctx, session, nil, "hello there")
	if err != nil || target != nil {
		t.Fatalf("target=%v err=%v", target, err)
	}
	if _, err := s.GetTarget(ctx, session.ID); !errors.Is(err, util.ErrTargetNotFound) {
		t.Fatalf("GetTarget error = %v", err)
	}

	title, err := s.JobTitleFor(ctx, session.ID)
	if err != nil {
		t.Fatalf("JobTitleFor: %v", err)
	}
	if title != scoring.DefaultJobTitle {
		t.Fatalf("default title = %q", title)
	}
}

func TestBuildReportAgainstDefaultTargets(t *testing.T) {
	s, chats, _ := newPerformanceService(t)
	ctx := context.Background()
	session := newSession(t, chats, 1)

	report, err := s.BuildReport(ctx, session.ID, evaluationWith(7))
	if err != nil {
		t.Fatalf("BuildReport: %v", err)
	}
	if report.TargetJobTitle != scoring.DefaultJobTitle || report.Level != scoring.Mid {
		t.Fatalf("title=%q level=%s", report.TargetJobTitle, report.Level)
	}
	// Mid: 7,7,7,8,7,8,8,7 -> 5 项达标
	if report.Achieved != 5 || report.Ready {
		t.Fatalf("achieved=%d ready=%v", report.Achieved, report.Ready)
	}
	want := []string{"Coding Style", "Language Usage", "Communication"}
	if strings.Join(report.MetricsNeedingImprovement, ",") != strings.Join(want, ",") {
		t.Fatalf("weak metrics = %v", report.MetricsNeedingImprovement)
	}
	if !strings.Contains(report.Feedback, "5 out of 8") {
		t.Fatalf("feedback = %q", report.Feedback)
	}
}

func TestBuildReportUsesLatestEvaluation(t *testing.T) {
	s, chats, _ := newPerformanceService(t)
	ctx := context.Background()
	session := newSession(t, chats, 1)

	if _, err := s.MaybeInitialize(ctx, session, nil, "junior developer"); err != nil {
		t.Fatalf("MaybeInitialize: %v", err)
	}
	for _, text := range []string{evaluationWith(3, "Handle nulls"), evaluationWith(9, "Name variables")} {
		msg := &model.ChatMessage{SessionID: session.ID, Sender: model.SenderAssistant, MessageType: model.MessageEvaluation, Content: text}
		if err := chats.CreateMessage(ctx, msg); err != nil {
			t.Fatalf("CreateMessage: %v", err)
		}
	}

	report, err := s.BuildReport(ctx, session.ID, "")
	if err != nil {
		t.Fatalf("BuildReport: %v", err)
	}
	if report.Level != scoring.Junior || !report.Ready || report.Achieved != scoring.MetricCount {
		t.Fatalf("report = %+v", report)
	}
	if !strings.Contains(report.Feedback, scoring.EncouragingQuotes[0]) {
		t.Fatalf("feedback missing quote: %q", report.Feedback)
	}
	if len(report.AreasNeedingImprovement) != 2 || report.AreasNeedingImprovement[0] != "Name variables" {
		t.Fatalf("areas = %v", report.AreasNeedingImprovement)
	}

	g, err := s.Guidance(ctx, session.ID)
	if err != nil {
		t.Fatalf("Guidance: %v", err)
	}
	if g.JobTitle != "Junior Developer" || len(g.WeakMetrics) != 0 {
		t.Fatalf("guidance = %+v", g)
	}
}
