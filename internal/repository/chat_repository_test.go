package repository

import (
	"context"
	"errors"
	"interview_prep_backend/internal/model"
	"interview_prep_backend/internal/testutil"
	"testing"

	"gorm.io/gorm"
)

func TestFindSessionChecksOwner(t *testing.T) {
	repo := NewChatRepository(testutil.DB(t))
	ctx := context.Background()

	session := &model.ChatSession{UserID: 1}
	if err := repo.CreateSession(ctx, session); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if session.ID == "" {
		t.Fatalf("session id not generated")
	}

	if _, err := repo.FindSession(ctx, session.ID, 1); err != nil {
		t.Fatalf("owner lookup: %v", err)
	}
	if _, err := repo.FindSession(ctx, session.ID, 2); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("other user lookup error = %v", err)
	}
}

func TestMessagesOrderedAndFilteredByType(t *testing.T) {
	repo := NewChatRepository(testutil.DB(t))
	ctx := context.Background()

	session := &model.ChatSession{UserID: 1}
	if err := repo.CreateSession(ctx, session); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	contents := []struct {
		typ     model.MessageType
		content string
	}{
		{model.MessageGeneral, "hello"},
		{model.MessageEvaluation, "eval 1"},
		{model.MessageQuestion, "Problem Title: Two Sum"},
		{model.MessageEvaluation, "eval 2"},
		{model.MessageEvaluation, "eval 3"},
	}
	for _, c := range contents {
		msg := &model.ChatMessage{SessionID: session.ID, Sender: model.SenderAssistant, MessageType: c.typ, Content: c.content}
		if err := repo.CreateMessage(ctx, msg); err != nil {
			t.Fatalf("CreateMessage: %v", err)
		}
	}

	all, err := repo.ListMessages(ctx, session.ID)
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(all) != len(contents) {
		t.Fatalf("got %d messages", len(all))
	}
	for i := range contents {
		if all[i].Content != contents[i].content {
			t.Fatalf("message %d = %q, want %q", i, all[i].Content, contents[i].content)
		}
	}

	recent, err := repo.RecentMessagesByType(ctx, session.ID, model.MessageEvaluation, 2)
	if err != nil {
		t.Fatalf("RecentMessagesByType: %v", err)
	}
	if len(recent) != 2 || recent[0].Content != "eval 2" || recent[1].Content != "eval 3" {
		t.Fatalf("recent evaluations = %+v", recent)
	}

	latest, err := repo.LatestMessageByType(ctx, session.ID, model.MessageQuestion)
	if err != nil {
		t.Fatalf("LatestMessageByType: %v", err)
	}
	if latest.Content != "Problem Title: Two Sum" {
		t.Fatalf("latest question = %q", latest.Content)
	}
}

func TestLatestSubmission(t *testing.T) {
	repo := NewChatRepository(testutil.DB(t))
	ctx := context.Background()

	if _, err := repo.LatestSubmission(ctx, "missing"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("empty session error = %v", err)
	}

	for _, code := range []string{"print(1)", "print(2)"} {
		if err := repo.CreateSubmission(ctx, &model.CodeSubmission{SessionID: "s1", UserID: 1, Language: "python", Code: code}); err != nil {
			t.Fatalf("CreateSubmission: %v", err)
		}
	}

	sub, err := repo.LatestSubmission(ctx, "s1")
	if err != nil {
		t.Fatalf("LatestSubmission: %v", err)
	}
	if sub.Code != "print(2)" {
		t.Fatalf("latest code = %q", sub.Code)
	}

	if err := repo.SetSubmissionArchive(ctx, sub.ID, "/uploads/x.py"); err != nil {
		t.Fatalf("SetSubmissionArchive: %v", err)
	}
	sub, _ = repo.LatestSubmission(ctx, "s1")
	if sub.ArchiveURL != "/uploads/x.py" {
		t.Fatalf("archive url = %q", sub.ArchiveURL)
	}
}
