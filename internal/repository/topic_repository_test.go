package repository

import (
	"context"
	"errors"
	"interview_prep_backend/internal/testutil"
	"testing"
	"time"

	"gorm.io/gorm"
)

func TestFindRootByCategoryWithoutCache(t *testing.T) {
	repo := NewTopicRepository(testutil.DB(t), nil, time.Minute)
	ctx := context.Background()

	root, err := repo.FindRootByCategory(ctx, "Data Structures")
	if err != nil {
		t.Fatalf("FindRootByCategory: %v", err)
	}
	if root.ID != "data-structures" {
		t.Fatalf("root = %s", root.ID)
	}
	if len(root.Subtopics) == 0 || root.Subtopics[0].ID != "ds-arrays-strings" {
		t.Fatalf("subtopics not ordered by declaration: %+v", root.Subtopics)
	}
	for i := 1; i < len(root.Subtopics); i++ {
		if root.Subtopics[i-1].Position > root.Subtopics[i].Position {
			t.Fatalf("subtopic %d out of order", i)
		}
	}

	if _, err := repo.FindRootByCategory(ctx, "Cooking"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("unknown category error = %v", err)
	}
	if err := repo.InvalidateCategory(ctx, "Data Structures"); err != nil {
		t.Fatalf("InvalidateCategory without redis: %v", err)
	}
}

func TestListRoots(t *testing.T) {
	repo := NewTopicRepository(testutil.DB(t), nil, time.Minute)

	roots, err := repo.ListRoots(context.Background())
	if err != nil {
		t.Fatalf("ListRoots: %v", err)
	}
	if len(roots) != 4 {
		t.Fatalf("got %d roots, want 4", len(roots))
	}
	for _, r := range roots {
		if !r.IsRoot() || len(r.Subtopics) == 0 {
			t.Fatalf("root %s: parent=%v subtopics=%d", r.ID, r.ParentID, len(r.Subtopics))
		}
	}
}
