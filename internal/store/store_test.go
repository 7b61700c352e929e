package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"scholarboard/internal/config"
	"scholarboard/pkg/interfaces"
	"scholarboard/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	cfg := &config.DatabaseConfig{
		Path:    filepath.Join(t.TempDir(), "test.db"),
		Timeout: 30 * time.Second,
	}
	s, err := NewStore(cfg)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func createTestStudent(t *testing.T, s *Store, name, email string) *types.Student {
	t.Helper()
	student := &types.Student{
		Name:         name,
		Email:        email,
		Role:         types.RoleStudent,
		Domain:       "physics",
		PasswordHash: []byte("hash"),
	}
	if err := s.CreateStudent(context.Background(), student); err != nil {
		t.Fatalf("Failed to create student: %v", err)
	}
	return student
}

func TestStore_StudentCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	student := createTestStudent(t, s, "Alice", "alice@example.com")
	if student.ID == "" {
		t.Fatal("Expected generated student ID")
	}

	got, err := s.GetStudent(ctx, student.ID)
	if err != nil {
		t.Fatalf("GetStudent failed: %v", err)
	}
	if got.Name != "Alice" || got.Email != "alice@example.com" || got.Role != types.RoleStudent {
		t.Errorf("Unexpected student record: %+v", got)
	}

	byEmail, err := s.GetStudentByEmail(ctx, "alice@example.com")
	if err != nil || byEmail.ID != student.ID {
		t.Errorf("GetStudentByEmail failed: %v", err)
	}

	got.Name = "Alice B"
	if err := s.UpdateStudent(ctx, got); err != nil {
		t.Fatalf("UpdateStudent failed: %v", err)
	}
	updated, _ := s.GetStudent(ctx, student.ID)
	if updated.Name != "Alice B" {
		t.Errorf("Expected updated name, got %q", updated.Name)
	}

	if err := s.DeleteStudent(ctx, student.ID); err != nil {
		t.Fatalf("DeleteStudent failed: %v", err)
	}
	if _, err := s.GetStudent(ctx, student.ID); err != interfaces.ErrNotFound {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
}

func TestStore_GetMissingStudent(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetStudent(context.Background(), "nope"); err != interfaces.ErrNotFound {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestStore_DuplicateEmailRejected(t *testing.T) {
	s := newTestStore(t)
	createTestStudent(t, s, "Alice", "alice@example.com")

	dup := &types.Student{
		Name:         "Other Alice",
		Email:        "alice@example.com",
		Role:         types.RoleStudent,
		PasswordHash: []byte("hash"),
	}
	if err := s.CreateStudent(context.Background(), dup); err != interfaces.ErrDuplicate {
		t.Errorf("Expected ErrDuplicate, got %v", err)
	}
}

func TestStore_ArticleAssignmentListing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := createTestStudent(t, s, "Alice", "alice@example.com")
	bob := createTestStudent(t, s, "Bob", "bob@example.com")

	mine := &types.Article{Title: "Quantum Entanglement", Content: "...", AssignedTo: alice.ID}
	other := &types.Article{Title: "Dark Matter", Content: "...", AssignedTo: bob.ID}
	unassigned := &types.Article{Title: "Drafts", Content: "..."}

	for _, article := range []*types.Article{mine, other, unassigned} {
		if err := s.CreateArticle(ctx, article); err != nil {
			t.Fatalf("CreateArticle failed: %v", err)
		}
	}

	all, err := s.ListArticles(ctx)
	if err != nil || len(all) != 3 {
		t.Fatalf("Expected 3 articles, got %d (err %v)", len(all), err)
	}

	forAlice, err := s.ListArticlesForStudent(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListArticlesForStudent failed: %v", err)
	}
	if len(forAlice) != 1 || forAlice[0].Title != "Quantum Entanglement" {
		t.Errorf("Expected only Alice's assignment, got %+v", forAlice)
	}
}

func TestStore_ReportLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := createTestStudent(t, s, "Alice", "alice@example.com")
	article := &types.Article{Title: "Quantum", AssignedTo: alice.ID}
	if err := s.CreateArticle(ctx, article); err != nil {
		t.Fatalf("CreateArticle failed: %v", err)
	}

	report := &types.Report{ArticleID: article.ID, StudentID: alice.ID, Title: "quantum.pdf"}
	if err := s.CreateReport(ctx, report); err != nil {
		t.Fatalf("CreateReport failed: %v", err)
	}

	forAlice, err := s.ListReportsForStudent(ctx, alice.ID)
	if err != nil || len(forAlice) != 1 {
		t.Fatalf("Expected one report for Alice, got %d (err %v)", len(forAlice), err)
	}

	if err := s.DeleteReport(ctx, report.ID); err != nil {
		t.Fatalf("DeleteReport failed: %v", err)
	}
	if _, err := s.GetReport(ctx, report.ID); err != interfaces.ErrNotFound {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
}

func TestStore_CommentsChronological(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := createTestStudent(t, s, "Alice", "alice@example.com")
	article := &types.Article{Title: "Quantum", AssignedTo: alice.ID}
	if err := s.CreateArticle(ctx, article); err != nil {
		t.Fatalf("CreateArticle failed: %v", err)
	}
	report := &types.Report{ArticleID: article.ID, StudentID: alice.ID, Title: "quantum.pdf"}
	if err := s.CreateReport(ctx, report); err != nil {
		t.Fatalf("CreateReport failed: %v", err)
	}

	first := &types.Comment{ReportID: report.ID, AuthorID: "admin1", Text: "first"}
	if err := s.CreateComment(ctx, first); err != nil {
		t.Fatalf("CreateComment failed: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	second := &types.Comment{ReportID: report.ID, AuthorID: "admin1", Text: "second"}
	if err := s.CreateComment(ctx, second); err != nil {
		t.Fatalf("CreateComment failed: %v", err)
	}

	comments, err := s.ListCommentsForReport(ctx, report.ID)
	if err != nil {
		t.Fatalf("ListCommentsForReport failed: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("Expected 2 comments, got %d", len(comments))
	}
	if comments[0].Text != "first" || comments[1].Text != "second" {
		t.Errorf("Expected chronological order, got %q then %q", comments[0].Text, comments[1].Text)
	}
}

func TestStore_HealthCheckAndClose(t *testing.T) {
	s := newTestStore(t)

	if err := s.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck failed: %v", err)
	}

	if err := s.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}

	student := &types.Student{Name: "Late", Email: "late@example.com", PasswordHash: []byte("h")}
	if err := s.CreateStudent(context.Background(), student); err != ErrStoreClosed {
		t.Errorf("Expected ErrStoreClosed after close, got %v", err)
	}
}
