package paper_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/bisugen/papergen/internal/paper"

	_ "modernc.org/sqlite" // driver for "sqlite"
)

func openPaperStore(t *testing.T) *paper.SQLStore {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "papers.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS question_papers (
  user_id TEXT NOT NULL,
  paper_id TEXT NOT NULL,
  exam TEXT NOT NULL,
  standard TEXT NOT NULL,
  subject TEXT NOT NULL,
  chapters TEXT NOT NULL,
  exam_date TEXT NOT NULL DEFAULT '',
  paper_questions TEXT NOT NULL,
  paper_answers TEXT NOT NULL,
  marks INTEGER NOT NULL,
  metadata_json TEXT NOT NULL,
  created_at INTEGER NOT NULL,
  PRIMARY KEY (user_id, paper_id)
);`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	return paper.NewSQLStore(db)
}

func samplePaper(id string) paper.Paper {
	return paper.Paper{
		PaperID:       id,
		Exam:          "JEE",
		Standard:      "11",
		Subject:       "Physics",
		Chapters:      "Waves",
		ExamDate:      "2026-09-10",
		QuestionsText: "Q1. question 1 (1 marks)\n",
		AnswersText:   "Q1. answer 1\n",
		TotalMarks:    1,
		Metadata: paper.Metadata{
			Seed:          "seed-A",
			QuestionCount: 1,
			Questions:     []paper.Record{{ID: "1", Chapter: "Waves", Question: "question 1", Answer: "answer 1", Marks: 1}},
		},
	}
}

func TestStorePutGetRoundTrip(t *testing.T) {
	store := openPaperStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, "u-1", samplePaper("p-1")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := store.Get(ctx, "u-1", "p-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Exam != "JEE" || got.TotalMarks != 1 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.ExamDate != "2026-09-10" {
		t.Fatalf("exam date = %q", got.ExamDate)
	}
	if got.Metadata.Seed != "seed-A" || len(got.Metadata.Questions) != 1 {
		t.Fatalf("metadata mismatch: %+v", got.Metadata)
	}
	if got.CreatedAt == 0 {
		t.Fatal("CreatedAt must be stamped on insert")
	}
}

func TestStoreDuplicateRejected(t *testing.T) {
	store := openPaperStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, "u-1", samplePaper("p-1")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Put(ctx, "u-1", samplePaper("p-1")); !errors.Is(err, paper.ErrDuplicatePaper) {
		t.Fatalf("err = %v, want ErrDuplicatePaper", err)
	}
	// the same paper id under another account is a distinct row
	if err := store.Put(ctx, "u-2", samplePaper("p-1")); err != nil {
		t.Fatalf("Put other user: %v", err)
	}
}

func TestStoreGetMissing(t *testing.T) {
	store := openPaperStore(t)
	if _, err := store.Get(context.Background(), "u-1", "nope"); !errors.Is(err, paper.ErrPaperNotFound) {
		t.Fatalf("err = %v, want ErrPaperNotFound", err)
	}
}

func TestStoreScopedToOwner(t *testing.T) {
	store := openPaperStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, "u-1", samplePaper("p-owned")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	// another account can neither read it...
	if _, err := store.Get(ctx, "u-2", "p-owned"); !errors.Is(err, paper.ErrPaperNotFound) {
		t.Fatalf("cross-user Get err = %v, want ErrPaperNotFound", err)
	}
	// ...nor see it in listings...
	page, total, err := store.List(ctx, "u-2", 1, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 0 || len(page) != 0 {
		t.Fatalf("cross-user list leaked: total=%d page=%+v", total, page)
	}
	// ...nor delete it
	deleted, err := store.Delete(ctx, "u-2", []string{"p-owned"})
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(deleted) != 0 {
		t.Fatalf("cross-user delete removed %v", deleted)
	}
	if _, err := store.Get(ctx, "u-1", "p-owned"); err != nil {
		t.Fatalf("owner lost the paper: %v", err)
	}
}

func TestStoreListPaginates(t *testing.T) {
	store := openPaperStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		p := samplePaper(fmt.Sprintf("p-%d", i))
		p.CreatedAt = int64(1000 + i)
		if err := store.Put(ctx, "u-1", p); err != nil {
			t.Fatalf("Put %d: %v", i, err)
		}
	}

	page, total, err := store.List(ctx, "u-1", 1, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 5 {
		t.Fatalf("total = %d, want 5", total)
	}
	if len(page) != 2 || page[0].PaperID != "p-4" || page[1].PaperID != "p-3" {
		t.Fatalf("first page = %+v, want newest first", page)
	}

	page, _, err = store.List(ctx, "u-1", 3, 2)
	if err != nil {
		t.Fatalf("List page 3: %v", err)
	}
	if len(page) != 1 || page[0].PaperID != "p-0" {
		t.Fatalf("last page = %+v", page)
	}
}

func TestStoreBulkDelete(t *testing.T) {
	store := openPaperStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := store.Put(ctx, "u-1", samplePaper(fmt.Sprintf("p-%d", i))); err != nil {
			t.Fatalf("Put %d: %v", i, err)
		}
	}

	deleted, err := store.Delete(ctx, "u-1", []string{"p-0", "p-2", "missing"})
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(deleted) != 2 || deleted[0] != "p-0" || deleted[1] != "p-2" {
		t.Fatalf("deleted = %v, want [p-0 p-2]", deleted)
	}
	if _, total, err := store.List(ctx, "u-1", 1, 10); err != nil || total != 1 {
		t.Fatalf("after delete: total=%d err=%v", total, err)
	}

	ids := make([]string, 201)
	for i := range ids {
		ids[i] = fmt.Sprintf("x-%d", i)
	}
	if _, err := store.Delete(ctx, "u-1", ids); err == nil {
		t.Fatal("oversized bulk delete must be rejected")
	}
}
