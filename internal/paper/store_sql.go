package paper

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrPaperNotFound means the user has no stored paper with that id.
	ErrPaperNotFound = errors.New("paper not found")
	// ErrDuplicatePaper means the user already stored a paper with that id.
	ErrDuplicatePaper = errors.New("paper already exists")
)

// maxBulkDelete caps a single bulk delete request.
const maxBulkDelete = 200

// Store persists generated papers. Every operation is scoped to the owning
// account: papers of one user are invisible to every other user.
type Store interface {
	Put(ctx context.Context, userID string, p Paper) error
	Get(ctx context.Context, userID, paperID string) (Paper, error)
	List(ctx context.Context, userID string, page, limit int) ([]Summary, int, error)
	Delete(ctx context.Context, userID string, paperIDs []string) ([]string, error)
}

// SQLStore backs Store with the shared sql.DB (sqlite or postgres).
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Put(ctx context.Context, userID string, p Paper) error {
	var exist int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM question_papers WHERE user_id=$1 AND paper_id=$2`,
		userID, p.PaperID).Scan(&exist)
	if err == nil {
		return ErrDuplicatePaper
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	meta, err := json.Marshal(p.Metadata)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	if p.CreatedAt == 0 {
		p.CreatedAt = time.Now().Unix()
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO question_papers
		 (user_id,paper_id,exam,standard,subject,chapters,exam_date,paper_questions,paper_answers,marks,metadata_json,created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		userID, p.PaperID, p.Exam, p.Standard, p.Subject, p.Chapters, p.ExamDate,
		p.QuestionsText, p.AnswersText, p.TotalMarks, string(meta), p.CreatedAt)
	return err
}

func (s *SQLStore) Get(ctx context.Context, userID, paperID string) (Paper, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT paper_id,exam,standard,subject,chapters,exam_date,paper_questions,paper_answers,marks,metadata_json,created_at
		 FROM question_papers WHERE user_id=$1 AND paper_id=$2`, userID, paperID)
	var p Paper
	var metaJSON string
	err := row.Scan(&p.PaperID, &p.Exam, &p.Standard, &p.Subject, &p.Chapters, &p.ExamDate,
		&p.QuestionsText, &p.AnswersText, &p.TotalMarks, &metaJSON, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Paper{}, ErrPaperNotFound
	}
	if err != nil {
		return Paper{}, err
	}
	if err := json.Unmarshal([]byte(metaJSON), &p.Metadata); err != nil {
		return Paper{}, fmt.Errorf("decode metadata: %w", err)
	}
	return p, nil
}

// List returns the requested page of the user's papers, newest first, plus
// the user's total paper count.
func (s *SQLStore) List(ctx context.Context, userID string, page, limit int) ([]Summary, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM question_papers WHERE user_id=$1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT paper_id,exam,standard,subject,chapters,exam_date,marks,created_at
		 FROM question_papers WHERE user_id=$1
		 ORDER BY created_at DESC, paper_id DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var sm Summary
		if err := rows.Scan(&sm.PaperID, &sm.Exam, &sm.Standard, &sm.Subject,
			&sm.Chapters, &sm.ExamDate, &sm.TotalMarks, &sm.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, sm)
	}
	return out, total, rows.Err()
}

// Delete removes the user's papers among the given ids and reports which
// ones actually existed. Requests over the cap are rejected rather than
// truncated.
func (s *SQLStore) Delete(ctx context.Context, userID string, paperIDs []string) ([]string, error) {
	if len(paperIDs) == 0 {
		return nil, nil
	}
	if len(paperIDs) > maxBulkDelete {
		return nil, fmt.Errorf("too many paper ids: %d (max %d)", len(paperIDs), maxBulkDelete)
	}

	placeholders := make([]string, len(paperIDs))
	args := make([]interface{}, 0, len(paperIDs)+1)
	args = append(args, userID)
	for i, id := range paperIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+2)
		args = append(args, id)
	}
	inClause := strings.Join(placeholders, ",")

	rows, err := s.db.QueryContext(ctx,
		`SELECT paper_id FROM question_papers
		 WHERE user_id=$1 AND paper_id IN (`+inClause+`) ORDER BY paper_id`, args...)
	if err != nil {
		return nil, err
	}
	deleted := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		deleted = append(deleted, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(deleted) == 0 {
		return deleted, nil
	}

	_, err = s.db.ExecContext(ctx,
		`DELETE FROM question_papers WHERE user_id=$1 AND paper_id IN (`+inClause+`)`, args...)
	if err != nil {
		return nil, err
	}
	return deleted, nil
}
