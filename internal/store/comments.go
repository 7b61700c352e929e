package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"scholarboard/pkg/types"
)

// CreateComment inserts a new comment record.
func (s *Store) CreateComment(ctx context.Context, comment *types.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = now
	}
	comment.UpdatedAt = now

	return s.executeWrite(func(db *sql.DB) error {
		query := `
			INSERT INTO comments (id, report_id, author_id, text, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`
		_, err := db.ExecContext(ctx, query,
			comment.ID,
			comment.ReportID,
			comment.AuthorID,
			comment.Text,
			comment.CreatedAt,
			comment.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert comment: %w", err)
		}
		return nil
	})
}

// ListCommentsForReport returns a report's comments in chronological order.
func (s *Store) ListCommentsForReport(ctx context.Context, reportID string) ([]*types.Comment, error) {
	query := `
		SELECT id, report_id, author_id, text, created_at, updated_at
		FROM comments
		WHERE report_id = ?
		ORDER BY created_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query, reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var comments []*types.Comment
	for rows.Next() {
		var comment types.Comment
		err := rows.Scan(
			&comment.ID,
			&comment.ReportID,
			&comment.AuthorID,
			&comment.Text,
			&comment.CreatedAt,
			&comment.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, &comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comment rows: %w", err)
	}
	return comments, nil
}

// DeleteComment removes a comment.
func (s *Store) DeleteComment(ctx context.Context, id string) error {
	return s.executeWrite(func(db *sql.DB) error {
		result, err := db.ExecContext(ctx, "DELETE FROM comments WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("failed to delete comment: %w", err)
		}
		return requireRow(result)
	})
}
