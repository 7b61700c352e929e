package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"scholarboard/pkg/interfaces"
	"scholarboard/pkg/types"
)

// CreateReport inserts a new report record.
func (s *Store) CreateReport(ctx context.Context, report *types.Report) error {
	if report.ID == "" {
		report.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if report.CreatedAt.IsZero() {
		report.CreatedAt = now
	}
	report.UpdatedAt = now

	return s.executeWrite(func(db *sql.DB) error {
		query := `
			INSERT INTO reports (id, article_id, student_id, title, content, file_path, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`
		_, err := db.ExecContext(ctx, query,
			report.ID,
			report.ArticleID,
			report.StudentID,
			report.Title,
			report.Content,
			report.FilePath,
			report.CreatedAt,
			report.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert report: %w", err)
		}
		return nil
	})
}

// GetReport retrieves a report by ID.
func (s *Store) GetReport(ctx context.Context, id string) (*types.Report, error) {
	row := s.db.QueryRowContext(ctx, reportSelect+" WHERE id = ?", id)
	return scanReport(row)
}

// ListReports returns all reports, newest first.
func (s *Store) ListReports(ctx context.Context) ([]*types.Report, error) {
	return s.queryReports(ctx, reportSelect+" ORDER BY created_at DESC")
}

// ListReportsForStudent returns one student's reports, newest first.
func (s *Store) ListReportsForStudent(ctx context.Context, studentID string) ([]*types.Report, error) {
	return s.queryReports(ctx, reportSelect+" WHERE student_id = ? ORDER BY created_at DESC", studentID)
}

// DeleteReport removes a report.
func (s *Store) DeleteReport(ctx context.Context, id string) error {
	return s.executeWrite(func(db *sql.DB) error {
		result, err := db.ExecContext(ctx, "DELETE FROM reports WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("failed to delete report: %w", err)
		}
		return requireRow(result)
	})
}

const reportSelect = `
	SELECT id, article_id, student_id, title, content, file_path, created_at, updated_at
	FROM reports
`

func (s *Store) queryReports(ctx context.Context, query string, args ...interface{}) ([]*types.Report, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var reports []*types.Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating report rows: %w", err)
	}
	return reports, nil
}

func scanReport(row rowScanner) (*types.Report, error) {
	var report types.Report

	err := row.Scan(
		&report.ID,
		&report.ArticleID,
		&report.StudentID,
		&report.Title,
		&report.Content,
		&report.FilePath,
		&report.CreatedAt,
		&report.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan report: %w", err)
	}
	return &report, nil
}
