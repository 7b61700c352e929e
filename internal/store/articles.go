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

// CreateArticle inserts a new article record.
func (s *Store) CreateArticle(ctx context.Context, article *types.Article) error {
	if article.ID == "" {
		article.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if article.CreatedAt.IsZero() {
		article.CreatedAt = now
	}
	article.UpdatedAt = now

	return s.executeWrite(func(db *sql.DB) error {
		query := `
			INSERT INTO articles (id, title, content, file_path, assigned_to, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`
		_, err := db.ExecContext(ctx, query,
			article.ID,
			article.Title,
			article.Content,
			article.FilePath,
			article.AssignedTo,
			article.CreatedAt,
			article.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert article: %w", err)
		}
		return nil
	})
}

// GetArticle retrieves an article by ID.
func (s *Store) GetArticle(ctx context.Context, id string) (*types.Article, error) {
	row := s.db.QueryRowContext(ctx, articleSelect+" WHERE id = ?", id)
	return scanArticle(row)
}

// ListArticles returns all articles, newest first.
func (s *Store) ListArticles(ctx context.Context) ([]*types.Article, error) {
	return s.queryArticles(ctx, articleSelect+" ORDER BY created_at DESC")
}

// ListArticlesForStudent returns the articles assigned to one student.
func (s *Store) ListArticlesForStudent(ctx context.Context, studentID string) ([]*types.Article, error) {
	return s.queryArticles(ctx, articleSelect+" WHERE assigned_to = ? ORDER BY created_at DESC", studentID)
}

// UpdateArticle updates article content and assignment.
func (s *Store) UpdateArticle(ctx context.Context, article *types.Article) error {
	article.UpdatedAt = time.Now().UTC()

	return s.executeWrite(func(db *sql.DB) error {
		query := `
			UPDATE articles
			SET title = ?, content = ?, file_path = ?, assigned_to = ?, updated_at = ?
			WHERE id = ?
		`
		result, err := db.ExecContext(ctx, query,
			article.Title,
			article.Content,
			article.FilePath,
			article.AssignedTo,
			article.UpdatedAt,
			article.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update article: %w", err)
		}
		return requireRow(result)
	})
}

// DeleteArticle removes an article.
func (s *Store) DeleteArticle(ctx context.Context, id string) error {
	return s.executeWrite(func(db *sql.DB) error {
		result, err := db.ExecContext(ctx, "DELETE FROM articles WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("failed to delete article: %w", err)
		}
		return requireRow(result)
	})
}

const articleSelect = `
	SELECT id, title, content, file_path, assigned_to, created_at, updated_at
	FROM articles
`

func (s *Store) queryArticles(ctx context.Context, query string, args ...interface{}) ([]*types.Article, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var articles []*types.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating article rows: %w", err)
	}
	return articles, nil
}

func scanArticle(row rowScanner) (*types.Article, error) {
	var article types.Article

	err := row.Scan(
		&article.ID,
		&article.Title,
		&article.Content,
		&article.FilePath,
		&article.AssignedTo,
		&article.CreatedAt,
		&article.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan article: %w", err)
	}
	return &article, nil
}
