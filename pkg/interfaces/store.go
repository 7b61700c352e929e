package interfaces

import (
	"context"

	"scholarboard/pkg/types"
)

// StudentStore manages student account records.
type StudentStore interface {
	CreateStudent(ctx context.Context, student *types.Student) error
	GetStudent(ctx context.Context, id string) (*types.Student, error)
	GetStudentByEmail(ctx context.Context, email string) (*types.Student, error)
	ListStudents(ctx context.Context) ([]*types.Student, error)
	UpdateStudent(ctx context.Context, student *types.Student) error
	DeleteStudent(ctx context.Context, id string) error
}

// ArticleStore manages article records and their assignment.
type ArticleStore interface {
	CreateArticle(ctx context.Context, article *types.Article) error
	GetArticle(ctx context.Context, id string) (*types.Article, error)
	ListArticles(ctx context.Context) ([]*types.Article, error)
	ListArticlesForStudent(ctx context.Context, studentID string) ([]*types.Article, error)
	UpdateArticle(ctx context.Context, article *types.Article) error
	DeleteArticle(ctx context.Context, id string) error
}

// ReportStore manages report records.
type ReportStore interface {
	CreateReport(ctx context.Context, report *types.Report) error
	GetReport(ctx context.Context, id string) (*types.Report, error)
	ListReports(ctx context.Context) ([]*types.Report, error)
	ListReportsForStudent(ctx context.Context, studentID string) ([]*types.Report, error)
	DeleteReport(ctx context.Context, id string) error
}

// CommentStore manages comment records.
type CommentStore interface {
	CreateComment(ctx context.Context, comment *types.Comment) error
	ListCommentsForReport(ctx context.Context, reportID string) ([]*types.Comment, error)
	DeleteComment(ctx context.Context, id string) error
}

// Store aggregates all record repositories behind one handle. The event core
// depends only on these contracts, never on concrete storage.
type Store interface {
	StudentStore
	ArticleStore
	ReportStore
	CommentStore

	HealthCheck(ctx context.Context) error
	Close() error
}
