package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"scholarboard/pkg/interfaces"
	"scholarboard/pkg/types"
)

// CreateStudent inserts a new account record. A missing ID is assigned
// server-side; client-provided IDs are kept for test fixtures.
func (s *Store) CreateStudent(ctx context.Context, student *types.Student) error {
	if student.ID == "" {
		student.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now

	return s.executeWrite(func(db *sql.DB) error {
		query := `
			INSERT INTO students (id, name, email, role, domain, password_hash, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`
		_, err := db.ExecContext(ctx, query,
			student.ID,
			student.Name,
			student.Email,
			string(student.Role),
			student.Domain,
			student.PasswordHash,
			student.CreatedAt,
			student.UpdatedAt,
		)
		if err != nil {
			var sqliteErr sqlite3.Error
			if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
				return interfaces.ErrDuplicate
			}
			return fmt.Errorf("failed to insert student: %w", err)
		}
		return nil
	})
}

// GetStudent retrieves an account by ID.
func (s *Store) GetStudent(ctx context.Context, id string) (*types.Student, error) {
	row := s.db.QueryRowContext(ctx, studentSelect+" WHERE id = ?", id)
	return scanStudent(row)
}

// GetStudentByEmail retrieves an account by email, used at login.
func (s *Store) GetStudentByEmail(ctx context.Context, email string) (*types.Student, error) {
	row := s.db.QueryRowContext(ctx, studentSelect+" WHERE email = ?", email)
	return scanStudent(row)
}

// ListStudents returns all accounts ordered by name.
func (s *Store) ListStudents(ctx context.Context) ([]*types.Student, error) {
	rows, err := s.db.QueryContext(ctx, studentSelect+" ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query students: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var students []*types.Student
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, student)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating student rows: %w", err)
	}
	return students, nil
}

// UpdateStudent updates mutable account fields.
func (s *Store) UpdateStudent(ctx context.Context, student *types.Student) error {
	student.UpdatedAt = time.Now().UTC()

	return s.executeWrite(func(db *sql.DB) error {
		query := `
			UPDATE students
			SET name = ?, email = ?, domain = ?, password_hash = ?, updated_at = ?
			WHERE id = ?
		`
		result, err := db.ExecContext(ctx, query,
			student.Name,
			student.Email,
			student.Domain,
			student.PasswordHash,
			student.UpdatedAt,
			student.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update student: %w", err)
		}
		return requireRow(result)
	})
}

// DeleteStudent removes an account.
func (s *Store) DeleteStudent(ctx context.Context, id string) error {
	return s.executeWrite(func(db *sql.DB) error {
		result, err := db.ExecContext(ctx, "DELETE FROM students WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("failed to delete student: %w", err)
		}
		return requireRow(result)
	})
}

const studentSelect = `
	SELECT id, name, email, role, domain, password_hash, created_at, updated_at
	FROM students
`

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanStudent(row rowScanner) (*types.Student, error) {
	var student types.Student
	var role string

	err := row.Scan(
		&student.ID,
		&student.Name,
		&student.Email,
		&role,
		&student.Domain,
		&student.PasswordHash,
		&student.CreatedAt,
		&student.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan student: %w", err)
	}

	student.Role = types.Role(role)
	return &student, nil
}

// requireRow converts a zero-row write into ErrNotFound.
func requireRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return interfaces.ErrNotFound
	}
	return nil
}
