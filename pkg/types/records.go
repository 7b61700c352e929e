package types

import "time"

// Role of an authenticated identity. Exactly one per user, no multi-role.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

// Identity is the authenticated user as seen by the event layer and the API.
// Domain is set for students only.
type Identity struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	Domain string `json:"domain,omitempty"`
}

// Student is the stored account record. PasswordHash never leaves the store.
type Student struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	Domain       string    `json:"domain,omitempty"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity converts a stored account into the API/event-layer view.
func (s *Student) Identity() Identity {
	return Identity{ID: s.ID, Name: s.Name, Email: s.Email, Role: s.Role, Domain: s.Domain}
}

// Article assigned by an admin to at most one student. AssignedTo is the
// student ID, empty while unassigned. FilePath is an opaque reference;
// upload transport is out of scope.
type Article struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	FilePath   string    `json:"file_path,omitempty"`
	AssignedTo string    `json:"assigned_to,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Report submitted by a student for an article.
type Report struct {
	ID        string    `json:"id"`
	ArticleID string    `json:"article_id"`
	StudentID string    `json:"student_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content,omitempty"`
	FilePath  string    `json:"file_path,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Comment left by an admin on a report.
type Comment struct {
	ID        string    `json:"id"`
	ReportID  string    `json:"report_id"`
	AuthorID  string    `json:"author_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
