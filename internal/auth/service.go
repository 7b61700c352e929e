package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"log"
	"time"

	"github.com/dgrijalva/jwt-go"

	"scholarboard/internal/config"
	"scholarboard/pkg/interfaces"
	"scholarboard/pkg/types"
)

// Service issues and verifies the opaque credential tokens of the platform.
// Tokens are HS256 JWTs, but callers treat them as opaque strings; only this
// package inspects their structure.
type Service struct {
	students interfaces.StudentStore
	secret   []byte
	tokenTTL time.Duration
}

var _ interfaces.TokenVerifier = (*Service)(nil)

// claims binds a token to one identity for its lifetime.
type claims struct {
	Name   string     `json:"name"`
	Email  string     `json:"email"`
	Role   types.Role `json:"role"`
	Domain string     `json:"domain,omitempty"`
	jwt.StandardClaims
}

// NewService creates the auth service.
func NewService(students interfaces.StudentStore, cfg *config.AuthConfig) *Service {
	return &Service{
		students: students,
		secret:   []byte(cfg.SecretKey),
		tokenTTL: cfg.TokenTTL,
	}
}

// Login checks credentials and issues a token for the matching account.
func (s *Service) Login(ctx context.Context, email, password string) (*types.Identity, string, error) {
	student, err := s.students.GetStudentByEmail(ctx, email)
	if err != nil {
		if err == interfaces.ErrNotFound {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to look up account: %w", err)
	}

	if !checkPassword(student.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	identity := student.Identity()
	token, err := s.issueToken(identity)
	if err != nil {
		return nil, "", err
	}

	log.Printf("Login: user=%s role=%s", identity.ID, identity.Role)
	return &identity, token, nil
}

// Signup registers a student account and issues its first token.
func (s *Service) Signup(ctx context.Context, name, email, password, domain string) (*types.Identity, string, error) {
	if _, err := s.students.GetStudentByEmail(ctx, email); err == nil {
		return nil, "", ErrEmailTaken
	} else if err != interfaces.ErrNotFound {
		return nil, "", fmt.Errorf("failed to check existing account: %w", err)
	}

	student := &types.Student{
		Name:         name,
		Email:        email,
		Role:         types.RoleStudent,
		Domain:       domain,
		PasswordHash: HashPassword(password),
	}
	if err := s.students.CreateStudent(ctx, student); err != nil {
		return nil, "", fmt.Errorf("failed to create account: %w", err)
	}

	identity := student.Identity()
	token, err := s.issueToken(identity)
	if err != nil {
		return nil, "", err
	}

	log.Printf("Signup: user=%s email=%s", identity.ID, identity.Email)
	return &identity, token, nil
}

// Verify resolves a token to its identity. Invalid or expired tokens return
// (nil, nil): callers clear the token and proceed as unauthenticated, never
// surfacing an error.
func (s *Service) Verify(ctx context.Context, token string) (*types.Identity, error) {
	var parsed claims
	_, err := jwt.ParseWithClaims(token, &parsed, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, nil
	}

	// The account may have been deleted since the token was issued.
	student, err := s.students.GetStudent(ctx, parsed.Subject)
	if err != nil {
		if err == interfaces.ErrNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	identity := student.Identity()
	return &identity, nil
}

func (s *Service) issueToken(identity types.Identity) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Name:   identity.Name,
		Email:  identity.Email,
		Role:   identity.Role,
		Domain: identity.Domain,
		StandardClaims: jwt.StandardClaims{
			Subject:   identity.ID,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(s.tokenTTL).Unix(),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// HashPassword derives the stored hash for a password.
func HashPassword(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return sum[:]
}

func checkPassword(hash []byte, password string) bool {
	candidate := sha256.Sum256([]byte(password))
	return subtle.ConstantTimeCompare(hash, candidate[:]) == 1
}
