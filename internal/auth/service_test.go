package auth

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"scholarboard/internal/config"
	"scholarboard/internal/store"
	"scholarboard/pkg/types"
)

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	cfg := &config.DatabaseConfig{
		Path:    filepath.Join(t.TempDir(), "auth_test.db"),
		Timeout: 30 * time.Second,
	}
	st, err := store.NewStore(cfg)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	svc := NewService(st, &config.AuthConfig{
		SecretKey: "test-secret-key",
		TokenTTL:  time.Hour,
	})
	return svc, st
}

func TestService_SignupAndLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	identity, token, err := svc.Signup(ctx, "Alice", "alice@example.com", "password123", "physics")
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}
	if identity.Role != types.RoleStudent {
		t.Errorf("Signup must create student accounts, got %s", identity.Role)
	}
	if token == "" {
		t.Error("Expected a token from signup")
	}

	loggedIn, loginToken, err := svc.Login(ctx, "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if loggedIn.ID != identity.ID {
		t.Errorf("Expected same identity, got %s vs %s", loggedIn.ID, identity.ID)
	}
	if loginToken == "" {
		t.Error("Expected a token from login")
	}
}

func TestService_SignupDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, _, err := svc.Signup(ctx, "Alice", "alice@example.com", "password123", ""); err != nil {
		t.Fatalf("First signup failed: %v", err)
	}
	if _, _, err := svc.Signup(ctx, "Other", "alice@example.com", "different", ""); err != ErrEmailTaken {
		t.Errorf("Expected ErrEmailTaken, got %v", err)
	}
}

func TestService_LoginWrongPassword(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	svc.Signup(ctx, "Alice", "alice@example.com", "password123", "")

	if _, _, err := svc.Login(ctx, "alice@example.com", "wrong"); err != ErrInvalidCredentials {
		t.Errorf("Expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@example.com", "password123"); err != ErrInvalidCredentials {
		t.Errorf("Expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestService_VerifyRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	identity, token, err := svc.Signup(ctx, "Alice", "alice@example.com", "password123", "physics")
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	verified, err := svc.Verify(ctx, token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if verified == nil {
		t.Fatal("Expected identity from a valid token")
	}
	if verified.ID != identity.ID || verified.Role != types.RoleStudent || verified.Domain != "physics" {
		t.Errorf("Unexpected verified identity: %+v", verified)
	}
}

func TestService_VerifyInvalidTokenIsSilent(t *testing.T) {
	svc, _ := newTestService(t)

	identity, err := svc.Verify(context.Background(), "not-a-jwt")
	if err != nil {
		t.Errorf("Invalid tokens must not surface errors, got %v", err)
	}
	if identity != nil {
		t.Errorf("Expected nil identity for invalid token, got %+v", identity)
	}
}

func TestService_VerifyDeletedAccount(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	identity, token, err := svc.Signup(ctx, "Alice", "alice@example.com", "password123", "")
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}
	if err := st.DeleteStudent(ctx, identity.ID); err != nil {
		t.Fatalf("DeleteStudent failed: %v", err)
	}

	verified, err := svc.Verify(ctx, token)
	if err != nil {
		t.Errorf("Expected silent handling for deleted account, got %v", err)
	}
	if verified != nil {
		t.Error("Expected nil identity for deleted account")
	}
}

func TestService_VerifyExpiredToken(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Path:    filepath.Join(t.TempDir(), "auth_test.db"),
		Timeout: 30 * time.Second,
	}
	st, err := store.NewStore(cfg)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	svc := NewService(st, &config.AuthConfig{
		SecretKey: "test-secret-key",
		TokenTTL:  -time.Hour, // issued already expired
	})

	_, token, err := svc.Signup(context.Background(), "Alice", "alice@example.com", "password123", "")
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	verified, err := svc.Verify(context.Background(), token)
	if err != nil || verified != nil {
		t.Errorf("Expected expired token to resolve to (nil, nil), got %+v %v", verified, err)
	}
}
