package api

import (
	"net/http"

	"scholarboard/internal/auth"
	"scholarboard/pkg/types"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Domain   string `json:"domain" validate:"max=100"`
}

type AuthResponse struct {
	User  *types.Identity `json:"user"`
	Token string          `json:"token"`
}

type VerifyResponse struct {
	User *types.Identity `json:"user"`
}

// POST /api/auth/login
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	identity, token, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if err == auth.ErrInvalidCredentials {
			s.sendError(w, "Invalid email or password", http.StatusUnauthorized)
		} else {
			s.sendError(w, "Login failed", http.StatusInternalServerError)
		}
		return
	}

	s.sendJSON(w, http.StatusOK, AuthResponse{User: identity, Token: token})
}

// POST /api/auth/signup - always creates a student account.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	identity, token, err := s.auth.Signup(r.Context(), req.Name, req.Email, req.Password, req.Domain)
	if err != nil {
		if err == auth.ErrEmailTaken {
			s.sendError(w, "Email already registered", http.StatusConflict)
		} else {
			s.sendError(w, "Signup failed", http.StatusInternalServerError)
		}
		return
	}

	s.sendJSON(w, http.StatusCreated, AuthResponse{User: identity, Token: token})
}

// GET /api/auth/verify - resolves the Bearer token to its identity. Invalid
// tokens are a plain 401 so clients can quietly discard them.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		s.sendError(w, "Authorization required", http.StatusUnauthorized)
		return
	}

	identity, err := s.auth.Verify(r.Context(), token)
	if err != nil {
		s.sendError(w, "Failed to verify token", http.StatusInternalServerError)
		return
	}
	if identity == nil {
		s.sendError(w, "Invalid or expired token", http.StatusUnauthorized)
		return
	}

	s.sendJSON(w, http.StatusOK, VerifyResponse{User: identity})
}
