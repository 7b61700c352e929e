package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"scholarboard/internal/auth"
	"scholarboard/pkg/interfaces"
)

// Registry is the slice of the connection registry the API needs; keeps the
// package decoupled from the websocket implementation.
type Registry interface {
	GetStats() map[string]int
}

// Server is the HTTP surface of the platform. No business logic lives here,
// only HTTP handling, JSON serialization and access control.
type Server struct {
	store    interfaces.Store
	auth     *auth.Service
	registry Registry
	email    interfaces.EmailSender
	validate *validator.Validate
	router   chi.Router
}

// NewServer wires the HTTP routes to the underlying services.
func NewServer(store interfaces.Store, authSvc *auth.Service, registry Registry, email interfaces.EmailSender) *Server {
	s := &Server{
		store:    store,
		auth:     authSvc,
		registry: registry,
		email:    email,
		validate: validator.New(),
		router:   chi.NewRouter(),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := s.router

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)
	r.Use(jsonMiddleware)

	r.Get("/health", s.healthCheck)

	r.Route("/api", func(api chi.Router) {
		api.Route("/auth", func(ar chi.Router) {
			ar.Post("/login", s.handleLogin)
			ar.Post("/signup", s.handleSignup)
			ar.Get("/verify", s.handleVerify)
		})

		// Everything below requires a valid token.
		api.Group(func(protected chi.Router) {
			protected.Use(s.requireAuth)

			protected.Route("/students", func(sr chi.Router) {
				sr.Use(s.requireAdmin)
				sr.Get("/", s.listStudents)
				sr.Post("/", s.createStudent)
				sr.Get("/{studentID}", s.getStudent)
				sr.Put("/{studentID}", s.updateStudent)
				sr.Delete("/{studentID}", s.deleteStudent)
			})

			protected.Route("/articles", func(ar chi.Router) {
				ar.Get("/", s.listArticles)
				ar.Get("/{articleID}", s.getArticle)
				ar.With(s.requireAdmin).Post("/", s.createArticle)
				ar.With(s.requireAdmin).Put("/{articleID}", s.updateArticle)
				ar.With(s.requireAdmin).Delete("/{articleID}", s.deleteArticle)
				ar.With(s.requireAdmin).Post("/{articleID}/assign", s.assignArticle)
			})

			protected.Route("/reports", func(rr chi.Router) {
				rr.Get("/", s.listReports)
				rr.Post("/", s.createReport)
				rr.Get("/{reportID}", s.getReport)
				rr.Delete("/{reportID}", s.deleteReport)
				rr.Get("/{reportID}/comments", s.listComments)
				rr.With(s.requireAdmin).Post("/{reportID}/comments", s.createComment)
			})
		})
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status      string         `json:"status"`
	Timestamp   time.Time      `json:"timestamp"`
	Database    string         `json:"database"`
	Connections map[string]int `json:"connections"`
}

// GET /health - component health with live connection counts.
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "healthy"
	dbStatus := "healthy"

	if err := s.store.HealthCheck(ctx); err != nil {
		status = "unhealthy"
		dbStatus = fmt.Sprintf("error: %v", err)
	}

	response := HealthResponse{
		Status:      status,
		Timestamp:   time.Now(),
		Database:    dbStatus,
		Connections: s.registry.GetStats(),
	}

	if status == "unhealthy" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(response)
}

func (s *Server) sendError(w http.ResponseWriter, message string, code int) {
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   http.StatusText(code),
		Code:    code,
		Message: message,
	})
}

func (s *Server) sendJSON(w http.ResponseWriter, code int, v interface{}) {
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// decodeAndValidate decodes a JSON body and runs struct validation on it.
func (s *Server) decodeAndValidate(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := s.validate.Struct(v); err != nil {
		return err
	}
	return nil
}
