package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"scholarboard/internal/api"
	"scholarboard/internal/auth"
	"scholarboard/internal/config"
	"scholarboard/internal/email"
	"scholarboard/internal/hub"
	"scholarboard/internal/router"
	"scholarboard/internal/store"
	"scholarboard/internal/websocket"
)

// Application coordinates all backend components with explicit dependency
// injection. Initialization order: Store → Auth → Registry → Router → Hub →
// API → WebSocket → HTTP.
type Application struct {
	config      *config.Config
	store       *store.Store
	authSvc     *auth.Service
	registry    *websocket.Registry
	eventRouter *router.Router
	eventHub    *hub.Hub
	apiServer   *api.Server
	httpServer  *http.Server
}

// NewApplication builds a fully wired application from the configuration.
func NewApplication(cfg *config.Config) (*Application, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	st, err := store.NewStore(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	authSvc := auth.NewService(st, cfg.Auth)
	registry := websocket.NewRegistry()
	eventRouter := router.NewRouter(registry)
	eventHub := hub.NewHub(registry, eventRouter)

	emailSender := email.NewSender(cfg.Email)
	apiServer := api.NewServer(st, authSvc, registry, emailSender)

	wsHandler := websocket.NewHandler(authSvc, eventHub,
		cfg.WebSocket.PingInterval, cfg.WebSocket.ReadTimeout)

	mux := http.NewServeMux()
	mux.Handle("/api/", apiServer)
	mux.Handle("/health", apiServer)
	mux.HandleFunc("/ws", wsHandler.HandleWebSocket)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      mux,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	return &Application{
		config:      cfg,
		store:       st,
		authSvc:     authSvc,
		registry:    registry,
		eventRouter: eventRouter,
		eventHub:    eventHub,
		apiServer:   apiServer,
		httpServer:  httpServer,
	}, nil
}

// Start begins application execution. The hub starts first so connection
// registrations have somewhere to go, then the HTTP server accepts traffic.
func (app *Application) Start(ctx context.Context) error {
	log.Printf("Starting Scholarboard application on %s", app.httpServer.Addr)

	if err := app.eventHub.Start(ctx); err != nil {
		return fmt.Errorf("failed to start event hub: %w", err)
	}

	serverErrCh := make(chan error, 1)
	go func() {
		if err := app.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	select {
	case err := <-serverErrCh:
		app.eventHub.Stop()
		return err
	case <-time.After(100 * time.Millisecond):
		log.Printf("Scholarboard application started successfully")
		return nil
	case <-ctx.Done():
		app.eventHub.Stop()
		return ctx.Err()
	}
}

// Stop shuts the application down in reverse dependency order:
// HTTP → Hub → Store.
func (app *Application) Stop(ctx context.Context) error {
	log.Printf("Shutting down Scholarboard application")

	if err := app.httpServer.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	if err := app.eventHub.Stop(); err != nil {
		log.Printf("Event hub shutdown error: %v", err)
	}

	if err := app.store.Close(); err != nil {
		log.Printf("Store shutdown error: %v", err)
	}

	log.Printf("Scholarboard application shutdown complete")
	return nil
}

// GetAddr returns the server address for external connections.
func (app *Application) GetAddr() string {
	return app.httpServer.Addr
}
