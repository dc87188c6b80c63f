package http

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/notefold/notefold-core/internal/core/ports/driven"
	"github.com/notefold/notefold-core/internal/core/ports/driving"
)

// Pinger is a simple health check interface
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	version    string

	// Services
	authService     driving.AuthService
	noteService     driving.NoteService
	liveService     driving.LiveNoteService
	cleanupService  driving.CleanupService
	compileService  driving.CompileService
	generateService driving.GenerateService
	friendService   driving.FriendService
	profileService  driving.ProfileService

	// Infrastructure
	sessionLock driven.DistributedLock
	db          Pinger // PostgreSQL health check
	redisClient Pinger // Redis health check (optional)
}

// Config holds server configuration
type Config struct {
	Host    string
	Port    int
	Version string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:    "0.0.0.0",
		Port:    8080,
		Version: "dev",
	}
}

// NewServer creates a new HTTP server
func NewServer(
	cfg Config,
	authService driving.AuthService,
	noteService driving.NoteService,
	liveService driving.LiveNoteService,
	cleanupService driving.CleanupService,
	compileService driving.CompileService,
	generateService driving.GenerateService,
	friendService driving.FriendService,
	profileService driving.ProfileService,
	sessionLock driven.DistributedLock,
	db Pinger,
	redisClient Pinger, // can be nil
) *Server {
	s := &Server{
		router:          http.NewServeMux(),
		version:         cfg.Version,
		authService:     authService,
		noteService:     noteService,
		liveService:     liveService,
		cleanupService:  cleanupService,
		compileService:  compileService,
		generateService: generateService,
		friendService:   friendService,
		profileService:  profileService,
		sessionLock:     sessionLock,
		db:              db,
		redisClient:     redisClient,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // generation calls are slow
		IdleTimeout:  60 * time.Second,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	authMiddleware := NewAuthMiddleware(s.authService, s.profileService)
	authed := func(h http.HandlerFunc) http.Handler {
		return authMiddleware.Authenticate(h)
	}

	// Health endpoints (no auth)
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /version", s.handleVersion)

	// Note endpoints
	s.router.Handle("POST /api/v1/notes", authed(s.handleCreateNote))
	s.router.Handle("GET /api/v1/notes", authed(s.handleListNotes))
	s.router.Handle("GET /api/v1/notes/{id}", authed(s.handleGetNote))
	s.router.Handle("PATCH /api/v1/notes/{id}", authed(s.handleUpdateNote))
	s.router.Handle("DELETE /api/v1/notes/{id}", authed(s.handleDeleteNote))

	// One-shot generation endpoints
	s.router.Handle("POST /api/v1/notes/generate-from-transcript", authed(s.handleGenerateFromTranscript))
	s.router.Handle("POST /api/v1/notes/generate-metadata", authed(s.handleGenerateMetadata))

	// User endpoints. The literal "me" segment wins over the wildcard.
	s.router.Handle("GET /api/v1/users/me", authed(s.handleGetMe))
	s.router.Handle("PATCH /api/v1/users/me", authed(s.handleUpdateMe))
	s.router.Handle("GET /api/v1/users/{username}", authed(s.handleGetUserByUsername))

	// Live note endpoints
	s.router.Handle("POST /api/v1/live/consolidate", authed(s.handleConsolidate))
	s.router.Handle("POST /api/v1/live/cleanup", authed(s.handleCleanup))

	// Compiled note endpoints
	s.router.Handle("POST /api/v1/compiled", authed(s.handleCompile))
	s.router.Handle("GET /api/v1/compiled", authed(s.handleListCompiled))
	s.router.Handle("GET /api/v1/compiled/{id}", authed(s.handleGetCompiled))
	s.router.Handle("GET /api/v1/compiled/{id}/citations", authed(s.handleGetCitations))
	s.router.Handle("DELETE /api/v1/compiled/{id}", authed(s.handleDeleteCompiled))

	// Friend endpoints
	s.router.Handle("POST /api/v1/friends/requests", authed(s.handleFriendRequest))
	s.router.Handle("POST /api/v1/friends/requests/{id}/accept", authed(s.handleFriendAccept))
	s.router.Handle("POST /api/v1/friends/requests/{id}/reject", authed(s.handleFriendReject))
	s.router.Handle("GET /api/v1/friends", authed(s.handleListFriends))
	s.router.Handle("DELETE /api/v1/friends/{id}", authed(s.handleFriendRemove))
}

// Start starts the HTTP server with graceful shutdown
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// Stop stops the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
