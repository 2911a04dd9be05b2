// Package server provides the HTTP REST API for brand visibility analysis.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonathan/brandscope/internal/backends"
	"github.com/jonathan/brandscope/internal/db"
	"github.com/jonathan/brandscope/internal/keywords"
	"github.com/jonathan/brandscope/internal/llm"
	"github.com/jonathan/brandscope/internal/prompts"
	"github.com/jonathan/brandscope/internal/research"
	"github.com/jonathan/brandscope/internal/session"
)

// Server represents the HTTP server
type Server struct {
	httpServer   *http.Server
	db           *db.DB
	llmClient    llm.Client
	orchestrator *session.Orchestrator
}

// Config holds server configuration
type Config struct {
	Port        int
	DatabaseURL string
	APIKey      string
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	ctx := context.Background()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	client, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.APIKey)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	registry := backends.NewRegistry()
	registry.Register(backends.NewGeminiFlash(client))
	registry.Register(backends.NewGeminiPro(client))
	registry.RegisterExclusive(backends.NewAIOverview())

	orchestrator := session.New(
		database,
		research.NewService(client),
		keywords.NewExtractor(client),
		prompts.NewGenerator(client),
		backends.NewExecutor(registry),
	)

	s := &Server{
		db:           database,
		llmClient:    client,
		orchestrator: orchestrator,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/analyses", s.handleStartAnalysis)
	mux.HandleFunc("GET /api/analyses", s.handleListAnalyses)
	mux.HandleFunc("GET /api/analyses/{id}/status", s.handleStatus)
	mux.HandleFunc("GET /api/analyses/{id}/results", s.handleResults)
	mux.HandleFunc("POST /api/analyses/{id}/reanalyze", s.handleReanalyze)
	mux.HandleFunc("GET /api/brands", s.handleListBrands)
	mux.HandleFunc("GET /api/brands/{name}/history", s.handleBrandHistory)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
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

	if err := s.llmClient.Close(); err != nil {
		log.Printf("Error closing LLM client: %v", err)
	}
	s.db.Close()
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
