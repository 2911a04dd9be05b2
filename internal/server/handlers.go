package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/jonathan/brandscope/internal/session"
	"github.com/jonathan/brandscope/internal/types"
)

// handleStartAnalysis launches a new analysis session and returns its id.
func (s *Server) handleStartAnalysis(w http.ResponseWriter, r *http.Request) {
	var req types.AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	sessionID, err := s.orchestrator.Start(r.Context(), &req)
	if err != nil {
		log.Printf("Error starting analysis: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to start analysis")
		return
	}

	s.jsonResponse(w, http.StatusAccepted, map[string]string{
		"session_id": sessionID,
		"status":     types.StatusRunning,
		"status_url": "/api/analyses/" + sessionID + "/status",
	})
}

// handleStatus returns pollable progress for a session.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")

	progress, err := s.orchestrator.Status(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			s.errorResponse(w, http.StatusNotFound, "session not found")
			return
		}
		log.Printf("Error getting status for %s: %v", sessionID, err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to get status")
		return
	}

	s.jsonResponse(w, http.StatusOK, progress)
}

// handleReanalyze re-runs a prior session's prompts as a new session.
func (s *Server) handleReanalyze(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")

	newID, err := s.orchestrator.Reanalyze(r.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrSessionNotFound):
			s.errorResponse(w, http.StatusNotFound, "session not found")
		case errors.Is(err, session.ErrNoPrompts):
			s.errorResponse(w, http.StatusBadRequest, "no prompts found for session")
		default:
			log.Printf("Error re-analyzing %s: %v", sessionID, err)
			s.errorResponse(w, http.StatusInternalServerError, "failed to start re-analysis")
		}
		return
	}

	s.jsonResponse(w, http.StatusAccepted, map[string]string{
		"session_id": newID,
		"status":     types.StatusRunning,
		"status_url": "/api/analyses/" + newID + "/status",
	})
}

// handleListAnalyses returns recent sessions, newest first.
func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	sessions, err := s.db.ListSessions(r.Context(), limit)
	if err != nil {
		log.Printf("Error listing sessions: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to list analyses")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"analyses": sessions,
		"count":    len(sessions),
	})
}

// handleListBrands returns the distinct brand names with sessions.
func (s *Server) handleListBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := s.db.ListBrands(r.Context())
	if err != nil {
		log.Printf("Error listing brands: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to list brands")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"brands": brands,
		"count":  len(brands),
	})
}

// handleBrandHistory returns a brand's sessions with their summaries,
// newest first, for trend views.
func (s *Server) handleBrandHistory(w http.ResponseWriter, r *http.Request) {
	brandName := r.PathValue("name")

	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	sessions, err := s.db.SessionsForBrand(r.Context(), brandName, limit)
	if err != nil {
		log.Printf("Error listing sessions for %s: %v", brandName, err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to get brand history")
		return
	}

	history := make([]map[string]any, 0, len(sessions))
	for _, sess := range sessions {
		entry := map[string]any{
			"session_id": sess.SessionID,
			"status":     sess.Status,
			"created_at": sess.CreatedAt,
		}
		if sess.ProductName != "" {
			entry["product_name"] = sess.ProductName
		}
		if summary, err := s.db.SessionSummary(r.Context(), sess.SessionID); err == nil && summary != nil {
			entry["summary"] = summary
		}
		history = append(history, entry)
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"brand_name": brandName,
		"history":    history,
		"count":      len(history),
	})
}
