package server

import (
	"log"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/jonathan/brandscope/internal/types"
)

// domainCount is one entry of the citation domain breakdown.
type domainCount struct {
	Domain     string  `json:"domain"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// handleResults assembles the full result payload for a completed session.
func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	ctx := r.Context()

	sess, err := s.db.SessionByID(ctx, sessionID)
	if err != nil {
		log.Printf("Error loading session %s: %v", sessionID, err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to load session")
		return
	}
	if sess == nil {
		s.errorResponse(w, http.StatusNotFound, "session not found")
		return
	}
	if sess.Status != types.StatusCompleted {
		s.errorResponse(w, http.StatusConflict, "analysis not completed: "+sess.Status)
		return
	}

	summary, err := s.db.SessionSummary(ctx, sessionID)
	if err != nil {
		log.Printf("Error loading summary for %s: %v", sessionID, err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to load results")
		return
	}

	scores, err := s.db.SessionScores(ctx, sessionID, sess.BrandName)
	if err != nil {
		log.Printf("Error loading scores for %s: %v", sessionID, err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to load results")
		return
	}

	shareOfVoice, err := s.db.SessionShareOfVoice(ctx, sessionID)
	if err != nil {
		log.Printf("Error loading share of voice for %s: %v", sessionID, err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to load results")
		return
	}

	competitors, err := s.db.SessionCompetitors(ctx, sessionID)
	if err != nil {
		log.Printf("Error loading competitors for %s: %v", sessionID, err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to load results")
		return
	}

	responses, err := s.db.SessionResponses(ctx, sessionID)
	if err != nil {
		log.Printf("Error loading responses for %s: %v", sessionID, err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to load results")
		return
	}

	payload := map[string]any{
		"session_id":       sessionID,
		"brand_name":       sess.BrandName,
		"status":           sess.Status,
		"created_at":       sess.CreatedAt,
		"keywords":         sess.Keywords,
		"scores":           scores,
		"share_of_voice":   shareOfVoice,
		"competitors":      competitors,
		"responses":        responses,
		"citation_domains": domainCitationCounts(responses),
	}
	if sess.ProductName != "" {
		payload["product_name"] = sess.ProductName
	}
	if sess.Research != nil {
		payload["research"] = sess.Research
	}
	if summary != nil {
		payload["summary"] = summary
	}

	s.jsonResponse(w, http.StatusOK, payload)
}

// domainCitationCounts tallies which domains the backends cited, most
// cited first, capped at ten. Percentages are relative to all citations.
func domainCitationCounts(results []types.BackendResult) []domainCount {
	counts := make(map[string]int)
	total := 0
	for _, res := range results {
		for _, citation := range res.Citations {
			u, err := url.Parse(citation)
			if err != nil || u.Host == "" {
				continue
			}
			domain := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
			counts[domain]++
			total++
		}
	}
	if total == 0 {
		return nil
	}

	domains := make([]domainCount, 0, len(counts))
	for domain, count := range counts {
		domains = append(domains, domainCount{
			Domain:     domain,
			Count:      count,
			Percentage: float64(count) / float64(total) * 100,
		})
	}
	sort.Slice(domains, func(i, j int) bool {
		if domains[i].Count != domains[j].Count {
			return domains[i].Count > domains[j].Count
		}
		return domains[i].Domain < domains[j].Domain
	})
	if len(domains) > 10 {
		domains = domains[:10]
	}
	return domains
}
