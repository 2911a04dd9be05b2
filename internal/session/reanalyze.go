package session

import (
	"context"
	"fmt"
	"log"

	"github.com/jonathan/brandscope/internal/scoring"
	"github.com/jonathan/brandscope/internal/sov"
	"github.com/jonathan/brandscope/internal/types"
)

// defaultBackend is used when a prior session's backend names cannot be
// recovered.
const defaultBackend = "gemini-flash"

// Reanalyze starts a new session that re-runs a prior session's prompts
// on the same backends, skipping research, keyword, and prompt
// generation. The prior session's research and keywords carry over.
func (o *Orchestrator) Reanalyze(ctx context.Context, sessionID string) (string, error) {
	prior, err := o.store.SessionByID(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("failed to load session: %w", err)
	}
	if prior == nil {
		return "", ErrSessionNotFound
	}

	promptList, err := o.store.SessionPrompts(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("failed to recover prompts: %w", err)
	}
	if len(promptList) == 0 {
		return "", ErrNoPrompts
	}

	backendNames, err := o.store.SessionBackends(ctx, sessionID)
	if err != nil {
		log.Printf("[SESSION %s] Failed to recover backend names: %v", sessionID, err)
	}
	if len(backendNames) == 0 {
		log.Printf("[SESSION %s] No backend names recovered, defaulting to %s", sessionID, defaultBackend)
		backendNames = []string{defaultBackend}
	}

	sess := &types.Session{
		SessionID:   types.NewSessionID(prior.BrandName, prior.ProductName, o.now()),
		BrandName:   prior.BrandName,
		ProductName: prior.ProductName,
		WebsiteURL:  prior.WebsiteURL,
		Status:      types.StatusRunning,
		Research:    prior.Research,
		Keywords:    prior.Keywords,
		CreatedAt:   o.now(),
	}
	if err := o.store.CreateSession(ctx, sess); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	o.tracker.Init(sess.SessionID)
	go o.runReanalysis(o.runCtx(), sess, promptList, backendNames)

	return sess.SessionID, nil
}

// runReanalysis executes the shortened workflow over recovered prompts.
func (o *Orchestrator) runReanalysis(ctx context.Context, sess *types.Session, promptList, backendNames []string) {
	brand := sess.BrandName
	id := sess.SessionID

	res := sess.Research
	if res == nil {
		res = &types.Research{}
	}

	o.progress(ctx, id, 10, "Re-executing backends with saved prompts...")
	results := o.executor.Run(ctx, promptList, backendNames)

	successful := 0
	for _, r := range results {
		if err := o.store.SaveResponse(ctx, id, r); err != nil {
			log.Printf("[SESSION %s] Failed to save response: %v", id, err)
		}
		if r.Success {
			successful++
		}
	}
	if successful == 0 {
		o.fail(ctx, id, "no successful backend responses")
		return
	}

	o.progress(ctx, id, 60, "Recalculating scores...")
	records := scoring.ScoreResults(results, brand, sess.Keywords)
	for _, rec := range records {
		if err := o.store.SaveScoreRecord(ctx, id, rec); err != nil {
			log.Printf("[SESSION %s] Failed to save score record: %v", id, err)
		}
	}

	o.progress(ctx, id, 90, "Computing share of voice...")
	competitors := res.Competitors
	if len(competitors) == 0 {
		// The prior research had none; fall back to competitors recorded
		// across the brand's earlier sessions.
		var err error
		competitors, err = o.store.CompetitorsForBrand(ctx, brand, 10)
		if err != nil {
			log.Printf("[SESSION %s] Competitor lookup failed: %v", id, err)
		}
		if len(competitors) > 0 {
			log.Printf("[SESSION %s] Recovered %d competitors from prior sessions", id, len(competitors))
		}
	}
	if len(competitors) > 0 {
		if err := o.store.SaveCompetitors(ctx, id, competitors); err != nil {
			log.Printf("[SESSION %s] Failed to save competitors: %v", id, err)
		}
	}
	ranking := sov.Rank(brand, records, results, competitors)
	if err := o.store.SaveShareOfVoice(ctx, id, ranking.Entities); err != nil {
		log.Printf("[SESSION %s] Failed to save share of voice: %v", id, err)
	}

	summary := scoring.Aggregate(records)
	if err := o.store.SaveSummary(ctx, id, summary); err != nil {
		log.Printf("[SESSION %s] Failed to save summary: %v", id, err)
	}

	o.tracker.Complete(id)
	if err := o.store.UpdateSessionStatus(ctx, id, types.StatusCompleted, 100, "Analysis complete", ""); err != nil {
		log.Printf("[SESSION %s] Failed to persist completion: %v", id, err)
	}
	log.Printf("[SESSION %s] Re-analysis completed: %d scored results", id, len(records))
}
