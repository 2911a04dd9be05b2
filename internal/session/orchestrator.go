// Package session orchestrates the end-to-end analysis workflow: research,
// keywords, prompts, backend execution, scoring, and share of voice, all
// running in the background with pollable progress.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jonathan/brandscope/internal/scoring"
	"github.com/jonathan/brandscope/internal/sov"
	"github.com/jonathan/brandscope/internal/types"
)

// ErrSessionNotFound marks a session id with no stored session.
var ErrSessionNotFound = errors.New("session not found")

// ErrNoPrompts marks a prior session with no recoverable prompts.
var ErrNoPrompts = errors.New("no prompts found for session")

// Store is the persistence surface the orchestrator writes through.
type Store interface {
	CreateSession(ctx context.Context, s *types.Session) error
	UpdateSessionStatus(ctx context.Context, sessionID, status string, progress int, currentStep, errorMessage string) error
	UpdateSessionResearch(ctx context.Context, sessionID string, research *types.Research, keywords []string) error
	SaveResponse(ctx context.Context, sessionID string, res types.BackendResult) error
	SaveScoreRecord(ctx context.Context, sessionID string, rec types.ScoreRecord) error
	SaveCompetitors(ctx context.Context, sessionID string, competitors []string) error
	SaveShareOfVoice(ctx context.Context, sessionID string, entities []types.RankedEntity) error
	SaveSummary(ctx context.Context, sessionID string, summary types.Summary) error
	SavePrompts(ctx context.Context, brandName, productName string, prompts []string) error
	SavedPrompts(ctx context.Context, brandName, productName string) ([]string, error)
	SessionByID(ctx context.Context, sessionID string) (*types.Session, error)
	SessionPrompts(ctx context.Context, sessionID string) ([]string, error)
	SessionBackends(ctx context.Context, sessionID string) ([]string, error)
	CompetitorsForBrand(ctx context.Context, brandName string, limit int) ([]string, error)
}

// Researcher gathers market context for a brand.
type Researcher interface {
	Research(ctx context.Context, brandName, productName, websiteURL, industry string) (*types.Research, error)
}

// KeywordExtractor produces SEO keywords from research.
type KeywordExtractor interface {
	Extract(ctx context.Context, brandName, productName string, res *types.Research, count int) []string
}

// PromptGenerator produces organic search prompts.
type PromptGenerator interface {
	Generate(ctx context.Context, brandName string, count int, res *types.Research, kws []string) []string
}

// Executor runs prompts against backends.
type Executor interface {
	Run(ctx context.Context, prompts []string, backendNames []string) []types.BackendResult
}

// Orchestrator drives analysis sessions.
type Orchestrator struct {
	store     Store
	research  Researcher
	keywords  KeywordExtractor
	prompts   PromptGenerator
	executor  Executor
	tracker   *Tracker
	now       func() time.Time
	runCtx    func() context.Context
}

// New creates an orchestrator over its collaborators.
func New(store Store, research Researcher, keywords KeywordExtractor, prompts PromptGenerator, executor Executor) *Orchestrator {
	return &Orchestrator{
		store:    store,
		research: research,
		keywords: keywords,
		prompts:  prompts,
		executor: executor,
		tracker:  NewTracker(),
		now:      time.Now,
		runCtx:   context.Background,
	}
}

// StartOptions carries the per-run knobs beyond brand identity.
type StartOptions struct {
	NumPrompts        int
	Backends          []string
	RegeneratePrompts bool
}

// Start creates the session record and launches the workflow in the
// background. The returned id is immediately pollable.
func (o *Orchestrator) Start(ctx context.Context, req *types.AnalysisRequest) (string, error) {
	sess := &types.Session{
		SessionID:   types.NewSessionID(req.BrandName, req.ProductName, o.now()),
		BrandName:   req.BrandName,
		ProductName: req.ProductName,
		WebsiteURL:  req.WebsiteURL,
		Status:      types.StatusRunning,
		CreatedAt:   o.now(),
	}
	if err := o.store.CreateSession(ctx, sess); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	o.tracker.Init(sess.SessionID)

	opts := StartOptions{
		NumPrompts:        req.NumPrompts,
		Backends:          req.Backends,
		RegeneratePrompts: req.RegeneratePrompts,
	}
	go o.run(o.runCtx(), sess, opts)

	return sess.SessionID, nil
}

// Status returns pollable progress for a session. Sessions from earlier
// process lifetimes fall back to their persisted state.
func (o *Orchestrator) Status(ctx context.Context, sessionID string) (Progress, error) {
	if p, ok := o.tracker.Get(sessionID); ok {
		return p, nil
	}
	sess, err := o.store.SessionByID(ctx, sessionID)
	if err != nil {
		return Progress{}, err
	}
	if sess == nil {
		return Progress{}, ErrSessionNotFound
	}
	return Progress{
		Progress:    sess.Progress,
		CurrentStep: sess.CurrentStep,
		Status:      sess.Status,
		Error:       sess.ErrorMessage,
	}, nil
}

// run executes the full workflow for one session. Persistence of
// intermediate artifacts is best effort; only unusable pipeline output
// (no prompts, no successful responses) terminates the run.
func (o *Orchestrator) run(ctx context.Context, sess *types.Session, opts StartOptions) {
	brand := sess.BrandName
	id := sess.SessionID

	o.progress(ctx, id, 10, "Conducting market research...")
	res, err := o.research.Research(ctx, brand, sess.ProductName, sess.WebsiteURL, "")
	if err != nil {
		// Research is an enrichment; later stages work from an empty
		// context and the run only dies if prompts cannot be produced.
		log.Printf("[SESSION %s] Research failed, continuing without: %v", id, err)
		res = &types.Research{}
	}

	o.progress(ctx, id, 20, "Extracting keywords...")
	kws := o.keywords.Extract(ctx, brand, sess.ProductName, res, 0)

	o.progress(ctx, id, 30, "Checking for saved prompts...")
	var promptList []string
	if !opts.RegeneratePrompts {
		promptList, err = o.store.SavedPrompts(ctx, brand, sess.ProductName)
		if err != nil {
			log.Printf("[SESSION %s] Failed to load saved prompts: %v", id, err)
		}
		if len(promptList) > 0 {
			log.Printf("[SESSION %s] Using %d saved prompts", id, len(promptList))
			o.progress(ctx, id, 30, "Loaded saved prompts")
		}
	}
	if len(promptList) == 0 {
		o.progress(ctx, id, 30, "Generating new prompts...")
		promptList = o.prompts.Generate(ctx, brand, opts.NumPrompts, res, kws)
		if len(promptList) == 0 {
			o.fail(ctx, id, "failed to generate prompts")
			return
		}
		if err := o.store.SavePrompts(ctx, brand, sess.ProductName, promptList); err != nil {
			log.Printf("[SESSION %s] Failed to save prompts: %v", id, err)
		}
	}

	if err := o.store.UpdateSessionResearch(ctx, id, res, kws); err != nil {
		log.Printf("[SESSION %s] Failed to persist research: %v", id, err)
	}

	o.progress(ctx, id, 40, fmt.Sprintf("Running %d prompts on %d backends...", len(promptList), len(opts.Backends)))
	results := o.executor.Run(ctx, promptList, opts.Backends)

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

	o.progress(ctx, id, 80, "Calculating scores...")
	records := scoring.ScoreResults(results, brand, kws)
	for _, rec := range records {
		if err := o.store.SaveScoreRecord(ctx, id, rec); err != nil {
			log.Printf("[SESSION %s] Failed to save score record: %v", id, err)
		}
	}

	o.progress(ctx, id, 90, "Computing share of voice...")
	if len(res.Competitors) > 0 {
		if err := o.store.SaveCompetitors(ctx, id, res.Competitors); err != nil {
			log.Printf("[SESSION %s] Failed to save competitors: %v", id, err)
		}
	} else {
		log.Printf("[SESSION %s] No competitors found, ranking brand alone", id)
	}
	ranking := sov.Rank(brand, records, results, res.Competitors)
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
	log.Printf("[SESSION %s] Analysis completed: %d scored results, rank %d of %d",
		id, len(records), ranking.BrandRank, ranking.TotalEntities)
}

// progress advances both the in-memory tracker and the durable session
// row.
func (o *Orchestrator) progress(ctx context.Context, sessionID string, pct int, step string) {
	log.Printf("[SESSION %s] %d%% - %s", sessionID, pct, step)
	o.tracker.Update(sessionID, pct, step)
	if err := o.store.UpdateSessionStatus(ctx, sessionID, types.StatusRunning, pct, step, ""); err != nil {
		log.Printf("[SESSION %s] Failed to persist progress: %v", sessionID, err)
	}
}

// fail moves a session to its terminal error state.
func (o *Orchestrator) fail(ctx context.Context, sessionID, message string) {
	log.Printf("[SESSION %s] Analysis failed: %s", sessionID, message)
	o.tracker.Fail(sessionID, message)
	p, _ := o.tracker.Get(sessionID)
	if err := o.store.UpdateSessionStatus(ctx, sessionID, types.StatusError, p.Progress, p.CurrentStep, message); err != nil {
		log.Printf("[SESSION %s] Failed to persist failure: %v", sessionID, err)
	}
}
