package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/brandscope/internal/types"
)

type fakeStore struct {
	sessions      map[string]*types.Session
	savedPrompts  map[string][]string
	responses     []types.BackendResult
	scoreRecords  []types.ScoreRecord
	competitors   []string
	shareOfVoice  []types.RankedEntity
	summarySaved  bool
	promptsSaved  []string
	brandComps    []string
	priorPrompts  []string
	priorBackends []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		sessions:     make(map[string]*types.Session),
		savedPrompts: make(map[string][]string),
	}
}

func (s *fakeStore) CreateSession(_ context.Context, sess *types.Session) error {
	copied := *sess
	s.sessions[sess.SessionID] = &copied
	return nil
}

func (s *fakeStore) UpdateSessionStatus(_ context.Context, sessionID, status string, progress int, currentStep, errorMessage string) error {
	if sess, ok := s.sessions[sessionID]; ok {
		sess.Status = status
		sess.Progress = progress
		sess.CurrentStep = currentStep
		sess.ErrorMessage = errorMessage
	}
	return nil
}

func (s *fakeStore) UpdateSessionResearch(_ context.Context, sessionID string, research *types.Research, keywords []string) error {
	if sess, ok := s.sessions[sessionID]; ok {
		sess.Research = research
		sess.Keywords = keywords
	}
	return nil
}

func (s *fakeStore) SaveResponse(_ context.Context, _ string, res types.BackendResult) error {
	s.responses = append(s.responses, res)
	return nil
}

func (s *fakeStore) SaveScoreRecord(_ context.Context, _ string, rec types.ScoreRecord) error {
	s.scoreRecords = append(s.scoreRecords, rec)
	return nil
}

func (s *fakeStore) SaveCompetitors(_ context.Context, _ string, competitors []string) error {
	s.competitors = competitors
	return nil
}

func (s *fakeStore) SaveShareOfVoice(_ context.Context, _ string, entities []types.RankedEntity) error {
	s.shareOfVoice = entities
	return nil
}

func (s *fakeStore) SaveSummary(_ context.Context, _ string, _ types.Summary) error {
	s.summarySaved = true
	return nil
}

func (s *fakeStore) SavePrompts(_ context.Context, brandName, productName string, prompts []string) error {
	s.promptsSaved = prompts
	s.savedPrompts[brandName+"|"+productName] = prompts
	return nil
}

func (s *fakeStore) SavedPrompts(_ context.Context, brandName, productName string) ([]string, error) {
	return s.savedPrompts[brandName+"|"+productName], nil
}

func (s *fakeStore) SessionByID(_ context.Context, sessionID string) (*types.Session, error) {
	return s.sessions[sessionID], nil
}

func (s *fakeStore) SessionPrompts(_ context.Context, _ string) ([]string, error) {
	return s.priorPrompts, nil
}

func (s *fakeStore) SessionBackends(_ context.Context, _ string) ([]string, error) {
	return s.priorBackends, nil
}

func (s *fakeStore) CompetitorsForBrand(_ context.Context, _ string, _ int) ([]string, error) {
	return s.brandComps, nil
}

type fakeResearcher struct {
	res *types.Research
	err error
}

func (f *fakeResearcher) Research(_ context.Context, _, _, _, _ string) (*types.Research, error) {
	return f.res, f.err
}

type fakeKeywordExtractor struct{ keywords []string }

func (f *fakeKeywordExtractor) Extract(_ context.Context, _, _ string, _ *types.Research, _ int) []string {
	return f.keywords
}

type fakePromptGenerator struct {
	prompts []string
	called  bool
}

func (f *fakePromptGenerator) Generate(_ context.Context, _ string, _ int, _ *types.Research, _ []string) []string {
	f.called = true
	return f.prompts
}

type fakeExecutor struct {
	response string
	fail     bool
	prompts  []string
	backends []string
}

func (f *fakeExecutor) Run(_ context.Context, prompts []string, backendNames []string) []types.BackendResult {
	f.prompts = prompts
	f.backends = backendNames

	var results []types.BackendResult
	for _, name := range backendNames {
		for i, prompt := range prompts {
			res := types.BackendResult{PromptIndex: i, BackendName: name, Prompt: prompt}
			if f.fail {
				res.Error = "backend unavailable"
			} else {
				res.Response = f.response
				res.Success = true
			}
			results = append(results, res)
		}
	}
	return results
}

func newTestOrchestrator(store *fakeStore, researcher *fakeResearcher, generator *fakePromptGenerator, executor *fakeExecutor) *Orchestrator {
	o := New(store, researcher, &fakeKeywordExtractor{keywords: []string{"organic snacks"}}, generator, executor)
	o.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return o
}

func TestStart_CreatesPollableSession(t *testing.T) {
	store := newFakeStore()
	o := newTestOrchestrator(store,
		&fakeResearcher{res: &types.Research{Competitors: []string{"Rival"}}},
		&fakePromptGenerator{prompts: []string{"best organic snacks"}},
		&fakeExecutor{response: "1. Acme\n2. Rival"},
	)
	id, err := o.Start(context.Background(), &types.AnalysisRequest{
		BrandName: "Acme",
		Backends:  []string{"gemini-flash"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme_20250601_120000", id)

	waitForTerminal(t, o, id)

	p, err := o.Status(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, types.StatusCompleted, p.Status)
	_, ok := store.sessions[id]
	assert.True(t, ok)
}

// waitForTerminal polls the tracker until the background run finishes.
func waitForTerminal(t *testing.T, o *Orchestrator, sessionID string) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		p, ok := o.tracker.Get(sessionID)
		if ok && (p.Status == types.StatusCompleted || p.Status == types.StatusError) {
			return
		}
		select {
		case <-deadline:
			t.Fatal("session did not reach a terminal state")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestRun_CompletesFullWorkflow(t *testing.T) {
	store := newFakeStore()
	generator := &fakePromptGenerator{prompts: []string{"best organic snacks", "top snack brands"}}
	executor := &fakeExecutor{response: "1. Acme leads\n2. Rival follows"}
	o := newTestOrchestrator(store,
		&fakeResearcher{res: &types.Research{BrandCategory: "snacks", Competitors: []string{"Rival"}}},
		generator, executor,
	)

	sess := &types.Session{SessionID: "s1", BrandName: "Acme", Status: types.StatusRunning}
	require.NoError(t, store.CreateSession(context.Background(), sess))
	o.tracker.Init("s1")

	o.run(context.Background(), sess, StartOptions{Backends: []string{"gemini-flash"}})

	p, _ := o.tracker.Get("s1")
	assert.Equal(t, types.StatusCompleted, p.Status)
	assert.Equal(t, 100, p.Progress)

	assert.Equal(t, []string{"best organic snacks", "top snack brands"}, executor.prompts)
	assert.Len(t, store.responses, 2)
	assert.Len(t, store.scoreRecords, 2)
	assert.Equal(t, []string{"Rival"}, store.competitors)
	assert.Len(t, store.shareOfVoice, 2)
	assert.True(t, store.summarySaved)
	assert.Equal(t, generator.prompts, store.promptsSaved)

	// Terminal state also persisted for cross-restart polling
	assert.Equal(t, types.StatusCompleted, store.sessions["s1"].Status)
	assert.Equal(t, 100, store.sessions["s1"].Progress)
}

func TestRun_ReusesSavedPrompts(t *testing.T) {
	store := newFakeStore()
	store.savedPrompts["Acme|"] = []string{"saved prompt"}
	generator := &fakePromptGenerator{prompts: []string{"fresh prompt"}}
	executor := &fakeExecutor{response: "Acme appears here."}
	o := newTestOrchestrator(store, &fakeResearcher{res: &types.Research{}}, generator, executor)

	sess := &types.Session{SessionID: "s1", BrandName: "Acme"}
	require.NoError(t, store.CreateSession(context.Background(), sess))
	o.tracker.Init("s1")

	o.run(context.Background(), sess, StartOptions{Backends: []string{"gemini-flash"}})

	assert.False(t, generator.called)
	assert.Equal(t, []string{"saved prompt"}, executor.prompts)
}

func TestRun_RegenerateSkipsSavedPrompts(t *testing.T) {
	store := newFakeStore()
	store.savedPrompts["Acme|"] = []string{"saved prompt"}
	generator := &fakePromptGenerator{prompts: []string{"fresh prompt"}}
	executor := &fakeExecutor{response: "Acme appears here."}
	o := newTestOrchestrator(store, &fakeResearcher{res: &types.Research{}}, generator, executor)

	sess := &types.Session{SessionID: "s1", BrandName: "Acme"}
	require.NoError(t, store.CreateSession(context.Background(), sess))
	o.tracker.Init("s1")

	o.run(context.Background(), sess, StartOptions{Backends: []string{"gemini-flash"}, RegeneratePrompts: true})

	assert.True(t, generator.called)
	assert.Equal(t, []string{"fresh prompt"}, executor.prompts)
}

func TestRun_ResearchFailureDegrades(t *testing.T) {
	store := newFakeStore()
	o := newTestOrchestrator(store,
		&fakeResearcher{err: errors.New("model unavailable")},
		&fakePromptGenerator{prompts: []string{"best snacks"}},
		&fakeExecutor{response: "Acme wins."},
	)

	sess := &types.Session{SessionID: "s1", BrandName: "Acme"}
	require.NoError(t, store.CreateSession(context.Background(), sess))
	o.tracker.Init("s1")

	o.run(context.Background(), sess, StartOptions{Backends: []string{"gemini-flash"}})

	p, _ := o.tracker.Get("s1")
	assert.Equal(t, types.StatusCompleted, p.Status)
	// No competitors without research, so the brand ranks alone
	assert.Len(t, store.shareOfVoice, 1)
}

func TestRun_FailsWithoutPrompts(t *testing.T) {
	store := newFakeStore()
	o := newTestOrchestrator(store,
		&fakeResearcher{res: &types.Research{}},
		&fakePromptGenerator{},
		&fakeExecutor{},
	)

	sess := &types.Session{SessionID: "s1", BrandName: "Acme"}
	require.NoError(t, store.CreateSession(context.Background(), sess))
	o.tracker.Init("s1")

	o.run(context.Background(), sess, StartOptions{Backends: []string{"gemini-flash"}})

	p, _ := o.tracker.Get("s1")
	assert.Equal(t, types.StatusError, p.Status)
	assert.Equal(t, "failed to generate prompts", p.Error)
	assert.Equal(t, types.StatusError, store.sessions["s1"].Status)
}

func TestRun_FailsWithoutSuccessfulResponses(t *testing.T) {
	store := newFakeStore()
	o := newTestOrchestrator(store,
		&fakeResearcher{res: &types.Research{}},
		&fakePromptGenerator{prompts: []string{"best snacks"}},
		&fakeExecutor{fail: true},
	)

	sess := &types.Session{SessionID: "s1", BrandName: "Acme"}
	require.NoError(t, store.CreateSession(context.Background(), sess))
	o.tracker.Init("s1")

	o.run(context.Background(), sess, StartOptions{Backends: []string{"gemini-flash"}})

	p, _ := o.tracker.Get("s1")
	assert.Equal(t, types.StatusError, p.Status)
	assert.Equal(t, "no successful backend responses", p.Error)
	// The failed responses are still recorded
	assert.Len(t, store.responses, 1)
}

func TestStatus_FallsBackToStore(t *testing.T) {
	store := newFakeStore()
	store.sessions["old"] = &types.Session{
		SessionID: "old",
		Status:    types.StatusCompleted,
		Progress:  100,
	}
	o := newTestOrchestrator(store, &fakeResearcher{}, &fakePromptGenerator{}, &fakeExecutor{})

	p, err := o.Status(context.Background(), "old")
	require.NoError(t, err)
	assert.Equal(t, types.StatusCompleted, p.Status)
	assert.Equal(t, 100, p.Progress)
}

func TestStatus_NotFound(t *testing.T) {
	o := newTestOrchestrator(newFakeStore(), &fakeResearcher{}, &fakePromptGenerator{}, &fakeExecutor{})

	_, err := o.Status(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestReanalyze_SessionNotFound(t *testing.T) {
	o := newTestOrchestrator(newFakeStore(), &fakeResearcher{}, &fakePromptGenerator{}, &fakeExecutor{})

	_, err := o.Reanalyze(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestReanalyze_NoPrompts(t *testing.T) {
	store := newFakeStore()
	store.sessions["prior"] = &types.Session{SessionID: "prior", BrandName: "Acme"}
	o := newTestOrchestrator(store, &fakeResearcher{}, &fakePromptGenerator{}, &fakeExecutor{})

	_, err := o.Reanalyze(context.Background(), "prior")
	assert.ErrorIs(t, err, ErrNoPrompts)
}

func TestRunReanalysis_CompletesWithPriorArtifacts(t *testing.T) {
	store := newFakeStore()
	executor := &fakeExecutor{response: "1. Acme\n2. Rival"}
	o := newTestOrchestrator(store, &fakeResearcher{}, &fakePromptGenerator{}, executor)

	sess := &types.Session{
		SessionID: "s2",
		BrandName: "Acme",
		Research:  &types.Research{Competitors: []string{"Rival"}},
		Keywords:  []string{"organic snacks"},
	}
	require.NoError(t, store.CreateSession(context.Background(), sess))
	o.tracker.Init("s2")

	o.runReanalysis(context.Background(), sess, []string{"best snacks"}, []string{"gemini-flash"})

	p, _ := o.tracker.Get("s2")
	assert.Equal(t, types.StatusCompleted, p.Status)
	assert.Equal(t, []string{"best snacks"}, executor.prompts)
	assert.Equal(t, []string{"gemini-flash"}, executor.backends)
	assert.Equal(t, []string{"Rival"}, store.competitors)
	assert.Len(t, store.shareOfVoice, 2)
}

func TestRunReanalysis_CompetitorFallback(t *testing.T) {
	store := newFakeStore()
	store.brandComps = []string{"OldRival"}
	executor := &fakeExecutor{response: "Acme and OldRival both appear."}
	o := newTestOrchestrator(store, &fakeResearcher{}, &fakePromptGenerator{}, executor)

	sess := &types.Session{SessionID: "s2", BrandName: "Acme", Research: &types.Research{}}
	require.NoError(t, store.CreateSession(context.Background(), sess))
	o.tracker.Init("s2")

	o.runReanalysis(context.Background(), sess, []string{"best snacks"}, []string{"gemini-flash"})

	assert.Equal(t, []string{"OldRival"}, store.competitors)
	assert.Len(t, store.shareOfVoice, 2)
}

func TestReanalyze_DefaultsBackend(t *testing.T) {
	store := newFakeStore()
	store.sessions["prior"] = &types.Session{SessionID: "prior", BrandName: "Acme"}
	store.priorPrompts = []string{"best snacks"}
	executor := &fakeExecutor{response: "Acme wins."}
	o := newTestOrchestrator(store, &fakeResearcher{}, &fakePromptGenerator{}, executor)

	id, err := o.Reanalyze(context.Background(), "prior")
	require.NoError(t, err)
	assert.NotEqual(t, "prior", id)

	waitForTerminal(t, o, id)
	assert.Equal(t, []string{defaultBackend}, executor.backends)
}
