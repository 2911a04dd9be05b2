package backends

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/brandscope/internal/types"
)

// DefaultCallTimeout bounds a single backend call.
const DefaultCallTimeout = 90 * time.Second

// Executor fans prompts out across backends and gathers every outcome.
// The run never fails fast: a backend error becomes a success=false
// result and the remaining work continues.
type Executor struct {
	registry    *Registry
	callTimeout time.Duration
	// delay paces consecutive calls on an exclusive backend session.
	delay func() time.Duration
}

// NewExecutor returns an executor over the registry with the default
// call timeout and a randomized 3-5s pacing delay for exclusive backends.
func NewExecutor(registry *Registry) *Executor {
	return &Executor{
		registry:    registry,
		callTimeout: DefaultCallTimeout,
		delay: func() time.Duration {
			return 3*time.Second + time.Duration(rand.Int63n(int64(2*time.Second)))
		},
	}
}

// WithCallTimeout overrides the per-call timeout.
func (e *Executor) WithCallTimeout(d time.Duration) *Executor {
	e.callTimeout = d
	return e
}

// WithDelay overrides the inter-call pacing for exclusive backends.
func (e *Executor) WithDelay(f func() time.Duration) *Executor {
	e.delay = f
	return e
}

// Run executes every prompt against every named backend and returns one
// result per (prompt, backend) pair. Concurrent backends run fanned out;
// exclusive backends run their prompts in order while holding the
// backend's resource for the whole pass. Unknown backend names yield
// failed results rather than an error.
func (e *Executor) Run(ctx context.Context, prompts []string, backendNames []string) []types.BackendResult {
	concurrent, exclusive, unknown := e.registry.Partition(backendNames)

	var mu sync.Mutex
	var results []types.BackendResult
	collect := func(res types.BackendResult) {
		mu.Lock()
		results = append(results, res)
		mu.Unlock()
	}

	for _, name := range unknown {
		log.Printf("[EXECUTE] Unknown backend %q requested", name)
		for i, prompt := range prompts {
			collect(types.BackendResult{
				PromptIndex: i,
				BackendName: name,
				Prompt:      prompt,
				Error:       fmt.Sprintf("unknown backend: %s", name),
			})
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, backend := range concurrent {
		for i, prompt := range prompts {
			g.Go(func() error {
				collect(e.runOne(gctx, backend, i, prompt))
				return nil
			})
		}
	}

	for _, backend := range exclusive {
		g.Go(func() error {
			for _, res := range e.runExclusive(gctx, backend, prompts) {
				collect(res)
			}
			return nil
		})
	}

	// Tasks never return errors, so Wait only orders the collection.
	_ = g.Wait()
	return results
}

// runOne executes one prompt on one concurrent backend under the call
// timeout.
func (e *Executor) runOne(ctx context.Context, backend Backend, index int, prompt string) types.BackendResult {
	callCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
	defer cancel()

	resp, err := backend.Execute(callCtx, prompt)
	if err != nil {
		log.Printf("[EXECUTE] %s prompt %d failed: %v", backend.Name(), index, err)
		return types.BackendResult{
			PromptIndex: index,
			BackendName: backend.Name(),
			Prompt:      prompt,
			Error:       err.Error(),
		}
	}
	return types.BackendResult{
		PromptIndex: index,
		BackendName: backend.Name(),
		Prompt:      prompt,
		Response:    resp.Text,
		Citations:   resp.Citations,
		Success:     true,
	}
}

// runExclusive opens the backend once, walks the prompts in order with a
// pacing delay between calls, and always releases the session. An Open
// failure fails every prompt for the backend.
func (e *Executor) runExclusive(ctx context.Context, backend ExclusiveBackend, prompts []string) []types.BackendResult {
	results := make([]types.BackendResult, 0, len(prompts))

	session, err := backend.Open(ctx)
	if err != nil {
		log.Printf("[EXECUTE] %s failed to open: %v", backend.Name(), err)
		for i, prompt := range prompts {
			results = append(results, types.BackendResult{
				PromptIndex: i,
				BackendName: backend.Name(),
				Prompt:      prompt,
				Error:       fmt.Sprintf("failed to open backend: %v", err),
			})
		}
		return results
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			log.Printf("[EXECUTE] %s close failed: %v", backend.Name(), cerr)
		}
	}()

	for i, prompt := range prompts {
		callCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
		resp, err := session.Execute(callCtx, prompt)
		cancel()

		if err != nil {
			log.Printf("[EXECUTE] %s prompt %d failed: %v", backend.Name(), i, err)
			results = append(results, types.BackendResult{
				PromptIndex: i,
				BackendName: backend.Name(),
				Prompt:      prompt,
				Error:       err.Error(),
			})
		} else {
			results = append(results, types.BackendResult{
				PromptIndex: i,
				BackendName: backend.Name(),
				Prompt:      prompt,
				Response:    resp.Text,
				Citations:   resp.Citations,
				Success:     true,
			})
		}

		if i < len(prompts)-1 {
			select {
			case <-time.After(e.delay()):
			case <-ctx.Done():
				for j := i + 1; j < len(prompts); j++ {
					results = append(results, types.BackendResult{
						PromptIndex: j,
						BackendName: backend.Name(),
						Prompt:      prompts[j],
						Error:       ctx.Err().Error(),
					})
				}
				return results
			}
		}
	}
	return results
}
