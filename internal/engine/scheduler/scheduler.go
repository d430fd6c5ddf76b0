// Package scheduler implements the low-level task driver: a bounded
// worker pool executing one task per plugin (repo sync, require_modules
// derivation, build hook) over the plugin dependency DAG. The pool is
// shared across both adapter kinds it drives (repo cache, build
// executor) rather than split into one pool per kind.
package scheduler

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"go.rsplug.dev/rsplug/internal/core/domain"
	"go.rsplug.dev/rsplug/internal/core/ports"
	"go.trai.ch/zerr"
)

// Deps bundles the adapters the scheduler drives per plugin task.
type Deps struct {
	Repos     ports.RepoCache
	Hasher    ports.Hasher
	Builds    ports.BuildCache
	Executor  ports.BuildExecutor
	Telemetry ports.Telemetry
}

// Result is what the scheduler reports back for one plugin task.
type Result struct {
	Status      domain.TaskStatus
	Err         error
	Sync        ports.RepoSyncResult
	CheckoutDir string
}

// Parallelism returns the worker-pool size: the logical CPU count,
// clamped to [4, 32], shared between repo-sync and build work.
func Parallelism() int {
	n := runtime.NumCPU()
	switch {
	case n < 4:
		return 4
	case n > 32:
		return 32
	default:
		return n
	}
}

// Scheduler drives every plugin in a domain.Graph through repo sync and
// build, respecting `with` edges as task dependencies.
type Scheduler struct {
	graph *domain.Graph
	lock  *domain.Lockfile
	mode  ports.SyncMode
	deps  Deps

	mu      sync.Mutex
	status  map[string]domain.TaskStatus
	results map[string]Result
}

// New creates a Scheduler for graph. lock may be nil if --locked was not
// requested; mode governs the repo cache's install/update behavior.
func New(graph *domain.Graph, lock *domain.Lockfile, mode ports.SyncMode, deps Deps) *Scheduler {
	s := &Scheduler{
		graph:   graph,
		lock:    lock,
		mode:    mode,
		deps:    deps,
		status:  make(map[string]domain.TaskStatus, graph.Count()),
		results: make(map[string]Result, graph.Count()),
	}
	for _, id := range graph.Order() {
		s.status[id] = domain.StatusPending
	}
	return s
}

// Status returns the current status of id.
func (s *Scheduler) Status(id string) domain.TaskStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status[id]
}

// Run drives every plugin task to a terminal state and returns the
// per-plugin results plus the joined error of any that failed or were
// skipped. Run blocks until every task is terminal or ctx is done; the
// caller is responsible for the SIGTERM-then-5s-hard-kill cancellation
// policy at the subprocess layer — Run itself only stops dispatching
// new work once ctx is done and waits out in-flight tasks.
func (s *Scheduler) Run(ctx context.Context, parallelism int) (map[string]Result, error) {
	state := s.newRunState(ctx, parallelism)

	for !state.isDone() {
		state.schedule()
		if state.isDone() {
			break
		}
		if ctx.Err() != nil && state.active == 0 {
			break
		}
		select {
		case res := <-state.resultsCh:
			state.handleResult(res)
		case <-ctx.Done():
		}
	}

	errs := state.errs
	if ctx.Err() != nil {
		errs = errors.Join(errs, ctx.Err())
	}

	s.mu.Lock()
	out := make(map[string]Result, len(s.results))
	for id, r := range s.results {
		out[id] = r
	}
	s.mu.Unlock()
	return out, errs
}

type taskResult struct {
	id     string
	result Result
}

type runState struct {
	s           *Scheduler
	ctx         context.Context
	parallelism int

	inDegree  map[string]int
	ready     []string
	active    int
	resultsCh chan taskResult
	errs      error
}

func (s *Scheduler) newRunState(ctx context.Context, parallelism int) *runState {
	ids := s.graph.Order()
	inDegree := make(map[string]int, len(ids))
	var ready []string
	for _, id := range ids {
		deg := len(s.graph.Dependencies(id))
		inDegree[id] = deg
		if deg == 0 {
			ready = append(ready, id)
		}
	}
	return &runState{
		s:           s,
		ctx:         ctx,
		parallelism: parallelism,
		inDegree:    inDegree,
		ready:       ready,
		resultsCh:   make(chan taskResult, parallelism),
	}
}

func (state *runState) isDone() bool {
	return state.active == 0 && len(state.ready) == 0
}

func (state *runState) schedule() {
	for len(state.ready) > 0 && state.active < state.parallelism && state.ctx.Err() == nil {
		id := state.ready[0]
		state.ready = state.ready[1:]
		state.active++
		state.s.setStatus(id, domain.StatusRunning)

		go func(id string) {
			state.resultsCh <- taskResult{id: id, result: state.s.runTask(state.ctx, id)}
		}(id)
	}
}

func (state *runState) handleResult(tr taskResult) {
	state.active--
	state.s.setResult(tr.id, tr.result)

	if tr.result.Status == domain.StatusFailed {
		wrapped := zerr.With(zerr.Wrap(tr.result.Err, "plugin task failed"), "id", tr.id)
		state.errs = errors.Join(state.errs, wrapped)
		state.skipDependents(tr.id)
		return
	}

	for _, dep := range state.s.graph.Dependents(tr.id) {
		if _, pending := state.inDegree[dep]; !pending {
			continue
		}
		state.inDegree[dep]--
		if state.inDegree[dep] == 0 {
			delete(state.inDegree, dep)
			state.ready = append(state.ready, dep)
		}
	}
}

// skipDependents marks every transitive dependent of cause as
// Skipped(cause), without waiting for their other
// predecessors: one failed predecessor is enough to abandon the task.
func (state *runState) skipDependents(cause string) {
	queue := append([]string(nil), state.s.graph.Dependents(cause)...)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		if state.s.Status(id).IsTerminal() {
			continue
		}
		delete(state.inDegree, id)

		skipErr := zerr.With(zerr.Wrap(domain.ErrSkipped, "predecessor failed"), "cause", cause)
		state.s.setResult(id, Result{Status: domain.StatusSkipped, Err: skipErr})

		queue = append(queue, state.s.graph.Dependents(id)...)
	}
}

func (s *Scheduler) setStatus(id string, status domain.TaskStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[id] = status
}

func (s *Scheduler) setResult(id string, r Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[id] = r.Status
	s.results[id] = r
}
