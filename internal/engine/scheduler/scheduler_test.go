package scheduler_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.rsplug.dev/rsplug/internal/core/domain"
	"go.rsplug.dev/rsplug/internal/core/ports"
	"go.rsplug.dev/rsplug/internal/engine/scheduler"
)

type fakeRepoCache struct {
	mu      sync.Mutex
	order   []string
	dirs    map[string]string
	failIDs map[string]bool
}

func (f *fakeRepoCache) Sync(_ context.Context, plugin domain.PluginSpec, _ ports.SyncMode, _ *domain.LockEntry, _ ports.Vertex) (ports.RepoSyncResult, error) {
	f.mu.Lock()
	f.order = append(f.order, plugin.ID)
	f.mu.Unlock()

	if f.failIDs[plugin.ID] {
		return ports.RepoSyncResult{}, errors.New("sync failed")
	}
	dir := f.dirs[plugin.ID]
	if dir == "" {
		dir = os.TempDir()
	}
	return ports.RepoSyncResult{Dir: dir, ResolvedSHA: "deadbeef", RefType: "default"}, nil
}

type fakeHasher struct{}

func (fakeHasher) InputHash(string, string, []string) (string, error) { return "hash", nil }

type fakeBuildCache struct {
	mu   sync.Mutex
	done map[string]bool
}

func (f *fakeBuildCache) Has(hash string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.done[hash], nil
}

func (f *fakeBuildCache) Dir(hash string) (string, error) {
	return filepath.Join(os.TempDir(), "rsplug-test-build-"+hash), nil
}

func (f *fakeBuildCache) MarkDone(hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.done == nil {
		f.done = make(map[string]bool)
	}
	f.done[hash] = true
	return nil
}

type fakeExecutor struct{ ran int }

func (f *fakeExecutor) Run(context.Context, []string, string, ports.Vertex) error {
	f.ran++
	return nil
}

type noopVertex struct{}

func (noopVertex) Write(p []byte) (int, error) { return len(p), nil }
func (noopVertex) Stdout() io.Writer           { return io.Discard }
func (noopVertex) Stderr() io.Writer           { return io.Discard }
func (noopVertex) Stage(domain.Stage, string)  {}
func (noopVertex) Log(domain.LogLevel, string) {}
func (noopVertex) Complete(error)              {}
func (noopVertex) Cached()                     {}

type noopTelemetry struct{}

func (noopTelemetry) Record(ctx context.Context, _ string) (context.Context, ports.Vertex) {
	return ctx, noopVertex{}
}
func (noopTelemetry) Close() error { return nil }

func buildGraph(t *testing.T, specs ...domain.PluginSpec) *domain.Graph {
	t.Helper()
	g, err := domain.BuildGraph(specs)
	require.NoError(t, err)
	return g
}

func TestScheduler_RunsIndependentPluginsToCompletion(t *testing.T) {
	a := domain.PluginSpec{ID: "a"}
	b := domain.PluginSpec{ID: "b"}
	graph := buildGraph(t, a, b)

	repos := &fakeRepoCache{dirs: map[string]string{}}
	s := scheduler.New(graph, domain.NewLockfile(), ports.SyncMode{Install: true}, scheduler.Deps{
		Repos:     repos,
		Hasher:    fakeHasher{},
		Builds:    &fakeBuildCache{},
		Executor:  &fakeExecutor{},
		Telemetry: noopTelemetry{},
	})

	results, err := s.Run(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, results["a"].Status)
	assert.Equal(t, domain.StatusCompleted, results["b"].Status)
}

func TestScheduler_FailurePropagatesSkipToDependents(t *testing.T) {
	a := domain.PluginSpec{ID: "a"}
	b := domain.PluginSpec{ID: "b", With: []string{"a"}}
	c := domain.PluginSpec{ID: "c", With: []string{"b"}}
	graph := buildGraph(t, a, b, c)

	repos := &fakeRepoCache{failIDs: map[string]bool{"a": true}}
	s := scheduler.New(graph, domain.NewLockfile(), ports.SyncMode{Install: true}, scheduler.Deps{
		Repos:     repos,
		Hasher:    fakeHasher{},
		Builds:    &fakeBuildCache{},
		Executor:  &fakeExecutor{},
		Telemetry: noopTelemetry{},
	})

	_, err := s.Run(context.Background(), 4)
	require.Error(t, err)
	assert.Equal(t, domain.StatusFailed, s.Status("a"))
	assert.Equal(t, domain.StatusSkipped, s.Status("b"))
	assert.Equal(t, domain.StatusSkipped, s.Status("c"))
}

func TestScheduler_DerivesRequireModulesFromCheckout(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "lua", "telescope"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lua", "extra.lua"), []byte("return {}"), 0o644))

	a := domain.PluginSpec{ID: "a"}
	graph := buildGraph(t, a)

	repos := &fakeRepoCache{dirs: map[string]string{"a": dir}}
	s := scheduler.New(graph, domain.NewLockfile(), ports.SyncMode{Install: true}, scheduler.Deps{
		Repos:     repos,
		Hasher:    fakeHasher{},
		Builds:    &fakeBuildCache{},
		Executor:  &fakeExecutor{},
		Telemetry: noopTelemetry{},
	})

	_, err := s.Run(context.Background(), 4)
	require.NoError(t, err)

	spec, ok := graph.Get("a")
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"telescope", "extra"}, spec.Triggers.RequireModules)
}

func TestScheduler_BuildCacheHitSkipsExecutor(t *testing.T) {
	dir := t.TempDir()
	a := domain.PluginSpec{ID: "a", Build: []string{"make"}}
	graph := buildGraph(t, a)

	builds := &fakeBuildCache{done: map[string]bool{"hash": true}}
	executor := &fakeExecutor{}
	repos := &fakeRepoCache{dirs: map[string]string{"a": dir}}
	s := scheduler.New(graph, domain.NewLockfile(), ports.SyncMode{Install: true}, scheduler.Deps{
		Repos:     repos,
		Hasher:    fakeHasher{},
		Builds:    builds,
		Executor:  executor,
		Telemetry: noopTelemetry{},
	})

	results, err := s.Run(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCached, results["a"].Status)
	assert.Equal(t, 0, executor.ran)
}
