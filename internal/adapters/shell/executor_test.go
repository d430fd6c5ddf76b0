package shell_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.rsplug.dev/rsplug/internal/adapters/shell"
	"go.rsplug.dev/rsplug/internal/adapters/telemetry"
	"go.rsplug.dev/rsplug/internal/core/domain"
	"go.rsplug.dev/rsplug/internal/core/ports"
)

func newVertex(t *testing.T) ports.Vertex {
	t.Helper()
	tel := telemetry.New()
	_, v := tel.Record(context.Background(), "test")
	return v
}

func TestExecutor_RunSucceeds(t *testing.T) {
	exec := shell.New()
	err := exec.Run(context.Background(), []string{"true"}, t.TempDir(), newVertex(t))
	require.NoError(t, err)
}

func TestExecutor_RunFailureMapsToBuildFailed(t *testing.T) {
	exec := shell.New()
	err := exec.Run(context.Background(), []string{"false"}, t.TempDir(), newVertex(t))
	assert.ErrorIs(t, err, domain.ErrBuildFailed)
}

func TestExecutor_EmptyArgvIsNoOp(t *testing.T) {
	exec := shell.New()
	err := exec.Run(context.Background(), nil, t.TempDir(), newVertex(t))
	require.NoError(t, err)
}
