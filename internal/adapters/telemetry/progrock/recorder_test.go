package progrock_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.rsplug.dev/rsplug/internal/adapters/telemetry/progrock"
	"go.rsplug.dev/rsplug/internal/core/domain"
)

func TestRecorder_Integration(t *testing.T) {
	rec := progrock.New()

	ctx, vertex := rec.Record(context.Background(), "alpha")
	require.NotNil(t, ctx)

	_, err := vertex.Stdout().Write([]byte("cloning\n"))
	require.NoError(t, err)

	vertex.Stage(domain.StageFetch, "origin")
	vertex.Log(domain.LogLevelDebug, "debug msg")
	vertex.Cached()
	vertex.Complete(nil)

	require.NoError(t, rec.Close())
}
