package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "app.jdl")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(file, []byte("entity A"), 0o644))

	var calls atomic.Int32
	w, err := NewWatcher([]string{file}, func(context.Context) error {
		calls.Add(1)
		return nil
	}, zerolog.Nop())
	require.NoError(t, err)
	w.Debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	assert.Equal(t, int32(1), calls.Load())

	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(file, []byte("entity A\nentity B"), 0o644))
	require.Eventually(t, func() bool { return calls.Load() == 2 }, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop(), "stop is idempotent")
}

func TestWatcher_InitialFailure(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app.jdl")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	boom := errors.New("boom")
	w, err := NewWatcher([]string{file}, func(context.Context) error { return boom }, zerolog.Nop())
	require.NoError(t, err)
	defer w.Stop()

	assert.ErrorIs(t, w.Start(context.Background()), boom)
}

func TestNewWatcher_MissingDirectory(t *testing.T) {
	_, err := NewWatcher([]string{filepath.Join(t.TempDir(), "missing", "app.jdl")}, nil, zerolog.Nop())
	assert.Error(t, err)
}
