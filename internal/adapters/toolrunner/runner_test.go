package toolrunner

import (
	"bytes"
	"context"
	"errors"
	"runtime"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
	var out bytes.Buffer
	r := New(zerolog.Nop())
	r.Stdout = &out

	_, err := r.LookPath("sh")
	require.NoError(t, err)

	require.NoError(t, r.Run(context.Background(), t.TempDir(), "sh", "-c", "echo hello"))
	assert.Equal(t, "hello\n", out.String())

	err = r.Run(context.Background(), "", "sh", "-c", "exit 3")
	assert.Error(t, err)

	_, err = r.LookPath("definitely-not-a-tool-jhipster")
	assert.ErrorIs(t, err, ErrNotFound)

	err = r.Run(context.Background(), "", "definitely-not-a-tool-jhipster")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecorder(t *testing.T) {
	boom := errors.New("boom")
	r := &Recorder{Missing: map[string]bool{"npm": true}, Errors: map[string]error{"git commit": boom}}

	_, err := r.LookPath("npm")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = r.LookPath("git")
	assert.NoError(t, err)

	assert.NoError(t, r.Run(context.Background(), "/tmp", "git", "init"))
	assert.ErrorIs(t, r.Run(context.Background(), "/tmp", "git", "commit"), boom)
	assert.Equal(t, []string{"git init", "git commit"}, r.Calls())
}
