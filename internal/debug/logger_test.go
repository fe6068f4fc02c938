package debug

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	t.Cleanup(func() { _ = Init("", nil) })

	t.Run("writes structured events at enabled level", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Init("debug", &buf))
		assert.True(t, Enabled())

		l := With("lifecycle")
		l.Debug().Str("task", "writeFiles").Msg("running task")

		var event map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &event))
		assert.Equal(t, "debug", event["level"])
		assert.Equal(t, "lifecycle", event["component"])
		assert.Equal(t, "writeFiles", event["task"])
		assert.Equal(t, "running task", event["message"])
	})

	t.Run("filters events below level", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Init("error", &buf))
		assert.False(t, Enabled())

		Info().Msg("hidden")
		Warn().Msg("hidden too")
		assert.Empty(t, buf.String())

		Error().Msg("shown")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		assert.Error(t, Init("verbose", nil))
	})
}
