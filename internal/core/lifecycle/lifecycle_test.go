package lifecycle

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(log *[]string, name string) Task {
	return NewTask(name, func(ctx context.Context) error {
		*log = append(*log, name)
		return nil
	})
}

func TestPhases(t *testing.T) {
	names := make([]string, 0)
	for _, p := range Phases() {
		names = append(names, p.String())
	}
	assert.Equal(t, []string{
		"initializing", "prompting", "configuring", "composing", "loading", "preparing",
		"default", "writing", "postWriting", "conflicts", "install", "end",
	}, names)

	p, err := ParsePhase("postWriting")
	require.NoError(t, err)
	assert.Equal(t, PostWriting, p)

	_, err = ParsePhase("render")
	assert.Error(t, err)
	assert.Equal(t, "Phase(42)", Phase(42).String())
}

func TestPriorities(t *testing.T) {
	p := Priorities{End: Group(), Writing: Group(), Initializing: Group()}
	assert.Equal(t, []Phase{Initializing, Writing, End}, p.Phases())

	var log []string
	p[Writing] = Group(record(&log, "a"))
	clone := p.Clone()
	clone[Writing] = append(clone[Writing], record(&log, "b"))
	assert.Len(t, p[Writing], 1)
}

func TestQueue_RunsPhasesInOrder(t *testing.T) {
	var log []string
	q := NewQueue(zerolog.Nop())

	q.EnqueuePriorities("app", Priorities{
		End:          Group(record(&log, "app:end")),
		Writing:      Group(record(&log, "app:write1"), record(&log, "app:write2")),
		Initializing: Group(record(&log, "app:init")),
	})
	q.EnqueuePriorities("server", Priorities{
		Writing:      Group(record(&log, "server:write")),
		Initializing: Group(record(&log, "server:init")),
	})

	require.NoError(t, q.Run(context.Background()))
	assert.Equal(t, []string{"app:init", "server:init", "app:write1", "app:write2", "server:write", "app:end"}, log)
	assert.Equal(t, Stats{Ran: 6}, q.Stats())
}

func TestQueue_EarlierPhaseQueuedLaterRunsNext(t *testing.T) {
	var log []string
	q := NewQueue(zerolog.Nop())

	q.Enqueue("app", Composing, Group(NewTask("compose", func(ctx context.Context) error {
		log = append(log, "app:compose")
		q.EnqueuePriorities("client", Priorities{
			Initializing: Group(record(&log, "client:init")),
			Writing:      Group(record(&log, "client:write")),
		})
		return nil
	})))
	q.Enqueue("app", Loading, Group(record(&log, "app:load")))
	q.Enqueue("app", Writing, Group(record(&log, "app:write")))

	require.NoError(t, q.Run(context.Background()))
	assert.Equal(t, []string{"app:compose", "client:init", "app:load", "app:write", "client:write"}, log)
}

func TestQueue_FailureSkipsRemaining(t *testing.T) {
	var log []string
	boom := errors.New("boom")
	q := NewQueue(zerolog.Nop())

	q.Enqueue("app", Writing, Group(
		record(&log, "first"),
		NewTask("explode", func(ctx context.Context) error { return boom }),
		record(&log, "never"),
	))
	q.Enqueue("app", End, Group(record(&log, "never-end")))

	err := q.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	var taskErr *TaskError
	require.ErrorAs(t, err, &taskErr)
	assert.Equal(t, "app", taskErr.Generator)
	assert.Equal(t, Writing, taskErr.Phase)
	assert.Equal(t, "explode", taskErr.Task)

	assert.Equal(t, []string{"first"}, log)
	assert.True(t, q.Aborted())
	assert.Equal(t, Stats{Ran: 2, Skipped: 2}, q.Stats())
	assert.Zero(t, q.Pending())
}

func TestQueue_Abort(t *testing.T) {
	t.Run("from a task", func(t *testing.T) {
		var log []string
		q := NewQueue(zerolog.Nop())
		reason := errors.New("missing tool")
		q.Enqueue("app", Install, Group(
			NewTask("check", func(ctx context.Context) error {
				q.Abort(reason)
				return nil
			}),
			record(&log, "install"),
		))

		err := q.Run(context.Background())
		assert.ErrorIs(t, err, ErrAborted)
		assert.ErrorIs(t, err, reason)
		assert.Empty(t, log)
	})

	t.Run("without reason", func(t *testing.T) {
		q := NewQueue(zerolog.Nop())
		q.Abort(nil)
		q.Enqueue("app", End, Group(NewTask("end", nil)))
		assert.Equal(t, ErrAborted, q.Run(context.Background()))
		assert.Equal(t, 1, q.Stats().Skipped)
	})

	t.Run("cancelled context", func(t *testing.T) {
		var log []string
		ctx, cancel := context.WithCancel(context.Background())
		q := NewQueue(zerolog.Nop())
		q.Enqueue("app", Writing, Group(
			NewTask("cancel", func(ctx context.Context) error {
				cancel()
				return nil
			}),
			record(&log, "after"),
		))

		err := q.Run(ctx)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, log)
	})
}

func TestQueue_OnTask(t *testing.T) {
	var seen []string
	q := NewQueue(zerolog.Nop())
	q.OnTask(func(owner string, phase Phase, task string) {
		seen = append(seen, owner+"/"+phase.String()+"/"+task)
	})
	q.Enqueue("entity", Writing, Group(NewTask("writeFiles", nil)))

	require.NoError(t, q.Run(context.Background()))
	assert.Equal(t, []string{"entity/writing/writeFiles"}, seen)
}
