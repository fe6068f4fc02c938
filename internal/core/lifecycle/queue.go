package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type queuedTask struct {
	owner string
	phase Phase
	task  Task
}

// Stats counts what happened to queued tasks.
type Stats struct {
	Ran     int
	Skipped int
}

// Queue holds one FIFO per phase. Run always picks the first task of the earliest phase that
// still has pending tasks, so work queued for an earlier phase runs before the current phase
// continues.
type Queue struct {
	mu       sync.Mutex
	pending  [numPhases][]queuedTask
	aborted  bool
	reason   error
	running  bool
	current  Phase
	stats    Stats
	logger   zerolog.Logger
	listener func(owner string, phase Phase, task string)
}

// NewQueue creates an empty queue logging through logger.
func NewQueue(logger zerolog.Logger) *Queue {
	return &Queue{logger: logger}
}

// OnTask registers a callback invoked before each task runs.
func (q *Queue) OnTask(fn func(owner string, phase Phase, task string)) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.listener = fn
}

// Enqueue appends the tasks of group to the queue of phase, keeping their order.
func (q *Queue) Enqueue(owner string, phase Phase, group TaskGroup) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, task := range group {
		q.pending[phase] = append(q.pending[phase], queuedTask{owner: owner, phase: phase, task: task})
	}
}

// EnqueuePriorities enqueues every phase of p.
func (q *Queue) EnqueuePriorities(owner string, p Priorities) {
	for _, phase := range p.Phases() {
		q.Enqueue(owner, phase, p[phase])
	}
}

// Pending returns the number of tasks still queued.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := 0
	for _, tasks := range q.pending {
		n += len(tasks)
	}
	return n
}

// Current returns the phase of the task being run.
func (q *Queue) Current() (Phase, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.current, q.running
}

// Abort stops the run after the current task. A nil reason aborts with ErrAborted.
func (q *Queue) Abort(reason error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.aborted {
		return
	}
	q.aborted = true
	q.reason = reason
}

// Aborted reports whether Abort was called or a task failed.
func (q *Queue) Aborted() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.aborted
}

// Stats returns the counters of the queue.
func (q *Queue) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.stats
}

// Run executes queued tasks one at a time until the queue is empty, a task fails, ctx is
// cancelled or the queue is aborted. Remaining tasks are then skipped.
func (q *Queue) Run(ctx context.Context) error {
	for {
		if q.Aborted() {
			break
		}
		if err := ctx.Err(); err != nil {
			q.Abort(err)
			break
		}

		next, ok := q.next()
		if !ok {
			break
		}

		if err := q.runTask(ctx, next); err != nil {
			q.Abort(err)
			break
		}
	}

	q.skipRemaining()
	return q.err()
}

func (q *Queue) next() (queuedTask, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for phase := range q.pending {
		if len(q.pending[phase]) == 0 {
			continue
		}
		task := q.pending[phase][0]
		q.pending[phase] = q.pending[phase][1:]
		q.current = task.phase
		q.running = true
		return task, true
	}
	q.running = false
	return queuedTask{}, false
}

func (q *Queue) runTask(ctx context.Context, qt queuedTask) error {
	log := q.logger.With().
		Str("generator", qt.owner).
		Str("phase", qt.phase.String()).
		Str("task", qt.task.Name).
		Logger()

	q.mu.Lock()
	listener := q.listener
	q.mu.Unlock()
	if listener != nil {
		listener(qt.owner, qt.phase, qt.task.Name)
	}

	log.Debug().Msg("task started")
	start := time.Now()

	var err error
	if qt.task.Run != nil {
		err = qt.task.Run(ctx)
	}

	q.mu.Lock()
	q.stats.Ran++
	q.mu.Unlock()

	if err != nil {
		log.Error().Err(err).Msg("task failed")
		return &TaskError{Generator: qt.owner, Phase: qt.phase, Task: qt.task.Name, Err: err}
	}
	log.Debug().Dur("duration", time.Since(start)).Msg("task finished")
	return nil
}

func (q *Queue) skipRemaining() {
	q.mu.Lock()
	defer q.mu.Unlock()

	for phase := range q.pending {
		if n := len(q.pending[phase]); n > 0 {
			q.stats.Skipped += n
			if q.aborted {
				q.logger.Debug().Str("phase", Phase(phase).String()).Int("count", n).Msg("skipping tasks")
			}
			q.pending[phase] = nil
		}
	}
	q.running = false
}

func (q *Queue) err() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.aborted {
		return nil
	}
	var taskErr *TaskError
	switch {
	case q.reason == nil:
		return ErrAborted
	case errors.As(q.reason, &taskErr), errors.Is(q.reason, ErrAborted):
		return q.reason
	default:
		return fmt.Errorf("%w: %w", ErrAborted, q.reason)
	}
}
