package lifecycle

import (
	"context"
	"errors"
	"fmt"
)

// ErrAborted is returned by Queue.Run when the run was aborted.
var ErrAborted = errors.New("run aborted")

// Task is a named unit of work of a phase.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// NewTask creates a task.
func NewTask(name string, run func(ctx context.Context) error) Task {
	return Task{Name: name, Run: run}
}

// TaskGroup is an ordered list of tasks.
type TaskGroup []Task

// Group builds a task group.
func Group(tasks ...Task) TaskGroup {
	return TaskGroup(tasks)
}

// Names returns the task names in order.
func (g TaskGroup) Names() []string {
	names := make([]string, len(g))
	for i, t := range g {
		names[i] = t.Name
	}
	return names
}

// TaskError reports which task of which generator failed.
type TaskError struct {
	Generator string
	Phase     Phase
	Task      string
	Err       error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("%s: %s task %q failed: %v", e.Generator, e.Phase, e.Task, e.Err)
}

func (e *TaskError) Unwrap() error {
	return e.Err
}
