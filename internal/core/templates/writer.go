package templates

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
)

// Store is the persistent side of a Writer.
type Store interface {
	Read(ctx context.Context, path string) ([]byte, error)
	Write(ctx context.Context, path string, content []byte) error
	Exists(ctx context.Context, path string) (bool, error)
}

// Status is the outcome of committing one file.
type Status string

const (
	StatusCreate    Status = "create"
	StatusIdentical Status = "identical"
	StatusForce     Status = "force"
	StatusConflict  Status = "conflict"
)

// Result reports what Commit did with a pending file. Diff is set for conflicts.
type Result struct {
	Path   string
	Status Status
	Diff   string
}

// Summary counts results by status.
func Summary(results []Result) map[Status]int {
	out := map[Status]int{}
	for _, r := range results {
		out[r.Status]++
	}
	return out
}

type pendingFile struct {
	content   []byte
	overwrite bool
}

// Writer holds generated files in memory until Commit. Reads see pending content first.
type Writer struct {
	store  Store
	force  bool
	dryRun bool
	logger zerolog.Logger

	mu      sync.Mutex
	pending map[string]*pendingFile
	order   []string
}

// WriterOptions control conflict handling.
type WriterOptions struct {
	// Force overwrites files that differ from the generated content.
	Force bool
	// DryRun computes results without touching the store.
	DryRun bool
}

// NewWriter creates a writer committing to store.
func NewWriter(store Store, opts WriterOptions, logger zerolog.Logger) *Writer {
	return &Writer{
		store:   store,
		force:   opts.Force,
		dryRun:  opts.DryRun,
		logger:  logger,
		pending: map[string]*pendingFile{},
	}
}

// Write stages content at path, replacing earlier pending content.
func (w *Writer) Write(path string, content []byte) {
	w.stage(path, content, false)
}

// Overwrite stages content that is always written on commit, such as tool owned
// configuration files.
func (w *Writer) Overwrite(path string, content []byte) {
	w.stage(path, content, true)
}

func (w *Writer) stage(path string, content []byte, overwrite bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.pending[path]; !ok {
		w.order = append(w.order, path)
	}
	w.pending[path] = &pendingFile{content: append([]byte(nil), content...), overwrite: overwrite}
}

// Read returns the pending content of path, or the stored content.
func (w *Writer) Read(ctx context.Context, path string) ([]byte, error) {
	w.mu.Lock()
	p, ok := w.pending[path]
	w.mu.Unlock()
	if ok {
		return append([]byte(nil), p.content...), nil
	}
	return w.store.Read(ctx, path)
}

// Exists reports whether path is pending or stored.
func (w *Writer) Exists(ctx context.Context, path string) (bool, error) {
	w.mu.Lock()
	_, ok := w.pending[path]
	w.mu.Unlock()
	if ok {
		return true, nil
	}
	return w.store.Exists(ctx, path)
}

// Pending returns the staged paths in staging order.
func (w *Writer) Pending() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.order...)
}

// Discard drops every pending file.
func (w *Writer) Discard() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending = map[string]*pendingFile{}
	w.order = nil
}

// NeedleMarker returns the marker line text for name.
func NeedleMarker(name string) string {
	return "jhipster-needle-" + name
}

// Needle inserts content before the line holding the jhipster-needle-<marker> comment of path,
// with the indentation of that line. It returns false without error when the file or marker is
// missing, or when the content is already present. Edits of a file that is only stored are
// committed without a conflict check.
func (w *Writer) Needle(ctx context.Context, path, marker, content string) (bool, error) {
	exists, err := w.Exists(ctx, path)
	if err != nil {
		return false, err
	}
	if !exists {
		w.logger.Warn().Str("file", path).Str("needle", marker).Msg("needle target does not exist")
		return false, nil
	}
	src, err := w.Read(ctx, path)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	text := string(src)
	lines := strings.Split(text, "\n")
	needle := NeedleMarker(marker)
	for i, line := range lines {
		if !strings.Contains(line, needle) {
			continue
		}
		pad := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		var insert []string
		for _, l := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
			insert = append(insert, pad+l)
		}
		if strings.Contains(text, strings.Join(insert, "\n")) {
			return false, nil
		}
		out := append(append(append([]string{}, lines[:i]...), insert...), lines[i:]...)
		w.mu.Lock()
		p, pending := w.pending[path]
		w.mu.Unlock()
		w.stage(path, []byte(strings.Join(out, "\n")), !pending || p.overwrite)
		return true, nil
	}
	w.logger.Warn().Str("file", path).Str("needle", marker).Msg("needle not found")
	return false, nil
}

// Commit writes pending files to the store. New files are created and identical files are
// left alone; differing files are overwritten only with Force or when staged with Overwrite.
// Pending files are cleared even on error.
func (w *Writer) Commit(ctx context.Context) ([]Result, error) {
	w.mu.Lock()
	order, pending := w.order, w.pending
	w.order, w.pending = nil, map[string]*pendingFile{}
	w.mu.Unlock()

	results := make([]Result, 0, len(order))
	var errs []error
	for _, path := range order {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		file := pending[path]
		result, err := w.commitFile(ctx, path, file)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		w.logResult(result)
		results = append(results, result)
	}
	return results, errors.Join(errs...)
}

func (w *Writer) commitFile(ctx context.Context, path string, file *pendingFile) (Result, error) {
	result := Result{Path: path, Status: StatusCreate}
	exists, err := w.store.Exists(ctx, path)
	if err != nil {
		return result, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if exists {
		current, err := w.store.Read(ctx, path)
		if err != nil {
			return result, fmt.Errorf("failed to read %s: %w", path, err)
		}
		switch {
		case string(current) == string(file.content):
			result.Status = StatusIdentical
			return result, nil
		case w.force || file.overwrite:
			result.Status = StatusForce
		default:
			result.Status = StatusConflict
			result.Diff = cmp.Diff(strings.Split(string(current), "\n"), strings.Split(string(file.content), "\n"))
			return result, nil
		}
	}
	if w.dryRun {
		return result, nil
	}
	if err := w.store.Write(ctx, path, file.content); err != nil {
		return result, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return result, nil
}

func (w *Writer) logResult(r Result) {
	switch r.Status {
	case StatusConflict:
		w.logger.Warn().Str("file", r.Path).Msg("conflict, file skipped (use --force to overwrite)")
		w.logger.Debug().Str("file", r.Path).Msg(r.Diff)
	default:
		w.logger.Debug().Str("file", r.Path).Str("status", string(r.Status)).Bool("dryRun", w.dryRun).Msg("commit")
	}
}
