package templates

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/jhipster/jhipster-go/internal/core/derive"
)

// File is one template of a block. RenameTo is a destination path template relative to the
// block's To directory; when empty the source name without its suffix is used.
type File struct {
	Source   string
	RenameTo string
}

// Files builds files that keep their source names.
func Files(sources ...string) []File {
	out := make([]File, len(sources))
	for i, s := range sources {
		out[i] = File{Source: s}
	}
	return out
}

// Block is a group of templates sharing a condition and source/destination directories.
type Block struct {
	Condition func(derive.Data) bool
	From      string
	To        string
	Templates []File
}

// Section names a list of blocks.
type Section struct {
	Name   string
	Blocks []Block
}

// When returns a condition that holds when every key is truthy in the data.
func When(keys ...string) func(derive.Data) bool {
	return func(d derive.Data) bool {
		for _, key := range keys {
			if !d.Bool(key) {
				return false
			}
		}
		return true
	}
}

// Unless returns a condition that holds when no key is truthy in the data.
func Unless(keys ...string) func(derive.Data) bool {
	return func(d derive.Data) bool {
		for _, key := range keys {
			if d.Bool(key) {
				return false
			}
		}
		return true
	}
}

// WriteFiles renders the templates of every block whose condition holds and stages them in w.
// It returns the destination paths in rendering order.
func (e *Engine) WriteFiles(ctx context.Context, w *Writer, sections []Section, data derive.Data) ([]string, error) {
	var written []string
	for _, section := range sections {
		for i, block := range section.Blocks {
			if block.Condition != nil && !block.Condition(data) {
				continue
			}
			to, err := e.RenderString(block.To, data)
			if err != nil {
				return written, fmt.Errorf("section %s block %d: %w", section.Name, i, err)
			}
			for _, file := range block.Templates {
				if err := ctx.Err(); err != nil {
					return written, err
				}
				dest, err := e.destination(file, to, data)
				if err != nil {
					return written, fmt.Errorf("section %s: %w", section.Name, err)
				}
				content, err := e.Render(path.Join(block.From, file.Source), data)
				if err != nil {
					return written, fmt.Errorf("section %s: %w", section.Name, err)
				}
				w.Write(dest, content)
				written = append(written, dest)
			}
		}
	}
	return written, nil
}

func (e *Engine) destination(file File, to string, data derive.Data) (string, error) {
	name := file.RenameTo
	if name == "" {
		name = strings.TrimSuffix(file.Source, Suffix)
	}
	name, err := e.RenderString(name, data)
	if err != nil {
		return "", err
	}
	return path.Join(to, name), nil
}
