// Package document tracks the markdown files open in a session. Each
// document owns its own sync state, so switching between documents keeps
// every document's mappings and scroll positions intact.
package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/zjrosen/twinscroll/internal/log"
	"github.com/zjrosen/twinscroll/internal/markdown"
	"github.com/zjrosen/twinscroll/internal/syncscroll"
)

// ErrIsDirectory is returned when a directory is opened as a document.
var ErrIsDirectory = errors.New("path is a directory")

// Document is one open markdown file.
type Document struct {
	ID      uuid.UUID
	Path    string
	Source  string
	ModTime time.Time
	Layout  *markdown.Layout
	Sync    *syncscroll.State
}

// Open reads path and creates a document with a fresh sync state.
func Open(path string, opts ...syncscroll.Option) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}

	d := &Document{
		ID:   uuid.New(),
		Path: abs,
		Sync: syncscroll.New(opts...),
	}
	if _, err := d.Reload(); err != nil {
		return nil, err
	}

	log.Info(log.CatDoc, "Opened document", "id", d.ID, "path", d.Path, "bytes", len(d.Source))
	return d, nil
}

// Name returns the file's base name.
func (d *Document) Name() string {
	return filepath.Base(d.Path)
}

// Reload re-reads the file. Reports whether the source changed.
func (d *Document) Reload() (bool, error) {
	info, err := os.Stat(d.Path)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", d.Path, err)
	}
	if info.IsDir() {
		return false, fmt.Errorf("reading %s: %w", d.Path, ErrIsDirectory)
	}

	data, err := os.ReadFile(d.Path)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", d.Path, err)
	}

	d.ModTime = info.ModTime()
	src := string(data)
	if src == d.Source && d.Layout != nil {
		return false, nil
	}
	d.Source = src
	log.Debug(log.CatDoc, "Reloaded document", "id", d.ID, "bytes", len(src))
	return true, nil
}

// ApplyLayout installs a new rendered layout. Existing mappings and any
// in-flight animation belong to the previous layout and are dropped.
func (d *Document) ApplyLayout(layout *markdown.Layout) {
	d.Layout = layout
	d.Sync.ClearAnimation()
	d.Sync.ClearMappings()
	if layout == nil {
		return
	}
	d.Sync.BuildMappingsFromBlocks(layout.Mappings)
	d.Sync.SetSourceMetadata(layout.LineCount, layout.TotalHeight)
}

// SourceLines returns the raw source split into lines, without a phantom
// empty line after a trailing newline.
func (d *Document) SourceLines() []string {
	if d.Source == "" {
		return nil
	}
	return splitLines(d.Source)
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			end := i
			if end > start && s[end-1] == '\r' {
				end--
			}
			lines = append(lines, s[start:end])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
