package document

import (
	"errors"
	"path/filepath"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/zjrosen/twinscroll/internal/log"
	"github.com/zjrosen/twinscroll/internal/syncscroll"
)

// Registry errors
var (
	ErrNotFound = errors.New("document not found")
)

// Registry holds open documents in the order they were opened.
type Registry struct {
	mu       sync.RWMutex
	docs     []*Document
	opts     []syncscroll.Option
	disabled bool
}

// NewRegistry creates an empty registry. opts are applied to the sync
// state of every document it opens.
func NewRegistry(opts ...syncscroll.Option) *Registry {
	return &Registry{opts: opts}
}

// Open opens path, or returns the existing document if it is already open.
func (r *Registry) Open(path string) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err == nil {
		r.mu.RLock()
		for _, d := range r.docs {
			if d.Path == abs {
				r.mu.RUnlock()
				return d, nil
			}
		}
		r.mu.RUnlock()
	}

	d, err := Open(path, r.opts...)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	d.Sync.SetEnabled(!r.disabled)
	r.docs = append(r.docs, d)
	r.mu.Unlock()
	return d, nil
}

// Get returns the document with the given id.
func (r *Registry) Get(id uuid.UUID) (*Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, d := range r.docs {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, ErrNotFound
}

// At returns the document at index i in open order.
func (r *Registry) At(i int) (*Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i < 0 || i >= len(r.docs) {
		return nil, ErrNotFound
	}
	return r.docs[i], nil
}

// Close removes a document and releases its sync state.
func (r *Registry) Close(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := slices.IndexFunc(r.docs, func(d *Document) bool { return d.ID == id })
	if i < 0 {
		return ErrNotFound
	}
	d := r.docs[i]
	d.Sync.ClearAnimation()
	d.Sync.ClearMappings()
	r.docs = slices.Delete(r.docs, i, i+1)

	log.Info(log.CatDoc, "Closed document", "id", id, "path", d.Path)
	return nil
}

// Len returns the number of open documents.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.docs)
}

// IDs returns document ids in open order.
func (r *Registry) IDs() []uuid.UUID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]uuid.UUID, 0, len(r.docs))
	for _, d := range r.docs {
		ids = append(ids, d.ID)
	}
	return ids
}

// List returns the open documents in open order.
func (r *Registry) List() []*Document {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.docs)
}

// SetSyncEnabled toggles synchronized scrolling on every open document and
// on documents opened later.
func (r *Registry) SetSyncEnabled(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.disabled = !enabled
	for _, d := range r.docs {
		d.Sync.SetEnabled(enabled)
	}
}
