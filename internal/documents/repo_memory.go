package documents

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.Mutex
	data map[string]Document
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string]Document),
	}
}

// Create stores a new document record.
func (r *MemoryRepo) Create(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[doc.ID] = doc
	return nil
}

// GetByID returns a document record by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.data[id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return doc, nil
}

// BeginProcessing performs the check-then-set to processing under the lock.
func (r *MemoryRepo) BeginProcessing(ctx context.Context, id string) (Document, bool, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.data[id]
	if !ok {
		return Document{}, false, ErrNotFound
	}
	switch doc.Status {
	case StatusProcessing:
		return Document{}, false, ErrConflict
	case StatusAnalyzed:
		return doc, false, nil
	}

	doc.Status = StatusProcessing
	doc.UpdatedAt = time.Now().UTC()
	r.data[id] = doc
	return doc, true, nil
}

// MarkAnalyzed writes result fields and the analyzed status together.
func (r *MemoryRepo) MarkAnalyzed(ctx context.Context, id, summary, docType string, metadata map[string]any) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.data[id]
	if !ok {
		return Document{}, ErrNotFound
	}
	if doc.Status != StatusProcessing {
		return Document{}, ErrInvalidTransition
	}

	doc.Summary = summary
	doc.DocType = docType
	doc.Metadata = metadata
	doc.Status = StatusAnalyzed
	doc.UpdatedAt = time.Now().UTC()
	r.data[id] = doc
	return doc, nil
}

// MarkFailed moves a processing record to failed.
func (r *MemoryRepo) MarkFailed(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.data[id]
	if !ok {
		return ErrNotFound
	}
	if doc.Status != StatusProcessing {
		return ErrInvalidTransition
	}

	doc.Status = StatusFailed
	doc.UpdatedAt = time.Now().UTC()
	r.data[id] = doc
	return nil
}
