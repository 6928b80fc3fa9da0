package documents

import "context"

// Repo defines persistence operations for document records. The repo owns
// all status writes; callers request transitions and never mutate fields
// directly.
type Repo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, id string) (Document, error)

	// BeginProcessing attempts the transition to processing. It reports
	// whether the transition happened: an analyzed record is returned
	// unchanged with transitioned=false (idempotent read), a record already
	// processing yields ErrConflict, and uploaded/failed records transition.
	// The check-and-set is atomic per call.
	BeginProcessing(ctx context.Context, id string) (doc Document, transitioned bool, err error)

	// MarkAnalyzed writes the analysis result and the analyzed status
	// atomically. Only valid from processing.
	MarkAnalyzed(ctx context.Context, id, summary, docType string, metadata map[string]any) (Document, error)

	// MarkFailed moves a processing record to failed. The failure cause is
	// logged by the caller, never persisted.
	MarkFailed(ctx context.Context, id string) error
}
