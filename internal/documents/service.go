package documents

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"docanalyzer-backend/internal/extract"
	"docanalyzer-backend/internal/shared/storage/object"
	"docanalyzer-backend/internal/shared/telemetry"
)

// Service contains business logic for document records.
type Service struct {
	Store          object.ObjectStore
	Repo           Repo
	MaxUploadBytes int64
}

// Upload validates the payload, stores a uniquely-named copy, extracts its
// text and creates a record in uploaded. On extraction failure the stored
// copy is deleted and no record is created.
func (s *Service) Upload(ctx context.Context, fileName, declaredMime string, data []byte) (Document, error) {
	if fileName == "" || len(data) == 0 {
		return Document{}, ErrInvalidInput
	}
	if s.MaxUploadBytes > 0 && int64(len(data)) > s.MaxUploadBytes {
		return Document{}, fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidInput, s.MaxUploadBytes)
	}
	if !extract.SupportedExtension(fileName) {
		return Document{}, extract.ErrUnsupportedType
	}

	storageKey, size, detectedMime, err := s.Store.Save(ctx, fileName, bytes.NewReader(data))
	if err != nil {
		return Document{}, fmt.Errorf("store upload: %w", err)
	}

	text, err := extract.Extract(data, fileName, declaredMime)
	if err != nil {
		s.deleteStored(ctx, storageKey)
		return Document{}, err
	}

	mimeType := declaredMime
	if mimeType == "" {
		mimeType = detectedMime
	}

	doc := Document{
		ID:            uuid.NewString(),
		OriginalName:  fileName,
		MimeType:      mimeType,
		SizeBytes:     size,
		StorageKey:    storageKey,
		ExtractedText: text,
		Status:        StatusUploaded,
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		s.deleteStored(ctx, storageKey)
		return Document{}, fmt.Errorf("create record: %w", err)
	}

	return doc, nil
}

// Get returns the current record state, including raw extracted text.
func (s *Service) Get(ctx context.Context, id string) (Document, error) {
	if id == "" {
		return Document{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, id)
}

// deleteStored removes an orphaned stored file. Failures are logged, not fatal.
func (s *Service) deleteStored(ctx context.Context, storageKey string) {
	if err := s.Store.Delete(ctx, storageKey); err != nil {
		telemetry.Error("storage.delete.failed", map[string]any{
			"storage_key": storageKey,
			"error":       err.Error(),
		})
	}
}
