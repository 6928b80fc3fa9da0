package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const documentColumns = `id, original_name, mime_type, size_bytes, storage_key, extracted_text, summary, doc_type, metadata, status, created_at, updated_at`

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new document record.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (
	id, original_name, mime_type, size_bytes, storage_key, extracted_text,
	summary, doc_type, metadata, status, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, NULL, NULL, NULL, $7, $8, $8)`

	status := doc.Status
	if status == "" {
		status = StatusUploaded
	}
	createdAt := doc.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.OriginalName,
		doc.MimeType,
		doc.SizeBytes,
		doc.StorageKey,
		doc.ExtractedText,
		status,
		createdAt,
	)
	return err
}

// GetByID returns a document record by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	doc, err := scanDocument(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

// BeginProcessing performs a compare-and-set to processing: the conditional
// UPDATE only matches uploaded or failed records, so two concurrent callers
// can never both transition the same record.
func (r *PGRepo) BeginProcessing(ctx context.Context, id string) (Document, bool, error) {
	query := `
UPDATE documents
SET status = $2, updated_at = now()
WHERE id = $1 AND status IN ($3, $4)
RETURNING ` + documentColumns

	doc, err := scanDocument(r.DB.QueryRowContext(ctx, query, id, StatusProcessing, StatusUploaded, StatusFailed))
	if err == nil {
		return doc, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Document{}, false, err
	}

	// No transition happened; read the record to tell why.
	doc, err = r.GetByID(ctx, id)
	if err != nil {
		return Document{}, false, err
	}
	switch doc.Status {
	case StatusAnalyzed:
		return doc, false, nil
	default:
		return Document{}, false, ErrConflict
	}
}

// MarkAnalyzed writes result fields and the analyzed status atomically.
func (r *PGRepo) MarkAnalyzed(ctx context.Context, id, summary, docType string, metadata map[string]any) (Document, error) {
	query := `
UPDATE documents
SET status = $2, summary = $3, doc_type = $4, metadata = $5, updated_at = now()
WHERE id = $1 AND status = $6
RETURNING ` + documentColumns

	metadataJSON, err := marshalMetadata(metadata)
	if err != nil {
		return Document{}, err
	}

	doc, err := scanDocument(r.DB.QueryRowContext(ctx, query, id, StatusAnalyzed, summary, docType, metadataJSON, StatusProcessing))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrInvalidTransition
		}
		return Document{}, err
	}
	return doc, nil
}

// MarkFailed moves a processing record to failed.
func (r *PGRepo) MarkFailed(ctx context.Context, id string) error {
	const query = `
UPDATE documents
SET status = $2, updated_at = now()
WHERE id = $1 AND status = $3`

	res, err := r.DB.ExecContext(ctx, query, id, StatusFailed, StatusProcessing)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInvalidTransition
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var (
		doc          Document
		summary      sql.NullString
		docType      sql.NullString
		metadataJSON []byte
		status       string
	)
	err := row.Scan(
		&doc.ID,
		&doc.OriginalName,
		&doc.MimeType,
		&doc.SizeBytes,
		&doc.StorageKey,
		&doc.ExtractedText,
		&summary,
		&docType,
		&metadataJSON,
		&status,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return Document{}, err
	}
	if summary.Valid {
		doc.Summary = summary.String
	}
	if docType.Valid {
		doc.DocType = docType.String
	}
	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &doc.Metadata); err != nil {
			return Document{}, fmt.Errorf("decode metadata: %w", err)
		}
	}
	doc.Status = Status(status)
	return doc, nil
}

func marshalMetadata(metadata map[string]any) (any, error) {
	if metadata == nil {
		return nil, nil
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}
	return raw, nil
}
