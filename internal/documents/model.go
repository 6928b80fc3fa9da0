package documents

import "time"

// Status is the lifecycle state of a document record.
type Status string

const (
	StatusUploaded   Status = "uploaded"
	StatusProcessing Status = "processing"
	StatusAnalyzed   Status = "analyzed"
	StatusFailed     Status = "failed"
)

// Document represents one uploaded document and its analysis state.
// A record only ever exists with non-empty extracted text.
type Document struct {
	ID            string
	OriginalName  string
	MimeType      string
	SizeBytes     int64
	StorageKey    string
	ExtractedText string
	Summary       string
	DocType       string
	Metadata      map[string]any
	Status        Status
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
