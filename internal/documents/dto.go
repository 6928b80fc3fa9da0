package documents

import "time"

// UploadResponse is the outward-facing representation of a fresh upload.
type UploadResponse struct {
	ID           string    `json:"id"`
	OriginalName string    `json:"originalName"`
	MimeType     string    `json:"mimeType"`
	Size         int64     `json:"size"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

// DocumentResponse is the full outward-facing record.
type DocumentResponse struct {
	ID            string         `json:"id"`
	OriginalName  string         `json:"originalName"`
	MimeType      string         `json:"mimeType"`
	Size          int64          `json:"size"`
	Status        Status         `json:"status"`
	ExtractedText string         `json:"extractedText"`
	Summary       string         `json:"summary,omitempty"`
	DocType       string         `json:"docType,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

func toUploadResponse(doc Document) UploadResponse {
	return UploadResponse{
		ID:           doc.ID,
		OriginalName: doc.OriginalName,
		MimeType:     doc.MimeType,
		Size:         doc.SizeBytes,
		Status:       doc.Status,
		CreatedAt:    doc.CreatedAt,
	}
}

func toDocumentResponse(doc Document) DocumentResponse {
	return DocumentResponse{
		ID:            doc.ID,
		OriginalName:  doc.OriginalName,
		MimeType:      doc.MimeType,
		Size:          doc.SizeBytes,
		Status:        doc.Status,
		ExtractedText: doc.ExtractedText,
		Summary:       doc.Summary,
		DocType:       doc.DocType,
		Metadata:      doc.Metadata,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}
}
