package documents

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"docanalyzer-backend/internal/extract"
	"docanalyzer-backend/internal/shared/metrics"
	"docanalyzer-backend/internal/shared/server/respond"
)

// Headroom on top of the per-file limit for multipart boundaries and form
// fields. The exact file-size limit is enforced by the service.
const multipartOverheadBytes = 16 << 10

// Handler wires HTTP handlers to the documents service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents", h.upload)
	rg.GET("/documents/:id", h.get)
}

func (h *Handler) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.Svc.MaxUploadBytes+multipartOverheadBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respond.Error(c, http.StatusBadRequest, "validation_error", "file exceeds the maximum allowed size", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}

	doc, err := h.Svc.Upload(c.Request.Context(), fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data)
	if err != nil {
		metrics.IncUpload("error")
		writeUploadError(c, err)
		return
	}

	metrics.IncUpload("ok")
	c.Set("documentId", doc.ID)
	respond.JSON(c, http.StatusCreated, toUploadResponse(doc))
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "document id is required", nil)
		return
	}

	doc, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch document", nil)
		}
		return
	}

	respond.OK(c, toDocumentResponse(doc))
}

func writeUploadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, extract.ErrUnsupportedType):
		respond.Error(c, http.StatusBadRequest, "unsupported_type", "only .pdf, .docx and .txt files are supported", nil)
	case errors.Is(err, extract.ErrCorruptDocument):
		respond.Error(c, http.StatusBadRequest, "corrupt_document", "document could not be parsed", nil)
	case errors.Is(err, extract.ErrEmptyText):
		respond.Error(c, http.StatusBadRequest, "empty_text", "document contains no extractable text", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to upload document", nil)
	}
}
