package summarize

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"docanalyzer-backend/internal/extract"
	"docanalyzer-backend/internal/llm"
	"docanalyzer-backend/internal/shared/server/respond"
)

const (
	minKeywords = 1
	maxKeywords = 10

	// Headroom on top of the per-file limit for multipart boundaries and
	// form fields. The exact file-size limit is enforced by the service.
	multipartOverheadBytes = 16 << 10
)

// Handler wires HTTP handlers to the summarize service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches summarize routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/summarize", h.summarize)
}

func (h *Handler) summarize(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.Svc.MaxBytes+multipartOverheadBytes)

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

	opts := Options{
		DesiredLength: strings.TrimSpace(c.PostForm("desiredLength")),
		Intent:        strings.TrimSpace(c.PostForm("intent")),
	}
	if raw := strings.TrimSpace(c.PostForm("maxKeywords")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < minKeywords || parsed > maxKeywords {
			respond.Error(c, http.StatusBadRequest, "validation_error", "maxKeywords must be between 1 and 10", nil)
			return
		}
		opts.MaxKeywords = parsed
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

	result, err := h.Svc.Summarize(c.Request.Context(), fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data, opts)
	if err != nil {
		writeSummarizeError(c, err)
		return
	}

	respond.OK(c, result)
}

func writeSummarizeError(c *gin.Context, err error) {
	var missing *llm.MissingFieldError
	switch {
	case errors.Is(err, extract.ErrUnsupportedType):
		respond.Error(c, http.StatusBadRequest, "unsupported_type", "only .pdf, .docx and .txt files are supported", nil)
	case errors.Is(err, extract.ErrCorruptDocument):
		respond.Error(c, http.StatusBadRequest, "corrupt_document", "document could not be parsed", nil)
	case errors.Is(err, extract.ErrEmptyText):
		respond.Error(c, http.StatusBadRequest, "empty_text", "document contains no extractable text", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.As(err, &missing):
		respond.Error(c, http.StatusBadGateway, "analysis_failed", "model output was incomplete", []map[string]string{
			{"field": missing.Field, "issue": "missing_in_model_output"},
		})
	case errors.Is(err, llm.ErrMalformedJSON):
		respond.Error(c, http.StatusBadGateway, "analysis_failed", "model output could not be parsed", nil)
	case errors.Is(err, llm.ErrTimeout), errors.Is(err, llm.ErrEmptyResponse):
		respond.Error(c, http.StatusBadGateway, "analysis_failed", "model did not return a usable response", nil)
	default:
		respond.Error(c, http.StatusBadGateway, "analysis_failed", "failed to summarize document", nil)
	}
}
