package analyses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"docanalyzer-backend/internal/documents"
	"docanalyzer-backend/internal/llm"
	"docanalyzer-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the analyses service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents/:id/analyze", h.analyze)
}

type analyzeResponse struct {
	ID       string           `json:"id"`
	Status   documents.Status `json:"status"`
	Summary  string           `json:"summary"`
	DocType  string           `json:"docType"`
	Metadata map[string]any   `json:"metadata"`
}

func (h *Handler) analyze(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "document id is required", nil)
		return
	}
	c.Set("documentId", id)

	doc, err := h.Svc.Analyze(c.Request.Context(), id)
	if err != nil {
		writeAnalyzeError(c, err)
		return
	}

	respond.OK(c, analyzeResponse{
		ID:       doc.ID,
		Status:   doc.Status,
		Summary:  doc.Summary,
		DocType:  doc.DocType,
		Metadata: doc.Metadata,
	})
}

func writeAnalyzeError(c *gin.Context, err error) {
	var missing *llm.MissingFieldError
	switch {
	case errors.Is(err, documents.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
	case errors.Is(err, documents.ErrConflict):
		respond.Error(c, http.StatusConflict, "conflict", "analysis already in progress, retry later", nil)
	case errors.As(err, &missing):
		respond.Error(c, http.StatusBadGateway, "analysis_failed", "analysis failed", []map[string]string{
			{"field": missing.Field, "issue": "missing_in_model_output"},
		})
	case errors.Is(err, ErrAnalysisFailed):
		respond.Error(c, http.StatusBadGateway, "analysis_failed", "analysis failed", nil)
	case errors.Is(err, documents.ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", "document id is required", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to analyze document", nil)
	}
}
