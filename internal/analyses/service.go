package analyses

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"docanalyzer-backend/internal/documents"
	"docanalyzer-backend/internal/llm"
	"docanalyzer-backend/internal/shared/metrics"
	"docanalyzer-backend/internal/shared/telemetry"
)

// Invoker abstracts the retrying model invoker for tests.
type Invoker interface {
	Invoke(ctx context.Context, prompt string) (string, error)
}

// Service runs the persisted analysis workflow against document records.
type Service struct {
	Repo    documents.Repo
	Invoker Invoker
}

// Analyze loads the record, transitions it to processing, runs the model
// pipeline and reconciles the outcome back into the record. An analyzed
// record short-circuits to its stored result without a model call; a record
// already processing yields documents.ErrConflict.
func (s *Service) Analyze(ctx context.Context, id string) (documents.Document, error) {
	if id == "" {
		return documents.Document{}, documents.ErrInvalidInput
	}

	doc, transitioned, err := s.Repo.BeginProcessing(ctx, id)
	if err != nil {
		return documents.Document{}, err
	}
	if !transitioned {
		// Idempotent read of an already-analyzed record.
		return doc, nil
	}

	startedAt := time.Now().UTC()
	metrics.IncAnalysisStarted()
	telemetry.Info("analysis.status", map[string]any{
		"document_id":       doc.ID,
		"status":            documents.StatusProcessing,
		"status_transition": "uploaded->processing",
	})

	result, err := s.runPipeline(ctx, doc)
	if err != nil {
		s.fail(doc.ID, err, startedAt)
		return documents.Document{}, callerError(err)
	}

	updated, err := s.Repo.MarkAnalyzed(ctx, doc.ID, result.Summary, result.DocType, result.Metadata)
	if err != nil {
		s.fail(doc.ID, fmt.Errorf("persist result: %w", err), startedAt)
		return documents.Document{}, ErrAnalysisFailed
	}

	completedAt := time.Now().UTC()
	metrics.IncAnalysisCompleted()
	metrics.ObserveAnalysisDuration(completedAt.Sub(startedAt).Seconds())
	telemetry.Info("analysis.status", map[string]any{
		"document_id":       doc.ID,
		"status":            documents.StatusAnalyzed,
		"status_transition": "processing->analyzed",
		"duration_ms":       float64(completedAt.Sub(startedAt).Microseconds()) / 1000.0,
	})
	return updated, nil
}

func (s *Service) runPipeline(ctx context.Context, doc documents.Document) (ClassifyResult, error) {
	prompt := llm.BuildPrompt(llm.SchemaClassify, doc.ExtractedText, llm.PromptOptions{})

	raw, err := s.Invoker.Invoke(ctx, prompt)
	if err != nil {
		return ClassifyResult{}, fmt.Errorf("llm invoke: %w", err)
	}

	parsed, err := llm.ParseObject(raw, requiredClassifyFields)
	if err != nil {
		return ClassifyResult{}, err
	}
	parsed["metadata"] = llm.CapMetadata(parsed["metadata"])

	payload, err := json.Marshal(parsed)
	if err != nil {
		return ClassifyResult{}, fmt.Errorf("%w: %v", llm.ErrMalformedJSON, err)
	}
	if err := llm.ValidateJSONAgainstSchema(classifySchema, payload); err != nil {
		return ClassifyResult{}, fmt.Errorf("%w: %v", llm.ErrMalformedJSON, err)
	}

	var result ClassifyResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return ClassifyResult{}, fmt.Errorf("%w: %v", llm.ErrMalformedJSON, err)
	}
	return result, nil
}

// fail records the failed transition. The orchestration context may already
// be cancelled, so the status write uses a fresh one.
func (s *Service) fail(id string, cause error, startedAt time.Time) {
	if err := s.Repo.MarkFailed(context.Background(), id); err != nil {
		telemetry.Error("analysis.mark_failed", map[string]any{
			"document_id": id,
			"error":       sanitizeError(err),
			"cause":       sanitizeError(cause),
		})
	}
	completedAt := time.Now().UTC()
	metrics.IncAnalysisFailed()
	metrics.ObserveAnalysisDuration(completedAt.Sub(startedAt).Seconds())
	telemetry.Error("analysis.status", map[string]any{
		"document_id":       id,
		"status":            documents.StatusFailed,
		"status_transition": "processing->failed",
		"error":             sanitizeError(cause),
		"duration_ms":       float64(completedAt.Sub(startedAt).Microseconds()) / 1000.0,
	})
}

// callerError keeps response-shape failures detailed enough to guide
// resubmission while collapsing provider failures to the generic error.
func callerError(err error) error {
	var missing *llm.MissingFieldError
	if errors.As(err, &missing) {
		return fmt.Errorf("%w: %w", ErrAnalysisFailed, missing)
	}
	if errors.Is(err, llm.ErrMalformedJSON) {
		return fmt.Errorf("%w: model returned malformed output", ErrAnalysisFailed)
	}
	return ErrAnalysisFailed
}

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	msg = strings.ReplaceAll(msg, "\r", " ")
	msg = strings.TrimSpace(msg)
	const maxLen = 500
	if len(msg) > maxLen {
		msg = msg[:maxLen]
	}
	return msg
}
