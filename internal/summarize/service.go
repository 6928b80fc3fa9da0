package summarize

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"docanalyzer-backend/internal/extract"
	"docanalyzer-backend/internal/llm"
)

// ErrInvalidInput marks a request rejected before any model call.
var ErrInvalidInput = errors.New("invalid input")

// Invoker abstracts the model invoker for tests. The synchronous workflow
// is wired with a single-attempt invoker: there is no retry loop here.
type Invoker interface {
	Invoke(ctx context.Context, prompt string) (string, error)
}

// Options tunes the generated summary. All fields are optional.
type Options struct {
	DesiredLength string
	MaxKeywords   int
	Intent        string
}

// Service runs the synchronous upload-and-analyze workflow. Nothing is
// persisted; any stage failure surfaces immediately as a typed error.
type Service struct {
	Invoker  Invoker
	MaxBytes int64
}

// Summarize extracts text from the payload, asks the model for a structured
// summary and validates the response against the six required fields.
func (s *Service) Summarize(ctx context.Context, fileName, declaredMime string, data []byte, opts Options) (Result, error) {
	if fileName == "" || len(data) == 0 {
		return Result{}, ErrInvalidInput
	}
	if s.MaxBytes > 0 && int64(len(data)) > s.MaxBytes {
		return Result{}, fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidInput, s.MaxBytes)
	}

	text, err := extract.Extract(data, fileName, declaredMime)
	if err != nil {
		return Result{}, err
	}

	prompt := llm.BuildPrompt(llm.SchemaSummarize, text, llm.PromptOptions{
		DesiredLength: opts.DesiredLength,
		MaxKeywords:   opts.MaxKeywords,
		Intent:        opts.Intent,
	})

	raw, err := s.Invoker.Invoke(ctx, prompt)
	if err != nil {
		return Result{}, err
	}

	parsed, err := llm.ParseObject(raw, requiredFields)
	if err != nil {
		return Result{}, err
	}

	payload, err := json.Marshal(parsed)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", llm.ErrMalformedJSON, err)
	}
	if err := llm.ValidateJSONAgainstSchema(resultSchema, payload); err != nil {
		return Result{}, fmt.Errorf("%w: %v", llm.ErrMalformedJSON, err)
	}

	var result Result
	if err := json.Unmarshal(payload, &result); err != nil {
		return Result{}, fmt.Errorf("%w: %v", llm.ErrMalformedJSON, err)
	}
	return result, nil
}
