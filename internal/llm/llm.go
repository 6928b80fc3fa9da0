package llm

import (
	"context"
	"errors"
)

// Client abstracts generative-text providers.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

var (
	// ErrTimeout marks an attempt abandoned because its timeout fired.
	ErrTimeout = errors.New("llm request timeout")
	// ErrEmptyResponse marks a provider call that succeeded but returned
	// no usable text. It is surfaced directly, never retried.
	ErrEmptyResponse = errors.New("llm empty response")
)
