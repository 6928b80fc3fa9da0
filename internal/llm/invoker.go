package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"docanalyzer-backend/internal/shared/metrics"
	"docanalyzer-backend/internal/shared/telemetry"
)

// InvokerConfig controls timeout, retry and circuit-breaker behavior around
// a single provider call.
type InvokerConfig struct {
	AttemptTimeout    time.Duration
	MaxAttempts       int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64

	BreakerEnabled      bool
	BreakerMinRequests  uint32
	BreakerFailureRatio float64
	BreakerOpenTimeout  time.Duration
}

// DefaultInvokerConfig returns production defaults.
func DefaultInvokerConfig() InvokerConfig {
	return InvokerConfig{
		AttemptTimeout:    60 * time.Second,
		MaxAttempts:       3,
		InitialBackoff:    300 * time.Millisecond,
		MaxBackoff:        2 * time.Second,
		BackoffMultiplier: 2.0,

		BreakerEnabled:      true,
		BreakerMinRequests:  10,
		BreakerFailureRatio: 0.5,
		BreakerOpenTimeout:  30 * time.Second,
	}
}

func (c InvokerConfig) normalize() InvokerConfig {
	out := c
	def := DefaultInvokerConfig()
	if out.AttemptTimeout <= 0 {
		out.AttemptTimeout = def.AttemptTimeout
	}
	if out.MaxAttempts <= 0 {
		out.MaxAttempts = def.MaxAttempts
	}
	if out.InitialBackoff <= 0 {
		out.InitialBackoff = def.InitialBackoff
	}
	if out.MaxBackoff < out.InitialBackoff {
		out.MaxBackoff = out.InitialBackoff
	}
	if out.BackoffMultiplier < 1.0 {
		out.BackoffMultiplier = def.BackoffMultiplier
	}
	if out.BreakerMinRequests == 0 {
		out.BreakerMinRequests = def.BreakerMinRequests
	}
	if out.BreakerFailureRatio <= 0 || out.BreakerFailureRatio > 1 {
		out.BreakerFailureRatio = def.BreakerFailureRatio
	}
	if out.BreakerOpenTimeout <= 0 {
		out.BreakerOpenTimeout = def.BreakerOpenTimeout
	}
	return out
}

// Invoker wraps a Client with per-attempt timeouts, sequential bounded
// retries and an optional circuit breaker.
type Invoker struct {
	client  Client
	cfg     InvokerConfig
	breaker *gobreaker.CircuitBreaker[string]
}

// NewInvoker constructs an Invoker around client.
func NewInvoker(client Client, cfg InvokerConfig) *Invoker {
	cfg = cfg.normalize()
	inv := &Invoker{client: client, cfg: cfg}
	if cfg.BreakerEnabled {
		inv.breaker = gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
			Name:    "llm",
			Timeout: cfg.BreakerOpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				if counts.Requests < cfg.BreakerMinRequests {
					return false
				}
				return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.BreakerFailureRatio
			},
		})
	}
	return inv
}

// Invoke runs the prompt against the provider. Attempts are sequential: each
// races the call against AttemptTimeout, failed attempts back off and retry
// until MaxAttempts is exhausted, then the last error is surfaced. An empty
// successful response is surfaced as ErrEmptyResponse without further retry.
func (inv *Invoker) Invoke(ctx context.Context, prompt string) (string, error) {
	if inv.breaker == nil {
		return inv.invokeWithRetry(ctx, prompt)
	}
	return inv.breaker.Execute(func() (string, error) {
		return inv.invokeWithRetry(ctx, prompt)
	})
}

func (inv *Invoker) invokeWithRetry(ctx context.Context, prompt string) (string, error) {
	backoff := inv.cfg.InitialBackoff
	var lastErr error

	for attempt := 1; attempt <= inv.cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		text, err := inv.attempt(ctx, prompt)
		if err == nil {
			if strings.TrimSpace(text) == "" {
				metrics.IncLLMAttempt("empty")
				return "", ErrEmptyResponse
			}
			metrics.IncLLMAttempt("ok")
			return text, nil
		}
		metrics.IncLLMAttempt("error")
		lastErr = err

		if attempt == inv.cfg.MaxAttempts {
			break
		}
		telemetry.Info("llm.retry", map[string]any{
			"attempt":      attempt,
			"max_attempts": inv.cfg.MaxAttempts,
			"backoff_ms":   float64(backoff.Microseconds()) / 1000.0,
			"error":        err.Error(),
		})

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", lastErr
		case <-timer.C:
		}
		backoff = time.Duration(float64(backoff) * inv.cfg.BackoffMultiplier)
		if backoff > inv.cfg.MaxBackoff {
			backoff = inv.cfg.MaxBackoff
		}
	}
	return "", lastErr
}

func (inv *Invoker) attempt(ctx context.Context, prompt string) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, inv.cfg.AttemptTimeout)
	defer cancel()

	text, err := inv.client.Generate(attemptCtx, prompt)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return "", ErrTimeout
		}
		return "", err
	}
	return text, nil
}
