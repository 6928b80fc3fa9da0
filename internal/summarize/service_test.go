package summarize

import (
	"context"
	"errors"
	"strings"
	"testing"

	"docanalyzer-backend/internal/extract"
	"docanalyzer-backend/internal/llm"
)

type stubInvoker struct {
	calls    int
	prompt   string
	response string
	err      error
}

func (s *stubInvoker) Invoke(ctx context.Context, prompt string) (string, error) {
	s.calls++
	s.prompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

const validResponse = "```json\n" +
	`{"summary":"a quarterly report","title":"Q3 Report","keywords":["revenue","growth"],"language":"en","domain":"finance","sentiment":"positive"}` +
	"\n```"

func TestSummarizeSuccess(t *testing.T) {
	invoker := &stubInvoker{response: validResponse}
	svc := &Service{Invoker: invoker, MaxBytes: 5 << 20}

	result, err := svc.Summarize(context.Background(), "report.txt", "text/plain", []byte("Revenue grew 12% in Q3 across all regions."), Options{})
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if result.Title != "Q3 Report" {
		t.Fatalf("unexpected title %q", result.Title)
	}
	if len(result.Keywords) != 2 || result.Keywords[0] != "revenue" {
		t.Fatalf("unexpected keywords %v", result.Keywords)
	}
	if result.Sentiment != SentimentPositive {
		t.Fatalf("unexpected sentiment %q", result.Sentiment)
	}
	if invoker.calls != 1 {
		t.Fatalf("expected 1 model call, got %d", invoker.calls)
	}
}

func TestSummarizeOptionsReachPrompt(t *testing.T) {
	invoker := &stubInvoker{response: validResponse}
	svc := &Service{Invoker: invoker, MaxBytes: 5 << 20}

	_, err := svc.Summarize(context.Background(), "report.txt", "text/plain",
		[]byte("Revenue grew 12% in Q3."), Options{DesiredLength: "long", MaxKeywords: 3})
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if !strings.Contains(invoker.prompt, "long") || !strings.Contains(invoker.prompt, "at most 3 keywords") {
		t.Fatalf("options missing from prompt:\n%s", invoker.prompt)
	}
}

func TestSummarizeInvalidInput(t *testing.T) {
	svc := &Service{Invoker: &stubInvoker{response: validResponse}, MaxBytes: 10}

	if _, err := svc.Summarize(context.Background(), "", "", []byte("data!"), Options{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing name, got %v", err)
	}
	if _, err := svc.Summarize(context.Background(), "a.txt", "", nil, Options{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty data, got %v", err)
	}
	if _, err := svc.Summarize(context.Background(), "a.txt", "", []byte(strings.Repeat("x", 11)), Options{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for oversized data, got %v", err)
	}
}

func TestSummarizeUnsupportedType(t *testing.T) {
	invoker := &stubInvoker{response: validResponse}
	svc := &Service{Invoker: invoker}

	_, err := svc.Summarize(context.Background(), "archive.zip", "application/zip", []byte("data data"), Options{})
	if !errors.Is(err, extract.ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
	if invoker.calls != 0 {
		t.Fatalf("rejected input must not hit the model")
	}
}

func TestSummarizeMissingField(t *testing.T) {
	svc := &Service{Invoker: &stubInvoker{
		response: `{"summary":"s","keywords":[],"language":"en","domain":"d","sentiment":"neutral"}`,
	}}

	_, err := svc.Summarize(context.Background(), "report.txt", "", []byte("Revenue grew 12% in Q3."), Options{})
	var missing *llm.MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingFieldError, got %v", err)
	}
	if missing.Field != "title" {
		t.Fatalf("expected first missing field title, got %q", missing.Field)
	}
}

func TestSummarizeMalformedResponse(t *testing.T) {
	svc := &Service{Invoker: &stubInvoker{response: "the model rambles with no json"}}

	_, err := svc.Summarize(context.Background(), "report.txt", "", []byte("Revenue grew 12% in Q3."), Options{})
	if !errors.Is(err, llm.ErrMalformedJSON) {
		t.Fatalf("expected ErrMalformedJSON, got %v", err)
	}
}

func TestSummarizeInvalidSentimentRejected(t *testing.T) {
	svc := &Service{Invoker: &stubInvoker{
		response: `{"summary":"s","title":"t","keywords":["k"],"language":"en","domain":"d","sentiment":"ecstatic"}`,
	}}

	_, err := svc.Summarize(context.Background(), "report.txt", "", []byte("Revenue grew 12% in Q3."), Options{})
	if !errors.Is(err, llm.ErrMalformedJSON) {
		t.Fatalf("expected schema violation to surface as ErrMalformedJSON, got %v", err)
	}
}

func TestSummarizeProviderErrorSurfaces(t *testing.T) {
	svc := &Service{Invoker: &stubInvoker{err: llm.ErrTimeout}}

	_, err := svc.Summarize(context.Background(), "report.txt", "", []byte("Revenue grew 12% in Q3."), Options{})
	if !errors.Is(err, llm.ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}
