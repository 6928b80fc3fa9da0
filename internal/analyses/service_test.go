package analyses

import (
	"context"
	"errors"
	"testing"
	"time"

	"docanalyzer-backend/internal/documents"
	"docanalyzer-backend/internal/llm"
)

type stubInvoker struct {
	calls    int
	response string
	err      error
}

func (s *stubInvoker) Invoke(ctx context.Context, prompt string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

const validClassifyResponse = `{"summary":"an invoice for office chairs","docType":"invoice","metadata":{"sender":"Acme","totalAmount":"120.00"}}`

func seedUploaded(t *testing.T, repo *documents.MemoryRepo) string {
	t.Helper()
	doc := documents.Document{
		ID:            "doc-1",
		OriginalName:  "invoice.txt",
		MimeType:      "text/plain",
		SizeBytes:     64,
		StorageKey:    "abc_invoice.txt",
		ExtractedText: "Invoice no. 17 from Acme for office chairs, total 120.00",
		Status:        documents.StatusUploaded,
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}
	if err := repo.Create(context.Background(), doc); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return doc.ID
}

func TestAnalyzeSuccess(t *testing.T) {
	repo := documents.NewMemoryRepo()
	id := seedUploaded(t, repo)
	invoker := &stubInvoker{response: validClassifyResponse}
	svc := &Service{Repo: repo, Invoker: invoker}

	doc, err := svc.Analyze(context.Background(), id)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if doc.Status != documents.StatusAnalyzed {
		t.Fatalf("expected analyzed, got %s", doc.Status)
	}
	if doc.DocType != "invoice" {
		t.Fatalf("expected docType invoice, got %q", doc.DocType)
	}
	if doc.Metadata["sender"] != "Acme" {
		t.Fatalf("expected metadata to persist, got %v", doc.Metadata)
	}
	if invoker.calls != 1 {
		t.Fatalf("expected 1 model call, got %d", invoker.calls)
	}
}

func TestAnalyzeIdempotentOnAnalyzed(t *testing.T) {
	repo := documents.NewMemoryRepo()
	id := seedUploaded(t, repo)
	invoker := &stubInvoker{response: validClassifyResponse}
	svc := &Service{Repo: repo, Invoker: invoker}

	first, err := svc.Analyze(context.Background(), id)
	if err != nil {
		t.Fatalf("first Analyze: %v", err)
	}
	second, err := svc.Analyze(context.Background(), id)
	if err != nil {
		t.Fatalf("second Analyze: %v", err)
	}
	if invoker.calls != 1 {
		t.Fatalf("second call must not hit the model, got %d calls", invoker.calls)
	}
	if second.Summary != first.Summary || second.Status != documents.StatusAnalyzed {
		t.Fatalf("expected stored result back, got %+v", second)
	}
}

func TestAnalyzeNotFound(t *testing.T) {
	svc := &Service{Repo: documents.NewMemoryRepo(), Invoker: &stubInvoker{}}
	if _, err := svc.Analyze(context.Background(), "missing"); !errors.Is(err, documents.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAnalyzeConflictWhileProcessing(t *testing.T) {
	repo := documents.NewMemoryRepo()
	id := seedUploaded(t, repo)
	if _, _, err := repo.BeginProcessing(context.Background(), id); err != nil {
		t.Fatalf("begin: %v", err)
	}

	invoker := &stubInvoker{response: validClassifyResponse}
	svc := &Service{Repo: repo, Invoker: invoker}
	if _, err := svc.Analyze(context.Background(), id); !errors.Is(err, documents.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if invoker.calls != 0 {
		t.Fatalf("conflicting call must not hit the model")
	}
}

func TestAnalyzeModelFailureMarksFailed(t *testing.T) {
	repo := documents.NewMemoryRepo()
	id := seedUploaded(t, repo)
	svc := &Service{Repo: repo, Invoker: &stubInvoker{err: llm.ErrTimeout}}

	if _, err := svc.Analyze(context.Background(), id); !errors.Is(err, ErrAnalysisFailed) {
		t.Fatalf("expected ErrAnalysisFailed, got %v", err)
	}
	doc, err := repo.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if doc.Status != documents.StatusFailed {
		t.Fatalf("expected failed, got %s", doc.Status)
	}
}

func TestAnalyzeFailedRecordCanBeRetried(t *testing.T) {
	repo := documents.NewMemoryRepo()
	id := seedUploaded(t, repo)

	failing := &Service{Repo: repo, Invoker: &stubInvoker{err: llm.ErrTimeout}}
	if _, err := failing.Analyze(context.Background(), id); err == nil {
		t.Fatalf("expected failure")
	}

	working := &Service{Repo: repo, Invoker: &stubInvoker{response: validClassifyResponse}}
	doc, err := working.Analyze(context.Background(), id)
	if err != nil {
		t.Fatalf("retry Analyze: %v", err)
	}
	if doc.Status != documents.StatusAnalyzed {
		t.Fatalf("expected analyzed after retry, got %s", doc.Status)
	}
}

func TestAnalyzeMissingFieldMarksFailedWithDetail(t *testing.T) {
	repo := documents.NewMemoryRepo()
	id := seedUploaded(t, repo)
	svc := &Service{Repo: repo, Invoker: &stubInvoker{response: `{"summary":"only a summary"}`}}

	_, err := svc.Analyze(context.Background(), id)
	if !errors.Is(err, ErrAnalysisFailed) {
		t.Fatalf("expected ErrAnalysisFailed, got %v", err)
	}
	var missing *llm.MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingFieldError in chain, got %v", err)
	}
	if missing.Field != "docType" {
		t.Fatalf("expected first missing field docType, got %q", missing.Field)
	}

	doc, err := repo.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if doc.Status != documents.StatusFailed {
		t.Fatalf("expected failed, got %s", doc.Status)
	}
}

func TestAnalyzeInvalidDocTypeRejected(t *testing.T) {
	repo := documents.NewMemoryRepo()
	id := seedUploaded(t, repo)
	svc := &Service{Repo: repo, Invoker: &stubInvoker{
		response: `{"summary":"s","docType":"novel","metadata":{}}`,
	}}

	if _, err := svc.Analyze(context.Background(), id); !errors.Is(err, ErrAnalysisFailed) {
		t.Fatalf("expected ErrAnalysisFailed for out-of-enum docType, got %v", err)
	}
}
