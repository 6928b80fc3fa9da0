package documents

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"docanalyzer-backend/internal/extract"
	localstore "docanalyzer-backend/internal/shared/storage/object/local"
)

func newService(t *testing.T) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	return &Service{
		Store:          localstore.New(dir),
		Repo:           NewMemoryRepo(),
		MaxUploadBytes: 1 << 20,
	}, dir
}

func storedCount(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0
		}
		t.Fatalf("read dir: %v", err)
	}
	return len(entries)
}

func TestUploadCreatesRecord(t *testing.T) {
	svc, dir := newService(t)

	doc, err := svc.Upload(context.Background(), "notes.txt", "text/plain", []byte("three lines\nof useful\ntext\n"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if doc.ID == "" || doc.Status != StatusUploaded {
		t.Fatalf("unexpected record %+v", doc)
	}
	if doc.ExtractedText != "three lines\nof useful\ntext" {
		t.Fatalf("unexpected extracted text %q", doc.ExtractedText)
	}
	if doc.MimeType != "text/plain" {
		t.Fatalf("declared mime should be kept, got %q", doc.MimeType)
	}
	if storedCount(t, dir) != 1 {
		t.Fatalf("expected 1 stored file")
	}

	fetched, err := svc.Get(context.Background(), doc.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if fetched.StorageKey != doc.StorageKey {
		t.Fatalf("expected same storage key")
	}
}

func TestUploadEmptyTextCleansUpStoredFile(t *testing.T) {
	svc, dir := newService(t)

	_, err := svc.Upload(context.Background(), "notes.txt", "text/plain", []byte("hi"))
	if !errors.Is(err, extract.ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText, got %v", err)
	}
	if storedCount(t, dir) != 0 {
		t.Fatalf("stored copy must be deleted when no record is created")
	}
}

func TestUploadUnsupportedExtensionStoresNothing(t *testing.T) {
	svc, dir := newService(t)

	_, err := svc.Upload(context.Background(), "picture.png", "image/png", []byte("pretend image bytes"))
	if !errors.Is(err, extract.ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
	if storedCount(t, dir) != 0 {
		t.Fatalf("rejected upload must not be stored")
	}
}

func TestUploadSizeLimit(t *testing.T) {
	svc, _ := newService(t)
	svc.MaxUploadBytes = 10

	_, err := svc.Upload(context.Background(), "big.txt", "text/plain", []byte(strings.Repeat("x", 11)))
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUploadFallsBackToDetectedMime(t *testing.T) {
	svc, _ := newService(t)

	doc, err := svc.Upload(context.Background(), "notes.txt", "", []byte("plenty of plain text here"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if !strings.HasPrefix(doc.MimeType, "text/plain") {
		t.Fatalf("expected sniffed mime, got %q", doc.MimeType)
	}
}
