package extract

import (
	"errors"
	"strings"
	"testing"
)

func TestSupportedExtension(t *testing.T) {
	cases := map[string]bool{
		"report.pdf":   true,
		"REPORT.PDF":   true,
		"letter.docx":  true,
		"notes.txt":    true,
		"archive.zip":  false,
		"image.png":    false,
		"noextension":  false,
		"weird.pdf.gz": false,
	}
	for name, want := range cases {
		if got := SupportedExtension(name); got != want {
			t.Fatalf("SupportedExtension(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestExtractTXT(t *testing.T) {
	text, err := Extract([]byte("  hello from a plain text file  \n"), "notes.txt", "text/plain")
	if err != nil {
		t.Fatalf("extract txt: %v", err)
	}
	if text != "hello from a plain text file" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestExtractDispatchIgnoresDeclaredMime(t *testing.T) {
	// The declared MIME type lies; the .txt extension wins.
	text, err := Extract([]byte("content dispatched by extension"), "notes.txt", "application/pdf")
	if err != nil {
		t.Fatalf("extract with lying mime: %v", err)
	}
	if !strings.Contains(text, "dispatched by extension") {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestExtractUnsupportedType(t *testing.T) {
	_, err := Extract([]byte("whatever"), "archive.zip", "application/zip")
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestExtractEmptyText(t *testing.T) {
	for _, data := range []string{"", "   \n\t  ", "hi"} {
		_, err := Extract([]byte(data), "notes.txt", "text/plain")
		if !errors.Is(err, ErrEmptyText) {
			t.Fatalf("data %q: expected ErrEmptyText, got %v", data, err)
		}
	}
}

func TestExtractInvalidUTF8(t *testing.T) {
	_, err := Extract([]byte{0xff, 0xfe, 0xfd, 0x00, 0x01, 0x02}, "notes.txt", "text/plain")
	if !errors.Is(err, ErrCorruptDocument) {
		t.Fatalf("expected ErrCorruptDocument, got %v", err)
	}
}

func TestExtractCorruptPDF(t *testing.T) {
	_, err := Extract([]byte("this is not a pdf"), "broken.pdf", "application/pdf")
	if !errors.Is(err, ErrCorruptDocument) {
		t.Fatalf("expected ErrCorruptDocument, got %v", err)
	}
}

func TestExtractCorruptDOCX(t *testing.T) {
	for _, data := range [][]byte{nil, []byte("this is not a zip archive")} {
		_, err := Extract(data, "broken.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
		if !errors.Is(err, ErrCorruptDocument) {
			t.Fatalf("expected ErrCorruptDocument, got %v", err)
		}
	}
}

func TestStripDocxXML(t *testing.T) {
	raw := `<w:document><w:body>` +
		`<w:p><w:r><w:t>First paragraph</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Second</w:t></w:r><w:r><w:t> paragraph</w:t></w:r></w:p>` +
		`</w:body></w:document>`

	got := stripDocxXML(raw)
	want := "First paragraph\nSecond paragraph"
	if got != want {
		t.Fatalf("stripDocxXML = %q, want %q", got, want)
	}
}
