package util

import (
	"errors"
	"strings"
	"testing"
)

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"report.pdf", "report.pdf"},
		{"  report.pdf  ", "report.pdf"},
		{"my report.pdf", "my_report.pdf"},
		{"/tmp/secret/report.pdf", "report.pdf"},
		{`C:\Users\alice\cv.docx`, "cv.docx"},
		{"../../etc/passwd", "passwd"},
		{"inv*oice?.txt", "inv_oice_.txt"},
		{"a<b>c|d.txt", "a_b_c_d.txt"},
	}
	for _, tc := range cases {
		got, err := SanitizeFileName(tc.in)
		if err != nil {
			t.Fatalf("SanitizeFileName(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("SanitizeFileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeFileNameRejects(t *testing.T) {
	for _, in := range []string{"", "   ", ".", "..", "/", "___"} {
		if _, err := SanitizeFileName(in); !errors.Is(err, ErrInvalidFileName) {
			t.Fatalf("SanitizeFileName(%q): expected ErrInvalidFileName, got %v", in, err)
		}
	}
}

func TestSanitizeFileNameTruncatesKeepingExtension(t *testing.T) {
	long := strings.Repeat("x", 200) + ".docx"
	got, err := SanitizeFileName(long)
	if err != nil {
		t.Fatalf("SanitizeFileName: %v", err)
	}
	if len(got) > maxFileNameLen {
		t.Fatalf("expected at most %d chars, got %d", maxFileNameLen, len(got))
	}
	if !strings.HasSuffix(got, ".docx") {
		t.Fatalf("expected extension to survive truncation, got %q", got)
	}
}
