package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// Minimum trimmed length of extracted text. Anything shorter is treated as
// an empty document so no record is ever created without usable text.
const minTextLen = 5

var (
	// ErrUnsupportedType is returned for file extensions outside .pdf/.docx/.txt.
	ErrUnsupportedType = errors.New("unsupported document type")
	// ErrCorruptDocument is returned when a parser library rejects the payload.
	ErrCorruptDocument = errors.New("corrupt document")
	// ErrEmptyText is returned when extraction yields no usable text.
	ErrEmptyText = errors.New("document contains no extractable text")
)

// SupportedExtension reports whether the file name carries an extension
// this extractor can handle.
func SupportedExtension(fileName string) bool {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf", ".docx", ".txt":
		return true
	default:
		return false
	}
}

// Extract pulls plain text from an in-memory document payload. Dispatch is
// by file extension only; the declared MIME type is client-supplied and kept
// for logging, never trusted for dispatch.
// Libraries used: github.com/ledongthuc/pdf (PDF) and github.com/nguyenthenguyen/docx (DOCX).
func Extract(data []byte, fileName string, declaredMime string) (string, error) {
	ext := strings.ToLower(filepath.Ext(fileName))

	var (
		text string
		err  error
	)
	switch ext {
	case ".pdf":
		text, err = extractPDF(data)
	case ".docx":
		text, err = extractDOCX(data)
	case ".txt":
		text, err = extractTXT(data)
	default:
		return "", fmt.Errorf("%w: %s (declared mime %s)", ErrUnsupportedType, ext, declaredMime)
	}
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < minTextLen {
		return "", ErrEmptyText
	}
	return text, nil
}

func extractPDF(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: pdf: %v", ErrCorruptDocument, err)
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: pdf text: %v", ErrCorruptDocument, err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("%w: pdf read: %v", ErrCorruptDocument, err)
	}
	return buf.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty docx data", ErrCorruptDocument)
	}
	reader, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: docx: %v", ErrCorruptDocument, err)
	}
	defer reader.Close()

	// GetContent returns the raw WordprocessingML of word/document.xml;
	// strip the markup down to paragraph-delimited plain text.
	return stripDocxXML(reader.Editable().GetContent()), nil
}

func extractTXT(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: txt is not valid utf-8", ErrCorruptDocument)
	}
	return string(data), nil
}
