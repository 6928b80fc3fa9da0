package util

import (
	"errors"
	"path"
	"strings"
)

const maxFileNameLen = 100

// ErrInvalidFileName is returned when a file name cannot be sanitized.
var ErrInvalidFileName = errors.New("invalid file name")

var disallowedReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	" ", "_",
	"\t", "_",
	"\n", "_",
	"\r", "_",
	":", "_",
	"*", "_",
	"?", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
	"\x00", "_",
)

// SanitizeFileName strips path components, replaces disallowed characters
// and caps the result length. The extension is preserved when truncating.
func SanitizeFileName(name string) (string, error) {
	s := strings.TrimSpace(name)
	if s == "" {
		return "", ErrInvalidFileName
	}

	// Drop any client-supplied directory part, including Windows-style paths.
	s = strings.ReplaceAll(s, "\\", "/")
	s = path.Base(s)
	if s == "." || s == ".." || s == "/" {
		return "", ErrInvalidFileName
	}
	s = strings.ReplaceAll(s, "..", "_")
	s = disallowedReplacer.Replace(s)

	if len(s) > maxFileNameLen {
		ext := path.Ext(s)
		if len(ext) >= maxFileNameLen {
			ext = ""
		}
		s = s[:maxFileNameLen-len(ext)] + ext
	}
	if s == "" || strings.Trim(s, "_") == "" {
		return "", ErrInvalidFileName
	}
	return s, nil
}
