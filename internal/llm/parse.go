package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedJSON marks model output that did not contain a parseable JSON object.
var ErrMalformedJSON = errors.New("malformed json in llm response")

// MissingFieldError reports the first required field absent from a parsed response.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("llm response missing required field %q", e.Field)
}

// Serialized metadata values above this size are replaced wholesale rather
// than truncated, so stored records stay bounded but valid.
const maxMetadataChars = 10000

var metadataNotice = json.RawMessage(`{"notice":"metadata omitted: exceeded maximum stored size"}`)

// ExtractJSONObject locates the JSON candidate inside raw model output.
// Preference order: the interior of a ```json fenced block, then the span
// from the first '{' to the last '}', then the trimmed text as-is.
func ExtractJSONObject(raw string) string {
	trimmed := strings.TrimSpace(raw)

	if inner, ok := fencedJSON(trimmed); ok {
		return inner
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start >= 0 && end > start {
		return trimmed[start : end+1]
	}
	return trimmed
}

func fencedJSON(text string) (string, bool) {
	// Compare the tag in place rather than lowercasing the whole text:
	// case mapping can change byte lengths and shift offsets.
	const tag = "```json"
	for i := 0; i+len(tag) <= len(text); i++ {
		if !strings.EqualFold(text[i:i+len(tag)], tag) {
			continue
		}
		rest := text[i+len(tag):]
		end := strings.Index(rest, "```")
		if end < 0 {
			return "", false
		}
		return strings.TrimSpace(rest[:end]), true
	}
	return "", false
}

// ParseObject extracts, parses and field-checks a JSON object from raw model
// output. Fields are checked in the order given; the first absent field is
// reported. Presence is key presence, not non-emptiness.
func ParseObject(raw string, requiredFields []string) (map[string]json.RawMessage, error) {
	candidate := ExtractJSONObject(raw)

	var parsed map[string]json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}

	for _, field := range requiredFields {
		if _, ok := parsed[field]; !ok {
			return nil, &MissingFieldError{Field: field}
		}
	}
	return parsed, nil
}

// CapMetadata bounds the serialized size of a metadata value. Oversized
// payloads are replaced with a fixed notice object.
func CapMetadata(raw json.RawMessage) json.RawMessage {
	if len(raw) > maxMetadataChars {
		return metadataNotice
	}
	return raw
}
