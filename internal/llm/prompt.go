package llm

import (
	"fmt"
	"strings"
)

// Schema selects which response shape the model is instructed to produce.
// It is a build-time parameter of the prompt, never inferred from content.
type Schema int

const (
	// SchemaSummarize asks for summary/title/keywords/language/domain/sentiment.
	SchemaSummarize Schema = iota
	// SchemaClassify asks for summary/docType/metadata.
	SchemaClassify
)

// Hard cap on the document text embedded into a prompt. This is a token
// budget guard, not a quality feature: inputs are cut at exactly this many
// characters with no smarter chunking.
const maxPromptInputChars = 8000

// PromptOptions tunes the instruction text. All fields are advisory to the
// model; only downstream validation enforces anything.
type PromptOptions struct {
	DesiredLength string
	MaxKeywords   int
	Intent        string
}

const summarizeSchemaInstruction = `Return ONLY a single JSON object with exactly these keys:
"summary" (string), "title" (string), "keywords" (array of strings),
"language" (string, ISO code or name), "domain" (string), "sentiment" (one of "positive", "neutral", "negative").
No markdown, no commentary, no extra keys.`

const classifySchemaInstruction = `Return ONLY a single JSON object with exactly these keys:
"summary" (string), "docType" (one of "invoice", "cv", "report", "letter", "contract", "other"),
"metadata" (object of string keys, e.g. date, sender, recipient, totalAmount, subject, additionalDetails).
No markdown, no commentary, no extra keys.`

// BuildPrompt produces the model instruction for the given schema, embedding
// at most the first maxPromptInputChars characters of text.
func BuildPrompt(schema Schema, text string, opts PromptOptions) string {
	snippet := truncateRunes(text, maxPromptInputChars)

	var b strings.Builder
	b.WriteString("You are a document analysis engine.\n")
	switch schema {
	case SchemaClassify:
		b.WriteString(classifySchemaInstruction)
	default:
		b.WriteString(summarizeSchemaInstruction)
	}
	b.WriteString("\n")

	if opts.DesiredLength != "" {
		fmt.Fprintf(&b, "Make the summary %s in length.\n", opts.DesiredLength)
	}
	if opts.MaxKeywords > 0 {
		fmt.Fprintf(&b, "Return at most %d keywords.\n", opts.MaxKeywords)
	}
	if intent := strings.TrimSpace(opts.Intent); intent != "" {
		fmt.Fprintf(&b, "Analysis intent: %s\n", intent)
	}

	b.WriteString("\nDocument:\n")
	b.WriteString(snippet)
	return b.String()
}

// truncateRunes cuts s after n characters, never mid-rune.
func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
