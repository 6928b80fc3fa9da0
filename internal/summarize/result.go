package summarize

// Sentiment values the model may return.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// Result is the validated shape of the synchronous workflow response.
type Result struct {
	Summary   string   `json:"summary"`
	Title     string   `json:"title"`
	Keywords  []string `json:"keywords"`
	Language  string   `json:"language"`
	Domain    string   `json:"domain"`
	Sentiment string   `json:"sentiment"`
}

// requiredFields is checked in order; the first missing field is reported.
var requiredFields = []string{"summary", "title", "keywords", "language", "domain", "sentiment"}

var resultSchema = map[string]any{
	"type":     "object",
	"required": []any{"summary", "title", "keywords", "language", "domain", "sentiment"},
	"properties": map[string]any{
		"summary":  map[string]any{"type": "string"},
		"title":    map[string]any{"type": "string"},
		"keywords": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"language": map[string]any{"type": "string"},
		"domain":   map[string]any{"type": "string"},
		"sentiment": map[string]any{
			"type": "string",
			"enum": []any{SentimentPositive, SentimentNeutral, SentimentNegative},
		},
	},
}
