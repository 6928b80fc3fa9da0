package analyses

// Document type classification returned by the model.
const (
	DocTypeInvoice  = "invoice"
	DocTypeCV       = "cv"
	DocTypeReport   = "report"
	DocTypeLetter   = "letter"
	DocTypeContract = "contract"
	DocTypeOther    = "other"
)

// ClassifyResult is the validated shape of the persisted-workflow response.
type ClassifyResult struct {
	Summary  string         `json:"summary"`
	DocType  string         `json:"docType"`
	Metadata map[string]any `json:"metadata"`
}

// requiredClassifyFields is checked in order; the first missing field is the
// one reported.
var requiredClassifyFields = []string{"summary", "docType", "metadata"}

// classifySchema constrains field types and the docType enumeration after
// the presence check has passed.
var classifySchema = map[string]any{
	"type":     "object",
	"required": []any{"summary", "docType", "metadata"},
	"properties": map[string]any{
		"summary": map[string]any{"type": "string"},
		"docType": map[string]any{
			"type": "string",
			"enum": []any{DocTypeInvoice, DocTypeCV, DocTypeReport, DocTypeLetter, DocTypeContract, DocTypeOther},
		},
		"metadata": map[string]any{"type": "object"},
	},
}
