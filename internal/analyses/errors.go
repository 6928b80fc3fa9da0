package analyses

import "errors"

// ErrAnalysisFailed is the generic caller-facing analysis error. The
// specific cause is logged internally, never surfaced verbatim.
var ErrAnalysisFailed = errors.New("analysis failed")
