package models

// AnalyzeRequest is the single-screenshot analysis request body.
type AnalyzeRequest struct {
	URL            string `json:"url" binding:"required,url"`
	Index          int    `json:"index,omitempty"`
	UseAdvancedOCR bool   `json:"use_advanced_ocr,omitempty"`
	ExpectedText   string `json:"expected_text,omitempty"`
}

// BatchAnalyzeRequest is the batch analysis request body. Category is only
// forwarded to the scoring rubric; the pipeline itself is category-agnostic.
type BatchAnalyzeRequest struct {
	URLs           []string `json:"urls" binding:"required,min=1"`
	UseAdvancedOCR bool     `json:"use_advanced_ocr,omitempty"`
	Category       string   `json:"category,omitempty"`
}

// BatchAnalyzeResponse bundles the batch result with its aggregate summary.
type BatchAnalyzeResponse struct {
	Batch   BatchAnalysisResult `json:"batch"`
	Summary BatchSummary        `json:"summary"`
}

// ErrorResponse is the JSON error envelope for the HTTP API.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
