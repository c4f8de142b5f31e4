package models

import "time"

// ColorInfo is one dominant-color cluster centroid and its share of the
// sampled pixels.
type ColorInfo struct {
	Hex        string  `json:"hex"`
	RGB        RGB     `json:"rgb"`
	Percentage float64 `json:"percentage"`
}

// RGB holds 8-bit color channels.
type RGB struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// ColorExtractionResult is the palette and aggregate color statistics for a
// single screenshot. Percentages are not required to sum to 100: transparent
// pixels are excluded from clustering, and centroids only count pixels within
// their capture radius.
type ColorExtractionResult struct {
	DominantColors    []ColorInfo `json:"dominant_colors"`
	AverageBrightness float64     `json:"average_brightness"`
	AverageSaturation float64     `json:"average_saturation"`
	ColorCount        int         `json:"color_count"`
}

// TextRegion is one grid cell flagged as text-like. Coordinates and sizes are
// percentages of the image dimensions.
type TextRegion struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Confidence float64 `json:"confidence"`
}

// TextEstimationResult approximates text coverage from edge density without
// reading actual text.
type TextEstimationResult struct {
	TextRegions             []TextRegion `json:"text_regions"`
	TextDensity             float64      `json:"text_density"`
	EstimatedTextPercentage float64      `json:"estimated_text_percentage"`
	HasTopText              bool         `json:"has_top_text"`
	HasCenterText           bool         `json:"has_center_text"`
	HasBottomText           bool         `json:"has_bottom_text"`
}

// BoundingBox is a pixel-space rectangle from the OCR engine.
type BoundingBox struct {
	X0 int `json:"x0"`
	Y0 int `json:"y0"`
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
}

// OCRWord is a single recognized word. Confidence is normalized to 0-1.
type OCRWord struct {
	Text       string      `json:"text"`
	Confidence float64     `json:"confidence"`
	BBox       BoundingBox `json:"bbox"`
}

// OCRLine is a recognized text line. Confidence is normalized to 0-1.
type OCRLine struct {
	Text       string      `json:"text"`
	Confidence float64     `json:"confidence"`
	BBox       BoundingBox `json:"bbox"`
}

// OCRResult holds literal text extraction from the advanced OCR path.
// Present only when advanced OCR is enabled for the analysis.
type OCRResult struct {
	Text           string    `json:"text"`
	Confidence     float64   `json:"confidence"`
	Lines          []OCRLine `json:"lines"`
	Words          []OCRWord `json:"words"`
	ProcessingTime int64     `json:"processing_time_ms"`

	// Accuracy against caller-supplied expected text, when provided.
	ExpectedText string  `json:"expected_text,omitempty"`
	MatchScore   float64 `json:"match_score,omitempty"`
	WER          float64 `json:"word_error_rate,omitempty"`
}

// ThemeStyle is a discrete visual-style label.
type ThemeStyle string

const (
	ThemeMinimal      ThemeStyle = "minimal"
	ThemeVibrant      ThemeStyle = "vibrant"
	ThemeDark         ThemeStyle = "dark"
	ThemeLight        ThemeStyle = "light"
	ThemeGradient     ThemeStyle = "gradient"
	ThemePhoto        ThemeStyle = "photo"
	ThemeIllustration ThemeStyle = "illustration"
)

// ThemeClassification maps color statistics onto a visual style. Deterministic
// for a given ColorExtractionResult.
type ThemeClassification struct {
	Primary    ThemeStyle `json:"primary"`
	Secondary  ThemeStyle `json:"secondary,omitempty"`
	Confidence float64    `json:"confidence"`
	Reasons    []string   `json:"reasons"`
}

// LayoutType classifies how text and imagery are spatially distributed.
type LayoutType string

const (
	LayoutTextHeavy   LayoutType = "text-heavy"
	LayoutImageHeavy  LayoutType = "image-heavy"
	LayoutBalanced    LayoutType = "balanced"
	LayoutTopHeavy    LayoutType = "top-heavy"
	LayoutBottomHeavy LayoutType = "bottom-heavy"
	LayoutCentered    LayoutType = "centered"
)

// CTAPosition is where a call-to-action element was detected.
type CTAPosition string

const (
	CTATop    CTAPosition = "top"
	CTACenter CTAPosition = "center"
	CTABottom CTAPosition = "bottom"
)

// LayoutAnalysis combines text-density and color signals into a layout
// classification and a 0-100 quality score.
type LayoutAnalysis struct {
	LayoutType       LayoutType  `json:"layout_type"`
	Confidence       float64     `json:"confidence"`
	TextToImageRatio float64     `json:"text_to_image_ratio"`
	VisualDensity    float64     `json:"visual_density"`
	HasCTA           bool        `json:"has_cta"`
	CTAPosition      CTAPosition `json:"cta_position,omitempty"`
	LayoutScore      int         `json:"layout_score"`
	Insights         []string    `json:"insights"`
}

// ScreenshotAnalysisResult is the complete per-screenshot analysis. Never
// mutated after the orchestrator assembles it.
type ScreenshotAnalysisResult struct {
	ScreenshotURL   string                `json:"screenshot_url"`
	ScreenshotIndex int                   `json:"screenshot_index"`
	Colors          ColorExtractionResult `json:"colors"`
	Text            TextEstimationResult  `json:"text"`
	OCR             *OCRResult            `json:"ocr,omitempty"`
	Theme           ThemeClassification   `json:"theme"`
	Layout          LayoutAnalysis        `json:"layout"`
	AnalyzedAt      time.Time             `json:"analyzed_at"`
	ProcessingTime  int64                 `json:"processing_time_ms"`
}

// BatchError records a per-screenshot failure inside a batch.
type BatchError struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

// BatchAnalysisResult aggregates a batch run. Invariants:
// SuccessCount+ErrorCount equals the number of input URLs, and
// len(Results) equals SuccessCount with input order preserved.
type BatchAnalysisResult struct {
	Results             []ScreenshotAnalysisResult `json:"results"`
	TotalProcessingTime int64                      `json:"total_processing_time_ms"`
	SuccessCount        int                        `json:"success_count"`
	ErrorCount          int                        `json:"error_count"`
	Errors              []BatchError               `json:"errors,omitempty"`
}

// BatchSummary is the aggregate view consumed by scoring and AI-insight
// generation.
type BatchSummary struct {
	AverageTextDensity float64    `json:"average_text_density"`
	MostCommonTheme    ThemeStyle `json:"most_common_theme"`
	MostCommonLayout   LayoutType `json:"most_common_layout"`
	AverageColorCount  float64    `json:"average_color_count"`
	AverageLayoutScore float64    `json:"average_layout_score"`
}
