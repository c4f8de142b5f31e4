package insight

import (
	"strings"
	"testing"
	"unicode/utf8"

	"go-screenshot-analyzer/pkg/models"
)

func TestBuildPrompt(t *testing.T) {
	batch := &models.BatchAnalysisResult{
		Results: []models.ScreenshotAnalysisResult{
			{
				ScreenshotIndex: 0,
				Theme:           models.ThemeClassification{Primary: models.ThemeVibrant, Confidence: 0.72},
				Layout: models.LayoutAnalysis{
					LayoutType:  models.LayoutBalanced,
					LayoutScore: 78,
					HasCTA:      true,
					CTAPosition: models.CTABottom,
				},
				Text: models.TextEstimationResult{EstimatedTextPercentage: 32},
				OCR:  &models.OCRResult{Text: "Track your habits daily"},
			},
			{
				ScreenshotIndex: 1,
				Theme:           models.ThemeClassification{Primary: models.ThemeDark, Confidence: 0.4},
				Layout:          models.LayoutAnalysis{LayoutType: models.LayoutImageHeavy, LayoutScore: 55},
				Text:            models.TextEstimationResult{EstimatedTextPercentage: 8},
			},
		},
		SuccessCount: 2,
		ErrorCount:   1,
	}
	summary := models.BatchSummary{
		MostCommonTheme:    models.ThemeVibrant,
		MostCommonLayout:   models.LayoutBalanced,
		AverageTextDensity: 0.2,
		AverageLayoutScore: 66.5,
	}

	prompt := BuildPrompt(batch, summary)

	for _, want := range []string{
		"2 screenshots analyzed",
		`dominant theme "vibrant"`,
		"Screenshot 1: theme=vibrant",
		"CTA at bottom",
		`visible text: "Track your habits daily"`,
		"Screenshot 2: theme=dark",
		"no CTA detected",
		"1 screenshot(s) failed to analyze",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestExcerptTruncatesLongText(t *testing.T) {
	long := strings.Repeat("word ", 60)
	got := excerpt(long, 120)
	if len(got) != 123 {
		t.Errorf("Expected 120 chars plus ellipsis, got %d", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("Expected ellipsis suffix, got %q", got)
	}

	if got := excerpt("  short   text  ", 120); got != "short text" {
		t.Errorf("Expected whitespace collapse, got %q", got)
	}
}

func TestExcerptKeepsRunesIntact(t *testing.T) {
	// OCR output is not guaranteed ASCII; truncation must not split a rune
	long := strings.Repeat("日本語テキスト ", 30)
	got := excerpt(long, 10)

	if !utf8.ValidString(got) {
		t.Errorf("Expected valid UTF-8 after truncation, got %q", got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("Expected ellipsis suffix, got %q", got)
	}
	if n := utf8.RuneCountInString(strings.TrimSuffix(got, "...")); n != 10 {
		t.Errorf("Expected 10 runes before the ellipsis, got %d", n)
	}
}

func TestNewGenerator_RejectsInvalidURL(t *testing.T) {
	if _, err := NewGenerator("http://localhost:11434", "llama3.2"); err != nil {
		t.Fatalf("Expected valid URL to succeed, got: %v", err)
	}
	if _, err := NewGenerator("://bad", "llama3.2"); err == nil {
		t.Error("Expected error for malformed URL")
	}
}
