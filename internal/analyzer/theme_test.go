package analyzer

import (
	"reflect"
	"strings"
	"testing"

	"go-screenshot-analyzer/pkg/models"
)

func TestClassifyTheme(t *testing.T) {
	tests := []struct {
		name            string
		colors          models.ColorExtractionResult
		expectPrimary   models.ThemeStyle
		expectSecondary models.ThemeStyle
		minConfidence   float64
	}{
		{
			name: "Dark theme from very low brightness",
			colors: models.ColorExtractionResult{
				AverageBrightness: 0.15,
				AverageSaturation: 0.3,
				ColorCount:        4,
			},
			expectPrimary: models.ThemeDark,
			minConfidence: 0.4,
		},
		{
			name: "Light theme from very high brightness",
			colors: models.ColorExtractionResult{
				AverageBrightness: 0.85,
				AverageSaturation: 0.25,
				ColorCount:        4,
			},
			expectPrimary: models.ThemeLight,
			minConfidence: 0.4,
		},
		{
			name: "Vibrant theme from strong saturation and wide palette",
			colors: models.ColorExtractionResult{
				AverageBrightness: 0.5,
				AverageSaturation: 0.7,
				ColorCount:        4,
			},
			expectPrimary: models.ThemeVibrant,
			minConfidence: 0.5,
		},
		{
			name: "Minimal theme from restrained muted palette",
			colors: models.ColorExtractionResult{
				AverageBrightness: 0.5,
				AverageSaturation: 0.1,
				ColorCount:        2,
			},
			expectPrimary: models.ThemeMinimal,
			minConfidence: 0.5,
		},
		{
			name: "Photo theme from rich color variety",
			colors: models.ColorExtractionResult{
				AverageBrightness: 0.5,
				AverageSaturation: 0.25,
				ColorCount:        6,
			},
			expectPrimary: models.ThemePhoto,
		},
		{
			name: "Dark primary with minimal secondary",
			colors: models.ColorExtractionResult{
				AverageBrightness: 0.2,
				AverageSaturation: 0.1,
				ColorCount:        3,
			},
			expectPrimary:   models.ThemeDark,
			expectSecondary: models.ThemeMinimal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ClassifyTheme(tt.colors)

			if result.Primary != tt.expectPrimary {
				t.Errorf("Expected primary %s, got %s", tt.expectPrimary, result.Primary)
			}
			if tt.expectSecondary != "" && result.Secondary != tt.expectSecondary {
				t.Errorf("Expected secondary %s, got %s", tt.expectSecondary, result.Secondary)
			}
			if result.Confidence < tt.minConfidence || result.Confidence > 1 {
				t.Errorf("Confidence %v outside expected range [%v, 1]",
					result.Confidence, tt.minConfidence)
			}
			if len(result.Reasons) == 0 {
				t.Error("Expected at least one reason")
			}
		})
	}
}

func TestClassifyTheme_GradientProgression(t *testing.T) {
	// Adjacent ranked colors a moderate distance apart read as a gradient
	colors := models.ColorExtractionResult{
		AverageBrightness: 0.5,
		AverageSaturation: 0.35,
		ColorCount:        3,
		DominantColors: []models.ColorInfo{
			{RGB: models.RGB{R: 100, G: 100, B: 200}},
			{RGB: models.RGB{R: 150, G: 100, B: 180}},
			{RGB: models.RGB{R: 200, G: 100, B: 160}},
		},
	}

	result := ClassifyTheme(colors)
	if result.Primary != models.ThemeGradient {
		t.Errorf("Expected gradient theme, got %s", result.Primary)
	}

	// Pairs too far apart break the progression
	colors.DominantColors[1] = models.ColorInfo{RGB: models.RGB{R: 255, G: 255, B: 0}}
	result = ClassifyTheme(colors)
	if result.Primary == models.ThemeGradient {
		t.Error("Expected no gradient theme for disjoint palette")
	}
}

func TestClassifyTheme_Deterministic(t *testing.T) {
	colors := models.ColorExtractionResult{
		AverageBrightness: 0.45,
		AverageSaturation: 0.45,
		ColorCount:        3,
	}

	first := ClassifyTheme(colors)
	for i := 0; i < 10; i++ {
		if next := ClassifyTheme(colors); !reflect.DeepEqual(first, next) {
			t.Fatalf("Classification not deterministic: %+v vs %+v", first, next)
		}
	}
}

func TestClassifyTheme_ReasonsIncludeStrengthStatement(t *testing.T) {
	result := ClassifyTheme(models.ColorExtractionResult{
		AverageBrightness: 0.15,
		AverageSaturation: 0.3,
		ColorCount:        4,
	})

	last := result.Reasons[len(result.Reasons)-1]
	if !strings.Contains(last, "theme detected") {
		t.Errorf("Expected closing strength statement, got %q", last)
	}
	if len(result.Reasons) > 3 {
		t.Errorf("Expected at most 3 reasons, got %d", len(result.Reasons))
	}
}
