package analyzer

import (
	"fmt"

	"go-screenshot-analyzer/pkg/models"
)

// ClassifyTheme maps color statistics onto a discrete visual style via
// additive rule scoring. Pure function of its input: identical
// ColorExtractionResult values always produce identical classifications.
func ClassifyTheme(colors models.ColorExtractionResult) models.ThemeClassification {
	scores := map[models.ThemeStyle]int{}
	reasons := []string{}

	addScore := func(style models.ThemeStyle, points int, reason string) {
		scores[style] += points
		reasons = append(reasons, reason)
	}

	brightness := colors.AverageBrightness
	saturation := colors.AverageSaturation
	colorCount := colors.ColorCount

	// Brightness bands are mutually exclusive: only the stronger threshold
	// applies.
	if brightness < 0.3 {
		addScore(models.ThemeDark, 40, "Very low overall brightness")
	} else if brightness < 0.4 {
		addScore(models.ThemeDark, 20, "Low overall brightness")
	}

	if brightness > 0.7 {
		addScore(models.ThemeLight, 40, "Very high overall brightness")
	} else if brightness > 0.6 {
		addScore(models.ThemeLight, 20, "High overall brightness")
	}

	if colorCount <= 2 {
		addScore(models.ThemeMinimal, 30, "Restrained palette of one or two colors")
	}
	if saturation < 0.2 {
		addScore(models.ThemeMinimal, 20, "Muted, low-saturation colors")
	}

	if saturation > 0.6 {
		addScore(models.ThemeVibrant, 40, "Strongly saturated colors")
	} else if saturation > 0.4 {
		addScore(models.ThemeVibrant, 20, "Noticeably saturated colors")
	}
	if colorCount >= 4 {
		addScore(models.ThemeVibrant, 15, "Wide palette of distinct colors")
	}

	if colorCount >= 3 && saturation > 0.3 && hasGradientPattern(colors.DominantColors) {
		addScore(models.ThemeGradient, 35, "Adjacent dominant colors form a gradient progression")
	}

	if colorCount >= 5 {
		addScore(models.ThemePhoto, 25, "Rich color variety typical of photography")
	}
	if colorCount <= 3 && saturation > 0.5 {
		addScore(models.ThemeIllustration, 25, "Few bold colors typical of illustration")
	}

	primary, secondary, primaryScore, secondaryScore := topStyles(scores)

	confidence := float64(primaryScore) / 100
	if confidence > 1 {
		confidence = 1
	}

	classification := models.ThemeClassification{
		Primary:    primary,
		Confidence: confidence,
		Reasons:    buildReasons(reasons, primary, confidence),
	}
	if secondaryScore > 15 {
		classification.Secondary = secondary
	}
	return classification
}

// hasGradientPattern reports whether adjacent dominant colors, ordered by
// rank, have pairwise Euclidean RGB distance in (30, 150): close enough to
// blend, far enough to read as a progression.
func hasGradientPattern(palette []models.ColorInfo) bool {
	if len(palette) < 2 {
		return false
	}
	for i := 0; i < len(palette)-1; i++ {
		a := palette[i].RGB
		b := palette[i+1].RGB
		d := rgbDistance(
			rgbPoint{float64(a.R), float64(a.G), float64(a.B)},
			rgbPoint{float64(b.R), float64(b.G), float64(b.B)},
		)
		if d <= 30 || d >= 150 {
			return false
		}
	}
	return true
}

// styleOrder fixes iteration order so ties resolve deterministically.
// Brightness-driven styles come first: when a dark or light screenshot also
// happens to be saturated, the brightness signal names the theme.
var styleOrder = []models.ThemeStyle{
	models.ThemeDark,
	models.ThemeLight,
	models.ThemeMinimal,
	models.ThemeVibrant,
	models.ThemeGradient,
	models.ThemePhoto,
	models.ThemeIllustration,
}

func topStyles(scores map[models.ThemeStyle]int) (primary, secondary models.ThemeStyle, primaryScore, secondaryScore int) {
	primary = models.ThemeMinimal
	primaryScore = -1
	secondaryScore = -1

	for _, style := range styleOrder {
		score := scores[style]
		if score > primaryScore {
			secondary, secondaryScore = primary, primaryScore
			primary, primaryScore = style, score
		} else if score > secondaryScore {
			secondary, secondaryScore = style, score
		}
	}
	return primary, secondary, primaryScore, secondaryScore
}

// buildReasons keeps at most two triggered-rule reasons and closes with a
// qualitative strength statement.
func buildReasons(triggered []string, primary models.ThemeStyle, confidence float64) []string {
	reasons := triggered
	if len(reasons) > 2 {
		reasons = reasons[:2]
	}

	strength := "Weak"
	if confidence >= 0.7 {
		strength = "Strong"
	} else if confidence >= 0.4 {
		strength = "Moderate"
	}
	return append(reasons, fmt.Sprintf("%s %s theme detected", strength, primary))
}
