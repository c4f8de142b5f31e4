package analyzer

import (
	"fmt"

	"go-screenshot-analyzer/pkg/models"
)

// AnalyzeLayout combines text-density and color signals into a layout
// classification, a 0-100 quality score, and CTA detection. Pure function of
// its inputs.
func AnalyzeLayout(text models.TextEstimationResult, colors models.ColorExtractionResult) models.LayoutAnalysis {
	layoutType := classifyLayoutType(text)

	visualDensity := 0.6*text.TextDensity + 0.4*clamp01(float64(colors.ColorCount)/10)
	visualDensity = clamp01(visualDensity)

	hasCTA, ctaPosition := detectCTA(text, colors)

	analysis := models.LayoutAnalysis{
		LayoutType:       layoutType,
		TextToImageRatio: text.TextDensity,
		VisualDensity:    visualDensity,
		HasCTA:           hasCTA,
		CTAPosition:      ctaPosition,
	}
	analysis.LayoutScore = scoreLayout(analysis)
	analysis.Confidence = layoutConfidence(text, colors)
	analysis.Insights = layoutInsights(analysis)
	return analysis
}

// classifyLayoutType applies rules in priority order; the first match wins.
func classifyLayoutType(text models.TextEstimationResult) models.LayoutType {
	if text.TextDensity > 0.4 {
		return models.LayoutTextHeavy
	}
	if text.TextDensity < 0.15 {
		return models.LayoutImageHeavy
	}

	positions := 0
	var positional models.LayoutType
	if text.HasTopText {
		positions++
		positional = models.LayoutTopHeavy
	}
	if text.HasBottomText {
		positions++
		positional = models.LayoutBottomHeavy
	}
	if text.HasCenterText {
		positions++
		positional = models.LayoutCentered
	}
	if positions == 1 {
		return positional
	}
	return models.LayoutBalanced
}

// detectCTA looks for the vibrant-color-plus-text signature of
// action-prompting UI elements, commonly placed bottom or center.
func detectCTA(text models.TextEstimationResult, colors models.ColorExtractionResult) (bool, models.CTAPosition) {
	vibrant := colors.AverageSaturation > 0.5
	switch {
	case vibrant && text.HasBottomText:
		return true, models.CTABottom
	case vibrant && text.HasCenterText:
		return true, models.CTACenter
	case text.HasBottomText:
		// Weak signal: bottom text without vibrancy
		return true, models.CTABottom
	default:
		return false, ""
	}
}

func scoreLayout(a models.LayoutAnalysis) int {
	score := 50

	switch a.LayoutType {
	case models.LayoutBalanced:
		score += 20
	case models.LayoutTextHeavy, models.LayoutImageHeavy:
		score += 10
	}

	if a.TextToImageRatio >= 0.2 && a.TextToImageRatio <= 0.6 {
		score += 15
	} else if a.TextToImageRatio < 0.1 || a.TextToImageRatio > 0.8 {
		score -= 10
	}

	if a.VisualDensity > 0.8 {
		score -= 15
	} else if a.VisualDensity < 0.2 {
		score -= 10
	} else if a.VisualDensity >= 0.4 && a.VisualDensity <= 0.6 {
		score += 10
	}

	if a.HasCTA {
		score += 15
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

func layoutConfidence(text models.TextEstimationResult, colors models.ColorExtractionResult) float64 {
	confidence := 0.5
	if text.TextDensity > 0.3 {
		confidence += 0.2
	}
	if len(text.TextRegions) >= 5 {
		confidence += 0.15
	}
	if colors.ColorCount >= 4 {
		confidence += 0.15
	}
	if confidence > 1 {
		confidence = 1
	}
	return confidence
}

// layoutInsights produces at most four human-readable observations, in
// generation order.
func layoutInsights(a models.LayoutAnalysis) []string {
	insights := []string{}

	switch a.LayoutType {
	case models.LayoutTextHeavy:
		insights = append(insights, "Text dominates the composition; consider letting the product shots breathe")
	case models.LayoutImageHeavy:
		insights = append(insights, "Imagery carries the screenshot with minimal text overlay")
	case models.LayoutBalanced:
		insights = append(insights, "Text and imagery share the frame evenly")
	case models.LayoutTopHeavy:
		insights = append(insights, "Messaging is concentrated in the top third")
	case models.LayoutBottomHeavy:
		insights = append(insights, "Messaging is concentrated in the bottom third")
	case models.LayoutCentered:
		insights = append(insights, "Messaging is centered in the frame")
	}

	if a.HasCTA {
		insights = append(insights, fmt.Sprintf("Call-to-action detected near the %s of the frame", a.CTAPosition))
	}

	if a.LayoutScore > 75 {
		insights = append(insights, "Well-balanced composition")
	} else if a.LayoutScore < 50 {
		insights = append(insights, "Layout may benefit from optimization")
	}

	if a.VisualDensity > 0.7 {
		insights = append(insights, "Composition reads as cluttered")
	} else if a.VisualDensity < 0.3 {
		insights = append(insights, "Clean, spacious composition")
	}

	if len(insights) > 4 {
		insights = insights[:4]
	}
	return insights
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
