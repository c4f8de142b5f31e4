package scoring

import (
	"math"
	"strings"

	"go-screenshot-analyzer/pkg/models"
)

// Weights distributes the rubric across the creative signals. Values sum
// to 1 per category.
type Weights struct {
	Layout      float64 `json:"layout"`
	Theme       float64 `json:"theme"`
	TextBalance float64 `json:"text_balance"`
	CTA         float64 `json:"cta"`
}

// Category rubrics: visually driven categories lean on layout and theme,
// utility categories reward text clarity and explicit CTAs.
var categoryWeights = map[string]Weights{
	"default":      {Layout: 0.35, Theme: 0.25, TextBalance: 0.25, CTA: 0.15},
	"games":        {Layout: 0.40, Theme: 0.35, TextBalance: 0.10, CTA: 0.15},
	"productivity": {Layout: 0.30, Theme: 0.15, TextBalance: 0.35, CTA: 0.20},
	"finance":      {Layout: 0.30, Theme: 0.15, TextBalance: 0.30, CTA: 0.25},
	"photo-video":  {Layout: 0.35, Theme: 0.40, TextBalance: 0.10, CTA: 0.15},
}

// ScoreCard is the weighted rubric result for a batch of screenshots.
type ScoreCard struct {
	Category  string             `json:"category"`
	Score     int                `json:"score"`
	Tier      string             `json:"tier"`
	Breakdown map[string]float64 `json:"breakdown"`
}

// WeightsForCategory resolves a category string to its rubric weights,
// falling back to the default rubric for unknown categories.
func WeightsForCategory(category string) Weights {
	if w, ok := categoryWeights[strings.ToLower(strings.TrimSpace(category))]; ok {
		return w
	}
	return categoryWeights["default"]
}

// ScoreBatch maps analysis output onto the weighted rubric, producing an
// overall 0-100 score and tier. Empty batches score zero.
func ScoreBatch(batch *models.BatchAnalysisResult, summary models.BatchSummary, category string) ScoreCard {
	card := ScoreCard{
		Category:  category,
		Tier:      "unrated",
		Breakdown: map[string]float64{},
	}
	if batch == nil || len(batch.Results) == 0 {
		return card
	}

	weights := WeightsForCategory(category)

	layoutComponent := summary.AverageLayoutScore
	themeComponent := averageThemeConfidence(batch.Results) * 100
	textComponent := textBalanceScore(summary.AverageTextDensity)
	ctaComponent := ctaCoverage(batch.Results) * 100

	card.Breakdown["layout"] = round1(layoutComponent)
	card.Breakdown["theme"] = round1(themeComponent)
	card.Breakdown["text_balance"] = round1(textComponent)
	card.Breakdown["cta"] = round1(ctaComponent)

	weighted := weights.Layout*layoutComponent +
		weights.Theme*themeComponent +
		weights.TextBalance*textComponent +
		weights.CTA*ctaComponent

	card.Score = clampScore(int(math.Round(weighted)))
	card.Tier = tierForScore(card.Score)
	return card
}

func averageThemeConfidence(results []models.ScreenshotAnalysisResult) float64 {
	var sum float64
	for _, r := range results {
		sum += r.Theme.Confidence
	}
	return sum / float64(len(results))
}

// textBalanceScore peaks in the 0.2-0.6 density band and falls off linearly
// outside it.
func textBalanceScore(density float64) float64 {
	switch {
	case density >= 0.2 && density <= 0.6:
		return 100
	case density < 0.2:
		return 50 + density/0.2*50
	default:
		overflow := density - 0.6
		score := 100 - overflow/0.4*60
		if score < 0 {
			return 0
		}
		return score
	}
}

func ctaCoverage(results []models.ScreenshotAnalysisResult) float64 {
	withCTA := 0
	for _, r := range results {
		if r.Layout.HasCTA {
			withCTA++
		}
	}
	return float64(withCTA) / float64(len(results))
}

func tierForScore(score int) string {
	switch {
	case score >= 85:
		return "excellent"
	case score >= 70:
		return "strong"
	case score >= 55:
		return "competitive"
	case score >= 40:
		return "developing"
	default:
		return "weak"
	}
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
