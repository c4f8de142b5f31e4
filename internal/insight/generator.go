package insight

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jmorganca/ollama/api"

	"go-screenshot-analyzer/pkg/models"
)

// Generator turns batch analysis output into creative-direction prose via a
// text-generation backend. The model call is an opaque network hop; this
// package only owns the input contract, the fixed result fields serialized
// into the prompt.
type Generator struct {
	client *api.Client
	model  string
}

// NewGenerator creates a generator against an Ollama endpoint.
func NewGenerator(ollamaURL, model string) (*Generator, error) {
	parsedURL, err := url.Parse(ollamaURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama URL: %w", err)
	}

	baseURL := &url.URL{
		Scheme: parsedURL.Scheme,
		Host:   parsedURL.Host,
	}

	return &Generator{
		client: api.NewClient(baseURL, http.DefaultClient),
		model:  model,
	}, nil
}

// BuildPrompt serializes every per-screenshot field the insight model reads:
// theme, layout, text coverage, CTA position, and an OCR excerpt when the
// advanced path ran.
func BuildPrompt(batch *models.BatchAnalysisResult, summary models.BatchSummary) string {
	var b strings.Builder

	b.WriteString("You are an app store creative consultant. Review the screenshot analysis below and suggest three concrete improvements.\n\n")
	fmt.Fprintf(&b, "Set overview: %d screenshots analyzed, dominant theme %q, dominant layout %q, average text coverage %.0f%%, average layout score %.0f/100.\n\n",
		len(batch.Results), summary.MostCommonTheme, summary.MostCommonLayout,
		summary.AverageTextDensity*100, summary.AverageLayoutScore)

	for _, r := range batch.Results {
		fmt.Fprintf(&b, "Screenshot %d: theme=%s (confidence %.2f), layout=%s, text coverage %.0f%%, layout score %d/100",
			r.ScreenshotIndex+1, r.Theme.Primary, r.Theme.Confidence,
			r.Layout.LayoutType, r.Text.EstimatedTextPercentage, r.Layout.LayoutScore)
		if r.Layout.HasCTA {
			fmt.Fprintf(&b, ", CTA at %s", r.Layout.CTAPosition)
		} else {
			b.WriteString(", no CTA detected")
		}
		if r.OCR != nil && strings.TrimSpace(r.OCR.Text) != "" {
			fmt.Fprintf(&b, ", visible text: %q", excerpt(r.OCR.Text, 120))
		}
		b.WriteString("\n")
	}

	if batch.ErrorCount > 0 {
		fmt.Fprintf(&b, "\n%d screenshot(s) failed to analyze and are excluded.\n", batch.ErrorCount)
	}
	return b.String()
}

// Generate sends the serialized batch to the model and returns its prose.
func (g *Generator) Generate(ctx context.Context, batch *models.BatchAnalysisResult, summary models.BatchSummary) (string, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 120*time.Second)
		defer cancel()
	}

	streamFalse := false
	req := &api.ChatRequest{
		Model: g.model,
		Messages: []api.Message{
			{
				Role:    "user",
				Content: BuildPrompt(batch, summary),
			},
		},
		Stream: &streamFalse,
	}

	var responseContent string
	err := g.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		responseContent = resp.Message.Content
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("insight generation failed: %w", err)
	}
	return responseContent, nil
}

// excerpt collapses whitespace and truncates on a rune boundary; OCR text
// can contain multi-byte characters that a byte slice would split.
func excerpt(text string, limit int) string {
	cleaned := strings.Join(strings.Fields(text), " ")
	runes := []rune(cleaned)
	if len(runes) <= limit {
		return cleaned
	}
	return string(runes[:limit]) + "..."
}
