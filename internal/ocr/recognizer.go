package ocr

import (
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// Span is one recognized word or line as reported by the underlying engine.
// Confidence uses the engine's native 0-100 scale; the Engine normalizes it
// before results leave this package.
type Span struct {
	Text       string
	Confidence float64
	X0, Y0     int
	X1, Y1     int
}

// Recognition is the raw output of one recognition pass.
type Recognition struct {
	Text  string
	Words []Span
	Lines []Span
}

// Recognizer abstracts the text-recognition engine so the Engine lifecycle
// and tests do not depend on the tesseract runtime.
type Recognizer interface {
	Recognize(img []byte) (Recognition, error)
	Close() error
}

// gosseractRecognizer backs Recognizer with a tesseract worker via gosseract.
type gosseractRecognizer struct {
	client *gosseract.Client
}

func newGosseractRecognizer(language string) (Recognizer, error) {
	client := gosseract.NewClient()
	if err := client.SetLanguage(language); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set OCR language %q: %w", language, err)
	}
	return &gosseractRecognizer{client: client}, nil
}

func (g *gosseractRecognizer) Recognize(img []byte) (Recognition, error) {
	if err := g.client.SetImageFromBytes(img); err != nil {
		return Recognition{}, fmt.Errorf("failed to load image into OCR engine: %w", err)
	}

	text, err := g.client.Text()
	if err != nil {
		return Recognition{}, fmt.Errorf("text recognition failed: %w", err)
	}

	wordBoxes, err := g.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return Recognition{}, fmt.Errorf("word box extraction failed: %w", err)
	}
	lineBoxes, err := g.client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return Recognition{}, fmt.Errorf("line box extraction failed: %w", err)
	}

	return Recognition{
		Text:  text,
		Words: convertBoxes(wordBoxes),
		Lines: convertBoxes(lineBoxes),
	}, nil
}

func (g *gosseractRecognizer) Close() error {
	return g.client.Close()
}

func convertBoxes(boxes []gosseract.BoundingBox) []Span {
	spans := make([]Span, 0, len(boxes))
	for _, b := range boxes {
		spans = append(spans, Span{
			Text:       b.Word,
			Confidence: b.Confidence,
			X0:         b.Box.Min.X,
			Y0:         b.Box.Min.Y,
			X1:         b.Box.Max.X,
			Y1:         b.Box.Max.Y,
		})
	}
	return spans
}
