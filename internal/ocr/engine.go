package ocr

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"strings"
	"time"

	"github.com/arbovm/levenshtein"
	"github.com/codycollier/wer"

	apperrors "go-screenshot-analyzer/internal/errors"
	"go-screenshot-analyzer/pkg/models"
)

// engineState tracks the shared worker lifecycle.
type engineState int

const (
	stateUninitialized engineState = iota
	stateInitializing
	stateReady
)

// ProgressUpdate reports recognition progress to the caller.
type ProgressUpdate struct {
	Status   string  `json:"status"`
	Progress float64 `json:"progress"`
}

// ProgressFunc receives progress callbacks during recognition.
type ProgressFunc func(ProgressUpdate)

// Engine is the process-wide advanced OCR adapter: one expensive-to-start
// recognition worker, lazily initialized and shared across calls. Concurrent
// callers before the first successful start share a single in-flight
// initialization; recognition itself is serialized on the worker.
type Engine struct {
	factory func() (Recognizer, error)

	mu       chan struct{} // guards state transitions
	state    engineState
	initDone chan struct{}
	initErr  error

	recMu      chan struct{} // serializes recognizer use
	recognizer Recognizer
}

// NewEngine creates an adapter over a tesseract worker with the given
// language model. The worker is not started until the first extraction.
func NewEngine(language string) *Engine {
	return NewEngineWithFactory(func() (Recognizer, error) {
		return newGosseractRecognizer(language)
	})
}

// NewEngineWithFactory creates an adapter with a caller-supplied recognizer
// factory. Used by tests to avoid the tesseract runtime dependency.
func NewEngineWithFactory(factory func() (Recognizer, error)) *Engine {
	e := &Engine{
		factory: factory,
		mu:      make(chan struct{}, 1),
		recMu:   make(chan struct{}, 1),
	}
	e.mu <- struct{}{}
	e.recMu <- struct{}{}
	return e
}

func (e *Engine) lock(ctx context.Context, sem chan struct{}) error {
	select {
	case <-sem:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Engine) unlock(sem chan struct{}) {
	sem <- struct{}{}
}

// ensureInitialized starts the worker on first use. Initialization failure is
// fatal for the calling extraction but resets state so a later call retries
// from scratch.
func (e *Engine) ensureInitialized(ctx context.Context) error {
	for {
		if err := e.lock(ctx, e.mu); err != nil {
			return err
		}

		switch e.state {
		case stateReady:
			e.unlock(e.mu)
			return nil

		case stateInitializing:
			done := e.initDone
			e.unlock(e.mu)
			select {
			case <-done:
				// Re-check: the in-flight attempt may have failed
				if err := e.lock(ctx, e.mu); err != nil {
					return err
				}
				if e.state == stateReady {
					e.unlock(e.mu)
					return nil
				}
				err := e.initErr
				e.unlock(e.mu)
				return err
			case <-ctx.Done():
				return ctx.Err()
			}

		case stateUninitialized:
			e.state = stateInitializing
			e.initDone = make(chan struct{})
			done := e.initDone
			e.unlock(e.mu)

			rec, err := e.factory()

			if lockErr := e.lock(context.Background(), e.mu); lockErr != nil {
				return lockErr
			}
			if err != nil {
				e.state = stateUninitialized
				e.initErr = apperrors.NewOCRInitError(err)
				failure := e.initErr
				close(done)
				e.unlock(e.mu)
				return failure
			}
			e.recognizer = rec
			e.state = stateReady
			e.initErr = nil
			close(done)
			e.unlock(e.mu)
			return nil
		}
	}
}

// ExtractText runs the recognition worker over a decoded screenshot and
// returns literal text, words, lines, and normalized confidences.
func (e *Engine) ExtractText(ctx context.Context, img image.Image, onProgress ProgressFunc) (*models.OCRResult, error) {
	start := time.Now()
	report := func(status string, progress float64) {
		if onProgress != nil {
			onProgress(ProgressUpdate{Status: status, Progress: progress})
		}
	}

	report("initializing", 0)
	if err := e.ensureInitialized(ctx); err != nil {
		return nil, err
	}

	report("encoding", 0.2)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, apperrors.NewProcessingError("failed to encode image for OCR", err)
	}

	report("recognizing", 0.4)
	if err := e.lock(ctx, e.recMu); err != nil {
		return nil, err
	}
	recognition, err := e.recognizer.Recognize(buf.Bytes())
	e.unlock(e.recMu)
	if err != nil {
		return nil, apperrors.NewProcessingError("text recognition failed", err)
	}

	report("assembling", 0.9)
	result := assembleResult(recognition, time.Since(start))
	report("done", 1)
	return result, nil
}

// ExtractTextBatch recognizes each screenshot in order. A per-image failure
// yields an empty zero-confidence placeholder instead of aborting the batch.
func (e *Engine) ExtractTextBatch(ctx context.Context, imgs []image.Image, onProgress func(index int, update ProgressUpdate)) ([]*models.OCRResult, error) {
	results := make([]*models.OCRResult, len(imgs))
	for i, img := range imgs {
		var progress ProgressFunc
		if onProgress != nil {
			idx := i
			progress = func(u ProgressUpdate) { onProgress(idx, u) }
		}

		result, err := e.ExtractText(ctx, img, progress)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			results[i] = emptyResult()
			continue
		}
		results[i] = result
	}
	return results, nil
}

// ScoreAccuracy annotates an extraction with its accuracy against caller
// expected text: normalized Levenshtein match score plus word error rate.
func (e *Engine) ScoreAccuracy(result *models.OCRResult, expectedText string) {
	if result == nil || strings.TrimSpace(expectedText) == "" {
		return
	}
	result.ExpectedText = expectedText

	got := strings.TrimSpace(result.Text)
	want := strings.TrimSpace(expectedText)
	if maxLen := max(len(got), len(want)); maxLen > 0 {
		distance := levenshtein.Distance(got, want)
		result.MatchScore = 1 - float64(distance)/float64(maxLen)
	}

	refWords := strings.Fields(want)
	hypWords := strings.Fields(got)
	if len(refWords) > 0 {
		rate, _ := wer.WER(refWords, hypWords)
		result.WER = rate
	}
}

// Terminate releases the worker. Safe to call when no worker exists, and
// safe to call repeatedly.
func (e *Engine) Terminate() error {
	if err := e.lock(context.Background(), e.mu); err != nil {
		return err
	}
	defer e.unlock(e.mu)

	if e.state != stateReady || e.recognizer == nil {
		e.state = stateUninitialized
		return nil
	}

	err := e.recognizer.Close()
	e.recognizer = nil
	e.state = stateUninitialized
	return err
}

func assembleResult(recognition Recognition, elapsed time.Duration) *models.OCRResult {
	words := make([]models.OCRWord, 0, len(recognition.Words))
	var confidenceSum float64
	for _, span := range recognition.Words {
		words = append(words, models.OCRWord{
			Text:       span.Text,
			Confidence: normalizeConfidence(span.Confidence),
			BBox:       models.BoundingBox{X0: span.X0, Y0: span.Y0, X1: span.X1, Y1: span.Y1},
		})
		confidenceSum += normalizeConfidence(span.Confidence)
	}

	lines := make([]models.OCRLine, 0, len(recognition.Lines))
	for _, span := range recognition.Lines {
		lines = append(lines, models.OCRLine{
			Text:       span.Text,
			Confidence: normalizeConfidence(span.Confidence),
			BBox:       models.BoundingBox{X0: span.X0, Y0: span.Y0, X1: span.X1, Y1: span.Y1},
		})
	}

	var confidence float64
	if len(words) > 0 {
		confidence = confidenceSum / float64(len(words))
	}

	return &models.OCRResult{
		Text:           recognition.Text,
		Confidence:     confidence,
		Lines:          lines,
		Words:          words,
		ProcessingTime: elapsed.Milliseconds(),
	}
}

// normalizeConfidence converts the engine's 0-100 confidence to 0-1.
func normalizeConfidence(c float64) float64 {
	normalized := c / 100
	if normalized < 0 {
		return 0
	}
	if normalized > 1 {
		return 1
	}
	return normalized
}

func emptyResult() *models.OCRResult {
	return &models.OCRResult{
		Text:       "",
		Confidence: 0,
		Lines:      []models.OCRLine{},
		Words:      []models.OCRWord{},
	}
}
