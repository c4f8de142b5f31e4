package service

import (
	"context"
	"image"
	"time"

	"gonum.org/v1/gonum/stat"

	"go-screenshot-analyzer/internal/analyzer"
	apperrors "go-screenshot-analyzer/internal/errors"
	"go-screenshot-analyzer/internal/observer"
	"go-screenshot-analyzer/internal/ocr"
	"go-screenshot-analyzer/internal/repository"
	"go-screenshot-analyzer/pkg/models"
)

// ColorExtractor produces the dominant-color palette for a screenshot.
type ColorExtractor interface {
	Extract(img image.Image) models.ColorExtractionResult
}

// TextEstimator approximates text coverage without full OCR.
type TextEstimator interface {
	Estimate(img image.Image) models.TextEstimationResult
}

// TextRecognizer is the advanced OCR path.
type TextRecognizer interface {
	ExtractText(ctx context.Context, img image.Image, onProgress ocr.ProgressFunc) (*models.OCRResult, error)
}

// ScreenshotAnalysisService runs the creative analysis pipeline over
// individual screenshots and batches.
type ScreenshotAnalysisService interface {
	AnalyzeScreenshot(ctx context.Context, screenshotURL string, index int, useAdvancedOCR bool) (*models.ScreenshotAnalysisResult, error)
	AnalyzeBatch(ctx context.Context, urls []string, useAdvancedOCR bool) (*models.BatchAnalysisResult, error)
	GetBatchSummary(batch *models.BatchAnalysisResult) models.BatchSummary
}

type screenshotAnalysisService struct {
	screenshots  repository.ScreenshotRepository
	colors       ColorExtractor
	text         TextEstimator
	recognizer   TextRecognizer
	subject      observer.Subject
	batchWorkers int
}

// NewScreenshotAnalysisService wires the pipeline stages together.
// batchWorkers of 1 gives strictly sequential batch processing, the
// reference resource-bounding strategy; higher values fan screenshots out
// over a bounded pool while preserving result order and partial-failure
// semantics.
func NewScreenshotAnalysisService(
	screenshots repository.ScreenshotRepository,
	colors ColorExtractor,
	text TextEstimator,
	recognizer TextRecognizer,
	subject observer.Subject,
	batchWorkers int,
) ScreenshotAnalysisService {
	if batchWorkers < 1 {
		batchWorkers = 1
	}
	return &screenshotAnalysisService{
		screenshots:  screenshots,
		colors:       colors,
		text:         text,
		recognizer:   recognizer,
		subject:      subject,
		batchWorkers: batchWorkers,
	}
}

// AnalyzeScreenshot runs the full pipeline for one screenshot: colors, text
// signals (estimator, plus OCR when requested), theme, layout. Fails fast on
// any stage; the single-screenshot operation does not partially succeed.
func (s *screenshotAnalysisService) AnalyzeScreenshot(ctx context.Context, screenshotURL string, index int, useAdvancedOCR bool) (*models.ScreenshotAnalysisResult, error) {
	start := time.Now()
	s.notify(ctx, observer.ScreenshotAnalysisStarted, screenshotURL, index, 0, nil)

	result, err := s.analyze(ctx, screenshotURL, index, useAdvancedOCR, start)
	if err != nil {
		failure := apperrors.NewAnalysisFailure(index, err)
		s.notify(ctx, observer.ScreenshotAnalysisFailed, screenshotURL, index, time.Since(start), failure)
		return nil, failure
	}

	s.notify(ctx, observer.ScreenshotAnalysisCompleted, screenshotURL, index, time.Since(start), nil)
	return result, nil
}

func (s *screenshotAnalysisService) analyze(ctx context.Context, screenshotURL string, index int, useAdvancedOCR bool, start time.Time) (*models.ScreenshotAnalysisResult, error) {
	if err := s.screenshots.ValidateScreenshotURL(screenshotURL); err != nil {
		return nil, err
	}

	img, err := s.screenshots.FetchScreenshot(ctx, screenshotURL)
	if err != nil {
		return nil, apperrors.NewImageLoadError(screenshotURL, err)
	}

	colors := s.colors.Extract(img)

	// The estimator always runs: OCR reads literal text but produces no
	// density/position signals, and the layout heuristics need both.
	var ocrResult *models.OCRResult
	if useAdvancedOCR && s.recognizer != nil {
		ocrResult, err = s.recognizer.ExtractText(ctx, img, nil)
		if err != nil {
			return nil, err
		}
	}
	text := s.text.Estimate(img)

	theme := analyzer.ClassifyTheme(colors)
	layout := analyzer.AnalyzeLayout(text, colors)

	return &models.ScreenshotAnalysisResult{
		ScreenshotURL:   screenshotURL,
		ScreenshotIndex: index,
		Colors:          colors,
		Text:            text,
		OCR:             ocrResult,
		Theme:           theme,
		Layout:          layout,
		AnalyzedAt:      start,
		ProcessingTime:  time.Since(start).Milliseconds(),
	}, nil
}

// AnalyzeBatch processes screenshots in input order. A per-screenshot
// failure is recorded and the remaining screenshots still run; the batch
// always returns every result that succeeded.
func (s *screenshotAnalysisService) AnalyzeBatch(ctx context.Context, urls []string, useAdvancedOCR bool) (*models.BatchAnalysisResult, error) {
	start := time.Now()

	type slot struct {
		result *models.ScreenshotAnalysisResult
		err    error
	}
	slots := make([]slot, len(urls))

	if s.batchWorkers <= 1 {
		// Strictly sequential: screenshot i completes before i+1 begins,
		// bounding peak canvas/worker usage
		for i, url := range urls {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			result, err := s.AnalyzeScreenshot(ctx, url, i, useAdvancedOCR)
			slots[i] = slot{result: result, err: err}
		}
	} else {
		pool := analyzer.NewWorkerPool(s.batchWorkers)
		pool.Start()
		for i, url := range urls {
			i, url := i, url
			pool.Submit(func() {
				result, err := s.AnalyzeScreenshot(ctx, url, i, useAdvancedOCR)
				slots[i] = slot{result: result, err: err}
			})
		}
		pool.Wait()
		pool.Close()
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	batch := &models.BatchAnalysisResult{
		Results: make([]models.ScreenshotAnalysisResult, 0, len(urls)),
	}
	for i, sl := range slots {
		if sl.err != nil {
			batch.ErrorCount++
			batch.Errors = append(batch.Errors, models.BatchError{Index: i, Error: sl.err.Error()})
			continue
		}
		batch.SuccessCount++
		batch.Results = append(batch.Results, *sl.result)
	}
	batch.TotalProcessingTime = time.Since(start).Milliseconds()

	s.notify(ctx, observer.BatchAnalysisCompleted, "", len(urls), time.Since(start), nil)
	return batch, nil
}

// GetBatchSummary aggregates successful results: averages plus the most
// frequent theme and layout, ties broken by first-encountered order.
func (s *screenshotAnalysisService) GetBatchSummary(batch *models.BatchAnalysisResult) models.BatchSummary {
	if batch == nil || len(batch.Results) == 0 {
		return models.BatchSummary{
			MostCommonTheme:  "unknown",
			MostCommonLayout: "unknown",
		}
	}

	n := len(batch.Results)
	densities := make([]float64, 0, n)
	colorCounts := make([]float64, 0, n)
	layoutScores := make([]float64, 0, n)
	themes := make([]string, 0, n)
	layouts := make([]string, 0, n)

	for _, result := range batch.Results {
		densities = append(densities, result.Text.TextDensity)
		colorCounts = append(colorCounts, float64(result.Colors.ColorCount))
		layoutScores = append(layoutScores, float64(result.Layout.LayoutScore))
		themes = append(themes, string(result.Theme.Primary))
		layouts = append(layouts, string(result.Layout.LayoutType))
	}

	return models.BatchSummary{
		AverageTextDensity: stat.Mean(densities, nil),
		AverageColorCount:  stat.Mean(colorCounts, nil),
		AverageLayoutScore: stat.Mean(layoutScores, nil),
		MostCommonTheme:    models.ThemeStyle(mostFrequent(themes)),
		MostCommonLayout:   models.LayoutType(mostFrequent(layouts)),
	}
}

// mostFrequent returns the mode of values, ties broken by which value was
// encountered first.
func mostFrequent(values []string) string {
	counts := map[string]int{}
	firstSeen := map[string]int{}
	for i, v := range values {
		if _, ok := firstSeen[v]; !ok {
			firstSeen[v] = i
		}
		counts[v]++
	}

	best := values[0]
	for v, c := range counts {
		if c > counts[best] || (c == counts[best] && firstSeen[v] < firstSeen[best]) {
			best = v
		}
	}
	return best
}

func (s *screenshotAnalysisService) notify(ctx context.Context, eventType observer.EventType, url string, index int, elapsed time.Duration, err error) {
	if s.subject == nil {
		return
	}
	event := observer.AnalysisEvent{
		EventType:       eventType,
		Timestamp:       time.Now(),
		ScreenshotURL:   url,
		ScreenshotIndex: index,
		ProcessingTime:  elapsed,
		Success:         err == nil,
	}
	if err != nil {
		event.ErrorMessage = err.Error()
	}
	s.subject.NotifyObservers(ctx, event)
}
