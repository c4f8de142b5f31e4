package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"go-screenshot-analyzer/internal/config"
	apperrors "go-screenshot-analyzer/internal/errors"
	"go-screenshot-analyzer/internal/insight"
	"go-screenshot-analyzer/internal/logger"
	"go-screenshot-analyzer/internal/observer"
	"go-screenshot-analyzer/internal/service"
	"go-screenshot-analyzer/pkg/models"
	"go-screenshot-analyzer/pkg/scoring"
)

// AccuracyScorer annotates an OCR result with its accuracy against caller
// expected text.
type AccuracyScorer interface {
	ScoreAccuracy(result *models.OCRResult, expectedText string)
}

// NewHandler builds the HTTP surface over the analysis pipeline. insights may
// be nil when no generation backend is configured; the route is simply not
// registered.
func NewHandler(
	analysis service.ScreenshotAnalysisService,
	scorer AccuracyScorer,
	metrics *observer.MetricsObserver,
	insights *insight.Generator,
	cfg *config.Config,
) http.Handler {
	r := gin.Default()

	r.Use(requestSizeLimiter(cfg.MaxRequestBodySize))

	r.GET("/health", healthCheck)
	r.GET("/metrics", analysisMetrics(metrics))

	v1 := r.Group("/v1")
	v1.POST("/analyze", analyzeScreenshot(analysis, scorer, cfg))
	v1.POST("/analyze/batch", analyzeBatch(analysis, cfg))
	v1.POST("/score", scoreBatch(analysis, cfg))
	if insights != nil {
		v1.POST("/insights", generateInsights(analysis, insights, cfg))
	}

	return r
}

func analyzeScreenshot(analysis service.ScreenshotAnalysisService, scorer AccuracyScorer, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.AnalysisTimeout)
		defer cancel()

		var req models.AnalyzeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}

		logger.WithFields(logrus.Fields{
			"url": req.URL,
			"ocr": req.UseAdvancedOCR,
			"ip":  c.ClientIP(),
		}).Debug("Analyzing screenshot")

		result, err := analysis.AnalyzeScreenshot(ctx, req.URL, req.Index, req.UseAdvancedOCR)
		if err != nil {
			respondAnalysisError(c, err)
			return
		}

		if scorer != nil && result.OCR != nil && req.ExpectedText != "" {
			scorer.ScoreAccuracy(result.OCR, req.ExpectedText)
		}

		c.JSON(http.StatusOK, result)
	}
}

func analyzeBatch(analysis service.ScreenshotAnalysisService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		var req models.BatchAnalyzeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}

		start := time.Now()
		batch, err := analysis.AnalyzeBatch(ctx, req.URLs, req.UseAdvancedOCR)
		if err != nil {
			respondAnalysisError(c, err)
			return
		}

		logger.WithFields(logrus.Fields{
			"urls":          len(req.URLs),
			"success_count": batch.SuccessCount,
			"error_count":   batch.ErrorCount,
			"elapsed_ms":    time.Since(start).Milliseconds(),
		}).Info("Batch analysis completed")

		c.JSON(http.StatusOK, models.BatchAnalyzeResponse{
			Batch:   *batch,
			Summary: analysis.GetBatchSummary(batch),
		})
	}
}

func scoreBatch(analysis service.ScreenshotAnalysisService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		var req models.BatchAnalyzeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}

		batch, err := analysis.AnalyzeBatch(ctx, req.URLs, req.UseAdvancedOCR)
		if err != nil {
			respondAnalysisError(c, err)
			return
		}

		summary := analysis.GetBatchSummary(batch)
		card := scoring.ScoreBatch(batch, summary, req.Category)

		c.JSON(http.StatusOK, gin.H{
			"batch":   batch,
			"summary": summary,
			"score":   card,
		})
	}
}

func generateInsights(analysis service.ScreenshotAnalysisService, insights *insight.Generator, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		var req models.BatchAnalyzeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}

		batch, err := analysis.AnalyzeBatch(ctx, req.URLs, req.UseAdvancedOCR)
		if err != nil {
			respondAnalysisError(c, err)
			return
		}
		summary := analysis.GetBatchSummary(batch)

		text, err := insights.Generate(ctx, batch, summary)
		if err != nil {
			respondError(c, http.StatusBadGateway, "insight generation failed", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"summary":  summary,
			"insights": text,
		})
	}
}

func analysisMetrics(metrics *observer.MetricsObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, metrics.GetMetrics())
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": "1.0.0",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// respondAnalysisError maps pipeline errors to HTTP status codes. Batch
// endpoints only land here on request-level failures (cancellation,
// timeout); per-screenshot failures travel inside the 200 response body.
func respondAnalysisError(c *gin.Context, err error) {
	var failure *apperrors.AnalysisFailure
	if errors.As(err, &failure) {
		respondError(c, apperrors.GetStatusCode(failure.Cause), "analysis failed", failure)
		return
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		respondError(c, http.StatusGatewayTimeout, "analysis timed out", err)
	default:
		respondError(c, apperrors.GetStatusCode(err), "analysis failed", err)
	}
}

func respondError(c *gin.Context, code int, message string, err error) {
	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	c.AbortWithStatusJSON(code, models.ErrorResponse{
		Error:   http.StatusText(code),
		Message: fmt.Sprintf("%s: %v", message, err),
	})
}
