package container

import (
	"fmt"
	"net/http"

	"go-screenshot-analyzer/internal/analyzer"
	"go-screenshot-analyzer/internal/config"
	"go-screenshot-analyzer/internal/insight"
	"go-screenshot-analyzer/internal/logger"
	"go-screenshot-analyzer/internal/observer"
	"go-screenshot-analyzer/internal/ocr"
	"go-screenshot-analyzer/internal/repository"
	"go-screenshot-analyzer/internal/service"
	"go-screenshot-analyzer/internal/storage"
	"go-screenshot-analyzer/internal/transport"
)

// Container holds all application dependencies
type Container struct {
	config    *config.Config
	fetcher   storage.ImageFetcher
	ocrEngine *ocr.Engine
	metrics   *observer.MetricsObserver
	analysis  service.ScreenshotAnalysisService
	handler   http.Handler
}

// NewContainer builds the dependency graph from environment configuration.
func NewContainer() (*Container, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return NewContainerWithConfig(cfg)
}

// NewContainerWithConfig builds the dependency graph from an explicit
// configuration. The CLI uses this to override tuning knobs per invocation.
func NewContainerWithConfig(cfg *config.Config) (*Container, error) {
	var fetcher storage.ImageFetcher
	switch cfg.Storage {
	case config.StorageAzure:
		azureFetcher, err := storage.NewAzureImageFetcher(cfg.AzureAccountName, cfg.AzureAccountKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create azure fetcher: %w", err)
		}
		fetcher = azureFetcher
	default:
		fetcher = storage.NewHTTPImageFetcher(cfg.ImageFetchTimeout)
	}

	screenshots := repository.NewScreenshotRepository(fetcher)
	colors := analyzer.NewColorExtractor(cfg.MaxColors)
	text := analyzer.NewTextDensityEstimator()
	ocrEngine := ocr.NewEngine(cfg.OCRLanguage)

	metrics := observer.NewMetricsObserver()
	publisher := observer.NewEventPublisher()
	publisher.Subscribe(observer.NewLoggingObserver(logger.Logger))
	publisher.Subscribe(metrics)

	analysis := service.NewScreenshotAnalysisService(
		screenshots, colors, text, ocrEngine, publisher, cfg.BatchWorkers)

	var insights *insight.Generator
	if cfg.OllamaURL != "" {
		generator, err := insight.NewGenerator(cfg.OllamaURL, cfg.OllamaModel)
		if err != nil {
			return nil, fmt.Errorf("failed to create insight generator: %w", err)
		}
		insights = generator
	}

	handler := transport.NewHandler(analysis, ocrEngine, metrics, insights, cfg)

	return &Container{
		config:    cfg,
		fetcher:   fetcher,
		ocrEngine: ocrEngine,
		metrics:   metrics,
		analysis:  analysis,
		handler:   handler,
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// AnalysisService returns the pipeline orchestrator
func (c *Container) AnalysisService() service.ScreenshotAnalysisService {
	return c.analysis
}

// Metrics returns the metrics observer
func (c *Container) Metrics() *observer.MetricsObserver {
	return c.metrics
}

// Close releases held resources, in particular the OCR worker.
func (c *Container) Close() error {
	return c.ocrEngine.Terminate()
}
