package repository

import (
	"context"
	"image"

	"go-screenshot-analyzer/internal/storage"
	"go-screenshot-analyzer/pkg/validation"
)

// fetcherRepository implements ScreenshotRepository over an ImageFetcher,
// so HTTP and blob-backed sources are interchangeable.
type fetcherRepository struct {
	fetcher   storage.ImageFetcher
	validator *validation.URLValidator
}

// NewScreenshotRepository creates a repository over the given fetcher
func NewScreenshotRepository(fetcher storage.ImageFetcher) ScreenshotRepository {
	return &fetcherRepository{
		fetcher:   fetcher,
		validator: validation.NewURLValidator(),
	}
}

// FetchScreenshot retrieves and decodes a screenshot from a URL
func (r *fetcherRepository) FetchScreenshot(ctx context.Context, screenshotURL string) (image.Image, error) {
	return r.fetcher.FetchImage(ctx, screenshotURL)
}

// ValidateScreenshotURL validates if the provided URL is acceptable
func (r *fetcherRepository) ValidateScreenshotURL(screenshotURL string) error {
	return r.validator.ValidateScreenshotURL(screenshotURL)
}
