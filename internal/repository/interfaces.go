package repository

import (
	"context"
	"image"
)

// ScreenshotRepository defines data access for remote screenshot images
type ScreenshotRepository interface {
	// FetchScreenshot retrieves and decodes a screenshot from a URL
	FetchScreenshot(ctx context.Context, screenshotURL string) (image.Image, error)

	// ValidateScreenshotURL validates if the provided URL is acceptable
	ValidateScreenshotURL(screenshotURL string) error
}
