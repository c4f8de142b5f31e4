package validation

import (
	"testing"

	apperrors "go-screenshot-analyzer/internal/errors"
)

func TestNewURLValidator(t *testing.T) {
	validator := NewURLValidator()
	if validator == nil {
		t.Fatal("Expected non-nil URL validator")
	}

	expectedSchemes := []string{"http", "https"}
	if len(validator.allowedSchemes) != len(expectedSchemes) {
		t.Errorf("Expected %d schemes, got %d", len(expectedSchemes), len(validator.allowedSchemes))
	}
}

func TestValidateScreenshotURL_ValidURLs(t *testing.T) {
	validator := NewURLValidator()

	validURLs := []string{
		"http://example.com/screenshot1.png",
		"https://cdn.store.example/apps/123/screen-2.webp",
		"https://is1-ssl.mzstatic.com/image/thumb/abc/392x696bb.png",
		"http://192.168.1.1/capture.jpg",
	}

	for _, url := range validURLs {
		if err := validator.ValidateScreenshotURL(url); err != nil {
			t.Errorf("Expected valid URL %s to pass validation, got error: %v", url, err)
		}
	}
}

func TestValidateScreenshotURL_InvalidURLs(t *testing.T) {
	validator := NewURLValidator()

	tests := []struct {
		name string
		url  string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"missing host", "https:///screenshot.png"},
		{"bad scheme", "ftp://example.com/screenshot.png"},
		{"data URL", "data:image/png;base64,iVBORw0KGgo="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateScreenshotURL(tt.url)
			if err == nil {
				t.Fatalf("Expected URL %q to fail validation", tt.url)
			}
			if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
				t.Errorf("Expected validation error type, got: %v", err)
			}
		})
	}
}

func TestValidateScreenshotURL_HostAllowlist(t *testing.T) {
	validator := NewURLValidatorWithOptions([]string{"https"}, []string{"cdn.store.example"})

	if err := validator.ValidateScreenshotURL("https://cdn.store.example/a.png"); err != nil {
		t.Errorf("Expected allowlisted host to pass, got: %v", err)
	}
	if err := validator.ValidateScreenshotURL("https://evil.example/a.png"); err == nil {
		t.Error("Expected non-allowlisted host to fail")
	}
	if err := validator.ValidateScreenshotURL("http://cdn.store.example/a.png"); err == nil {
		t.Error("Expected disallowed scheme to fail")
	}
}
