package analyzer

import (
	"image"
	"image/color"
	"testing"
)

// stripedRegion fills rows [y0, y1) with alternating 2px black/white vertical
// stripes, the highest-contrast pattern the edge detector responds to.
func stripedRegion(img *image.NRGBA, y0, y1 int) {
	bounds := img.Bounds()
	for y := y0; y < y1; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBA{A: 255}
			if (x/2)%2 == 0 {
				c = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
}

func grayRegion(img *image.NRGBA, y0, y1 int) {
	bounds := img.Bounds()
	for y := y0; y < y1; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 128, G: 128, B: 128, A: 255})
		}
	}
}

func TestTextDensityEstimator_SolidImageHasNoText(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 200, 200))
	grayRegion(img, 0, 200)

	result := NewTextDensityEstimator().Estimate(img)

	if result.TextDensity != 0 {
		t.Errorf("Expected zero density for solid image, got %v", result.TextDensity)
	}
	if result.EstimatedTextPercentage != 0 {
		t.Errorf("Expected zero percentage, got %v", result.EstimatedTextPercentage)
	}
	if len(result.TextRegions) != 0 {
		t.Errorf("Expected no text regions, got %d", len(result.TextRegions))
	}
	if result.HasTopText || result.HasCenterText || result.HasBottomText {
		t.Error("Expected no positional text flags for solid image")
	}
}

func TestTextDensityEstimator_HighContrastImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 200, 200))
	stripedRegion(img, 0, 200)

	result := NewTextDensityEstimator().Estimate(img)

	if result.TextDensity <= 0.3 {
		t.Errorf("Expected high edge density for striped image, got %v", result.TextDensity)
	}
	if result.EstimatedTextPercentage != result.TextDensity*100 {
		t.Errorf("Percentage %v does not match density %v",
			result.EstimatedTextPercentage, result.TextDensity)
	}
	if len(result.TextRegions) == 0 {
		t.Fatal("Expected flagged text regions")
	}
	if !result.HasTopText || !result.HasCenterText || !result.HasBottomText {
		t.Errorf("Expected all positional flags for full-frame pattern, got top=%v center=%v bottom=%v",
			result.HasTopText, result.HasCenterText, result.HasBottomText)
	}

	for _, region := range result.TextRegions {
		if region.X < 0 || region.X > 100 || region.Y < 0 || region.Y > 100 {
			t.Errorf("Region position out of percent range: %+v", region)
		}
		if region.Confidence < 0 || region.Confidence > 1 {
			t.Errorf("Region confidence out of range: %v", region.Confidence)
		}
	}
}

func TestTextDensityEstimator_TopBandOnly(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 200, 200))
	grayRegion(img, 0, 200)
	stripedRegion(img, 0, 40)

	result := NewTextDensityEstimator().Estimate(img)

	if !result.HasTopText {
		t.Error("Expected top text flag for pattern in top fifth")
	}
	if result.HasBottomText {
		t.Error("Did not expect bottom text flag")
	}
	if result.TextDensity <= 0 {
		t.Error("Expected non-zero density")
	}
	for _, region := range result.TextRegions {
		centerY := region.Y + region.Height/2
		if centerY > 33 {
			t.Errorf("Expected all regions in the top band, got region centered at %v", centerY)
		}
	}
}

func TestTextDensityEstimator_BottomBandOnly(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 200, 200))
	grayRegion(img, 0, 200)
	stripedRegion(img, 170, 200)

	result := NewTextDensityEstimator().Estimate(img)

	if !result.HasBottomText {
		t.Error("Expected bottom text flag for pattern in bottom band")
	}
	if result.HasTopText {
		t.Error("Did not expect top text flag")
	}
}
