package analyzer

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
	"gonum.org/v1/gonum/stat"

	"go-screenshot-analyzer/pkg/models"
)

const (
	// Edge analysis runs on a proportionally downscaled image of this width.
	densityTargetWidth = 200

	// The image is partitioned into gridSize x gridSize cells for region
	// flagging.
	gridSize = 10

	// A cell whose mean edge magnitude exceeds this is flagged as text-like;
	// the same threshold classifies individual edge pixels for the density
	// ratio. Rendered text has much higher local contrast than smooth
	// photographic regions.
	edgeThreshold = 40.0
)

// TextDensityEstimator approximates text coverage and positional presence
// from edge density, without reading actual text. It exists so the layout
// heuristics don't have to pay for full OCR; the OCR path is optional and
// additive.
type TextDensityEstimator struct{}

// NewTextDensityEstimator creates a text density estimator
func NewTextDensityEstimator() *TextDensityEstimator {
	return &TextDensityEstimator{}
}

// Estimate runs edge-detection grid analysis over a decoded screenshot.
func (te *TextDensityEstimator) Estimate(img image.Image) models.TextEstimationResult {
	small := imaging.Resize(img, densityTargetWidth, 0, imaging.Lanczos)
	gray := grayscaleLuminance(small)
	edges := sobelMagnitude(gray)

	width := len(gray[0])
	height := len(gray)

	// Density over raw edge pixels, independent of the grid below. The two
	// signals can disagree when edges cluster in one quadrant; downstream
	// consumers read both fields.
	density := edgePixelDensity(edges)

	regions := flagTextRegions(edges, width, height)

	result := models.TextEstimationResult{
		TextRegions:             regions,
		TextDensity:             density,
		EstimatedTextPercentage: density * 100,
	}

	for _, region := range regions {
		centerY := region.Y + region.Height/2
		switch {
		case centerY < 33:
			result.HasTopText = true
		case centerY > 66:
			result.HasBottomText = true
		default:
			result.HasCenterText = true
		}
	}

	return result
}

// grayscaleLuminance converts to a float grayscale plane using perceived
// luminance (0.299R + 0.587G + 0.114B).
func grayscaleLuminance(img *image.NRGBA) [][]float64 {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	gray := make([][]float64, height)
	for y := 0; y < height; y++ {
		row := make([]float64, width)
		for x := 0; x < width; x++ {
			i := img.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)
			row[x] = 0.299*float64(img.Pix[i]) + 0.587*float64(img.Pix[i+1]) + 0.114*float64(img.Pix[i+2])
		}
		gray[y] = row
	}
	return gray
}

// sobelMagnitude computes gradient magnitude per interior pixel with 3x3
// horizontal and vertical kernels. Border pixels stay zero.
func sobelMagnitude(gray [][]float64) [][]float64 {
	height := len(gray)
	width := len(gray[0])

	edges := make([][]float64, height)
	for y := range edges {
		edges[y] = make([]float64, width)
	}

	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			gx := -gray[y-1][x-1] + gray[y-1][x+1] +
				-2*gray[y][x-1] + 2*gray[y][x+1] +
				-gray[y+1][x-1] + gray[y+1][x+1]

			gy := -gray[y-1][x-1] - 2*gray[y-1][x] - gray[y-1][x+1] +
				gray[y+1][x-1] + 2*gray[y+1][x] + gray[y+1][x+1]

			edges[y][x] = math.Sqrt(gx*gx + gy*gy)
		}
	}
	return edges
}

// edgePixelDensity is the fraction of interior pixels whose edge magnitude
// exceeds the threshold.
func edgePixelDensity(edges [][]float64) float64 {
	height := len(edges)
	width := len(edges[0])
	if height <= 2 || width <= 2 {
		return 0
	}

	above := 0
	total := (width - 2) * (height - 2)
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			if edges[y][x] > edgeThreshold {
				above++
			}
		}
	}
	return float64(above) / float64(total)
}

// flagTextRegions partitions the edge plane into a 10x10 grid and flags cells
// whose mean magnitude exceeds the threshold.
func flagTextRegions(edges [][]float64, width, height int) []models.TextRegion {
	regions := []models.TextRegion{}
	cellW := width / gridSize
	cellH := height / gridSize
	if cellW == 0 || cellH == 0 {
		return regions
	}

	for gy := 0; gy < gridSize; gy++ {
		for gx := 0; gx < gridSize; gx++ {
			values := make([]float64, 0, cellW*cellH)
			for y := gy * cellH; y < (gy+1)*cellH && y < height; y++ {
				for x := gx * cellW; x < (gx+1)*cellW && x < width; x++ {
					values = append(values, edges[y][x])
				}
			}
			if len(values) == 0 {
				continue
			}

			meanEdge := stat.Mean(values, nil)
			if meanEdge <= edgeThreshold {
				continue
			}

			confidence := meanEdge / 100
			if confidence > 1 {
				confidence = 1
			}
			regions = append(regions, models.TextRegion{
				X:          float64(gx) / gridSize * 100,
				Y:          float64(gy) / gridSize * 100,
				Width:      100.0 / gridSize,
				Height:     100.0 / gridSize,
				Confidence: confidence,
			})
		}
	}
	return regions
}
