package analyzer

import (
	"fmt"
	"image"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/disintegration/imaging"

	"go-screenshot-analyzer/pkg/models"
)

const (
	// Clustering runs on a fixed 50x50 canvas so cost is independent of the
	// source resolution.
	colorCanvasSize = 50

	// Pixels with alpha below this are treated as transparent and excluded
	// from clustering and aggregate metrics.
	alphaCutoff = 128

	// Fixed iteration count bounds cost instead of detecting convergence.
	kmeansIterations = 5

	// A pixel counts toward a centroid when its Euclidean RGB distance is
	// below this radius.
	captureRadius = 50.0
)

// ColorExtractor clusters screenshot pixels into a small dominant-color
// palette and computes aggregate brightness/saturation. Safe for concurrent
// use: one extractor instance is shared across batch workers, and *rand.Rand
// is not concurrency-safe, so all RNG access goes through mu.
type ColorExtractor struct {
	maxColors int

	mu  sync.Mutex
	rng *rand.Rand
}

// NewColorExtractor creates an extractor producing at most maxColors entries.
// Centroid seeding is randomized; use NewColorExtractorWithSource to pin it.
func NewColorExtractor(maxColors int) *ColorExtractor {
	return NewColorExtractorWithSource(maxColors, rand.NewSource(time.Now().UnixNano()))
}

// NewColorExtractorWithSource creates an extractor with a caller-supplied
// random source for deterministic centroid seeding.
func NewColorExtractorWithSource(maxColors int, src rand.Source) *ColorExtractor {
	if maxColors < 1 {
		maxColors = 1
	}
	return &ColorExtractor{
		maxColors: maxColors,
		rng:       rand.New(src),
	}
}

type rgbPoint struct {
	r, g, b float64
}

// Extract computes the dominant-color palette and aggregate color statistics
// for a decoded screenshot.
func (ce *ColorExtractor) Extract(img image.Image) models.ColorExtractionResult {
	small := imaging.Resize(img, colorCanvasSize, colorCanvasSize, imaging.Lanczos)

	pixels := samplePixels(small)
	if len(pixels) == 0 {
		return models.ColorExtractionResult{DominantColors: []models.ColorInfo{}}
	}

	centroids := ce.cluster(pixels)
	palette := rankCentroids(centroids, pixels)

	brightness, saturation := aggregateColorStats(pixels)

	return models.ColorExtractionResult{
		DominantColors:    palette,
		AverageBrightness: brightness,
		AverageSaturation: saturation,
		ColorCount:        len(palette),
	}
}

// samplePixels collects non-transparent pixels from the downscaled canvas.
func samplePixels(small *image.NRGBA) []rgbPoint {
	bounds := small.Bounds()
	pixels := make([]rgbPoint, 0, bounds.Dx()*bounds.Dy())

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			i := small.PixOffset(x, y)
			if small.Pix[i+3] < alphaCutoff {
				continue
			}
			pixels = append(pixels, rgbPoint{
				r: float64(small.Pix[i]),
				g: float64(small.Pix[i+1]),
				b: float64(small.Pix[i+2]),
			})
		}
	}
	return pixels
}

// cluster runs fixed-round k-means over the sampled pixels in RGB space.
func (ce *ColorExtractor) cluster(pixels []rgbPoint) []rgbPoint {
	k := ce.maxColors
	if k > len(pixels) {
		k = len(pixels)
	}

	// Seed with k randomly sampled pixels. Seeding is the only randomized
	// step, so holding the lock just here keeps concurrent Extract calls off
	// the shared RNG state.
	centroids := make([]rgbPoint, k)
	ce.mu.Lock()
	for i := range centroids {
		centroids[i] = pixels[ce.rng.Intn(len(pixels))]
	}
	ce.mu.Unlock()

	assignments := make([]int, len(pixels))
	for iter := 0; iter < kmeansIterations; iter++ {
		for pi, p := range pixels {
			assignments[pi] = nearestCentroid(p, centroids)
		}

		sums := make([]rgbPoint, k)
		counts := make([]int, k)
		for pi, p := range pixels {
			ci := assignments[pi]
			sums[ci].r += p.r
			sums[ci].g += p.g
			sums[ci].b += p.b
			counts[ci]++
		}
		for ci := range centroids {
			// Empty clusters keep their previous centroid
			if counts[ci] == 0 {
				continue
			}
			n := float64(counts[ci])
			centroids[ci] = rgbPoint{sums[ci].r / n, sums[ci].g / n, sums[ci].b / n}
		}
	}
	return centroids
}

func nearestCentroid(p rgbPoint, centroids []rgbPoint) int {
	best := 0
	bestDist := math.MaxFloat64
	for ci, c := range centroids {
		d := rgbDistance(p, c)
		if d < bestDist {
			bestDist = d
			best = ci
		}
	}
	return best
}

func rgbDistance(a, b rgbPoint) float64 {
	dr := a.r - b.r
	dg := a.g - b.g
	db := a.b - b.b
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// rankCentroids counts pixels within the capture radius of each centroid,
// drops empty and duplicate centroids, and orders the palette by descending
// share. Low-variance images collapse several centroids onto the same color;
// those duplicates would otherwise inflate the palette count.
func rankCentroids(centroids []rgbPoint, pixels []rgbPoint) []models.ColorInfo {
	palette := make([]models.ColorInfo, 0, len(centroids))
	kept := make([]rgbPoint, 0, len(centroids))
	total := float64(len(pixels))

	for _, c := range centroids {
		duplicate := false
		for _, k := range kept {
			if rgbDistance(c, k) < 1 {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}
		kept = append(kept, c)
		count := 0
		for _, p := range pixels {
			if rgbDistance(p, c) < captureRadius {
				count++
			}
		}
		if count == 0 {
			continue
		}

		r := clampChannel(c.r)
		g := clampChannel(c.g)
		b := clampChannel(c.b)
		palette = append(palette, models.ColorInfo{
			Hex:        fmt.Sprintf("#%02x%02x%02x", r, g, b),
			RGB:        models.RGB{R: r, G: g, B: b},
			Percentage: float64(count) / total * 100,
		})
	}

	sort.SliceStable(palette, func(i, j int) bool {
		return palette[i].Percentage > palette[j].Percentage
	})
	return palette
}

// aggregateColorStats computes mean perceived luminance and mean saturation
// over the raw sampled pixels (not the cluster centroids).
func aggregateColorStats(pixels []rgbPoint) (brightness, saturation float64) {
	var lumSum, satSum float64
	for _, p := range pixels {
		lumSum += (0.299*p.r + 0.587*p.g + 0.114*p.b) / 255.0

		max := math.Max(p.r, math.Max(p.g, p.b))
		min := math.Min(p.r, math.Min(p.g, p.b))
		if max > 0 {
			satSum += (max - min) / max
		}
	}
	n := float64(len(pixels))
	return lumSum / n, satSum / n
}

func clampChannel(v float64) int {
	i := int(math.Round(v))
	if i < 0 {
		return 0
	}
	if i > 255 {
		return 255
	}
	return i
}
