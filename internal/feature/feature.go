// Package feature computes per-frame descriptors used for cut detection.
//
// Every frame is normalized to a fixed working resolution before any
// descriptor is computed, so results do not depend on the source resolution.
// Descriptors are computed once per sampled frame and reused by all later
// pipeline stages.
package feature

import (
	"fmt"
	"image"
	"math"

	"github.com/corona10/goimagehash"
	"github.com/nfnt/resize"
)

const (
	// WorkingWidth and WorkingHeight define the normalized resolution.
	WorkingWidth  = 256
	WorkingHeight = 256

	// HashBits is the size of the perceptual and detail hashes.
	HashBits = 64

	// Histogram bin counts per HSV channel.
	HueBins = 50
	SatBins = 60
	ValBins = 60
)

// Histogram holds normalized per-channel HSV histograms. Each channel sums
// to 1 for a non-empty frame.
type Histogram struct {
	H []float64
	S []float64
	V []float64
}

// Set is the full descriptor set for a single frame. Pure value type; it has
// no identity beyond the frame it was computed from.
type Set struct {
	// Perceptual is a DCT-based structural hash, compared via bit distance.
	Perceptual *goimagehash.ImageHash
	// Detail is a gradient (difference) hash sensitive to texture. It is
	// exposed for diagnostics only and never feeds the cut decision.
	Detail *goimagehash.ImageHash
	// Histogram is the per-channel HSV color histogram.
	Histogram Histogram
	// Intensity is the mean luminance in [0,1].
	Intensity float64
}

// Extract computes the descriptor set for a single decoded frame. It is a
// pure function of the pixel data.
func Extract(img image.Image) (Set, error) {
	if img == nil {
		return Set{}, fmt.Errorf("nil image")
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return Set{}, fmt.Errorf("empty image bounds %v", bounds)
	}

	normalized := resize.Resize(WorkingWidth, WorkingHeight, img, resize.Bilinear)

	perceptual, err := goimagehash.PerceptionHash(normalized)
	if err != nil {
		return Set{}, fmt.Errorf("perceptual hash: %w", err)
	}

	detail, err := goimagehash.DifferenceHash(normalized)
	if err != nil {
		return Set{}, fmt.Errorf("detail hash: %w", err)
	}

	hist, intensity := scanPixels(normalized)

	return Set{
		Perceptual: perceptual,
		Detail:     detail,
		Histogram:  hist,
		Intensity:  intensity,
	}, nil
}

// scanPixels walks the normalized frame once, accumulating the HSV histogram
// and the mean luminance.
func scanPixels(img image.Image) (Histogram, float64) {
	bounds := img.Bounds()
	pixels := float64(bounds.Dx() * bounds.Dy())

	hist := Histogram{
		H: make([]float64, HueBins),
		S: make([]float64, SatBins),
		V: make([]float64, ValBins),
	}

	var lumSum float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r16, g16, b16, _ := img.At(x, y).RGBA()
			r := float64(r16 >> 8)
			g := float64(g16 >> 8)
			b := float64(b16 >> 8)

			lumSum += 0.299*r + 0.587*g + 0.114*b

			h, s, v := rgbToHSV(r, g, b)
			hist.H[binIndex(h, 360.0, HueBins)]++
			hist.S[binIndex(s, 1.0, SatBins)]++
			hist.V[binIndex(v, 255.0, ValBins)]++
		}
	}

	for i := range hist.H {
		hist.H[i] /= pixels
	}
	for i := range hist.S {
		hist.S[i] /= pixels
	}
	for i := range hist.V {
		hist.V[i] /= pixels
	}

	intensity := lumSum / pixels / 255.0
	return hist, intensity
}

// rgbToHSV converts 8-bit RGB components to hue in [0,360), saturation in
// [0,1], and value in [0,255].
func rgbToHSV(r, g, b float64) (h, s, v float64) {
	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	delta := maxC - minC

	v = maxC

	if maxC > 0 {
		s = delta / maxC
	}

	if delta == 0 {
		return 0, s, v
	}

	switch maxC {
	case r:
		h = 60 * math.Mod((g-b)/delta, 6)
	case g:
		h = 60 * ((b-r)/delta + 2)
	default:
		h = 60 * ((r-g)/delta + 4)
	}
	if h < 0 {
		h += 360
	}
	return h, s, v
}

// binIndex maps a value in [0,max] onto one of n bins.
func binIndex(value, max float64, n int) int {
	idx := int(value / max * float64(n))
	if idx >= n {
		idx = n - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}
