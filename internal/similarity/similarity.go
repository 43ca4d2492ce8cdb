// Package similarity scores pairs of adjacent sampled frames and classifies
// cut boundaries between them.
//
// The decision metrics (combined similarity, intensity delta) are kept
// separate from the informational ones (detail delta) so the threshold and
// veto policy can be tuned without touching descriptor computation.
package similarity

import (
	"fmt"
	"math"

	"github.com/framesieve/framesieve/internal/feature"
)

// Weights for the combined similarity score.
const (
	hashWeight      = 0.75
	histogramWeight = 0.25
)

// Per-channel weights for histogram similarity. Luminance dominates.
const (
	hueWeight = 0.2
	satWeight = 0.3
	valWeight = 0.5
)

// Result holds the similarity metrics for an ordered pair of temporally
// adjacent sampled frames. Derived, never persisted.
type Result struct {
	// Combined is the weighted structural+color similarity in [0,1],
	// where 1 means identical.
	Combined float64
	// IntensityDelta is the absolute mean-luminance difference in [0,1].
	IntensityDelta float64
	// DetailDelta is the normalized detail-hash distance. Diagnostic only;
	// it never feeds the cut decision.
	DetailDelta float64
}

// Compare evaluates the similarity metrics between two frames' descriptors.
func Compare(a, b feature.Set) (Result, error) {
	hashDist, err := a.Perceptual.Distance(b.Perceptual)
	if err != nil {
		return Result{}, fmt.Errorf("perceptual hash distance: %w", err)
	}
	hashSim := 1.0 - float64(hashDist)/float64(feature.HashBits)

	detailDist, err := a.Detail.Distance(b.Detail)
	if err != nil {
		return Result{}, fmt.Errorf("detail hash distance: %w", err)
	}

	histSim := histogramSimilarity(a.Histogram, b.Histogram)

	return Result{
		Combined:       hashWeight*hashSim + histogramWeight*histSim,
		IntensityDelta: math.Abs(a.Intensity - b.Intensity),
		DetailDelta:    float64(detailDist) / float64(feature.HashBits),
	}, nil
}

// histogramSimilarity compares two HSV histograms using per-channel
// correlation, weighted toward the value channel.
func histogramSimilarity(a, b feature.Histogram) float64 {
	corrH := correlation(a.H, b.H)
	corrS := correlation(a.S, b.S)
	corrV := correlation(a.V, b.V)
	return hueWeight*corrH + satWeight*corrS + valWeight*corrV
}

// correlation computes the Pearson correlation of two equal-length bin
// vectors, clamped to [0,1]. Two zero-variance vectors compare as identical.
func correlation(a, b []float64) float64 {
	n := float64(len(a))
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var meanA, meanB float64
	for i := range a {
		meanA += a[i]
		meanB += b[i]
	}
	meanA /= n
	meanB /= n

	var cov, varA, varB float64
	for i := range a {
		da := a[i] - meanA
		db := b[i] - meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}

	if varA == 0 || varB == 0 {
		if varA == 0 && varB == 0 {
			return 1
		}
		return 0
	}

	corr := cov / math.Sqrt(varA*varB)
	if corr < 0 {
		return 0
	}
	if corr > 1 {
		return 1
	}
	return corr
}

// Classifier decides whether a similarity result marks a jump cut.
type Classifier struct {
	// Threshold is the combined-similarity cut threshold.
	Threshold float64
	// VetoThreshold is the intensity-delta veto threshold.
	VetoThreshold float64
}

// IsCut applies the threshold and veto rules, in that order. An extreme
// intensity swing is a stronger signal of a flash or exposure shift than low
// structural similarity is of a true cut, so the veto always wins.
func (c Classifier) IsCut(r Result) bool {
	initialCut := r.Combined < c.Threshold
	deltaVeto := r.IntensityDelta > c.VetoThreshold
	return initialCut && !deltaVeto
}
