package processing

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/corona10/goimagehash"

	"github.com/framesieve/framesieve/internal/config"
	"github.com/framesieve/framesieve/internal/errors"
	"github.com/framesieve/framesieve/internal/feature"
	"github.com/framesieve/framesieve/internal/logging"
	"github.com/framesieve/framesieve/internal/reporter"
	"github.com/framesieve/framesieve/internal/scene"
)

// stubSource serves synthetic frames and optionally fails at chosen grid
// positions.
type stubSource struct {
	duration float64
	interval float64
	failAt   map[int]bool
	failAll  bool
}

func (s *stubSource) Duration() float64 { return s.duration }

func (s *stubSource) FrameAt(_ context.Context, timestamp float64) (image.Image, error) {
	if s.failAll {
		return nil, errors.NewFrameDecodeError(timestamp, fmt.Errorf("decode refused"))
	}
	index := int(math.Round(timestamp / s.interval))
	if s.failAt[index] {
		return nil, errors.NewFrameDecodeError(timestamp, fmt.Errorf("decode refused"))
	}

	// Slowly brightening gray so adjacent frames stay similar.
	level := uint8(60 + index%8)
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	fill := color.RGBA{level, level, level, 0xFF}
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.SetRGBA(x, y, fill)
		}
	}
	return img, nil
}

func newStubSource(duration float64, cfg *config.Config) *stubSource {
	return &stubSource{
		duration: duration,
		interval: cfg.SampleInterval(),
		failAt:   map[int]bool{},
	}
}

func testConfig() *config.Config {
	cfg := config.NewConfig()
	cfg.Workers = 2
	return cfg
}

func assertResultInvariants(t *testing.T, result *Result, cfg *config.Config) {
	t.Helper()

	if len(result.Frames) < 1 || len(result.Frames) > cfg.MaxFrames {
		t.Fatalf("selected %d frames, want between 1 and %d", len(result.Frames), cfg.MaxFrames)
	}
	for i := 1; i < len(result.Frames); i++ {
		if result.Frames[i].Timestamp <= result.Frames[i-1].Timestamp {
			t.Errorf("timestamps not strictly increasing at %d: %.3f then %.3f",
				i, result.Frames[i-1].Timestamp, result.Frames[i].Timestamp)
		}
	}
	for _, f := range result.Frames {
		if f.Duration < 0 {
			t.Errorf("frame at %.3fs has negative represented duration %.3f", f.Timestamp, f.Duration)
		}
		if f.Scene < 0 || f.Scene >= len(result.Scenes) {
			t.Errorf("frame at %.3fs references scene %d of %d", f.Timestamp, f.Scene, len(result.Scenes))
		}
	}
}

func TestExtractSelectsWithinBudget(t *testing.T) {
	cfg := testConfig()
	src := newStubSource(10.0, cfg)

	result, err := Extract(context.Background(), cfg, src, nil, logging.Nop())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	assertResultInvariants(t, result, cfg)

	if result.SampledFrames != 60 {
		t.Errorf("SampledFrames = %d, want 60 for 10s at 6fps", result.SampledFrames)
	}
	if got := result.Frames[0]; got.Timestamp != 0 || got.Role != scene.RoleCut {
		t.Errorf("first frame = %+v, want timestamp 0 with cut role", got)
	}
	if result.VideoDuration != 10.0 {
		t.Errorf("VideoDuration = %g, want 10.0", result.VideoDuration)
	}

	// Represented durations tile the video from the first selected frame.
	last := result.Frames[len(result.Frames)-1]
	if math.Abs(last.Timestamp+last.Duration-10.0) > 1e-9 {
		t.Errorf("last frame spans to %.3f, want video end", last.Timestamp+last.Duration)
	}
}

func TestExtractDeterministic(t *testing.T) {
	cfg := testConfig()
	cfg.Workers = 4
	src := newStubSource(10.0, cfg)

	first, err := Extract(context.Background(), cfg, src, nil, logging.Nop())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	second, err := Extract(context.Background(), cfg, src, nil, logging.Nop())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if len(first.Frames) != len(second.Frames) {
		t.Fatalf("runs selected %d and %d frames", len(first.Frames), len(second.Frames))
	}
	for i := range first.Frames {
		if first.Frames[i] != second.Frames[i] {
			t.Errorf("frame %d differs between runs: %+v vs %+v", i, first.Frames[i], second.Frames[i])
		}
	}
}

func TestExtractSkipsUndecodableFrames(t *testing.T) {
	cfg := testConfig()
	src := newStubSource(10.0, cfg)
	src.failAt[3] = true
	src.failAt[17] = true

	result, err := Extract(context.Background(), cfg, src, nil, logging.Nop())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	assertResultInvariants(t, result, cfg)
	if result.SkippedFrames != 2 {
		t.Errorf("SkippedFrames = %d, want 2", result.SkippedFrames)
	}
	if result.SampledFrames != 58 {
		t.Errorf("SampledFrames = %d, want 58", result.SampledFrames)
	}
	for _, f := range result.Frames {
		if src.failAt[f.Index] {
			t.Errorf("selected frame at grid index %d, which never decoded", f.Index)
		}
	}
}

func TestExtractAllFramesUndecodable(t *testing.T) {
	cfg := testConfig()
	src := newStubSource(5.0, cfg)
	src.failAll = true

	_, err := Extract(context.Background(), cfg, src, nil, logging.Nop())
	if !errors.IsExtractionFailed(err) {
		t.Fatalf("Extract() error = %v, want extraction failure", err)
	}
}

func TestExtractRejectsNonPositiveDuration(t *testing.T) {
	cfg := testConfig()
	src := newStubSource(0, cfg)

	_, err := Extract(context.Background(), cfg, src, nil, logging.Nop())
	if !errors.IsExtractionFailed(err) {
		t.Fatalf("Extract() error = %v, want extraction failure", err)
	}
}

func TestExtractEnforcesDurationLimit(t *testing.T) {
	cfg := testConfig()
	cfg.MaxDuration = 90
	src := newStubSource(120.0, cfg)

	_, err := Extract(context.Background(), cfg, src, nil, logging.Nop())
	if !errors.IsExtractionFailed(err) {
		t.Fatalf("Extract() error = %v, want extraction failure", err)
	}
}

func TestExtractRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.TargetFrames = 25
	cfg.MaxFrames = 20
	src := newStubSource(10.0, cfg)

	_, err := Extract(context.Background(), cfg, src, nil, logging.Nop())
	if err == nil {
		t.Fatal("Extract() accepted target above max")
	}
	if !errors.IsConfig(err) {
		t.Errorf("Extract() error = %v, want config error", err)
	}
}

func TestExtractCancellation(t *testing.T) {
	cfg := testConfig()
	src := newStubSource(10.0, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Extract(ctx, cfg, src, nil, logging.Nop())
	if !errors.IsCancelled(err) {
		t.Fatalf("Extract() error = %v, want cancellation", err)
	}
}

func TestExtractShortVideoSingleSample(t *testing.T) {
	cfg := testConfig()
	src := newStubSource(0.05, cfg) // shorter than one sample interval

	result, err := Extract(context.Background(), cfg, src, nil, logging.Nop())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if len(result.Frames) != 1 {
		t.Fatalf("selected %d frames, want 1", len(result.Frames))
	}
	if result.Frames[0].Timestamp != 0 || result.Frames[0].Role != scene.RoleCut {
		t.Errorf("lone frame = %+v, want the cut at t=0", result.Frames[0])
	}
}

// descriptorWith builds a frame descriptor from raw hash bits, a single-bin
// value histogram, and an intensity.
func descriptorWith(bits uint64, valBin int, intensity float64) feature.Set {
	hist := feature.Histogram{
		H: make([]float64, feature.HueBins),
		S: make([]float64, feature.SatBins),
		V: make([]float64, feature.ValBins),
	}
	hist.H[0] = 1
	hist.S[0] = 1
	hist.V[valBin] = 1

	return feature.Set{
		Perceptual: goimagehash.NewImageHash(bits, goimagehash.PHash),
		Detail:     goimagehash.NewImageHash(bits, goimagehash.DHash),
		Histogram:  hist,
		Intensity:  intensity,
	}
}

func TestClassifyFramesMarksBoundaries(t *testing.T) {
	cfg := testConfig()

	// Frames 0-2 identical, frame 3 structurally distinct: a clean cut.
	samples := []sampled{
		{index: 0, timestamp: 0.0, features: descriptorWith(0x0, 5, 0.3)},
		{index: 1, timestamp: 1.0 / 6, features: descriptorWith(0x0, 5, 0.3)},
		{index: 2, timestamp: 2.0 / 6, features: descriptorWith(0x0, 5, 0.3)},
		{index: 3, timestamp: 3.0 / 6, features: descriptorWith(0xFFFFFFFFFFFFFFFF, 40, 0.6)},
		{index: 4, timestamp: 4.0 / 6, features: descriptorWith(0xFFFFFFFFFFFFFFFF, 40, 0.6)},
	}

	frames, cuts, err := classifyFrames(samples, cfg, logging.Nop())
	if err != nil {
		t.Fatalf("classifyFrames() error = %v", err)
	}

	if cuts != 2 {
		t.Fatalf("cuts = %d, want 2 (first frame and the boundary)", cuts)
	}
	wantCut := []bool{true, false, false, true, false}
	for i, f := range frames {
		if f.Cut != wantCut[i] {
			t.Errorf("frame %d cut = %v, want %v", i, f.Cut, wantCut[i])
		}
	}
}

func TestClassifyFramesIntensityVeto(t *testing.T) {
	cfg := testConfig()

	// Same structural break as above, but the luminance swing exceeds the
	// veto threshold: exposure flash, not a cut.
	samples := []sampled{
		{index: 0, timestamp: 0.0, features: descriptorWith(0x0, 5, 0.02)},
		{index: 1, timestamp: 1.0 / 6, features: descriptorWith(0xFFFFFFFFFFFFFFFF, 40, 0.98)},
	}

	frames, cuts, err := classifyFrames(samples, cfg, logging.Nop())
	if err != nil {
		t.Fatalf("classifyFrames() error = %v", err)
	}

	if cuts != 1 {
		t.Errorf("cuts = %d, want only the first frame", cuts)
	}
	if frames[1].Cut {
		t.Error("vetoed boundary still marked as cut")
	}
}

func TestClassifyFramesFirstAlwaysCut(t *testing.T) {
	cfg := testConfig()

	samples := []sampled{
		{index: 0, timestamp: 0.0, features: descriptorWith(0xABCD, 10, 0.4)},
	}

	frames, cuts, err := classifyFrames(samples, cfg, logging.Nop())
	if err != nil {
		t.Fatalf("classifyFrames() error = %v", err)
	}
	if cuts != 1 || !frames[0].Cut {
		t.Errorf("lone frame not classified as cut: cuts=%d frames=%+v", cuts, frames)
	}
}

func TestExtractReportsProgress(t *testing.T) {
	cfg := testConfig()
	src := newStubSource(5.0, cfg)

	rep := &recordingReporter{}
	result, err := Extract(context.Background(), cfg, src, rep, logging.Nop())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if rep.samplingStarted != 30 {
		t.Errorf("SamplingStarted = %d, want 30", rep.samplingStarted)
	}
	if rep.lastProgress.FramesDone != 30 {
		t.Errorf("final progress = %+v, want 30 frames done", rep.lastProgress)
	}
	if rep.analysis.FramesAnalyzed != 30 {
		t.Errorf("AnalysisComplete frames = %d, want 30", rep.analysis.FramesAnalyzed)
	}
	if rep.selection.Selected != len(result.Frames) {
		t.Errorf("SelectionComplete selected = %d, want %d", rep.selection.Selected, len(result.Frames))
	}
}

// recordingReporter captures the events the pipeline emits.
type recordingReporter struct {
	reporter.NullReporter
	samplingStarted int
	lastProgress    reporter.SamplingProgress
	analysis        reporter.AnalysisSummary
	selection       reporter.SelectionOutcome
}

func (r *recordingReporter) SamplingStarted(total int) { r.samplingStarted = total }

func (r *recordingReporter) SamplingProgress(p reporter.SamplingProgress) { r.lastProgress = p }

func (r *recordingReporter) AnalysisComplete(s reporter.AnalysisSummary) { r.analysis = s }

func (r *recordingReporter) SelectionComplete(o reporter.SelectionOutcome) { r.selection = o }
