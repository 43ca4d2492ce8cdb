// Package processing orchestrates the extraction pipeline: sampling, frame
// description, cut detection, scene grouping, and frame selection.
package processing

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/framesieve/framesieve/internal/config"
	"github.com/framesieve/framesieve/internal/errors"
	"github.com/framesieve/framesieve/internal/feature"
	"github.com/framesieve/framesieve/internal/media"
	"github.com/framesieve/framesieve/internal/reporter"
	"github.com/framesieve/framesieve/internal/scene"
	"github.com/framesieve/framesieve/internal/similarity"
	"github.com/framesieve/framesieve/internal/worker"
)

// Frame is one selected frame in the extraction result. The raster is not
// retained; callers re-decode by timestamp when they need pixels.
type Frame struct {
	// Index is the frame's position in the sampled sequence.
	Index int
	// Timestamp is the frame's time in the video, in seconds.
	Timestamp float64
	// Role is "cut" for scene-initiating frames and "fill" for budget frames.
	Role scene.Role
	// Scene is the index of the owning scene.
	Scene int
	// Duration is the span of video this frame represents: the time until
	// the next selected frame, or until the end of the video for the last.
	Duration float64
}

// SceneInfo summarizes one detected scene.
type SceneInfo struct {
	Index    int
	Start    float64
	End      float64
	Sampled  int
	Selected int
}

// Result is the outcome of a full extraction run.
type Result struct {
	Frames        []Frame
	Scenes        []SceneInfo
	VideoDuration float64
	SampledFrames int
	SkippedFrames int
	CutsDetected  int
}

// sampled pairs a grid position with its frame descriptors.
type sampled struct {
	index     int
	timestamp float64
	features  feature.Set
	err       error
}

// Extract runs the full pipeline against a frame source. The returned result
// always satisfies the selection budget: between 1 and cfg.MaxFrames frames,
// in strictly increasing timestamp order. Identical inputs produce identical
// results.
func Extract(ctx context.Context, cfg *config.Config, src media.Source, rep reporter.Reporter, logger zerolog.Logger) (*Result, error) {
	if rep == nil {
		rep = reporter.NullReporter{}
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.NewConfigError("invalid extraction settings", err)
	}

	duration := src.Duration()
	if duration <= 0 {
		return nil, errors.NewExtractionFailedError(
			fmt.Sprintf("video duration %.3fs is not positive", duration))
	}
	if cfg.MaxDuration > 0 && duration > cfg.MaxDuration {
		return nil, errors.NewExtractionFailedError(
			fmt.Sprintf("video duration %.1fs exceeds the %.1fs limit", duration, cfg.MaxDuration))
	}

	timestamps := sampleGrid(duration, cfg.SampleInterval())
	logger.Debug().
		Float64("duration", duration).
		Float64("sample_rate", cfg.SampleRateFPS).
		Int("samples", len(timestamps)).
		Msg("sampling grid computed")

	rep.SamplingStarted(len(timestamps))
	samples, skipped, err := describeFrames(ctx, src, timestamps, cfg.EffectiveWorkers(), rep, logger)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, errors.NewExtractionFailedError("no sampled frame could be decoded")
	}

	if ctx.Err() != nil {
		return nil, errors.NewCancelledError(ctx.Err())
	}

	frames, cutsDetected, err := classifyFrames(samples, cfg, logger)
	if err != nil {
		return nil, err
	}

	reduced := scene.ReduceCuts(frames, cfg.MaxFrames)
	cutsKept := countCuts(reduced)
	if cutsKept < cutsDetected {
		logger.Info().
			Int("detected", cutsDetected).
			Int("kept", cutsKept).
			Msg("cut count exceeds frame budget, keeping strongest boundaries")
	}

	scenes := scene.Build(reduced, duration)
	rep.AnalysisComplete(reporter.AnalysisSummary{
		FramesAnalyzed: len(frames),
		CutsDetected:   cutsDetected,
		CutsKept:       cutsKept,
		Scenes:         len(scenes),
	})

	if ctx.Err() != nil {
		return nil, errors.NewCancelledError(ctx.Err())
	}

	picks := scene.Allocate(scenes, cfg.TargetFrames, cfg.MaxFrames)

	result := assembleResult(picks, scenes, duration, len(frames), skipped, cutsDetected)
	rep.SelectionComplete(selectionOutcome(result, cfg))

	return result, nil
}

// sampleGrid returns the fixed-rate sample timestamps: i*interval for every
// i with i*interval strictly below the duration.
func sampleGrid(duration, interval float64) []float64 {
	var grid []float64
	for i := 0; ; i++ {
		t := float64(i) * interval
		if t >= duration {
			break
		}
		grid = append(grid, t)
	}
	return grid
}

// describeFrames decodes every sampled timestamp and extracts its feature
// descriptors, bounded by the worker limit. Frames that fail to decode are
// skipped; the survivors come back in grid order.
func describeFrames(ctx context.Context, src media.Source, timestamps []float64, workers int, rep reporter.Reporter, logger zerolog.Logger) ([]sampled, int, error) {
	results := make([]sampled, len(timestamps))
	sem := worker.NewSemaphore(workers)

	var wg sync.WaitGroup
	var mu sync.Mutex
	done := 0
	skipped := 0

	for i, ts := range timestamps {
		select {
		case <-ctx.Done():
			wg.Wait()
			return nil, 0, errors.NewCancelledError(ctx.Err())
		case <-sem.Chan():
		}

		wg.Add(1)
		go func(index int, timestamp float64) {
			defer wg.Done()
			defer sem.Release()

			results[index] = describeOne(ctx, src, index, timestamp)

			mu.Lock()
			done++
			if results[index].err != nil {
				skipped++
			}
			rep.SamplingProgress(reporter.SamplingProgress{
				FramesDone:  done,
				FramesTotal: len(timestamps),
				Skipped:     skipped,
			})
			mu.Unlock()
		}(i, ts)
	}
	wg.Wait()

	if ctx.Err() != nil {
		return nil, 0, errors.NewCancelledError(ctx.Err())
	}

	usable := make([]sampled, 0, len(results))
	for _, s := range results {
		if s.err != nil {
			logger.Warn().
				Float64("timestamp", s.timestamp).
				Err(s.err).
				Msg("skipping undecodable frame")
			continue
		}
		usable = append(usable, s)
	}
	return usable, skipped, nil
}

func describeOne(ctx context.Context, src media.Source, index int, timestamp float64) sampled {
	s := sampled{index: index, timestamp: timestamp}

	img, err := src.FrameAt(ctx, timestamp)
	if err != nil {
		s.err = err
		return s
	}

	features, err := feature.Extract(img)
	if err != nil {
		s.err = errors.NewFrameDecodeError(timestamp, err)
		return s
	}
	s.features = features
	return s
}

// classifyFrames runs the pairwise similarity comparison over temporally
// adjacent frames and marks cut boundaries. The first frame is always a cut.
func classifyFrames(samples []sampled, cfg *config.Config, logger zerolog.Logger) ([]scene.Frame, int, error) {
	classifier := similarity.Classifier{
		Threshold:     cfg.CutThreshold,
		VetoThreshold: cfg.VetoThreshold,
	}

	frames := make([]scene.Frame, len(samples))
	cuts := 0
	for i, s := range samples {
		frames[i] = scene.Frame{Index: s.index, Timestamp: s.timestamp}
		if i == 0 {
			frames[i].Cut = true
			cuts++
			continue
		}

		r, err := similarity.Compare(samples[i-1].features, s.features)
		if err != nil {
			return nil, 0, errors.NewExtractionFailedError(
				fmt.Sprintf("comparing frames at %.3fs and %.3fs: %v",
					samples[i-1].timestamp, s.timestamp, err))
		}

		frames[i].Similarity = r.Combined
		frames[i].Cut = classifier.IsCut(r)
		if frames[i].Cut {
			cuts++
			logger.Debug().
				Float64("timestamp", s.timestamp).
				Float64("combined", r.Combined).
				Float64("intensity_delta", r.IntensityDelta).
				Msg("cut detected")
		}
	}
	return frames, cuts, nil
}

func countCuts(frames []scene.Frame) int {
	n := 0
	for _, f := range frames {
		if f.Cut {
			n++
		}
	}
	return n
}

func assembleResult(picks []scene.Pick, scenes []scene.Scene, duration float64, sampledFrames, skipped, cutsDetected int) *Result {
	result := &Result{
		VideoDuration: duration,
		SampledFrames: sampledFrames,
		SkippedFrames: skipped,
		CutsDetected:  cutsDetected,
	}

	selectedPerScene := make([]int, len(scenes))
	for i, p := range picks {
		end := duration
		if i+1 < len(picks) {
			end = picks[i+1].Frame.Timestamp
		}
		result.Frames = append(result.Frames, Frame{
			Index:     p.Frame.Index,
			Timestamp: p.Frame.Timestamp,
			Role:      p.Role,
			Scene:     p.Scene,
			Duration:  end - p.Frame.Timestamp,
		})
		selectedPerScene[p.Scene]++
	}

	for i, s := range scenes {
		result.Scenes = append(result.Scenes, SceneInfo{
			Index:    i,
			Start:    s.Start,
			End:      s.End,
			Sampled:  len(s.Frames),
			Selected: selectedPerScene[i],
		})
	}
	return result
}

func selectionOutcome(result *Result, cfg *config.Config) reporter.SelectionOutcome {
	outcome := reporter.SelectionOutcome{
		Selected:     len(result.Frames),
		TargetFrames: cfg.TargetFrames,
		MaxFrames:    cfg.MaxFrames,
	}
	for _, f := range result.Frames {
		if f.Role == scene.RoleCut {
			outcome.Cuts++
		} else {
			outcome.Fills++
		}
	}
	for _, s := range result.Scenes {
		outcome.Scenes = append(outcome.Scenes, reporter.SceneSummary{
			Index:    s.Index,
			Start:    s.Start,
			End:      s.End,
			Frames:   s.Sampled,
			Selected: s.Selected,
		})
	}
	return outcome
}
