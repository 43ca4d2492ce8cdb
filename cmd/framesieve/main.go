// Package main provides the CLI entry point for framesieve.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/nfnt/resize"
	"github.com/spf13/cobra"

	"github.com/framesieve/framesieve"
	"github.com/framesieve/framesieve/internal/config"
	"github.com/framesieve/framesieve/internal/errors"
	"github.com/framesieve/framesieve/internal/ffmpeg"
	"github.com/framesieve/framesieve/internal/logging"
	"github.com/framesieve/framesieve/internal/reporter"
	"github.com/framesieve/framesieve/internal/util"
)

const (
	appVersion = "0.1.0"

	// Exported JPEG sizing.
	exportMaxSide     = 512
	exportJPEGQuality = 70
)

var (
	verbose    bool
	jsonOutput bool

	sampleRate    float64
	cutThreshold  float64
	vetoThreshold float64
	targetFrames  int
	maxFrames     int
	maxDuration   float64
	workers       int
	outputDir     string
	noExport      bool
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "framesieve",
	Short: "framesieve - representative frame extraction",
	Long:  "Samples a video at a fixed rate, detects jump cuts, groups frames into scenes, and extracts a budgeted set of representative frames.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	extractCmd.Flags().Float64Var(&sampleRate, "sample-rate", config.DefaultSampleRateFPS, "sampling rate in frames per second")
	extractCmd.Flags().Float64Var(&cutThreshold, "cut-threshold", config.DefaultCutThreshold, "combined similarity below this marks a cut")
	extractCmd.Flags().Float64Var(&vetoThreshold, "veto-threshold", config.DefaultVetoThreshold, "intensity delta above this suppresses a cut")
	extractCmd.Flags().IntVar(&targetFrames, "target-frames", config.DefaultTargetFrames, "desired number of extracted frames")
	extractCmd.Flags().IntVar(&maxFrames, "max-frames", config.DefaultMaxFrames, "hard ceiling on extracted frames")
	extractCmd.Flags().Float64Var(&maxDuration, "max-duration", 0, "reject videos longer than this many seconds (0 disables)")
	extractCmd.Flags().IntVar(&workers, "workers", 0, "concurrent frame decoders (0 = one per CPU)")
	extractCmd.Flags().StringVarP(&outputDir, "output", "o", "frames", "directory for extracted frames")
	extractCmd.Flags().BoolVar(&noExport, "no-export", false, "analyze only, do not write frame images")
	extractCmd.Flags().BoolVar(&jsonOutput, "json", false, "emit NDJSON events instead of terminal output")

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("framesieve version %s\n", appVersion)
	},
}

var extractCmd = &cobra.Command{
	Use:   "extract [input video]",
	Short: "Extract representative frames from a video",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExtract(cmd.Context(), args[0])
	},
}

func runExtract(ctx context.Context, inputPath string) error {
	if !util.IsVideoFile(inputPath) {
		return fmt.Errorf("not a video file: %s", inputPath)
	}

	extractor, err := framesieve.New(
		framesieve.WithSampleRate(sampleRate),
		framesieve.WithCutThreshold(cutThreshold),
		framesieve.WithVetoThreshold(vetoThreshold),
		framesieve.WithTargetFrames(targetFrames),
		framesieve.WithMaxFrames(maxFrames),
		framesieve.WithMaxDuration(maxDuration),
		framesieve.WithWorkers(workers),
	)
	if err != nil {
		return err
	}

	var rep framesieve.Reporter
	if jsonOutput {
		rep = reporter.NewJSONReporter()
	} else {
		rep = reporter.NewTerminalReporter(verbose)
	}

	src, err := ffmpeg.Open(inputPath)
	if err != nil {
		return err
	}

	info := src.Info()
	rep.SourceInfo(reporter.SourceSummary{
		InputFile:  filepath.Base(inputPath),
		Duration:   util.FormatDuration(info.Duration),
		Resolution: fmt.Sprintf("%dx%d", info.Width, info.Height),
		SampleRate: sampleRate,
		Samples:    int(info.Duration * sampleRate),
	})

	result, err := extractor.Extract(ctx, src, rep)
	if err != nil {
		rep.Error(reporter.ReporterError{
			Title:   "Extraction failed",
			Message: err.Error(),
			Context: fmt.Sprintf("File: %s", inputPath),
		})
		return err
	}

	if !noExport {
		if err := exportFrames(ctx, src, result, inputPath); err != nil {
			return err
		}
	}

	rep.OperationComplete(fmt.Sprintf("Extracted %d frames across %d scenes",
		len(result.Frames), len(result.Scenes)))
	return nil
}

// exportFrames re-decodes the selected frames and writes them out as JPEGs
// alongside a manifest describing the selection.
func exportFrames(ctx context.Context, src *ffmpeg.FileSource, result *framesieve.Result, inputPath string) error {
	if err := util.EnsureDirectory(outputDir); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	stem := util.GetFileStem(inputPath)
	for _, frame := range result.Frames {
		img, err := src.FrameAt(ctx, frame.Timestamp)
		if err != nil {
			return fmt.Errorf("re-decoding frame at %.3fs: %w", frame.Timestamp, err)
		}

		name := fmt.Sprintf("%s_%s_%s.jpg", stem, util.FormatTimestamp(frame.Timestamp), frame.Role)
		if err := writeJPEG(filepath.Join(outputDir, name), img); err != nil {
			return err
		}
	}

	return writeManifest(filepath.Join(outputDir, stem+".json"), result)
}

func writeJPEG(path string, img image.Image) error {
	scaled := resize.Thumbnail(exportMaxSide, exportMaxSide, img, resize.Bilinear)

	f, err := os.Create(path)
	if err != nil {
		return errors.NewIOError("creating "+path, err)
	}
	defer f.Close()

	if err := jpeg.Encode(f, scaled, &jpeg.Options{Quality: exportJPEGQuality}); err != nil {
		return errors.NewIOError("encoding "+path, err)
	}
	return nil
}

// manifest is the on-disk description of an extraction run.
type manifest struct {
	VideoDuration float64         `json:"video_duration"`
	SampledFrames int             `json:"sampled_frames"`
	SkippedFrames int             `json:"skipped_frames,omitempty"`
	Frames        []manifestFrame `json:"frames"`
	Scenes        []manifestScene `json:"scenes"`
}

type manifestFrame struct {
	Timestamp float64 `json:"timestamp"`
	Role      string  `json:"role"`
	Scene     int     `json:"scene"`
	Duration  float64 `json:"duration"`
}

type manifestScene struct {
	Index    int     `json:"index"`
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	Selected int     `json:"selected"`
}

func writeManifest(path string, result *framesieve.Result) error {
	m := manifest{
		VideoDuration: result.VideoDuration,
		SampledFrames: result.SampledFrames,
		SkippedFrames: result.SkippedFrames,
	}
	for _, f := range result.Frames {
		m.Frames = append(m.Frames, manifestFrame{
			Timestamp: f.Timestamp,
			Role:      string(f.Role),
			Scene:     f.Scene,
			Duration:  f.Duration,
		})
	}
	for _, s := range result.Scenes {
		m.Scenes = append(m.Scenes, manifestScene{
			Index:    s.Index,
			Start:    s.Start,
			End:      s.End,
			Selected: s.Selected,
		})
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.NewIOError("writing manifest "+path, err)
	}
	return nil
}
