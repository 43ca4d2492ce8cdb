package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// JSONReporter outputs NDJSON events, one per line.
type JSONReporter struct {
	writer io.Writer
	mu     sync.Mutex
}

// NewJSONReporter creates a new JSON reporter that writes to stdout.
func NewJSONReporter() *JSONReporter {
	return &JSONReporter{writer: os.Stdout}
}

// NewJSONReporterWithWriter creates a JSON reporter with a custom writer.
func NewJSONReporterWithWriter(w io.Writer) *JSONReporter {
	return &JSONReporter{writer: w}
}

func (r *JSONReporter) timestamp() int64 {
	return time.Now().Unix()
}

func (r *JSONReporter) write(v interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintln(r.writer, string(data))
}

func (r *JSONReporter) SourceInfo(summary SourceSummary) {
	r.write(map[string]interface{}{
		"type":        "source_info",
		"input_file":  summary.InputFile,
		"duration":    summary.Duration,
		"resolution":  summary.Resolution,
		"sample_rate": summary.SampleRate,
		"samples":     summary.Samples,
		"timestamp":   r.timestamp(),
	})
}

func (r *JSONReporter) SamplingStarted(totalFrames int) {
	r.write(map[string]interface{}{
		"type":         "sampling_started",
		"total_frames": totalFrames,
		"timestamp":    r.timestamp(),
	})
}

func (r *JSONReporter) SamplingProgress(progress SamplingProgress) {
	r.write(map[string]interface{}{
		"type":         "sampling_progress",
		"frames_done":  progress.FramesDone,
		"frames_total": progress.FramesTotal,
		"skipped":      progress.Skipped,
		"timestamp":    r.timestamp(),
	})
}

func (r *JSONReporter) AnalysisComplete(summary AnalysisSummary) {
	r.write(map[string]interface{}{
		"type":            "analysis_complete",
		"frames_analyzed": summary.FramesAnalyzed,
		"cuts_detected":   summary.CutsDetected,
		"cuts_kept":       summary.CutsKept,
		"scenes":          summary.Scenes,
		"timestamp":       r.timestamp(),
	})
}

func (r *JSONReporter) SelectionComplete(outcome SelectionOutcome) {
	scenes := make([]map[string]interface{}, 0, len(outcome.Scenes))
	for _, scene := range outcome.Scenes {
		scenes = append(scenes, map[string]interface{}{
			"index":    scene.Index,
			"start":    scene.Start,
			"end":      scene.End,
			"frames":   scene.Frames,
			"selected": scene.Selected,
		})
	}
	r.write(map[string]interface{}{
		"type":          "selection_complete",
		"selected":      outcome.Selected,
		"cuts":          outcome.Cuts,
		"fills":         outcome.Fills,
		"target_frames": outcome.TargetFrames,
		"max_frames":    outcome.MaxFrames,
		"scenes":        scenes,
		"timestamp":     r.timestamp(),
	})
}

func (r *JSONReporter) Warning(message string) {
	r.write(map[string]interface{}{
		"type":      "warning",
		"message":   message,
		"timestamp": r.timestamp(),
	})
}

func (r *JSONReporter) Error(err ReporterError) {
	r.write(map[string]interface{}{
		"type":       "error",
		"title":      err.Title,
		"message":    err.Message,
		"context":    err.Context,
		"suggestion": err.Suggestion,
		"timestamp":  r.timestamp(),
	})
}

func (r *JSONReporter) OperationComplete(message string) {
	r.write(map[string]interface{}{
		"type":      "operation_complete",
		"message":   message,
		"timestamp": r.timestamp(),
	})
}

func (r *JSONReporter) Verbose(message string) {
	r.write(map[string]interface{}{
		"type":      "verbose",
		"message":   message,
		"timestamp": r.timestamp(),
	})
}
