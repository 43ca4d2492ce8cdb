// Package reporter provides progress reporting interfaces and implementations.
package reporter

// SourceSummary describes the input video before extraction begins.
type SourceSummary struct {
	InputFile  string
	Duration   string
	Resolution string
	SampleRate float64
	Samples    int
}

// SamplingProgress tracks frame decoding across the sampled grid.
type SamplingProgress struct {
	FramesDone  int
	FramesTotal int
	Skipped     int
}

// AnalysisSummary contains cut detection and scene grouping results.
type AnalysisSummary struct {
	FramesAnalyzed int
	CutsDetected   int
	CutsKept       int
	Scenes         int
}

// SceneSummary describes one detected scene.
type SceneSummary struct {
	Index    int
	Start    float64
	End      float64
	Frames   int
	Selected int
}

// SelectionOutcome contains the final frame selection results.
type SelectionOutcome struct {
	Selected     int
	Cuts         int
	Fills        int
	TargetFrames int
	MaxFrames    int
	Scenes       []SceneSummary
}

// ReporterError represents an error to report.
type ReporterError struct {
	Title      string
	Message    string
	Suggestion string
	Context    string
}
