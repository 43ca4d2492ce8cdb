package reporter

import (
	"fmt"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// TerminalReporter outputs human-friendly text to the terminal.
type TerminalReporter struct {
	mu       sync.Mutex
	progress *progressbar.ProgressBar
	verbose  bool
	cyan     *color.Color
	green    *color.Color
	yellow   *color.Color
	red      *color.Color
	bold     *color.Color
	faint    *color.Color
}

// NewTerminalReporter creates a new terminal reporter.
func NewTerminalReporter(verbose bool) *TerminalReporter {
	return &TerminalReporter{
		verbose: verbose,
		cyan:    color.New(color.FgCyan, color.Bold),
		green:   color.New(color.FgGreen),
		yellow:  color.New(color.FgYellow, color.Bold),
		red:     color.New(color.FgRed, color.Bold),
		bold:    color.New(color.Bold),
		faint:   color.New(color.Faint),
	}
}

// printLabel prints a bold label with fixed width padding followed by a value.
// Width is applied to the plain text before styling to ensure proper alignment.
func (r *TerminalReporter) printLabel(width int, label, value string) {
	paddedLabel := fmt.Sprintf("%-*s", width, label)
	fmt.Printf("  %s %s\n", r.bold.Sprint(paddedLabel), value)
}

func (r *TerminalReporter) finishProgress() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.progress != nil {
		_ = r.progress.Finish()
		r.progress = nil
	}
}

func (r *TerminalReporter) SourceInfo(summary SourceSummary) {
	fmt.Println()
	_, _ = r.cyan.Println("VIDEO")
	const w = 12
	r.printLabel(w, "File:", summary.InputFile)
	r.printLabel(w, "Duration:", summary.Duration)
	r.printLabel(w, "Resolution:", summary.Resolution)
	r.printLabel(w, "Sampling:", fmt.Sprintf("%.1f fps (%d frames)", summary.SampleRate, summary.Samples))
}

func (r *TerminalReporter) SamplingStarted(totalFrames int) {
	r.finishProgress()

	fmt.Println()
	_, _ = r.cyan.Println("SAMPLING")

	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress = progressbar.NewOptions(
		totalFrames,
		progressbar.OptionSetDescription("  decoding"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *TerminalReporter) SamplingProgress(progress SamplingProgress) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.progress != nil {
		_ = r.progress.Set(progress.FramesDone)
	}
}

func (r *TerminalReporter) AnalysisComplete(summary AnalysisSummary) {
	r.finishProgress()

	fmt.Println()
	_, _ = r.cyan.Println("ANALYSIS")
	const w = 10
	r.printLabel(w, "Frames:", fmt.Sprintf("%d analyzed", summary.FramesAnalyzed))
	cuts := fmt.Sprintf("%d detected", summary.CutsDetected)
	if summary.CutsKept < summary.CutsDetected {
		cuts += r.faint.Sprintf(" (%d kept)", summary.CutsKept)
	}
	r.printLabel(w, "Cuts:", cuts)
	r.printLabel(w, "Scenes:", fmt.Sprintf("%d", summary.Scenes))
}

func (r *TerminalReporter) SelectionComplete(outcome SelectionOutcome) {
	fmt.Println()
	_, _ = r.cyan.Println("SELECTION")
	const w = 10
	r.printLabel(w, "Frames:", fmt.Sprintf("%d of %d target (max %d)",
		outcome.Selected, outcome.TargetFrames, outcome.MaxFrames))
	r.printLabel(w, "Makeup:", fmt.Sprintf("%d cuts, %d fills", outcome.Cuts, outcome.Fills))

	if r.verbose {
		for _, scene := range outcome.Scenes {
			fmt.Printf("  %s scene %d: %.2fs-%.2fs, %d sampled, %d selected\n",
				r.faint.Sprint("›"), scene.Index, scene.Start, scene.End, scene.Frames, scene.Selected)
		}
	}
}

func (r *TerminalReporter) Warning(message string) {
	r.finishProgress()
	fmt.Printf("  %s %s\n", r.yellow.Sprint("Warning:"), message)
}

func (r *TerminalReporter) Error(err ReporterError) {
	r.finishProgress()

	fmt.Println()
	_, _ = r.red.Printf("ERROR: %s\n", err.Title)
	if err.Message != "" {
		fmt.Printf("  %s\n", err.Message)
	}
	if err.Context != "" {
		fmt.Printf("  %s %s\n", r.bold.Sprint("Context:"), err.Context)
	}
	if err.Suggestion != "" {
		fmt.Printf("  %s %s\n", r.bold.Sprint("Suggestion:"), err.Suggestion)
	}
}

func (r *TerminalReporter) OperationComplete(message string) {
	r.finishProgress()
	fmt.Println()
	_, _ = r.green.Printf("✓ %s\n", message)
}

func (r *TerminalReporter) Verbose(message string) {
	if !r.verbose {
		return
	}
	fmt.Printf("  %s\n", r.faint.Sprint(message))
}
