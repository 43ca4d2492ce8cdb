package reporter

// Reporter defines the interface for progress reporting.
type Reporter interface {
	SourceInfo(summary SourceSummary)
	SamplingStarted(totalFrames int)
	SamplingProgress(progress SamplingProgress)
	AnalysisComplete(summary AnalysisSummary)
	SelectionComplete(outcome SelectionOutcome)
	Warning(message string)
	Error(err ReporterError)
	OperationComplete(message string)
	Verbose(message string)
}

// NullReporter is a no-op reporter that discards all updates.
type NullReporter struct{}

func (NullReporter) SourceInfo(SourceSummary)           {}
func (NullReporter) SamplingStarted(int)                {}
func (NullReporter) SamplingProgress(SamplingProgress)  {}
func (NullReporter) AnalysisComplete(AnalysisSummary)   {}
func (NullReporter) SelectionComplete(SelectionOutcome) {}
func (NullReporter) Warning(string)                     {}
func (NullReporter) Error(ReporterError)                {}
func (NullReporter) OperationComplete(string)           {}
func (NullReporter) Verbose(string)                     {}
