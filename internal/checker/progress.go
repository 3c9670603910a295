package checker

// ProgressReporter provides callbacks for reporting check progress.
// Implementations can display progress bars, log messages, or remain silent.
// Callbacks are never invoked concurrently.
type ProgressReporter interface {
	// OnDiscoveryComplete is called once the source files are paired.
	OnDiscoveryComplete(totalFiles int)

	// OnFileChecked is called after each pair is checked.
	OnFileChecked(result FileResult)

	// OnComplete is called after the report is written.
	OnComplete(summary *Summary)
}

// NoOpProgressReporter is a progress reporter that does nothing.
// Used when progress reporting is disabled (e.g., --quiet flag).
type NoOpProgressReporter struct{}

func (n *NoOpProgressReporter) OnDiscoveryComplete(totalFiles int) {}
func (n *NoOpProgressReporter) OnFileChecked(result FileResult)    {}
func (n *NoOpProgressReporter) OnComplete(summary *Summary)        {}
