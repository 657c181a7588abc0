package metrics

import "time"

// ResultLabel enumerates outcome categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultFailed   ResultLabel = "failed"
	ResultCanceled ResultLabel = "canceled"
)

// Recorder defines observability hooks for site generation, fence rendering
// and diagram rendering. Implementations must be safe for concurrent use.
type Recorder interface {
	ObserveGenerateDuration(d time.Duration)
	IncGenerateOutcome(result ResultLabel)
	SetNavItems(n int)
	SetSidebarSections(n int)
	AddDirReadFailures(n int64)
	IncFenceRendered(kind string)
	IncDiagramEngineInit()
	ObserveDiagramRender(d time.Duration, result ResultLabel)
	ObserveHTTPRequest(route string, status int, d time.Duration)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveGenerateDuration(time.Duration)             {}
func (NoopRecorder) IncGenerateOutcome(ResultLabel)                    {}
func (NoopRecorder) SetNavItems(int)                                   {}
func (NoopRecorder) SetSidebarSections(int)                            {}
func (NoopRecorder) AddDirReadFailures(int64)                          {}
func (NoopRecorder) IncFenceRendered(string)                           {}
func (NoopRecorder) IncDiagramEngineInit()                             {}
func (NoopRecorder) ObserveDiagramRender(time.Duration, ResultLabel)   {}
func (NoopRecorder) ObserveHTTPRequest(string, int, time.Duration)     {}

// ResultOf maps an error onto a ResultLabel.
func ResultOf(err error, canceled bool) ResultLabel {
	switch {
	case err == nil:
		return ResultSuccess
	case canceled:
		return ResultCanceled
	default:
		return ResultFailed
	}
}
