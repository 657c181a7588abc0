package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// countingRecorder is a Recorder used to verify that NoopRecorder and
// PrometheusRecorder share one method set.
type countingRecorder struct {
	NoopRecorder
	mu     sync.Mutex
	fences map[string]int
}

func (c *countingRecorder) IncFenceRendered(kind string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fences[kind]++
}

var (
	_ Recorder = NoopRecorder{}
	_ Recorder = (*PrometheusRecorder)(nil)
	_ Recorder = (*countingRecorder)(nil)
)

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveGenerateDuration(time.Second)
	r.ObserveHTTPRequest("/", 200, time.Second)

	c := &countingRecorder{fences: map[string]int{}}
	r = c
	r.IncFenceRendered("note")
	r.IncDiagramEngineInit()
	assert.Equal(t, 1, c.fences["note"])
}
