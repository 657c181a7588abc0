package metrics

import (
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "docnav"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	generateDuration prom.Histogram
	generateOutcome  *prom.CounterVec
	navItems         prom.Gauge
	sidebarSections  prom.Gauge
	dirReadFailures  prom.Counter
	fencesRendered   *prom.CounterVec
	diagramInits     prom.Counter
	diagramDuration  *prom.HistogramVec
	httpRequests     *prom.HistogramVec
}

// NewPrometheusRecorder constructs the collectors and registers them on reg
// (a fresh registry when nil).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		generateDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "generate_duration_seconds",
			Help:      "Duration of site configuration generation",
			Buckets:   prom.DefBuckets,
		}),
		generateOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "generate_outcomes_total",
			Help:      "Site generation outcomes",
		}, []string{"result"}),
		navItems: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "nav_items",
			Help:      "Navigation items emitted by the last generation, Home included",
		}),
		sidebarSections: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "sidebar_sections",
			Help:      "Sidebar sections emitted by the last generation",
		}),
		dirReadFailures: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "dir_read_failures_total",
			Help:      "Directories that could not be listed and were treated as empty",
		}),
		fencesRendered: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "fences_rendered_total",
			Help:      "Fenced code blocks rendered by kind",
		}, []string{"kind"}),
		diagramInits: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "diagram_engine_inits_total",
			Help:      "Diagram engine initializations caused by configuration changes",
		}),
		diagramDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "diagram_render_duration_seconds",
			Help:      "Duration of diagram renders",
			Buckets:   prom.DefBuckets,
		}, []string{"result"}),
		httpRequests: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration by route and status",
			Buckets:   prom.DefBuckets,
		}, []string{"route", "status"}),
	}
	reg.MustRegister(
		pr.generateDuration, pr.generateOutcome, pr.navItems, pr.sidebarSections,
		pr.dirReadFailures, pr.fencesRendered, pr.diagramInits, pr.diagramDuration, pr.httpRequests,
	)
	return pr
}

func (p *PrometheusRecorder) ObserveGenerateDuration(d time.Duration) {
	p.generateDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncGenerateOutcome(result ResultLabel) {
	p.generateOutcome.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) SetNavItems(n int)        { p.navItems.Set(float64(n)) }
func (p *PrometheusRecorder) SetSidebarSections(n int) { p.sidebarSections.Set(float64(n)) }

func (p *PrometheusRecorder) AddDirReadFailures(n int64) {
	if n > 0 {
		p.dirReadFailures.Add(float64(n))
	}
}

func (p *PrometheusRecorder) IncFenceRendered(kind string) {
	p.fencesRendered.WithLabelValues(kind).Inc()
}

func (p *PrometheusRecorder) IncDiagramEngineInit() { p.diagramInits.Inc() }

func (p *PrometheusRecorder) ObserveDiagramRender(d time.Duration, result ResultLabel) {
	p.diagramDuration.WithLabelValues(string(result)).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveHTTPRequest(route string, status int, d time.Duration) {
	p.httpRequests.WithLabelValues(route, strconv.Itoa(status)).Observe(d.Seconds())
}
