// Package metrics collects docnav build and render metrics.
//
// Components receive a Recorder and default to NoopRecorder, so metrics
// stay optional without nil checks:
//
//	gen := site.NewGenerator(cfg, site.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//
// PrometheusRecorder registers its collectors on the given registry and
// HTTPHandler exposes that registry for scraping (`docnav serve`, /metrics).
package metrics
