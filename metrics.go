package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"k8s.io/klog/v2"
)

// serveMetrics starts a /metrics endpoint against the default Prometheus
// registry on addr, in a background goroutine. Registration of the
// per-Searcher counters themselves happens lazily in the metrics package,
// not here: this only exposes whatever has been registered.
func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{}))
	go func() {
		klog.Infof("serving metrics on %s/metrics", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			klog.Errorf("metrics server stopped: %v", err)
		}
	}()
}
