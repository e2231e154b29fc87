package handlers

import (
	"net/http"

	"github.com/VictoriaMetrics/metrics"
)

// Metrics exposes the process metrics in Prometheus text format.
func Metrics(w http.ResponseWriter, r *http.Request) {
	metrics.WritePrometheus(w, true)
}
