// Package handlers holds the HTTP surface of the queue service: the
// ingestion endpoint, a health probe, and the metrics export.
package handlers

import "net/http"

// HealthCheck reports process liveness.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
