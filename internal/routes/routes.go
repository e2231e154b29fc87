package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Theodlz/skyportal/internal/handlers"
)

// NewRouter sets up the queue service routes.
func NewRouter(ingest *handlers.IngestHandler) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/health", handlers.HealthCheck).Methods(http.MethodGet)
	router.HandleFunc("/metrics", handlers.Metrics).Methods(http.MethodGet)

	router.HandleFunc("/", ingest.Status).Methods(http.MethodGet)
	router.HandleFunc("/", ingest.Enqueue).Methods(http.MethodPost)

	return router
}
