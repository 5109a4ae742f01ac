package api

import (
	"github.com/gorilla/mux"
)

// SetupRoutes registers all API routes.
func SetupRoutes(router *mux.Router, handlers *Handlers) {
	api := router.PathPrefix("/api/v1").Subrouter()

	refinements := api.PathPrefix("/refinements").Subrouter()
	refinements.HandleFunc("", handlers.StartRefinement).Methods("POST")
	refinements.HandleFunc("", handlers.ListJobs).Methods("GET")
	refinements.HandleFunc("/{jobId}", handlers.GetJob).Methods("GET")
	refinements.HandleFunc("/{jobId}/result", handlers.GetJobResult).Methods("GET")

	api.HandleFunc("/health", handlers.HealthCheck).Methods("GET")
}
