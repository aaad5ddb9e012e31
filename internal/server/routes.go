package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Service index
	mux.HandleFunc("/", s.app.APIHandler.IndexHandler)

	// API routes - Report generation
	mux.HandleFunc("/api/generate-pdf", s.app.ReportHandler.GeneratePDFHandler)

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	return mux
}
