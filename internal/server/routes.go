package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/numeralab/numera/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/shutdown", s.handleShutdown)

	// Properties: numbers, computation, scenarios
	mux.HandleFunc("/api/properties/", s.routeProperties)
}

// routeProperties dispatches /api/properties/{id}/* to the appropriate handler.
func (s *Server) routeProperties(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/properties/")
	if path == "" {
		WriteError(w, http.StatusBadRequest, "property id is required in path")
		return
	}

	parts := strings.SplitN(path, "/", 2)
	propertyID := parts[0]
	action := ""
	if len(parts) == 2 {
		action = parts[1]
	}

	switch action {
	case "numbers":
		s.handleNumbers(w, r, propertyID)
	case "compute":
		s.handleCompute(w, r, propertyID)
	case "outputs":
		s.handleOutputs(w, r, propertyID)
	case "what-if":
		s.handleWhatIf(w, r, propertyID)
	case "sensitivity":
		s.handleSensitivity(w, r, propertyID)
	case "break-even":
		s.handleBreakEven(w, r, propertyID)
	case "scenarios":
		s.handleScenarios(w, r, propertyID)
	default:
		WriteError(w, http.StatusNotFound, "Unknown property endpoint")
	}
}

// handleHealth responds to GET/HEAD /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleVersion responds to GET/HEAD /api/version with version info.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

// handleShutdown handles POST /api/shutdown (dev mode only).
func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.app.Config.IsProduction() {
		WriteError(w, http.StatusForbidden, "Shutdown endpoint disabled in production")
		return
	}

	s.logger.Info().Msg("Shutdown requested via HTTP endpoint")

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Shutting down gracefully...\n"))

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	if s.shutdownChan != nil {
		go func() {
			time.Sleep(100 * time.Millisecond)
			s.shutdownChan <- struct{}{}
		}()
	}
}
