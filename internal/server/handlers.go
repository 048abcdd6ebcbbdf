package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/numeralab/numera/internal/engine"
	"github.com/numeralab/numera/internal/models"
)

// numberItem is one line item in a PUT numbers request. Amount accepts a
// number, a numeric string, or null; unparseable values store as unknown.
type numberItem struct {
	ItemKey string `json:"item_key"`
	Amount  any    `json:"amount"`
}

// handleNumbers handles GET/PUT/DELETE /api/properties/{id}/numbers.
func (s *Server) handleNumbers(w http.ResponseWriter, r *http.Request, propertyID string) {
	switch r.Method {
	case http.MethodGet:
		rows, err := s.app.Storage.LineItemStore().GetNumbers(r.Context(), propertyID)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, map[string]any{
			"property_id": propertyID,
			"items":       rows,
		})

	case http.MethodPut:
		var req struct {
			Items []numberItem `json:"items"`
		}
		if !DecodeJSON(w, r, &req) {
			return
		}
		if len(req.Items) == 0 {
			WriteError(w, http.StatusBadRequest, "items is required")
			return
		}
		for _, item := range req.Items {
			if item.ItemKey == "" {
				WriteError(w, http.StatusBadRequest, "item_key is required for every item")
				return
			}
		}
		store := s.app.Storage.LineItemStore()
		for _, item := range req.Items {
			amount := models.ParseAmount(item.Amount)
			if err := store.SetNumber(r.Context(), propertyID, item.ItemKey, amount); err != nil {
				WriteError(w, http.StatusInternalServerError, err.Error())
				return
			}
		}
		WriteJSON(w, http.StatusOK, map[string]any{
			"property_id": propertyID,
			"updated":     len(req.Items),
		})

	case http.MethodDelete:
		n, err := s.app.Storage.LineItemStore().DeleteNumbers(r.Context(), propertyID)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, map[string]any{
			"property_id": propertyID,
			"deleted":     n,
		})

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

// handleCompute handles POST /api/properties/{id}/compute.
func (s *Server) handleCompute(w http.ResponseWriter, r *http.Request, propertyID string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		TriggeredBy string `json:"triggered_by"`
		TriggerType string `json:"trigger_type"`
	}
	if r.ContentLength > 0 && !DecodeJSON(w, r, &req) {
		return
	}

	result, err := s.app.MetricsService.ComputeAndLog(r.Context(), propertyID, req.TriggeredBy, req.TriggerType)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

// handleOutputs handles GET /api/properties/{id}/outputs.
func (s *Server) handleOutputs(w http.ResponseWriter, r *http.Request, propertyID string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	outputs, err := s.app.Storage.SnapshotStore().GetOutputs(r.Context(), propertyID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if outputs == nil {
		WriteError(w, http.StatusNotFound, "No computed outputs for property")
		return
	}
	WriteJSON(w, http.StatusOK, outputs)
}

// handleWhatIf handles POST /api/properties/{id}/what-if.
func (s *Server) handleWhatIf(w http.ResponseWriter, r *http.Request, propertyID string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Deltas map[string]float64 `json:"deltas"`
		Name   string             `json:"name"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if len(req.Deltas) == 0 {
		WriteError(w, http.StatusBadRequest, "deltas is required")
		return
	}

	result, err := s.app.MetricsService.WhatIf(r.Context(), propertyID, req.Deltas, req.Name)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

// handleSensitivity handles POST /api/properties/{id}/sensitivity.
func (s *Server) handleSensitivity(w http.ResponseWriter, r *http.Request, propertyID string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		PrecioVec []float64 `json:"precio_vec"`
		CostesVec []float64 `json:"costes_vec"`
	}
	if r.ContentLength > 0 && !DecodeJSON(w, r, &req) {
		return
	}

	grid, err := s.app.MetricsService.SensitivityGrid(r.Context(), propertyID, req.PrecioVec, req.CostesVec)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, grid)
}

// handleBreakEven handles POST /api/properties/{id}/break-even.
// Insufficient inputs map to 422 with a stable error code so callers can
// distinguish "missing data" from a bad request.
func (s *Server) handleBreakEven(w http.ResponseWriter, r *http.Request, propertyID string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Tol     float64 `json:"tol"`
		MaxIter int     `json:"max_iter"`
	}
	if r.ContentLength > 0 && !DecodeJSON(w, r, &req) {
		return
	}

	result, err := s.app.MetricsService.BreakEvenPrecio(r.Context(), propertyID, req.Tol, req.MaxIter)
	if err != nil {
		if errors.Is(err, engine.ErrInsufficientData) {
			WriteErrorWithCode(w, http.StatusUnprocessableEntity,
				"Inputs are insufficient for a break-even search", "insufficient_data")
			return
		}
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

// handleScenarios handles GET /api/properties/{id}/scenarios.
func (s *Server) handleScenarios(w http.ResponseWriter, r *http.Request, propertyID string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			WriteError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	snaps, err := s.app.MetricsService.Scenarios(r.Context(), propertyID, limit)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"property_id": propertyID,
		"scenarios":   snaps,
	})
}
