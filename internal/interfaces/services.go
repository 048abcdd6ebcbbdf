// Package interfaces defines service contracts for Numera
package interfaces

import (
	"context"

	"github.com/numeralab/numera/internal/models"
)

// MetricsService computes derived metrics, scenarios, and break-even analyses
// for a property. Every operation reads the live line items at call time; the
// service holds no state between calls.
type MetricsService interface {
	// ComputeAndLog computes derived metrics and anomalies from the current
	// line items, then best-effort persists the latest state and an audit log
	// entry tagged with triggeredBy/triggerType.
	ComputeAndLog(ctx context.Context, propertyID, triggeredBy, triggerType string) (*models.CalcResult, error)

	// WhatIf applies fractional deltas to the current inputs and computes the
	// resulting scenario. Deltas are fractions (e.g. -0.1 for -10%). Each call
	// starts from the live inputs; what-ifs never compound.
	WhatIf(ctx context.Context, propertyID string, deltas map[string]float64, name string) (*models.CalcResult, error)

	// SensitivityGrid sweeps precio_venta and costes_construccion deltas and
	// returns the net_profit surface (rows follow precioVec, columns costesVec).
	SensitivityGrid(ctx context.Context, propertyID string, precioVec, costesVec []float64) (*models.SensitivityGrid, error)

	// BreakEvenPrecio searches for the sale price that brings net_profit to
	// approximately zero. Returns engine.ErrInsufficientData (wrapped) when
	// the inputs cannot support the search. tol and maxIter fall back to
	// configured defaults when zero.
	BreakEvenPrecio(ctx context.Context, propertyID string, tol float64, maxIter int) (*models.BreakEvenResult, error)

	// Scenarios lists recent scenario snapshots for a property.
	Scenarios(ctx context.Context, propertyID string, limit int) ([]*models.ScenarioSnapshot, error)
}
