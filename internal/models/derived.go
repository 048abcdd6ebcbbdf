package models

import "time"

// DerivedOutputs is the fixed set of metrics computed from an InputMap.
// A nil field means the metric could not be derived from the known inputs.
type DerivedOutputs struct {
	ImpuestosTotal *float64 `json:"impuestos_total"`
	CostesTotales  *float64 `json:"costes_totales"`
	GrossMargin    *float64 `json:"gross_margin"`
	NetProfit      *float64 `json:"net_profit"`
	RoiPct         *float64 `json:"roi_pct"`
	UrbanoRatio    *float64 `json:"urbano_ratio"`
	PricePerM2     *float64 `json:"price_per_m2"`
}

// CalcResult is the outcome of a compute or what-if operation.
type CalcResult struct {
	Inputs    InputMap       `json:"inputs"`
	Outputs   DerivedOutputs `json:"outputs"`
	Anomalies []string       `json:"anomalies"`
}

// CalcOutputs is the latest computed state for a property, upserted on every
// compute so readers see "last computed = last inputs".
type CalcOutputs struct {
	PropertyID string         `json:"property_id"`
	Outputs    DerivedOutputs `json:"outputs"`
	Anomalies  []string       `json:"anomalies"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// CalcLogEntry is an append-only audit record of one computation.
type CalcLogEntry struct {
	ID          string         `json:"id"`
	PropertyID  string         `json:"property_id"`
	Inputs      InputMap       `json:"inputs"`
	Outputs     DerivedOutputs `json:"outputs"`
	Anomalies   []string       `json:"anomalies"`
	TriggeredBy string         `json:"triggered_by"`
	TriggerType string         `json:"trigger_type"`
	CreatedAt   time.Time      `json:"created_at"`
}

// ScenarioSnapshot is a persisted what-if or sensitivity result. Snapshots
// exist for audit and history only; computations never read them back.
type ScenarioSnapshot struct {
	ID         string             `json:"id"`
	PropertyID string             `json:"property_id"`
	Name       string             `json:"name"`
	Deltas     map[string]float64 `json:"deltas,omitempty"`
	Outputs    *DerivedOutputs    `json:"outputs,omitempty"`
	Grid       *SensitivityGrid   `json:"grid,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
}

// SensitivityGrid is a net_profit surface over two delta sweeps.
// Grid[i][j] corresponds to PrecioVec[i] and CostesVec[j].
type SensitivityGrid struct {
	PrecioVec []float64    `json:"precio_vec"`
	CostesVec []float64    `json:"costes_vec"`
	Grid      [][]*float64 `json:"grid"`
}

// BreakEvenResult is the outcome of a successful break-even search.
// NetProfit is the profit at the returned price: within tolerance of zero
// when the search converged, the best midpoint otherwise.
type BreakEvenResult struct {
	PrecioVenta float64  `json:"precio_venta"`
	NetProfit   *float64 `json:"net_profit"`
	Iterations  int      `json:"iterations"`
}
