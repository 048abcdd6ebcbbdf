package engine

import (
	"fmt"
	"math"

	"github.com/numeralab/numera/internal/models"
)

// ApplyDeltas returns a copy of base with each delta applied as a fractional
// change: base[key] * (1 + pct). Deltas on keys that are absent or unknown in
// base are silently ignored. The base map is never mutated.
func ApplyDeltas(base models.InputMap, deltas map[string]float64) models.InputMap {
	out := base.Clone()
	for key, pct := range deltas {
		v, ok := out.Get(key)
		if !ok {
			continue
		}
		scaled := v * (1 + pct)
		out[key] = &scaled
	}
	return out
}

// ValidateDeltas rejects non-finite delta fractions before they can poison a
// scenario computation.
func ValidateDeltas(deltas map[string]float64) error {
	for key, pct := range deltas {
		if math.IsNaN(pct) || math.IsInf(pct, 0) {
			return fmt.Errorf("delta for %q is not a finite fraction", key)
		}
	}
	return nil
}

// NetProfitGrid sweeps precio_venta deltas (rows) against costes_construccion
// deltas (columns) and returns the net_profit at each combination. Each cell
// is evaluated independently from base; a nil cell means net_profit could not
// be derived for that combination.
func NetProfitGrid(base models.InputMap, precioVec, costesVec []float64) [][]*float64 {
	grid := make([][]*float64, len(precioVec))
	for i, dp := range precioVec {
		row := make([]*float64, len(costesVec))
		for j, dc := range costesVec {
			scenario := ApplyDeltas(base, map[string]float64{
				models.KeyPrecioVenta:        dp,
				models.KeyCostesConstruccion: dc,
			})
			row[j] = ComputeDerived(scenario).NetProfit
		}
		grid[i] = row
	}
	return grid
}
