package engine

import (
	"fmt"

	"github.com/numeralab/numera/internal/models"
)

// negativeCheckKeys are validated in this exact order so warning output is
// stable across runs.
var negativeCheckKeys = []string{
	models.KeyPrecioVenta,
	models.KeyProjectMgmtFees,
	models.KeyTerrenosCoste,
	models.KeyProjectManagementCoste,
	models.KeyAcometidas,
	models.KeyCostesConstruccion,
	models.KeyTotalPagado,
	models.KeyTerrenoUrbano,
	models.KeyTerrenoRustico,
}

// ValidateAnomalies runs the fixed anomaly checks over inputs and outputs and
// returns warning strings in check order. Checks are independent, so several
// can fire at once. Unknown values never warn: absence is a data condition,
// not an anomaly.
func ValidateAnomalies(inputs models.InputMap, outputs models.DerivedOutputs) []string {
	warnings := []string{}

	if pct, ok := inputs.Get(models.KeyImpuestosPct); ok && (pct < 0 || pct > 0.25) {
		warnings = append(warnings, "impuestos_pct fuera de rango [0,0.25]")
	}

	for _, key := range negativeCheckKeys {
		if v, ok := inputs.Get(key); ok && v < 0 {
			warnings = append(warnings, fmt.Sprintf("%s es negativo", key))
		}
	}

	precioVenta, hasPrecio := inputs.Get(models.KeyPrecioVenta)
	totalPagado, hasPagado := inputs.Get(models.KeyTotalPagado)
	if hasPrecio && hasPagado && totalPagado > precioVenta {
		warnings = append(warnings, "total_pagado > precio_venta")
	}

	if outputs.NetProfit != nil && *outputs.NetProfit < 0 {
		warnings = append(warnings, "net_profit negativo")
	}

	return warnings
}
