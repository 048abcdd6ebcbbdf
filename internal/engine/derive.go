// Package engine implements the derived-metrics computation core: formula
// evaluation over nullable inputs, anomaly validation, scenario deltas, and
// break-even search. Everything in this package is pure and deterministic;
// fetching inputs and persisting results belongs to the metrics service.
package engine

import (
	"github.com/numeralab/numera/internal/models"
)

// safeDiv divides a by b, yielding nil when either operand is unknown or the
// denominator is zero. Division never produces Inf/NaN or panics.
func safeDiv(a, b *float64) *float64 {
	if a == nil || b == nil || *b == 0 {
		return nil
	}
	v := *a / *b
	return &v
}

// sumPresent adds the known values, ignoring unknown addends. The result is
// nil only when every addend is unknown.
func sumPresent(values ...*float64) *float64 {
	acc := 0.0
	has := false
	for _, v := range values {
		if v != nil {
			has = true
			acc += *v
		}
	}
	if !has {
		return nil
	}
	return &acc
}

// ComputeDerived evaluates the fixed metric set over the inputs.
//
// Every metric except costes_totales requires all of its operands to be
// known and is nil otherwise. costes_totales sums whichever of the five cost
// components are present and is nil only when all five are unknown.
func ComputeDerived(inputs models.InputMap) models.DerivedOutputs {
	precioVenta := inputs[models.KeyPrecioVenta]
	impuestosPct := inputs[models.KeyImpuestosPct]
	totalPagado := inputs[models.KeyTotalPagado]
	terrenoUrbano := inputs[models.KeyTerrenoUrbano]
	terrenoRustico := inputs[models.KeyTerrenoRustico]
	superficieM2 := inputs[models.KeySuperficieM2]

	var impuestosTotal *float64
	if impuestosPct != nil && precioVenta != nil {
		v := *impuestosPct * *precioVenta
		impuestosTotal = &v
	}

	costesTotales := sumPresent(
		inputs[models.KeyProjectMgmtFees],
		inputs[models.KeyTerrenosCoste],
		inputs[models.KeyProjectManagementCoste],
		inputs[models.KeyAcometidas],
		inputs[models.KeyCostesConstruccion],
	)

	var grossMargin *float64
	if precioVenta != nil && costesTotales != nil {
		v := *precioVenta - *costesTotales
		grossMargin = &v
	}

	var netProfit *float64
	if precioVenta != nil && costesTotales != nil && impuestosTotal != nil {
		v := *precioVenta - *costesTotales - *impuestosTotal
		netProfit = &v
	}

	roiPct := safeDiv(netProfit, totalPagado)

	var urbanoRatio *float64
	if terrenoUrbano != nil && terrenoRustico != nil {
		denom := *terrenoUrbano + *terrenoRustico
		urbanoRatio = safeDiv(terrenoUrbano, &denom)
	}

	pricePerM2 := safeDiv(precioVenta, superficieM2)

	return models.DerivedOutputs{
		ImpuestosTotal: impuestosTotal,
		CostesTotales:  costesTotales,
		GrossMargin:    grossMargin,
		NetProfit:      netProfit,
		RoiPct:         roiPct,
		UrbanoRatio:    urbanoRatio,
		PricePerM2:     pricePerM2,
	}
}
