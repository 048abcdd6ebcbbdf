package engine

import (
	"math"
	"testing"

	"github.com/numeralab/numera/internal/models"
)

func TestApplyDeltas_ZeroDeltaIsIdentity(t *testing.T) {
	base := fullInputs()
	out := ApplyDeltas(base, map[string]float64{models.KeyPrecioVenta: 0})
	if v, _ := out.Get(models.KeyPrecioVenta); v != 200000 {
		t.Errorf("precio_venta after zero delta = %v, want 200000", v)
	}
}

func TestApplyDeltas_ScalesPresentKeys(t *testing.T) {
	base := fullInputs()
	out := ApplyDeltas(base, map[string]float64{
		models.KeyPrecioVenta:        -0.1,
		models.KeyCostesConstruccion: 0.25,
	})
	if v, _ := out.Get(models.KeyPrecioVenta); v != 180000 {
		t.Errorf("precio_venta = %v, want 180000", v)
	}
	if v, _ := out.Get(models.KeyCostesConstruccion); v != 100000 {
		t.Errorf("costes_construccion = %v, want 100000", v)
	}
	if v, _ := base.Get(models.KeyPrecioVenta); v != 200000 {
		t.Error("base map was mutated")
	}
}

func TestApplyDeltas_UnknownKeysIgnored(t *testing.T) {
	base := models.InputMap{
		models.KeyAcometidas:  fp(5000),
		models.KeyPrecioVenta: nil,
	}
	out := ApplyDeltas(base, map[string]float64{
		"no_such_key":         0.5,
		models.KeyPrecioVenta: 0.5,
	})
	if len(out) != len(base) {
		t.Errorf("len(out) = %d, want %d", len(out), len(base))
	}
	if out[models.KeyPrecioVenta] != nil {
		t.Error("delta on an unknown value should stay unknown")
	}
}

func TestApplyDeltas_WhatIfNetProfit(t *testing.T) {
	scenario := ApplyDeltas(fullInputs(), map[string]float64{models.KeyPrecioVenta: -0.1})
	out := ComputeDerived(scenario)
	if out.NetProfit == nil || math.Abs(*out.NetProfit-50600) > 1e-9 {
		t.Errorf("net_profit under -10%% precio = %v, want 50600", out.NetProfit)
	}
}

func TestValidateDeltas(t *testing.T) {
	if err := ValidateDeltas(map[string]float64{models.KeyPrecioVenta: -0.1}); err != nil {
		t.Errorf("finite delta rejected: %v", err)
	}
	if err := ValidateDeltas(map[string]float64{models.KeyPrecioVenta: math.NaN()}); err == nil {
		t.Error("NaN delta accepted")
	}
	if err := ValidateDeltas(map[string]float64{models.KeyPrecioVenta: math.Inf(1)}); err == nil {
		t.Error("Inf delta accepted")
	}
}

func TestNetProfitGrid_ShapeAndValues(t *testing.T) {
	precioVec := []float64{-0.1, 0, 0.1}
	costesVec := []float64{-0.2, -0.1, 0, 0.1}

	grid := NetProfitGrid(fullInputs(), precioVec, costesVec)
	if len(grid) != 3 {
		t.Fatalf("len(grid) = %d, want 3", len(grid))
	}
	for i, row := range grid {
		if len(row) != 4 {
			t.Fatalf("len(grid[%d]) = %d, want 4", i, len(row))
		}
	}

	// Center cell is the unmodified computation.
	if v := grid[1][2]; v == nil || *v != 69000 {
		t.Errorf("grid[1][2] = %v, want 69000", v)
	}
	// -10% precio, no costes delta.
	if v := grid[0][2]; v == nil || math.Abs(*v-50600) > 1e-9 {
		t.Errorf("grid[0][2] = %v, want 50600", v)
	}
}

func TestNetProfitGrid_UnderivableCellsAreNil(t *testing.T) {
	base := models.InputMap{models.KeyPrecioVenta: fp(200000)}
	grid := NetProfitGrid(base, []float64{0}, []float64{0})
	if grid[0][0] != nil {
		t.Errorf("grid cell without cost inputs = %v, want nil", *grid[0][0])
	}
}
