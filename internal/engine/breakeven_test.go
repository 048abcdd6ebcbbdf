package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/numeralab/numera/internal/models"
)

func TestBreakEvenPrecio_Converges(t *testing.T) {
	// net_profit(p) = p - 115000 - 0.08p = 0.92p - 115000, root at 125000.
	res, err := BreakEvenPrecio(fullInputs(), 1.0, 60)
	if err != nil {
		t.Fatalf("BreakEvenPrecio() error = %v", err)
	}
	if math.Abs(res.PrecioVenta-125000) > 2 {
		t.Errorf("precio_venta = %v, want ~125000", res.PrecioVenta)
	}
	if res.NetProfit == nil || math.Abs(*res.NetProfit) > 1.0 {
		t.Errorf("net_profit at root = %v, want within tolerance of 0", res.NetProfit)
	}
	if res.Iterations < 0 || res.Iterations >= 60 {
		t.Errorf("iterations = %d, want a converged count below max", res.Iterations)
	}
}

func TestBreakEvenPrecio_DefaultsApplied(t *testing.T) {
	res, err := BreakEvenPrecio(fullInputs(), 0, 0)
	if err != nil {
		t.Fatalf("BreakEvenPrecio() error = %v", err)
	}
	if math.Abs(res.PrecioVenta-125000) > 2 {
		t.Errorf("precio_venta = %v, want ~125000", res.PrecioVenta)
	}
}

func TestBreakEvenPrecio_InsufficientData(t *testing.T) {
	// No cost components at all: net_profit is underivable at any price.
	base := models.InputMap{
		models.KeyPrecioVenta:  fp(200000),
		models.KeyImpuestosPct: fp(0.08),
	}
	_, err := BreakEvenPrecio(base, 1.0, 60)
	if !errors.Is(err, ErrInsufficientData) {
		t.Errorf("error = %v, want ErrInsufficientData", err)
	}
}

func TestBreakEvenPrecio_NoSignChangeAfterWidening(t *testing.T) {
	// Negative taxes make net_profit = 1.08p - 100, positive across every
	// bracket the widening loop can reach from a 200000 seed.
	base := models.InputMap{
		models.KeyPrecioVenta:  fp(200000),
		models.KeyImpuestosPct: fp(-0.08),
		models.KeyAcometidas:   fp(100),
	}
	_, err := BreakEvenPrecio(base, 1.0, 60)
	if !errors.Is(err, ErrInsufficientData) {
		t.Errorf("error = %v, want ErrInsufficientData when no sign change exists", err)
	}
}

func TestBreakEvenPrecio_SeedsDefaultPrice(t *testing.T) {
	// Without precio_venta the bracket seeds from 100000 and still finds the
	// root of 0.92p - 115000.
	base := fullInputs()
	delete(base, models.KeyPrecioVenta)

	res, err := BreakEvenPrecio(base, 1.0, 60)
	if err != nil {
		t.Fatalf("BreakEvenPrecio() error = %v", err)
	}
	if math.Abs(res.PrecioVenta-125000) > 2 {
		t.Errorf("precio_venta = %v, want ~125000", res.PrecioVenta)
	}
}
