package engine

import (
	"errors"
	"math"

	"github.com/numeralab/numera/internal/models"
)

// ErrInsufficientData is returned when the known inputs cannot support a
// break-even search (net_profit is underivable or no sign change exists).
var ErrInsufficientData = errors.New("insufficient_data")

// Break-even search parameters used when the caller passes zero values.
const (
	DefaultBreakEvenTolerance = 1.0
	DefaultBreakEvenMaxIter   = 60

	defaultPrecioSeed = 100000.0
	maxBracketWidens  = 5
)

// BreakEvenPrecio solves for the precio_venta that drives net_profit to
// approximately zero, holding every other input at its current value.
//
// The bracket starts at [0.5·p0, 1.5·p0] around the current price (or a
// 100000 seed when the price is unset or zero) and widens geometrically up
// to five times looking for a sign change, then bisects. The result is
// tolerance-bounded, not exact: NetProfit is within tol of zero when the
// search converged, and the final bracket midpoint otherwise.
func BreakEvenPrecio(base models.InputMap, tol float64, maxIter int) (*models.BreakEvenResult, error) {
	if tol <= 0 {
		tol = DefaultBreakEvenTolerance
	}
	if maxIter <= 0 {
		maxIter = DefaultBreakEvenMaxIter
	}

	f := func(precio float64) *float64 {
		scenario := base.Clone()
		scenario[models.KeyPrecioVenta] = &precio
		return ComputeDerived(scenario).NetProfit
	}

	p0 := defaultPrecioSeed
	if v, ok := base.Get(models.KeyPrecioVenta); ok && v != 0 {
		p0 = v
	}
	lo := math.Max(1.0, p0*0.5)
	hi := p0 * 1.5
	vLo, vHi := f(lo), f(hi)
	if vLo == nil || vHi == nil {
		return nil, ErrInsufficientData
	}

	for widen := 0; widen < maxBracketWidens && *vLo * *vHi > 0; widen++ {
		lo *= 0.8
		hi *= 1.2
		vLo, vHi = f(lo), f(hi)
		if vLo == nil || vHi == nil {
			return nil, ErrInsufficientData
		}
	}
	if *vLo * *vHi > 0 {
		return nil, ErrInsufficientData
	}

	iterations := 0
	var root *float64
	for iterations < maxIter {
		mid := 0.5 * (lo + hi)
		vMid := f(mid)
		if vMid == nil {
			break
		}
		if math.Abs(*vMid) <= tol {
			root = &mid
			break
		}
		if *vLo * *vMid <= 0 {
			hi = mid
			vHi = vMid
		} else {
			lo = mid
			vLo = vMid
		}
		iterations++
	}
	if root == nil {
		mid := 0.5 * (lo + hi)
		root = &mid
	}

	return &models.BreakEvenResult{
		PrecioVenta: *root,
		NetProfit:   f(*root),
		Iterations:  iterations,
	}, nil
}
