package models

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Well-known line item keys. Percent-type items (impuestos_pct) are stored as
// fractions in [0,1], not whole percentages.
const (
	KeyPrecioVenta            = "precio_venta"
	KeyImpuestosPct           = "impuestos_pct"
	KeyProjectMgmtFees        = "project_mgmt_fees"
	KeyTerrenosCoste          = "terrenos_coste"
	KeyProjectManagementCoste = "project_management_coste"
	KeyAcometidas             = "acometidas"
	KeyCostesConstruccion     = "costes_construccion"
	KeyTotalPagado            = "total_pagado"
	KeyTerrenoUrbano          = "terreno_urbano"
	KeyTerrenoRustico         = "terreno_rustico"
	KeySuperficieM2           = "superficie_m2"
)

// CostComponentKeys are the five inputs summed into costes_totales.
var CostComponentKeys = []string{
	KeyProjectMgmtFees,
	KeyTerrenosCoste,
	KeyProjectManagementCoste,
	KeyAcometidas,
	KeyCostesConstruccion,
}

// LineItem is a single named numeric input for a property.
// A nil Amount means the value is unknown, which is distinct from zero.
type LineItem struct {
	PropertyID string    `json:"property_id"`
	ItemKey    string    `json:"item_key"`
	Amount     *float64  `json:"amount"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// InputMap holds the current inputs of a property keyed by item key.
// A missing key and a nil value both mean "unknown".
type InputMap map[string]*float64

// BuildInputMap converts line item rows into an InputMap. Rows without an
// item key are skipped; duplicate keys resolve last-write-wins.
func BuildInputMap(rows []LineItem) InputMap {
	out := make(InputMap, len(rows))
	for _, r := range rows {
		if r.ItemKey == "" {
			continue
		}
		if r.Amount == nil {
			out[r.ItemKey] = nil
			continue
		}
		v := *r.Amount
		out[r.ItemKey] = &v
	}
	return out
}

// Get returns the value for key and whether it is known (present and non-nil).
func (m InputMap) Get(key string) (float64, bool) {
	v, ok := m[key]
	if !ok || v == nil {
		return 0, false
	}
	return *v, true
}

// Clone returns a deep copy of the map.
func (m InputMap) Clone() InputMap {
	out := make(InputMap, len(m))
	for k, v := range m {
		if v == nil {
			out[k] = nil
			continue
		}
		c := *v
		out[k] = &c
	}
	return out
}

// ParseAmount converts a raw amount (number, numeric string, json.Number, or
// nil) into a nullable float. Unparseable values map to nil rather than an
// error: an unknown amount is a data condition, not a failure.
func ParseAmount(raw any) *float64 {
	switch v := raw.(type) {
	case nil:
		return nil
	case float64:
		return &v
	case float32:
		f := float64(v)
		return &f
	case int:
		f := float64(v)
		return &f
	case int64:
		f := float64(v)
		return &f
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil
		}
		return &f
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}
