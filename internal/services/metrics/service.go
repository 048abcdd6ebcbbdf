// Package metrics orchestrates derived-metric computation, scenario analysis,
// and break-even search over a property's line items.
package metrics

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/numeralab/numera/internal/common"
	"github.com/numeralab/numera/internal/engine"
	"github.com/numeralab/numera/internal/interfaces"
	"github.com/numeralab/numera/internal/models"
)

// Compile-time interface check
var _ interfaces.MetricsService = (*Service)(nil)

// Service implements MetricsService. Computation is pure and in-memory;
// persistence of results is best-effort and never affects the returned value.
type Service struct {
	storage interfaces.StorageManager
	config  *common.Config
	logger  *common.Logger
}

// NewService creates a new metrics service
func NewService(storage interfaces.StorageManager, config *common.Config, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		config:  config,
		logger:  logger,
	}
}

// generateSnapshotID returns a unique ID with the given prefix + 8 hex chars.
func generateSnapshotID(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
}

// liveInputs fetches the current line items and folds them into an input map.
func (s *Service) liveInputs(ctx context.Context, propertyID string) (models.InputMap, error) {
	if strings.TrimSpace(propertyID) == "" {
		return nil, fmt.Errorf("property id is required")
	}
	rows, err := s.storage.LineItemStore().GetNumbers(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load line items for %s: %w", propertyID, err)
	}
	return models.BuildInputMap(rows), nil
}

// ComputeAndLog computes derived metrics and anomalies from the current line
// items and best-effort persists the latest state plus an audit log entry.
func (s *Service) ComputeAndLog(ctx context.Context, propertyID, triggeredBy, triggerType string) (*models.CalcResult, error) {
	inputs, err := s.liveInputs(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if triggeredBy == "" {
		triggeredBy = "api"
	}
	if triggerType == "" {
		triggerType = "manual"
	}

	outputs := engine.ComputeDerived(inputs)
	anomalies := engine.ValidateAnomalies(inputs, outputs)

	now := time.Now().UTC()
	s.persist(ctx, "upsert outputs", func(ctx context.Context) error {
		return s.storage.SnapshotStore().UpsertOutputs(ctx, &models.CalcOutputs{
			PropertyID: propertyID,
			Outputs:    outputs,
			Anomalies:  anomalies,
			UpdatedAt:  now,
		})
	})
	s.persist(ctx, "append calc log", func(ctx context.Context) error {
		return s.storage.SnapshotStore().AppendLog(ctx, &models.CalcLogEntry{
			ID:          generateSnapshotID("log"),
			PropertyID:  propertyID,
			Inputs:      inputs,
			Outputs:     outputs,
			Anomalies:   anomalies,
			TriggeredBy: triggeredBy,
			TriggerType: triggerType,
			CreatedAt:   now,
		})
	})

	s.logger.Info().
		Str("property_id", propertyID).
		Str("trigger_type", triggerType).
		Int("anomalies", len(anomalies)).
		Msg("Computed derived metrics")

	return &models.CalcResult{Inputs: inputs, Outputs: outputs, Anomalies: anomalies}, nil
}

// WhatIf applies fractional deltas to the current inputs and computes the
// resulting scenario. Each call starts from the live inputs, so repeated
// what-ifs never compound.
func (s *Service) WhatIf(ctx context.Context, propertyID string, deltas map[string]float64, name string) (*models.CalcResult, error) {
	if err := engine.ValidateDeltas(deltas); err != nil {
		return nil, err
	}
	base, err := s.liveInputs(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = "what-if"
	}

	scenario := engine.ApplyDeltas(base, deltas)
	outputs := engine.ComputeDerived(scenario)
	anomalies := engine.ValidateAnomalies(scenario, outputs)

	s.persist(ctx, "insert scenario", func(ctx context.Context) error {
		return s.storage.SnapshotStore().InsertScenario(ctx, &models.ScenarioSnapshot{
			ID:         generateSnapshotID("snap"),
			PropertyID: propertyID,
			Name:       name,
			Deltas:     deltas,
			Outputs:    &outputs,
			CreatedAt:  time.Now().UTC(),
		})
	})

	s.logger.Info().
		Str("property_id", propertyID).
		Str("scenario", name).
		Int("deltas", len(deltas)).
		Msg("Evaluated what-if scenario")

	return &models.CalcResult{Inputs: scenario, Outputs: outputs, Anomalies: anomalies}, nil
}

// SensitivityGrid sweeps precio_venta deltas (rows) against costes_construccion
// deltas (columns) and returns the net_profit surface. Empty vectors fall back
// to the configured defaults.
func (s *Service) SensitivityGrid(ctx context.Context, propertyID string, precioVec, costesVec []float64) (*models.SensitivityGrid, error) {
	if len(precioVec) == 0 {
		precioVec = s.config.Engine.DefaultPrecioVec
	}
	if len(costesVec) == 0 {
		costesVec = s.config.Engine.DefaultCostesVec
	}
	if err := validateVec("precio_vec", precioVec); err != nil {
		return nil, err
	}
	if err := validateVec("costes_vec", costesVec); err != nil {
		return nil, err
	}

	base, err := s.liveInputs(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	grid := &models.SensitivityGrid{
		PrecioVec: precioVec,
		CostesVec: costesVec,
		Grid:      engine.NetProfitGrid(base, precioVec, costesVec),
	}

	s.persist(ctx, "insert scenario", func(ctx context.Context) error {
		return s.storage.SnapshotStore().InsertScenario(ctx, &models.ScenarioSnapshot{
			ID:         generateSnapshotID("snap"),
			PropertyID: propertyID,
			Name:       "sensitivity",
			Grid:       grid,
			CreatedAt:  time.Now().UTC(),
		})
	})

	s.logger.Info().
		Str("property_id", propertyID).
		Int("rows", len(precioVec)).
		Int("cols", len(costesVec)).
		Msg("Computed sensitivity grid")

	return grid, nil
}

// BreakEvenPrecio searches for the sale price that brings net_profit to
// approximately zero. Zero tol/maxIter fall back to configured defaults.
func (s *Service) BreakEvenPrecio(ctx context.Context, propertyID string, tol float64, maxIter int) (*models.BreakEvenResult, error) {
	base, err := s.liveInputs(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if tol <= 0 {
		tol = s.config.Engine.BreakEvenTolerance
	}
	if maxIter <= 0 {
		maxIter = s.config.Engine.BreakEvenMaxIter
	}

	result, err := engine.BreakEvenPrecio(base, tol, maxIter)
	if err != nil {
		return nil, fmt.Errorf("break-even search for %s: %w", propertyID, err)
	}

	s.logger.Info().
		Str("property_id", propertyID).
		Float64("precio_venta", result.PrecioVenta).
		Int("iterations", result.Iterations).
		Msg("Break-even search converged")

	return result, nil
}

// Scenarios lists recent scenario snapshots for a property, newest first.
func (s *Service) Scenarios(ctx context.Context, propertyID string, limit int) ([]*models.ScenarioSnapshot, error) {
	if strings.TrimSpace(propertyID) == "" {
		return nil, fmt.Errorf("property id is required")
	}
	if limit <= 0 || limit > s.config.Engine.ScenarioHistoryLimit {
		limit = s.config.Engine.ScenarioHistoryLimit
	}
	snaps, err := s.storage.SnapshotStore().ListScenarios(ctx, propertyID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios for %s: %w", propertyID, err)
	}
	if snaps == nil {
		snaps = []*models.ScenarioSnapshot{}
	}
	return snaps, nil
}

// persist runs a storage write and swallows any failure. Results must never
// depend on whether audit persistence succeeded.
func (s *Service) persist(ctx context.Context, op string, fn func(context.Context) error) {
	if err := fn(ctx); err != nil {
		s.logger.Warn().Err(err).Str("op", op).Msg("Best-effort persistence failed")
	}
}

func validateVec(name string, vec []float64) error {
	for _, v := range vec {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s contains a non-finite fraction", name)
		}
	}
	return nil
}
