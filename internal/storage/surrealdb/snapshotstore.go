package surrealdb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/numeralab/numera/internal/common"
	"github.com/numeralab/numera/internal/interfaces"
	"github.com/numeralab/numera/internal/models"
)

// SnapshotStore implements interfaces.SnapshotStore using SurrealDB. It holds
// three tables: calc_outputs (latest state per property), calc_log
// (append-only audit), and scenario_snapshot (what-if and sensitivity runs).
type SnapshotStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

// NewSnapshotStore creates a new SnapshotStore.
func NewSnapshotStore(db *surrealdb.DB, logger *common.Logger) *SnapshotStore {
	return &SnapshotStore{db: db, logger: logger}
}

func (s *SnapshotStore) UpsertOutputs(ctx context.Context, outputs *models.CalcOutputs) error {
	if outputs.PropertyID == "" {
		return fmt.Errorf("property id is required")
	}
	if outputs.UpdatedAt.IsZero() {
		outputs.UpdatedAt = time.Now().UTC()
	}

	sql := "UPSERT $rid CONTENT $record"
	vars := map[string]any{
		"rid":    surrealmodels.NewRecordID("calc_outputs", outputs.PropertyID),
		"record": outputs,
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[any](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to upsert calc outputs after retries: %w", lastErr)
}

func (s *SnapshotStore) GetOutputs(ctx context.Context, propertyID string) (*models.CalcOutputs, error) {
	record, err := surrealdb.Select[models.CalcOutputs](ctx, s.db, surrealmodels.NewRecordID("calc_outputs", propertyID))
	if err != nil {
		if isNotFoundError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get calc outputs: %w", err)
	}
	if record == nil || record.PropertyID == "" {
		return nil, nil
	}
	return record, nil
}

func (s *SnapshotStore) AppendLog(ctx context.Context, entry *models.CalcLogEntry) error {
	if entry.ID == "" {
		entry.ID = fmt.Sprintf("log_%s", uuid.New().String()[:8])
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	sql := `UPSERT $rid SET
		entry_id = $entry_id, property_id = $property_id,
		inputs = $inputs, outputs = $outputs, anomalies = $anomalies,
		triggered_by = $triggered_by, trigger_type = $trigger_type,
		created_at = $created_at`
	vars := map[string]any{
		"rid":          surrealmodels.NewRecordID("calc_log", entry.ID),
		"entry_id":     entry.ID,
		"property_id":  entry.PropertyID,
		"inputs":       entry.Inputs,
		"outputs":      entry.Outputs,
		"anomalies":    entry.Anomalies,
		"triggered_by": entry.TriggeredBy,
		"trigger_type": entry.TriggerType,
		"created_at":   entry.CreatedAt,
	}
	if _, err := surrealdb.Query[any](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to append calc log entry: %w", err)
	}
	return nil
}

func (s *SnapshotStore) InsertScenario(ctx context.Context, snap *models.ScenarioSnapshot) error {
	if snap.ID == "" {
		snap.ID = fmt.Sprintf("snap_%s", uuid.New().String()[:8])
	}
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now().UTC()
	}

	sql := `UPSERT $rid SET
		snapshot_id = $snapshot_id, property_id = $property_id, name = $name,
		deltas = $deltas, outputs = $outputs, grid = $grid,
		created_at = $created_at`
	vars := map[string]any{
		"rid":         surrealmodels.NewRecordID("scenario_snapshot", snap.ID),
		"snapshot_id": snap.ID,
		"property_id": snap.PropertyID,
		"name":        snap.Name,
		"deltas":      snap.Deltas,
		"outputs":     snap.Outputs,
		"grid":        snap.Grid,
		"created_at":  snap.CreatedAt,
	}
	if _, err := surrealdb.Query[any](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to insert scenario snapshot: %w", err)
	}
	return nil
}

func (s *SnapshotStore) ListScenarios(ctx context.Context, propertyID string, limit int) ([]*models.ScenarioSnapshot, error) {
	if limit < 1 {
		limit = 20
	}

	// snapshot_id as tiebreaker for deterministic ordering when timestamps are equal
	sql := `SELECT snapshot_id as id, property_id, name, deltas, outputs, grid, created_at
		FROM scenario_snapshot WHERE property_id = $property_id
		ORDER BY created_at DESC, snapshot_id DESC LIMIT $limit`
	vars := map[string]any{
		"property_id": propertyID,
		"limit":       limit,
	}

	results, err := surrealdb.Query[[]models.ScenarioSnapshot](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenario snapshots: %w", err)
	}

	items := make([]*models.ScenarioSnapshot, 0)
	if results != nil && len(*results) > 0 {
		for i := range (*results)[0].Result {
			items = append(items, &(*results)[0].Result[i])
		}
	}
	return items, nil
}

// Compile-time check
var _ interfaces.SnapshotStore = (*SnapshotStore)(nil)
