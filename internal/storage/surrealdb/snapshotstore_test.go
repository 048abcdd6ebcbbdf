package surrealdb_test

import (
	"context"
	"testing"
	"time"

	"github.com/numeralab/numera/internal/models"
	"github.com/numeralab/numera/internal/storage/surrealdb"
)

func TestSnapshotStore_UpsertAndGetOutputs(t *testing.T) {
	store := surrealdb.NewSnapshotStore(testDB(t), testLogger())
	ctx := context.Background()

	first := &models.CalcOutputs{
		PropertyID: "prop-1",
		Outputs:    models.DerivedOutputs{NetProfit: fp(69000)},
		Anomalies:  []string{},
	}
	if err := store.UpsertOutputs(ctx, first); err != nil {
		t.Fatalf("UpsertOutputs: %v", err)
	}

	second := &models.CalcOutputs{
		PropertyID: "prop-1",
		Outputs:    models.DerivedOutputs{NetProfit: fp(50600)},
		Anomalies:  []string{"net_profit negativo"},
	}
	if err := store.UpsertOutputs(ctx, second); err != nil {
		t.Fatalf("UpsertOutputs overwrite: %v", err)
	}

	got, err := store.GetOutputs(ctx, "prop-1")
	if err != nil {
		t.Fatalf("GetOutputs: %v", err)
	}
	if got == nil {
		t.Fatal("GetOutputs returned nil for stored property")
	}
	if got.Outputs.NetProfit == nil || *got.Outputs.NetProfit != 50600 {
		t.Errorf("net_profit = %v, want 50600 (latest upsert wins)", got.Outputs.NetProfit)
	}
	if len(got.Anomalies) != 1 {
		t.Errorf("anomalies = %v, want one entry", got.Anomalies)
	}
}

func TestSnapshotStore_GetOutputsMissing(t *testing.T) {
	store := surrealdb.NewSnapshotStore(testDB(t), testLogger())

	got, err := store.GetOutputs(context.Background(), "prop-never-computed")
	if err != nil {
		t.Fatalf("GetOutputs: %v", err)
	}
	if got != nil {
		t.Errorf("GetOutputs = %+v, want nil for unknown property", got)
	}
}

func TestSnapshotStore_AppendLog(t *testing.T) {
	store := surrealdb.NewSnapshotStore(testDB(t), testLogger())
	ctx := context.Background()

	entry := &models.CalcLogEntry{
		PropertyID:  "prop-1",
		Inputs:      models.InputMap{models.KeyPrecioVenta: fp(200000)},
		Outputs:     models.DerivedOutputs{},
		Anomalies:   []string{},
		TriggeredBy: "tester",
		TriggerType: "manual",
	}
	if err := store.AppendLog(ctx, entry); err != nil {
		t.Fatalf("AppendLog: %v", err)
	}
	if entry.ID == "" {
		t.Error("AppendLog should assign an ID")
	}
	if entry.CreatedAt.IsZero() {
		t.Error("AppendLog should stamp created_at")
	}
}

func TestSnapshotStore_ScenarioHistory(t *testing.T) {
	store := surrealdb.NewSnapshotStore(testDB(t), testLogger())
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 4; i++ {
		snap := &models.ScenarioSnapshot{
			PropertyID: "prop-1",
			Name:       "downside",
			Deltas:     map[string]float64{models.KeyPrecioVenta: -0.1},
			Outputs:    &models.DerivedOutputs{NetProfit: fp(float64(i))},
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.InsertScenario(ctx, snap); err != nil {
			t.Fatalf("InsertScenario %d: %v", i, err)
		}
	}
	other := &models.ScenarioSnapshot{PropertyID: "prop-2", Name: "other"}
	if err := store.InsertScenario(ctx, other); err != nil {
		t.Fatalf("InsertScenario other property: %v", err)
	}

	snaps, err := store.ListScenarios(ctx, "prop-1", 3)
	if err != nil {
		t.Fatalf("ListScenarios: %v", err)
	}
	if len(snaps) != 3 {
		t.Fatalf("scenarios = %d, want 3 (limit applied)", len(snaps))
	}
	// Newest first.
	if snaps[0].Outputs == nil || *snaps[0].Outputs.NetProfit != 3 {
		t.Errorf("first snapshot net_profit = %v, want 3 (newest first)", snaps[0].Outputs)
	}
	for _, snap := range snaps {
		if snap.PropertyID != "prop-1" {
			t.Errorf("snapshot for %s leaked into prop-1 history", snap.PropertyID)
		}
		if snap.ID == "" {
			t.Error("listed snapshot missing ID")
		}
	}
}
