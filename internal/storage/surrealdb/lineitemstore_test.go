package surrealdb_test

import (
	"context"
	"testing"

	"github.com/numeralab/numera/internal/models"
	"github.com/numeralab/numera/internal/storage/surrealdb"
)

func fp(v float64) *float64 { return &v }

func TestLineItemStore_SetAndGet(t *testing.T) {
	store := surrealdb.NewLineItemStore(testDB(t), testLogger())
	ctx := context.Background()

	if err := store.SetNumber(ctx, "prop-1", models.KeyPrecioVenta, fp(200000)); err != nil {
		t.Fatalf("SetNumber: %v", err)
	}
	if err := store.SetNumber(ctx, "prop-1", models.KeySuperficieM2, nil); err != nil {
		t.Fatalf("SetNumber nil amount: %v", err)
	}
	if err := store.SetNumber(ctx, "prop-2", models.KeyPrecioVenta, fp(50000)); err != nil {
		t.Fatalf("SetNumber other property: %v", err)
	}

	rows, err := store.GetNumbers(ctx, "prop-1")
	if err != nil {
		t.Fatalf("GetNumbers: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}

	m := models.BuildInputMap(rows)
	if v, ok := m.Get(models.KeyPrecioVenta); !ok || v != 200000 {
		t.Errorf("precio_venta = %v (known=%v), want 200000", v, ok)
	}
	if _, known := m.Get(models.KeySuperficieM2); known {
		t.Error("superficie_m2 should round-trip as unknown")
	}
}

func TestLineItemStore_UpsertOverwrites(t *testing.T) {
	store := surrealdb.NewLineItemStore(testDB(t), testLogger())
	ctx := context.Background()

	if err := store.SetNumber(ctx, "prop-1", models.KeyAcometidas, fp(1000)); err != nil {
		t.Fatalf("SetNumber: %v", err)
	}
	if err := store.SetNumber(ctx, "prop-1", models.KeyAcometidas, fp(5000)); err != nil {
		t.Fatalf("SetNumber overwrite: %v", err)
	}

	rows, err := store.GetNumbers(ctx, "prop-1")
	if err != nil {
		t.Fatalf("GetNumbers: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1 (upsert must overwrite)", len(rows))
	}
	if rows[0].Amount == nil || *rows[0].Amount != 5000 {
		t.Errorf("amount = %v, want 5000", rows[0].Amount)
	}
}

func TestLineItemStore_RejectsEmptyKey(t *testing.T) {
	store := surrealdb.NewLineItemStore(testDB(t), testLogger())
	if err := store.SetNumber(context.Background(), "prop-1", "", fp(1)); err == nil {
		t.Error("expected error for empty item key")
	}
}

func TestLineItemStore_DeleteNumbers(t *testing.T) {
	store := surrealdb.NewLineItemStore(testDB(t), testLogger())
	ctx := context.Background()

	for _, key := range []string{models.KeyPrecioVenta, models.KeyAcometidas, models.KeyTerrenosCoste} {
		if err := store.SetNumber(ctx, "prop-1", key, fp(1)); err != nil {
			t.Fatalf("SetNumber %s: %v", key, err)
		}
	}

	n, err := store.DeleteNumbers(ctx, "prop-1")
	if err != nil {
		t.Fatalf("DeleteNumbers: %v", err)
	}
	if n != 3 {
		t.Errorf("deleted = %d, want 3", n)
	}

	rows, err := store.GetNumbers(ctx, "prop-1")
	if err != nil {
		t.Fatalf("GetNumbers after delete: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("rows after delete = %d, want 0", len(rows))
	}

	n, err = store.DeleteNumbers(ctx, "prop-1")
	if err != nil {
		t.Fatalf("DeleteNumbers on empty property: %v", err)
	}
	if n != 0 {
		t.Errorf("deleted = %d, want 0", n)
	}
}
