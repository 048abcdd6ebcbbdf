package surrealdb

import (
	"context"
	"fmt"
	"time"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/numeralab/numera/internal/common"
	"github.com/numeralab/numera/internal/interfaces"
	"github.com/numeralab/numera/internal/models"
)

// LineItemStore implements interfaces.LineItemStore using SurrealDB.
// One record per (property, item key): upserts overwrite in place, so the
// store itself enforces last-write-wins.
type LineItemStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

// NewLineItemStore creates a new LineItemStore.
func NewLineItemStore(db *surrealdb.DB, logger *common.Logger) *LineItemStore {
	return &LineItemStore{db: db, logger: logger}
}

func lineItemRecordID(propertyID, itemKey string) string {
	return propertyID + "_" + itemKey
}

func (s *LineItemStore) GetNumbers(ctx context.Context, propertyID string) ([]models.LineItem, error) {
	sql := "SELECT property_id, item_key, amount, updated_at FROM line_item WHERE property_id = $property_id ORDER BY item_key ASC"
	vars := map[string]any{"property_id": propertyID}

	results, err := surrealdb.Query[[]models.LineItem](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to get line items: %w", err)
	}

	items := []models.LineItem{}
	if results != nil && len(*results) > 0 {
		items = append(items, (*results)[0].Result...)
	}
	return items, nil
}

func (s *LineItemStore) SetNumber(ctx context.Context, propertyID, itemKey string, amount *float64) error {
	if itemKey == "" {
		return fmt.Errorf("item key is required")
	}

	sql := `UPSERT $rid SET
		property_id = $property_id, item_key = $item_key,
		amount = $amount, updated_at = $updated_at`
	vars := map[string]any{
		"rid":         surrealmodels.NewRecordID("line_item", lineItemRecordID(propertyID, itemKey)),
		"property_id": propertyID,
		"item_key":    itemKey,
		"amount":      amount,
		"updated_at":  time.Now().UTC(),
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[any](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to set line item after retries: %w", lastErr)
}

func (s *LineItemStore) DeleteNumbers(ctx context.Context, propertyID string) (int, error) {
	type countResult struct {
		Cnt int `json:"cnt"`
	}
	countSQL := "SELECT count() AS cnt FROM line_item WHERE property_id = $property_id GROUP ALL"
	vars := map[string]any{"property_id": propertyID}

	count := 0
	countResults, err := surrealdb.Query[[]countResult](ctx, s.db, countSQL, vars)
	if err == nil && countResults != nil && len(*countResults) > 0 && len((*countResults)[0].Result) > 0 {
		count = (*countResults)[0].Result[0].Cnt
	}

	sql := "DELETE FROM line_item WHERE property_id = $property_id"
	if _, err := surrealdb.Query[any](ctx, s.db, sql, vars); err != nil && !isNotFoundError(err) {
		return 0, fmt.Errorf("failed to delete line items: %w", err)
	}
	return count, nil
}

// Compile-time check
var _ interfaces.LineItemStore = (*LineItemStore)(nil)
