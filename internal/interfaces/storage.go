// Package interfaces defines service contracts for Numera
package interfaces

import (
	"context"

	"github.com/numeralab/numera/internal/models"
)

// StorageManager coordinates all storage backends
type StorageManager interface {
	// Storage accessors
	LineItemStore() LineItemStore
	SnapshotStore() SnapshotStore

	// Lifecycle
	Close() error
}

// LineItemStore manages the named numeric inputs of a property.
// Amounts are nullable: a stored nil amount means "unknown", not zero.
type LineItemStore interface {
	// GetNumbers returns all line items for a property.
	GetNumbers(ctx context.Context, propertyID string) ([]models.LineItem, error)

	// SetNumber upserts a single line item (last write wins).
	SetNumber(ctx context.Context, propertyID, itemKey string, amount *float64) error

	// DeleteNumbers removes all line items for a property.
	DeleteNumbers(ctx context.Context, propertyID string) (int, error)
}

// SnapshotStore persists computed results and scenario snapshots.
// All writes through this interface are best-effort from the caller's
// perspective: the metrics service logs failures and never propagates them.
type SnapshotStore interface {
	// UpsertOutputs stores the latest computed state, keyed by property.
	UpsertOutputs(ctx context.Context, outputs *models.CalcOutputs) error

	// GetOutputs returns the latest computed state, or nil if never computed.
	GetOutputs(ctx context.Context, propertyID string) (*models.CalcOutputs, error)

	// AppendLog appends an entry to the computation audit log.
	AppendLog(ctx context.Context, entry *models.CalcLogEntry) error

	// InsertScenario stores a named scenario snapshot.
	InsertScenario(ctx context.Context, snap *models.ScenarioSnapshot) error

	// ListScenarios returns the most recent scenario snapshots for a property,
	// newest first, capped at limit.
	ListScenarios(ctx context.Context, propertyID string, limit int) ([]*models.ScenarioSnapshot, error)
}
