package repository

import (
	"context"

	"github.com/tcg-tools/cardvault/internal/model"
)

// CatalogRepository snapshots catalog cards and sets into local storage so
// that collection rows always have a card to reference.
type CatalogRepository interface {
	// EnsureSet inserts the set if it is not stored yet.
	EnsureSet(ctx context.Context, s model.Set) error
	// EnsureCard inserts the card if it is not stored yet.
	EnsureCard(ctx context.Context, c model.Card) error
	// GetCard loads a snapshotted card by its catalog ID.
	GetCard(ctx context.Context, id string) (*model.Card, error)
}
