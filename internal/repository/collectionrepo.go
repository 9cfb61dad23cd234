package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/tcg-tools/cardvault/internal/model"
)

// CollectionRepository stores per-user owned cards.
type CollectionRepository interface {
	// AddAccumulate inserts a collection row or, when the user already owns
	// the card in the same condition, adds the quantity to the existing row.
	// Returns the ID of the affected row.
	AddAccumulate(ctx context.Context, userID uuid.UUID, cardID string, quantity int, condition, language string) (uuid.UUID, error)
	// UpdateDetails sets flags, purchase info and notes on an owned card.
	UpdateDetails(ctx context.Context, userID uuid.UUID, itemID uuid.UUID, opts model.AddOptions) error
	// ListByUser returns all collection rows of a user, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.CollectionItem, error)
	// GetByUserCard returns the newest collection row a user has for a card.
	GetByUserCard(ctx context.Context, userID uuid.UUID, cardID string) (*model.CollectionItem, error)
	// UpdateQuantity sets the quantity of an owned row.
	UpdateQuantity(ctx context.Context, userID uuid.UUID, itemID uuid.UUID, quantity int) error
	// Delete removes an owned row.
	Delete(ctx context.Context, userID uuid.UUID, itemID uuid.UUID) error
	// Stats aggregates collection totals for a user.
	Stats(ctx context.Context, userID uuid.UUID) (model.CollectionStats, error)
}
