package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/tcg-tools/cardvault/internal/model"
)

// WishlistRepository stores cards a user wants to acquire.
type WishlistRepository interface {
	// Add inserts a wishlist entry and fills in its generated ID.
	Add(ctx context.Context, e *model.WishlistEntry) error
	// ListByUser returns the wishlist of a user, highest priority first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.WishlistEntry, error)
	// Delete removes a wishlist entry owned by the user.
	Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error
}

// WatchlistRepository stores cards a user tracks for price targets.
type WatchlistRepository interface {
	// Add inserts a watchlist entry and fills in its generated ID.
	Add(ctx context.Context, e *model.WatchlistEntry) error
	// ListByUser returns the watchlist of a user, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.WatchlistEntry, error)
	// Delete removes a watchlist entry owned by the user.
	Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error
}
