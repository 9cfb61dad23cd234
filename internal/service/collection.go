package service

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/tcg-tools/cardvault/internal/errs"
	"github.com/tcg-tools/cardvault/internal/model"
	"github.com/tcg-tools/cardvault/internal/repository"
)

// CollectionService defines operations over a user's collection, wishlist and watchlist.
type CollectionService interface {
	// AddToCollection snapshots the card and inserts or accumulates an owned row.
	AddToCollection(ctx context.Context, userID uuid.UUID, card model.Card, opts model.AddOptions) (uuid.UUID, error)
	// GetUserCollection returns all owned rows, newest first.
	GetUserCollection(ctx context.Context, userID uuid.UUID) ([]model.CollectionItem, error)
	// UpdateQuantity sets the quantity of an owned row; zero or less removes it.
	UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error
	// RemoveFromCollection deletes an owned row.
	RemoveFromCollection(ctx context.Context, userID, itemID uuid.UUID) error
	// Stats aggregates collection totals.
	Stats(ctx context.Context, userID uuid.UUID) (model.CollectionStats, error)

	// AddToWishlist records a card the user wants to acquire.
	AddToWishlist(ctx context.Context, userID uuid.UUID, card model.Card, e model.WishlistEntry) (*model.WishlistEntry, error)
	// GetWishlist returns the user's wishlist, highest priority first.
	GetWishlist(ctx context.Context, userID uuid.UUID) ([]model.WishlistEntry, error)
	// RemoveFromWishlist deletes a wishlist entry.
	RemoveFromWishlist(ctx context.Context, userID, id uuid.UUID) error

	// AddToWatchlist records a card tracked for a price target.
	AddToWatchlist(ctx context.Context, userID uuid.UUID, card model.Card, e model.WatchlistEntry) (*model.WatchlistEntry, error)
	// GetWatchlist returns the user's watchlist, newest first.
	GetWatchlist(ctx context.Context, userID uuid.UUID) ([]model.WatchlistEntry, error)
	// RemoveFromWatchlist deletes a watchlist entry.
	RemoveFromWatchlist(ctx context.Context, userID, id uuid.UUID) error
}

type CollectionServiceImpl struct {
	collection repository.CollectionRepository
	wishlist   repository.WishlistRepository
	watchlist  repository.WatchlistRepository
	catalog    repository.CatalogRepository
}

// NewCollectionService constructs CollectionService with required repositories.
func NewCollectionService(
	collection repository.CollectionRepository,
	wishlist repository.WishlistRepository,
	watchlist repository.WatchlistRepository,
	catalog repository.CatalogRepository,
) *CollectionServiceImpl {
	return &CollectionServiceImpl{
		collection: collection,
		wishlist:   wishlist,
		watchlist:  watchlist,
		catalog:    catalog,
	}
}

var validConditions = map[string]bool{
	model.ConditionMint:          true,
	model.ConditionNearMint:      true,
	model.ConditionExcellent:     true,
	model.ConditionGood:          true,
	model.ConditionLightlyPlayed: true,
	model.ConditionPlayed:        true,
	model.ConditionPoor:          true,
}

// ensureSnapshot stores the card and its set locally so collection rows
// always have a referent, even if the catalog record later disappears.
func (s *CollectionServiceImpl) ensureSnapshot(ctx context.Context, card model.Card) error {
	if card.ID == "" {
		return fmt.Errorf("%w: empty card id", errs.ErrValidation)
	}
	if card.Set.ID != "" {
		if err := s.catalog.EnsureSet(ctx, card.Set); err != nil {
			return fmt.Errorf("ensure set %s: %w", card.Set.ID, err)
		}
	}
	if err := s.catalog.EnsureCard(ctx, card); err != nil {
		return fmt.Errorf("ensure card %s: %w", card.ID, err)
	}
	return nil
}

// AddToCollection snapshots the card, then inserts an owned row. Adding a
// card the user already owns in the same condition accumulates quantity.
func (s *CollectionServiceImpl) AddToCollection(
	ctx context.Context, userID uuid.UUID, card model.Card, opts model.AddOptions,
) (uuid.UUID, error) {
	if userID == uuid.Nil {
		return uuid.Nil, errs.ErrAuthRequired
	}
	if opts.Quantity == 0 {
		opts.Quantity = 1
	}
	if opts.Quantity < 0 {
		return uuid.Nil, fmt.Errorf("%w: quantity must be positive", errs.ErrValidation)
	}
	if opts.Condition == "" {
		opts.Condition = model.DefaultCondition
	}
	if !validConditions[opts.Condition] {
		return uuid.Nil, fmt.Errorf("%w: unknown condition %q", errs.ErrValidation, opts.Condition)
	}
	if opts.Language == "" {
		opts.Language = model.DefaultLanguage
	}

	if err := s.ensureSnapshot(ctx, card); err != nil {
		return uuid.Nil, err
	}
	itemID, err := s.collection.AddAccumulate(ctx, userID, card.ID, opts.Quantity, opts.Condition, opts.Language)
	if err != nil {
		return uuid.Nil, err
	}
	if hasDetails(opts) {
		if err := s.collection.UpdateDetails(ctx, userID, itemID, opts); err != nil {
			return uuid.Nil, err
		}
	}
	return itemID, nil
}

func hasDetails(opts model.AddOptions) bool {
	return opts.IsHolo || opts.IsFirstEdition || opts.IsShadowless || opts.IsReverseHolo ||
		opts.PurchasePrice != nil || opts.PurchaseDate != nil ||
		opts.PurchaseLocation != "" || opts.Notes != ""
}

// GetUserCollection returns all owned rows, newest first.
func (s *CollectionServiceImpl) GetUserCollection(ctx context.Context, userID uuid.UUID) ([]model.CollectionItem, error) {
	if userID == uuid.Nil {
		return nil, errs.ErrAuthRequired
	}
	return s.collection.ListByUser(ctx, userID)
}

// UpdateQuantity sets the quantity of an owned row. A quantity of zero or
// less removes the row instead of storing a zero count.
func (s *CollectionServiceImpl) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error {
	if userID == uuid.Nil {
		return errs.ErrAuthRequired
	}
	if quantity <= 0 {
		return s.collection.Delete(ctx, userID, itemID)
	}
	return s.collection.UpdateQuantity(ctx, userID, itemID, quantity)
}

// RemoveFromCollection deletes an owned row.
func (s *CollectionServiceImpl) RemoveFromCollection(ctx context.Context, userID, itemID uuid.UUID) error {
	if userID == uuid.Nil {
		return errs.ErrAuthRequired
	}
	return s.collection.Delete(ctx, userID, itemID)
}

// Stats aggregates collection totals.
func (s *CollectionServiceImpl) Stats(ctx context.Context, userID uuid.UUID) (model.CollectionStats, error) {
	if userID == uuid.Nil {
		return model.CollectionStats{}, errs.ErrAuthRequired
	}
	return s.collection.Stats(ctx, userID)
}

// AddToWishlist records a card the user wants. Priority defaults to 3 and
// must stay within 1..5.
func (s *CollectionServiceImpl) AddToWishlist(
	ctx context.Context, userID uuid.UUID, card model.Card, e model.WishlistEntry,
) (*model.WishlistEntry, error) {
	if userID == uuid.Nil {
		return nil, errs.ErrAuthRequired
	}
	if e.Priority == 0 {
		e.Priority = model.DefaultWishlistPriority
	}
	if e.Priority < 1 || e.Priority > 5 {
		return nil, fmt.Errorf("%w: priority must be between 1 and 5", errs.ErrValidation)
	}
	if e.PreferredCondition == "" {
		e.PreferredCondition = model.DefaultCondition
	}
	if e.PreferredLanguage == "" {
		e.PreferredLanguage = model.DefaultLanguage
	}
	if err := s.ensureSnapshot(ctx, card); err != nil {
		return nil, err
	}
	e.UserID = userID
	e.CardID = card.ID
	if err := s.wishlist.Add(ctx, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// GetWishlist returns the user's wishlist, highest priority first.
func (s *CollectionServiceImpl) GetWishlist(ctx context.Context, userID uuid.UUID) ([]model.WishlistEntry, error) {
	if userID == uuid.Nil {
		return nil, errs.ErrAuthRequired
	}
	return s.wishlist.ListByUser(ctx, userID)
}

// RemoveFromWishlist deletes a wishlist entry.
func (s *CollectionServiceImpl) RemoveFromWishlist(ctx context.Context, userID, id uuid.UUID) error {
	if userID == uuid.Nil {
		return errs.ErrAuthRequired
	}
	return s.wishlist.Delete(ctx, userID, id)
}

// AddToWatchlist records a card tracked for price alerts. A positive target
// price is required.
func (s *CollectionServiceImpl) AddToWatchlist(
	ctx context.Context, userID uuid.UUID, card model.Card, e model.WatchlistEntry,
) (*model.WatchlistEntry, error) {
	if userID == uuid.Nil {
		return nil, errs.ErrAuthRequired
	}
	if e.TargetPrice <= 0 {
		return nil, fmt.Errorf("%w: target price must be positive", errs.ErrValidation)
	}
	if e.Condition == "" {
		e.Condition = model.DefaultCondition
	}
	if err := s.ensureSnapshot(ctx, card); err != nil {
		return nil, err
	}
	e.UserID = userID
	e.CardID = card.ID
	e.Active = true
	if err := s.watchlist.Add(ctx, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// GetWatchlist returns the user's watchlist, newest first.
func (s *CollectionServiceImpl) GetWatchlist(ctx context.Context, userID uuid.UUID) ([]model.WatchlistEntry, error) {
	if userID == uuid.Nil {
		return nil, errs.ErrAuthRequired
	}
	return s.watchlist.ListByUser(ctx, userID)
}

// RemoveFromWatchlist deletes a watchlist entry.
func (s *CollectionServiceImpl) RemoveFromWatchlist(ctx context.Context, userID, id uuid.UUID) error {
	if userID == uuid.Nil {
		return errs.ErrAuthRequired
	}
	return s.watchlist.Delete(ctx, userID, id)
}
