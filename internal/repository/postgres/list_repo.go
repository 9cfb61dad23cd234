package postgres

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/tcg-tools/cardvault/internal/errs"
	"github.com/tcg-tools/cardvault/internal/model"
)

// WishlistRepo implements WishlistRepository using PostgreSQL.
type WishlistRepo struct{ db *DB }

// NewWishlistRepo constructs a wishlist repository.
func NewWishlistRepo(db *DB) *WishlistRepo { return &WishlistRepo{db: db} }

// Add inserts a wishlist entry. A duplicate card yields ErrAlreadyExists.
func (r *WishlistRepo) Add(ctx context.Context, e *model.WishlistEntry) error {
	id, err := uuid.NewV4()
	if err != nil {
		return err
	}
	const q = `
INSERT INTO user_wishlists (id, user_id, card_id, priority, max_price, preferred_condition, preferred_language, notes)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING created_at`
	err = r.db.Pool.QueryRow(ctx, q, id, e.UserID, e.CardID,
		e.Priority, e.MaxPrice, e.PreferredCondition, e.PreferredLanguage, e.Notes).Scan(&e.CreatedAt)
	if isUniqueViolation(err) {
		return errs.ErrAlreadyExists
	}
	if err != nil {
		return err
	}
	e.ID = id
	return nil
}

// ListByUser returns the wishlist of a user, highest priority first.
func (r *WishlistRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.WishlistEntry, error) {
	const q = `
SELECT id, user_id, card_id, priority, max_price, preferred_condition, preferred_language, notes, created_at
FROM user_wishlists
WHERE user_id=$1
ORDER BY priority DESC, created_at DESC`
	rows, err := r.db.Pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.WishlistEntry
	for rows.Next() {
		var e model.WishlistEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.CardID, &e.Priority, &e.MaxPrice,
			&e.PreferredCondition, &e.PreferredLanguage, &e.Notes, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Delete removes a wishlist entry owned by the user.
func (r *WishlistRepo) Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	const q = `
DELETE FROM user_wishlists WHERE id=$1 AND user_id=$2`
	tag, err := r.db.Pool.Exec(ctx, q, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// WatchlistRepo implements WatchlistRepository using PostgreSQL.
type WatchlistRepo struct{ db *DB }

// NewWatchlistRepo constructs a watchlist repository.
func NewWatchlistRepo(db *DB) *WatchlistRepo { return &WatchlistRepo{db: db} }

// Add inserts a watchlist entry. A duplicate card yields ErrAlreadyExists.
func (r *WatchlistRepo) Add(ctx context.Context, e *model.WatchlistEntry) error {
	id, err := uuid.NewV4()
	if err != nil {
		return err
	}
	const q = `
INSERT INTO user_watchlists (id, user_id, card_id, target_price, condition, is_active)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING created_at`
	err = r.db.Pool.QueryRow(ctx, q, id, e.UserID, e.CardID,
		e.TargetPrice, e.Condition, e.Active).Scan(&e.CreatedAt)
	if isUniqueViolation(err) {
		return errs.ErrAlreadyExists
	}
	if err != nil {
		return err
	}
	e.ID = id
	return nil
}

// ListByUser returns the watchlist of a user, newest first.
func (r *WatchlistRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.WatchlistEntry, error) {
	const q = `
SELECT id, user_id, card_id, target_price, condition, is_active, created_at
FROM user_watchlists
WHERE user_id=$1
ORDER BY created_at DESC`
	rows, err := r.db.Pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.WatchlistEntry
	for rows.Next() {
		var e model.WatchlistEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.CardID, &e.TargetPrice,
			&e.Condition, &e.Active, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Delete removes a watchlist entry owned by the user.
func (r *WatchlistRepo) Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	const q = `
DELETE FROM user_watchlists WHERE id=$1 AND user_id=$2`
	tag, err := r.db.Pool.Exec(ctx, q, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}
