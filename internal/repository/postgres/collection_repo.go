package postgres

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/tcg-tools/cardvault/internal/errs"
	"github.com/tcg-tools/cardvault/internal/model"
)

// CollectionRepo implements CollectionRepository using PostgreSQL.
type CollectionRepo struct{ db *DB }

// NewCollectionRepo constructs a collection repository.
func NewCollectionRepo(db *DB) *CollectionRepo { return &CollectionRepo{db: db} }

const collectionColumns = `
id, user_id, card_id, quantity, condition, language,
is_holo, is_first_edition, is_shadowless, is_reverse_holo,
purchase_price, purchase_date, purchase_location, notes, created_at`

// AddAccumulate inserts a collection row; a same-condition duplicate adds
// the quantity to the existing row instead of creating a second one.
func (r *CollectionRepo) AddAccumulate(
	ctx context.Context, userID uuid.UUID, cardID string, quantity int, condition, language string,
) (uuid.UUID, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return uuid.Nil, err
	}
	const q = `
INSERT INTO user_collections (id, user_id, card_id, quantity, condition, language)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (user_id, card_id, condition)
DO UPDATE SET quantity = user_collections.quantity + EXCLUDED.quantity
RETURNING id`
	var affected uuid.UUID
	if err := r.db.Pool.QueryRow(ctx, q, id, userID, cardID, quantity, condition, language).Scan(&affected); err != nil {
		return uuid.Nil, err
	}
	return affected, nil
}

// UpdateDetails sets flags, purchase info and notes on an owned row.
func (r *CollectionRepo) UpdateDetails(
	ctx context.Context, userID uuid.UUID, itemID uuid.UUID, opts model.AddOptions,
) error {
	const q = `
UPDATE user_collections
SET is_holo=$3, is_first_edition=$4, is_shadowless=$5, is_reverse_holo=$6,
    purchase_price=$7, purchase_date=$8, purchase_location=$9, notes=$10
WHERE id=$1 AND user_id=$2`
	tag, err := r.db.Pool.Exec(ctx, q, itemID, userID,
		opts.IsHolo, opts.IsFirstEdition, opts.IsShadowless, opts.IsReverseHolo,
		opts.PurchasePrice, opts.PurchaseDate, opts.PurchaseLocation, opts.Notes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// ListByUser returns all collection rows of a user, newest first.
func (r *CollectionRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.CollectionItem, error) {
	const q = `
SELECT` + collectionColumns + `
FROM user_collections
WHERE user_id=$1
ORDER BY created_at DESC`
	rows, err := r.db.Pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.CollectionItem
	for rows.Next() {
		it, err := scanCollectionItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// GetByUserCard returns the newest collection row a user has for a card.
func (r *CollectionRepo) GetByUserCard(ctx context.Context, userID uuid.UUID, cardID string) (*model.CollectionItem, error) {
	const q = `
SELECT` + collectionColumns + `
FROM user_collections
WHERE user_id=$1 AND card_id=$2
ORDER BY created_at DESC
LIMIT 1`
	it, err := scanCollectionItem(r.db.Pool.QueryRow(ctx, q, userID, cardID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &it, nil
}

// UpdateQuantity sets the quantity of an owned row.
func (r *CollectionRepo) UpdateQuantity(ctx context.Context, userID uuid.UUID, itemID uuid.UUID, quantity int) error {
	const q = `
UPDATE user_collections SET quantity=$3 WHERE id=$1 AND user_id=$2`
	tag, err := r.db.Pool.Exec(ctx, q, itemID, userID, quantity)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Delete removes an owned row.
func (r *CollectionRepo) Delete(ctx context.Context, userID uuid.UUID, itemID uuid.UUID) error {
	const q = `
DELETE FROM user_collections WHERE id=$1 AND user_id=$2`
	tag, err := r.db.Pool.Exec(ctx, q, itemID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Stats aggregates collection totals via the get_user_collection_stats function.
func (r *CollectionRepo) Stats(ctx context.Context, userID uuid.UUID) (model.CollectionStats, error) {
	const q = `
SELECT total_cards, unique_cards, total_value, sets_collected, completion_percentage
FROM get_user_collection_stats($1)`
	var st model.CollectionStats
	err := r.db.Pool.QueryRow(ctx, q, userID).Scan(
		&st.TotalCards, &st.UniqueCards, &st.TotalValue, &st.SetsCollected, &st.CompletionPercentage)
	if err != nil {
		return model.CollectionStats{}, err
	}
	return st, nil
}

func scanCollectionItem(row pgx.Row) (model.CollectionItem, error) {
	var it model.CollectionItem
	err := row.Scan(
		&it.ID, &it.UserID, &it.CardID, &it.Quantity, &it.Condition, &it.Language,
		&it.IsHolo, &it.IsFirstEdition, &it.IsShadowless, &it.IsReverseHolo,
		&it.PurchasePrice, &it.PurchaseDate, &it.PurchaseLocation, &it.Notes, &it.CreatedAt)
	return it, err
}
