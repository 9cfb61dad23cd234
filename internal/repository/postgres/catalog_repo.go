package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tcg-tools/cardvault/internal/errs"
	"github.com/tcg-tools/cardvault/internal/model"
)

// CatalogRepo implements CatalogRepository using PostgreSQL. It keeps a
// local snapshot of every catalog card referenced by collection rows.
type CatalogRepo struct{ db *DB }

// NewCatalogRepo constructs a catalog snapshot repository.
func NewCatalogRepo(db *DB) *CatalogRepo { return &CatalogRepo{db: db} }

// EnsureSet inserts the set unless it is already stored.
func (r *CatalogRepo) EnsureSet(ctx context.Context, s model.Set) error {
	const q = `
INSERT INTO card_sets (id, name, series, printed_total, total, release_date, symbol_url, logo_url)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (id) DO NOTHING`
	_, err := r.db.Pool.Exec(ctx, q,
		s.ID, s.Name, s.Series, s.PrintedTotal, s.Total, s.ReleaseDate, s.Images.Symbol, s.Images.Logo)
	return err
}

// EnsureCard inserts the card unless it is already stored. The full catalog
// record is kept as a jsonb payload next to the queryable columns.
func (r *CatalogRepo) EnsureCard(ctx context.Context, c model.Card) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal card %s: %w", c.ID, err)
	}
	var setID any
	if c.Set.ID != "" {
		setID = c.Set.ID
	}
	const q = `
INSERT INTO cards (id, name, supertype, subtypes, hp, types, set_id, number, rarity, artist, image_small, image_large, payload)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
ON CONFLICT (id) DO NOTHING`
	_, err = r.db.Pool.Exec(ctx, q,
		c.ID, c.Name, c.Supertype, c.Subtypes, c.HP, c.Types, setID,
		c.Number, c.Rarity, c.Artist, c.Images.Small, c.Images.Large, payload)
	return err
}

// GetCard loads a snapshotted card.
func (r *CatalogRepo) GetCard(ctx context.Context, id string) (*model.Card, error) {
	const q = `SELECT payload FROM cards WHERE id=$1`
	var payload []byte
	if err := r.db.Pool.QueryRow(ctx, q, id).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	var c model.Card
	if err := json.Unmarshal(payload, &c); err != nil {
		return nil, fmt.Errorf("unmarshal card %s: %w", id, err)
	}
	return &c, nil
}
