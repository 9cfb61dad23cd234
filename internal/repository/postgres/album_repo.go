package postgres

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/tcg-tools/cardvault/internal/errs"
	"github.com/tcg-tools/cardvault/internal/model"
)

// AlbumRepo implements AlbumRepository using PostgreSQL.
type AlbumRepo struct{ db *DB }

// NewAlbumRepo constructs an album repository.
func NewAlbumRepo(db *DB) *AlbumRepo { return &AlbumRepo{db: db} }

// Create inserts an album row and fills in generated fields.
func (r *AlbumRepo) Create(ctx context.Context, a *model.Album) error {
	id, err := uuid.NewV4()
	if err != nil {
		return err
	}
	const q = `
INSERT INTO user_albums (id, user_id, name, description, is_public)
VALUES ($1, $2, $3, $4, $5)
RETURNING created_at, updated_at`
	if err := r.db.Pool.QueryRow(ctx, q, id, a.UserID, a.Name, a.Description, a.IsPublic).
		Scan(&a.CreatedAt, &a.UpdatedAt); err != nil {
		return err
	}
	a.ID = id
	return nil
}

// GetByID selects an album with its derived card count.
func (r *AlbumRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Album, error) {
	const q = `
SELECT a.id, a.user_id, a.name, a.description, a.is_public, a.created_at, a.updated_at,
       (SELECT count(*) FROM album_cards ac WHERE ac.album_id = a.id) AS card_count
FROM user_albums a
WHERE a.id=$1`
	var a model.Album
	err := r.db.Pool.QueryRow(ctx, q, id).Scan(
		&a.ID, &a.UserID, &a.Name, &a.Description, &a.IsPublic, &a.CreatedAt, &a.UpdatedAt, &a.CardCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// ListByUser returns all albums of a user with card counts, newest first.
func (r *AlbumRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Album, error) {
	const q = `
SELECT a.id, a.user_id, a.name, a.description, a.is_public, a.created_at, a.updated_at,
       (SELECT count(*) FROM album_cards ac WHERE ac.album_id = a.id) AS card_count
FROM user_albums a
WHERE a.user_id=$1
ORDER BY a.created_at DESC`
	rows, err := r.db.Pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Album
	for rows.Next() {
		var a model.Album
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.Description,
			&a.IsPublic, &a.CreatedAt, &a.UpdatedAt, &a.CardCount); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Update changes name, description and visibility of an album owned by the user.
func (r *AlbumRepo) Update(ctx context.Context, userID uuid.UUID, albumID uuid.UUID, name, description string, isPublic bool) error {
	const q = `
UPDATE user_albums
SET name=$3, description=$4, is_public=$5, updated_at=now()
WHERE id=$1 AND user_id=$2`
	tag, err := r.db.Pool.Exec(ctx, q, albumID, userID, name, description, isPublic)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Delete removes an album and its membership rows in one transaction.
// Collection rows referenced by the album are left untouched.
func (r *AlbumRepo) Delete(ctx context.Context, userID uuid.UUID, albumID uuid.UUID) (err error) {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			err = e
		}
	}()

	const delCards = `DELETE FROM album_cards WHERE album_id=$1`
	const delAlbum = `DELETE FROM user_albums WHERE id=$1 AND user_id=$2`

	if _, err = tx.Exec(ctx, delCards, albumID); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, delAlbum, albumID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// AddCard records a card in an album. A duplicate is a no-op; the returned
// bool reports whether a new row was inserted.
func (r *AlbumRepo) AddCard(ctx context.Context, ac *model.AlbumCard) (bool, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return false, err
	}
	const q = `
INSERT INTO album_cards (id, album_id, card_id, notes)
VALUES ($1, $2, $3, $4)
ON CONFLICT (album_id, card_id) DO NOTHING`
	tag, err := r.db.Pool.Exec(ctx, q, id, ac.AlbumID, ac.CardID, ac.Notes)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}
	ac.ID = id
	return true, nil
}

// RemoveCard removes a card from an album.
func (r *AlbumRepo) RemoveCard(ctx context.Context, albumID uuid.UUID, cardID string) error {
	const q = `
DELETE FROM album_cards WHERE album_id=$1 AND card_id=$2`
	tag, err := r.db.Pool.Exec(ctx, q, albumID, cardID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// ListCards returns the membership rows of an album in insertion order.
func (r *AlbumRepo) ListCards(ctx context.Context, albumID uuid.UUID) ([]model.AlbumCard, error) {
	const q = `
SELECT id, album_id, card_id, added_at, notes
FROM album_cards
WHERE album_id=$1
ORDER BY added_at ASC`
	rows, err := r.db.Pool.Query(ctx, q, albumID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.AlbumCard
	for rows.Next() {
		var ac model.AlbumCard
		if err := rows.Scan(&ac.ID, &ac.AlbumID, &ac.CardID, &ac.AddedAt, &ac.Notes); err != nil {
			return nil, err
		}
		out = append(out, ac)
	}
	return out, rows.Err()
}
