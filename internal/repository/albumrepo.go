package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/tcg-tools/cardvault/internal/model"
)

// AlbumRepository stores user albums and their card membership.
type AlbumRepository interface {
	// Create inserts an album and fills in its generated ID.
	Create(ctx context.Context, a *model.Album) error
	// GetByID loads an album with its card count.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Album, error)
	// ListByUser returns all albums of a user with card counts.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Album, error)
	// Update changes name, description and visibility of an album
	// owned by the user.
	Update(ctx context.Context, userID uuid.UUID, albumID uuid.UUID, name, description string, isPublic bool) error
	// Delete removes an album owned by the user together with its
	// membership rows. Collection rows are left untouched.
	Delete(ctx context.Context, userID uuid.UUID, albumID uuid.UUID) error
	// AddCard records a card in an album. Adding a card that is already
	// present is a no-op; the returned bool reports whether a new row
	// was inserted.
	AddCard(ctx context.Context, ac *model.AlbumCard) (bool, error)
	// RemoveCard removes a card from an album.
	RemoveCard(ctx context.Context, albumID uuid.UUID, cardID string) error
	// ListCards returns the membership rows of an album in insertion order.
	ListCards(ctx context.Context, albumID uuid.UUID) ([]model.AlbumCard, error)
}
