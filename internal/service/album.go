package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/tcg-tools/cardvault/internal/errs"
	"github.com/tcg-tools/cardvault/internal/model"
	"github.com/tcg-tools/cardvault/internal/repository"
)

// AlbumService defines operations over user albums.
type AlbumService interface {
	// CreateAlbum creates a named album for the user.
	CreateAlbum(ctx context.Context, userID uuid.UUID, name, description string, isPublic bool) (*model.Album, error)
	// ListAlbums returns the user's albums with card counts.
	ListAlbums(ctx context.Context, userID uuid.UUID) ([]model.Album, error)
	// UpdateAlbum changes name, description and visibility.
	UpdateAlbum(ctx context.Context, userID, albumID uuid.UUID, name, description string, isPublic bool) error
	// DeleteAlbum removes an album. Collection rows stay untouched.
	DeleteAlbum(ctx context.Context, userID, albumID uuid.UUID) error
	// AddCard places an owned card into an album. Duplicates are a no-op.
	AddCard(ctx context.Context, userID, albumID uuid.UUID, cardID, notes string) error
	// RemoveCard removes a card from an album.
	RemoveCard(ctx context.Context, userID, albumID uuid.UUID, cardID string) error
	// Cards resolves the album's content against the owner's collection
	// and the catalog snapshot. Public albums are readable by anyone.
	Cards(ctx context.Context, requesterID, albumID uuid.UUID) ([]model.AlbumCardView, error)
}

type AlbumServiceImpl struct {
	albums     repository.AlbumRepository
	collection repository.CollectionRepository
	catalog    repository.CatalogRepository
}

// NewAlbumService constructs AlbumService with required repositories.
func NewAlbumService(
	albums repository.AlbumRepository,
	collection repository.CollectionRepository,
	catalog repository.CatalogRepository,
) *AlbumServiceImpl {
	return &AlbumServiceImpl{albums: albums, collection: collection, catalog: catalog}
}

// CreateAlbum creates a named album for the user.
func (s *AlbumServiceImpl) CreateAlbum(ctx context.Context, userID uuid.UUID, name, description string, isPublic bool) (*model.Album, error) {
	if userID == uuid.Nil {
		return nil, errs.ErrAuthRequired
	}
	if name == "" {
		return nil, fmt.Errorf("%w: album name is required", errs.ErrValidation)
	}
	a := &model.Album{
		UserID:      userID,
		Name:        name,
		Description: description,
		IsPublic:    isPublic,
	}
	if err := s.albums.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// ListAlbums returns the user's albums with card counts.
func (s *AlbumServiceImpl) ListAlbums(ctx context.Context, userID uuid.UUID) ([]model.Album, error) {
	if userID == uuid.Nil {
		return nil, errs.ErrAuthRequired
	}
	return s.albums.ListByUser(ctx, userID)
}

// UpdateAlbum changes name, description and visibility of an owned album.
func (s *AlbumServiceImpl) UpdateAlbum(ctx context.Context, userID, albumID uuid.UUID, name, description string, isPublic bool) error {
	if userID == uuid.Nil {
		return errs.ErrAuthRequired
	}
	if name == "" {
		return fmt.Errorf("%w: album name is required", errs.ErrValidation)
	}
	return s.albums.Update(ctx, userID, albumID, name, description, isPublic)
}

// DeleteAlbum removes an owned album together with its membership rows.
func (s *AlbumServiceImpl) DeleteAlbum(ctx context.Context, userID, albumID uuid.UUID) error {
	if userID == uuid.Nil {
		return errs.ErrAuthRequired
	}
	return s.albums.Delete(ctx, userID, albumID)
}

// ownedAlbum loads an album and verifies the user owns it. Non-owned albums
// are reported as not found.
func (s *AlbumServiceImpl) ownedAlbum(ctx context.Context, userID, albumID uuid.UUID) (*model.Album, error) {
	a, err := s.albums.GetByID(ctx, albumID)
	if err != nil {
		return nil, err
	}
	if a.UserID != userID {
		return nil, errs.ErrNotFound
	}
	return a, nil
}

// AddCard places a card the user owns into an album. Adding the same card
// twice leaves the album unchanged.
func (s *AlbumServiceImpl) AddCard(ctx context.Context, userID, albumID uuid.UUID, cardID, notes string) error {
	if userID == uuid.Nil {
		return errs.ErrAuthRequired
	}
	if cardID == "" {
		return fmt.Errorf("%w: empty card id", errs.ErrValidation)
	}
	if _, err := s.ownedAlbum(ctx, userID, albumID); err != nil {
		return err
	}
	if _, err := s.collection.GetByUserCard(ctx, userID, cardID); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return fmt.Errorf("%w: card %s is not in the collection", errs.ErrValidation, cardID)
		}
		return err
	}
	_, err := s.albums.AddCard(ctx, &model.AlbumCard{AlbumID: albumID, CardID: cardID, Notes: notes})
	return err
}

// RemoveCard removes a card from an owned album.
func (s *AlbumServiceImpl) RemoveCard(ctx context.Context, userID, albumID uuid.UUID, cardID string) error {
	if userID == uuid.Nil {
		return errs.ErrAuthRequired
	}
	if _, err := s.ownedAlbum(ctx, userID, albumID); err != nil {
		return err
	}
	return s.albums.RemoveCard(ctx, albumID, cardID)
}

// Cards resolves album membership into card views. The requester must own
// the album unless it is public. Cards the owner no longer has in the
// collection are skipped; a missing catalog snapshot yields a placeholder.
func (s *AlbumServiceImpl) Cards(ctx context.Context, requesterID, albumID uuid.UUID) ([]model.AlbumCardView, error) {
	a, err := s.albums.GetByID(ctx, albumID)
	if err != nil {
		return nil, err
	}
	if a.UserID != requesterID && !a.IsPublic {
		return nil, errs.ErrNotFound
	}

	members, err := s.albums.ListCards(ctx, albumID)
	if err != nil {
		return nil, err
	}
	views := make([]model.AlbumCardView, 0, len(members))
	for _, m := range members {
		item, err := s.collection.GetByUserCard(ctx, a.UserID, m.CardID)
		if err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				continue
			}
			return nil, err
		}
		card, err := s.catalog.GetCard(ctx, m.CardID)
		if err != nil {
			if !errors.Is(err, errs.ErrNotFound) {
				return nil, err
			}
			card = placeholderCard(m.CardID)
		}
		views = append(views, model.AlbumCardView{
			Item:    *item,
			Card:    *card,
			AddedAt: m.AddedAt,
			Notes:   m.Notes,
		})
	}
	return views, nil
}

// placeholderCard stands in for a card whose catalog snapshot is gone.
func placeholderCard(cardID string) *model.Card {
	return &model.Card{
		ID:     cardID,
		Name:   "Unknown Card",
		Rarity: "Unknown",
	}
}
