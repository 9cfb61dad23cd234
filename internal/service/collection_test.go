package service

import (
	"context"
	"errors"
	"testing"

	"github.com/gofrs/uuid/v5"

	"github.com/tcg-tools/cardvault/internal/errs"
	"github.com/tcg-tools/cardvault/internal/model"
	"github.com/tcg-tools/cardvault/internal/repository"
)

type fakeCatalog struct {
	sets  map[string]model.Set
	cards map[string]model.Card

	ensureSetCalls  int
	ensureCardCalls int
}

var _ repository.CatalogRepository = (*fakeCatalog)(nil)

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{sets: map[string]model.Set{}, cards: map[string]model.Card{}}
}

func (f *fakeCatalog) EnsureSet(_ context.Context, s model.Set) error {
	f.ensureSetCalls++
	if _, ok := f.sets[s.ID]; !ok {
		f.sets[s.ID] = s
	}
	return nil
}
func (f *fakeCatalog) EnsureCard(_ context.Context, c model.Card) error {
	f.ensureCardCalls++
	if _, ok := f.cards[c.ID]; !ok {
		f.cards[c.ID] = c
	}
	return nil
}
func (f *fakeCatalog) GetCard(_ context.Context, id string) (*model.Card, error) {
	c, ok := f.cards[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &c, nil
}

type fakeCollection struct {
	items []model.CollectionItem

	statsResult model.CollectionStats
}

var _ repository.CollectionRepository = (*fakeCollection)(nil)

func (f *fakeCollection) AddAccumulate(
	_ context.Context, userID uuid.UUID, cardID string, quantity int, condition, language string,
) (uuid.UUID, error) {
	for i := range f.items {
		it := &f.items[i]
		if it.UserID == userID && it.CardID == cardID && it.Condition == condition {
			it.Quantity += quantity
			return it.ID, nil
		}
	}
	it := model.CollectionItem{
		ID:        uuid.Must(uuid.NewV4()),
		UserID:    userID,
		CardID:    cardID,
		Quantity:  quantity,
		Condition: condition,
		Language:  language,
	}
	f.items = append(f.items, it)
	return it.ID, nil
}
func (f *fakeCollection) UpdateDetails(_ context.Context, userID, itemID uuid.UUID, opts model.AddOptions) error {
	for i := range f.items {
		it := &f.items[i]
		if it.ID == itemID && it.UserID == userID {
			it.IsHolo = opts.IsHolo
			it.IsFirstEdition = opts.IsFirstEdition
			it.IsShadowless = opts.IsShadowless
			it.IsReverseHolo = opts.IsReverseHolo
			it.PurchasePrice = opts.PurchasePrice
			it.PurchaseDate = opts.PurchaseDate
			it.PurchaseLocation = opts.PurchaseLocation
			it.Notes = opts.Notes
			return nil
		}
	}
	return errs.ErrNotFound
}
func (f *fakeCollection) ListByUser(_ context.Context, userID uuid.UUID) ([]model.CollectionItem, error) {
	var out []model.CollectionItem
	for _, it := range f.items {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	return out, nil
}
func (f *fakeCollection) GetByUserCard(_ context.Context, userID uuid.UUID, cardID string) (*model.CollectionItem, error) {
	for i := len(f.items) - 1; i >= 0; i-- {
		if f.items[i].UserID == userID && f.items[i].CardID == cardID {
			c := f.items[i]
			return &c, nil
		}
	}
	return nil, errs.ErrNotFound
}
func (f *fakeCollection) UpdateQuantity(_ context.Context, userID, itemID uuid.UUID, quantity int) error {
	for i := range f.items {
		if f.items[i].ID == itemID && f.items[i].UserID == userID {
			f.items[i].Quantity = quantity
			return nil
		}
	}
	return errs.ErrNotFound
}
func (f *fakeCollection) Delete(_ context.Context, userID, itemID uuid.UUID) error {
	for i := range f.items {
		if f.items[i].ID == itemID && f.items[i].UserID == userID {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return errs.ErrNotFound
}
func (f *fakeCollection) Stats(_ context.Context, _ uuid.UUID) (model.CollectionStats, error) {
	return f.statsResult, nil
}

type fakeWishlist struct{ entries []model.WishlistEntry }

var _ repository.WishlistRepository = (*fakeWishlist)(nil)

func (f *fakeWishlist) Add(_ context.Context, e *model.WishlistEntry) error {
	for _, x := range f.entries {
		if x.UserID == e.UserID && x.CardID == e.CardID {
			return errs.ErrAlreadyExists
		}
	}
	e.ID = uuid.Must(uuid.NewV4())
	f.entries = append(f.entries, *e)
	return nil
}
func (f *fakeWishlist) ListByUser(_ context.Context, userID uuid.UUID) ([]model.WishlistEntry, error) {
	var out []model.WishlistEntry
	for _, e := range f.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}
func (f *fakeWishlist) Delete(_ context.Context, userID, id uuid.UUID) error {
	for i := range f.entries {
		if f.entries[i].ID == id && f.entries[i].UserID == userID {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return nil
		}
	}
	return errs.ErrNotFound
}

type fakeWatchlist struct{ entries []model.WatchlistEntry }

var _ repository.WatchlistRepository = (*fakeWatchlist)(nil)

func (f *fakeWatchlist) Add(_ context.Context, e *model.WatchlistEntry) error {
	for _, x := range f.entries {
		if x.UserID == e.UserID && x.CardID == e.CardID {
			return errs.ErrAlreadyExists
		}
	}
	e.ID = uuid.Must(uuid.NewV4())
	f.entries = append(f.entries, *e)
	return nil
}
func (f *fakeWatchlist) ListByUser(_ context.Context, userID uuid.UUID) ([]model.WatchlistEntry, error) {
	var out []model.WatchlistEntry
	for _, e := range f.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}
func (f *fakeWatchlist) Delete(_ context.Context, userID, id uuid.UUID) error {
	for i := range f.entries {
		if f.entries[i].ID == id && f.entries[i].UserID == userID {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return nil
		}
	}
	return errs.ErrNotFound
}

func newCollectionService() (*CollectionServiceImpl, *fakeCollection, *fakeCatalog) {
	coll := &fakeCollection{}
	cat := newFakeCatalog()
	s := NewCollectionService(coll, &fakeWishlist{}, &fakeWatchlist{}, cat)
	return s, coll, cat
}

func charizard() model.Card {
	return model.Card{
		ID:   "base1-4",
		Name: "Charizard",
		Set:  model.Set{ID: "base1", Name: "Base"},
	}
}

func TestCollection_Add_RequiresAuth(t *testing.T) {
	t.Parallel()
	s, _, _ := newCollectionService()

	if _, err := s.AddToCollection(context.Background(), uuid.Nil, charizard(), model.AddOptions{}); !errors.Is(err, errs.ErrAuthRequired) {
		t.Fatalf("want ErrAuthRequired, got %v", err)
	}
}

func TestCollection_Add_SameConditionAccumulates(t *testing.T) {
	t.Parallel()
	s, coll, cat := newCollectionService()
	userID := uuid.Must(uuid.NewV4())
	ctx := context.Background()

	id1, err := s.AddToCollection(ctx, userID, charizard(), model.AddOptions{Quantity: 2})
	if err != nil {
		t.Fatalf("first add: %v", err)
	}
	id2, err := s.AddToCollection(ctx, userID, charizard(), model.AddOptions{Quantity: 3})
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if id1 != id2 {
		t.Fatalf("same condition must hit the same row: %s vs %s", id1, id2)
	}
	if len(coll.items) != 1 || coll.items[0].Quantity != 5 {
		t.Fatalf("want one row with quantity 5, got %+v", coll.items)
	}
	if cat.ensureCardCalls == 0 || cat.ensureSetCalls == 0 {
		t.Fatalf("expected card and set snapshots")
	}

	// a different condition gets its own row
	if _, err := s.AddToCollection(ctx, userID, charizard(), model.AddOptions{Condition: model.ConditionPlayed}); err != nil {
		t.Fatalf("third add: %v", err)
	}
	if len(coll.items) != 2 {
		t.Fatalf("want separate row per condition, got %+v", coll.items)
	}
}

func TestCollection_Add_DefaultsAndValidation(t *testing.T) {
	t.Parallel()
	s, coll, _ := newCollectionService()
	userID := uuid.Must(uuid.NewV4())
	ctx := context.Background()

	if _, err := s.AddToCollection(ctx, userID, charizard(), model.AddOptions{}); err != nil {
		t.Fatalf("add with defaults: %v", err)
	}
	it := coll.items[0]
	if it.Quantity != 1 || it.Condition != model.ConditionNearMint || it.Language != "en" {
		t.Fatalf("defaults not applied: %+v", it)
	}

	if _, err := s.AddToCollection(ctx, userID, charizard(), model.AddOptions{Condition: "Pristine"}); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("want ErrValidation for unknown condition, got %v", err)
	}
	if _, err := s.AddToCollection(ctx, userID, charizard(), model.AddOptions{Quantity: -1}); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("want ErrValidation for negative quantity, got %v", err)
	}
	if _, err := s.AddToCollection(ctx, userID, model.Card{}, model.AddOptions{}); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("want ErrValidation for empty card id, got %v", err)
	}
}

func TestCollection_Add_DetailsStored(t *testing.T) {
	t.Parallel()
	s, coll, _ := newCollectionService()
	userID := uuid.Must(uuid.NewV4())
	price := 99.5

	_, err := s.AddToCollection(context.Background(), userID, charizard(), model.AddOptions{
		IsHolo:        true,
		PurchasePrice: &price,
		Notes:         "binder 1",
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	it := coll.items[0]
	if !it.IsHolo || it.PurchasePrice == nil || it.Notes != "binder 1" {
		t.Fatalf("details not stored: %+v", it)
	}
}

func TestCollection_UpdateQuantity_ZeroRemoves(t *testing.T) {
	t.Parallel()
	s, coll, _ := newCollectionService()
	userID := uuid.Must(uuid.NewV4())
	ctx := context.Background()

	itemID, err := s.AddToCollection(ctx, userID, charizard(), model.AddOptions{Quantity: 4})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := s.UpdateQuantity(ctx, userID, itemID, 2); err != nil {
		t.Fatalf("update: %v", err)
	}
	if coll.items[0].Quantity != 2 {
		t.Fatalf("want quantity 2, got %d", coll.items[0].Quantity)
	}

	if err := s.UpdateQuantity(ctx, userID, itemID, 0); err != nil {
		t.Fatalf("update to zero: %v", err)
	}
	if len(coll.items) != 0 {
		t.Fatalf("zero quantity must remove the row, got %+v", coll.items)
	}
}

func TestCollection_Wishlist_DefaultsAndDuplicates(t *testing.T) {
	t.Parallel()
	s, _, _ := newCollectionService()
	userID := uuid.Must(uuid.NewV4())
	ctx := context.Background()

	e, err := s.AddToWishlist(ctx, userID, charizard(), model.WishlistEntry{})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if e.Priority != model.DefaultWishlistPriority || e.PreferredCondition != model.ConditionNearMint {
		t.Fatalf("defaults not applied: %+v", e)
	}

	if _, err := s.AddToWishlist(ctx, userID, charizard(), model.WishlistEntry{}); !errors.Is(err, errs.ErrAlreadyExists) {
		t.Fatalf("want ErrAlreadyExists, got %v", err)
	}
	if _, err := s.AddToWishlist(ctx, userID, model.Card{ID: "base1-2"}, model.WishlistEntry{Priority: 9}); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("want ErrValidation for priority out of range, got %v", err)
	}
}

func TestCollection_Watchlist_RequiresTargetPrice(t *testing.T) {
	t.Parallel()
	s, _, _ := newCollectionService()
	userID := uuid.Must(uuid.NewV4())
	ctx := context.Background()

	if _, err := s.AddToWatchlist(ctx, userID, charizard(), model.WatchlistEntry{}); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("want ErrValidation without target price, got %v", err)
	}

	e, err := s.AddToWatchlist(ctx, userID, charizard(), model.WatchlistEntry{TargetPrice: 120})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !e.Active || e.Condition != model.ConditionNearMint {
		t.Fatalf("entry defaults not applied: %+v", e)
	}
}
