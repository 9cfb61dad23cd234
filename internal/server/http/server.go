// Package httpserver exposes the CardVault REST API.
package httpserver

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/tcg-tools/cardvault/internal/localindex"
	"github.com/tcg-tools/cardvault/internal/model"
	"github.com/tcg-tools/cardvault/internal/prices"
	"github.com/tcg-tools/cardvault/internal/service"
)

// Searcher answers card searches and name suggestions.
type Searcher interface {
	Search(ctx context.Context, name, setID string) (model.SearchResult, error)
	Suggest(query string, limit int) []string
	DatasetStats() localindex.Stats
}

// CardCatalog resolves single cards and curated lists from the catalog.
type CardCatalog interface {
	GetCard(ctx context.Context, id string) (*model.Card, error)
	PopularCards(ctx context.Context) (model.SearchResult, error)
	RareCards(ctx context.Context) (model.SearchResult, error)
}

// PriceQuoter synthesizes market price data.
type PriceQuoter interface {
	CardPrices(cardName string) []prices.Listing
	PriceHistory(cardID string, days int) []prices.TrendPoint
}

// Server wires services into HTTP handlers.
type Server struct {
	auth       service.AuthService
	collection service.CollectionService
	albums     service.AlbumService
	search     Searcher
	catalog    CardCatalog
	prices     PriceQuoter
	signKey    []byte
	log        *zap.Logger
}

// New constructs an HTTP server with injected services.
func New(
	auth service.AuthService,
	collection service.CollectionService,
	albums service.AlbumService,
	searcher Searcher,
	catalog CardCatalog,
	quoter PriceQuoter,
	signKey []byte,
	log *zap.Logger,
) *Server {
	return &Server{
		auth:       auth,
		collection: collection,
		albums:     albums,
		search:     searcher,
		catalog:    catalog,
		prices:     quoter,
		signKey:    signKey,
		log:        log,
	}
}

// Routes builds the API router with middleware applied.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(Recover(s.log))
	r.Use(Logging(s.log))

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		r.Get("/cards/search", s.handleCardSearch)
		r.Get("/cards/suggest", s.handleCardSuggest)
		r.Get("/cards/popular", s.handleCardsPopular)
		r.Get("/cards/rare", s.handleCardsRare)
		r.Get("/cards/stats", s.handleCardsStats)
		r.Get("/cards/{id}", s.handleCardGet)

		r.Get("/prices", s.handlePrices)
		r.Get("/prices/history", s.handlePriceHistory)

		r.Group(func(r chi.Router) {
			r.Use(Auth(s.signKey))

			r.Get("/collection", s.handleCollectionList)
			r.Post("/collection", s.handleCollectionAdd)
			r.Get("/collection/stats", s.handleCollectionStats)
			r.Patch("/collection/{id}", s.handleCollectionUpdate)
			r.Delete("/collection/{id}", s.handleCollectionDelete)

			r.Get("/wishlist", s.handleWishlistList)
			r.Post("/wishlist", s.handleWishlistAdd)
			r.Delete("/wishlist/{id}", s.handleWishlistDelete)

			r.Get("/watchlist", s.handleWatchlistList)
			r.Post("/watchlist", s.handleWatchlistAdd)
			r.Delete("/watchlist/{id}", s.handleWatchlistDelete)

			r.Get("/albums", s.handleAlbumList)
			r.Post("/albums", s.handleAlbumCreate)
			r.Patch("/albums/{id}", s.handleAlbumUpdate)
			r.Delete("/albums/{id}", s.handleAlbumDelete)
			r.Get("/albums/{id}/cards", s.handleAlbumCards)
			r.Put("/albums/{id}/cards/{cardID}", s.handleAlbumAddCard)
			r.Delete("/albums/{id}/cards/{cardID}", s.handleAlbumRemoveCard)
		})
	})
	return r
}

// --- Auth ---

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_JSON", "malformed request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION", "username and password are required")
		return
	}
	userID, err := s.auth.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"userId": userID})
}

type loginResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	UserID      string    `json:"userId"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_JSON", "malformed request body")
		return
	}
	tok, u, err := s.auth.LoginWithIP(r.Context(), req.Username, req.Password, r.RemoteAddr)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken: tok.AccessToken,
		ExpiresAt:   tok.ExpiresAt,
		UserID:      u.ID.String(),
	})
}

// --- Cards ---

func (s *Server) handleCardSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION", "query parameter q is required")
		return
	}
	res, err := s.search.Search(r.Context(), q, r.URL.Query().Get("set"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCardSuggest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	suggestions := s.search.Suggest(q, 0)
	if suggestions == nil {
		suggestions = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"suggestions": suggestions})
}

func (s *Server) handleCardsPopular(w http.ResponseWriter, r *http.Request) {
	res, err := s.catalog.PopularCards(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCardsRare(w http.ResponseWriter, r *http.Request) {
	res, err := s.catalog.RareCards(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCardsStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.search.DatasetStats())
}

func (s *Server) handleCardGet(w http.ResponseWriter, r *http.Request) {
	card, err := s.catalog.GetCard(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

// --- Prices ---

func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION", "query parameter name is required")
		return
	}
	listings := s.prices.CardPrices(name)
	writeList(w, listings, len(listings))
}

func (s *Server) handlePriceHistory(w http.ResponseWriter, r *http.Request) {
	cardID := r.URL.Query().Get("cardId")
	if cardID == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION", "query parameter cardId is required")
		return
	}
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	history := s.prices.PriceHistory(cardID, days)
	writeList(w, history, len(history))
}

// --- Collection ---

type addCardRequest struct {
	Card             model.Card `json:"card"`
	Quantity         int        `json:"quantity"`
	Condition        string     `json:"condition"`
	Language         string     `json:"language"`
	IsHolo           bool       `json:"isHolo"`
	IsFirstEdition   bool       `json:"isFirstEdition"`
	IsShadowless     bool       `json:"isShadowless"`
	IsReverseHolo    bool       `json:"isReverseHolo"`
	PurchasePrice    *float64   `json:"purchasePrice"`
	PurchaseDate     *time.Time `json:"purchaseDate"`
	PurchaseLocation string     `json:"purchaseLocation"`
	Notes            string     `json:"notes"`
}

func (s *Server) handleCollectionAdd(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromCtx(r.Context())
	var req addCardRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_JSON", "malformed request body")
		return
	}
	itemID, err := s.collection.AddToCollection(r.Context(), userID, req.Card, model.AddOptions{
		Quantity:         req.Quantity,
		Condition:        req.Condition,
		Language:         req.Language,
		IsHolo:           req.IsHolo,
		IsFirstEdition:   req.IsFirstEdition,
		IsShadowless:     req.IsShadowless,
		IsReverseHolo:    req.IsReverseHolo,
		PurchasePrice:    req.PurchasePrice,
		PurchaseDate:     req.PurchaseDate,
		PurchaseLocation: req.PurchaseLocation,
		Notes:            req.Notes,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"itemId": itemID.String()})
}

func (s *Server) handleCollectionList(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromCtx(r.Context())
	items, err := s.collection.GetUserCollection(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if items == nil {
		items = []model.CollectionItem{}
	}
	writeList(w, items, len(items))
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (s *Server) handleCollectionUpdate(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromCtx(r.Context())
	itemID, err := uuid.FromString(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "bad item id")
		return
	}
	var req updateQuantityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_JSON", "malformed request body")
		return
	}
	if err := s.collection.UpdateQuantity(r.Context(), userID, itemID, req.Quantity); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCollectionDelete(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromCtx(r.Context())
	itemID, err := uuid.FromString(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "bad item id")
		return
	}
	if err := s.collection.RemoveFromCollection(r.Context(), userID, itemID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCollectionStats(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromCtx(r.Context())
	st, err := s.collection.Stats(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// --- Wishlist ---

type wishlistAddRequest struct {
	Card               model.Card `json:"card"`
	Priority           int        `json:"priority"`
	MaxPrice           *float64   `json:"maxPrice"`
	PreferredCondition string     `json:"preferredCondition"`
	PreferredLanguage  string     `json:"preferredLanguage"`
	Notes              string     `json:"notes"`
}

func (s *Server) handleWishlistAdd(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromCtx(r.Context())
	var req wishlistAddRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_JSON", "malformed request body")
		return
	}
	entry, err := s.collection.AddToWishlist(r.Context(), userID, req.Card, model.WishlistEntry{
		Priority:           req.Priority,
		MaxPrice:           req.MaxPrice,
		PreferredCondition: req.PreferredCondition,
		PreferredLanguage:  req.PreferredLanguage,
		Notes:              req.Notes,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleWishlistList(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromCtx(r.Context())
	entries, err := s.collection.GetWishlist(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if entries == nil {
		entries = []model.WishlistEntry{}
	}
	writeList(w, entries, len(entries))
}

func (s *Server) handleWishlistDelete(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromCtx(r.Context())
	id, err := uuid.FromString(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "bad entry id")
		return
	}
	if err := s.collection.RemoveFromWishlist(r.Context(), userID, id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Watchlist ---

type watchlistAddRequest struct {
	Card        model.Card `json:"card"`
	TargetPrice float64    `json:"targetPrice"`
	Condition   string     `json:"condition"`
}

func (s *Server) handleWatchlistAdd(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromCtx(r.Context())
	var req watchlistAddRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_JSON", "malformed request body")
		return
	}
	entry, err := s.collection.AddToWatchlist(r.Context(), userID, req.Card, model.WatchlistEntry{
		TargetPrice: req.TargetPrice,
		Condition:   req.Condition,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleWatchlistList(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromCtx(r.Context())
	entries, err := s.collection.GetWatchlist(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if entries == nil {
		entries = []model.WatchlistEntry{}
	}
	writeList(w, entries, len(entries))
}

func (s *Server) handleWatchlistDelete(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromCtx(r.Context())
	id, err := uuid.FromString(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "bad entry id")
		return
	}
	if err := s.collection.RemoveFromWatchlist(r.Context(), userID, id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Albums ---

type albumRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPublic    bool   `json:"isPublic"`
}

func (s *Server) handleAlbumCreate(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromCtx(r.Context())
	var req albumRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_JSON", "malformed request body")
		return
	}
	album, err := s.albums.CreateAlbum(r.Context(), userID, req.Name, req.Description, req.IsPublic)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, album)
}

func (s *Server) handleAlbumList(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromCtx(r.Context())
	albums, err := s.albums.ListAlbums(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if albums == nil {
		albums = []model.Album{}
	}
	writeList(w, albums, len(albums))
}

func (s *Server) handleAlbumUpdate(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromCtx(r.Context())
	albumID, err := uuid.FromString(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "bad album id")
		return
	}
	var req albumRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_JSON", "malformed request body")
		return
	}
	if err := s.albums.UpdateAlbum(r.Context(), userID, albumID, req.Name, req.Description, req.IsPublic); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAlbumDelete(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromCtx(r.Context())
	albumID, err := uuid.FromString(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "bad album id")
		return
	}
	if err := s.albums.DeleteAlbum(r.Context(), userID, albumID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAlbumCards(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromCtx(r.Context())
	albumID, err := uuid.FromString(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "bad album id")
		return
	}
	views, err := s.albums.Cards(r.Context(), userID, albumID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if views == nil {
		views = []model.AlbumCardView{}
	}
	writeList(w, views, len(views))
}

type albumCardRequest struct {
	Notes string `json:"notes"`
}

func (s *Server) handleAlbumAddCard(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromCtx(r.Context())
	albumID, err := uuid.FromString(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "bad album id")
		return
	}
	var req albumCardRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "BAD_JSON", "malformed request body")
			return
		}
	}
	if err := s.albums.AddCard(r.Context(), userID, albumID, chi.URLParam(r, "cardID"), req.Notes); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAlbumRemoveCard(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromCtx(r.Context())
	albumID, err := uuid.FromString(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "bad album id")
		return
	}
	if err := s.albums.RemoveCard(r.Context(), userID, albumID, chi.URLParam(r, "cardID")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
