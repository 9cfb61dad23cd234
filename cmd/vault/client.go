package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/tcg-tools/cardvault/internal/localindex"
	"github.com/tcg-tools/cardvault/internal/model"
	"github.com/tcg-tools/cardvault/internal/prices"
)

// apiClient is a thin typed wrapper over the CardVault REST API.
type apiClient struct {
	base  string
	token string
	http  *http.Client
}

func newAPIClient(base, token string) *apiClient {
	return &apiClient{
		base:  base,
		token: token,
		http:  &http.Client{Timeout: 30 * time.Second},
	}
}

type apiError struct {
	Status int
	Code   string
	Msg    string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("server returned %d (%s): %s", e.Status, e.Code, e.Msg)
}

func (c *apiClient) do(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, &buf)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		var e struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return &apiError{Status: resp.StatusCode, Code: e.Error.Code, Msg: e.Error.Message}
	}
	if out != nil && resp.StatusCode != http.StatusNoContent {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c *apiClient) register(ctx context.Context, username, password string) (string, error) {
	var out struct {
		UserID string `json:"userId"`
	}
	err := c.do(ctx, http.MethodPost, "/api/auth/register", credentials{username, password}, &out)
	return out.UserID, err
}

type loginResult struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	UserID      string    `json:"userId"`
}

func (c *apiClient) login(ctx context.Context, username, password string) (loginResult, error) {
	var out loginResult
	err := c.do(ctx, http.MethodPost, "/api/auth/login", credentials{username, password}, &out)
	return out, err
}

func (c *apiClient) searchCards(ctx context.Context, q, set string) (model.SearchResult, error) {
	var out model.SearchResult
	path := "/api/cards/search?q=" + queryEscape(q)
	if set != "" {
		path += "&set=" + queryEscape(set)
	}
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *apiClient) suggest(ctx context.Context, q string) ([]string, error) {
	var out struct {
		Suggestions []string `json:"suggestions"`
	}
	err := c.do(ctx, http.MethodGet, "/api/cards/suggest?q="+queryEscape(q), nil, &out)
	return out.Suggestions, err
}

func (c *apiClient) getCard(ctx context.Context, id string) (*model.Card, error) {
	var out model.Card
	if err := c.do(ctx, http.MethodGet, "/api/cards/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type addCardBody struct {
	Card      model.Card `json:"card"`
	Quantity  int        `json:"quantity,omitempty"`
	Condition string     `json:"condition,omitempty"`
	Language  string     `json:"language,omitempty"`
	Notes     string     `json:"notes,omitempty"`
}

func (c *apiClient) addToCollection(ctx context.Context, body addCardBody) (string, error) {
	var out struct {
		ItemID string `json:"itemId"`
	}
	err := c.do(ctx, http.MethodPost, "/api/collection", body, &out)
	return out.ItemID, err
}

type listEnvelope[T any] struct {
	Success    bool `json:"success"`
	Data       []T  `json:"data"`
	TotalCount int  `json:"totalCount"`
}

func (c *apiClient) listCollection(ctx context.Context) ([]model.CollectionItem, error) {
	var out listEnvelope[model.CollectionItem]
	err := c.do(ctx, http.MethodGet, "/api/collection", nil, &out)
	return out.Data, err
}

func (c *apiClient) updateQuantity(ctx context.Context, itemID string, quantity int) error {
	body := struct {
		Quantity int `json:"quantity"`
	}{quantity}
	return c.do(ctx, http.MethodPatch, "/api/collection/"+itemID, body, nil)
}

func (c *apiClient) removeFromCollection(ctx context.Context, itemID string) error {
	return c.do(ctx, http.MethodDelete, "/api/collection/"+itemID, nil, nil)
}

func (c *apiClient) stats(ctx context.Context) (model.CollectionStats, error) {
	var out model.CollectionStats
	err := c.do(ctx, http.MethodGet, "/api/collection/stats", nil, &out)
	return out, err
}

func (c *apiClient) listAlbums(ctx context.Context) ([]model.Album, error) {
	var out listEnvelope[model.Album]
	err := c.do(ctx, http.MethodGet, "/api/albums", nil, &out)
	return out.Data, err
}

func (c *apiClient) createAlbum(ctx context.Context, name, description string, public bool) (*model.Album, error) {
	body := struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		IsPublic    bool   `json:"isPublic"`
	}{name, description, public}
	var out model.Album
	if err := c.do(ctx, http.MethodPost, "/api/albums", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) addCardToAlbum(ctx context.Context, albumID, cardID, notes string) error {
	body := struct {
		Notes string `json:"notes,omitempty"`
	}{notes}
	return c.do(ctx, http.MethodPut, "/api/albums/"+albumID+"/cards/"+cardID, body, nil)
}

func (c *apiClient) albumCards(ctx context.Context, albumID string) ([]model.AlbumCardView, error) {
	var out listEnvelope[model.AlbumCardView]
	err := c.do(ctx, http.MethodGet, "/api/albums/"+albumID+"/cards", nil, &out)
	return out.Data, err
}

func (c *apiClient) cardPrices(ctx context.Context, name string) ([]prices.Listing, error) {
	var out listEnvelope[prices.Listing]
	err := c.do(ctx, http.MethodGet, "/api/prices?name="+queryEscape(name), nil, &out)
	return out.Data, err
}

func (c *apiClient) datasetStats(ctx context.Context) (localindex.Stats, error) {
	var out localindex.Stats
	err := c.do(ctx, http.MethodGet, "/api/cards/stats", nil, &out)
	return out, err
}
