package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tcg-tools/cardvault/internal/errs"
	"github.com/tcg-tools/cardvault/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL, HTTPClient: srv.Client()})
}

func TestSearch_DecodesAndValidates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/cards", r.URL.Path)
		require.Equal(t, `name:"Pikachu"`, r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"data": [
				{"id":"base1-58","name":"Pikachu","supertype":"Pokémon","rarity":"Common"},
				{"id":"","name":"broken record"},
				{"id":"base1-59","name":"Raichu","supertype":"Pokémon","rarity":"Rare"}
			],
			"totalCount": 3
		}`))
	})

	cards, total, err := c.Search(context.Background(), `name:"Pikachu"`, 50)
	require.NoError(t, err)
	require.Equal(t, 3, total)
	// the record without an id is quarantined
	require.Len(t, cards, 2)
	require.Equal(t, "base1-58", cards[0].ID)
}

func TestSearch_SendsAPIKeyHeader(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Api-Key")
		_, _ = w.Write([]byte(`{"data":[],"totalCount":0}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, APIKey: "secret", HTTPClient: srv.Client()})
	_, _, err := c.Search(context.Background(), "name:Mew", 10)
	require.NoError(t, err)
	require.Equal(t, "secret", gotKey)
}

func TestGetCard_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.GetCard(context.Background(), "base1-999")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	require.Equal(t, "base1-999", nf.ID)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestGetCard_OK(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/cards/base1-58", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":{"id":"base1-58","name":"Pikachu","hp":"40"}}`))
	})

	card, err := c.GetCard(context.Background(), "base1-58")
	require.NoError(t, err)
	require.Equal(t, "Pikachu", card.Name)
	require.Equal(t, "40", card.HP)
}

func TestSmartSearch_FallbackChain(t *testing.T) {
	var queries []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		queries = append(queries, q)
		if q == "name:Pikachu" {
			_, _ = w.Write([]byte(`{"data":[{"id":"a","name":"Pikachu"},{"id":"b","name":"Pikachu V"},{"id":"c","name":"Surfing Pikachu"}],"totalCount":3}`))
			return
		}
		_, _ = w.Write([]byte(`{"data":[],"totalCount":0}`))
	})

	res, err := c.SmartSearch(context.Background(), "Pikachu", "", "")
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Len(t, res.Cards, 3)
	require.Equal(t, model.SourceCatalog, res.Source)
	// exact quoted missed, unquoted hit, wildcard never tried
	require.Equal(t, []string{`name:"Pikachu"`, `name:Pikachu`}, queries)
}

func TestSmartSearch_AllMisses_EmptyNotError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[],"totalCount":0}`))
	})

	res, err := c.SmartSearch(context.Background(), "Missingno", "", "")
	require.NoError(t, err)
	require.False(t, res.Success)
	require.Empty(t, res.Cards)
	require.Zero(t, res.TotalCount)
}

func TestSmartSearch_TransportFailure_ReturnsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	c := New(Config{BaseURL: srv.URL, HTTPClient: srv.Client(), Retries: -1})
	srv.Close() // every request now fails at the transport

	res, err := c.SmartSearch(context.Background(), "Pikachu", "", "")
	require.Error(t, err)
	require.True(t, errors.Is(err, errs.ErrUpstream))
	require.False(t, res.Success)
	require.Empty(t, res.Cards)
}

func TestSmartSearch_SetFilterInExactQuery(t *testing.T) {
	var first string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if first == "" {
			first = r.URL.Query().Get("q")
		}
		_, _ = w.Write([]byte(`{"data":[{"id":"base1-4","name":"Charizard"}],"totalCount":1}`))
	})

	res, err := c.SmartSearch(context.Background(), "Charizard", "base1", "4")
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Equal(t, `name:"Charizard" set.id:base1 number:4`, first)
}

func TestDoRequest_APIErrorBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"bad query syntax"}`))
	})

	_, _, err := c.Search(context.Background(), "q:[", 10)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.Status)
	require.Contains(t, apiErr.Details, "bad query syntax")
}
