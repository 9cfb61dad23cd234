// Package catalog implements the Pokémon TCG API client with rate limiting
// and a multi-strategy name search.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/tcg-tools/cardvault/internal/errs"
	"github.com/tcg-tools/cardvault/internal/model"
)

const (
	defaultBaseURL  = "https://api.pokemontcg.io/v2"
	defaultPageSize = 50

	rateLimitDelay = 100 * time.Millisecond // 10 req/sec
	requestTimeout = 30 * time.Second
	maxRetries     = 3
	initialBackoff = 1 * time.Second
	maxBackoff     = 16 * time.Second
)

// Client is a Pokémon TCG API client. The optional API key raises the
// upstream quota; requests work without one.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	rateLimiter *rate.Limiter
	retries     int
	log         *zap.Logger
}

// Config carries optional Client overrides.
type Config struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Logger     *zap.Logger
	// Retries caps retry attempts after the first request.
	// Zero means the default; negative disables retries.
	Retries int
}

// New constructs a catalog client.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: requestTimeout}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	retries := cfg.Retries
	if retries == 0 {
		retries = maxRetries
	} else if retries < 0 {
		retries = 0
	}
	return &Client{
		httpClient:  cfg.HTTPClient,
		baseURL:     cfg.BaseURL,
		apiKey:      cfg.APIKey,
		rateLimiter: rate.NewLimiter(rate.Every(rateLimitDelay), 1),
		retries:     retries,
		log:         cfg.Logger,
	}
}

// Search runs a raw catalog query expression and returns validated cards.
func (c *Client) Search(ctx context.Context, query string, pageSize int) ([]model.Card, int, error) {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	u := fmt.Sprintf("%s/cards?q=%s&pageSize=%d", c.baseURL, url.QueryEscape(query), pageSize)

	var env searchEnvelope
	if err := c.doRequest(ctx, u, &env); err != nil {
		return nil, 0, fmt.Errorf("search %q: %w", query, err)
	}
	return validCards(env.Data), env.TotalCount, nil
}

// GetCard retrieves a single card by catalog ID. A missing card yields
// *NotFoundError (errs.ErrNotFound), not a transport error.
func (c *Client) GetCard(ctx context.Context, id string) (*model.Card, error) {
	u := fmt.Sprintf("%s/cards/%s", c.baseURL, url.PathEscape(id))

	var env cardEnvelope
	if err := c.doRequest(ctx, u, &env); err != nil {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			return nil, &NotFoundError{ID: id}
		}
		return nil, fmt.Errorf("get card %s: %v: %w", id, err, errs.ErrUpstream)
	}
	if env.Data == nil || env.Data.ID == "" {
		return nil, &NotFoundError{ID: id}
	}
	return env.Data, nil
}

// SmartSearch tries three query strategies in order: exact quoted name
// (optionally narrowed by set and number), then unquoted name, then wildcard
// name. It returns the first non-empty result. All misses produce an empty
// envelope with Success=false and a nil error; transport failures return
// the error alongside the empty envelope so callers can tell the two apart.
func (c *Client) SmartSearch(ctx context.Context, name, setID, number string) (model.SearchResult, error) {
	start := time.Now()
	res := model.SearchResult{
		Source: model.SourceCatalog,
		Query:  "name:" + name,
		Cards:  []model.Card{},
	}

	strategies := []string{}
	if setID != "" || number != "" {
		exact := fmt.Sprintf("name:%q", name)
		if setID != "" {
			exact += " set.id:" + setID
		}
		if number != "" {
			exact += " number:" + number
		}
		strategies = append(strategies, exact)
	} else {
		strategies = append(strategies, fmt.Sprintf("name:%q", name))
	}
	strategies = append(strategies,
		"name:"+name,
		"name:*"+name+"*",
	)

	for _, q := range strategies {
		cards, total, err := c.Search(ctx, q, defaultPageSize)
		if err != nil {
			c.log.Warn("catalog query failed",
				zap.String("query", q),
				zap.Error(err),
			)
			res.ProcessingTime = time.Since(start).Milliseconds()
			return res, fmt.Errorf("smart search: %w", errs.ErrUpstream)
		}
		if len(cards) > 0 {
			res.Success = true
			res.Cards = cards
			res.TotalCount = total
			res.Query = q
			res.ProcessingTime = time.Since(start).Milliseconds()
			return res, nil
		}
	}

	res.ProcessingTime = time.Since(start).Milliseconds()
	return res, nil
}

// PopularCards fetches recent high-value cards: ultra rares, expensive
// holofoils, and the ex/GX/V/VMAX chase cards.
func (c *Client) PopularCards(ctx context.Context) (model.SearchResult, error) {
	const q = `(rarity:"Ultra Rare" OR rarity:"Secret Rare" OR ` +
		`tcgplayer.prices.holofoil.market:[20 TO *] OR ` +
		`name:"*ex" OR name:"*GX" OR name:"*V" OR name:"*VMAX") AND hp:[100 TO *]`
	return c.cannedSearch(ctx, q, "popular-cards", 12)
}

// RareCards fetches recent cards of the rarer print runs.
func (c *Client) RareCards(ctx context.Context) (model.SearchResult, error) {
	const q = `rarity:"Rare Holo" OR rarity:"Ultra Rare" OR rarity:"Secret Rare"`
	return c.cannedSearch(ctx, q, "rare-cards", 10)
}

func (c *Client) cannedSearch(ctx context.Context, q, label string, pageSize int) (model.SearchResult, error) {
	start := time.Now()
	cards, total, err := c.Search(ctx, q, pageSize)
	res := model.SearchResult{
		Source:         model.SourceCatalog,
		Query:          label,
		Cards:          []model.Card{},
		ProcessingTime: time.Since(start).Milliseconds(),
	}
	if err != nil {
		c.log.Warn("catalog query failed", zap.String("query", label), zap.Error(err))
		return res, fmt.Errorf("%s: %w", label, errs.ErrUpstream)
	}
	res.Success = true
	res.Cards = cards
	res.TotalCount = total
	res.ProcessingTime = time.Since(start).Milliseconds()
	return res, nil
}

// doRequest performs a GET with rate limiting and bounded retry.
func (c *Client) doRequest(ctx context.Context, url string, result any) error {
	var lastErr error
	backoff := initialBackoff

	for attempt := 0; attempt <= c.retries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if c.apiKey != "" {
			req.Header.Set("X-Api-Key", c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("http request: %w", err)
			if attempt < c.retries {
				if err := sleepCtx(ctx, backoff); err != nil {
					return err
				}
				backoff = minDuration(backoff*2, maxBackoff)
				continue
			}
			return lastErr
		}

		done, err := c.handleResponse(resp, result)
		if done {
			return err
		}
		lastErr = err

		// 429: honor Retry-After when present, else back off.
		delay := backoff
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if secs, perr := strconv.Atoi(ra); perr == nil {
				delay = time.Duration(secs) * time.Second
			}
		}
		if attempt < c.retries {
			if err := sleepCtx(ctx, delay); err != nil {
				return err
			}
			backoff = minDuration(backoff*2, maxBackoff)
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// handleResponse consumes one response. done=false means the caller should
// retry (rate limited); done=true carries the final outcome.
func (c *Client) handleResponse(resp *http.Response, result any) (done bool, err error) {
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return true, fmt.Errorf("read body: %w", err)
		}
		if err := json.Unmarshal(body, result); err != nil {
			return true, fmt.Errorf("decode response: %w", err)
		}
		return true, nil

	case http.StatusTooManyRequests:
		return false, fmt.Errorf("rate limited (HTTP 429)")

	case http.StatusNotFound:
		return true, &NotFoundError{ID: resp.Request.URL.Path}

	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var apiErr APIError
		if jerr := json.Unmarshal(body, &apiErr); jerr == nil && apiErr.Details != "" {
			apiErr.Status = resp.StatusCode
			return true, &apiErr
		}
		return true, fmt.Errorf("catalog status %d: %s", resp.StatusCode, string(body))
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
