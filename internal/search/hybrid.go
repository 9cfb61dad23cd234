// Package search implements the hybrid local-first, remote-fallback card search.
package search

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/tcg-tools/cardvault/internal/localindex"
	"github.com/tcg-tools/cardvault/internal/model"
)

// LocalIndex is the fast tier: an in-memory name index.
type LocalIndex interface {
	SearchEnvelope(query string) model.SearchResult
	Suggest(query string, limit int) []string
	DatasetStats() localindex.Stats
}

// CatalogSearcher is the slow tier: the remote catalog's fallback-chain search.
type CatalogSearcher interface {
	SmartSearch(ctx context.Context, name, setID, number string) (model.SearchResult, error)
}

// Hybrid prefers local matches and falls back to the catalog only when the
// local index has nothing. The two tiers are strictly either/or; results are
// never merged.
type Hybrid struct {
	local   LocalIndex
	catalog CatalogSearcher
	log     *zap.Logger
}

// New constructs the orchestrator.
func New(local LocalIndex, catalog CatalogSearcher, log *zap.Logger) *Hybrid {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hybrid{local: local, catalog: catalog, log: log}
}

// Search runs the two-tier lookup. A local hit short-circuits: no network
// call is made and the envelope is tagged local-database. On a local miss
// the catalog's fallback chain runs and tags the envelope pokemon-tcg-api.
func (h *Hybrid) Search(ctx context.Context, name, setID string) (model.SearchResult, error) {
	start := time.Now()

	if env := h.local.SearchEnvelope(name); env.TotalCount > 0 {
		h.log.Debug("local index hit",
			zap.String("query", name),
			zap.Int("count", env.TotalCount),
		)
		return env, nil
	}

	h.log.Debug("local index miss, falling back to catalog", zap.String("query", name))
	res, err := h.catalog.SmartSearch(ctx, name, setID, "")
	if err != nil {
		return res, err
	}
	res.ProcessingTime = time.Since(start).Milliseconds()
	return res, nil
}

// Suggest exposes local autocomplete; it never touches the network.
func (h *Hybrid) Suggest(query string, limit int) []string {
	return h.local.Suggest(query, limit)
}

// DatasetStats reports totals over the fast tier's bundled dataset.
func (h *Hybrid) DatasetStats() localindex.Stats {
	return h.local.DatasetStats()
}
