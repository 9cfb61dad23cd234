package catalog

import (
	"fmt"

	"github.com/tcg-tools/cardvault/internal/errs"
	"github.com/tcg-tools/cardvault/internal/model"
)

// searchEnvelope is the catalog's list response: {"data": [...], "totalCount": n}.
type searchEnvelope struct {
	Data       []model.Card `json:"data"`
	TotalCount int          `json:"totalCount"`
}

// cardEnvelope is the catalog's single-card response: {"data": {...}}.
type cardEnvelope struct {
	Data *model.Card `json:"data"`
}

// NotFoundError indicates a single-card lookup returned HTTP 404.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("card %q not found", e.ID)
}

// Is makes errors.Is(err, errs.ErrNotFound) hold for catalog 404s.
func (e *NotFoundError) Is(target error) bool {
	return target == errs.ErrNotFound
}

// APIError is a structured error body returned by the catalog API.
type APIError struct {
	Status  int    `json:"status"`
	Details string `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("catalog API error (status %d): %s", e.Status, e.Details)
}

// validCards drops malformed records instead of passing them through.
// The catalog occasionally returns partial rows; anything without an
// identifier and a name is unusable downstream.
func validCards(in []model.Card) []model.Card {
	out := in[:0]
	for _, c := range in {
		if c.ID == "" || c.Name == "" {
			continue
		}
		out = append(out, c)
	}
	return out
}
