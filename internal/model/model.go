// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// Search source tags carried in the result envelope.
const (
	SourceLocal   = "local-database"
	SourceCatalog = "pokemon-tcg-api"
)

// Card condition vocabulary, best to worst.
const (
	ConditionMint          = "Mint"
	ConditionNearMint      = "Near Mint"
	ConditionExcellent     = "Excellent"
	ConditionGood          = "Good"
	ConditionLightlyPlayed = "Lightly Played"
	ConditionPlayed        = "Played"
	ConditionPoor          = "Poor"
)

// Defaults applied when an add request leaves fields unset.
const (
	DefaultCondition        = ConditionNearMint
	DefaultLanguage         = "en"
	DefaultWishlistPriority = 3
)

// Attack is a single printed attack on a card.
type Attack struct {
	Name                string   `json:"name"`
	Cost                []string `json:"cost"`
	ConvertedEnergyCost int      `json:"convertedEnergyCost"`
	Damage              string   `json:"damage"`
	Text                string   `json:"text"`
}

// TypeValue pairs an elemental type with a modifier, used for weaknesses and resistances.
type TypeValue struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Images holds the two catalog image renditions.
type Images struct {
	Small string `json:"small"`
	Large string `json:"large"`
}

// SetImages holds set symbol/logo URLs.
type SetImages struct {
	Symbol string `json:"symbol"`
	Logo   string `json:"logo"`
}

// Set describes a release batch a Card belongs to.
type Set struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Series       string    `json:"series"`
	PrintedTotal int       `json:"printedTotal"`
	Total        int       `json:"total"`
	ReleaseDate  string    `json:"releaseDate"`
	Images       SetImages `json:"images"`
}

// PriceRange is one pricing bucket in a TCGPlayer snapshot.
type PriceRange struct {
	Low       float64 `json:"low"`
	Mid       float64 `json:"mid"`
	High      float64 `json:"high"`
	Market    float64 `json:"market"`
	DirectLow float64 `json:"directLow,omitempty"`
}

// TCGPlayerPrices is the TCGPlayer market-price snapshot attached to a card.
type TCGPlayerPrices struct {
	URL       string                `json:"url"`
	UpdatedAt string                `json:"updatedAt"`
	Prices    map[string]PriceRange `json:"prices,omitempty"`
}

// CardmarketPrices is the Cardmarket market-price snapshot attached to a card.
type CardmarketPrices struct {
	URL       string             `json:"url"`
	UpdatedAt string             `json:"updatedAt"`
	Prices    map[string]float64 `json:"prices,omitempty"`
}

// Card is an immutable catalog record. Cards are fetched, never locally mutated.
type Card struct {
	ID                     string            `json:"id"`
	Name                   string            `json:"name"`
	Supertype              string            `json:"supertype"`
	Subtypes               []string          `json:"subtypes,omitempty"`
	Level                  string            `json:"level,omitempty"`
	HP                     string            `json:"hp,omitempty"`
	Types                  []string          `json:"types,omitempty"`
	EvolvesFrom            string            `json:"evolvesFrom,omitempty"`
	Rules                  []string          `json:"rules,omitempty"`
	Attacks                []Attack          `json:"attacks,omitempty"`
	Weaknesses             []TypeValue       `json:"weaknesses,omitempty"`
	Resistances            []TypeValue       `json:"resistances,omitempty"`
	RetreatCost            []string          `json:"retreatCost,omitempty"`
	ConvertedRetreatCost   int               `json:"convertedRetreatCost,omitempty"`
	Set                    Set               `json:"set"`
	Number                 string            `json:"number"`
	Artist                 string            `json:"artist,omitempty"`
	Rarity                 string            `json:"rarity"`
	FlavorText             string            `json:"flavorText,omitempty"`
	NationalPokedexNumbers []int             `json:"nationalPokedexNumbers,omitempty"`
	Images                 Images            `json:"images"`
	TCGPlayer              *TCGPlayerPrices  `json:"tcgplayer,omitempty"`
	Cardmarket             *CardmarketPrices `json:"cardmarket,omitempty"`
}

// SearchResult is the uniform envelope produced by every search tier.
type SearchResult struct {
	Success        bool   `json:"success"`
	Cards          []Card `json:"cards"`
	TotalCount     int    `json:"totalCount"`
	Source         string `json:"source"`
	Query          string `json:"query"`
	ProcessingTime int64  `json:"processingTimeMs"`
}

// CollectionItem is a user's owned physical-copy record for a Card.
type CollectionItem struct {
	ID               uuid.UUID  `json:"id"`
	UserID           uuid.UUID  `json:"-"`
	CardID           string     `json:"cardId"`
	Quantity         int        `json:"quantity"`
	Condition        string     `json:"condition"`
	Language         string     `json:"language"`
	IsHolo           bool       `json:"isHolo"`
	IsFirstEdition   bool       `json:"isFirstEdition"`
	IsShadowless     bool       `json:"isShadowless"`
	IsReverseHolo    bool       `json:"isReverseHolo"`
	PurchasePrice    *float64   `json:"purchasePrice,omitempty"`
	PurchaseDate     *time.Time `json:"purchaseDate,omitempty"`
	PurchaseLocation string     `json:"purchaseLocation,omitempty"`
	Notes            string     `json:"notes,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// AddOptions carries the optional fields of an add-to-collection request.
// Zero values fall back to the package defaults (quantity 1, Near Mint, "en").
type AddOptions struct {
	Quantity         int
	Condition        string
	Language         string
	IsHolo           bool
	IsFirstEdition   bool
	IsShadowless     bool
	IsReverseHolo    bool
	PurchasePrice    *float64
	PurchaseDate     *time.Time
	PurchaseLocation string
	Notes            string
}

// WishlistEntry links a user to a Card they want to acquire.
type WishlistEntry struct {
	ID                 uuid.UUID `json:"id"`
	UserID             uuid.UUID `json:"-"`
	CardID             string    `json:"cardId"`
	Priority           int       `json:"priority"`
	MaxPrice           *float64  `json:"maxPrice,omitempty"`
	PreferredCondition string    `json:"preferredCondition"`
	PreferredLanguage  string    `json:"preferredLanguage"`
	Notes              string    `json:"notes,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
}

// WatchlistEntry links a user to a Card they track for price alerts.
type WatchlistEntry struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"-"`
	CardID      string    `json:"cardId"`
	TargetPrice float64   `json:"targetPrice"`
	Condition   string    `json:"condition"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Album is a user-defined named grouping referencing a subset of owned Cards.
// CardCount is derived (count of album_cards), never stored.
type Album struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"-"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsPublic    bool      `json:"isPublic"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	CardCount   int       `json:"cardCount"`
}

// AlbumCard is the join row associating a Card with an Album.
type AlbumCard struct {
	ID      uuid.UUID `json:"id"`
	AlbumID uuid.UUID `json:"albumId"`
	CardID  string    `json:"cardId"`
	AddedAt time.Time `json:"addedAt"`
	Notes   string    `json:"notes,omitempty"`
}

// AlbumCardView is an album card resolved against the owner's collection item
// and the catalog record. Card may be a placeholder when the catalog row is gone.
type AlbumCardView struct {
	Item    CollectionItem `json:"item"`
	Card    Card           `json:"card"`
	AddedAt time.Time      `json:"addedAt"`
	Notes   string         `json:"notes,omitempty"`
}

// CollectionStats is the aggregate rollup for a user's collection.
type CollectionStats struct {
	TotalCards           int     `json:"totalCards"`
	UniqueCards          int     `json:"uniqueCards"`
	TotalValue           float64 `json:"totalValue"`
	SetsCollected        int     `json:"setsCollected"`
	CompletionPercentage float64 `json:"completionPercentage"`
}

// User represents an account. Passwords are stored as Argon2id hashes only.
type User struct {
	ID        uuid.UUID
	Username  string
	PwdHash   []byte
	SaltAuth  []byte
	CreatedAt time.Time
}

// Tokens collects issued access tokens.
type Tokens struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}
