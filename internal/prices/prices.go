// Package prices produces deterministic market price quotes for cards.
// Quotes are synthesized from the card name until real marketplace APIs
// are wired in, so repeated requests for the same card always agree.
package prices

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Platforms quotes are synthesized for.
const (
	PlatformEbay       = "ebay"
	PlatformCardmarket = "cardmarket"
	PlatformTCGPlayer  = "tcgplayer"
)

// Listing is a single synthesized marketplace offer.
type Listing struct {
	Platform  string    `json:"platform"`
	Price     float64   `json:"price"`
	Condition string    `json:"condition"`
	URL       string    `json:"url"`
	Seller    string    `json:"seller"`
	Shipping  float64   `json:"shipping"`
	Timestamp time.Time `json:"timestamp"`
}

// TrendPoint is one entry of a synthesized price history.
type TrendPoint struct {
	Date     time.Time `json:"date"`
	Price    float64   `json:"price"`
	Platform string    `json:"platform"`
}

// Service synthesizes price data. The clock is injectable for tests.
type Service struct {
	now func() time.Time
}

// NewService constructs a price service using the wall clock.
func NewService() *Service { return &Service{now: time.Now} }

// NewServiceWithClock constructs a price service with a fixed clock.
func NewServiceWithClock(now func() time.Time) *Service { return &Service{now: now} }

const priceVariance = 0.3

var listingConditions = []string{
	"Near Mint",
	"Lightly Played",
	"Moderately Played",
	"Heavily Played",
	"Mint",
}

var platformSellers = map[string][]string{
	PlatformEbay:       {"pokemon_cards_pro", "card_collector_99", "tcg_master_shop", "vintage_cards_eu"},
	PlatformCardmarket: {"EU_Cards_Shop", "GermanCardDealer", "FrenchTCG_Store", "CardMarket_Pro"},
	PlatformTCGPlayer:  {"TCG_Direct", "CardKingdom_LLC", "CoolStuffInc", "ChannelFireball"},
}

// CardPrices returns listings for the card across all platforms,
// cheapest first.
func (s *Service) CardPrices(cardName string) []Listing {
	var all []Listing
	for _, platform := range []string{PlatformEbay, PlatformCardmarket, PlatformTCGPlayer} {
		all = append(all, s.platformListings(platform, cardName)...)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Price < all[j].Price })
	return all
}

func (s *Service) platformListings(platform, cardName string) []Listing {
	basePrice := basePriceFromName(cardName)
	nameHash := hashString(cardName)
	numListings := 2 + int(nameHash%3)
	ts := s.now()

	listings := make([]Listing, 0, numListings)
	for i := 0; i < numListings; i++ {
		seed := nameHash + int64(i)*100
		variation := (pseudoRandom(seed) - 0.5) * priceVariance * 2
		price := math.Max(basePrice*(1+variation), 1)

		var shipping float64
		if platform == PlatformCardmarket {
			shipping = pseudoRandom(seed+3)*8 + 2
		} else {
			shipping = pseudoRandom(seed+4) * 5
		}

		listings = append(listings, Listing{
			Platform:  platform,
			Price:     math.Round(price*100) / 100,
			Condition: pickByIndex(listingConditions, seed+1),
			URL:       "https://" + platform + ".com/item/example-" + strconv.Itoa(i),
			Seller:    pickByIndex(platformSellers[platform], seed+2),
			Shipping:  shipping,
			Timestamp: ts,
		})
	}
	sort.Slice(listings, func(i, j int) bool { return listings[i].Price < listings[j].Price })
	return listings
}

// PriceHistory synthesizes a daily average price trail for the card.
func (s *Service) PriceHistory(cardID string, days int) []TrendPoint {
	if days <= 0 {
		days = 30
	}
	now := s.now()
	base := basePriceFromName(cardID)
	seed := hashString(cardID)

	history := make([]TrendPoint, 0, days+1)
	for i := days; i >= 0; i-- {
		variation := (pseudoRandom(seed+int64(i)*7) - 0.5) * 10
		history = append(history, TrendPoint{
			Date:     now.AddDate(0, 0, -i),
			Price:    math.Round(math.Max(base+variation, 5)*100) / 100,
			Platform: "average",
		})
	}
	return history
}

// hashString mirrors the classic djb-style 32-bit string hash, absolute value.
func hashString(s string) int64 {
	var hash int32
	for _, r := range s {
		hash = hash<<5 - hash + int32(r)
	}
	if hash < 0 {
		hash = -hash
	}
	return int64(hash)
}

// pseudoRandom maps a seed to [0,1) with a linear congruential generator.
func pseudoRandom(seed int64) float64 {
	const (
		a = 1664525
		c = 1013904223
		m = int64(1) << 32
	)
	v := (a*seed + c) % m
	if v < 0 {
		v += m
	}
	return float64(v) / float64(m)
}

// basePriceFromName maps well-known card names to a deterministic base price.
func basePriceFromName(cardName string) float64 {
	name := strings.ToLower(cardName)
	variation := pseudoRandom(hashString(name))*10 - 5

	switch {
	case strings.Contains(name, "charizard"):
		return 45 + variation
	case strings.Contains(name, "pikachu"):
		return 25 + variation
	case strings.Contains(name, "mewtwo"):
		return 35 + variation
	case strings.Contains(name, "mew"):
		return 30 + variation
	case strings.Contains(name, "lugia"), strings.Contains(name, "ho-oh"):
		return 40 + variation
	case strings.Contains(name, "rayquaza"), strings.Contains(name, "groudon"), strings.Contains(name, "kyogre"):
		return 35 + variation
	case strings.Contains(name, "ex"), strings.Contains(name, "gx"), strings.Contains(name, "v "):
		return 20 + variation
	case strings.Contains(name, "holo"), strings.Contains(name, "rare"):
		return 15 + variation
	}
	return 5 + variation
}

func pickByIndex(options []string, seed int64) string {
	idx := int(pseudoRandom(seed) * float64(len(options)))
	if idx >= len(options) {
		idx = len(options) - 1
	}
	return options[idx]
}
