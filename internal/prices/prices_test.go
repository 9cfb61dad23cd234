package prices

import (
	"testing"
	"time"
)

func fixedClock() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func TestCardPrices_Deterministic(t *testing.T) {
	t.Parallel()
	s := NewServiceWithClock(fixedClock)

	a := s.CardPrices("Charizard")
	b := s.CardPrices("Charizard")
	if len(a) == 0 {
		t.Fatalf("no listings")
	}
	if len(a) != len(b) {
		t.Fatalf("listing count changed between calls: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("listing %d differs between calls:\n%+v\n%+v", i, a[i], b[i])
		}
	}
}

func TestCardPrices_SortedAndBounded(t *testing.T) {
	t.Parallel()
	s := NewServiceWithClock(fixedClock)

	listings := s.CardPrices("Pikachu")
	for i := 1; i < len(listings); i++ {
		if listings[i].Price < listings[i-1].Price {
			t.Fatalf("listings not sorted by price: %v then %v", listings[i-1].Price, listings[i].Price)
		}
	}
	for _, l := range listings {
		if l.Price < 1 {
			t.Fatalf("price below floor: %+v", l)
		}
		if l.Seller == "" || l.Condition == "" || l.URL == "" {
			t.Fatalf("incomplete listing: %+v", l)
		}
	}
}

func TestCardPrices_PerPlatformListingCount(t *testing.T) {
	t.Parallel()
	s := NewServiceWithClock(fixedClock)

	counts := map[string]int{}
	for _, l := range s.CardPrices("Mewtwo") {
		counts[l.Platform]++
	}
	for _, platform := range []string{PlatformEbay, PlatformCardmarket, PlatformTCGPlayer} {
		n := counts[platform]
		if n < 2 || n > 4 {
			t.Fatalf("platform %s: want 2..4 listings, got %d", platform, n)
		}
	}
}

func TestBasePriceFromName_KnownCardsRankHigher(t *testing.T) {
	t.Parallel()

	charizard := basePriceFromName("Charizard")
	common := basePriceFromName("Rattata")
	if charizard <= common {
		t.Fatalf("charizard (%v) should price above a common card (%v)", charizard, common)
	}
}

func TestPriceHistory_Shape(t *testing.T) {
	t.Parallel()
	s := NewServiceWithClock(fixedClock)

	history := s.PriceHistory("base1-58", 7)
	if len(history) != 8 {
		t.Fatalf("want 8 points for 7 days, got %d", len(history))
	}
	for i, p := range history {
		if p.Price < 5 {
			t.Fatalf("point %d below floor: %+v", i, p)
		}
		if i > 0 && p.Date.Before(history[i-1].Date) {
			t.Fatalf("history not in chronological order")
		}
	}
	if !history[len(history)-1].Date.Equal(fixedClock()) {
		t.Fatalf("last point should be today, got %v", history[len(history)-1].Date)
	}

	again := s.PriceHistory("base1-58", 7)
	for i := range history {
		if history[i] != again[i] {
			t.Fatalf("history not deterministic at point %d", i)
		}
	}
}
