// Package scan extracts card attributes from OCR'd card text.
package scan

import (
	"regexp"
	"strings"
)

// Result holds the attributes recognized in a block of card text.
// Fields are empty when nothing matched.
type Result struct {
	CardName   string `json:"cardName,omitempty"`
	SetName    string `json:"setName,omitempty"`
	CardNumber string `json:"cardNumber,omitempty"`
}

var cardNumberPattern = regexp.MustCompile(`(\d+)/(\d+)`)

var digitsOnly = regexp.MustCompile(`^\d+$`)

// knownSets are English expansion names recognized in scanned text,
// oldest first.
var knownSets = []string{
	"Base Set", "Jungle", "Fossil", "Team Rocket",
	"Gym Heroes", "Gym Challenge",
	"Neo Genesis", "Neo Discovery", "Neo Destiny", "Neo Revelation",
	"Legendary Collection", "Expedition", "Aquapolis", "Skyridge",
	"Ruby & Sapphire", "Sandstorm", "Dragon", "Team Magma vs Team Aqua",
	"Hidden Legends", "FireRed & LeafGreen", "Team Rocket Returns",
	"Deoxys", "Emerald", "Unseen Forces", "Delta Species", "Legend Maker",
	"Holon Phantoms", "Crystal Guardians", "Dragon Frontiers", "Power Keepers",
	"Diamond & Pearl", "Mysterious Treasures", "Secret Wonders",
	"Great Encounters", "Majestic Dawn", "Legends Awakened", "Stormfront",
	"Platinum", "Rising Rivals", "Supreme Victors", "Arceus",
	"HeartGold & SoulSilver", "Unleashed", "Undaunted", "Triumphant",
	"Call of Legends",
	"Black & White", "Emerging Powers", "Noble Victories", "Next Destinies",
	"Dark Explorers", "Dragons Exalted", "Boundaries Crossed",
	"Plasma Storm", "Plasma Freeze", "Plasma Blast", "Legendary Treasures",
	"XY", "Flashfire", "Furious Fists", "Phantom Forces", "Primal Clash",
	"Roaring Skies", "Ancient Origins", "BREAKthrough", "BREAKpoint",
	"Generations", "Fates Collide", "Steam Siege", "Evolutions",
	"Sun & Moon", "Guardians Rising", "Burning Shadows", "Shining Legends",
	"Crimson Invasion", "Ultra Prism", "Forbidden Light", "Celestial Storm",
	"Dragon Majesty", "Lost Thunder", "Team Up", "Detective Pikachu",
	"Unbroken Bonds", "Unified Minds", "Hidden Fates", "Cosmic Eclipse",
	"Sword & Shield", "Rebel Clash", "Darkness Ablaze", "Champion's Path",
	"Vivid Voltage", "Battle Styles", "Chilling Reign", "Evolving Skies",
	"Celebrations", "Fusion Strike", "Brilliant Stars", "Astral Radiance",
	"Pokémon GO", "Lost Origin", "Silver Tempest",
	"Paldea Evolved", "Obsidian Flames", "Paradox Rift", "Paldean Fates",
}

// Parse scans a block of text for a card name, a printed collector number
// and a known expansion name.
func Parse(text string) Result {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}

	var res Result

	// The card name is usually the first meaningful line. Bare numbers
	// and the game title line are skipped.
	for _, line := range lines {
		if len(line) > 3 && !digitsOnly.MatchString(line) &&
			!strings.Contains(strings.ToLower(line), "pokemon") {
			res.CardName = line
			break
		}
	}

	for _, line := range lines {
		if m := cardNumberPattern.FindString(line); m != "" {
			res.CardNumber = m
			break
		}
	}

outer:
	for _, line := range lines {
		lower := strings.ToLower(line)
		for _, set := range knownSets {
			if strings.Contains(lower, strings.ToLower(set)) {
				res.SetName = set
				break outer
			}
		}
	}

	return res
}
