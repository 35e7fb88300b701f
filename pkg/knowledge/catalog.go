// Package knowledge holds the bundled plant data used when remote services are
// unavailable: representative plant archetypes, fallback care profiles and the
// keyword advice table for chat.
package knowledge

import (
	"errors"
	"math/rand"

	"plantpal-be/internal/entity"
)

// Archetype is a representative houseplant with a bundled care profile.
type Archetype struct {
	Key               string
	ScientificName    string
	CommonName        string
	ConfidencePercent int
	Care              entity.CareProfile
}

const OfflineNote = "This is an example identification based on common houseplants. For accurate identification, try again when AI services are available."

var ErrEmptyCatalog = errors.New("knowledge catalog has no archetypes")

var archetypes = []Archetype{
	{
		Key:               "broad_leaves_indoor",
		ScientificName:    "Monstera deliciosa",
		CommonName:        "Swiss Cheese Plant",
		ConfidencePercent: 75,
		Care: entity.CareProfile{
			Watering:    "Water when top 1-2 inches of soil are dry, usually every 1-2 weeks",
			Light:       "Bright, indirect light. Avoid direct sunlight",
			Humidity:    "Prefers 50-60% humidity. Mist regularly or use humidity tray",
			Temperature: "65-80°F (18-27°C)",
			Soil:        "Well-draining potting mix with peat or coco coir",
			Fertilizer:  "Monthly during spring and summer with balanced liquid fertilizer",
			Repotting:   "Every 1-2 years in spring when rootbound",
			Tips: []string{
				"Support with moss pole for climbing growth",
				"Wipe leaves weekly to remove dust",
				"Fenestrations (holes) develop with maturity",
				"Prune aerial roots if they become unruly",
			},
		},
	},
	{
		Key:               "succulent_thick_leaves",
		ScientificName:    "Echeveria elegans",
		CommonName:        "Mexican Snow Ball",
		ConfidencePercent: 70,
		Care: entity.CareProfile{
			Watering:    "Water deeply but infrequently, every 10-14 days. Allow soil to dry completely",
			Light:       "Bright, direct sunlight for 6+ hours daily",
			Humidity:    "Low humidity preferred, 30-40%",
			Temperature: "65-75°F (18-24°C)",
			Soil:        "Cactus/succulent mix with excellent drainage",
			Fertilizer:  "Diluted cactus fertilizer monthly during growing season",
			Repotting:   "Every 2-3 years in spring",
			Tips: []string{
				"Water at soil level, avoid getting leaves wet",
				"Provide excellent drainage to prevent root rot",
				"Reduce watering in winter months",
				"Propagate easily from leaf cuttings",
			},
		},
	},
	{
		Key:               "small_green_leaves",
		ScientificName:    "Pothos aureus",
		CommonName:        "Golden Pothos",
		ConfidencePercent: 80,
		Care: entity.CareProfile{
			Watering:    "Water when top inch of soil is dry, usually weekly",
			Light:       "Low to bright, indirect light. Very adaptable",
			Humidity:    "Average household humidity (40-50%)",
			Temperature: "65-75°F (18-24°C)",
			Soil:        "Regular potting mix with good drainage",
			Fertilizer:  "Monthly during growing season",
			Repotting:   "Every 2-3 years when rootbound",
			Tips: []string{
				"Excellent air purifier",
				"Can grow in water or soil",
				"Trim long vines to encourage bushy growth",
				"Very forgiving and low-maintenance",
			},
		},
	},
}

// Catalog picks offline guesses from a fixed list of archetypes.
type Catalog struct {
	archetypes []Archetype
}

func NewCatalog() *Catalog {
	return &Catalog{archetypes: archetypes}
}

// NewCatalogFrom builds a catalog over a custom archetype list.
func NewCatalogFrom(list []Archetype) *Catalog {
	return &Catalog{archetypes: list}
}

func (c *Catalog) Archetypes() []Archetype {
	out := make([]Archetype, len(c.archetypes))
	for i, a := range c.archetypes {
		a.Care = a.Care.Clone()
		out[i] = a
	}
	return out
}

// Guess returns a random plausible archetype marked as an estimate, with a
// confidence between 40 and 69. It does not look at the image.
func (c *Catalog) Guess(rng *rand.Rand) (Archetype, error) {
	if len(c.archetypes) == 0 {
		return Archetype{}, ErrEmptyCatalog
	}

	picked := c.archetypes[rng.Intn(len(c.archetypes))]
	picked.Care = picked.Care.Clone()
	picked.ScientificName += " (estimated)"
	picked.CommonName += " (example)"
	picked.ConfidencePercent = rng.Intn(30) + 40
	return picked, nil
}

// GenericCareProfile is used when care instructions for a species cannot be fetched.
func GenericCareProfile() entity.CareProfile {
	return entity.CareProfile{
		Watering:    "Water when top inch of soil feels dry, usually every 1-2 weeks",
		Light:       "Bright, indirect light works for most houseplants",
		Humidity:    "Average household humidity (40-50%) is adequate",
		Temperature: "65-75°F (18-24°C) is ideal for most plants",
		Soil:        "Well-draining potting mix appropriate for plant type",
		Fertilizer:  "Monthly feeding during spring and summer",
		Repotting:   "Every 1-2 years when plant becomes rootbound",
		Tips: []string{
			"Check soil moisture before watering",
			"Rotate plant weekly for even growth",
			"Remove dead leaves promptly",
			"Monitor for pests regularly",
			"Adjust care based on seasonal changes",
		},
	}
}

// Terminal fallback, shown when the identification chain breaks down entirely.
const (
	UnidentifiedScientificName = "Plant identification unavailable"
	UnidentifiedCommonName     = "General Houseplant"
)

func HouseplantCareProfile() entity.CareProfile {
	return entity.CareProfile{
		Watering:    "Water when top inch of soil feels dry to touch",
		Light:       "Most houseplants prefer bright, indirect light",
		Humidity:    "Average household humidity (40-60%) is suitable for most plants",
		Temperature: "Keep between 65-75°F (18-24°C) for optimal growth",
		Soil:        "Use well-draining potting mix appropriate for plant type",
		Fertilizer:  "Feed monthly during spring and summer growing season",
		Repotting:   "Repot every 1-2 years when plant becomes rootbound",
		Tips: []string{
			"Observe your plant daily for changes in appearance",
			"Check soil moisture before watering",
			"Rotate plant weekly for even light exposure",
			"Remove dead or yellowing leaves promptly",
			"Research your specific plant type for targeted care",
		},
	}
}
