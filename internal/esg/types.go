// Package esg defines the core vocabulary and data model for the evidence
// discovery and scoring pipeline: pillars, categories, evidence items,
// chunks, signal records, and score results.
package esg

// Pillar is one of the three top-level ESG scoring pillars.
type Pillar string

const (
	PillarE Pillar = "E"
	PillarS Pillar = "S"
	PillarG Pillar = "G"
)

// Pillars lists the pillars in canonical order.
var Pillars = []Pillar{PillarE, PillarS, PillarG}

// Category is a specific ESG topic within a pillar.
type Category string

// Environmental categories.
const (
	CategoryNetZeroCommitment Category = "net_zero_commitment"
	CategoryRenewableEnergy   Category = "renewable_energy"
	CategoryScope12Disclosure Category = "scope_1_2_disclosure"
	CategoryScope3Disclosure  Category = "scope_3_disclosure"
)

// Social categories.
const (
	CategoryDEIProgram          Category = "dei_program"
	CategoryEmployeeWellbeing   Category = "employee_wellbeing"
	CategoryWorkplaceSafety     Category = "workplace_safety"
	CategoryCommunityEngagement Category = "community_engagement"
)

// Governance categories.
const (
	CategoryBoardIndependence    Category = "board_independence"
	CategoryAntiCorruptionPolicy Category = "anti_corruption_policy"
	CategoryWhistleblower        Category = "whistleblower_mechanism"
	CategoryESGOversight         Category = "esg_oversight"
	CategoryEthicsCode           Category = "ethics_code"
)

// categoriesByPillar maps each pillar to its fixed category vocabulary.
var categoriesByPillar = map[Pillar][]Category{
	PillarE: {
		CategoryNetZeroCommitment,
		CategoryRenewableEnergy,
		CategoryScope12Disclosure,
		CategoryScope3Disclosure,
	},
	PillarS: {
		CategoryDEIProgram,
		CategoryEmployeeWellbeing,
		CategoryWorkplaceSafety,
		CategoryCommunityEngagement,
	},
	PillarG: {
		CategoryBoardIndependence,
		CategoryAntiCorruptionPolicy,
		CategoryWhistleblower,
		CategoryESGOversight,
		CategoryEthicsCode,
	},
}

// Categories returns the fixed category vocabulary for a pillar.
func Categories(p Pillar) []Category {
	return categoriesByPillar[p]
}

// ValidCategory reports whether the category belongs to the given pillar.
func ValidCategory(p Pillar, c Category) bool {
	for _, known := range categoriesByPillar[p] {
		if known == c {
			return true
		}
	}

	return false
}

// Polarity classifies the direction of an extracted signal.
type Polarity string

const (
	PolarityPositive Polarity = "positive"
	PolarityNegative Polarity = "negative"
	PolarityNeutral  Polarity = "neutral"
)

// ValidPolarity reports whether s is a recognized polarity value.
func ValidPolarity(s Polarity) bool {
	return s == PolarityPositive || s == PolarityNegative || s == PolarityNeutral
}

// SourceKind identifies the format an evidence item originated from.
type SourceKind string

const (
	SourceHTMLPage      SourceKind = "html_page"
	SourcePDF           SourceKind = "pdf"
	SourceSearchSnippet SourceKind = "search_snippet"
)

// DiscoveredVia identifies the discovery channel for an evidence item.
type DiscoveredVia string

const (
	ViaOnsiteCrawl    DiscoveredVia = "onsite_crawl"
	ViaExternalSearch DiscoveredVia = "external_search"
)
