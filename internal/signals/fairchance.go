package signals

import (
	"strings"

	"github.com/jonathan/job-matcher/internal/types"
)

// Group names used by the fair-chance tiers.
const (
	GroupKeywords         = "keywords"
	GroupKnownEmployers   = "known_employers"
	GroupHighIndustries   = "high_confidence_industries"
	GroupJobTypes         = "job_types"
	GroupMediumIndustries = "medium_confidence_industries"
)

// FairChanceTiers returns the five tiers used to flag postings from employers likely to
// hire people with criminal records: explicit keywords, known employers, high-confidence
// industries, and job types at high confidence, then medium-confidence industries.
func FairChanceTiers() []Tier {
	return []Tier{
		{Confidence: types.ConfidenceHigh, Groups: []Group{{
			Name:   GroupKeywords,
			Reason: `Detected: "{signal}" in job posting`,
			Terms: []string{
				"fair chance", "second chance", "ban the box", "background friendly",
				"felony friendly", "reentry", "re-entry", "justice impacted",
				"formerly incarcerated", "returning citizens", "fresh start",
				"equal opportunity", "we consider all qualified",
			},
		}}},
		{Confidence: types.ConfidenceHigh, Groups: []Group{{
			Name:   GroupKnownEmployers,
			Reason: "{Signal} is a known Fair Chance employer",
			Terms: []string{
				"dave's killer bread", "greyston bakery", "slack", "jpm", "jpmorgan", "jp morgan",
				"target", "walmart", "home depot", "koch industries", "unilever", "starbucks",
				"whole foods", "uber", "lyft", "pepsico", "coca-cola", "coke", "pepsi",
				"frito-lay", "tyson", "jbs", "smithfield", "perdue", "amazon", "fedex", "ups",
				"dhl", "sysco", "us foods", "aramark", "sodexo", "cintas", "unifirst",
				"grainger", "waste management", "republic services",
			},
		}}},
		{Confidence: types.ConfidenceHigh, Groups: []Group{{
			Name:   GroupHighIndustries,
			Reason: "{Signal} - industry known for fair chance hiring",
			Terms: []string{
				"construction", "general contractor", "roofing", "plumbing", "electrical",
				"hvac", "carpentry", "masonry", "demolition", "excavation", "framing",
				"hospitality", "hotel", "motel", "resort", "casino", "restaurant",
				"food service", "kitchen", "dishwasher", "line cook", "prep cook",
				"warehouse", "warehousing", "fulfillment", "distribution center",
				"landscaping", "lawn care", "groundskeeper", "grounds maintenance",
				"janitorial", "custodian", "cleaning", "housekeeping", "moving", "mover",
				"relocation", "trucking", "cdl driver", "truck driver", "delivery driver",
				"temp agency", "staffing agency", "day labor",
			},
		}}},
		{Confidence: types.ConfidenceHigh, Groups: []Group{{
			Name:   GroupJobTypes,
			Reason: "{Signal} positions are typically fair chance friendly",
			Terms: []string{
				"entry level", "entry-level", "no experience", "will train", "immediate hire",
				"urgent hire", "hiring now", "start immediately", "forklift operator",
				"forklift driver", "material handler", "package handler", "picker", "packer",
				"sorter", "laborer", "general labor", "helper",
			},
		}}},
		{Confidence: types.ConfidenceMedium, Groups: []Group{{
			Name:   GroupMediumIndustries,
			Reason: "{Signal} - often fair chance friendly",
			Terms: []string{
				"it support", "tech support", "help desk", "computer repair", "call center",
				"customer service", "telemarketing", "manufacturing", "assembly", "production",
				"factory", "retail", "grocery", "supermarket", "convenience store",
				"automotive", "mechanic", "auto body", "tire shop", "oil change", "recycling",
				"waste management", "sanitation", "security guard", "security officer",
				"welding", "welder", "fabrication", "painting", "painter", "drywall",
				"flooring", "tile", "carpet installer", "pest control", "exterminator",
				"solar installation", "solar installer", "cable installation", "cable technician",
			},
		}}},
	}
}

var fairChance = MustNewClassifier(FairChanceTiers())

// FairChance returns the shared fair-chance classifier.
func FairChance() *Classifier {
	return fairChance
}

// DetectFairChance classifies a posting from its title, company, and description.
func DetectFairChance(title, company, description string) types.ClassificationResult {
	return fairChance.Classify(FairChanceText(title, company, description))
}

// FairChanceText joins posting fields into the text searched for fair-chance signals.
func FairChanceText(title, company, description string) string {
	return strings.Join([]string{title, company, description}, " ")
}
