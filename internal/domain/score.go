package domain

// Fixed quality rubric. Weights sum to 100; the score for a given field-presence
// combination never changes between runs.
const (
	weightName        = 20
	weightDescription = 20
	weightLogo        = 20
	weightWebsite     = 15
	weightContact     = 15
	weightVerified    = 10
)

// QualityScore derives the 0..100 completeness score for an enriched record
// from which fields are populated. Purely a function of its input.
func QualityScore(c EnrichedCompany) int {
	score := 0
	if c.Name != "" {
		score += weightName
	}
	if c.Description != nil && *c.Description != "" {
		score += weightDescription
	}
	if c.LogoURL != nil && *c.LogoURL != "" {
		score += weightLogo
	}
	if c.Website != nil && *c.Website != "" {
		score += weightWebsite
	}
	if c.Email != nil && *c.Email != "" {
		score += weightContact
	}
	if c.Verified {
		score += weightVerified
	}
	return score
}
