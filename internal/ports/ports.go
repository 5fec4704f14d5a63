package ports

import (
	"context"

	"marketdir/internal/domain"
)

// NameGenerator produces candidate companies for a commodity via a generative
// text service. Returns at most count candidates; a *domain.GenerationError is
// fatal to the current batch attempt.
type NameGenerator interface {
	Generate(ctx context.Context, commodityLabel string, count int) ([]domain.Candidate, error)
}

// BrandSearchHit is one fuzzy search result. The first hit is treated as the
// best match by convention; the upstream applies no further relevance scoring.
type BrandSearchHit struct {
	Name    string
	Domain  string
	IconURL string
}

// BrandLink is a contact or social link attached to a brand record.
type BrandLink struct {
	Name string
	URL  string
}

// Brand is the authoritative record returned by a domain lookup.
type Brand struct {
	Name        string
	Domain      string
	Description string
	Claimed     bool
	LogoURLs    []string
	Colors      []BrandColor
	Links       []BrandLink
}

// BrandColor is one palette entry from the brand source.
type BrandColor struct {
	Hex  string
	Type string // "accent", "brand", ...
}

// BrandLookup resolves company names and domains to brand metadata.
// Transport and decode failures surface as *domain.LookupError; a domain with
// no brand record is (nil, nil), not an error.
type BrandLookup interface {
	SearchByName(ctx context.Context, name string) ([]BrandSearchHit, error)
	LookupDomain(ctx context.Context, domain string) (*Brand, error)
}

// Populator drives a full generate->enrich->dedupe->persist run.
type Populator interface {
	Run(ctx context.Context, commodity string, target int) (domain.RunResult, error)
}
