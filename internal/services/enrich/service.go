// Package enrich verifies generated candidates against the brand data source
// and turns them into persistence-ready records with a quality score.
package enrich

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"marketdir/internal/domain"
	"marketdir/internal/ports"
	"marketdir/internal/ratelimit"
	"marketdir/internal/services/dedupe"
)

type Service struct {
	brands ports.BrandLookup
	gate   ratelimit.Gate
	log    *zap.Logger
}

func New(brands ports.BrandLookup, gate ratelimit.Gate, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{brands: brands, gate: gate, log: log}
}

// Enrich resolves one candidate. Returns (nil, nil) when the brand source has
// no match at all: unresolved candidates are skipped, never fabricated. The
// inter-candidate rate gate is waited on after every call, success or not.
func (s *Service) Enrich(ctx context.Context, candidate domain.Candidate) (*domain.EnrichedCompany, error) {
	defer func() {
		if s.gate != nil {
			_ = s.gate.Wait(ctx)
		}
	}()

	hit, err := s.bestMatch(ctx, candidate.Name)
	if err != nil {
		return nil, err
	}
	if hit == nil {
		s.log.Debug("candidate unresolved", zap.String("name", candidate.Name))
		return nil, nil
	}

	if hit.Domain == "" {
		// Search hit with no domain: keep the minimal signal rather than
		// discard a confirmed name.
		return s.partialRecord(candidate, hit), nil
	}

	brand, err := s.brands.LookupDomain(ctx, hit.Domain)
	if err != nil || brand == nil {
		if hit.Name != "" && hit.IconURL != "" {
			// Domain is confirmed but the authoritative record is missing or
			// unreachable; a partial record beats no record.
			if err != nil {
				s.log.Warn("detail lookup failed, keeping partial record",
					zap.String("name", candidate.Name),
					zap.String("domain", hit.Domain),
					zap.Error(err))
			} else {
				s.log.Debug("domain has no brand record, keeping partial record",
					zap.String("name", candidate.Name),
					zap.String("domain", hit.Domain))
			}
			return s.partialRecord(candidate, hit), nil
		}
		if err != nil {
			return nil, err
		}
		s.log.Debug("domain has no brand record", zap.String("domain", hit.Domain))
		return nil, nil
	}

	return s.fullRecord(candidate, hit, brand), nil
}

// bestMatch searches the original name first and retries once with the
// legal-suffix-stripped form. The first hit is the best match by convention.
func (s *Service) bestMatch(ctx context.Context, name string) (*ports.BrandSearchHit, error) {
	hits, err := s.brands.SearchByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		normalized := NormalizeName(name)
		if normalized == "" || strings.EqualFold(normalized, name) {
			return nil, nil
		}
		hits, err = s.brands.SearchByName(ctx, normalized)
		if err != nil {
			return nil, err
		}
		if len(hits) == 0 {
			return nil, nil
		}
	}
	return &hits[0], nil
}

func (s *Service) fullRecord(candidate domain.Candidate, hit *ports.BrandSearchHit, brand *ports.Brand) *domain.EnrichedCompany {
	rec := domain.EnrichedCompany{
		Name:        candidate.Name,
		Verified:    brand.Claimed,
		CompanyType: candidate.Type,
		Region:      candidate.Region,
	}
	// Persist the normalized form so the store's uniqueness index sees one
	// spelling per registrable domain.
	dom := dedupe.NormalizeDomain(brand.Domain)
	if dom == "" {
		dom = dedupe.NormalizeDomain(hit.Domain)
	}
	if dom != "" {
		website := "https://" + dom
		rec.Domain = &dom
		rec.Website = &website
	}
	if brand.Description != "" {
		desc := brand.Description
		rec.Description = &desc
	}
	if logo := brand.Logo(); logo != nil {
		rec.LogoURL = logo
	} else if hit.IconURL != "" {
		icon := hit.IconURL
		rec.LogoURL = &icon
	}
	rec.PrimaryColor = brand.PrimaryColor()
	rec.Email = brand.ContactEmail()
	rec.QualityScore = domain.QualityScore(rec)
	return &rec
}

// partialRecord builds the lower-trust record used when only search-hit data
// is available.
func (s *Service) partialRecord(candidate domain.Candidate, hit *ports.BrandSearchHit) *domain.EnrichedCompany {
	rec := domain.EnrichedCompany{
		Name:        candidate.Name,
		CompanyType: candidate.Type,
		Region:      candidate.Region,
	}
	if dom := dedupe.NormalizeDomain(hit.Domain); dom != "" {
		website := "https://" + dom
		rec.Domain = &dom
		rec.Website = &website
	}
	if hit.IconURL != "" {
		icon := hit.IconURL
		rec.LogoURL = &icon
	}
	rec.QualityScore = domain.QualityScore(rec)
	return &rec
}
