// Package dedupe filters enriched records against the already-persisted set.
// Domain is the primary identity key; display name is the fallback when a
// record has no domain.
package dedupe

import (
	"strings"

	"golang.org/x/net/publicsuffix"

	"marketdir/internal/domain"
	"marketdir/internal/ports"
)

// NormalizeDomain canonicalizes a domain for identity comparison: lowercased,
// trimmed, www-stripped and reduced to the registrable form (eTLD+1) when
// derivable.
func NormalizeDomain(dom string) string {
	dom = strings.ToLower(strings.TrimSpace(dom))
	dom = strings.TrimPrefix(dom, "https://")
	dom = strings.TrimPrefix(dom, "http://")
	dom = strings.TrimPrefix(dom, "www.")
	if i := strings.IndexByte(dom, '/'); i >= 0 {
		dom = dom[:i]
	}
	registrable, err := publicsuffix.EffectiveTLDPlusOne(dom)
	if err != nil {
		return dom
	}
	return registrable
}

// NormalizeName lowercases and trims a display name for the fallback key.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Filter splits records into fresh ones and duplicates. A record matching the
// snapshot by domain, or by name when it has no domain, is a duplicate; so is
// a record matching an earlier record in the same batch. Duplicates are an
// expected outcome, not an error.
func Filter(records []domain.EnrichedCompany, existing ports.Snapshot) (fresh []domain.EnrichedCompany, duplicates int) {
	seenDomains := make(map[string]struct{}, len(records))
	seenNames := make(map[string]struct{}, len(records))

	for _, rec := range records {
		if rec.Domain != nil && *rec.Domain != "" {
			key := NormalizeDomain(*rec.Domain)
			if _, ok := existing.Domains[key]; ok {
				duplicates++
				continue
			}
			if _, ok := seenDomains[key]; ok {
				duplicates++
				continue
			}
			seenDomains[key] = struct{}{}
		} else {
			key := NormalizeName(rec.Name)
			if _, ok := existing.Names[key]; ok {
				duplicates++
				continue
			}
			if _, ok := seenNames[key]; ok {
				duplicates++
				continue
			}
			seenNames[key] = struct{}{}
		}
		fresh = append(fresh, rec)
	}
	return fresh, duplicates
}
