package dedupe

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"marketdir/internal/domain"
	"marketdir/internal/ports"
)

func str(s string) *string { return &s }

func snapshot(domains, names []string) ports.Snapshot {
	snap := ports.Snapshot{
		Domains: make(map[string]struct{}),
		Names:   make(map[string]struct{}),
	}
	for _, d := range domains {
		snap.Domains[d] = struct{}{}
	}
	for _, n := range names {
		snap.Names[n] = struct{}{}
	}
	return snap
}

func TestNormalizeDomain(t *testing.T) {
	cases := map[string]string{
		"barrick.com":               "barrick.com",
		"  Barrick.COM ":            "barrick.com",
		"www.barrick.com":           "barrick.com",
		"https://www.barrick.com/x": "barrick.com",
		"investors.barrick.com":     "barrick.com",
		"acme.co.uk":                "acme.co.uk",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeDomain(in), "input %q", in)
	}
}

func TestFilterDomainPriority(t *testing.T) {
	// Same domain, different display name: still a duplicate.
	existing := snapshot([]string{"acme.com"}, nil)
	fresh, dups := Filter([]domain.EnrichedCompany{
		{Name: "ACME Corporation", Domain: str("acme.com")},
	}, existing)

	assert.Empty(t, fresh)
	assert.Equal(t, 1, dups)
}

func TestFilterNameFallbackWithoutDomain(t *testing.T) {
	existing := snapshot(nil, []string{"acme metals"})
	fresh, dups := Filter([]domain.EnrichedCompany{
		{Name: "Acme Metals"},
		{Name: "Other Metals"},
	}, existing)

	assert.Len(t, fresh, 1)
	assert.Equal(t, "Other Metals", fresh[0].Name)
	assert.Equal(t, 1, dups)
}

func TestFilterMatchesStoredDomainVariants(t *testing.T) {
	// Snapshot keys are normalized the same way the repository builds them,
	// so a stored www-variant still collides with the bare registrable domain
	// and vice versa.
	existing := snapshot([]string{
		NormalizeDomain("www.barrick.com"),
		NormalizeDomain("https://newmont.com/investors"),
	}, nil)

	fresh, dups := Filter([]domain.EnrichedCompany{
		{Name: "Barrick Gold", Domain: str("barrick.com")},
		{Name: "Newmont", Domain: str("www.newmont.com")},
	}, existing)

	assert.Empty(t, fresh)
	assert.Equal(t, 2, dups)
}

func TestFilterNewDomainsPass(t *testing.T) {
	existing := snapshot([]string{"barrick.com"}, nil)
	fresh, dups := Filter([]domain.EnrichedCompany{
		{Name: "Barrick Gold", Domain: str("barrick.com")},
		{Name: "Newmont", Domain: str("newmont.com")},
	}, existing)

	assert.Len(t, fresh, 1)
	assert.Equal(t, "Newmont", fresh[0].Name)
	assert.Equal(t, 1, dups)
}

func TestFilterDedupesWithinBatch(t *testing.T) {
	fresh, dups := Filter([]domain.EnrichedCompany{
		{Name: "Barrick Gold", Domain: str("barrick.com")},
		{Name: "Barrick", Domain: str("www.barrick.com")},
		{Name: "Acme"},
		{Name: "ACME"},
	}, snapshot(nil, nil))

	assert.Len(t, fresh, 2)
	assert.Equal(t, 2, dups)
}

func TestFilterEmptyInput(t *testing.T) {
	fresh, dups := Filter(nil, snapshot(nil, nil))
	assert.Empty(t, fresh)
	assert.Zero(t, dups)
}
