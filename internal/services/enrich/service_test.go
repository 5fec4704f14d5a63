package enrich

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"marketdir/internal/domain"
	"marketdir/internal/ports"
)

type fakeBrandLookup struct {
	searches  []string
	hits      map[string][]ports.BrandSearchHit
	brands    map[string]*ports.Brand
	searchErr error
	lookupErr error
}

func (f *fakeBrandLookup) SearchByName(_ context.Context, name string) ([]ports.BrandSearchHit, error) {
	f.searches = append(f.searches, name)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.hits[name], nil
}

func (f *fakeBrandLookup) LookupDomain(_ context.Context, dom string) (*ports.Brand, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	return f.brands[dom], nil
}

type countingGate struct{ waits int }

func (g *countingGate) Wait(context.Context) error {
	g.waits++
	return nil
}

func str(s string) *string { return &s }

func barrickBrand() *ports.Brand {
	return &ports.Brand{
		Name:        "Barrick Gold",
		Domain:      "barrick.com",
		Description: "Gold and copper producer",
		Claimed:     true,
		LogoURLs:    []string{"https://cdn.example/logo.svg"},
		Colors:      []ports.BrandColor{{Hex: "#001489", Type: "brand"}},
		Links:       []ports.BrandLink{{Name: "email", URL: "mailto:info@barrick.com"}},
	}
}

func TestEnrichFullRecord(t *testing.T) {
	brands := &fakeBrandLookup{
		hits:   map[string][]ports.BrandSearchHit{"Barrick Gold Corp.": {{Name: "Barrick Gold", Domain: "barrick.com", IconURL: "https://cdn.example/icon.png"}}},
		brands: map[string]*ports.Brand{"barrick.com": barrickBrand()},
	}
	gate := &countingGate{}
	svc := New(brands, gate, nil)

	rec, err := svc.Enrich(context.Background(), domain.Candidate{Name: "Barrick Gold Corp.", Type: "Mining Company", Region: "Americas"})
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, "Barrick Gold Corp.", rec.Name)
	assert.Equal(t, str("barrick.com"), rec.Domain)
	assert.Equal(t, str("https://barrick.com"), rec.Website)
	assert.Equal(t, str("Gold and copper producer"), rec.Description)
	assert.Equal(t, str("https://cdn.example/logo.svg"), rec.LogoURL)
	assert.Equal(t, str("#001489"), rec.PrimaryColor)
	assert.Equal(t, str("info@barrick.com"), rec.Email)
	assert.True(t, rec.Verified)
	assert.Equal(t, 100, rec.QualityScore)
	assert.Equal(t, 1, gate.waits, "gate waited once per candidate")
}

func TestEnrichNoHitIsUnresolvedNotFabricated(t *testing.T) {
	brands := &fakeBrandLookup{hits: map[string][]ports.BrandSearchHit{}}
	gate := &countingGate{}
	svc := New(brands, gate, nil)

	rec, err := svc.Enrich(context.Background(), domain.Candidate{Name: "Acme Gold", Type: "Mining Company", Region: "Africa"})
	require.NoError(t, err)
	assert.Nil(t, rec)
	assert.Equal(t, 1, gate.waits, "gate waited even for unresolved candidates")
}

func TestEnrichRetriesWithNormalizedName(t *testing.T) {
	brands := &fakeBrandLookup{
		hits: map[string][]ports.BrandSearchHit{
			"Newmont": {{Name: "Newmont", Domain: "newmont.com"}},
		},
		brands: map[string]*ports.Brand{"newmont.com": {Name: "Newmont", Domain: "newmont.com", Claimed: true}},
	}
	svc := New(brands, &countingGate{}, nil)

	rec, err := svc.Enrich(context.Background(), domain.Candidate{Name: "Newmont Corporation", Type: "Mining Company", Region: "Americas"})
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, []string{"Newmont Corporation", "Newmont"}, brands.searches)
	assert.Equal(t, str("newmont.com"), rec.Domain)
}

func TestEnrichPartialRecordWhenDetailLookupFails(t *testing.T) {
	brands := &fakeBrandLookup{
		hits:      map[string][]ports.BrandSearchHit{"Glencore": {{Name: "Glencore", Domain: "glencore.com", IconURL: "https://cdn.example/glencore.png"}}},
		lookupErr: &domain.LookupError{Query: "glencore.com"},
	}
	svc := New(brands, &countingGate{}, nil)

	rec, err := svc.Enrich(context.Background(), domain.Candidate{Name: "Glencore", Type: "Trading House", Region: "Europe"})
	require.NoError(t, err)
	require.NotNil(t, rec, "partial record beats no record when the domain is confirmed")

	assert.Equal(t, str("glencore.com"), rec.Domain)
	assert.Equal(t, str("https://cdn.example/glencore.png"), rec.LogoURL)
	assert.Nil(t, rec.Description)
	assert.False(t, rec.Verified)
	// name 20 + logo 20 + website 15
	assert.Equal(t, 55, rec.QualityScore)
}

func TestEnrichNormalizesPersistedDomain(t *testing.T) {
	brands := &fakeBrandLookup{
		hits: map[string][]ports.BrandSearchHit{"Glencore": {{Name: "Glencore", Domain: "www.glencore.com", IconURL: "https://cdn.example/glencore.png"}}},
		brands: map[string]*ports.Brand{"www.glencore.com": {
			Name:    "Glencore",
			Domain:  "www.glencore.com",
			Claimed: true,
		}},
	}
	svc := New(brands, &countingGate{}, nil)

	rec, err := svc.Enrich(context.Background(), domain.Candidate{Name: "Glencore", Type: "Trading House", Region: "Europe"})
	require.NoError(t, err)
	require.NotNil(t, rec)

	// The record carries the registrable domain so stored rows collide with
	// later www-variants under the unique index.
	assert.Equal(t, str("glencore.com"), rec.Domain)
	assert.Equal(t, str("https://glencore.com"), rec.Website)
}

func TestEnrichPartialRecordWhenBrandMissing(t *testing.T) {
	// Domain lookup returns no record and no error: same partial fallback as
	// a transport failure, but nothing to propagate.
	brands := &fakeBrandLookup{
		hits: map[string][]ports.BrandSearchHit{"Trafigura": {{Name: "Trafigura", Domain: "trafigura.com", IconURL: "https://cdn.example/trafigura.png"}}},
	}
	svc := New(brands, &countingGate{}, nil)

	rec, err := svc.Enrich(context.Background(), domain.Candidate{Name: "Trafigura", Type: "Trading House", Region: "Europe"})
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, str("trafigura.com"), rec.Domain)
	assert.Equal(t, 55, rec.QualityScore)
}

func TestEnrichPartialRecordLogLevels(t *testing.T) {
	// A transport failure warns with the error attached; a clean not-found
	// stays at debug and carries no error field.
	hits := map[string][]ports.BrandSearchHit{"Glencore": {{Name: "Glencore", Domain: "glencore.com", IconURL: "https://cdn.example/glencore.png"}}}

	core, logs := observer.New(zapcore.DebugLevel)
	svc := New(&fakeBrandLookup{hits: hits}, &countingGate{}, zap.New(core))
	_, err := svc.Enrich(context.Background(), domain.Candidate{Name: "Glencore", Type: "Trading House", Region: "Europe"})
	require.NoError(t, err)
	assert.Empty(t, logs.FilterLevelExact(zapcore.WarnLevel).All(), "not-found is not a warning")
	require.Len(t, logs.FilterMessage("domain has no brand record, keeping partial record").All(), 1)

	core, logs = observer.New(zapcore.DebugLevel)
	svc = New(&fakeBrandLookup{hits: hits, lookupErr: &domain.LookupError{Query: "glencore.com"}}, &countingGate{}, zap.New(core))
	_, err = svc.Enrich(context.Background(), domain.Candidate{Name: "Glencore", Type: "Trading House", Region: "Europe"})
	require.NoError(t, err)
	warns := logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, warns, 1)
	assert.Contains(t, warns[0].ContextMap(), "error")
}

func TestEnrichLookupFailureWithoutMinimalDataPropagates(t *testing.T) {
	brands := &fakeBrandLookup{
		hits:      map[string][]ports.BrandSearchHit{"Glencore": {{Name: "Glencore", Domain: "glencore.com"}}},
		lookupErr: &domain.LookupError{Query: "glencore.com"},
	}
	svc := New(brands, &countingGate{}, nil)

	_, err := svc.Enrich(context.Background(), domain.Candidate{Name: "Glencore", Type: "Trading House", Region: "Europe"})
	var lookupErr *domain.LookupError
	require.ErrorAs(t, err, &lookupErr)
}

func TestEnrichSearchErrorPropagates(t *testing.T) {
	brands := &fakeBrandLookup{searchErr: &domain.LookupError{Query: "Barrick"}}
	gate := &countingGate{}
	svc := New(brands, gate, nil)

	_, err := svc.Enrich(context.Background(), domain.Candidate{Name: "Barrick", Type: "Mining Company", Region: "Americas"})
	require.Error(t, err)
	assert.Equal(t, 1, gate.waits)
}

func TestEnrichHitWithoutDomainKeepsNameFallback(t *testing.T) {
	brands := &fakeBrandLookup{
		hits: map[string][]ports.BrandSearchHit{"Acme Metals": {{Name: "Acme Metals", IconURL: "https://cdn.example/acme.png"}}},
	}
	svc := New(brands, &countingGate{}, nil)

	rec, err := svc.Enrich(context.Background(), domain.Candidate{Name: "Acme Metals", Type: "Smelter", Region: "Asia"})
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Nil(t, rec.Domain)
	assert.NotNil(t, rec.LogoURL)
}

func TestNormalizeName(t *testing.T) {
	cases := map[string]string{
		"Barrick Gold Corp.":      "Barrick Gold",
		"Newmont Corporation":     "Newmont",
		"Anglo American PLC":      "Anglo American",
		"Vale S.A.":               "Vale",
		"Thyssenkrupp AG":         "Thyssenkrupp",
		"Aurubis GmbH":            "Aurubis",
		"Acme Holdings Group Ltd": "Acme Holdings",
		"Newmont":                 "Newmont",
		"Ltd":                     "Ltd",
		"Cameco":                  "Cameco",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeName(in), "input %q", in)
	}
}
