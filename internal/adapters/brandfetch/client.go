// Package brandfetch is a thin client for the brand data API used to verify
// generated company names and pull logo/description/contact metadata.
package brandfetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"marketdir/internal/domain"
	"marketdir/internal/ports"
)

const defaultTimeout = 15 * time.Second

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// Response shapes are validated at the boundary: decode into explicit structs,
// then trust. Anything that does not decode is a lookup failure.

type searchHit struct {
	Name    string `json:"name"`
	Domain  string `json:"domain"`
	Icon    string `json:"icon"`
	Claimed bool   `json:"claimed"`
}

type brandResponse struct {
	Name        string `json:"name"`
	Domain      string `json:"domain"`
	Description string `json:"description"`
	Claimed     bool   `json:"claimed"`
	Logos       []struct {
		Type    string `json:"type"`
		Formats []struct {
			Src    string `json:"src"`
			Format string `json:"format"`
		} `json:"formats"`
	} `json:"logos"`
	Colors []struct {
		Hex  string `json:"hex"`
		Type string `json:"type"`
	} `json:"colors"`
	Links []struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	} `json:"links"`
}

// SearchByName runs a fuzzy brand search. An empty result list is not an
// error; the caller decides whether to retry with a normalized name.
func (c *Client) SearchByName(ctx context.Context, name string) ([]ports.BrandSearchHit, error) {
	endpoint := fmt.Sprintf("%s/search/%s", c.baseURL, url.PathEscape(name))
	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, &domain.LookupError{Query: name, Err: err}
	}

	var hits []searchHit
	if err := json.Unmarshal(body, &hits); err != nil {
		return nil, &domain.LookupError{Query: name, Err: fmt.Errorf("decode search response: %w", err)}
	}

	out := make([]ports.BrandSearchHit, 0, len(hits))
	for _, h := range hits {
		out = append(out, ports.BrandSearchHit{Name: h.Name, Domain: h.Domain, IconURL: h.Icon})
	}
	return out, nil
}

// LookupDomain fetches the authoritative brand record for a domain. A domain
// the source does not know returns (nil, nil).
func (c *Client) LookupDomain(ctx context.Context, dom string) (*ports.Brand, error) {
	endpoint := fmt.Sprintf("%s/brands/%s", c.baseURL, url.PathEscape(dom))
	body, err := c.get(ctx, endpoint)
	if err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil
		}
		return nil, &domain.LookupError{Query: dom, Err: err}
	}

	var resp brandResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &domain.LookupError{Query: dom, Err: fmt.Errorf("decode brand response: %w", err)}
	}

	brand := &ports.Brand{
		Name:        resp.Name,
		Domain:      resp.Domain,
		Description: resp.Description,
		Claimed:     resp.Claimed,
	}
	for _, logo := range resp.Logos {
		for _, f := range logo.Formats {
			if f.Src != "" {
				brand.LogoURLs = append(brand.LogoURLs, f.Src)
			}
		}
	}
	for _, col := range resp.Colors {
		brand.Colors = append(brand.Colors, ports.BrandColor{Hex: col.Hex, Type: col.Type})
	}
	for _, link := range resp.Links {
		brand.Links = append(brand.Links, ports.BrandLink{Name: link.Name, URL: link.URL})
	}
	return brand, nil
}

var errNotFound = errors.New("brand not found")

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}
