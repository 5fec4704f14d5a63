package ports

import "strings"

// Pure projections over a brand record with graceful-nil fallback when the
// source lacks the field.

// Logo returns the first usable logo URL.
func (b *Brand) Logo() *string {
	if b == nil || len(b.LogoURLs) == 0 {
		return nil
	}
	return &b.LogoURLs[0]
}

// PrimaryColor prefers an accent palette entry, falling back to the first
// color the source reports.
func (b *Brand) PrimaryColor() *string {
	if b == nil || len(b.Colors) == 0 {
		return nil
	}
	for i := range b.Colors {
		if b.Colors[i].Type == "accent" && b.Colors[i].Hex != "" {
			return &b.Colors[i].Hex
		}
	}
	if b.Colors[0].Hex == "" {
		return nil
	}
	return &b.Colors[0].Hex
}

// ContactEmail scans the link list for an email entry, either by label or by
// mailto scheme. Absence is not an error.
func (b *Brand) ContactEmail() *string {
	if b == nil {
		return nil
	}
	for _, link := range b.Links {
		isMailto := strings.HasPrefix(strings.ToLower(link.URL), "mailto:")
		if !strings.EqualFold(link.Name, "email") && !isMailto {
			continue
		}
		addr := link.URL
		if isMailto {
			addr = addr[len("mailto:"):]
		}
		if addr != "" {
			return &addr
		}
	}
	return nil
}
