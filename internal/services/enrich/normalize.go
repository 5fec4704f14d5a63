package enrich

import "strings"

// Legal-entity suffixes stripped before the fallback search. Brand sources
// index companies by trading name, so "Barrick Gold Corp." often only matches
// as "Barrick Gold".
var legalSuffixes = []string{
	"incorporated", "corporation", "limited", "group",
	"inc", "ltd", "llc", "corp", "plc", "s.a", "sa", "ag", "gmbh", "co",
}

// NormalizeName strips trailing legal-entity suffixes and punctuation from a
// company name. Applied repeatedly, so "Acme Holdings Group Ltd." reduces to
// "Acme Holdings".
func NormalizeName(name string) string {
	out := strings.TrimSpace(name)
	for {
		trimmed := strings.TrimRight(out, " .,")
		lower := strings.ToLower(trimmed)
		stripped := false
		for _, suffix := range legalSuffixes {
			if !strings.HasSuffix(lower, " "+suffix) && lower != suffix {
				continue
			}
			if lower == suffix {
				// Never reduce a name to nothing.
				return trimmed
			}
			trimmed = strings.TrimSpace(trimmed[:len(trimmed)-len(suffix)])
			stripped = true
			break
		}
		out = strings.TrimRight(trimmed, " .,")
		if !stripped {
			return out
		}
	}
}
