package domain

// Supported commodity keys and the descriptive labels used when prompting the
// generative service. The key is what callers pass over HTTP/CLI and what gets
// tagged onto persisted participants.
var commodityLabels = map[string]string{
	"gold":        "gold mining and refining",
	"silver":      "silver mining and refining",
	"copper":      "copper mining and smelting",
	"crude-oil":   "crude oil production and trading",
	"natural-gas": "natural gas production and distribution",
	"wheat":       "wheat farming and grain trading",
	"coffee":      "coffee growing, roasting and export",
	"cocoa":       "cocoa growing and processing",
	"cotton":      "cotton growing and textile supply",
	"sugar":       "sugar cane and beet processing",
}

// CommodityLabel returns the prompt label for a commodity key.
func CommodityLabel(key string) (string, bool) {
	label, ok := commodityLabels[key]
	return label, ok
}

// Commodities lists the supported commodity keys.
func Commodities() []string {
	keys := make([]string, 0, len(commodityLabels))
	for k := range commodityLabels {
		keys = append(keys, k)
	}
	return keys
}
