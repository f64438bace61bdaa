// Package menu turns flat sequences of panel text lines into structured
// menu item records: classification, segmentation, and panel extraction.
package menu

import (
	"regexp"
	"strings"

	"github.com/crawlbite/menuscan/pkg/types"
)

var (
	// pricePattern matches a price anywhere in a line: optional "Price:"
	// prefix, digits, then the currency marker (L.E with optional dots).
	pricePattern = regexp.MustCompile(`(?i)(Price\s*:\s*|)(\d+)\s*(L\.?E\.?)`)

	// priceOnlyPattern matches a line that is nothing but a price,
	// with an optional trailing period.
	priceOnlyPattern = regexp.MustCompile(`(?i)^(\d+)\s*(L\.?E\.?)\.?$`)
)

// noiseTokens are filler lines that carry no item data.
var noiseTokens = map[string]struct{}{
	"price": {},
	"l.e":   {},
	"le":    {},
}

// Classify tags one trimmed line of panel text. Pure function of the text.
// When both price patterns match, the general pattern's digit group wins.
func Classify(line string) types.ClassifiedLine {
	if m := pricePattern.FindStringSubmatch(line); m != nil {
		return types.ClassifiedLine{Text: line, Kind: types.LinePrice, Amount: m[2]}
	}
	if m := priceOnlyPattern.FindStringSubmatch(line); m != nil {
		return types.ClassifiedLine{Text: line, Kind: types.LinePriceOnly, Amount: m[1]}
	}
	if _, ok := noiseTokens[strings.ToLower(line)]; ok {
		return types.ClassifiedLine{Text: line, Kind: types.LineNoise}
	}
	return types.ClassifiedLine{Text: line, Kind: types.LineFragment}
}
