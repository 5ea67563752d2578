package parser

import "regexp"

// PricePattern matches Brazilian currency text such as "R$ 1.234.567,89".
// Extraction never applies it; validation does.
var PricePattern = regexp.MustCompile(`(?i)R\$\s*[\d\.]{1,3}(?:\.\d{3})*(?:,\d{2})?`)

// IsPriceText reports whether s contains a recognizable price.
func IsPriceText(s string) bool {
	return PricePattern.MatchString(s)
}
