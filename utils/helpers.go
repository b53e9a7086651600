package utils

import "strings"

// ParseSKUList splits a comma or newline separated list of product codes.
// Blank entries are dropped; repeated codes are kept in order.
func ParseSKUList(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})
	skus := make([]string, 0, len(fields))
	for _, f := range fields {
		if sku := strings.TrimSpace(f); sku != "" {
			skus = append(skus, sku)
		}
	}
	return skus
}
