package utils

import (
	"regexp"
	"strconv"
	"strings"
)

// digitRunRegex finds the first run of digits, allowing thousands separators inside it.
var digitRunRegex = regexp.MustCompile(`\d[\d,]*`)

// ParseStockCount extracts the first number from a stock label such as "1,250 disponibles".
// It returns false when the label has no digits.
func ParseStockCount(text string) (int, bool) {
	found := digitRunRegex.FindString(text)
	if found == "" {
		return 0, false
	}
	n, err := strconv.Atoi(strings.ReplaceAll(found, ",", ""))
	if err != nil {
		return 0, false
	}
	return n, true
}

// JoinSplitPrice rebuilds a price that the storefront renders as separate
// integer and decimal nodes, e.g. "$1,299" and "00" become "$1299.00".
func JoinSplitPrice(main, decimals string) string {
	price := main
	if decimals != "" {
		price += "." + decimals
	}
	return strings.TrimSpace(strings.ReplaceAll(price, ",", ""))
}

// ContainsFold reports whether any of the markers occurs in text, ignoring case.
func ContainsFold(text string, markers ...string) bool {
	lower := strings.ToLower(text)
	for _, m := range markers {
		if strings.Contains(lower, strings.ToLower(m)) {
			return true
		}
	}
	return false
}
