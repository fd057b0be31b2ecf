package utils

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	slugInvalid = regexp.MustCompile(`[^a-z0-9 -]+`)
	slugDashes  = regexp.MustCompile(`[ -]+`)
)

// GenerateSlug turns a product or category name into its URL slug, e.g.
// "Men's T-Shirt!" -> "mens-t-shirt". An existing slug is returned as is.
func GenerateSlug(input string) string {
	s := slugInvalid.ReplaceAllString(strings.ToLower(strings.TrimSpace(input)), "")
	s = slugDashes.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// ParseInt parses a decimal int, returning defaultVal for empty or
// malformed input.
func ParseInt(s string, defaultVal int) int {
	val, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return defaultVal
	}
	return val
}
