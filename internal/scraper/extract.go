package scraper

import (
	"regexp"
	"strconv"
	"strings"
)

// Count suffix multipliers used by trending sites ("1.2K", "3.4M", "1B").
var countSuffixes = map[byte]float64{
	'K': 1e3,
	'M': 1e6,
	'B': 1e9,
	'W': 1e4, // 万, used by Chinese platforms
}

var (
	countPattern = regexp.MustCompile(`([\d,]+(?:\.\d+)?)\s*([KkMmBbWw万])?`)
	agePattern   = regexp.MustCompile(`(\d+)\s*(day|days|d|week|weeks|w|month|months|mo)`)
	pricePattern = regexp.MustCompile(`[\$€£¥₽]\s*[\d,]+(?:\.\d+)?|[\d,]+(?:\.\d+)?\s*[\$€£¥₽]`)
)

// ParseCount converts a display count ("12.3K", "1.2M", "3,456", "42") to
// an integer. Returns 0 when the text carries no number.
func ParseCount(text string) int64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}

	m := countPattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}

	num, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0
	}

	if m[2] != "" {
		suffix := m[2][0]
		if suffix == 'k' || suffix == 'm' || suffix == 'b' || suffix == 'w' {
			suffix -= 'a' - 'A'
		}
		if strings.HasPrefix(m[2], "万") {
			suffix = 'W'
		}
		if mult, ok := countSuffixes[suffix]; ok {
			num *= mult
		}
	}

	return int64(num)
}

// ParsePrice extracts the first currency-tagged amount from display text,
// keeping the currency symbol ("$12.99", "€5"). Returns "" when no price
// is present.
func ParsePrice(text string) string {
	m := pricePattern.FindString(text)
	if m == "" {
		return ""
	}
	return strings.Join(strings.Fields(m), "")
}

// ParseListingAge converts a relative age ("3 days ago", "2 weeks",
// "1 month") to days. Returns nil when the text carries no recognizable
// age.
func ParseListingAge(text string) *int {
	m := agePattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(text)))
	if m == nil {
		return nil
	}

	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}

	days := n
	switch {
	case strings.HasPrefix(m[2], "w"):
		days = n * 7
	case strings.HasPrefix(m[2], "mo"):
		days = n * 30
	}
	return &days
}
