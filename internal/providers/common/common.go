package common

import (
	"strconv"
	"strings"
)

// FormatAmount renders a subsidy ceiling in yen the way the portals display
// money: 1億円 and above with one decimal, 1万円 and above in whole 万円,
// smaller values comma grouped. A nil amount means the grant has no ceiling.
func FormatAmount(amount *int64) string {
	if amount == nil {
		return "上限なし"
	}
	v := *amount
	switch {
	case v >= 100_000_000:
		return strconv.FormatFloat(float64(v)/100_000_000, 'f', 1, 64) + "億円"
	case v >= 10_000:
		return strconv.FormatFloat(float64(v)/10_000, 'f', 0, 64) + "万円"
	default:
		return formatWithCommas(strconv.FormatInt(v, 10)) + "円"
	}
}

// TruncateRunes shortens s to at most max runes, appending an ellipsis when
// anything was cut.
func TruncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

func formatWithCommas(input string) string {
	if len(input) <= 3 {
		return input
	}

	neg := strings.HasPrefix(input, "-")
	if neg {
		input = strings.TrimPrefix(input, "-")
	}

	n := len(input)
	first := n % 3
	if first == 0 {
		first = 3
	}

	parts := []string{input[:first]}
	for i := first; i < n; i += 3 {
		parts = append(parts, input[i:i+3])
	}

	result := strings.Join(parts, ",")
	if neg {
		return "-" + result
	}
	return result
}
