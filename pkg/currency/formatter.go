package currency

import (
	"strconv"
	"strings"

	"golang.org/x/text/currency"
)

var symbols = map[string]string{
	"INR": "₹",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
}

// Format renders a whole-unit amount for display. INR uses Indian digit
// grouping (1,23,456); every other currency groups by thousands. Codes that
// are not ISO 4217 currencies are dropped and only the amount is printed.
func Format(amount int, code string) string {
	code = canonical(code)

	negative := amount < 0
	if negative {
		amount = -amount
	}

	digits := strconv.Itoa(amount)
	var grouped string
	if code == "INR" {
		grouped = groupIndian(digits)
	} else {
		grouped = addThousandsSeparator(digits, ",")
	}

	var result string
	if sym, ok := symbols[code]; ok {
		result = sym + grouped
	} else if code != "" {
		result = code + " " + grouped
	} else {
		result = grouped
	}

	if negative {
		result = "-" + result
	}
	return result
}

// Valid reports whether code is a known ISO 4217 currency.
func Valid(code string) bool {
	return canonical(code) != ""
}

func canonical(code string) string {
	unit, err := currency.ParseISO(strings.TrimSpace(code))
	if err != nil {
		return ""
	}
	return unit.String()
}

// FormatINR formats rupees with the ₹ symbol and lakh/crore grouping.
func FormatINR(amount int) string {
	return Format(amount, "INR")
}

func groupIndian(s string) string {
	if len(s) <= 3 {
		return s
	}
	head, tail := s[:len(s)-3], s[len(s)-3:]

	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(parts, ",") + "," + tail
}

func addThousandsSeparator(s string, sep string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	numSeps := (n - 1) / 3
	result := make([]byte, n+numSeps)

	j := len(result) - 1
	for i := n - 1; i >= 0; i-- {
		result[j] = s[i]
		j--

		pos := n - i
		if pos%3 == 0 && i > 0 {
			result[j] = sep[0]
			j--
		}
	}

	return string(result)
}
