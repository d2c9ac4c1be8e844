package currency

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
)

var (
	// Digits separated by a space-like thousands separator ("1 299,00")
	spacedThousandsRegex = regexp.MustCompile(`(\d)[\s\x{00A0}\x{202F}](\d{3})`)

	// First number-looking run; ranges like "$10 - $12" keep the lower bound
	numberRunRegex = regexp.MustCompile(`\d[\d.,]*`)

	isoCodeRegex = regexp.MustCompile(`\b[A-Z]{3}\b`)
)

// symbol order matters: longer symbols that end in "$" come before "$"
var currencySymbols = []struct {
	symbol string
	code   string
}{
	{"US$", "USD"},
	{"NT$", "TWD"},
	{"HK$", "HKD"},
	{"NZ$", "NZD"},
	{"MX$", "MXN"},
	{"R$", "BRL"},
	{"C$", "CAD"},
	{"A$", "AUD"},
	{"S$", "SGD"},
	{"RM", "MYR"},
	{"Rp", "IDR"},
	{"Rs", "INR"},
	{"₹", "INR"},
	{"€", "EUR"},
	{"£", "GBP"},
	{"¥", "JPY"},
	{"₩", "KRW"},
	{"₱", "PHP"},
	{"฿", "THB"},
	{"₫", "VND"},
	{"₺", "TRY"},
	{"₽", "RUB"},
	{"₦", "NGN"},
	{"₪", "ILS"},
	{"zł", "PLN"},
	{"￥", "JPY"},
	{"kr", "SEK"},
	{"Kr", "SEK"},
	{"$", "USD"},
}

// sharedSymbols are written the same way by several currencies. When the
// caller's fallback is one of them it wins over the table's code.
var sharedSymbols = map[string][]string{
	"$":  {"USD", "CAD", "AUD", "NZD", "MXN", "SGD", "HKD", "TWD", "ARS", "CLP", "COP", "UYU", "BND"},
	"¥":  {"JPY", "CNY"},
	"￥":  {"JPY", "CNY"},
	"kr": {"SEK", "NOK", "DKK", "ISK"},
	"Kr": {"SEK", "NOK", "DKK", "ISK"},
}

// ExtractPrice pulls the first price out of a text fragment and returns it as a
// canonical decimal string ("1299.99") along with its value. ok is false when no
// positive number could be found.
func ExtractPrice(text string) (string, float64, bool) {
	text = spacedThousandsRegex.ReplaceAllString(text, "$1$2")

	run := numberRunRegex.FindString(text)
	if run == "" {
		return "", 0, false
	}

	normalized := normalizeSeparators(run)
	value, err := strconv.ParseFloat(normalized, 64)
	if err != nil || value <= 0 {
		return "", 0, false
	}

	return normalized, value, true
}

// ParsePrice converts a raw price string to a number, 0 when unparseable
func ParsePrice(raw string) float64 {
	_, value, ok := ExtractPrice(raw)
	if !ok {
		return 0
	}
	return value
}

// normalizeSeparators turns a run of digits, dots and commas into a Go float literal.
// When both separators appear the last one is the decimal mark. A lone separator
// followed by exactly three digits is a thousands mark for commas and for repeated
// dots; a single dot is always decimal.
func normalizeSeparators(s string) string {
	s = strings.Trim(s, ".,")

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			return strings.Replace(s, ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")

	case lastComma >= 0:
		if strings.Count(s, ",") == 1 && len(s)-lastComma-1 != 3 {
			return strings.Replace(s, ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")

	case lastDot >= 0:
		if strings.Count(s, ".") > 1 {
			return strings.ReplaceAll(s, ".", "")
		}
		return s
	}

	return s
}

// DetectCurrency infers an ISO code from a price fragment. Symbols win over
// embedded ISO codes; fallback is returned when neither is present. A shared
// symbol such as "$" or "kr" resolves to fallback when fallback uses it, so a
// Canadian storefront's "$1,299.00" is CAD.
func DetectCurrency(text, fallback string) string {
	for _, s := range currencySymbols {
		if strings.Contains(text, s.symbol) {
			if slices.Contains(sharedSymbols[s.symbol], fallback) {
				return fallback
			}
			return s.code
		}
	}

	for _, code := range isoCodeRegex.FindAllString(text, -1) {
		if _, known := fallbackRates[code]; known {
			return code
		}
	}

	return fallback
}
