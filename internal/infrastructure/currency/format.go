package currency

import (
	"strconv"
	"strings"
)

var displaySymbols = map[string]string{
	"USD": "$", "EUR": "€", "GBP": "£", "JPY": "¥", "CHF": "CHF ",
	"CAD": "C$", "AUD": "A$", "NZD": "NZ$", "INR": "₹", "CNY": "¥",
	"KRW": "₩", "SGD": "S$", "MYR": "RM", "THB": "฿", "IDR": "Rp",
	"PHP": "₱", "VND": "₫", "HKD": "HK$", "TWD": "NT$", "PKR": "₨",
	"BDT": "৳", "LKR": "Rs", "NPR": "Rs", "SEK": "kr ", "NOK": "kr ",
	"DKK": "kr ", "PLN": "zł ", "CZK": "Kč ", "HUF": "Ft ", "RON": "lei ",
	"RUB": "₽", "UAH": "₴", "TRY": "₺", "ILS": "₪", "BRL": "R$",
	"MXN": "MX$", "PEN": "S/", "ZAR": "R", "NGN": "₦", "KES": "KSh",
	"GHS": "₵",
}

// currencies quoted without minor units
var zeroDecimal = map[string]bool{
	"JPY": true, "KRW": true, "VND": true, "IDR": true, "CLP": true,
	"PYG": true, "UGX": true, "HUF": true,
}

// Format renders amount with the currency's symbol and thousands grouping,
// e.g. Format(1299.5, "USD") == "$1,299.50". Unknown codes are prefixed verbatim.
func Format(amount float64, code string) string {
	decimals := 2
	if zeroDecimal[code] {
		decimals = 0
	}

	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	number := groupThousands(strconv.FormatFloat(amount, 'f', decimals, 64))

	symbol, ok := displaySymbols[code]
	if !ok {
		symbol = code + " "
	}
	return sign + symbol + number
}

func groupThousands(s string) string {
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	if len(intPart) <= 3 {
		return intPart + frac
	}

	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	return b.String() + frac
}
