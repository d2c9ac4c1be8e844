package currency

import (
	"context"
	"sort"
)

// BaseCurrency is the unit every rate in a table is expressed against
const BaseCurrency = "USD"

// fallbackRates are units of each currency per 1 USD, used until a live refresh succeeds
var fallbackRates = map[string]float64{
	// Major
	"USD": 1.0, "EUR": 0.85, "GBP": 0.73, "JPY": 110.0, "CHF": 0.92,
	"CAD": 1.25, "AUD": 1.35, "NZD": 1.45,

	// Asia
	"INR": 74.0, "CNY": 6.45, "KRW": 1180.0, "SGD": 1.35, "MYR": 4.15,
	"THB": 33.0, "IDR": 14500.0, "PHP": 50.0, "VND": 23000.0, "HKD": 7.8,
	"TWD": 28.0, "PKR": 155.0, "BDT": 85.0, "LKR": 200.0, "NPR": 118.0,
	"MMK": 1400.0, "KHR": 4100.0, "LAK": 8500.0, "BND": 1.35, "MNT": 2550.0,
	"AFN": 75.0,

	// Europe (non-EUR)
	"SEK": 8.5, "NOK": 8.8, "DKK": 6.3, "PLN": 3.9, "CZK": 21.5,
	"HUF": 295.0, "RON": 4.2, "BGN": 1.66, "RUB": 75.0, "UAH": 27.0,
	"BYN": 2.5, "KZT": 425.0, "UZS": 10500.0, "TRY": 8.5,

	// Middle East
	"AED": 3.67, "SAR": 3.75, "ILS": 3.2, "EGP": 15.7, "QAR": 3.64,
	"KWD": 0.30, "BHD": 0.38, "OMR": 0.38, "JOD": 0.71, "LBP": 1500.0,
	"IQD": 1460.0, "IRR": 42000.0, "SYP": 2500.0, "YER": 250.0,

	// Americas
	"BRL": 5.2, "MXN": 20.0, "ARS": 98.0, "CLP": 750.0, "COP": 3600.0,
	"PEN": 3.6, "UYU": 43.0, "PYG": 6800.0, "BOB": 6.9, "VES": 4.2,
	"GYD": 209.0, "SRD": 14.3,

	// Africa
	"ZAR": 14.5, "NGN": 410.0, "KES": 108.0, "GHS": 5.8, "MAD": 9.0,
	"TND": 2.8, "DZD": 135.0, "ETB": 44.0, "UGX": 3550.0, "TZS": 2300.0,
}

// FallbackRates returns a copy of the built-in rate table
func FallbackRates() map[string]float64 {
	out := make(map[string]float64, len(fallbackRates))
	for code, rate := range fallbackRates {
		out[code] = rate
	}
	return out
}

// KnownCurrencies lists the codes of the built-in table in alphabetical order
func KnownCurrencies() []string {
	codes := make([]string, 0, len(fallbackRates))
	for code := range fallbackRates {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// StaticProvider serves the built-in table. It is used when no rate API is configured.
type StaticProvider struct{}

// FetchRates returns a copy of the fallback table
func (StaticProvider) FetchRates(ctx context.Context) (map[string]float64, error) {
	return FallbackRates(), nil
}
