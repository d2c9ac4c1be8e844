package currency

import (
	"fmt"

	"github.com/pricelens/backend/internal/domain"
)

// Convert moves amount from one currency to another through the USD base.
// Identical codes return amount untouched without looking at rates. When either
// rate is missing the original amount is returned together with ErrRateUnavailable.
func Convert(rates map[string]float64, amount float64, from, to string) (float64, error) {
	if from == to {
		return amount, nil
	}

	fromRate, okFrom := rates[from]
	toRate, okTo := rates[to]
	if !okFrom || !okTo || fromRate <= 0 || toRate <= 0 {
		return amount, fmt.Errorf("%w: %s -> %s", domain.ErrRateUnavailable, from, to)
	}

	return amount / fromRate * toRate, nil
}

// Rate returns how many units of `to` one unit of `from` buys
func Rate(rates map[string]float64, from, to string) (float64, error) {
	return Convert(rates, 1, from, to)
}
