package nutrition

import (
	"math"

	"github.com/ZarakiLancelot/NutriSnap/internal/domain"
)

// Rates are fixed conversion factors relative to USD. They only need to
// be close enough for cost estimates to stay plausible after a currency
// switch.
var Rates = map[domain.Currency]float64{
	"USD": 1,
	"EUR": 0.92,
	"GTQ": 7.8,
	"MXN": 17,
	"COP": 3900,
	"ARS": 850,
	"CLP": 980,
	"PEN": 3.75,
	"UYU": 39,
	"DOP": 59,
}

// Symbol returns the display symbol for a supported currency.
func Symbol(c domain.Currency) string {
	switch c {
	case "GTQ":
		return "Q"
	case "EUR":
		return "€"
	default:
		return "$"
	}
}

func rate(c domain.Currency) float64 {
	if r, ok := Rates[c]; ok {
		return r
	}
	return 1
}

// RedenominateHistory rewrites every cost estimate in place when the user
// switches currency, using the fixed rate table. Zero real costs are left
// alone so the field keeps meaning "not recorded".
func RedenominateHistory(history []domain.HistoryItem, from, to domain.Currency) {
	if from == to {
		return
	}
	ratio := rate(to) / rate(from)
	symbol := Symbol(to)

	for i := range history {
		h := &history[i]
		h.Cost.Currency = symbol
		h.Cost.HomeCost = round2(h.Cost.HomeCost * ratio)
		h.Cost.RestaurantCost = round2(h.Cost.RestaurantCost * ratio)
		h.Cost.Savings = round2(h.Cost.Savings * ratio)
		if h.RealCost != 0 {
			h.RealCost = round2(h.RealCost * ratio)
		}
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
