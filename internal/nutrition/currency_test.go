package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ZarakiLancelot/NutriSnap/internal/domain"
)

func TestSymbol(t *testing.T) {
	assert.Equal(t, "Q", Symbol("GTQ"))
	assert.Equal(t, "€", Symbol("EUR"))
	assert.Equal(t, "$", Symbol("USD"))
	assert.Equal(t, "$", Symbol("MXN"))
}

func TestRedenominateHistory(t *testing.T) {
	item := domain.HistoryItem{ID: "h1", RealCost: 100}
	item.Cost = domain.CostAnalysis{HomeCost: 10, RestaurantCost: 25, Savings: 15, Currency: "$"}
	history := []domain.HistoryItem{item}

	RedenominateHistory(history, "USD", "GTQ")

	h := history[0]
	assert.Equal(t, "Q", h.Cost.Currency)
	assert.Equal(t, 78.0, h.Cost.HomeCost)
	assert.Equal(t, 195.0, h.Cost.RestaurantCost)
	assert.Equal(t, 117.0, h.Cost.Savings)
	assert.Equal(t, 780.0, h.RealCost)
}

func TestRedenominateHistorySkipsNoOps(t *testing.T) {
	item := domain.HistoryItem{ID: "h1"}
	item.Cost = domain.CostAnalysis{HomeCost: 10, Currency: "$"}
	history := []domain.HistoryItem{item}

	RedenominateHistory(history, "USD", "USD")
	assert.Equal(t, 10.0, history[0].Cost.HomeCost)
	assert.Equal(t, "$", history[0].Cost.Currency)

	// Unrecorded real cost stays zero after a real conversion.
	RedenominateHistory(history, "USD", "EUR")
	assert.Zero(t, history[0].RealCost)
	assert.Equal(t, 9.2, history[0].Cost.HomeCost)
}
