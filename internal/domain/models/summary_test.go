package models

import (
	"encoding/json"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeMixedHoldings(t *testing.T) {
	holdings := []Holding{
		{Symbol: "AAA", Quantity: 2, LTP: 150, AvgPrice: 120, Close: 140},
		{Symbol: "BBB", Quantity: 1, LTP: 50, AvgPrice: 40, Close: 45},
	}

	s := Summarize(holdings)
	assert.InDelta(t, 350.0, s.CurrentValue, 1e-9)
	assert.InDelta(t, 280.0, s.TotalInvestment, 1e-9)
	assert.InDelta(t, 70.0, s.TotalPNL, 1e-9)
	assert.InDelta(t, 25.0, s.TodaysPNL, 1e-9)
	assert.InDelta(t, 25.0, s.TotalPNLPercent, 1e-9)
}

func TestSummarizeZeroInvestment(t *testing.T) {
	s := Summarize([]Holding{{Symbol: "FREE", Quantity: 5, LTP: 120, AvgPrice: 0, Close: 100}})

	assert.Equal(t, 0.0, s.TotalInvestment)
	assert.InDelta(t, 600.0, s.CurrentValue, 1e-9)
	assert.InDelta(t, 600.0, s.TotalPNL, 1e-9)
	assert.InDelta(t, 100.0, s.TodaysPNL, 1e-9)
	assert.Equal(t, 0.0, s.TotalPNLPercent)
	assert.False(t, math.IsNaN(s.TotalPNLPercent) || math.IsInf(s.TotalPNLPercent, 0))
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestSummarizeLoss(t *testing.T) {
	s := Summarize([]Holding{{Symbol: "LOSS", Quantity: 2, LTP: 50, AvgPrice: 100, Close: 90}})
	assert.InDelta(t, -100.0, s.TotalPNL, 1e-9)
	assert.InDelta(t, -80.0, s.TodaysPNL, 1e-9)
	assert.InDelta(t, -50.0, s.TotalPNLPercent, 1e-9)
}

func TestSummaryInvariants(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		holdings := make([]Holding, r.Intn(12))
		for j := range holdings {
			holdings[j] = Holding{
				Symbol:   "S",
				Quantity: r.Intn(1000),
				LTP:      r.Float64() * 5000,
				AvgPrice: r.Float64() * 5000,
				Close:    r.Float64() * 5000,
			}
		}

		assert.InDelta(t, TotalPNL(holdings), CurrentValue(holdings)-TotalInvestment(holdings), 1e-6)

		var today float64
		for _, h := range holdings {
			today += (h.LTP - h.Close) * float64(h.Quantity)
		}
		assert.InDelta(t, today, TodaysPNL(holdings), 1e-6)
	}
}

func TestHoldingPNL(t *testing.T) {
	h := Holding{Symbol: "AAA", Quantity: 2, LTP: 150, AvgPrice: 120, Close: 140}
	assert.Equal(t, 300.0, h.CurrentValue())
	assert.Equal(t, 240.0, h.Investment())
	assert.Equal(t, 60.0, h.PNL())
	assert.Equal(t, 20.0, h.TodaysPNL())
}

func TestSummaryJSONWithOverflow(t *testing.T) {
	s := Summarize([]Holding{{Symbol: "BIG", Quantity: 2, LTP: 1e308, AvgPrice: 1, Close: 1}})
	require.True(t, math.IsInf(s.CurrentValue, 1))

	raw, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"current_value":null`)
	assert.Contains(t, string(raw), `"total_investment":2`)
}

func TestHoldingViewJSONWithOverflow(t *testing.T) {
	raw, err := json.Marshal(NewHoldingView(Holding{Symbol: "BIG", Quantity: 2, LTP: 1e308, AvgPrice: 1, Close: 1}))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"ltp":1e+308`)
	assert.Contains(t, string(raw), `"current_value":null`)
	assert.Contains(t, string(raw), `"investment":2`)
}
