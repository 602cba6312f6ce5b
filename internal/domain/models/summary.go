package models

import (
	"encoding/json"
	"math"
)

// Summary holds the derived portfolio aggregates shown alongside the holdings list.
type Summary struct {
	CurrentValue    float64 `json:"current_value"`
	TotalInvestment float64 `json:"total_investment"`
	TotalPNL        float64 `json:"total_pnl"`
	TodaysPNL       float64 `json:"todays_pnl"`
	TotalPNLPercent float64 `json:"total_pnl_percent"`
}

// CurrentValue returns Σ ltp × quantity.
func CurrentValue(holdings []Holding) float64 {
	var sum float64
	for _, h := range holdings {
		sum += h.CurrentValue()
	}
	return sum
}

// TotalInvestment returns Σ avgPrice × quantity.
func TotalInvestment(holdings []Holding) float64 {
	var sum float64
	for _, h := range holdings {
		sum += h.Investment()
	}
	return sum
}

// TotalPNL returns current value minus total investment.
func TotalPNL(holdings []Holding) float64 {
	return CurrentValue(holdings) - TotalInvestment(holdings)
}

// TodaysPNL returns Σ (ltp − close) × quantity.
func TodaysPNL(holdings []Holding) float64 {
	var sum float64
	for _, h := range holdings {
		sum += h.TodaysPNL()
	}
	return sum
}

// PNLPercent returns pnl as a percentage of investment, or 0 when nothing was invested.
func PNLPercent(pnl, investment float64) float64 {
	if investment == 0 {
		return 0
	}
	return pnl / investment * 100
}

// Summarize computes every aggregate from the same holdings slice.
func Summarize(holdings []Holding) Summary {
	current := CurrentValue(holdings)
	investment := TotalInvestment(holdings)
	pnl := current - investment
	return Summary{
		CurrentValue:    current,
		TotalInvestment: investment,
		TotalPNL:        pnl,
		TodaysPNL:       TodaysPNL(holdings),
		TotalPNLPercent: PNLPercent(pnl, investment),
	}
}

// finiteOrNil lets JSON carry an overflowed figure as null instead of
// failing the whole document.
func finiteOrNil(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// MarshalJSON encodes NaN and infinite aggregates as null.
func (s Summary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		CurrentValue    *float64 `json:"current_value"`
		TotalInvestment *float64 `json:"total_investment"`
		TotalPNL        *float64 `json:"total_pnl"`
		TodaysPNL       *float64 `json:"todays_pnl"`
		TotalPNLPercent *float64 `json:"total_pnl_percent"`
	}{
		CurrentValue:    finiteOrNil(s.CurrentValue),
		TotalInvestment: finiteOrNil(s.TotalInvestment),
		TotalPNL:        finiteOrNil(s.TotalPNL),
		TodaysPNL:       finiteOrNil(s.TodaysPNL),
		TotalPNLPercent: finiteOrNil(s.TotalPNLPercent),
	})
}
