package models

import "encoding/json"

// Requests and views for the portfolio HTTP endpoints.

type SummaryRequest struct {
	Precision int `query:"precision" json:"precision" default:"2" validate:"gte=0,lte=6"`
}

type HoldingView struct {
	Symbol       string  `json:"symbol"`
	Quantity     int     `json:"quantity"`
	LTP          float64 `json:"ltp"`
	AvgPrice     float64 `json:"avg_price"`
	Close        float64 `json:"close"`
	CurrentValue float64 `json:"current_value"`
	Investment   float64 `json:"investment"`
	PNL          float64 `json:"pnl"`
	TodaysPNL    float64 `json:"todays_pnl"`
}

// NewHoldingView copies h and adds its per-position figures.
func NewHoldingView(h Holding) HoldingView {
	return HoldingView{
		Symbol:       h.Symbol,
		Quantity:     h.Quantity,
		LTP:          h.LTP,
		AvgPrice:     h.AvgPrice,
		Close:        h.Close,
		CurrentValue: h.CurrentValue(),
		Investment:   h.Investment(),
		PNL:          h.PNL(),
		TodaysPNL:    h.TodaysPNL(),
	}
}

// MarshalJSON encodes overflowed per-position figures as null.
func (v HoldingView) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Symbol       string   `json:"symbol"`
		Quantity     int      `json:"quantity"`
		LTP          float64  `json:"ltp"`
		AvgPrice     float64  `json:"avg_price"`
		Close        float64  `json:"close"`
		CurrentValue *float64 `json:"current_value"`
		Investment   *float64 `json:"investment"`
		PNL          *float64 `json:"pnl"`
		TodaysPNL    *float64 `json:"todays_pnl"`
	}{
		Symbol:       v.Symbol,
		Quantity:     v.Quantity,
		LTP:          v.LTP,
		AvgPrice:     v.AvgPrice,
		Close:        v.Close,
		CurrentValue: finiteOrNil(v.CurrentValue),
		Investment:   finiteOrNil(v.Investment),
		PNL:          finiteOrNil(v.PNL),
		TodaysPNL:    finiteOrNil(v.TodaysPNL),
	})
}

type HoldingsView struct {
	State    string        `json:"state"`
	Holdings []HoldingView `json:"holdings"`
}

type SummaryDisplay struct {
	CurrentValue    string `json:"current_value"`
	TotalInvestment string `json:"total_investment"`
	TotalPNL        string `json:"total_pnl"`
	TodaysPNL       string `json:"todays_pnl"`
	TotalPNLPercent string `json:"total_pnl_percent"`
}

type SummaryView struct {
	State    string         `json:"state"`
	Currency string         `json:"currency"`
	Summary  Summary        `json:"summary"`
	Display  SummaryDisplay `json:"display"`
}

type StateView struct {
	State      string `json:"state"`
	ErrorKind  string `json:"error_kind,omitempty"`
	Error      string `json:"error,omitempty"`
	StatusCode int    `json:"status_code,omitempty"`
	Holdings   int    `json:"holdings"`
}

// NewStateView describes state for the state endpoint.
func NewStateView(state ViewState, holdings int) StateView {
	v := StateView{State: state.Phase.String(), Holdings: holdings}
	if state.Err != nil {
		v.ErrorKind = state.Err.Kind.String()
		v.Error = state.Err.Error()
		v.StatusCode = state.Err.StatusCode
	}
	return v
}
