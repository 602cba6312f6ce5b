package models

// Holding is one portfolio position as reported by the portfolio endpoint.
// Holdings carry no identity beyond Symbol; a fetch replaces the whole list.
type Holding struct {
	Symbol   string  `json:"symbol"`
	Quantity int     `json:"quantity"`
	LTP      float64 `json:"ltp"`
	AvgPrice float64 `json:"avg_price"`
	Close    float64 `json:"close"`
}

// CurrentValue is the position valued at the last traded price.
func (h Holding) CurrentValue() float64 {
	return h.LTP * float64(h.Quantity)
}

// Investment is the cost basis of the position.
func (h Holding) Investment() float64 {
	return h.AvgPrice * float64(h.Quantity)
}

// PNL is the unrealised profit or loss against the average price.
func (h Holding) PNL() float64 {
	return (h.LTP - h.AvgPrice) * float64(h.Quantity)
}

// TodaysPNL is the change against the previous close.
func (h Holding) TodaysPNL() float64 {
	return (h.LTP - h.Close) * float64(h.Quantity)
}

// PortfolioEnvelope mirrors the remote payload: {"data": {"user_holding": [...]}}.
type PortfolioEnvelope struct {
	Data *PortfolioData `json:"data" validate:"required"`
}

// PortfolioData is the inner object of PortfolioEnvelope.
type PortfolioData struct {
	UserHolding []HoldingRecord `json:"user_holding" validate:"required,dive"`
}

// HoldingRecord is the wire shape of a holding. Pointer fields let the
// decoder tell a missing or null key apart from a zero value.
type HoldingRecord struct {
	Symbol   *string  `json:"symbol" validate:"required"`
	Quantity *int     `json:"quantity" validate:"required"`
	LTP      *float64 `json:"ltp" validate:"required"`
	AvgPrice *float64 `json:"avg_price" validate:"required"`
	Close    *float64 `json:"close" validate:"required"`
}

// Holding converts a validated record. Callers must validate first.
func (r HoldingRecord) Holding() Holding {
	return Holding{
		Symbol:   *r.Symbol,
		Quantity: *r.Quantity,
		LTP:      *r.LTP,
		AvgPrice: *r.AvgPrice,
		Close:    *r.Close,
	}
}
