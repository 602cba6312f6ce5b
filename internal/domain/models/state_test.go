package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestViewStateEqual(t *testing.T) {
	assert.True(t, StateIdle.Equal(ViewState{}))
	assert.False(t, StateLoading.Equal(StateLoaded))
	assert.True(t, StateError(NetworkError(errors.New("a"))).Equal(StateError(ErrNetwork)))
	assert.False(t, StateError(ErrNetwork).Equal(StateError(ErrDecoding)))
}

func TestViewStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "error(decoding)", StateError(ErrDecoding).String())
}

func TestNewPortfolioEvent(t *testing.T) {
	at := time.Date(2025, 11, 20, 9, 15, 0, 0, time.UTC)

	ev := NewPortfolioEvent(StateError(ServerError(502)), nil, at)
	assert.Equal(t, "error", ev.State)
	assert.Equal(t, "server", ev.ErrorKind)
	assert.Equal(t, 502, ev.StatusCode)
	assert.NotNil(t, ev.Holdings)

	ev = NewPortfolioEvent(StateLoaded, []Holding{{Symbol: "A", Quantity: 1, LTP: 100, AvgPrice: 90, Close: 95}}, at)
	assert.Equal(t, "loaded", ev.State)
	assert.Empty(t, ev.ErrorKind)
	assert.InDelta(t, 10.0, ev.Summary.TotalPNL, 1e-9)
}
