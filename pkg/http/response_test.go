package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext() (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	return echo.New().NewContext(req, rec), rec
}

func TestFailRendersAppError(t *testing.T) {
	c, rec := newContext()
	err := BadGateway("ERR_NETWORK", "portfolio endpoint unreachable").WithError(errors.New("dial tcp: refused"))
	require.NoError(t, Fail(c, err))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	var body struct {
		Status int `json:"status"`
		Data   []struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusBadGateway, body.Status)
	require.Len(t, body.Data, 1)
	assert.Equal(t, "ERR_NETWORK", body.Data[0].Code)
	assert.NotContains(t, rec.Body.String(), "refused", "wrapped causes stay server side")
}

func TestFailSetsRetryAfter(t *testing.T) {
	c, rec := newContext()
	require.NoError(t, Fail(c, TooManyRequests("slow down", 1500*time.Millisecond)))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("Retry-After"))
}

func TestFailUnknownErrorIs500(t *testing.T) {
	c, rec := newContext()
	require.NoError(t, Fail(c, errors.New("boom")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_INTERNAL")
}
