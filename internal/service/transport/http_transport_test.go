package transport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"StockPull/internal/domain/models"
	xhttp "StockPull/pkg/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("payload"))
	}))
	defer server.Close()

	got, err := New(xhttp.NewClient()).Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(got))
}

func TestFetchServerStatusIsNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := New(xhttp.NewClient()).Fetch(context.Background(), server.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrNetwork)

	var se *xhttp.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusServiceUnavailable, se.StatusCode)
}

func TestFetchUnreachableIsNetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := New(xhttp.NewClient()).Fetch(context.Background(), url)
	assert.ErrorIs(t, err, models.ErrNetwork)
	assert.NotErrorIs(t, err, models.ErrDecoding)
}
