package transport

import (
	"context"

	"StockPull/internal/domain/models"
	drepo "StockPull/internal/domain/repository"
	xhttp "StockPull/pkg/http"
)

// HTTPTransport implements Transport over pkg/http. Every failure,
// including non-2xx statuses, surfaces as a network AppError; the status
// code stays reachable through errors.As(err, **xhttp.StatusError).
type HTTPTransport struct {
	client *xhttp.Client
}

// New creates an HTTP transport.
func New(client *xhttp.Client) drepo.Transport {
	return &HTTPTransport{client: client}
}

// Fetch performs a single GET.
func (t *HTTPTransport) Fetch(ctx context.Context, url string) ([]byte, error) {
	data, err := t.client.Fetch(ctx, url)
	if err != nil {
		return nil, models.NetworkError(err)
	}
	return data, nil
}
