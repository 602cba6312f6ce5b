package api

import (
	"errors"

	"StockPull/internal/domain/models"
	xhttp "StockPull/pkg/http"
	"StockPull/pkg/queue"
)

// domainError converts a load failure to its HTTP form. Upstream failures
// map to 502; anything unclassified maps to 500.
func domainError(err error) *xhttp.AppError {
	if errors.Is(err, queue.ErrClosed) {
		return xhttp.Unavailable("ERR_UNAVAILABLE", "service is shutting down").WithError(err)
	}

	appErr := models.MapError(err)
	var out *xhttp.AppError
	switch appErr.Kind {
	case models.KindNetwork:
		out = xhttp.BadGateway("ERR_NETWORK", "portfolio endpoint unreachable")
	case models.KindDecoding:
		out = xhttp.BadGateway("ERR_DECODING", "portfolio payload could not be decoded")
	case models.KindServer:
		out = xhttp.BadGateway("ERR_UPSTREAM_STATUS", "portfolio endpoint returned an error").
			WithParam("status_code", appErr.StatusCode)
	case models.KindNoData:
		out = xhttp.NotFound("ERR_NO_DATA", "no portfolio data")
	default:
		out = xhttp.Internal()
	}
	return out.WithError(err)
}
