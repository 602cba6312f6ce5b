package api

import (
	"context"
	"time"

	"StockPull/internal/domain/models"
	"StockPull/internal/service/ratelimit"
	"StockPull/internal/usecase"
	"StockPull/pkg/format"
	xhttp "StockPull/pkg/http"
	xlogger "StockPull/pkg/logger"

	"github.com/labstack/echo/v4"
)

// PortfolioEchoHandler exposes the portfolio view-model over HTTP.
type PortfolioEchoHandler struct {
	logger   *xlogger.Logger
	vm       *usecase.PortfolioViewModel
	limiter  *ratelimit.Limiter
	stream   *PortfolioStream
	currency string
}

func NewPortfolioEchoHandler(
	logger *xlogger.Logger,
	vm *usecase.PortfolioViewModel,
	limiter *ratelimit.Limiter,
	stream *PortfolioStream,
	currency string,
) *PortfolioEchoHandler {
	return &PortfolioEchoHandler{logger: logger, vm: vm, limiter: limiter, stream: stream, currency: currency}
}

func (h *PortfolioEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/holdings", h.Holdings)
	g.GET("/summary", h.Summary)
	g.GET("/state", h.State)
	g.POST("/portfolio/load", h.Load)
	if h.stream != nil {
		g.GET("/ws", h.stream.Serve)
	}
}

func (h *PortfolioEchoHandler) Holdings(c echo.Context) error {
	s := h.vm.Snapshot()
	views := make([]models.HoldingView, len(s.Holdings))
	for i, holding := range s.Holdings {
		views[i] = models.NewHoldingView(holding)
	}
	return xhttp.OK(c, models.HoldingsView{State: s.State.String(), Holdings: views})
}

func (h *PortfolioEchoHandler) Summary(c echo.Context) error {
	req := &models.SummaryRequest{}
	if verr := xhttp.ReadAndValidateQuery(c, req, func(b *echo.ValueBinder) *echo.ValueBinder {
		return b.Int("precision", &req.Precision)
	}); verr != nil {
		return xhttp.Invalid(c, verr)
	}

	s := h.vm.Snapshot()
	return xhttp.OK(c, h.summaryView(s, int32(req.Precision)))
}

func (h *PortfolioEchoHandler) summaryView(s usecase.Snapshot, precision int32) models.SummaryView {
	sum := s.Summary()
	return models.SummaryView{
		State:    s.State.String(),
		Currency: h.currency,
		Summary: models.Summary{
			CurrentValue:    format.Round(sum.CurrentValue, precision),
			TotalInvestment: format.Round(sum.TotalInvestment, precision),
			TotalPNL:        format.Round(sum.TotalPNL, precision),
			TodaysPNL:       format.Round(sum.TodaysPNL, precision),
			TotalPNLPercent: format.Round(sum.TotalPNLPercent, precision),
		},
		Display: models.SummaryDisplay{
			CurrentValue:    format.Money(sum.CurrentValue, h.currency),
			TotalInvestment: format.Money(sum.TotalInvestment, h.currency),
			TotalPNL:        format.SignedMoney(sum.TotalPNL, h.currency),
			TodaysPNL:       format.SignedMoney(sum.TodaysPNL, h.currency),
			TotalPNLPercent: format.Percent(sum.TotalPNLPercent, int(precision)),
		},
	}
}

func (h *PortfolioEchoHandler) State(c echo.Context) error {
	s := h.vm.Snapshot()
	return xhttp.OK(c, models.NewStateView(s.State, len(s.Holdings)))
}

// Load runs one load and answers with the resulting snapshot. The fetch is
// detached from the request so a client disconnect does not abort it.
func (h *PortfolioEchoHandler) Load(c echo.Context) error {
	if h.limiter != nil && !h.limiter.Allow(c.RealIP()) {
		h.logger.Warn("portfolio load rate limited", xlogger.String("remote", c.RealIP()))
		return xhttp.Fail(c, xhttp.TooManyRequests("too many load requests", h.limiter.RetryAfter(c.RealIP())))
	}

	start := time.Now()
	if err := h.vm.Load(context.WithoutCancel(c.Request().Context())); err != nil {
		h.logger.Error("portfolio load usecase error",
			xlogger.Duration("elapsed", time.Since(start)),
			xlogger.Error(err),
		)
		return xhttp.Fail(c, domainError(err))
	}

	return xhttp.OK(c, h.vm.Snapshot().Event(time.Now().UTC()))
}
