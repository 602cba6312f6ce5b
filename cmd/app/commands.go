package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"StockPull/internal/di"
	"StockPull/internal/domain/models"
	"StockPull/internal/usecase"
	"StockPull/pkg/config"
	"StockPull/pkg/format"
	"StockPull/pkg/server"

	"github.com/google/subcommands"
)

// Commands lists every subcommand of the binary.
var Commands = []subcommands.Command{
	&serveCmd{},
	&holdingsCmd{},
	&summaryCmd{},
}

// appFlags are shared by every subcommand.
type appFlags struct {
	configPath string
}

func (a *appFlags) register(f *flag.FlagSet) {
	f.StringVar(&a.configPath, "config", "config/config.yaml", "config file path (empty for defaults)")
}

// build loads the configuration and wires the application.
func (a *appFlags) build() (*config.Config, *server.App, func(), error) {
	cfg, err := config.LoadWithEnv(a.configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("config load failed: %w", err)
	}
	app, cleanup, err := di.InitializeApp(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("app initialization failed: %w", err)
	}
	return cfg, app, cleanup, nil
}

type serveCmd struct {
	appFlags
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the portfolio API" }
func (*serveCmd) Usage() string {
	return `serve [-config <path>]

  Loads the portfolio and serves it over HTTP and WebSocket until interrupted.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) { c.register(f) }

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	_, app, cleanup, err := c.build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	defer cleanup()

	if err := app.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type holdingsCmd struct {
	appFlags
}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "print the portfolio holdings" }
func (*holdingsCmd) Usage() string {
	return `holdings [-config <path>]

  Loads the portfolio once and prints one row per holding.
`
}

func (c *holdingsCmd) SetFlags(f *flag.FlagSet) { c.register(f) }

func (c *holdingsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runOnce(ctx, c.appFlags, func(w io.Writer, cfg *config.Config, s usecase.Snapshot) {
		printHoldings(w, cfg.Portfolio.Currency, s.Holdings)
	})
}

type summaryCmd struct {
	appFlags
	precision int
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "print the portfolio summary" }
func (*summaryCmd) Usage() string {
	return `summary [-config <path>] [-p <digits>]

  Loads the portfolio once and prints its value and profit and loss.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	c.register(f)
	f.IntVar(&c.precision, "p", 2, "digits after the decimal point of the percentage")
}

func (c *summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runOnce(ctx, c.appFlags, func(w io.Writer, cfg *config.Config, s usecase.Snapshot) {
		printSummary(w, cfg.Portfolio.Currency, c.precision, s.Summary())
	})
}

// runOnce performs a single load and renders the resulting snapshot.
func runOnce(ctx context.Context, flags appFlags, render func(io.Writer, *config.Config, usecase.Snapshot)) subcommands.ExitStatus {
	cfg, app, cleanup, err := flags.build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	defer cleanup()

	snap, loadErr := app.LoadOnce(ctx)
	if err := app.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	if loadErr != nil || snap.State.Phase == models.PhaseError {
		fmt.Fprintf(os.Stderr, "Error: %s\n", snap.State)
		return subcommands.ExitFailure
	}

	render(os.Stdout, cfg, snap)
	return subcommands.ExitSuccess
}

func printHoldings(out io.Writer, currency string, holdings []models.Holding) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "SYMBOL\tQTY\tLTP\tAVG\tVALUE\tP&L\t")
	for _, h := range holdings {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\t\n",
			h.Symbol,
			h.Quantity,
			format.Money(h.LTP, currency),
			format.Money(h.AvgPrice, currency),
			format.Money(h.CurrentValue(), currency),
			format.SignedMoney(h.PNL(), currency),
		)
	}
	w.Flush()
}

func printSummary(out io.Writer, currency string, precision int, s models.Summary) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Current value:\t%s\n", format.Money(s.CurrentValue, currency))
	fmt.Fprintf(w, "Total investment:\t%s\n", format.Money(s.TotalInvestment, currency))
	fmt.Fprintf(w, "Today's profit & loss:\t%s\n", format.SignedMoney(s.TodaysPNL, currency))
	fmt.Fprintf(w, "Profit & loss:\t%s (%s)\n", format.SignedMoney(s.TotalPNL, currency), format.Percent(s.TotalPNLPercent, precision))
	w.Flush()
}
