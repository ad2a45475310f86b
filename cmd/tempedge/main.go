package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/i474232898/tempedge/internal/config"
	"github.com/i474232898/tempedge/internal/logging"
	"github.com/i474232898/tempedge/internal/store"
	"github.com/i474232898/tempedge/internal/weather"
	"github.com/i474232898/tempedge/internal/weather/providers"
)

const appName = "tempedge"

const usageText = `Usage: tempedge <command> [flags]

Commands:
  scan       METAR trading report with the reconstructed max/min
  highlow    NWS high/low and settlement prediction
  forecast   weighted model forecast for today
  schedule   typical settlement times and readiness
  resolve    Fahrenheit values behind whole-degree Celsius readings
  watch      rescan periodically and serve the latest reports over HTTP

Run "tempedge <command> --help" for command flags.
`

// app carries the wiring every command shares.
type app struct {
	cfg     *config.AppConfig
	logger  *slog.Logger
	out     io.Writer
	service *weather.Service
	store   *store.MemoryStore
}

func newApp(cfg *config.AppConfig, logger *slog.Logger, out io.Writer) *app {
	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// In-memory store with configured retention.
	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)

	sources := weather.Sources{
		Metars:       providers.NewAviationWeatherProvider(httpClient, cfg.AviationWeatherURL),
		Observations: providers.NewNWSProvider(httpClient, cfg.NWSURL, cfg.NWSUserAgent),
		Forecasts:    providers.NewOpenMeteoProvider(httpClient, cfg.OpenMeteoURL),
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		out:     out,
		service: weather.NewService(sources, logger, weather.WithStore(memStore)),
		store:   memStore,
	}
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usageText)
		os.Exit(2)
	}
	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "-h", "--help", "help":
		fmt.Fprint(os.Stdout, usageText)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(os.Stderr, cfg, appName)
	a := newApp(cfg, logger, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.run(ctx, cmd, args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		logger.Error("command failed", "command", cmd, "err", err)
		stop()
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "scan":
		return a.scan(ctx, args)
	case "highlow":
		return a.highLow(ctx, args)
	case "forecast":
		return a.forecast(ctx, args)
	case "schedule":
		return a.schedule(ctx, args)
	case "resolve":
		return a.resolve(args)
	case "watch":
		return a.watch(ctx, args)
	default:
		return fmt.Errorf("unknown command %q\n\n%s", cmd, usageText)
	}
}
