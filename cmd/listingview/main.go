package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"listingview/internal/config"
	"listingview/internal/eventbus"
	"listingview/internal/listing"
	"listingview/internal/logging"
	"listingview/internal/metrics"
	"listingview/internal/querycodec"
	"listingview/internal/ui"
	"listingview/internal/ui/coordinator"
	"listingview/internal/ui/presenter"
	"listingview/internal/ui/services/history"
)

func main() {
	var (
		configPath string
		endpoint   string
		location   string
		mode       string
	)
	flag.StringVar(&configPath, "config", "", "Path to the config file")
	flag.StringVar(&endpoint, "endpoint", "", "Listing endpoint URL")
	flag.StringVar(&location, "q", "", "Initial query string, e.g. category=suv&page=2")
	flag.StringVar(&mode, "mode", "", "Pagination mode: numbered, loadmore or infinite")
	flag.Parse()

	configSvc := config.NewConfigService()
	if configPath != "" {
		configSvc = config.NewConfigServiceAt(configPath)
	}
	cfg, err := loadOrCreateConfig(configSvc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if endpoint != "" {
		cfg.Endpoint = endpoint
	}
	if mode != "" {
		cfg.Listing.Mode = mode
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config %s:\n%v\n", configSvc.Path(), err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error setting up logging: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, location, logger); err != nil {
		logger.Error("listingview exited with error", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
	logger.Info("UI exited normally")
}

func run(cfg *config.Config, location string, logger *zap.Logger) error {
	var recorder metrics.Recorder = metrics.Nop{}
	if cfg.Metrics.Addr != "" {
		reg := prometheus.NewRegistry()
		prom, err := metrics.NewPrometheus(reg)
		if err != nil {
			return fmt.Errorf("failed to register metrics: %w", err)
		}
		recorder = prom
		srv := serveMetrics(cfg.Metrics.Addr, reg, logger)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
	}

	client, err := listing.NewHTTPClient(cfg.Endpoint,
		listing.WithTimeout(cfg.RequestTimeout()),
		listing.WithHeaders(cfg.Headers),
		listing.WithLogger(logger.Named("http")),
	)
	if err != nil {
		return err
	}

	var limiter *rate.Limiter
	if cfg.Listing.PrefetchPerSecond > 0 {
		// numbered mode prefetches both neighbours of a page at once
		limiter = rate.NewLimiter(rate.Limit(cfg.Listing.PrefetchPerSecond), 2)
	}

	bus := eventbus.New(logger.Named("bus"))
	codec := querycodec.New(querycodec.Options{
		DefaultSort:         cfg.Listing.DefaultSort,
		DefaultItemsPerPage: cfg.Listing.ItemsPerPage,
	})

	opts := coordinator.Options{
		Codec:           codec,
		Bus:             bus,
		Mode:            cfg.Mode(),
		ItemsPerPage:    cfg.Listing.ItemsPerPage,
		DefaultSort:     cfg.Listing.DefaultSort,
		Debounce:        cfg.Debounce(),
		Prefetch:        cfg.Listing.Prefetch,
		PrefetchLimiter: limiter,
		Metrics:         recorder,
		Logger:          logger,
	}
	// A zero debounce in the file means immediate fetches
	if cfg.Listing.DebounceMS == 0 {
		opts.Debounce = -1
	}

	var hist *history.Memory
	if cfg.Listing.URLSync {
		hist = history.NewMemory(location)
		opts.History = hist
	}

	coord := coordinator.New(client, opts)
	defer coord.Close()

	if hist != nil {
		hist.OnPop(func(string) { coord.PopState() })
	}

	pres := presenter.New(coord, presenter.Options{
		MaxVisiblePages: cfg.UI.MaxVisiblePages,
		ShowJumper:      cfg.UI.ShowJumper,
		ShowInfo:        cfg.UI.ShowInfo,
		SortOptions:     presenter.SortOptionsFor(cfg.UI.SortOptions),
	})

	model := ui.NewModel(coord, pres, hist, logger)
	p := tea.NewProgram(model, tea.WithAltScreen())
	model.SetProgram(p)

	// Coordinator events arrive on fetch goroutines; hand them to the program
	eventChan := make(chan eventbus.DomainEvent, 100)
	unsubscribe := bus.SubscribeAll(func(e eventbus.DomainEvent) {
		select {
		case eventChan <- e:
		default:
			logger.Warn("event channel full, dropping event", zap.String("type", string(e.Type())))
		}
	})
	go func() {
		for event := range eventChan {
			p.Send(ui.EventMsg{Event: event})
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		if _, ok := <-sigChan; ok {
			p.Quit()
		}
	}()
	defer signal.Stop(sigChan)

	logger.Info("starting",
		zap.String("endpoint", cfg.Endpoint),
		zap.String("mode", string(cfg.Mode())),
		zap.String("location", coord.Location()))
	coord.Refresh()

	_, err = p.Run()

	// No events are published once the coordinator has drained
	coord.Close()
	unsubscribe()
	close(eventChan)
	return err
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.String("addr", addr), zap.Error(err))
		}
	}()
	return srv
}

// loadOrCreateConfig loads the config file, writing the defaults on first run
func loadOrCreateConfig(configSvc config.ConfigService) (*config.Config, error) {
	if _, err := os.Stat(configSvc.Path()); errors.Is(err, os.ErrNotExist) {
		cfg := config.DefaultConfig()
		// A read-only config dir still gets a working default
		_ = configSvc.Save(cfg)
		return cfg, nil
	}
	return configSvc.Load()
}
