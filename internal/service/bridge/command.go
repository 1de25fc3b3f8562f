package bridge

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sentra-home/sentra-bridge/internal/accessory"
	"github.com/sentra-home/sentra-bridge/internal/config"
	"github.com/sentra-home/sentra-bridge/internal/logger"
	"github.com/sentra-home/sentra-bridge/internal/metrics"
	"github.com/sentra-home/sentra-bridge/internal/notify"
	"github.com/sentra-home/sentra-bridge/internal/sentra"
)

// Options controls the bridge process and configuration.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// MetricsAddress provides an optional metrics listen override.
	MetricsAddress string
}

// metricsReadHeaderTimeout bounds header reads on the scrape listener.
const metricsReadHeaderTimeout = 5 * time.Second

// Run starts the bridge and blocks until the context is canceled.
// Loads configuration first, then connects, seeds the cache and serves
// until shutdown.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "sentra-bridge")

	// Load settings from configuration file.
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	// Command line argument overrides config.
	metricsAddress := cfg.MetricsAddress
	if opts.MetricsAddress != "" {
		metricsAddress = opts.MetricsAddress
	}

	// Vendor cloud client with credentials from configuration.
	vendor, err := sentra.NewClient(cfg.BaseURL, cfg.Username, cfg.Password,
		sentra.WithCallTimeout(cfg.CallTimeout))
	if err != nil {
		return fmt.Errorf("create vendor client: %w", err)
	}

	recorder := metrics.NewRecorder(nil)

	// Optional message bus publisher.
	var publisher *notify.Publisher
	if cfg.NATSURL != "" {
		publisher, err = notify.NewPublisher(cfg.NATSURL, cfg.NATSSubject, cfg.Name)
		if err != nil {
			return fmt.Errorf("create state publisher: %w", err)
		}

		defer publisher.Close()
	}

	svc := NewService(cfg, vendor, recorder, publisher)

	// Startup login failure is terminal for the instance.
	if err := svc.Start(ctx); err != nil {
		return err
	}

	defer svc.Close()

	// Accessory translation layer on top of the engine.
	translator := accessory.NewTranslator(cfg.Name, svc)
	translator.Attach(ctx)

	defer translator.Detach()

	logger.InfoKV(ctx, "Bridge running",
		"name", cfg.Name,
		"cache_ttl", cfg.CacheTTL.String(),
		"metrics_addr", metricsAddress)

	// Optional Prometheus listener.
	if metricsAddress != "" {
		if err := serveMetrics(ctx, metricsAddress, recorder); err != nil {
			return err
		}

		return nil
	}

	<-ctx.Done()
	logger.Info(ctx, "Context canceled, exiting")

	return nil
}

// serveMetrics exposes the scrape endpoint and blocks until shutdown.
func serveMetrics(ctx context.Context, address string, recorder *metrics.Recorder) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", recorder.Handler())

	server := &http.Server{
		Addr:              address,
		Handler:           mux,
		ReadHeaderTimeout: metricsReadHeaderTimeout,
	}

	// Done channel is closed after Shutdown finishes to ensure we block
	// until the listener fully stops before returning.
	done := make(chan struct{})

	go func() {
		<-ctx.Done()
		logger.Info(ctx, "Shutting down metrics listener")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsReadHeaderTimeout)
		defer cancel()

		_ = server.Shutdown(shutdownCtx)
		close(done)
	}()

	logger.InfoKV(ctx, "Metrics listener started", "address", address)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve metrics: %w", err)
	}

	<-done
	logger.Info(ctx, "Metrics listener stopped")

	return nil
}
