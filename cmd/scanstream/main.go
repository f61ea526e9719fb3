// Package main implements the entry point for the ScanStream service.
// ScanStream reconstructs barcode scans from keyboard-wedge keystroke
// streams, decodes them as GS1 element strings, and publishes the
// results to NATS.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"golang.org/x/sync/errgroup"

	"github.com/c360/scanstream/config"
	gatewayhttp "github.com/c360/scanstream/gateway/http"
	"github.com/c360/scanstream/gs1"
	"github.com/c360/scanstream/health"
	"github.com/c360/scanstream/input/websocket"
	"github.com/c360/scanstream/metric"
	"github.com/c360/scanstream/natsclient"
	"github.com/c360/scanstream/output/natspub"
	"github.com/c360/scanstream/scanlog"
	"github.com/c360/scanstream/vocabulary"
)

// Build information constants
const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "scanstream"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	// Run application with proper error handling
	if err := run(); err != nil {
		slog.Error("Application failed", "error", err, "exit_code", 1)
		os.Exit(1)
	}
}

func run() error {
	// Parse and validate CLI flags
	cliCfg, logger, shouldExit, err := initializeCLI()
	if shouldExit || err != nil {
		return err
	}

	// Load and validate configuration
	cfg, err := initializeConfiguration(cliCfg)
	if err != nil {
		return err
	}

	if cliCfg.Validate {
		slog.Info("Configuration is valid")
		return nil
	}

	if err := loadVocabularyOverlay(cfg); err != nil {
		return err
	}

	// Setup core infrastructure
	ctx := context.Background()
	registry, natsClient, err := setupInfrastructure(ctx, cfg)
	if err != nil {
		return err
	}

	// Track component health for the gateway and the health gauge
	monitor := health.NewMonitor(registry.CoreMetrics())
	if natsClient != nil {
		monitor.UpdateHealthy("natsclient", "connected")
		natsClient.OnHealthChange(func(healthy bool) {
			if healthy {
				monitor.UpdateHealthy("natsclient", "connected")
			} else {
				monitor.UpdateUnhealthy("natsclient", "connection lost")
			}
		})
	}

	// Build the scan pipeline services
	svcs, err := buildPipeline(cfg, natsClient, registry, monitor, logger)
	if err != nil {
		return err
	}

	// Run application with signal handling
	return runWithSignalHandling(ctx, svcs, natsClient, monitor, cliCfg.ShutdownTimeout)
}

// initializeCLI parses flags and sets up logging
func initializeCLI() (*CLIConfig, *slog.Logger, bool, error) {
	cliCfg := parseFlags()
	if err := validateFlags(cliCfg); err != nil {
		return nil, nil, false, fmt.Errorf("invalid flags: %w", err)
	}

	if cliCfg.ShowVersion {
		fmt.Printf("%s version %s\n", appName, Version)
		return nil, nil, true, nil
	}

	if cliCfg.ShowHelp {
		printDetailedHelp()
		return nil, nil, true, nil
	}

	logger := setupLogger(cliCfg.LogLevel, cliCfg.LogFormat)
	slog.SetDefault(logger)

	slog.Info("Starting ScanStream (keystroke to GS1 pipeline)",
		"version", Version,
		"build_time", BuildTime,
		"config_path", cliCfg.ConfigPath)

	return cliCfg, logger, false, nil
}

// initializeConfiguration loads and validates configuration
func initializeConfiguration(cliCfg *CLIConfig) (*config.Config, error) {
	loader := config.NewLoader()
	cfg, err := loader.LoadFile(cliCfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// loadVocabularyOverlay applies the optional AI definition overlay file
func loadVocabularyOverlay(cfg *config.Config) error {
	if cfg.Vocabulary.OverlayPath == "" {
		return nil
	}

	count, err := vocabulary.LoadOverlay(cfg.Vocabulary.OverlayPath)
	if err != nil {
		return fmt.Errorf("load vocabulary overlay: %w", err)
	}

	slog.Info("Vocabulary overlay loaded",
		"path", cfg.Vocabulary.OverlayPath,
		"definitions", count)
	return nil
}

// setupInfrastructure creates the metrics registry and, when enabled,
// the connected NATS client. A nil client means local-only operation.
func setupInfrastructure(ctx context.Context, cfg *config.Config) (*metric.MetricsRegistry, *natsclient.Client, error) {
	registry := metric.NewMetricsRegistry()

	if !cfg.NATS.Enabled {
		slog.Info("NATS publishing disabled, decoded scans stay local")
		return registry, nil, nil
	}

	natsClient, err := createNATSClient(cfg, registry)
	if err != nil {
		return nil, nil, fmt.Errorf("create NATS client: %w", err)
	}

	if err := connectToNATS(ctx, natsClient); err != nil {
		return nil, nil, err
	}

	return registry, natsClient, nil
}

// createNATSClient builds the NATS client from configuration
func createNATSClient(cfg *config.Config, registry *metric.MetricsRegistry) (*natsclient.Client, error) {
	natsURL := "nats://localhost:4222"

	// Environment variable override takes precedence
	if envURL := os.Getenv("SCANSTREAM_NATS_URLS"); envURL != "" {
		natsURL = envURL
	} else if len(cfg.NATS.URLs) > 0 {
		natsURL = cfg.NATS.URLs[0]
	}

	opts := []natsclient.ClientOption{
		natsclient.WithMaxReconnects(cfg.NATS.MaxReconnects),
		natsclient.WithName(appName + "-" + cfg.GetPlatform()),
		natsclient.WithMetrics(registry.CoreMetrics()),
	}
	if cfg.NATS.ReconnectWait > 0 {
		opts = append(opts, natsclient.WithReconnectWait(cfg.NATS.ReconnectWait.Std()))
	}
	if cfg.NATS.Username != "" {
		opts = append(opts, natsclient.WithCredentials(cfg.NATS.Username, cfg.NATS.Password))
	}
	if cfg.NATS.Token != "" {
		opts = append(opts, natsclient.WithToken(cfg.NATS.Token))
	}

	return natsclient.NewClient(natsURL, opts...)
}

// connectToNATS establishes NATS connection and waits for it to be ready
func connectToNATS(ctx context.Context, natsClient *natsclient.Client) error {
	slog.Info("Connecting to NATS", "url", natsClient.URL())
	if err := natsClient.Connect(ctx); err != nil {
		return fmt.Errorf("connect to NATS: %w", err)
	}

	connCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := natsClient.WaitForConnection(connCtx); err != nil {
		return fmt.Errorf("NATS connection timeout: %w", err)
	}

	return nil
}

// services holds the pipeline services built from configuration. Any of
// them may be nil when the corresponding section is disabled.
type services struct {
	publisher *natspub.Publisher
	feed      *websocket.Feed
	gateway   *gatewayhttp.Gateway
	metrics   *metric.Server
}

// buildPipeline wires the publisher, feed, gateway, and metrics server
func buildPipeline(
	cfg *config.Config,
	natsClient *natsclient.Client,
	registry *metric.MetricsRegistry,
	monitor *health.Monitor,
	logger *slog.Logger,
) (*services, error) {
	platform := cfg.GetPlatform()

	var nc *nats.Conn
	if natsClient != nil {
		nc = natsClient.Conn()
	}

	svcs := &services{}
	var sink websocket.EventSink

	if natsClient != nil {
		pub, err := natspub.New(platform, natsClient, registry,
			natspub.WithLogger(scanlog.NewLogger("natspub-output", platform, nc, logger)))
		if err != nil {
			return nil, fmt.Errorf("create publisher: %w", err)
		}
		svcs.publisher = pub
		sink = pub
		slog.Info("Publisher configured",
			"decoded_subject", pub.DecodedSubject(),
			"rejected_subject", pub.RejectedSubject())
	} else {
		sink = &logSink{logger: logger}
	}

	if cfg.Feed.Enabled {
		feed, err := websocket.NewFeed(cfg.Feed, cfg.Scan, sink, registry,
			scanlog.NewLogger("websocket-feed", platform, nc, logger))
		if err != nil {
			return nil, fmt.Errorf("create feed: %w", err)
		}
		svcs.feed = feed
	} else {
		slog.Info("Feed disabled in config")
	}

	if cfg.Gateway.Enabled {
		opts := []gatewayhttp.Option{
			gatewayhttp.WithCoreMetrics(registry.CoreMetrics()),
			gatewayhttp.WithHealthMonitor(monitor),
			gatewayhttp.WithLogger(scanlog.NewLogger("http-gateway", platform, nc, logger)),
		}
		if natsClient != nil {
			opts = append(opts, gatewayhttp.WithHealthSource(natsClient))
		}

		gw, err := gatewayhttp.NewGateway(cfg.Gateway.Port, opts...)
		if err != nil {
			return nil, fmt.Errorf("create gateway: %w", err)
		}
		svcs.gateway = gw
	} else {
		slog.Info("Gateway disabled in config")
	}

	if cfg.Metrics.Enabled {
		svcs.metrics = metric.NewServer(cfg.Metrics.Port, cfg.Metrics.Path, registry)
	}

	return svcs, nil
}

// runWithSignalHandling starts services and handles shutdown signals
func runWithSignalHandling(
	ctx context.Context,
	svcs *services,
	natsClient *natsclient.Client,
	monitor *health.Monitor,
	shutdownTimeout time.Duration,
) error {
	signalCtx, signalCancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer signalCancel()

	if svcs.publisher != nil {
		if err := svcs.publisher.Start(signalCtx); err != nil {
			return fmt.Errorf("start publisher: %w", err)
		}
		monitor.UpdateHealthy("natspub-output", "publishing")
	}
	if svcs.feed != nil {
		if err := svcs.feed.Start(signalCtx); err != nil {
			return fmt.Errorf("start feed: %w", err)
		}
		monitor.UpdateHealthy("websocket-feed", "listening")
	}

	// Blocking servers run under the group; the first failure cancels
	// the group context and triggers shutdown.
	g, gctx := errgroup.WithContext(signalCtx)
	if svcs.gateway != nil {
		gateway := svcs.gateway
		g.Go(func() error {
			return gateway.Start(gctx)
		})
	}
	if svcs.metrics != nil {
		metricsServer := svcs.metrics
		g.Go(func() error {
			return metricsServer.Start()
		})
		slog.Info("Metrics server starting", "address", svcs.metrics.Address())
	}

	slog.Info("ScanStream started successfully")

	<-gctx.Done()
	slog.Info("Received shutdown signal")

	shutdownErr := shutdown(svcs, natsClient, shutdownTimeout)

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	if shutdownErr != nil {
		return fmt.Errorf("graceful shutdown failed: %w", shutdownErr)
	}

	slog.Info("ScanStream shutdown complete")
	return nil
}

// shutdown stops services in dependency order: the feed first so no new
// scans arrive, then the publisher so queued events flush, then the
// HTTP surfaces, then the NATS connection.
func shutdown(svcs *services, natsClient *natsclient.Client, timeout time.Duration) error {
	var errs []error

	if svcs.feed != nil {
		if err := svcs.feed.Stop(timeout); err != nil {
			errs = append(errs, fmt.Errorf("stop feed: %w", err))
		}
	}
	if svcs.publisher != nil {
		if err := svcs.publisher.Stop(timeout); err != nil {
			errs = append(errs, fmt.Errorf("stop publisher: %w", err))
		}
	}
	if svcs.gateway != nil {
		if err := svcs.gateway.Stop(timeout); err != nil {
			errs = append(errs, fmt.Errorf("stop gateway: %w", err))
		}
	}
	if svcs.metrics != nil {
		if err := svcs.metrics.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop metrics server: %w", err))
		}
	}
	if natsClient != nil {
		closeCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := natsClient.Close(closeCtx); err != nil {
			errs = append(errs, fmt.Errorf("close NATS client: %w", err))
		}
	}

	return errors.Join(errs...)
}

// logSink receives completed scans when NATS publishing is disabled.
// Scans are logged instead of published.
type logSink struct {
	logger *slog.Logger
}

func (s *logSink) PublishScan(surface, _, display string, data *gs1.ParsedData) (string, error) {
	id := uuid.NewString()
	s.logger.Info("Scan completed",
		"surface", surface,
		"id", id,
		"display", display,
		"gs1_valid", data != nil && data.Valid)
	return id, nil
}

func (s *logSink) PublishRejected(surface, _, reason string) error {
	s.logger.Warn("Scan rejected", "surface", surface, "reason", reason)
	return nil
}
