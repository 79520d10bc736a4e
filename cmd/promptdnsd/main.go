package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/promptdns/promptdns/internal/dns/common/clock"
	"github.com/promptdns/promptdns/internal/dns/common/log"
	"github.com/promptdns/promptdns/internal/dns/config"
	"github.com/promptdns/promptdns/internal/dns/gateways/llm"
	"github.com/promptdns/promptdns/internal/dns/gateways/transport"
	"github.com/promptdns/promptdns/internal/dns/gateways/wire"
	"github.com/promptdns/promptdns/internal/dns/repos/ratelimit"
	"github.com/promptdns/promptdns/internal/dns/services/resolver"
)

const (
	// Version information
	version = "0.1.0-dev"
	appName = "promptdnsd"

	// Default timeouts
	defaultShutdownTimeout = 10 * time.Second
)

// Application holds all the components of the DNS server.
type Application struct {
	config     *config.AppConfig
	transports []transport.ServerTransport
	resolver   *resolver.Resolver
}

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	// Configure global logging
	if err := log.Configure(cfg.Env, cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Logging configuration error: %v\n", err)
		os.Exit(1)
	}

	log.Info(map[string]any{
		"version":   version,
		"env":       cfg.Env,
		"log_level": cfg.LogLevel,
		"port":      cfg.Port,
		"provider":  cfg.Provider,
		"max_chars": cfg.MaxChars,
		"auth":      cfg.RequireAPIKey,
	}, "Starting promptdns server")

	app, err := buildApplication(cfg)
	if err != nil {
		log.Fatal(map[string]any{"error": err}, "Failed to build application")
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Info(map[string]any{"signal": sig.String()}, "Shutdown signal received")
		cancel()
	}()

	if err := app.Run(ctx); err != nil {
		log.Fatal(map[string]any{"error": err}, "Server failed")
	}

	log.Info(nil, "promptdns server stopped gracefully")
}

// buildApplication constructs all components and wires them together.
func buildApplication(cfg *config.AppConfig) (*Application, error) {
	logger := log.GetLogger()

	codec := wire.NewCodec(logger)

	limiter, err := buildLimiter(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build rate limiter: %w", err)
	}

	provider, err := llm.New(llm.Options{
		Provider:        cfg.Provider,
		Model:           cfg.Model,
		Timeout:         time.Duration(cfg.QueryTimeout) * time.Second,
		OpenAIAPIKey:    cfg.OpenAIAPIKey,
		AnthropicAPIKey: cfg.AnthropicAPIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build answer provider: %w", err)
	}

	log.Info(map[string]any{
		"provider": cfg.Provider,
		"timeout":  cfg.QueryTimeout,
	}, "Answer provider configured")

	resolverService := resolver.NewResolver(resolver.Options{
		Provider:         provider,
		Limiter:          limiter,
		Logger:           logger,
		RequireAccessKey: cfg.RequireAPIKey,
		AccessKey:        cfg.APIKey,
		MaxChars:         cfg.MaxChars,
		ChunkBytes:       cfg.ChunkBytes,
		QueryTimeout:     time.Duration(cfg.QueryTimeout) * time.Second,
	})

	// UDP for ordinary queries, TCP on the same port for large answers.
	addr := fmt.Sprintf(":%d", cfg.Port)
	var transports []transport.ServerTransport
	for _, tt := range transport.SupportedTransports() {
		tr, err := transport.NewTransport(tt, addr, codec, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to build %s transport: %w", tt, err)
		}
		transports = append(transports, tr)
	}

	return &Application{
		config:     cfg,
		transports: transports,
		resolver:   resolverService,
	}, nil
}

// buildLimiter creates the per-client rate limiter, or nil when disabled.
func buildLimiter(cfg *config.AppConfig) (resolver.RateLimiter, error) {
	if cfg.RateLimit <= 0 {
		return nil, nil
	}
	limiter, err := ratelimit.New(cfg.RateLimit, cfg.RateBurst, ratelimit.DefaultCacheSize, clock.RealClock{})
	if err != nil {
		return nil, err
	}
	log.Info(map[string]any{
		"rate":  cfg.RateLimit,
		"burst": cfg.RateBurst,
	}, "Per-client rate limiting enabled")
	return limiter, nil
}

// Run starts all transports and blocks until the context is cancelled.
func (app *Application) Run(ctx context.Context) error {
	for _, tr := range app.transports {
		if err := tr.Start(ctx, app.resolver); err != nil {
			return fmt.Errorf("failed to start transport on %s: %w", tr.Address(), err)
		}
	}

	log.Info(map[string]any{
		"address":    app.transports[0].Address(),
		"transports": len(app.transports),
	}, "DNS server started")

	<-ctx.Done()

	log.Info(nil, "Shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()

	done := make(chan struct{})
	go func() {
		for _, tr := range app.transports {
			if err := tr.Stop(); err != nil {
				log.Warn(map[string]any{
					"address": tr.Address(),
					"error":   err,
				}, "Error during transport shutdown")
			}
		}
		close(done)
	}()

	select {
	case <-done:
		log.Info(nil, "Graceful shutdown completed")
		return nil
	case <-shutdownCtx.Done():
		log.Warn(map[string]any{"timeout": defaultShutdownTimeout}, "Shutdown timeout exceeded")
		return fmt.Errorf("shutdown timeout")
	}
}
