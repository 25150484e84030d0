package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/luxe-salon/cmd/mainconfig"
	"github.com/wolfman30/luxe-salon/internal/api/router"
	"github.com/wolfman30/luxe-salon/internal/app/bootstrap"
	"github.com/wolfman30/luxe-salon/internal/booking"
	"github.com/wolfman30/luxe-salon/internal/catalog"
	appconfig "github.com/wolfman30/luxe-salon/internal/config"
	"github.com/wolfman30/luxe-salon/internal/contact"
	"github.com/wolfman30/luxe-salon/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/luxe-salon/internal/http/middleware"
	"github.com/wolfman30/luxe-salon/internal/notify"
	"github.com/wolfman30/luxe-salon/internal/observability/metrics"
	"github.com/wolfman30/luxe-salon/internal/payments"
	"github.com/wolfman30/luxe-salon/pkg/logging"
)

const sweepInterval = time.Minute

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting luxe-salon API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := setupApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	go app.limiter.Run(ctx, sweepInterval)
	if app.memStore != nil {
		go sweepSessions(ctx, app.memStore, logger)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      app.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	// Let in-flight confirmation emails finish.
	app.dispatcher.Wait()

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

type app struct {
	handler    http.Handler
	dispatcher *notify.AsyncDispatcher
	limiter    *httpmiddleware.RateLimiter
	memStore   *booking.InMemorySessionStore
}

func setupApp(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (*app, error) {
	rules, err := bootstrap.BuildScheduleRules(cfg)
	if err != nil {
		return nil, err
	}
	salon := bootstrap.BuildSalon(cfg)

	store, memStore, err := bootstrap.BuildSessionStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	var awsCfg *aws.Config
	if cfg.UsesAWS() {
		loaded, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		awsCfg = &loaded
	}

	metricsHandler, bookingMetrics := setupMetrics()

	dispatcher, err := bootstrap.BuildConfirmationDispatcher(cfg, awsCfg, salon, bookingMetrics, logger)
	if err != nil {
		return nil, err
	}

	svc := booking.NewService(booking.ServiceConfig{
		Store:      store,
		Catalog:    catalog.Default(),
		Rules:      rules,
		Salon:      salon,
		Processor:  payments.NewSimulatedProcessor(cfg.PaymentDelay, logger),
		Dispatcher: dispatcher,
		Archive:    bootstrap.BuildArchive(cfg, awsCfg, logger),
		Metrics:    bookingMetrics,
		Logger:     logger,
	})
	contactSvc := contact.NewService(bootstrap.BuildContactSender(cfg, awsCfg, salon, logger), cfg.SalonInboxEmail, salon, logger)
	limiter := httpmiddleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	handler := router.New(&router.Config{
		Logger:             logger,
		Booking:            booking.NewHandler(svc, logger),
		Contact:            contact.NewHandler(contactSvc, logger),
		Format:             handlers.NewFormatHandler(logger),
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimiter:        limiter,
	})

	return &app{
		handler:    handler,
		dispatcher: dispatcher,
		limiter:    limiter,
		memStore:   memStore,
	}, nil
}

func setupMetrics() (http.Handler, *metrics.BookingMetrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), metrics.NewBookingMetrics(reg)
}

func sweepSessions(ctx context.Context, store *booking.InMemorySessionStore, logger *logging.Logger) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := store.Sweep(); n > 0 {
				logger.Debug("expired sessions swept", "count", n)
			}
		}
	}
}
